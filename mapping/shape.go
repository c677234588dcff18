package mapping

import "fmt"

// Shape is an element shape the converter knows how to reindex.
type Shape uint8

const (
	Triangle Shape = iota
	Quadrilateral
	Tetrahedron
	Pyramid
	Prism
	Hexahedron
)

// Shapes lists every shape in option order.
var Shapes = []Shape{Triangle, Quadrilateral, Tetrahedron, Pyramid, Prism, Hexahedron}

var shapeInfo = []struct {
	keyword, name string
	domain        bool
	perm          []int
	defaultID     int
	supported     []int
}{
	Triangle:      {"tri", "Triangular", false, []int{2, 0, 1}, 3, []int{3, 4}},
	Quadrilateral: {"quad", "Quadrilateral", false, []int{2, 0, 1, 3}, 1, []int{1}},
	Tetrahedron:   {"tet", "Tetrahedral", true, []int{2, 0, 1, 3}, 23, []int{5, 23, 40, 41, 50, 311, 331}},
	Pyramid:       {"pyr", "Pyramidal", true, []int{4, 4, 4, 4, 2, 0, 1, 3}, 17, []int{17, 44, 45, 51, 70, 82, 201, 202}},
	Prism:         {"prism", "Prismatic", true, []int{2, 0, 1, 5, 3, 4}, 24, []int{24, 83, 90}},
	Hexahedron:    {"hex", "Hexahedral", true, []int{6, 2, 3, 7, 4, 0, 1, 5}, 17, []int{17, 44, 45, 51, 70, 82, 201, 202}},
}

// ShapeFromKeyword maps a COMSOL element type name to a shape. vtx, edg
// and unknown names report false.
func ShapeFromKeyword(keyword string) (Shape, bool) {
	for _, sh := range Shapes {
		if shapeInfo[sh].keyword == keyword {
			return sh, true
		}
	}
	return 0, false
}

func (sh Shape) valid() bool { return int(sh) < len(shapeInfo) }

// Keyword is the COMSOL element type name, also used as the option name.
func (sh Shape) Keyword() string {
	if !sh.valid() {
		return fmt.Sprintf("shape(%d)", sh)
	}
	return shapeInfo[sh].keyword
}

func (sh Shape) String() string {
	if !sh.valid() {
		return sh.Keyword()
	}
	return shapeInfo[sh].name
}

// IsDomain is true for volume shapes, false for surface shapes.
func (sh Shape) IsDomain() bool {
	return sh.valid() && shapeInfo[sh].domain
}

// Permutation returns a copy of the reindexing table of sh: entry k is the
// source-local node index written at target position k.
func (sh Shape) Permutation() []int {
	if !sh.valid() {
		return nil
	}
	return append([]int(nil), shapeInfo[sh].perm...)
}

func (sh Shape) DefaultTargetID() int {
	if !sh.valid() {
		return 0
	}
	return shapeInfo[sh].defaultID
}

// SupportedTargetIDs returns the AERO element type ids sh may map to.
func (sh Shape) SupportedTargetIDs() []int {
	if !sh.valid() {
		return nil
	}
	return append([]int(nil), shapeInfo[sh].supported...)
}

func (sh Shape) IsSupported(id int) bool {
	if !sh.valid() {
		return false
	}
	for _, s := range shapeInfo[sh].supported {
		if s == id {
			return true
		}
	}
	return false
}

// HelpText describes the option of sh, e.g.
// "Triangular element mapping. Valid values: 3, 4".
func (sh Shape) HelpText() string {
	text := sh.String() + " element mapping. Valid values: "
	for i, id := range sh.SupportedTargetIDs() {
		if i > 0 {
			text += ", "
		}
		text += fmt.Sprint(id)
	}
	return text
}

// DefaultMapping is the shape to target id table used when nothing else is
// configured.
func DefaultMapping() map[Shape]int {
	m := make(map[Shape]int, len(Shapes))
	for _, sh := range Shapes {
		m[sh] = sh.DefaultTargetID()
	}
	return m
}
