package comsol

import (
	"io"
	"os"
	"strings"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/notargets/comsol2aero/grammar"
	"github.com/notargets/comsol2aero/utils"
)

const timestampPrefix = "# Created by COMSOL Multiphysics"

// ElementTypeNames are the element type names accepted in element sets.
var ElementTypeNames = []string{"vtx", "edg", "tet", "tri", "quad", "hex", "pyr", "prism"}

// Parser reads COMSOL Multiphysics text mesh files (.mphtxt).
type Parser struct {
	log *jww.Notepad
}

// NewParser returns a parser logging to log; nil keeps it quiet.
func NewParser(log *jww.Notepad) *Parser {
	return &Parser{log: utils.Notepad(log)}
}

// ParseString parses a whole mesh file held in memory.
func ParseString(text string) (*Mesh, error) {
	return NewParser(nil).ParseString(text)
}

// ParseFile reads and parses the mesh file at path.
func (p *Parser) ParseFile(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer file.Close()
	p.log.INFO.Printf("Reading COMSOL mesh file named: %s", path)
	return p.read(file, path)
}

// Parse reads the mesh from r until EOF.
func (p *Parser) Parse(r io.Reader) (*Mesh, error) {
	return p.read(r, "standard input")
}

func (p *Parser) read(r io.Reader, name string) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Path: name, Err: err}
	}
	return p.ParseString(string(data))
}

// ParseString parses text. Syntax errors are *grammar.SyntaxError values;
// use errors.Is with ErrNonZeroBaseIndex or ErrElementCountMismatch to
// tell the unsupported and corrupt cases apart.
func (p *Parser) ParseString(text string) (*Mesh, error) {
	m := &Mesh{}
	if err := grammar.ParseAll(grammar.NewScanner(text), meshRule(m)); err != nil {
		return nil, err
	}
	// Labels come padded with spaces in the file.
	for i := range m.Selections {
		m.Selections[i].Label = strings.Trim(m.Selections[i].Label, " ")
	}
	p.printModel(m)
	return m, nil
}

func meshRule(m *Mesh) grammar.Rule {
	return grammar.Expect(
		grammar.Named(`timestamp preceded by "`+timestampPrefix+`"`,
			grammar.NoSkip(grammar.Seq(grammar.Lit(timestampPrefix), grammar.UntilEOL(&m.Created)))),
		grammar.Named("version id in the form: integer integer",
			grammar.Seq(grammar.Uint(&m.Version[0]), grammar.Uint(&m.Version[1]))),
		symbolTable("tags definition", &m.Tags),
		symbolTable("object types definition", &m.Types),
		grammar.Named("mesh object", objectRule(&m.Object)),
		grammar.Many(grammar.Named("selection object", selectionRule(&m.Selections))),
	)
}

// counted reads "<n> <text>" where n is followed by at least one whitespace.
func counted(n *int, what string, text grammar.Rule) grammar.Rule {
	return grammar.Expect(
		grammar.Lexeme(grammar.Expect(grammar.Uint(n), grammar.Named("whitespace", grammar.Spaces()))),
		grammar.Named(what, text),
	)
}

func symbolTable(name string, dst *[]Symbol) grammar.Rule {
	var (
		count int
		sym   Symbol
	)
	entry := grammar.Then(counted(&sym.ID, "symbol name", grammar.Label(&sym.Name)),
		func() { *dst = append(*dst, sym) })
	return grammar.Named(name, grammar.Expect(
		grammar.Uint(&count),
		grammar.Named(name, grammar.Repeat(&count, entry)),
	))
}

func objectRule(o *MeshObject) grammar.Rule {
	var (
		ignored, nsets int
		point          []float64
		v              float64
	)
	coordinate := grammar.Then(grammar.Float(&v), func() { point = append(point, v) })
	points := grammar.Repeat(&o.NumMeshPoints, grammar.Seq(
		grammar.Do(func() { point = nil }),
		grammar.Repeat(&o.SpaceDimensions, coordinate),
		grammar.Do(func() { o.Coordinates = append(o.Coordinates, point) }),
	))
	baseIndex := grammar.Alt(
		grammar.UintIf(&o.BaseIndex, func(v int) bool { return v == 0 }),
		grammar.Reject(ErrNonZeroBaseIndex, grammar.Uint(&ignored)),
	)
	return grammar.Expect(
		grammar.Uint(&ignored), grammar.Uint(&ignored), grammar.Uint(&ignored),
		grammar.Named(`mesh object class "Mesh"`, counted(&o.ClassID, `"Mesh"`, grammar.Lit("Mesh"))),
		grammar.Named("mesh object version", grammar.Uint(&o.Version)),
		grammar.Named("number of space dimensions", grammar.Uint(&o.SpaceDimensions)),
		grammar.Named("number of mesh points", grammar.Uint(&o.NumMeshPoints)),
		grammar.Named("lowest mesh point index equal to 0", baseIndex),
		grammar.Named("mesh points definition", points),
		grammar.Named("number of element sets", grammar.Uint(&nsets)),
		grammar.Named("element sets", grammar.Repeat(&nsets, elementSetRule(&o.ElementSets))),
	)
}

func elementSetRule(dst *[]ElementSet) grammar.Rule {
	return func(s *grammar.Scanner) error {
		var (
			set                ElementSet
			count, indexCount  int
			n, v, geometricIdx int
			element            []int
		)
		index := grammar.Then(grammar.Uint(&v), func() { element = append(element, v) })
		// Slices grow with the input. Counts are untrusted until the data
		// behind them has been read.
		elements := grammar.Repeat(&count, grammar.Seq(
			grammar.Do(func() { element = nil }),
			grammar.Repeat(&set.NodesPerElement, index),
			grammar.Do(func() { set.Elements = append(set.Elements, element) }),
		))
		geometricCount := grammar.Alt(
			grammar.UintIf(&indexCount, func(c int) bool { return c == count }),
			grammar.Reject(ErrElementCountMismatch, grammar.Uint(&n)),
		)
		geometric := grammar.Then(grammar.Uint(&geometricIdx),
			func() { set.GeometricIndices = append(set.GeometricIndices, geometricIdx) })

		err := grammar.Expect(
			grammar.Named("element type name", counted(&set.Type.Tag, "element type name",
				grammar.Keyword(&set.Type.Name, ElementTypeNames...))),
			grammar.Named("number of nodes per element", grammar.Uint(&set.NodesPerElement)),
			grammar.Named("number of elements", grammar.Uint(&count)),
			grammar.Named("elements", elements),
			grammar.Named("geometric indices count equal to element count", geometricCount),
			grammar.Named("geometric entity indices", grammar.Repeat(&count, geometric)),
		)(s)
		if err != nil {
			return err
		}
		*dst = append(*dst, set)
		return nil
	}
}

func selectionRule(dst *[]SelectionObject) grammar.Rule {
	return func(s *grammar.Scanner) error {
		var (
			so             SelectionObject
			ignored, count int
			ignoredText    string
			entity         int
		)
		err := grammar.Expect(
			grammar.Uint(&ignored), grammar.Uint(&ignored), grammar.Uint(&ignored),
			grammar.Named(`selection object class "Selection"`,
				counted(&so.ClassID, `"Selection"`, grammar.Lit("Selection"))),
			grammar.Named("selection object version", grammar.Uint(&so.Version)),
			grammar.Named("object label followed by # label",
				grammar.Seq(grammar.Uint(&ignored), grammar.Label(&so.Label))),
			grammar.Named("geometry or mesh tag",
				grammar.Seq(grammar.Uint(&ignored), grammar.Label(&ignoredText))),
			grammar.Named("selection dimension", grammar.Uint(&so.DimSize)),
			grammar.Named("number of entities", grammar.Uint(&count)),
			grammar.Named("selection entities", grammar.Repeat(&count,
				grammar.Then(grammar.Uint(&entity), func() { so.Entities = append(so.Entities, entity) }))),
		)(s)
		if err != nil {
			return err
		}
		*dst = append(*dst, so)
		return nil
	}
}

func (p *Parser) printModel(m *Mesh) {
	if !utils.Verbose(p.log) {
		return
	}
	info := p.log.INFO
	info.Printf("COMSOL file created on:%s", m.Created)
	info.Printf("Version: %d %d", m.Version[0], m.Version[1])
	info.Printf("Tags count: %d", len(m.Tags))
	for i, tag := range m.Tags {
		info.Printf("  Tag no. %2d: %d, %s", i, tag.ID, tag.Name)
	}
	info.Printf("Types count: %d", len(m.Types))
	for i, typ := range m.Types {
		info.Printf("  Type no. %2d: %d, %s", i, typ.ID, typ.Name)
	}
	o := &m.Object
	info.Printf("Object ID: %d, version: %d", o.ClassID, o.Version)
	info.Printf("  Space dimensions: %d", o.SpaceDimensions)
	info.Printf("  Number of mesh points: %d", len(o.Coordinates))
	if lo, hi := o.Bounds(); lo != nil {
		info.Printf("  Bounding box: min %v, max %v", lo, hi)
	}
	if n := utils.CountNaN(o.Coordinates); n > 0 {
		info.Printf("  Points with NaN coordinates: %d", n)
	}
	info.Printf("  Element types count: %d", len(o.ElementSets))
	for i, set := range o.ElementSets {
		info.Printf("    Type %d: %d %s", i, set.Type.Tag, set.Type.Name)
		if len(set.Elements) > 0 {
			info.Printf("      Nodes per element: %d", set.NodesPerElement)
			info.Printf("      Number of elements: %d", len(set.Elements))
			info.Printf("      Number of geometric indices: %d", len(set.GeometricIndices))
		}
	}
	for _, so := range m.Selections {
		info.Printf("Selection object ID: %d", so.ClassID)
		info.Printf("  Label: %s", so.Label)
		info.Printf("  Dim: %d", so.DimSize)
		info.Printf("  Number of entities: %d", len(so.Entities))
	}
	info.Printf("Memory: %s", utils.GetMemUsage())
}
