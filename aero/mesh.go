package aero

import "sort"

// Unassigned is the attribute of a domain element no selection covered.
const Unassigned = 0

// Element is one target element: its AERO element type id and its 1-based
// node ids.
type Element struct {
	Type         int
	Connectivity []int
}

// TopologyID keys a surface topology: the name prefix and the 1-based
// surface id.
type TopologyID struct {
	Prefix string
	ID     int
}

func (t TopologyID) less(o TopologyID) bool {
	if t.Prefix != o.Prefix {
		return t.Prefix < o.Prefix
	}
	return t.ID < o.ID
}

// SelectionSurfaceTopology is the face elements of one named surface
// selection.
type SelectionSurfaceTopology struct {
	Label    string
	Elements []Element
}

// Mesh is the converted mesh handed to the generators.
type Mesh struct {
	Nodes                      [][]float64
	Elements                   []Element
	Attributes                 []int
	AttributeLabels            []string
	SurfaceTopologies          map[TopologyID][]Element
	SelectionSurfaceTopologies []SelectionSurfaceTopology
}

func NewMesh() *Mesh {
	return &Mesh{SurfaceTopologies: make(map[TopologyID][]Element)}
}

// AddSurfaceElement appends e to the surface topology id, keeping insertion
// order within the surface.
func (m *Mesh) AddSurfaceElement(id TopologyID, e Element) {
	if m.SurfaceTopologies == nil {
		m.SurfaceTopologies = make(map[TopologyID][]Element)
	}
	m.SurfaceTopologies[id] = append(m.SurfaceTopologies[id], e)
}

// TopologyIDs returns the surface topology keys ordered by prefix, then id.
// Writers iterate surfaces in this order.
func (m *Mesh) TopologyIDs() []TopologyID {
	ids := make([]TopologyID, 0, len(m.SurfaceTopologies))
	for id := range m.SurfaceTopologies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].less(ids[j]) })
	return ids
}
