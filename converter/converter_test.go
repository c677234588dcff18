package converter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/comsol2aero/aero"
	"github.com/notargets/comsol2aero/comsol"
	"github.com/notargets/comsol2aero/mapping"
	"github.com/notargets/comsol2aero/utils"
)

func points(n int) [][]float64 {
	pts := make([][]float64, n)
	for i := range pts {
		pts[i] = []float64{float64(i), 0.5 * float64(i), -float64(i)}
	}
	return pts
}

func set(name string, nodes int, elements [][]int, geometry ...int) comsol.ElementSet {
	return comsol.ElementSet{
		Type:             comsol.ElementType{Tag: 3, Name: name},
		NodesPerElement:  nodes,
		Elements:         elements,
		GeometricIndices: geometry,
	}
}

func selection(label string, dim int, entities ...int) comsol.SelectionObject {
	return comsol.SelectionObject{ClassID: 9, Label: label, DimSize: dim, Entities: entities}
}

func mesh(np int, sets []comsol.ElementSet, sels ...comsol.SelectionObject) *comsol.Mesh {
	return &comsol.Mesh{
		Object: comsol.MeshObject{
			SpaceDimensions: 3,
			NumMeshPoints:   np,
			Coordinates:     points(np),
			ElementSets:     sets,
		},
		Selections: sels,
	}
}

func twoTets() []comsol.ElementSet {
	return []comsol.ElementSet{set("tet", 4, [][]int{{0, 1, 2, 3}, {1, 2, 3, 4}}, 1, 2)}
}

func folding() Options {
	opts := DefaultOptions()
	opts.SelectionsToAttributes = true
	return opts
}

func TestSingleTetrahedron(t *testing.T) {
	src := mesh(4, []comsol.ElementSet{set("tet", 4, [][]int{{0, 1, 2, 3}}, 7)})
	out, st, err := New(DefaultOptions(), nil).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, out.Attributes)
	assert.Equal(t, []aero.Element{{Type: 23, Connectivity: []int{3, 1, 2, 4}}}, out.Elements)
	assert.Empty(t, out.AttributeLabels)
	assert.Empty(t, out.SurfaceTopologies)
	assert.Equal(t, Stats{}, st)
}

func TestNodesAreCopied(t *testing.T) {
	src := mesh(5, twoTets())
	out, _, err := New(DefaultOptions(), nil).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, src.Object.Coordinates, out.Nodes)

	src.Object.Coordinates[0][0] = 42
	assert.Equal(t, 0., out.Nodes[0][0])
}

func TestDomainElementCount(t *testing.T) {
	sets := append(twoTets(),
		set("hex", 8, [][]int{{0, 1, 2, 3, 4, 5, 6, 7}}, 3),
		set("tri", 3, [][]int{{0, 1, 2}, {1, 2, 3}}, 0, 1),
		set("pyr", 5, [][]int{{0, 1, 2, 3, 4}}, 4),
		set("prism", 6, [][]int{{0, 1, 2, 3, 4, 5}}, 5),
	)
	out, _, err := New(DefaultOptions(), nil).Convert(mesh(8, sets))
	require.NoError(t, err)
	require.Len(t, out.Elements, 5)
	assert.Len(t, out.Attributes, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, out.Attributes)
	assert.Equal(t, aero.Element{Type: 17, Connectivity: []int{5, 5, 5, 5, 3, 1, 2, 4}}, out.Elements[3])
	assert.Len(t, out.TopologyIDs(), 2)
}

func TestConvertIsDeterministic(t *testing.T) {
	src := mesh(5, twoTets(), selection("A", comsol.VolumeSelection, 1))
	a, _, err := New(folding(), nil).Convert(src)
	require.NoError(t, err)
	b, _, err := New(folding(), nil).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMappingOption(t *testing.T) {
	opts := Options{Mapping: map[mapping.Shape]int{mapping.Tetrahedron: 5}}
	out, _, err := New(opts, nil).Convert(mesh(5, append(twoTets(), set("tri", 3, [][]int{{0, 1, 2}}, 0))))
	require.NoError(t, err)
	assert.Equal(t, 5, out.Elements[0].Type)
	// Shapes missing from the table keep their default id.
	assert.Equal(t, 3, out.SurfaceTopologies[aero.TopologyID{ID: 1}][0].Type)
}

func TestSelectionLeavesElementUnassigned(t *testing.T) {
	var logged bytes.Buffer
	src := mesh(5, twoTets(), selection("A", comsol.VolumeSelection, 1))
	out, st, err := New(folding(), utils.NewNotepad(&logged, false)).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, []int{1, aero.Unassigned}, out.Attributes)
	assert.Equal(t, 1, st.NotAssigned)
	assert.Equal(t, 0, st.Overwrites)
	require.Len(t, st.Warnings, 1)
	assert.True(t, errors.Is(st.Warnings[0], ErrUnassignedElements))
	assert.Contains(t, logged.String(), "1, elements were not assigned a selection.")
	assert.Equal(t, []string{"A"}, out.AttributeLabels)
}

func TestLaterSelectionWins(t *testing.T) {
	src := mesh(5, twoTets(),
		selection("A", comsol.VolumeSelection, 1),
		selection("B", comsol.VolumeSelection, 1, 2))
	out, st, err := New(folding(), nil).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, out.Attributes)
	assert.Equal(t, 1, st.Overwrites)
	assert.Equal(t, 0, st.NotAssigned)
	require.Len(t, st.Warnings, 1)
	assert.True(t, errors.Is(st.Warnings[0], ErrAttributeOverwrites))
}

func TestSelectionPolicies(t *testing.T) {
	src := mesh(5, twoTets(),
		selection("Edge", comsol.EdgeSelection, 1),
		selection("Face", comsol.FaceSelection, 2),
		selection("Volume", comsol.VolumeSelection, 2))

	out, st, err := New(folding(), nil).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, out.Attributes)
	assert.Equal(t, 0, st.NotAssigned)

	opts := folding()
	opts.SelectionPolicy = VolumeSelections
	out, st, err = New(opts, nil).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, []int{aero.Unassigned, 3}, out.Attributes)
	assert.Equal(t, 1, st.NotAssigned)
}

func TestParseSelectionPolicy(t *testing.T) {
	p, err := ParseSelectionPolicy("volume")
	require.NoError(t, err)
	assert.Equal(t, VolumeSelections, p)
	assert.Equal(t, "non-surface", NonSurfaceSelections.String())
	_, err = ParseSelectionPolicy("all")
	assert.Error(t, err)
}

func TestAcceptedSelections(t *testing.T) {
	src := mesh(5, twoTets(),
		selection("A", comsol.VolumeSelection, 1),
		selection("B", comsol.VolumeSelection, 2),
		selection("C", comsol.VolumeSelection, 1, 2))
	opts := folding()
	opts.AcceptedSelections = []string{"B", "A"}
	out, st, err := New(opts, nil).Convert(src)
	require.NoError(t, err)
	// C is not accepted, ids follow the list order.
	assert.Equal(t, []int{2, 1}, out.Attributes)
	assert.Equal(t, []string{"B", "A"}, out.AttributeLabels)
	assert.Equal(t, Stats{}, st)
}

func TestSelectionCoverage(t *testing.T) {
	src := mesh(5, twoTets(),
		selection("A", comsol.VolumeSelection, 1),
		selection("B", comsol.FaceSelection, 0))
	opts := folding()
	opts.AcceptedSelections = []string{"A"}
	_, st, err := New(opts, nil).Convert(src)
	var cov *SelectionCoverageError
	require.True(t, errors.As(err, &cov))
	assert.Equal(t, 1, cov.NotAssigned)
	assert.Equal(t, 1, st.NotAssigned)
	assert.Contains(t, err.Error(), "Selections detected in comsol file follow, A, B")

	src.Selections = nil
	_, _, err = New(opts, nil).Convert(src)
	require.True(t, errors.As(err, &cov))
	assert.Contains(t, err.Error(), "No selections detected in comsol file.")
}

func TestSurfacePrefixes(t *testing.T) {
	sets := []comsol.ElementSet{set("tri", 3, [][]int{{0, 1, 2}, {1, 2, 3}, {2, 3, 4}}, 0, 1, 0)}
	opts := DefaultOptions()
	opts.SurfacePrefixes = []string{"InletFixed", "StickFixed"}
	out, _, err := New(opts, nil).Convert(mesh(5, sets))
	require.NoError(t, err)
	assert.Equal(t, []aero.TopologyID{{Prefix: "InletFixed", ID: 1}, {Prefix: "StickFixed", ID: 2}}, out.TopologyIDs())
	assert.Equal(t, []aero.Element{
		{Type: 3, Connectivity: []int{3, 1, 2}},
		{Type: 3, Connectivity: []int{5, 3, 4}},
	}, out.SurfaceTopologies[aero.TopologyID{Prefix: "InletFixed", ID: 1}])
	assert.Empty(t, out.Elements)
	assert.Empty(t, out.Attributes)
}

func TestSurfacePrefixOverflow(t *testing.T) {
	sets := []comsol.ElementSet{set("tri", 3, [][]int{{0, 1, 2}}, 5)}
	opts := DefaultOptions()
	opts.SurfacePrefixes = []string{"a", "b"}
	_, _, err := New(opts, nil).Convert(mesh(3, sets))
	var overflow *SurfacePrefixOverflowError
	require.True(t, errors.As(err, &overflow))
	assert.Equal(t, 5, overflow.GeometricIndex)
	assert.Equal(t, 2, overflow.Prefixes)

	// An index equal to the list length is already out of range.
	sets[0].GeometricIndices = []int{2}
	_, _, err = New(opts, nil).Convert(mesh(3, sets))
	assert.True(t, errors.As(err, &overflow))
}

func TestSelectionSurfaces(t *testing.T) {
	sets := []comsol.ElementSet{
		set("tri", 3, [][]int{{0, 1, 2}, {1, 2, 3}, {2, 3, 4}}, 0, 1, 1),
		set("quad", 4, [][]int{{0, 1, 2, 3}}, 2),
	}
	src := mesh(5, sets,
		selection("Wall", comsol.FaceSelection, 2, 1),
		selection("Body", comsol.VolumeSelection, 0))
	out, _, err := New(DefaultOptions(), nil).Convert(src)
	require.NoError(t, err)
	require.Len(t, out.SelectionSurfaceTopologies, 1)
	sst := out.SelectionSurfaceTopologies[0]
	assert.Equal(t, "Wall", sst.Label)
	assert.Equal(t, []aero.Element{
		{Type: 1, Connectivity: []int{3, 1, 2, 4}},
		{Type: 3, Connectivity: []int{4, 2, 3}},
		{Type: 3, Connectivity: []int{5, 3, 4}},
	}, sst.Elements)
}

func TestUnsupportedShapeIsSkipped(t *testing.T) {
	var logged bytes.Buffer
	sets := append([]comsol.ElementSet{set("vtx", 1, [][]int{{0}}, 0)}, twoTets()...)
	out, st, err := New(DefaultOptions(), utils.NewNotepad(&logged, false)).Convert(mesh(5, sets))
	require.NoError(t, err)
	assert.Len(t, out.Elements, 2)
	require.Len(t, st.Warnings, 1)
	assert.True(t, errors.Is(st.Warnings[0], ErrUnsupportedShape))
	assert.Contains(t, logged.String(), "Element with Comsol id name: vtx is not currently supported.")
}

func TestElementCountMismatch(t *testing.T) {
	sets := twoTets()
	sets[0].GeometricIndices = []int{1}
	_, _, err := New(DefaultOptions(), nil).Convert(mesh(5, sets))
	assert.True(t, errors.Is(err, comsol.ErrElementCountMismatch))
}

func TestShortElementFails(t *testing.T) {
	sets := []comsol.ElementSet{set("hex", 4, [][]int{{0, 1, 2, 3}}, 0)}
	_, _, err := New(DefaultOptions(), nil).Convert(mesh(4, sets))
	assert.Error(t, err)
}

func TestAttributeLabels(t *testing.T) {
	sets := append(twoTets(), set("tri", 3, [][]int{{0, 1, 2}}, 0))
	src := mesh(5, sets, selection("A", comsol.VolumeSelection, 1, 2), selection("B", comsol.FaceSelection, 0))
	out, _, err := New(DefaultOptions(), nil).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, out.AttributeLabels)

	opts := DefaultOptions()
	opts.DuplicateLabels = true
	out, _, err = New(opts, nil).Convert(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "A", "B"}, out.AttributeLabels)
}

func TestVerboseProgress(t *testing.T) {
	var logged bytes.Buffer
	src := mesh(5, twoTets(), selection("A", comsol.VolumeSelection, 1, 2))
	_, _, err := New(folding(), utils.NewNotepad(&logged, true)).Convert(src)
	require.NoError(t, err)
	out := logged.String()
	assert.Contains(t, out, "Number of nodes: 5")
	assert.Contains(t, out, "Comsol type id: tet(4 nodes) to aero type id: 23")
	assert.Contains(t, out, "Selection object: A")
}
