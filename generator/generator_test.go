package generator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/comsol2aero/aero"
	"github.com/notargets/comsol2aero/grammar"
)

func sampleMesh() *aero.Mesh {
	m := aero.NewMesh()
	m.Nodes = [][]float64{{0, 1, 2.5}, {-1, 0, 0}}
	m.Elements = []aero.Element{{Type: 23, Connectivity: []int{1, 2, 1, 2}}}
	m.Attributes = []int{7}
	m.AttributeLabels = []string{"A", "B"}
	m.AddSurfaceElement(aero.TopologyID{ID: 2}, aero.Element{Type: 3, Connectivity: []int{1, 2, 1}})
	m.AddSurfaceElement(aero.TopologyID{ID: 1}, aero.Element{Type: 3, Connectivity: []int{2, 1, 2}})
	return m
}

func row(i string, vs ...float64) string {
	parts := []string{i}
	for _, v := range vs {
		parts = append(parts, grammar.FormatReal(v))
	}
	return strings.Join(parts, " ") + "\n"
}

func TestSolid(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewSolid(sampleMesh(), SolidOptions{Matusage: true}, nil).Generate(&out))
	want := "* Created with comsol2aero version " + Version + "\n" +
		"*\n" +
		"NODES\n" +
		row("1", 0, 1, 2.5) +
		row("2", -1, 0, 0) +
		"*\n" +
		"TOPOLOGY\n" +
		"1 23 1 2 1 2\n" +
		"*\n" +
		"* Attributes/matusage labels\n" +
		"* 1 A\n" +
		"* 2 B\n" +
		"*\n" +
		"ATTRIBUTES\n" +
		"1 7\n" +
		"*\n" +
		"MATUSAGE\n" +
		"1 7\n" +
		"*\n" +
		"SURFACETOPO 1\n" +
		"1 3 2 1 2\n" +
		"*\n" +
		"SURFACETOPO 2\n" +
		"1 3 1 2 1\n" +
		"*\n"
	assert.Equal(t, want, out.String())
	assert.Contains(t, out.String(), "1 0.000000000000000000000000 1.000000000000000000000000 2.500000000000000000000000\n")
}

func TestSolidWithoutOptionalSections(t *testing.T) {
	m := sampleMesh()
	m.AttributeLabels = nil
	m.SurfaceTopologies = nil
	var out bytes.Buffer
	require.NoError(t, NewSolid(m, SolidOptions{}, nil).Generate(&out))
	text := out.String()
	assert.NotContains(t, text, "labels")
	assert.NotContains(t, text, "MATUSAGE")
	assert.NotContains(t, text, "SURFACETOPO")
	assert.True(t, strings.HasSuffix(text, "TOPOLOGY\n1 23 1 2 1 2\n*\nATTRIBUTES\n1 7\n*\n"), text)
}

func TestSolidRunningIndex(t *testing.T) {
	m := sampleMesh()
	m.Attributes = []int{4, 0, 9}
	var out bytes.Buffer
	require.NoError(t, NewSolid(m, SolidOptions{}, nil).Generate(&out))
	assert.Contains(t, out.String(), "ATTRIBUTES\n1 4\n2 0\n3 9\n*\n")
}

func TestFluid(t *testing.T) {
	m := sampleMesh()
	m.SelectionSurfaceTopologies = []aero.SelectionSurfaceTopology{
		{Label: "Wall", Elements: []aero.Element{{Type: 3, Connectivity: []int{1, 2, 1}}}},
		{Label: "Nothing"},
	}
	var out bytes.Buffer
	require.NoError(t, NewFluid(m, nil).Generate(&out))
	want := "Nodes FluidNodes\n" +
		row("1", 0, 1, 2.5) +
		row("2", -1, 0, 0) +
		"Elements FluidMesh_0 using FluidNodes\n" +
		"1 23 1 2 1 2\n" +
		"Elements Surface_1 using FluidNodes\n" +
		"1 3 2 1 2\n" +
		"\n" +
		"Elements Surface_2 using FluidNodes\n" +
		"1 3 1 2 1\n" +
		"\n" +
		"Elements Wall using FluidNodes\n" +
		"1 3 1 2 1\n"
	assert.Equal(t, want, out.String())
}

func TestFluidPrefixes(t *testing.T) {
	m := aero.NewMesh()
	m.Nodes = [][]float64{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}
	m.Elements = []aero.Element{{Type: 5, Connectivity: []int{1, 2, 3, 1}}}
	m.AddSurfaceElement(aero.TopologyID{Prefix: "StickFixed", ID: 2}, aero.Element{Type: 4, Connectivity: []int{1, 2, 3}})
	m.AddSurfaceElement(aero.TopologyID{Prefix: "InletFixed", ID: 1}, aero.Element{Type: 4, Connectivity: []int{3, 2, 1}})
	var out bytes.Buffer
	require.NoError(t, NewFluid(m, nil).Generate(&out))
	text := out.String()
	inlet := strings.Index(text, "Elements InletFixedSurface_1 using FluidNodes\n1 4 3 2 1\n")
	stick := strings.Index(text, "Elements StickFixedSurface_2 using FluidNodes\n1 4 1 2 3\n")
	require.True(t, inlet > 0 && stick > inlet, text)
	assert.NotContains(t, text, "ATTRIBUTES")
}

func TestGenerationFailureWritesNothing(t *testing.T) {
	m := sampleMesh()
	m.Elements = nil
	var out bytes.Buffer
	err := NewSolid(m, SolidOptions{}, nil).Generate(&out)
	var ge *grammar.GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "TOPOLOGY", ge.Rule)
	assert.Zero(t, out.Len())

	m = sampleMesh()
	m.SurfaceTopologies = nil
	err = NewFluid(m, nil).Generate(&out)
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "surface elements", ge.Rule)
	assert.Zero(t, out.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteError(t *testing.T) {
	err := NewSolid(sampleMesh(), SolidOptions{}, nil).Generate(failingWriter{})
	assert.EqualError(t, err, "disk full")
}
