package comsol

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/comsol2aero/utils"
)

var dimensionNames = []string{"point", "edge", "face", "volume"}

// DimensionName returns point, edge, face or volume for a selection DimSize.
func DimensionName(dimSize int) string {
	if dimSize >= 0 && dimSize < len(dimensionNames) {
		return dimensionNames[dimSize]
	}
	return fmt.Sprintf("dimension %d", dimSize)
}

type SetSummary struct {
	Type              string `json:"type"`
	NodesPerElement   int    `json:"nodesPerElement"`
	Elements          int    `json:"elements"`
	GeometricEntities []int  `json:"geometricEntities"`
}

type SelectionSummary struct {
	Label     string `json:"label"`
	Dimension string `json:"dimension"`
	Entities  []int  `json:"entities"`
}

// Summary is a compact description of a parsed mesh.
type Summary struct {
	Created         string             `json:"created"`
	Version         string             `json:"version"`
	Tags            []string           `json:"tags"`
	Types           []string           `json:"types"`
	SpaceDimensions int                `json:"spaceDimensions"`
	MeshPoints      int                `json:"meshPoints"`
	NaNPoints       int                `json:"nanPoints,omitempty"`
	BoundsMin       []float64          `json:"boundsMin,omitempty"`
	BoundsMax       []float64          `json:"boundsMax,omitempty"`
	ElementSets     []SetSummary       `json:"elementSets"`
	Selections      []SelectionSummary `json:"selections,omitempty"`
}

func (m *Mesh) Summarize() (s Summary) {
	s.Created = strings.TrimSpace(m.Created)
	s.Version = fmt.Sprintf("%d.%d", m.Version[0], m.Version[1])
	for _, tag := range m.Tags {
		s.Tags = append(s.Tags, strings.TrimSpace(tag.Name))
	}
	for _, typ := range m.Types {
		s.Types = append(s.Types, strings.TrimSpace(typ.Name))
	}
	s.SpaceDimensions = m.Object.SpaceDimensions
	s.MeshPoints = len(m.Object.Coordinates)
	s.NaNPoints = utils.CountNaN(m.Object.Coordinates)
	s.BoundsMin, s.BoundsMax = m.Object.Bounds()
	for _, set := range m.Object.ElementSets {
		s.ElementSets = append(s.ElementSets, SetSummary{
			Type:              set.Type.Name,
			NodesPerElement:   set.NodesPerElement,
			Elements:          len(set.Elements),
			GeometricEntities: distinct(set.GeometricIndices),
		})
	}
	for _, so := range m.Selections {
		s.Selections = append(s.Selections, SelectionSummary{
			Label:     so.Label,
			Dimension: DimensionName(so.DimSize),
			Entities:  so.Entities,
		})
	}
	return
}

// YAML renders the summary as a YAML document.
func (s Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

func distinct(values []int) (out []int) {
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return
}
