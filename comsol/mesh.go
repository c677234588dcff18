package comsol

import (
	"gonum.org/v1/gonum/floats"
)

// Symbol is one entry of the tags or types tables of a COMSOL file.
type Symbol struct {
	ID   int
	Name string
}

// ElementType is the type record of an element set: the integer COMSOL
// writes in front of the type name, and the name itself (vtx, edg, tri,
// quad, tet, hex, pyr or prism).
type ElementType struct {
	Tag  int
	Name string
}

// ElementSet holds all elements of one type. Elements index Coordinates
// from 0; GeometricIndices has one entry per element.
type ElementSet struct {
	Type             ElementType
	NodesPerElement  int
	Elements         [][]int
	GeometricIndices []int
}

// MeshObject is the single mesh object of a COMSOL file.
type MeshObject struct {
	ClassID         int
	Version         int
	SpaceDimensions int
	NumMeshPoints   int
	BaseIndex       int
	Coordinates     [][]float64
	ElementSets     []ElementSet
}

// Dimension sizes of a selection.
const (
	PointSelection = iota
	EdgeSelection
	FaceSelection
	VolumeSelection
)

// SelectionObject names a group of geometric entities.
type SelectionObject struct {
	ClassID  int
	Version  int
	Label    string
	DimSize  int
	Entities []int
}

// Mesh is the model of a COMSOL Multiphysics text mesh file.
type Mesh struct {
	Created    string
	Version    [2]int
	Tags       []Symbol
	Types      []Symbol
	Object     MeshObject
	Selections []SelectionObject
}

// Bounds returns the per-dimension minimum and maximum of the coordinates,
// or nil slices for a mesh without points.
func (o *MeshObject) Bounds() (lo, hi []float64) {
	if len(o.Coordinates) == 0 || o.SpaceDimensions == 0 {
		return
	}
	lo = make([]float64, o.SpaceDimensions)
	hi = make([]float64, o.SpaceDimensions)
	column := make([]float64, len(o.Coordinates))
	for d := 0; d < o.SpaceDimensions; d++ {
		for i, pt := range o.Coordinates {
			column[i] = pt[d]
		}
		lo[d], hi[d] = floats.Min(column), floats.Max(column)
	}
	return
}

// NumElements is the total element count over all element sets.
func (o *MeshObject) NumElements() (n int) {
	for _, set := range o.ElementSets {
		n += len(set.Elements)
	}
	return
}
