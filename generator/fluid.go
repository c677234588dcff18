package generator

import (
	"strconv"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/notargets/comsol2aero/aero"
	"github.com/notargets/comsol2aero/grammar"
)

// NewFluid returns the AERO-F writer for m. Attribute labels, attributes
// and matusage have no place in the fluid format and are dropped.
func NewFluid(m *aero.Mesh, log *jww.Notepad) Generator {
	return newGenerator(m, log, fluidMesh)
}

type block struct {
	name     string
	elements []aero.Element
}

func fluidBlocks(m *aero.Mesh) (blocks []block) {
	for _, id := range m.TopologyIDs() {
		blocks = append(blocks, block{
			name:     id.Prefix + "Surface_" + strconv.Itoa(id.ID),
			elements: m.SurfaceTopologies[id],
		})
	}
	// Selections that matched no surface would give an empty block.
	for _, sst := range m.SelectionSurfaceTopologies {
		if len(sst.Elements) > 0 {
			blocks = append(blocks, block{name: sst.Label, elements: sst.Elements})
		}
	}
	return
}

func fluidMesh(m *aero.Mesh) grammar.Emitter {
	blocks := fluidBlocks(m)
	return grammar.Concat(
		grammar.RuleName("Nodes", grammar.Concat(
			grammar.Text("Nodes FluidNodes"), grammar.Newline, nodes(m), grammar.Newline)),
		grammar.RuleName("FluidMesh_0", grammar.Concat(
			grammar.Text("Elements FluidMesh_0 using FluidNodes"), grammar.Newline,
			elements(m.Elements), grammar.Newline)),
		grammar.Discard(labels(m.AttributeLabels)),
		grammar.Discard(values(m.Attributes)),
		grammar.Discard(values(m.Attributes)),
		grammar.RuleName("surface elements", grammar.Join(len(blocks), grammar.Newline, func(i int) grammar.Emitter {
			b := blocks[i]
			return grammar.Concat(
				grammar.Text("Elements "+b.name+" using FluidNodes"), grammar.Newline,
				elements(b.elements), grammar.Newline,
			)
		})),
	)
}
