package generator

import (
	jww "github.com/spf13/jwalterweatherman"

	"github.com/notargets/comsol2aero/aero"
	"github.com/notargets/comsol2aero/grammar"
)

type SolidOptions struct {
	// Matusage repeats the attributes as a MATUSAGE section.
	Matusage bool
}

// NewSolid returns the AERO-S writer for m.
func NewSolid(m *aero.Mesh, opts SolidOptions, log *jww.Notepad) Generator {
	return newGenerator(m, log, func(m *aero.Mesh) grammar.Emitter { return solidMesh(m, opts) })
}

var separator = grammar.Concat(grammar.Text("*"), grammar.Newline)

// section is "NAME", the indexed rows and a separator line.
func section(name string, rows grammar.Emitter) grammar.Emitter {
	return grammar.RuleName(name, grammar.Concat(
		grammar.Text(name), grammar.Newline, rows, grammar.Newline, separator))
}

func solidMesh(m *aero.Mesh, opts SolidOptions) grammar.Emitter {
	ids := m.TopologyIDs()
	surface := func(i int) grammar.Emitter {
		id := ids[i]
		return grammar.RuleName("SURFACETOPO", grammar.Concat(
			grammar.Text("SURFACETOPO "), grammar.Text(id.Prefix), grammar.Int(id.ID), grammar.Newline,
			elements(m.SurfaceTopologies[id]), grammar.Newline,
			separator,
		))
	}
	return grammar.Concat(
		grammar.Text("* Created with comsol2aero version "+Version), grammar.Newline,
		separator,
		section("NODES", nodes(m)),
		section("TOPOLOGY", elements(m.Elements)),
		grammar.When(len(m.AttributeLabels) > 0, grammar.Concat(labels(m.AttributeLabels), separator)),
		section("ATTRIBUTES", values(m.Attributes)),
		grammar.When(opts.Matusage, section("MATUSAGE", values(m.Attributes))),
		grammar.When(len(ids) > 0, grammar.Join(len(ids), grammar.Text(""), surface)),
	)
}
