package generator

import (
	"io"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/notargets/comsol2aero/aero"
	"github.com/notargets/comsol2aero/grammar"
	"github.com/notargets/comsol2aero/utils"
)

// Version is stamped into solid mesh headers.
var Version = "0.1.0"

// Generator writes a converted mesh in one of the AERO text formats.
type Generator interface {
	Generate(w io.Writer) error
}

type generator struct {
	mesh *aero.Mesh
	root func(m *aero.Mesh) grammar.Emitter
	log  *jww.Notepad
}

// Generate renders the whole mesh before writing, so w receives nothing
// when generation fails.
func (g *generator) Generate(w io.Writer) error {
	out, err := grammar.Render(g.root(g.mesh))
	if err != nil {
		return err
	}
	if _, err = w.Write(out); err != nil {
		return err
	}
	g.log.INFO.Println("Aero mesh generation completed.")
	return nil
}

func nodes(m *aero.Mesh) grammar.Emitter {
	return grammar.Indexed(len(m.Nodes), func(i int) grammar.Emitter {
		return grammar.Reals(m.Nodes[i])
	})
}

func element(e aero.Element) grammar.Emitter {
	return grammar.Concat(grammar.Int(e.Type), grammar.Text(" "), grammar.Ints(e.Connectivity))
}

func elements(es []aero.Element) grammar.Emitter {
	return grammar.Indexed(len(es), func(i int) grammar.Emitter { return element(es[i]) })
}

func values(vs []int) grammar.Emitter {
	return grammar.Indexed(len(vs), func(i int) grammar.Emitter { return grammar.Int(vs[i]) })
}

// labels is the optional comment block naming attribute ids.
func labels(ls []string) grammar.Emitter {
	return grammar.When(len(ls) > 0, grammar.Concat(
		grammar.Text("* Attributes/matusage labels"), grammar.Newline,
		grammar.Join(len(ls), grammar.Newline, func(i int) grammar.Emitter {
			return grammar.Concat(grammar.Text("* "), grammar.Int(i+1), grammar.Text(" "), grammar.Text(ls[i]))
		}),
		grammar.Newline,
	))
}

func newGenerator(m *aero.Mesh, log *jww.Notepad, root func(*aero.Mesh) grammar.Emitter) *generator {
	return &generator{mesh: m, root: root, log: utils.Notepad(log)}
}
