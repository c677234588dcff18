package converter

import (
	"fmt"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/notargets/comsol2aero/aero"
	"github.com/notargets/comsol2aero/comsol"
	"github.com/notargets/comsol2aero/mapping"
	"github.com/notargets/comsol2aero/utils"
)

// Converter turns a parsed COMSOL mesh into an AERO mesh.
type Converter struct {
	opts    Options
	mappers map[mapping.Shape]mapping.Mapper
	log     *jww.Notepad
}

// Stats reports the non fatal findings of a conversion.
type Stats struct {
	Overwrites  int
	NotAssigned int
	Warnings    []error
}

func New(opts Options, log *jww.Notepad) *Converter {
	c := &Converter{
		opts:    opts,
		mappers: make(map[mapping.Shape]mapping.Mapper, len(mapping.Shapes)),
		log:     utils.Notepad(log),
	}
	for _, sh := range mapping.Shapes {
		id, ok := opts.Mapping[sh]
		if !ok {
			id = sh.DefaultTargetID()
		}
		c.mappers[sh] = mapping.MustNew(sh, id)
	}
	return c
}

// Convert builds the target mesh. The source is not modified and shares no
// memory with the result.
func (c *Converter) Convert(src *comsol.Mesh) (*aero.Mesh, Stats, error) {
	var (
		st    Stats
		out   = aero.NewMesh()
		info  = c.log.INFO
		coord = src.Object.Coordinates
	)
	info.Println("Converting mesh of comsol mesh to aero mesh...")
	info.Println("Converting nodes...")
	info.Printf("  Number of nodes: %d", len(coord))
	out.Nodes = make([][]float64, len(coord))
	for i, pt := range coord {
		out.Nodes[i] = append([]float64(nil), pt...)
	}

	info.Println("Converting topology")
	for i := range src.Object.ElementSets {
		set := &src.Object.ElementSets[i]
		if len(set.Elements) != len(set.GeometricIndices) {
			return nil, st, fmt.Errorf("element set %d (%s): %w", i, set.Type.Name, comsol.ErrElementCountMismatch)
		}
		sh, ok := mapping.ShapeFromKeyword(set.Type.Name)
		switch {
		case !ok:
			err := fmt.Errorf("%w: %s", ErrUnsupportedShape, set.Type.Name)
			c.log.WARN.Printf("Warning: Element with Comsol id name: %s is not currently supported.", set.Type.Name)
			st.Warnings = append(st.Warnings, err)
		case sh.IsDomain():
			if err := c.convertDomain(src, set, c.mappers[sh], out, &st); err != nil {
				return nil, st, err
			}
		default:
			if err := c.convertBoundary(set, c.mappers[sh], out); err != nil {
				return nil, st, err
			}
		}
		if i == 0 || c.opts.DuplicateLabels {
			out.AttributeLabels = append(out.AttributeLabels, c.labels(src)...)
		}
	}

	c.selectionSurfaces(src, out)

	if st.Overwrites > 0 {
		c.log.WARN.Printf("Warning: %d overwrites of element attributes. Later selection sets were prioritized.",
			st.Overwrites)
		st.Warnings = append(st.Warnings, fmt.Errorf("%d %w", st.Overwrites, ErrAttributeOverwrites))
	}
	if st.NotAssigned > 0 {
		c.log.WARN.Printf("Warning: %d, elements were not assigned a selection.", st.NotAssigned)
		st.Warnings = append(st.Warnings, fmt.Errorf("%d %w", st.NotAssigned, ErrUnassignedElements))
		if len(c.opts.AcceptedSelections) > 0 {
			e := &SelectionCoverageError{NotAssigned: st.NotAssigned}
			for _, so := range src.Selections {
				e.Labels = append(e.Labels, so.Label)
			}
			return nil, st, e
		}
	}
	return out, st, nil
}

func (c *Converter) convertDomain(src *comsol.Mesh, set *comsol.ElementSet, m mapping.Mapper, out *aero.Mesh,
	st *Stats) error {
	c.log.INFO.Printf("Comsol type id: %s(%d nodes) to aero type id: %d",
		set.Type.Name, set.NodesPerElement, m.TargetTypeID())
	c.log.INFO.Printf("  Number of elements: %d", len(set.Elements))
	for j, el := range set.Elements {
		con, err := m.Map(el)
		if err != nil {
			return fmt.Errorf("%s element %d: %w", set.Type.Name, j, err)
		}
		out.Elements = append(out.Elements, aero.Element{Type: m.TargetTypeID(), Connectivity: con})
	}
	if !c.opts.SelectionsToAttributes {
		out.Attributes = append(out.Attributes, set.GeometricIndices...)
		return nil
	}
	out.Attributes = append(out.Attributes, c.resolveAttributes(src.Selections, set.GeometricIndices, st)...)
	return nil
}

// resolveAttributes assigns each element the id of the last eligible
// selection containing its geometric index.
func (c *Converter) resolveAttributes(selections []comsol.SelectionObject, geometry []int, st *Stats) []int {
	attrs := make([]int, len(geometry))
	set := make([]bool, len(geometry))
	for i, so := range selections {
		if !c.opts.SelectionPolicy.eligible(so) {
			continue
		}
		id := i
		if len(c.opts.AcceptedSelections) > 0 {
			if id = indexOf(c.opts.AcceptedSelections, so.Label); id < 0 {
				continue
			}
		}
		c.log.INFO.Println("Attribute conversion.")
		c.log.INFO.Printf("  Selection object: %s", so.Label)
		c.log.INFO.Printf("    Number of entites: %d", len(so.Entities))
		for _, entity := range so.Entities {
			for j, g := range geometry {
				if g != entity {
					continue
				}
				if set[j] {
					st.Overwrites++
				}
				attrs[j] = id + 1
				set[j] = true
			}
		}
	}
	for j := range attrs {
		if !set[j] {
			attrs[j] = aero.Unassigned
			st.NotAssigned++
		}
	}
	return attrs
}

func (c *Converter) convertBoundary(set *comsol.ElementSet, m mapping.Mapper, out *aero.Mesh) error {
	c.log.INFO.Printf("Comsol type id: %s to Aero surfacetopo type id: %d", set.Type.Name, m.TargetTypeID())
	c.log.INFO.Printf("  Number of faces: %d", len(set.GeometricIndices))
	prefixes := c.opts.SurfacePrefixes
	for j, g := range set.GeometricIndices {
		con, err := m.Map(set.Elements[j])
		if err != nil {
			return fmt.Errorf("%s element %d: %w", set.Type.Name, j, err)
		}
		var prefix string
		if len(prefixes) > 0 {
			if g >= len(prefixes) {
				return &SurfacePrefixOverflowError{GeometricIndex: g, Prefixes: len(prefixes)}
			}
			prefix = prefixes[g]
		}
		out.AddSurfaceElement(aero.TopologyID{Prefix: prefix, ID: g + 1},
			aero.Element{Type: m.TargetTypeID(), Connectivity: con})
	}
	return nil
}

func (c *Converter) labels(src *comsol.Mesh) []string {
	if len(c.opts.AcceptedSelections) > 0 {
		return c.opts.AcceptedSelections
	}
	labels := make([]string, len(src.Selections))
	for i, so := range src.Selections {
		labels[i] = so.Label
	}
	return labels
}

// selectionSurfaces groups the surface elements named by face selections.
func (c *Converter) selectionSurfaces(src *comsol.Mesh, out *aero.Mesh) {
	if len(src.Selections) > 0 {
		c.log.INFO.Println("Surface selections conversion.")
	}
	ids := out.TopologyIDs()
	for _, so := range src.Selections {
		if so.DimSize != comsol.FaceSelection {
			continue
		}
		c.log.INFO.Printf("  Surface Selection: %s", so.Label)
		c.log.INFO.Printf("    Entities: %d", len(so.Entities))
		sst := aero.SelectionSurfaceTopology{Label: so.Label}
		for _, entity := range so.Entities {
			for _, id := range ids {
				if id.ID-1 == entity {
					sst.Elements = append(sst.Elements, out.SurfaceTopologies[id]...)
				}
			}
		}
		out.SelectionSurfaceTopologies = append(out.SelectionSurfaceTopologies, sst)
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
