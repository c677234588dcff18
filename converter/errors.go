package converter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedShape marks element sets that were skipped.
	ErrUnsupportedShape = errors.New("element type is not currently supported")
	// ErrAttributeOverwrites marks domain elements claimed by several selections.
	ErrAttributeOverwrites = errors.New("overwrites of element attributes")
	// ErrUnassignedElements marks domain elements no selection covered.
	ErrUnassignedElements = errors.New("elements were not assigned a selection")
	// ErrNoDomainElements marks a mesh made only of surface elements. Both
	// aero formats need at least one volume element.
	ErrNoDomainElements = errors.New("comsol mesh has no volume elements to convert")
)

// SurfacePrefixOverflowError reports a surface whose geometric index has no
// name in the prefix list.
type SurfacePrefixOverflowError struct {
	GeometricIndex int
	Prefixes       int
}

func (e *SurfacePrefixOverflowError) Error() string {
	return fmt.Sprintf("Comsol geometry contains more surfaces than the number of surface names provided "+
		"(surface index %d, %d names)", e.GeometricIndex, e.Prefixes)
}

// SelectionCoverageError reports domain elements left unassigned while an
// accepted selection list was given. Labels lists every selection of the
// source mesh.
type SelectionCoverageError struct {
	NotAssigned int
	Labels      []string
}

func (e *SelectionCoverageError) Error() string {
	var b strings.Builder
	b.WriteString("Selection set does not cover all elements. Please make sure that the comsol " +
		"selections include all possible elements and that command line arguments contain them. " +
		"Alternatively do not provide any selection names in the -s command.")
	if len(e.Labels) == 0 {
		b.WriteString(" No selections detected in comsol file.")
		return b.String()
	}
	b.WriteString(" Selections detected in comsol file follow")
	for _, l := range e.Labels {
		b.WriteString(", ")
		b.WriteString(l)
	}
	return b.String()
}
