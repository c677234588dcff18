package converter

import (
	"fmt"

	"github.com/notargets/comsol2aero/comsol"
	"github.com/notargets/comsol2aero/mapping"
)

// SelectionPolicy decides which selections may be folded into attributes.
type SelectionPolicy int

const (
	// NonSurfaceSelections folds every selection except face selections.
	NonSurfaceSelections SelectionPolicy = iota
	// VolumeSelections folds only volume selections.
	VolumeSelections
)

var policyNames = []string{"non-surface", "volume"}

func (p SelectionPolicy) String() string {
	if p >= 0 && int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("SelectionPolicy(%d)", int(p))
}

// ParseSelectionPolicy reads "non-surface" or "volume".
func ParseSelectionPolicy(name string) (SelectionPolicy, error) {
	for i, n := range policyNames {
		if n == name {
			return SelectionPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown selection policy %q, valid values: non-surface, volume", name)
}

func (p SelectionPolicy) eligible(so comsol.SelectionObject) bool {
	if p == VolumeSelections {
		return so.DimSize == comsol.VolumeSelection
	}
	return so.DimSize != comsol.FaceSelection
}

// Options drive one conversion.
type Options struct {
	// Mapping gives the AERO element type id per shape. Missing shapes use
	// their default id.
	Mapping map[mapping.Shape]int
	// SelectionsToAttributes replaces the geometric index attribute of
	// domain elements with the id of the selection covering them.
	SelectionsToAttributes bool
	// SurfacePrefixes names surfaces by geometric index.
	SurfacePrefixes []string
	// AcceptedSelections restricts folding to these labels; the position in
	// the list becomes the attribute id. A non-empty list also demands that
	// every domain element is covered.
	AcceptedSelections []string
	SelectionPolicy    SelectionPolicy
	// DuplicateLabels repeats the attribute labels once per element set.
	DuplicateLabels bool
}

// DefaultOptions keeps geometric indices as attributes and uses the default
// element type ids.
func DefaultOptions() Options {
	return Options{Mapping: mapping.DefaultMapping()}
}
