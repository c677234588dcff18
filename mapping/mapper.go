package mapping

import "fmt"

// Mapper reindexes the 0-based connectivity of one source element into the
// 1-based node order of a target element type.
type Mapper interface {
	TargetTypeID() int
	Map(element []int) ([]int, error)
}

type permutationMapper struct {
	id   int
	perm []int
}

// New returns the mapper of shape sh emitting target element type id.
func New(sh Shape, id int) (Mapper, error) {
	if !sh.valid() {
		return nil, fmt.Errorf("unknown element shape %d", sh)
	}
	return &permutationMapper{id: id, perm: shapeInfo[sh].perm}, nil
}

// MustNew is New for shapes known to be valid, such as the entries of
// Shapes. It panics otherwise.
func MustNew(sh Shape, id int) Mapper {
	m, err := New(sh, id)
	if err != nil {
		panic(err)
	}
	return m
}

func (p *permutationMapper) TargetTypeID() int { return p.id }

// Map emits element[perm[k]]+1 for every k. The result always has the
// length of the permutation, so a 5 node pyramid becomes 8 nodes.
func (p *permutationMapper) Map(element []int) ([]int, error) {
	out := make([]int, len(p.perm))
	for k, src := range p.perm {
		if src >= len(element) {
			return nil, fmt.Errorf("element with %d nodes has no local node %d", len(element), src)
		}
		out[k] = element[src] + 1
	}
	return out, nil
}
