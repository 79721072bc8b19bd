package workload

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// Selector chooses operations from a fixed catalog by weighted random
// sampling: a uniform draw in [0, totalWeight) is resolved against a
// precomputed prefix-sum array with a binary search.
//
// A Selector is not safe for concurrent use; each batch owns its own.
type Selector struct {
	operations []Operation
	prefixSums []int
	total      int
	rng        *rand.Rand
}

func NewSelector(operations []Operation, rng *rand.Rand) (*Selector, error) {
	if len(operations) == 0 {
		return nil, errors.New("operation catalog must not be empty")
	}

	prefixSums := make([]int, len(operations))
	total := 0
	for i, op := range operations {
		if op.Weight <= 0 {
			return nil, errors.Errorf("operation %s has non-positive weight %d", op.Name, op.Weight)
		}
		total += op.Weight
		prefixSums[i] = total
	}

	return &Selector{
		operations: operations,
		prefixSums: prefixSums,
		total:      total,
		rng:        rng,
	}, nil
}

// Select returns the first operation whose cumulative weight exceeds a
// uniform draw in [0, totalWeight).
func (s *Selector) Select() *Operation {
	draw := s.rng.Intn(s.total)
	idx := sort.SearchInts(s.prefixSums, draw+1)
	return &s.operations[idx]
}
