// Package gate throttles scheduled runs so only a fraction of them post.
package gate

import (
	"github.com/pkg/errors"
)

// ErrInvalidChance is returned when the denominator is below one.
var ErrInvalidChance = errors.New("chance denominator must be at least 1")

// IntNSource is the subset of *rand.Rand used for sampling.
type IntNSource interface {
	IntN(n int) int
}

// Roll reports whether this run should proceed. It draws a uniform integer in
// [0, chance) and proceeds only on zero, so the run goes ahead with
// probability 1/chance.
func Roll(rng IntNSource, chance int) (bool, error) {
	if chance < 1 {
		return false, errors.Wrapf(ErrInvalidChance, "got %d", chance)
	}
	return rng.IntN(chance) == 0, nil
}
