// Package selector picks one canned response out of a pool.
package selector

import "math/rand/v2"

// ResponseSelector chooses one string from a non-empty candidate list.
// Implementations carry no state between picks.
type ResponseSelector interface {
	Pick(candidates []string) string
}

// Uniform picks a uniformly random candidate
type Uniform struct{}

// NewUniform creates the default selector
func NewUniform() Uniform {
	return Uniform{}
}

// Pick returns a random candidate, or "" for an empty pool
func (Uniform) Pick(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rand.IntN(len(candidates))]
}

// First always picks the first candidate. Tests use it for reproducible output.
type First struct{}

func (First) Pick(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// Func adapts a plain function to ResponseSelector
type Func func(candidates []string) string

func (f Func) Pick(candidates []string) string {
	return f(candidates)
}
