package sumcheck

import (
	"errors"
	"math/big"

	"github.com/sp301415/sumcheck/field"
	"github.com/sp301415/sumcheck/mvpoly"
)

var (
	// ErrCancelled is returned by a [Challenger] when the verifier
	// cancels the run.
	ErrCancelled = errors.New("challenge cancelled")
	// ErrRetriesExhausted is returned by a [Challenger] when the verifier
	// fails to produce a challenge within the allowed attempts.
	ErrRetriesExhausted = errors.New("no more attempts")
)

// Challenger produces the verifier challenge of each round.
//
// Next is called at the start of round j, for 1 <= j <= v, with the round
// polynomial of round j-1. The returned challenge binds the variable
// X_{j-1}. Returning [ErrCancelled] or [ErrRetriesExhausted] terminates
// the run; any other error aborts it.
type Challenger interface {
	Next(round int, prev mvpoly.Poly) (*big.Int, error)
}

// RandomChallenger draws challenges uniformly at random,
// independently of any previous choices.
type RandomChallenger struct {
	sampler *field.UniformSampler
}

// NewRandomChallenger creates a new RandomChallenger over f.
func NewRandomChallenger(f field.Field) *RandomChallenger {
	return &RandomChallenger{
		sampler: field.NewUniformSampler(f),
	}
}

// NewRandomChallengerWithSeed creates a new RandomChallenger over f with seed.
// Two challengers with the same seed draw the same challenges.
func NewRandomChallengerWithSeed(f field.Field, seed []byte) *RandomChallenger {
	return &RandomChallenger{
		sampler: field.NewUniformSamplerWithSeed(f, seed),
	}
}

// Next implements the [Challenger] interface.
func (c *RandomChallenger) Next(round int, prev mvpoly.Poly) (*big.Int, error) {
	return c.sampler.SampleMod(), nil
}
