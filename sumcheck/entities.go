package sumcheck

import (
	"math/big"

	"github.com/sp301415/sumcheck/mvpoly"
)

// Verdict is the terminal status of a protocol run.
type Verdict int

const (
	// Accepted means the final oracle check passed.
	Accepted Verdict = iota
	// Rejected means the final oracle check failed.
	Rejected
	// Terminated means the run stopped before the final check,
	// because the challenge source cancelled or ran out of attempts.
	Terminated
)

// String implements the [fmt.Stringer] interface.
func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "Accepted"
	case Rejected:
		return "Rejected"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// State is the complete record of one protocol run over a polynomial
// g in v variables. A full run has v+1 rounds, numbered 0 to v.
//
// A terminated run holds the values of the rounds that completed:
// challenges are drawn at the start of rounds 1 to v, so a run
// terminated at round j has j challenges missing their round records.
type State struct {
	// NumVars is the number of variables v of the target polynomial.
	NumVars int

	// H is the claimed sum of the target polynomial
	// over the Boolean hypercube, computed at round 0.
	H *big.Int

	// Rand holds the challenges r_0, ..., r_{v-1}, in draw order.
	Rand []*big.Int

	// Univariate holds the round polynomials. Univariate[j] is univariate
	// in X_j for j < v; Univariate[v] is the fully bound polynomial.
	Univariate []mvpoly.Poly

	// RandEval holds evaluations of round polynomials at their challenges:
	// RandEval[j] = Univariate[j](r_j) for j < v, and RandEval[v]
	// repeats RandEval[v-1] as the expected value of the final check.
	RandEval []*big.Int

	// SumCheck holds the claimed values: SumCheck[j] = Univariate[j](0) +
	// Univariate[j](1) for j < v, and the oracle evaluation of the
	// target polynomial at Rand for j = v.
	SumCheck []*big.Int

	// Checks records the result of the consistency check of each round.
	Checks []bool

	// Verdict is the final verdict of the run.
	Verdict Verdict
}

// RoundEvent is the record of one completed round, as passed to an [EventSink].
type RoundEvent struct {
	// Round is the round number, from 0 to NumVars.
	Round int
	// NumVars is the number of variables of the target polynomial.
	NumVars int
	// H is the claimed sum over the Boolean hypercube.
	H *big.Int
	// Rand holds the challenges drawn so far.
	Rand []*big.Int
	// Univariate is the round polynomial.
	Univariate mvpoly.Poly
	// RandEval is the expected value of this round's check,
	// evaluated from the previous round polynomial. It is nil at round 0.
	RandEval *big.Int
	// SumCheck is the claimed value of this round's check.
	SumCheck *big.Int
	// Passed reports whether the consistency check passed.
	Passed bool
	// Final reports whether this is the final round.
	Final bool
}

// EventSink receives protocol progress round by round.
// The engine calls it synchronously from [Engine.Run].
type EventSink interface {
	// BeginRound is called when round j starts, before the challenge
	// for the round is drawn.
	BeginRound(round int, final bool)
	// EndRound is called when round j completes.
	EndRound(ev RoundEvent)
	// Terminate is called instead of EndRound when the challenge
	// source stops the run at round j.
	Terminate(round int)
}

type nopSink struct{}

func (nopSink) BeginRound(round int, final bool) {}
func (nopSink) EndRound(ev RoundEvent)           {}
func (nopSink) Terminate(round int)              {}
