// Package sumcheck implements the sum-check interactive proof protocol
// over multivariate polynomials on prime fields.
//
// A prover claims that the sum H of a polynomial g in v variables over
// all Boolean assignments equals a given value; the protocol reduces the
// claim over v+1 rounds to a single evaluation of g at a random point.
// Each round the prover sends a univariate polynomial, and the verifier
// answers with a random challenge drawn by a [Challenger].
package sumcheck

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/sp301415/sumcheck/field"
	"github.com/sp301415/sumcheck/logger"
	"github.com/sp301415/sumcheck/mvpoly"
)

// Engine drives protocol runs over a target polynomial: it reduces the
// polynomial round by round on the prover side, draws challenges from a
// [Challenger] on the verifier side, and records the consistency check
// of every round.
type Engine struct {
	poly  mvpoly.Poly
	field field.Field

	challenger Challenger
	sink       EventSink

	parallel bool
}

// Option configures an [Engine].
type Option func(*Engine) error

// WithEventSink streams round records to sink as a run progresses.
func WithEventSink(sink EventSink) Option {
	return func(e *Engine) error {
		if sink == nil {
			return fmt.Errorf("nil event sink")
		}
		e.sink = sink
		return nil
	}
}

// WithParallelSum computes the Boolean sums of each round
// using all available cores.
func WithParallelSum() Option {
	return func(e *Engine) error {
		e.parallel = true
		return nil
	}
}

// NewEngine creates a new Engine over the target polynomial g.
//
// The modulus of the field of g must be prime, and all variables of g
// must be free.
func NewEngine(g mvpoly.Poly, challenger Challenger, opts ...Option) (*Engine, error) {
	if challenger == nil {
		return nil, fmt.Errorf("nil challenger")
	}
	if g.Field().Modulus() == nil || !g.Field().Modulus().ProbablyPrime(0) {
		return nil, field.ErrInvalidModulus
	}
	if len(g.FreeVars()) != g.NumVars() {
		return nil, fmt.Errorf("target polynomial has bound variables: %w", mvpoly.ErrInvalidVariable)
	}

	e := &Engine{
		poly:  g,
		field: g.Field(),

		challenger: challenger,
		sink:       nopSink{},
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Run executes the protocol once and returns the completed state.
//
// A run stopped by the challenger returns the partial state with verdict
// [Terminated] and a nil error; per-round check failures are recorded in
// the state without stopping the run. A non-nil error is returned only
// when a round cannot be computed or the challenger fails in an
// unexpected way.
//
// Stateful challengers such as [OracleChallenger] must not be reused
// across runs.
func (e *Engine) Run() (*State, error) {
	log := logger.Logger()

	v := e.poly.NumVars()
	st := &State{NumVars: v}

	log.Debug().Int("variables", v).Msg("starting sum-check run")

	H, err := e.hypercubeSum(e.poly)
	if err != nil {
		return nil, err
	}
	st.H = H

	working := e.poly
	for j := 0; j <= v; j++ {
		e.sink.BeginRound(j, j == v)

		if j > 0 {
			r, err := e.challenger.Next(j, st.Univariate[j-1])
			if errors.Is(err, ErrCancelled) || errors.Is(err, ErrRetriesExhausted) {
				st.Verdict = Terminated
				e.sink.Terminate(j)
				log.Info().Int("round", j).Msg("sum-check run terminated")
				return st, nil
			}
			if err != nil {
				return nil, err
			}
			r = e.field.FromBigInt(r)
			st.Rand = append(st.Rand, r)

			randEval, err := st.Univariate[j-1].EvalUnivariate(j-1, r)
			if err != nil {
				panic(err)
			}
			st.RandEval = append(st.RandEval, randEval)

			working, err = working.Bind(j-1, r)
			if err != nil {
				panic(err)
			}
		}

		if j < v {
			sumVars := make([]int, 0, v-j-1)
			for i := j + 1; i < v; i++ {
				sumVars = append(sumVars, i)
			}
			uni, err := e.sumBoolean(working, sumVars)
			if err != nil {
				return nil, err
			}
			st.Univariate = append(st.Univariate, uni)

			at0, err := uni.EvalUnivariate(j, big.NewInt(0))
			if err != nil {
				panic(err)
			}
			at1, err := uni.EvalUnivariate(j, big.NewInt(1))
			if err != nil {
				panic(err)
			}
			st.SumCheck = append(st.SumCheck, e.field.Add(at0, at1))
		} else {
			st.Univariate = append(st.Univariate, working)
			if v > 0 {
				st.RandEval = append(st.RandEval, big.NewInt(0).Set(st.RandEval[v-1]))
			}

			oracleEval, err := e.poly.Evaluate(st.Rand)
			if err != nil {
				panic(err)
			}
			st.SumCheck = append(st.SumCheck, oracleEval)
		}

		passed := CheckRound(j, st)
		st.Checks = append(st.Checks, passed)
		if j == v {
			if passed {
				st.Verdict = Accepted
			} else {
				st.Verdict = Rejected
			}
		}

		log.Debug().Int("round", j).Bool("passed", passed).Str("sumCheck", st.SumCheck[j].String()).Msg("round finished")

		e.sink.EndRound(RoundEvent{
			Round:      j,
			NumVars:    v,
			H:          st.H,
			Rand:       append([]*big.Int{}, st.Rand...),
			Univariate: st.Univariate[j],
			RandEval:   roundRandEval(j, st),
			SumCheck:   st.SumCheck[j],
			Passed:     passed,
			Final:      j == v,
		})
	}

	log.Info().Str("verdict", st.Verdict.String()).Msg("sum-check run finished")
	return st, nil
}

// roundRandEval returns the expected value of the check of round j,
// or nil at round 0.
func roundRandEval(j int, st *State) *big.Int {
	switch {
	case j == 0:
		return nil
	case j < st.NumVars:
		return st.RandEval[j-1]
	default:
		return st.RandEval[j]
	}
}

func (e *Engine) hypercubeSum(p mvpoly.Poly) (*big.Int, error) {
	if e.parallel {
		return p.HypercubeSumParallel()
	}
	return p.HypercubeSum()
}

func (e *Engine) sumBoolean(p mvpoly.Poly, vars []int) (mvpoly.Poly, error) {
	if e.parallel {
		return p.SumBooleanParallel(vars)
	}
	return p.SumBoolean(vars)
}
