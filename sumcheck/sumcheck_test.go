package sumcheck_test

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sp301415/sumcheck/field"
	"github.com/sp301415/sumcheck/mvpoly"
	"github.com/sp301415/sumcheck/sumcheck"
)

var testField = field.MustNewField(big.NewInt(5))

func mustParse(t *testing.T, f field.Field, s string) mvpoly.Poly {
	t.Helper()

	p, err := mvpoly.Parse(f, s)
	assert.NoError(t, err)
	return p
}

// recordSink records the order of sink callbacks.
type recordSink struct {
	begins     []int
	ends       []int
	terminated []int
}

func (s *recordSink) BeginRound(round int, final bool) { s.begins = append(s.begins, round) }
func (s *recordSink) EndRound(ev sumcheck.RoundEvent)  { s.ends = append(s.ends, ev.Round) }
func (s *recordSink) Terminate(round int)              { s.terminated = append(s.terminated, round) }

func TestEngine(t *testing.T) {
	g := mustParse(t, testField, "X_0*X_1 + X_0")
	seed := []byte("sumcheck-test-seed")

	t.Run("Accept", func(t *testing.T) {
		eng, err := sumcheck.NewEngine(g, sumcheck.NewRandomChallengerWithSeed(testField, seed))
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, sumcheck.Accepted, st.Verdict)
		assert.Equal(t, 2, st.NumVars)
		assert.Equal(t, int64(3), st.H.Int64())

		assert.Equal(t, 3, len(st.Univariate))
		assert.Equal(t, 3, len(st.SumCheck))
		assert.Equal(t, 3, len(st.Checks))
		assert.Equal(t, 3, len(st.RandEval))
		assert.Equal(t, 2, len(st.Rand))

		assert.Equal(t, "3*X_0", st.Univariate[0].Text())
		assert.Equal(t, int64(3), st.SumCheck[0].Int64())
		for j, ok := range st.Checks {
			assert.True(t, ok, "check of round %d", j)
		}
		assert.Equal(t, 0, st.RandEval[2].Cmp(st.RandEval[1]))
		for _, r := range st.Rand {
			assert.True(t, r.Sign() >= 0 && r.Cmp(testField.Modulus()) < 0)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		run := func() *sumcheck.State {
			eng, err := sumcheck.NewEngine(g, sumcheck.NewRandomChallengerWithSeed(testField, seed))
			assert.NoError(t, err)
			st, err := eng.Run()
			assert.NoError(t, err)
			return st
		}

		st0, st1 := run(), run()
		assert.Equal(t, len(st0.Rand), len(st1.Rand))
		for i := range st0.Rand {
			assert.Equal(t, 0, st0.Rand[i].Cmp(st1.Rand[i]))
		}
		assert.Equal(t, st0.Verdict, st1.Verdict)
	})

	t.Run("ParallelMatchesSequential", func(t *testing.T) {
		engSeq, err := sumcheck.NewEngine(g, sumcheck.NewRandomChallengerWithSeed(testField, seed))
		assert.NoError(t, err)
		engPar, err := sumcheck.NewEngine(g, sumcheck.NewRandomChallengerWithSeed(testField, seed), sumcheck.WithParallelSum())
		assert.NoError(t, err)

		stSeq, err := engSeq.Run()
		assert.NoError(t, err)
		stPar, err := engPar.Run()
		assert.NoError(t, err)

		assert.Equal(t, 0, stSeq.H.Cmp(stPar.H))
		assert.Equal(t, stSeq.Verdict, stPar.Verdict)
		for j := range stSeq.Univariate {
			assert.True(t, stSeq.Univariate[j].Equal(stPar.Univariate[j]))
			assert.Equal(t, 0, stSeq.SumCheck[j].Cmp(stPar.SumCheck[j]))
		}
	})

	t.Run("ConstantPolynomial", func(t *testing.T) {
		c := mustParse(t, testField, "4")
		eng, err := sumcheck.NewEngine(c, sumcheck.NewRandomChallenger(testField))
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, sumcheck.Accepted, st.Verdict)
		assert.Equal(t, 0, st.NumVars)
		assert.Equal(t, int64(4), st.H.Int64())
		assert.Equal(t, 1, len(st.Univariate))
		assert.Equal(t, 1, len(st.SumCheck))
		assert.Equal(t, int64(4), st.SumCheck[0].Int64())
		assert.Equal(t, 0, len(st.Rand))
		assert.Equal(t, 0, len(st.RandEval))
	})

	t.Run("EventSink", func(t *testing.T) {
		sink := &recordSink{}
		eng, err := sumcheck.NewEngine(g, sumcheck.NewRandomChallengerWithSeed(testField, seed), sumcheck.WithEventSink(sink))
		assert.NoError(t, err)

		_, err = eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, []int{0, 1, 2}, sink.begins)
		assert.Equal(t, []int{0, 1, 2}, sink.ends)
		assert.Equal(t, 0, len(sink.terminated))
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := sumcheck.NewEngine(g, nil)
		assert.Error(t, err)

		_, err = sumcheck.NewEngine(mvpoly.Poly{}, sumcheck.NewRandomChallenger(testField))
		assert.ErrorIs(t, err, field.ErrInvalidModulus)

		bound, err := g.Bind(0, big.NewInt(2))
		assert.NoError(t, err)
		_, err = sumcheck.NewEngine(bound, sumcheck.NewRandomChallenger(testField))
		assert.ErrorIs(t, err, mvpoly.ErrInvalidVariable)
	})
}

func TestInteractiveChallenger(t *testing.T) {
	g := mustParse(t, testField, "X_0*X_1 + X_0")

	t.Run("Accept", func(t *testing.T) {
		out := &bytes.Buffer{}
		ch := sumcheck.NewInteractiveChallenger(testField, strings.NewReader("2\n3\n"), out)
		eng, err := sumcheck.NewEngine(g, ch)
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, sumcheck.Accepted, st.Verdict)
		assert.Equal(t, int64(2), st.Rand[0].Int64())
		assert.Equal(t, int64(3), st.Rand[1].Int64())
		assert.Equal(t, 2, strings.Count(out.String(), "Enter c to cancel"))
		assert.NotContains(t, out.String(), "Invalid input")
	})

	t.Run("ReducesInput", func(t *testing.T) {
		out := &bytes.Buffer{}
		ch := sumcheck.NewInteractiveChallenger(testField, strings.NewReader(" 12 \n-2\n"), out)
		eng, err := sumcheck.NewEngine(g, ch)
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, int64(2), st.Rand[0].Int64())
		assert.Equal(t, int64(3), st.Rand[1].Int64())
	})

	t.Run("Cancel", func(t *testing.T) {
		gCancel := mustParse(t, testField, "X_0*X_1 + X_2")
		sink := &recordSink{}
		out := &bytes.Buffer{}
		ch := sumcheck.NewInteractiveChallenger(testField, strings.NewReader("c\n"), out)
		eng, err := sumcheck.NewEngine(gCancel, ch, sumcheck.WithEventSink(sink))
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, sumcheck.Terminated, st.Verdict)
		assert.Equal(t, 1, len(st.Univariate))
		assert.Equal(t, 1, len(st.SumCheck))
		assert.Equal(t, []bool{true}, st.Checks)
		assert.Equal(t, 0, len(st.Rand))
		assert.Equal(t, 0, len(st.RandEval))

		assert.Equal(t, []int{0, 1}, sink.begins)
		assert.Equal(t, []int{0}, sink.ends)
		assert.Equal(t, []int{1}, sink.terminated)
	})

	t.Run("EOFCancels", func(t *testing.T) {
		out := &bytes.Buffer{}
		ch := sumcheck.NewInteractiveChallenger(testField, strings.NewReader(""), out)
		eng, err := sumcheck.NewEngine(g, ch)
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)
		assert.Equal(t, sumcheck.Terminated, st.Verdict)
	})

	t.Run("RetryUnlimited", func(t *testing.T) {
		out := &bytes.Buffer{}
		ch := sumcheck.NewInteractiveChallenger(testField, strings.NewReader("x\ny\n2\n3\n"), out)
		eng, err := sumcheck.NewEngine(g, ch)
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, sumcheck.Accepted, st.Verdict)
		assert.Equal(t, int64(2), st.Rand[0].Int64())
		assert.Equal(t, 2, strings.Count(out.String(), "Invalid input. Enter an integer"))
		assert.NotContains(t, out.String(), "No more attempts")
	})

	t.Run("RetriesExhausted", func(t *testing.T) {
		out := &bytes.Buffer{}
		ch := sumcheck.NewInteractiveChallenger(testField, strings.NewReader("foo\nbar\n"), out)
		ch.MaxAttempts = 2
		eng, err := sumcheck.NewEngine(g, ch)
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, sumcheck.Terminated, st.Verdict)
		assert.Contains(t, out.String(), "Final attempt")
		assert.Contains(t, out.String(), "No more attempts.")
	})
}

func TestOracleChallenger(t *testing.T) {
	f := field.MustNewField(big.NewInt(1000000007))
	g := mustParse(t, f, "3*X_0^2*X_1 + 2*X_1*X_2 + 7*X_0 + 11")

	t.Run("Deterministic", func(t *testing.T) {
		run := func() *sumcheck.State {
			eng, err := sumcheck.NewEngine(g, sumcheck.NewOracleChallenger(f, g.NumVars()))
			assert.NoError(t, err)
			st, err := eng.Run()
			assert.NoError(t, err)
			return st
		}

		st0, st1 := run(), run()
		assert.Equal(t, sumcheck.Accepted, st0.Verdict)
		assert.Equal(t, len(st0.Rand), len(st1.Rand))
		for i := range st0.Rand {
			assert.Equal(t, 0, st0.Rand[i].Cmp(st1.Rand[i]))
		}
	})

	t.Run("Accept", func(t *testing.T) {
		eng, err := sumcheck.NewEngine(g, sumcheck.NewOracleChallenger(f, g.NumVars()))
		assert.NoError(t, err)

		st, err := eng.Run()
		assert.NoError(t, err)

		assert.Equal(t, sumcheck.Accepted, st.Verdict)
		for j, ok := range st.Checks {
			assert.True(t, ok, "check of round %d", j)
		}
	})

	t.Run("ContextBinding", func(t *testing.T) {
		u := mustParse(t, f, "3*X_0 + 1")

		r2, err := sumcheck.NewOracleChallenger(f, 2).Next(1, u)
		assert.NoError(t, err)
		r3, err := sumcheck.NewOracleChallenger(f, 3).Next(1, u)
		assert.NoError(t, err)
		assert.NotEqual(t, 0, r2.Cmp(r3))

		fB := field.MustNewField(big.NewInt(1000000009))
		uB := mustParse(t, fB, "3*X_0 + 1")
		rA, err := sumcheck.NewOracleChallenger(f, 1).Next(1, u)
		assert.NoError(t, err)
		rB, err := sumcheck.NewOracleChallenger(fB, 1).Next(1, uB)
		assert.NoError(t, err)
		assert.NotEqual(t, 0, rA.Cmp(rB))
	})
}

func TestCheckRound(t *testing.T) {
	g := mustParse(t, testField, "X_0*X_1 + X_0")

	eng, err := sumcheck.NewEngine(g, sumcheck.NewRandomChallengerWithSeed(testField, []byte("check-round")))
	assert.NoError(t, err)
	st, err := eng.Run()
	assert.NoError(t, err)

	t.Run("Honest", func(t *testing.T) {
		for j := 0; j <= st.NumVars; j++ {
			assert.True(t, sumcheck.CheckRound(j, st))
		}
	})

	t.Run("Tampered", func(t *testing.T) {
		for j := 0; j <= st.NumVars; j++ {
			tampered := st.SumCheck[j]
			st.SumCheck[j] = testField.Add(tampered, big.NewInt(1))
			assert.False(t, sumcheck.CheckRound(j, st))
			st.SumCheck[j] = tampered
		}
	})
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, "Accepted", sumcheck.Accepted.String())
	assert.Equal(t, "Rejected", sumcheck.Rejected.String())
	assert.Equal(t, "Terminated", sumcheck.Terminated.String())
	assert.Equal(t, "Unknown", sumcheck.Verdict(17).String())
}
