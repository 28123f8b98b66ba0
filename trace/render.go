package trace

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/sp301415/sumcheck/sumcheck"
)

// Renderer prints the protocol transcript round by round.
// It implements the [sumcheck.EventSink] interface, narrating each round
// in terms of the prover P and the verifier V.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a new Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// BeginRound implements the [sumcheck.EventSink] interface.
func (r *Renderer) BeginRound(round int, final bool) {
	if final {
		r.banner("Final check")
		return
	}
	r.banner(fmt.Sprintf("Round %d", round))
}

// Terminate implements the [sumcheck.EventSink] interface.
func (r *Renderer) Terminate(round int) {
	r.banner("Protocol terminated")
}

// EndRound implements the [sumcheck.EventSink] interface.
func (r *Renderer) EndRound(ev sumcheck.RoundEvent) {
	j, v := ev.Round, ev.NumVars

	if j > 0 {
		fmt.Fprintf(r.w, "V sends %s, chosen uniformly at random from F, independently of any previous choices, to P.\n", ev.Rand[j-1])
	}

	if j < v {
		fmt.Fprintf(r.w, "\nP sends the following univariate polynomial to V:\n\n")

		boolVars := make([]string, 0, v-j-1)
		for k := j + 1; k < v; k++ {
			boolVars = append(boolVars, fmt.Sprintf("b_%d", k))
		}

		inputs := make([]string, 0, v)
		for _, x := range ev.Rand {
			inputs = append(inputs, x.String())
		}
		inputs = append(inputs, fmt.Sprintf("X_%d", j))
		inputs = append(inputs, boolVars...)
		polyInput := strings.Join(inputs, ", ")

		var lhs string
		if j < v-1 {
			lhs = fmt.Sprintf("g_%d(X_%d) = sum g(%s) over %s in {0,1}^%d",
				j, j, polyInput, strings.Join(boolVars, ", "), len(boolVars))
		} else {
			lhs = fmt.Sprintf("g_%d(X_%d) = g(%s)", j, j, polyInput)
		}
		r.aligned(lhs, "= "+ev.Univariate.Text())
	}

	switch {
	case j == 0:
		hypVars := make([]string, 0, v)
		for k := 0; k < v; k++ {
			hypVars = append(hypVars, fmt.Sprintf("b_%d", k))
		}
		hyp := strings.Join(hypVars, ", ")
		fmt.Fprintf(r.w, "\nV checks that H = g_0(0) + g_0(1), where H is sum of g(%s) over %s in {0,1}^%d, according to P.\n\n", hyp, hyp, v)
		if j < v {
			r.aligned(
				fmt.Sprintf("H = %s", ev.H),
				fmt.Sprintf("g_%d(0) + g_%d(1) = %s", j, j, ev.SumCheck),
			)
		}

	case j < v:
		fmt.Fprintf(r.w, "\nV compares two most recent polynomials by checking that g_%d(%s) = g_%d(0) + g_%d(1):\n\n", j-1, ev.Rand[j-1], j, j)
		r.aligned(
			fmt.Sprintf("g_%d(%s) = %s", j-1, ev.Rand[j-1], ev.RandEval),
			fmt.Sprintf("g_%d(0) + g_%d(1) = %s", j, j, ev.SumCheck),
		)

	default:
		tuple := joinValues(ev.Rand)
		fmt.Fprintf(r.w, "\nV checks that g_%d(%s) = g(%s) (the RHS given P, assuming P committed to g at the outset, or an oracle):\n\n", j-1, ev.Rand[j-1], tuple)
		r.aligned(
			fmt.Sprintf("g_%d(%s) = %s", j-1, ev.Rand[j-1], ev.RandEval),
			fmt.Sprintf("g(%s) = %s", tuple, ev.SumCheck),
		)
	}

	switch {
	case ev.Passed && ev.Final:
		fmt.Fprintln(r.w, "\nFINAL CHECK PASSED: ACCEPT")
	case ev.Passed:
		fmt.Fprintln(r.w, "\nCHECK PASSED")
	default:
		fmt.Fprintln(r.w, "\nCHECK FAILED: REJECT")
	}
}

// banner prints s in uppercase between two rules of = signs.
func (r *Renderer) banner(s string) {
	line := strings.Repeat("=", len(s))
	fmt.Fprintf(r.w, "\n%s\n%s\n%s\n\n", line, strings.ToUpper(s), line)
}

// aligned prints equations aligned on their first = sign.
func (r *Renderer) aligned(eqs ...string) {
	type equation struct {
		left, right string
	}

	parts := make([]equation, 0, len(eqs))
	maxLeft := 0
	for _, eq := range eqs {
		left, right, ok := strings.Cut(eq, "=")
		if !ok {
			continue
		}
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if len(left) > maxLeft {
			maxLeft = len(left)
		}
		parts = append(parts, equation{left: left, right: right})
	}

	for _, p := range parts {
		fmt.Fprintf(r.w, "%*s = %s\n", maxLeft, p.left, p.right)
	}
}

func joinValues(xs []*big.Int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return strings.Join(parts, ", ")
}
