package sumcheck

// CheckRound reports whether the consistency check of the given round
// holds in st. The state must hold the values of rounds 0 through round.
//
// Round 0 checks the claimed sum against the first round polynomial:
// H = g_0(0) + g_0(1). A round 0 < j < v checks consecutive round
// polynomials: g_{j-1}(r_{j-1}) = g_j(0) + g_j(1). Round v checks the
// last round polynomial against the oracle evaluation:
// g_{v-1}(r_{v-1}) = g(r_0, ..., r_{v-1}).
func CheckRound(round int, st *State) bool {
	switch {
	case round == 0:
		return st.H.Cmp(st.SumCheck[0]) == 0
	case round < st.NumVars:
		return st.RandEval[round-1].Cmp(st.SumCheck[round]) == 0
	default:
		return st.RandEval[round].Cmp(st.SumCheck[round]) == 0
	}
}
