package trace

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/sp301415/sumcheck/sumcheck"
)

// RoundRow is one completed round of a protocol run, with all field
// elements rendered as decimal strings.
type RoundRow struct {
	Round      int    `json:"round"`
	Univariate string `json:"univariate"`
	Challenge  string `json:"challenge,omitempty"`
	RandEval   string `json:"rand_eval,omitempty"`
	SumCheck   string `json:"sum_check"`
	Check      bool   `json:"check"`
}

// Record is an exportable summary of a protocol run.
type Record struct {
	NumVars    int        `json:"variables"`
	Modulus    string     `json:"modulus"`
	ClaimedSum string     `json:"claimed_sum"`
	Challenges []string   `json:"challenges"`
	Rounds     []RoundRow `json:"rounds"`
	Verdict    string     `json:"verdict"`
}

// NewRecord builds the exportable record of st.
// Terminated runs yield rows only for the rounds that completed.
func NewRecord(st *sumcheck.State) Record {
	challenges := make([]string, len(st.Rand))
	for i, r := range st.Rand {
		challenges[i] = r.String()
	}

	rows := make([]RoundRow, len(st.Univariate))
	for j := range rows {
		rows[j] = RoundRow{
			Round:      j,
			Univariate: st.Univariate[j].Text(),
			SumCheck:   st.SumCheck[j].String(),
			Check:      st.Checks[j],
		}
		if j < len(st.Rand) {
			rows[j].Challenge = st.Rand[j].String()
		}
		if j < len(st.RandEval) {
			rows[j].RandEval = st.RandEval[j].String()
		}
	}

	return Record{
		NumVars:    st.NumVars,
		Modulus:    st.Univariate[0].Field().Modulus().String(),
		ClaimedSum: st.H.String(),
		Challenges: challenges,
		Rounds:     rows,
		Verdict:    st.Verdict.String(),
	}
}

// WriteJSON writes the record of st to w as indented JSON.
func WriteJSON(w io.Writer, st *sumcheck.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewRecord(st))
}

// WriteCSV writes the per-round rows of st to w as CSV,
// with a header row followed by one row per completed round.
func WriteCSV(w io.Writer, st *sumcheck.State) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"round", "univariate", "challenge", "rand_eval", "sum_check", "check"}); err != nil {
		return err
	}
	for _, row := range NewRecord(st).Rounds {
		record := []string{
			strconv.Itoa(row.Round),
			row.Univariate,
			row.Challenge,
			row.RandEval,
			row.SumCheck,
			strconv.FormatBool(row.Check),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
