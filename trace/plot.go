package trace

import (
	"fmt"
	"io"
	"math/big"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sp301415/sumcheck/sumcheck"
)

// WritePlotHTML renders the per-round consistency checks of st as a
// standalone HTML page with an interactive line chart.
// Each round contributes the value the verifier expected and the value
// the prover claimed; the two series coincide exactly when the run is honest.
func WritePlotHTML(w io.Writer, st *sumcheck.State) error {
	labels := make([]string, len(st.SumCheck))
	expected := make([]opts.LineData, len(st.SumCheck))
	claimed := make([]opts.LineData, len(st.SumCheck))
	for j := range st.SumCheck {
		if j == st.NumVars {
			labels[j] = "final check"
		} else {
			labels[j] = fmt.Sprintf("round %d", j)
		}
		expected[j] = opts.LineData{Value: bigToFloat(expectedValue(j, st))}
		claimed[j] = opts.LineData{Value: bigToFloat(st.SumCheck[j])}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Sum-check consistency",
			Subtitle: fmt.Sprintf("%d variables, verdict: %s", st.NumVars, st.Verdict),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "round"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value"}),
	)

	line.SetXAxis(labels).
		AddSeries("expected", expected).
		AddSeries("claimed", claimed).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))

	page := components.NewPage().SetPageTitle("Sum-check run")
	page.AddCharts(line)
	return page.Render(w)
}

// expectedValue returns the verifier side of the round-j consistency check.
func expectedValue(j int, st *sumcheck.State) *big.Int {
	switch {
	case j == 0:
		return st.H
	case j < st.NumVars:
		return st.RandEval[j-1]
	default:
		return st.RandEval[j]
	}
}

func bigToFloat(x *big.Int) float64 {
	f, _ := new(big.Float).SetInt(x).Float64()
	return f
}
