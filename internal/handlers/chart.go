package handlers

import (
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jaskrrish/go-qsim/internal/models/sim"
)

// histogramChart plots the sampled counts of a QAOA run, one bar per observed bitstring
func histogramChart(run *sim.Run) (*charts.Bar, error) {
	if run.QAOA == nil || len(run.QAOA.Counts) == 0 {
		return nil, sim.ErrNoHistogram
	}
	result := run.QAOA

	outcomes := make([]string, 0, len(result.Counts))
	for outcome := range result.Counts {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)

	items := make([]opts.BarData, len(outcomes))
	for i, outcome := range outcomes {
		items[i] = opts.BarData{Value: result.Counts[outcome]}
	}

	title := fmt.Sprintf("QAOA n=%d p=%d", result.NumQubits, result.Depth)
	subtitle := fmt.Sprintf("shots=%d, γ=%.3f, mean cost=%.3f, best=%s", result.Shots, result.Gamma, result.MeanCost, result.BestBitstring)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(outcomes).
		AddSeries("count", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))

	return bar, nil
}
