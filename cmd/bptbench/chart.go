package main

import (
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// writeChart draws one group of bars per operation and one bar per index,
// in milliseconds.
func writeChart(path string, results []Result) error {
	var ops, indexes []string
	for _, r := range results {
		if !slices.Contains(ops, r.Operation) {
			ops = append(ops, r.Operation)
		}
		if !slices.Contains(indexes, r.Index) {
			indexes = append(indexes, r.Index)
		}
	}

	p := plot.New()
	p.Title.Text = "B+ tree timings"
	p.Y.Label.Text = "ms"

	width := vg.Points(12)
	for i, index := range indexes {
		values := make(plotter.Values, len(ops))
		for _, r := range results {
			if r.Index == index {
				values[slices.Index(ops, r.Operation)] = float64(r.Elapsed.Microseconds()) / 1000
			}
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(i-len(indexes)/2)
		p.Add(bars)
		p.Legend.Add(index, bars)
	}
	p.Legend.Top = true
	p.NominalX(ops...)

	return p.Save(vg.Length(120+40*len(ops))*vg.Millimeter, 100*vg.Millimeter, path)
}
