package tui

import (
	"github.com/NimbleMarkets/ntcharts/sparkline"
)

// renderSparkline draws samples as a column chart. A known peak pins the
// scale so the chart doesn't rescale on every refresh.
func renderSparkline(samples []float64, width, height int, peak float64) string {
	if len(samples) == 0 {
		return ""
	}

	opts := []sparkline.Option{
		sparkline.WithStyle(sparkStyle),
		sparkline.WithData(samples),
	}
	if peak > 0 {
		opts = append(opts, sparkline.WithMaxValue(peak*1.1))
	}

	chart := sparkline.New(width, height, opts...)
	chart.DrawColumnsOnly()
	return chart.View()
}
