package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/pkowalke/algohost/entities/trader"
	"github.com/pkowalke/algohost/models"
)

// WriteSessionReport renders one kline chart per symbol plus the portfolio
// equity curve into a single HTML page.
func WriteSessionReport(path string, candles map[string]models.CandleHistory, equity []trader.EquityPoint) error {
	page := components.NewPage()
	page.PageTitle = "algohost session"

	for symbol, history := range candles {
		if history.Len() == 0 {
			continue
		}
		page.AddCharts(klineChart(symbol, history))
	}
	if len(equity) > 0 {
		page.AddCharts(equityChart(equity))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("report render: %w", err)
	}
	return nil
}

func klineChart(symbol string, history models.CandleHistory) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: symbol}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1280px",
			Height: "480px",
			Theme:  types.ThemeInfographic,
		}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
			Type:       "inside",
		}),
	)

	x := make([]string, 0, history.Len())
	y := make([]opts.KlineData, 0, history.Len())
	for _, c := range history.Candles {
		x = append(x, c.Start.Format("2006-01-02 15:04"))
		y = append(y, opts.KlineData{Value: []float64{c.Open, c.Close, c.Low, c.High}})
	}
	kline.SetXAxis(x).AddSeries(symbol, y)
	return kline
}

func equityChart(equity []trader.EquityPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "portfolio equity"}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1280px",
			Height: "320px",
		}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
	)

	x := make([]string, 0, len(equity))
	y := make([]opts.LineData, 0, len(equity))
	for _, p := range equity {
		x = append(x, p.Time.Format("2006-01-02 15:04"))
		y = append(y, opts.LineData{Value: p.Equity})
	}
	line.SetXAxis(x).AddSeries("equity", y)
	return line
}
