package strategies

import (
	"time"

	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

// fakeEnv is a canned Environment for exercising strategies directly.
type fakeEnv struct {
	histories map[string]models.CandleHistory
	prices    map[string]float64
	view      models.PortfolioView
	warming   bool
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		histories: make(map[string]models.CandleHistory),
		prices:    make(map[string]float64),
		view:      models.PortfolioView{Cash: 100000, Holdings: make(map[string]models.Holding)},
	}
}

func (e *fakeEnv) History(symbol string, n int, resolution enum.Resolution) models.CandleHistory {
	h := e.histories[symbol]
	return h.Last(n)
}

func (e *fakeEnv) Price(symbol string) float64 {
	return e.prices[symbol]
}

func (e *fakeEnv) Portfolio() models.PortfolioView {
	return e.view
}

func (e *fakeEnv) IsWarmingUp() bool {
	return e.warming
}

func (e *fakeEnv) setDailyCloses(symbol string, closes []float64) {
	candles := make([]models.Candle, len(closes))
	start := time.Date(2018, 1, 2, 9, 30, 0, 0, time.UTC)
	for i, c := range closes {
		candles[i] = models.Candle{
			Start:  start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Symbol: symbol,
		}
	}
	e.histories[symbol] = models.CandleHistory{Candles: candles}
	e.prices[symbol] = closes[len(closes)-1]
}

func (e *fakeEnv) hold(symbol string, quantity, price float64) {
	e.view.Holdings[symbol] = models.Holding{
		Symbol:       symbol,
		Quantity:     quantity,
		AveragePrice: price,
		MarketPrice:  price,
	}
}

func dailyBars(symbol string, highs, lows, closes []float64) models.CandleHistory {
	candles := make([]models.Candle, len(closes))
	start := time.Date(2018, 1, 2, 9, 30, 0, 0, time.UTC)
	for i := range closes {
		candles[i] = models.Candle{
			Start:  start.AddDate(0, 0, i),
			Open:   closes[i],
			High:   highs[i],
			Low:    lows[i],
			Close:  closes[i],
			Symbol: symbol,
		}
	}
	return models.CandleHistory{Candles: candles}
}
