package manager

import (
	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

// runtimeEnv is the Environment the manager hands to one algorithm.
type runtimeEnv struct {
	m  *Manager
	rt *algoRuntime
}

func (e *runtimeEnv) History(symbol string, n int, resolution enum.Resolution) models.CandleHistory {
	history, err := e.m.exchange.CandleHistory(e.m.ctx, symbol, n, resolution)
	if err != nil {
		log.WithError(err).WithField("symbol", symbol).Warn("history fetch failed")
		return models.CandleHistory{}
	}
	return history.Last(n)
}

// Price prefers the stream's latest close; before any bar arrived it falls
// back to the most recent candle the exchange knows about.
func (e *runtimeEnv) Price(symbol string) float64 {
	e.rt.priceMu.RLock()
	price, ok := e.rt.lastPrices[symbol]
	e.rt.priceMu.RUnlock()
	if ok && price > 0 {
		return price
	}

	history, err := e.m.exchange.CandleHistory(e.m.ctx, symbol, 1, e.rt.reqs.Resolution)
	if err != nil || history.Len() == 0 {
		return 0
	}
	return history.Candles[history.Len()-1].Close
}

func (e *runtimeEnv) Portfolio() models.PortfolioView {
	return e.m.broker.Portfolio()
}

// IsWarmingUp stays true until every requested symbol can serve the declared
// warmup bar count of daily history. The answer is cached once satisfied.
func (e *runtimeEnv) IsWarmingUp() bool {
	if e.rt.reqs.WarmupBars <= 0 || e.rt.warm {
		return false
	}
	for _, symbol := range e.rt.reqs.Symbols {
		history, err := e.m.exchange.CandleHistory(e.m.ctx, symbol, e.rt.reqs.WarmupBars, enum.Resolution1d)
		if err != nil || history.Len() < e.rt.reqs.WarmupBars {
			return true
		}
	}
	e.rt.warm = true
	return false
}
