package exchange

import (
	"context"

	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

// IExchange is the market data and order surface the host consumes.
type IExchange interface {
	// CandleHistory returns up to n trailing closed candles, oldest first.
	CandleHistory(ctx context.Context, symbol string, n int, resolution enum.Resolution) (models.CandleHistory, error)
	// SubscribeToCandles streams closed candles for symbol; the returned
	// func tears the subscription down.
	SubscribeToCandles(symbol string, resolution enum.Resolution) (<-chan models.Candle, func(), error)
	// PlaceMarketOrder submits a notional market order.
	PlaceMarketOrder(ctx context.Context, symbol string, notionalUSD float64, isBuy bool) (models.Order, error)
	// Balances returns account cash balances by currency.
	Balances(ctx context.Context) (map[string]float64, error)
}
