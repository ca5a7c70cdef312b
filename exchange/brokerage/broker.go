package brokerage

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

// cash currency the brokerage accounts settle in
const cashCurrency = "USD"

// LiveBroker executes target-allocation signals against the brokerage
// account: the position delta is computed from live balances and submitted
// as a notional market order.
type LiveBroker struct {
	client *Client

	mu    sync.RWMutex
	marks map[string]float64
}

func NewLiveBroker(client *Client) *LiveBroker {
	return &LiveBroker{
		client: client,
		marks:  make(map[string]float64),
	}
}

func (b *LiveBroker) MarkPrice(symbol string, price float64) {
	b.mu.Lock()
	b.marks[symbol] = price
	b.mu.Unlock()
}

func (b *LiveBroker) mark(symbol string) float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.marks[symbol]
}

func (b *LiveBroker) Portfolio() models.PortfolioView {
	balances, err := b.client.Balances(context.Background())
	if err != nil {
		log.WithError(err).Error("balance fetch failed, returning empty portfolio")
		return models.PortfolioView{Holdings: map[string]models.Holding{}}
	}

	view := models.PortfolioView{
		Cash:     balances[cashCurrency],
		Holdings: make(map[string]models.Holding),
	}
	for currency, quantity := range balances {
		if currency == cashCurrency || quantity == 0 {
			continue
		}
		view.Holdings[currency] = models.Holding{
			Symbol:      currency,
			Quantity:    quantity,
			MarketPrice: b.mark(currency),
		}
	}
	return view
}

func (b *LiveBroker) Execute(ctx context.Context, sig models.Signal) (models.Fill, error) {
	if !sig.Type.Actionable() {
		return models.Fill{}, nil
	}

	price := sig.Price
	if price == 0 {
		price = b.mark(sig.Symbol)
	}
	if price <= 0 {
		return models.Fill{}, fmt.Errorf("live: no price for %s", sig.Symbol)
	}

	view := b.Portfolio()
	currentValue := view.Holding(sig.Symbol).Quantity * price

	var deltaValue float64
	if sig.Type == enum.SignalLiquidate {
		deltaValue = -currentValue
	} else {
		if sig.Percent == 0 {
			return models.Fill{Symbol: sig.Symbol, Side: sig.Type, Price: price, Time: sig.Time}, nil
		}
		deltaValue = sig.TargetPercent()/100*view.Equity() - currentValue
	}
	if math.Abs(deltaValue) < minLiveNotionalUSD {
		return models.Fill{Symbol: sig.Symbol, Side: sig.Type, Price: price, Time: sig.Time}, nil
	}

	order, err := b.client.PlaceMarketOrder(ctx, sig.Symbol, math.Abs(deltaValue), deltaValue > 0)
	if err != nil {
		return models.Fill{}, err
	}
	return models.Fill{
		OrderID:     order.ClientOrderID,
		Symbol:      sig.Symbol,
		Side:        sig.Type,
		Quantity:    deltaValue / price,
		Price:       price,
		NotionalUSD: deltaValue,
		Time:        sig.Time,
	}, nil
}

const minLiveNotionalUSD = 1.0
