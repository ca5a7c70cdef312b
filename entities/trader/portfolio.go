package trader

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

var paperLog = logrus.WithField("component", "paper")

// minNotionalUSD below which an adjustment is skipped instead of traded.
const minNotionalUSD = 1.0

type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// PaperPortfolio is the default Broker: an in-memory cash-and-holdings book
// that fills every order at the signal price. Target-percent execution
// mirrors the host scripts' SetHoldings semantics: the order notional is the
// difference between the target share of equity and the current market value.
type PaperPortfolio struct {
	mu       sync.RWMutex
	cash     float64
	holdings map[string]*models.Holding
	realized float64
	fills    []models.Fill
	equity   []EquityPoint
}

func NewPaperPortfolio(startingCash float64) *PaperPortfolio {
	return &PaperPortfolio{
		cash:     startingCash,
		holdings: make(map[string]*models.Holding),
	}
}

func (p *PaperPortfolio) MarkPrice(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.holdings[symbol]; ok {
		h.MarketPrice = price
	}
}

func (p *PaperPortfolio) Portfolio() models.PortfolioView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	view := models.PortfolioView{
		Cash:     p.cash,
		Holdings: make(map[string]models.Holding, len(p.holdings)),
	}
	for symbol, h := range p.holdings {
		view.Holdings[symbol] = *h
	}
	return view
}

func (p *PaperPortfolio) Equity() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.equityLocked()
}

func (p *PaperPortfolio) RealizedPnL() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.realized
}

func (p *PaperPortfolio) Fills() []models.Fill {
	p.mu.RLock()
	defer p.mu.RUnlock()
	fills := make([]models.Fill, len(p.fills))
	copy(fills, p.fills)
	return fills
}

// SampleEquity appends the current equity to the session curve.
func (p *PaperPortfolio) SampleEquity(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.equity = append(p.equity, EquityPoint{Time: t, Equity: p.equityLocked()})
}

func (p *PaperPortfolio) EquityCurve() []EquityPoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	curve := make([]EquityPoint, len(p.equity))
	copy(curve, p.equity)
	return curve
}

func (p *PaperPortfolio) Execute(ctx context.Context, sig models.Signal) (models.Fill, error) {
	if !sig.Type.Actionable() {
		return models.Fill{}, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	price := sig.Price
	if price == 0 {
		if h, ok := p.holdings[sig.Symbol]; ok {
			price = h.MarketPrice
		}
	}
	if price <= 0 {
		return models.Fill{}, fmt.Errorf("paper: no price for %s", sig.Symbol)
	}

	if sig.Type == enum.SignalLiquidate {
		return p.liquidateLocked(sig, price), nil
	}
	if sig.Percent == 0 {
		return p.noopFill(sig, price), nil
	}

	targetValue := sig.TargetPercent() / 100 * p.equityLocked()
	currentQty := p.quantityLocked(sig.Symbol)
	deltaValue := targetValue - currentQty*price
	if math.Abs(deltaValue) < minNotionalUSD {
		return p.noopFill(sig, price), nil
	}

	qtyDelta := deltaValue / price
	p.applyFillLocked(sig.Symbol, qtyDelta, price)

	fill := models.Fill{
		OrderID:     uuid.NewString(),
		Symbol:      sig.Symbol,
		Side:        sig.Type,
		Quantity:    qtyDelta,
		Price:       price,
		NotionalUSD: deltaValue,
		Time:        sig.Time,
	}
	p.fills = append(p.fills, fill)
	paperLog.WithFields(logrus.Fields{
		"symbol":   fill.Symbol,
		"quantity": fill.Quantity,
		"price":    fill.Price,
		"notional": fill.NotionalUSD,
	}).Info("filled")
	return fill, nil
}

func (p *PaperPortfolio) liquidateLocked(sig models.Signal, price float64) models.Fill {
	qty := p.quantityLocked(sig.Symbol)
	if qty == 0 {
		return p.noopFill(sig, price)
	}
	p.applyFillLocked(sig.Symbol, -qty, price)
	fill := models.Fill{
		OrderID:     uuid.NewString(),
		Symbol:      sig.Symbol,
		Side:        enum.SignalLiquidate,
		Quantity:    -qty,
		Price:       price,
		NotionalUSD: -qty * price,
		Time:        sig.Time,
	}
	p.fills = append(p.fills, fill)
	paperLog.WithFields(logrus.Fields{
		"symbol":   fill.Symbol,
		"quantity": fill.Quantity,
		"price":    fill.Price,
	}).Info("liquidated")
	return fill
}

func (p *PaperPortfolio) noopFill(sig models.Signal, price float64) models.Fill {
	return models.Fill{
		OrderID: uuid.NewString(),
		Symbol:  sig.Symbol,
		Side:    sig.Type,
		Price:   price,
		Time:    sig.Time,
	}
}

func (p *PaperPortfolio) quantityLocked(symbol string) float64 {
	if h, ok := p.holdings[symbol]; ok {
		return h.Quantity
	}
	return 0
}

func (p *PaperPortfolio) equityLocked() float64 {
	total := p.cash
	for _, h := range p.holdings {
		total += h.Quantity * h.MarketPrice
	}
	return total
}

// applyFillLocked moves qtyDelta shares at price through cash, the holding
// and realized PnL. Reductions realize against the average price; opening
// or flipping resets the average to the fill price.
func (p *PaperPortfolio) applyFillLocked(symbol string, qtyDelta, price float64) {
	p.cash -= qtyDelta * price

	h, ok := p.holdings[symbol]
	if !ok {
		h = &models.Holding{Symbol: symbol}
		p.holdings[symbol] = h
	}
	oldQty := h.Quantity
	newQty := oldQty + qtyDelta

	switch {
	case oldQty == 0 || oldQty*newQty < 0:
		// opened or flipped through zero: realize the closed leg, restart
		if oldQty != 0 {
			p.realized += oldQty * (price - h.AveragePrice)
		}
		h.AveragePrice = price
	case math.Abs(newQty) > math.Abs(oldQty):
		// increasing the position: weight the average
		h.AveragePrice = (h.AveragePrice*math.Abs(oldQty) + price*math.Abs(qtyDelta)) / math.Abs(newQty)
	default:
		// reducing: realize the covered part, average stays
		p.realized += -qtyDelta * (price - h.AveragePrice)
	}

	h.Quantity = newQty
	h.MarketPrice = price
	if newQty == 0 {
		delete(p.holdings, symbol)
	}
}
