package models

// Holding is one symbol's position as the host sees it.
type Holding struct {
	Symbol       string
	Quantity     float64
	AveragePrice float64
	MarketPrice  float64
}

func (h Holding) Invested() bool {
	return h.Quantity != 0
}

func (h Holding) MarketValue() float64 {
	return h.Quantity * h.MarketPrice
}

// PortfolioView is the read-only snapshot handed to algorithms.
type PortfolioView struct {
	Cash     float64
	Holdings map[string]Holding
}

func (v PortfolioView) Holding(symbol string) Holding {
	if h, ok := v.Holdings[symbol]; ok {
		return h
	}
	return Holding{Symbol: symbol}
}

func (v PortfolioView) Invested(symbol string) bool {
	return v.Holding(symbol).Invested()
}

// Equity is cash plus the marked value of every holding.
func (v PortfolioView) Equity() float64 {
	total := v.Cash
	for _, h := range v.Holdings {
		total += h.MarketValue()
	}
	return total
}

// InvestedSymbols lists every symbol with a nonzero position.
func (v PortfolioView) InvestedSymbols() []string {
	symbols := make([]string, 0, len(v.Holdings))
	for symbol, h := range v.Holdings {
		if h.Invested() {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}
