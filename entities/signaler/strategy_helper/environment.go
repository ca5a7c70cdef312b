package strategy_helper

import (
	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

// Environment is everything the host supplies to a running algorithm:
// history retrieval, prices, portfolio introspection and warmup state.
type Environment interface {
	// History returns the trailing n closed candles for symbol at the given
	// resolution. Shorter (possibly empty) histories are returned when less
	// data is available; algorithms must check Len.
	History(symbol string, n int, resolution enum.Resolution) models.CandleHistory
	// Price is the latest known trade price for symbol, 0 when unknown.
	Price(symbol string) float64
	Portfolio() models.PortfolioView
	// IsWarmingUp is true until every requested symbol has the warmup bar
	// count declared in Requirements.
	IsWarmingUp() bool
}

// DateRule selects the days a scheduled event fires on.
type DateRule int

const (
	EveryDay DateRule = iota
	MonthStart
)

func (d DateRule) String() string {
	switch d {
	case EveryDay:
		return "EveryDay"
	case MonthStart:
		return "MonthStart"
	default:
		return ""
	}
}

// TimeRule selects the intraday moment a scheduled event fires at.
type TimeRule struct {
	// Minutes after the exchange open (0 = right at the open).
	AfterOpenMinutes int
}

type ScheduleRule struct {
	Date DateRule
	Time TimeRule
}

// Requirements is what an algorithm declares during Initialize.
type Requirements struct {
	Symbols    []string
	Resolution enum.Resolution
	// WarmupBars of daily history every symbol needs before signals flow.
	WarmupBars int
	Schedule   []ScheduleRule
}
