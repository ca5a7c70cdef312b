package strategies

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	helper "github.com/pkowalke/algohost/entities/signaler/strategy_helper"
	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

var dualThrustLog = logrus.WithField("algorithm", "dualthrust")

type DualThrustConfig struct {
	Symbol string
	// K1 scales the downward trigger distance, K2 the upward one.
	K1 float64
	K2 float64
	// WindowDays of daily bars the signal range is computed over.
	WindowDays int
	// AllocationPercent of equity to commit per entry (long or short).
	AllocationPercent float64
}

// DualThrustStrategy trades an opening-range breakout on a single symbol.
// Once per trading day, right at the open, it recomputes a signal range from
// the trailing daily bars and anchors two trigger levels around the current
// price. Every intraday bar is then compared against the lower trigger:
// at or above it the strategy targets a long allocation, below it a short
// one. Entering against an existing position liquidates first.
//
// The lower trigger gates both directions on purpose: this mirrors the
// behavior of the rule this strategy was ported from, where the upper
// trigger is computed and logged but never consulted.
type DualThrustStrategy struct {
	cfg DualThrustConfig

	mu           sync.Mutex
	anchor       float64
	lowerTrigger float64
	upperTrigger float64
	armed        bool
}

func NewDualThrust(cfg DualThrustConfig) *DualThrustStrategy {
	if cfg.Symbol == "" {
		cfg.Symbol = "NFLX"
	}
	if cfg.K1 <= 0 {
		cfg.K1 = 0.5
	}
	if cfg.K2 <= 0 {
		cfg.K2 = 0.5
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 4
	}
	if cfg.AllocationPercent <= 0 {
		cfg.AllocationPercent = 80
	}
	return &DualThrustStrategy{cfg: cfg}
}

func (s *DualThrustStrategy) Initialize(env helper.Environment) (helper.Requirements, error) {
	return helper.Requirements{
		Symbols:    []string{s.cfg.Symbol},
		Resolution: enum.Resolution1h,
		Schedule: []helper.ScheduleRule{
			{Date: helper.EveryDay, Time: helper.TimeRule{AfterOpenMinutes: 0}},
		},
	}, nil
}

// OnScheduledEvent recomputes the trigger levels from the trailing daily bars.
// range = max(max(High) - min(Close), max(Close) - min(Low)); the triggers
// bracket the current price at anchor - K1*range and anchor + K2*range.
func (s *DualThrustStrategy) OnScheduledEvent(env helper.Environment, now time.Time) []models.Signal {
	history := env.History(s.cfg.Symbol, s.cfg.WindowDays, enum.Resolution1d)
	if history.Len() < s.cfg.WindowDays {
		dualThrustLog.WithField("bars", history.Len()).Warn("not enough daily history, keeping previous triggers")
		return nil
	}

	highestHigh := helper.MaxSlice(history.GetHighs())
	highestClose := helper.MaxSlice(history.GetCloses())
	lowestClose := helper.MinSlice(history.GetCloses())
	lowestLow := helper.MinSlice(history.GetLows())

	signalRange := highestHigh - lowestClose
	if highestClose-lowestLow > signalRange {
		signalRange = highestClose - lowestLow
	}

	anchor := env.Price(s.cfg.Symbol)
	if anchor == 0 {
		dualThrustLog.Warn("no price for anchor, keeping previous triggers")
		return nil
	}

	s.mu.Lock()
	s.anchor = anchor
	s.lowerTrigger = anchor - s.cfg.K1*signalRange
	s.upperTrigger = anchor + s.cfg.K2*signalRange
	s.armed = true
	s.mu.Unlock()

	dualThrustLog.WithFields(logrus.Fields{
		"symbol": s.cfg.Symbol,
		"anchor": anchor,
		"range":  signalRange,
		"lower":  s.lowerTrigger,
		"upper":  s.upperTrigger,
	}).Info("triggers recomputed")

	return nil
}

func (s *DualThrustStrategy) OnData(env helper.Environment, bar models.Candle) []models.Signal {
	if bar.Symbol != s.cfg.Symbol {
		return nil
	}

	s.mu.Lock()
	armed := s.armed
	anchor := s.anchor
	lower := s.lowerTrigger
	upper := s.upperTrigger
	s.mu.Unlock()

	if !armed {
		return nil
	}

	price := bar.Close
	quantity := env.Portfolio().Holding(s.cfg.Symbol).Quantity
	now := bar.Start

	dualThrustLog.WithFields(logrus.Fields{
		"symbol": s.cfg.Symbol,
		"price":  price,
		"anchor": anchor,
		"lower":  lower,
		"upper":  upper,
	}).Debug("bar")

	if price >= lower {
		long := models.Signal{
			Symbol:  s.cfg.Symbol,
			Type:    enum.SignalBuy,
			Percent: s.cfg.AllocationPercent,
			Price:   price,
			Time:    now,
			Reason:  "price at or above lower trigger",
		}
		if quantity < 0 {
			// flip short -> long: close out first
			return []models.Signal{
				{Symbol: s.cfg.Symbol, Type: enum.SignalLiquidate, Price: price, Time: now, Reason: "flipping short to long"},
				long,
			}
		}
		return []models.Signal{long}
	}

	short := models.Signal{
		Symbol:  s.cfg.Symbol,
		Type:    enum.SignalSell,
		Percent: s.cfg.AllocationPercent,
		Price:   price,
		Time:    now,
		Reason:  "price below lower trigger",
	}
	if quantity > 0 {
		// flip long -> short: close out first
		return []models.Signal{
			{Symbol: s.cfg.Symbol, Type: enum.SignalLiquidate, Price: price, Time: now, Reason: "flipping long to short"},
			short,
		}
	}
	return []models.Signal{short}
}
