package strategies

import (
	"time"

	"github.com/sirupsen/logrus"

	helper "github.com/pkowalke/algohost/entities/signaler/strategy_helper"
	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

var rotationLog = logrus.WithField("algorithm", "momentumrotation")

// DefaultRotationUniverse is the stock large-cap universe the rotation ranks,
// IVV (S&P 500 ETF) included as the broad-market fallback.
var DefaultRotationUniverse = []string{
	"AMZN", "NFLX", "NVDA", "MSFT", "BA", "CSCO", "AAPL", "V", "HD", "UNH",
	"BAC", "JPM", "GOOGL", "INTC", "PFE", "WMT", "BRKb", "VZ", "DIS", "WFC",
	"JNJ", "XOM", "CVX", "C", "CMCSA", "FB", "ORCL", "T", "BABA", "TSLA",
	"IVV",
}

type MomentumRotationConfig struct {
	Universe []string
	// PeriodDays the momentum score looks back over.
	PeriodDays int
	// TopN symbols to hold at any time.
	TopN int
	// RebalanceRule defaults to month start right after the open.
	RebalanceRule *helper.ScheduleRule
}

// MomentumRotationStrategy rotates a fixed equity universe into the names
// with the strongest trailing momentum. On each rebalance it ranks every
// symbol by its PeriodDays close-to-close change, liquidates held positions
// that fell out of the top set, and splits the portfolio equally across the
// top names not yet held.
type MomentumRotationStrategy struct {
	cfg MomentumRotationConfig
}

func NewMomentumRotation(cfg MomentumRotationConfig) *MomentumRotationStrategy {
	if len(cfg.Universe) == 0 {
		cfg.Universe = DefaultRotationUniverse
	}
	if cfg.PeriodDays <= 0 {
		cfg.PeriodDays = 6 * 21
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 9
	}
	if cfg.RebalanceRule == nil {
		cfg.RebalanceRule = &helper.ScheduleRule{
			Date: helper.MonthStart,
			Time: helper.TimeRule{AfterOpenMinutes: 0},
		}
	}
	return &MomentumRotationStrategy{cfg: cfg}
}

func (s *MomentumRotationStrategy) Initialize(env helper.Environment) (helper.Requirements, error) {
	return helper.Requirements{
		Symbols:    s.cfg.Universe,
		Resolution: enum.Resolution1d,
		WarmupBars: s.cfg.PeriodDays + 1,
		Schedule:   []helper.ScheduleRule{*s.cfg.RebalanceRule},
	}, nil
}

// OnScheduledEvent performs the rotation rebalance.
func (s *MomentumRotationStrategy) OnScheduledEvent(env helper.Environment, now time.Time) []models.Signal {
	if env.IsWarmingUp() {
		rotationLog.Debug("warming up, skipping rebalance")
		return nil
	}

	scores := make(map[string]float64, len(s.cfg.Universe))
	for _, symbol := range s.cfg.Universe {
		history := env.History(symbol, s.cfg.PeriodDays+1, enum.Resolution1d)
		score, ok := helper.MomentumScore(history.GetCloses(), s.cfg.PeriodDays)
		if !ok {
			rotationLog.WithFields(logrus.Fields{
				"symbol": symbol,
				"bars":   history.Len(),
			}).Warn("insufficient history, excluding from ranking")
			continue
		}
		scores[symbol] = score
	}
	if len(scores) == 0 {
		return nil
	}

	top := helper.RankDescending(scores, s.cfg.TopN)
	portfolio := env.Portfolio()

	var signals []models.Signal

	// drop whatever is held but no longer ranks
	for _, symbol := range portfolio.InvestedSymbols() {
		if !helper.Contains(top, symbol) {
			signals = append(signals, models.Signal{
				Symbol: symbol,
				Type:   enum.SignalLiquidate,
				Price:  env.Price(symbol),
				Time:   now,
				Reason: "dropped out of momentum top set",
			})
		}
	}

	// equal-split entries across the top names not yet held
	var added []string
	for _, symbol := range top {
		if !portfolio.Invested(symbol) {
			added = append(added, symbol)
		}
	}
	for _, symbol := range added {
		signals = append(signals, models.Signal{
			Symbol:  symbol,
			Type:    enum.SignalBuy,
			Percent: 100 / float64(len(added)),
			Price:   env.Price(symbol),
			Time:    now,
			Reason:  "entered momentum top set",
		})
	}

	rotationLog.WithFields(logrus.Fields{
		"top":     top,
		"added":   len(added),
		"signals": len(signals),
	}).Info("rebalanced")

	return signals
}

// OnData is a no-op; the rotation only acts on its rebalance schedule.
func (s *MomentumRotationStrategy) OnData(env helper.Environment, bar models.Candle) []models.Signal {
	return nil
}
