package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkowalke/algohost/entities/signaler/strategies"
	helper "github.com/pkowalke/algohost/entities/signaler/strategy_helper"
	"github.com/pkowalke/algohost/entities/trader"
	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

// fakeExchange serves canned history and lets tests push candles into the
// subscription stream by hand.
type fakeExchange struct {
	mu        sync.Mutex
	histories map[string]models.CandleHistory
	streams   map[string]chan models.Candle
	orders    []string
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		histories: make(map[string]models.CandleHistory),
		streams:   make(map[string]chan models.Candle),
	}
}

func (f *fakeExchange) CandleHistory(_ context.Context, symbol string, n int, _ enum.Resolution) (models.CandleHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.histories[symbol]
	return h.Last(n), nil
}

func (f *fakeExchange) SubscribeToCandles(symbol string, _ enum.Resolution) (<-chan models.Candle, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan models.Candle, 16)
	f.streams[symbol] = ch
	return ch, func() {}, nil
}

func (f *fakeExchange) PlaceMarketOrder(_ context.Context, symbol string, _ float64, _ bool) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, symbol)
	return models.Order{Symbol: symbol, Status: models.OrderStatusFilled}, nil
}

func (f *fakeExchange) Balances(_ context.Context) (map[string]float64, error) {
	return map[string]float64{"USD": 100000}, nil
}

func (f *fakeExchange) push(symbol string, c models.Candle) {
	f.mu.Lock()
	ch := f.streams[symbol]
	f.mu.Unlock()
	ch <- c
}

func dualThrustDailyHistory(symbol string) models.CandleHistory {
	var h models.CandleHistory
	day := time.Date(2018, 5, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		h.Append(models.Candle{
			Start:  day.AddDate(0, 0, i),
			Open:   100,
			High:   105 + float64(i),
			Low:    95 + float64(i),
			Close:  100 + float64(i),
			Symbol: symbol,
		}, 0)
	}
	return h
}

func hourBar(symbol string, t time.Time, close float64) models.Candle {
	return models.Candle{
		Start:  t,
		Open:   close,
		High:   close,
		Low:    close,
		Close:  close,
		Symbol: symbol,
	}
}

func TestManagerRunsDualThrustThroughPaperBroker(t *testing.T) {
	ex := newFakeExchange()
	ex.histories["NFLX"] = dualThrustDailyHistory("NFLX")

	paper := trader.NewPaperPortfolio(100000)
	m := NewManager(context.Background(), ex, paper)
	defer m.Stop()

	algo := strategies.NewDualThrust(strategies.DualThrustConfig{Symbol: "NFLX"})
	require.NoError(t, m.Register("dualthrust", algo))

	// closes at 10:30 New York time: the daily rule fires off this bar,
	// anchoring triggers at 100 (lower 96, upper 104), then OnData sees the
	// close at the lower trigger and goes long.
	barStart := time.Date(2018, 6, 1, 13, 30, 0, 0, time.UTC)
	ex.push("NFLX", hourBar("NFLX", barStart, 100))

	require.Eventually(t, func() bool {
		return paper.Portfolio().Holding("NFLX").Quantity == 800
	}, 2*time.Second, 10*time.Millisecond, "expected 80%% of 100k at $100")

	// a later bar below the lower trigger flips the position short
	ex.push("NFLX", hourBar("NFLX", barStart.Add(time.Hour), 90))

	require.Eventually(t, func() bool {
		return paper.Portfolio().Holding("NFLX").Quantity < 0
	}, 2*time.Second, 10*time.Millisecond, "expected the drop through 96 to flip short")

	assert.NotEmpty(t, paper.Fills())

	// every processed bar samples the paper equity curve for the report
	curve := paper.EquityCurve()
	require.NotEmpty(t, curve)
	assert.Equal(t, barStart.Add(time.Hour), curve[0].Time)
	assert.InDelta(t, 100000, curve[0].Equity, 1e-9)
}

func TestManagerScheduleFiresOncePerDay(t *testing.T) {
	ex := newFakeExchange()
	ex.histories["NFLX"] = dualThrustDailyHistory("NFLX")

	paper := trader.NewPaperPortfolio(100000)
	m := NewManager(context.Background(), ex, paper)
	defer m.Stop()

	rec := &countingRecorder{}
	m.SetRecorder(rec)

	algo := strategies.NewDualThrust(strategies.DualThrustConfig{Symbol: "NFLX"})
	require.NoError(t, m.Register("dualthrust", algo))

	barStart := time.Date(2018, 6, 1, 13, 30, 0, 0, time.UTC)
	ex.push("NFLX", hourBar("NFLX", barStart, 100))
	require.Eventually(t, func() bool {
		return paper.Portfolio().Holding("NFLX").Quantity == 800
	}, 2*time.Second, 10*time.Millisecond)

	// same-day bars keep the triggers; holding long at the same price is a
	// repeat target, so no further fills land.
	before := len(paper.Fills())
	ex.push("NFLX", hourBar("NFLX", barStart.Add(time.Hour), 100))
	ex.push("NFLX", hourBar("NFLX", barStart.Add(2*time.Hour), 100))

	require.Eventually(t, func() bool {
		return rec.equitySamples() >= 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, paper.Fills(), before)
}

func TestManagerPausedAlgorithmRecordsButDoesNotTrade(t *testing.T) {
	ex := newFakeExchange()
	ex.histories["NFLX"] = dualThrustDailyHistory("NFLX")

	paper := trader.NewPaperPortfolio(100000)
	m := NewManager(context.Background(), ex, paper)
	defer m.Stop()

	rec := &countingRecorder{}
	m.SetRecorder(rec)

	algo := strategies.NewDualThrust(strategies.DualThrustConfig{Symbol: "NFLX"})
	require.NoError(t, m.Register("dualthrust", algo))
	require.NoError(t, m.SetTradingEnabled("dualthrust", false))
	assert.False(t, m.TradingStates()["dualthrust"])

	barStart := time.Date(2018, 6, 1, 13, 30, 0, 0, time.UTC)
	ex.push("NFLX", hourBar("NFLX", barStart, 100))

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return rec.signals > 0
	}, 2*time.Second, 10*time.Millisecond, "signals still captured while paused")

	assert.Zero(t, paper.Portfolio().Holding("NFLX").Quantity)
	assert.Empty(t, paper.Fills())

	require.Error(t, m.SetTradingEnabled("unknown", true))
}

func TestManagerRegisterRejectsEmptySymbolSet(t *testing.T) {
	ex := newFakeExchange()
	m := NewManager(context.Background(), ex, trader.NewPaperPortfolio(100000))
	defer m.Stop()

	err := m.Register("empty", emptyAlgo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no symbols")
}

type countingRecorder struct {
	mu      sync.Mutex
	signals int
	fills   int
	equity  int
}

func (r *countingRecorder) RecordSignal(context.Context, models.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals++
	return nil
}

func (r *countingRecorder) RecordFill(context.Context, models.Fill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fills++
	return nil
}

func (r *countingRecorder) RecordEquity(context.Context, time.Time, float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.equity++
	return nil
}

func (r *countingRecorder) equitySamples() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.equity
}

type emptyAlgo struct{}

func (emptyAlgo) Initialize(helper.Environment) (helper.Requirements, error) {
	return helper.Requirements{}, nil
}

func (emptyAlgo) OnScheduledEvent(helper.Environment, time.Time) []models.Signal {
	return nil
}

func (emptyAlgo) OnData(helper.Environment, models.Candle) []models.Signal {
	return nil
}
