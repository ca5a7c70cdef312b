package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/pkowalke/algohost/channel_helper"
	"github.com/pkowalke/algohost/entities/signaler"
	helper "github.com/pkowalke/algohost/entities/signaler/strategy_helper"
	"github.com/pkowalke/algohost/entities/trader"
	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/exchange"
	"github.com/pkowalke/algohost/models"
	"github.com/pkowalke/algohost/notify"
)

var log = logrus.WithField("component", "manager")

// Recorder persists what the host emits; implementations may drop anything.
type Recorder interface {
	RecordSignal(ctx context.Context, sig models.Signal) error
	RecordFill(ctx context.Context, fill models.Fill) error
	RecordEquity(ctx context.Context, t time.Time, equity float64) error
}

// equitySampler is satisfied by brokers that keep an in-memory equity curve
// for the session report (the paper portfolio does, the live broker does not).
type equitySampler interface {
	SampleEquity(t time.Time)
}

// event serializes everything a runtime reacts to through one channel, so
// strategy callbacks never run concurrently with each other.
type event struct {
	bar  *models.Candle
	tick *time.Time
}

type algoRuntime struct {
	name      string
	algo      signaler.Algorithm
	reqs      helper.Requirements
	schedules []*scheduleState
	events    chan event
	cleanups  []func()

	priceMu    sync.RWMutex
	lastPrices map[string]float64
	warm       bool
}

// Manager hosts registered algorithms: it supplies their Environment, routes
// closed candles into per-algorithm run loops, fires schedule rules, and
// hands returned signals to the broker.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc

	exchange exchange.IExchange
	broker   trader.Broker
	notifier notify.Notifier
	recorder Recorder
	loc      *time.Location

	mu       sync.RWMutex
	runtimes map[string]*algoRuntime
	trading  *tradingToggle
	cron     *cron.Cron
	wg       sync.WaitGroup
}

func NewManager(parent context.Context, ex exchange.IExchange, broker trader.Broker) *Manager {
	ctx, cancel := context.WithCancel(parent)
	return &Manager{
		ctx:      ctx,
		cancel:   cancel,
		exchange: ex,
		broker:   broker,
		notifier: notify.NewLogNotifier(),
		loc:      exchangeLocation(),
		runtimes: make(map[string]*algoRuntime),
		trading:  newTradingToggle(),
	}
}

func (m *Manager) SetNotifier(n notify.Notifier) {
	if n != nil {
		m.notifier = n
	}
}

func (m *Manager) SetRecorder(r Recorder) {
	m.recorder = r
}

// SetTradingEnabled pauses or resumes order routing for one algorithm.
// Paused algorithms keep running and keep emitting signals.
func (m *Manager) SetTradingEnabled(name string, enabled bool) error {
	if err := m.trading.set(name, enabled); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"algorithm": name,
		"enabled":   enabled,
	}).Info("trading toggled")
	return nil
}

// TradingStates reports the per-algorithm trading toggle state.
func (m *Manager) TradingStates() map[string]bool {
	return m.trading.Snapshot()
}

// Register initializes the algorithm, subscribes its market data and starts
// its run loop.
func (m *Manager) Register(name string, algo signaler.Algorithm) error {
	rt := &algoRuntime{
		name:       name,
		algo:       algo,
		events:     make(chan event, 256),
		lastPrices: make(map[string]float64),
	}

	reqs, err := algo.Initialize(&runtimeEnv{m: m, rt: rt})
	if err != nil {
		return fmt.Errorf("initialize %s: %w", name, err)
	}
	if len(reqs.Symbols) == 0 {
		return fmt.Errorf("initialize %s: no symbols requested", name)
	}
	rt.reqs = reqs
	for _, rule := range reqs.Schedule {
		rt.schedules = append(rt.schedules, newScheduleState(rule, m.loc))
	}

	for _, symbol := range reqs.Symbols {
		ch, cleanup, err := m.exchange.SubscribeToCandles(symbol, reqs.Resolution)
		if err != nil {
			for _, c := range rt.cleanups {
				c()
			}
			return fmt.Errorf("subscribe %s %s: %w", name, symbol, err)
		}
		rt.cleanups = append(rt.cleanups, cleanup)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for {
				select {
				case <-m.ctx.Done():
					return
				case candle, ok := <-ch:
					if !ok {
						return
					}
					if channel_helper.EnqueueLatest(rt.events, event{bar: &candle}) {
						log.WithField("algorithm", rt.name).Warn("event queue full, dropped oldest event")
					}
				}
			}
		}()
	}

	m.mu.Lock()
	m.runtimes[name] = rt
	m.mu.Unlock()
	m.trading.add(name)

	m.wg.Add(1)
	go m.run(rt)

	log.WithFields(logrus.Fields{
		"algorithm":  name,
		"symbols":    len(reqs.Symbols),
		"resolution": reqs.Resolution.String(),
	}).Info("algorithm registered")
	return nil
}

// StartCron arms the wall-clock scheduler for live sessions: every minute of
// the trading day each runtime gets a tick, and rule state decides whether
// anything actually fires.
func (m *Manager) StartCron() error {
	c := cron.New(cron.WithLocation(m.loc))
	_, err := c.AddFunc("* 9-16 * * MON-FRI", func() {
		now := time.Now()
		m.mu.RLock()
		defer m.mu.RUnlock()
		for _, rt := range m.runtimes {
			channel_helper.EnqueueLatest(rt.events, event{tick: &now})
		}
	})
	if err != nil {
		return fmt.Errorf("cron: %w", err)
	}
	c.Start()
	m.cron = c
	return nil
}

func (m *Manager) Stop() {
	m.cancel()
	if m.cron != nil {
		m.cron.Stop()
	}
	m.mu.RLock()
	for _, rt := range m.runtimes {
		for _, cleanup := range rt.cleanups {
			cleanup()
		}
	}
	m.mu.RUnlock()
	m.wg.Wait()
}

func (m *Manager) run(rt *algoRuntime) {
	defer m.wg.Done()
	env := &runtimeEnv{m: m, rt: rt}

	for {
		select {
		case <-m.ctx.Done():
			return
		case ev := <-rt.events:
			switch {
			case ev.bar != nil:
				m.handleBar(rt, env, *ev.bar)
			case ev.tick != nil:
				m.checkSchedules(rt, env, *ev.tick)
			}
		}
	}
}

func (m *Manager) handleBar(rt *algoRuntime, env *runtimeEnv, bar models.Candle) {
	rt.priceMu.Lock()
	rt.lastPrices[bar.Symbol] = bar.Close
	rt.priceMu.Unlock()
	m.broker.MarkPrice(bar.Symbol, bar.Close)

	closeTime := bar.Start.Add(enum.GetTimeDurationFromResolution(rt.reqs.Resolution))
	m.checkSchedules(rt, env, closeTime)

	if env.IsWarmingUp() {
		return
	}
	m.execute(rt, rt.algo.OnData(env, bar))
	m.recordEquity(closeTime)
}

func (m *Manager) checkSchedules(rt *algoRuntime, env *runtimeEnv, now time.Time) {
	for _, s := range rt.schedules {
		if !s.Due(now) {
			continue
		}
		s.MarkFired(now)
		log.WithFields(logrus.Fields{
			"algorithm": rt.name,
			"rule":      s.rule.Date.String(),
			"at":        now,
		}).Info("scheduled event")
		m.execute(rt, rt.algo.OnScheduledEvent(env, now))
	}
}

func (m *Manager) execute(rt *algoRuntime, signals []models.Signal) {
	for _, sig := range signals {
		m.notifier.NotifySignal(sig)
		if m.recorder != nil {
			if err := m.recorder.RecordSignal(m.ctx, sig); err != nil {
				log.WithError(err).Warn("recording signal failed")
			}
		}
		if !sig.Type.Actionable() {
			continue
		}
		if !m.trading.isEnabled(rt.name) {
			log.WithFields(logrus.Fields{
				"algorithm": rt.name,
				"symbol":    sig.Symbol,
				"type":      sig.Type.String(),
			}).Info("trading paused, signal not routed")
			continue
		}
		fill, err := m.broker.Execute(m.ctx, sig)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"algorithm": rt.name,
				"symbol":    sig.Symbol,
				"type":      sig.Type.String(),
			}).Error("execution failed")
			continue
		}
		if fill.Quantity == 0 {
			continue
		}
		m.notifier.NotifyFill(fill)
		if m.recorder != nil {
			if err := m.recorder.RecordFill(m.ctx, fill); err != nil {
				log.WithError(err).Warn("recording fill failed")
			}
		}
	}
}

func (m *Manager) recordEquity(t time.Time) {
	if sampler, ok := m.broker.(equitySampler); ok {
		sampler.SampleEquity(t)
	}
	if m.recorder == nil {
		return
	}
	if err := m.recorder.RecordEquity(m.ctx, t, m.broker.Portfolio().Equity()); err != nil {
		log.WithError(err).Warn("recording equity failed")
	}
}
