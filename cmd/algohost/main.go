package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/pkowalke/algohost/config"
	"github.com/pkowalke/algohost/entities/manager"
	"github.com/pkowalke/algohost/entities/signaler"
	"github.com/pkowalke/algohost/entities/trader"
	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/exchange/brokerage"
	"github.com/pkowalke/algohost/models"
	"github.com/pkowalke/algohost/notify"
	"github.com/pkowalke/algohost/report"
	"github.com/pkowalke/algohost/storage"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.WithField("component", "main")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := brokerage.NewClient(cfg.BrokerageBaseURL, cfg.BrokerageWSURL, cfg.APIKey, cfg.APISecret)

	var broker trader.Broker
	var paper *trader.PaperPortfolio
	if cfg.LiveTrading {
		broker = brokerage.NewLiveBroker(client)
		log.Warn("live trading enabled, orders will hit the brokerage")
	} else {
		paper = trader.NewPaperPortfolio(cfg.StartingCash)
		broker = paper
	}

	m := manager.NewManager(ctx, client, broker)

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.WithError(err).Fatal("telegram")
		}
		m.SetNotifier(tg)
	}

	var store *storage.Store
	if cfg.DatabaseURL != "" {
		store, err = storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("storage")
		}
		defer store.Close()
		m.SetRecorder(store)
	}

	algo := signaler.NewAlgorithm(cfg.Strategy, cfg.Symbol)
	if algo == nil {
		log.WithField("strategy", cfg.Strategy.String()).Fatal("unknown strategy")
	}
	if err := m.Register(cfg.Strategy.String(), algo); err != nil {
		log.WithError(err).Fatal("register")
	}
	if err := m.StartCron(); err != nil {
		log.WithError(err).Fatal("cron")
	}

	log.WithFields(logrus.Fields{
		"strategy": cfg.Strategy.String(),
		"live":     cfg.LiveTrading,
	}).Info("session started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
	m.Stop()

	if paper != nil && cfg.ReportPath != "" {
		writeReport(cfg, client, paper, log)
	}
}

func writeReport(cfg config.Config, client *brokerage.Client, paper *trader.PaperPortfolio, log *logrus.Entry) {
	candles := make(map[string]models.CandleHistory)
	for symbol := range paper.Portfolio().Holdings {
		history, err := client.CandleHistory(context.Background(), symbol, 100, enum.Resolution1d)
		if err != nil {
			log.WithError(err).WithField("symbol", symbol).Warn("report history fetch failed")
			continue
		}
		candles[symbol] = history
	}
	if err := report.WriteSessionReport(cfg.ReportPath, candles, paper.EquityCurve()); err != nil {
		log.WithError(err).Warn("report write failed")
		return
	}
	log.WithField("path", cfg.ReportPath).Info("session report written")
}
