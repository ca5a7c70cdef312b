package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/pkowalke/algohost/models"
)

// Notifier receives everything the host emits. Implementations must not block.
type Notifier interface {
	NotifySignal(sig models.Signal)
	NotifyFill(fill models.Fill)
}

// LogNotifier is the default sink: structured log lines.
type LogNotifier struct {
	log *logrus.Entry
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logrus.WithField("component", "notify")}
}

func (n *LogNotifier) NotifySignal(sig models.Signal) {
	n.log.WithFields(logrus.Fields{
		"symbol":  sig.Symbol,
		"type":    sig.Type.String(),
		"percent": sig.Percent,
		"reason":  sig.Reason,
	}).Info("signal")
}

func (n *LogNotifier) NotifyFill(fill models.Fill) {
	n.log.WithFields(logrus.Fields{
		"symbol":   fill.Symbol,
		"quantity": fill.Quantity,
		"price":    fill.Price,
		"notional": fill.NotionalUSD,
	}).Info("fill")
}

// TelegramNotifier pushes signals and fills to a chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logrus.Entry
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		log:    logrus.WithField("component", "notify.telegram"),
	}, nil
}

func (n *TelegramNotifier) send(text string) {
	go func() {
		if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
			n.log.WithError(err).Warn("telegram send failed")
		}
	}()
}

func (n *TelegramNotifier) NotifySignal(sig models.Signal) {
	n.send(fmt.Sprintf("%s %s %.1f%% @ %.2f (%s)",
		sig.Type.String(), sig.Symbol, sig.Percent, sig.Price, sig.Reason))
}

func (n *TelegramNotifier) NotifyFill(fill models.Fill) {
	n.send(fmt.Sprintf("filled %s %+.4f @ %.2f ($%.2f)",
		fill.Symbol, fill.Quantity, fill.Price, fill.NotionalUSD))
}
