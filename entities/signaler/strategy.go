package signaler

import (
	"time"

	helper "github.com/pkowalke/algohost/entities/signaler/strategy_helper"
	"github.com/pkowalke/algohost/models"
)

/* ------------------------------------------------------------------------ PUBLIC INTERFACE ------------------------------------------------------------------------ */

// Algorithm is the lifecycle contract between a strategy and the host.
// The host calls Initialize once, OnScheduledEvent whenever a declared
// schedule rule fires, and OnData for every closed candle of a requested
// symbol. Returned signals are executed by the host's broker in order.
type Algorithm interface {
	Initialize(env helper.Environment) (helper.Requirements, error)
	OnScheduledEvent(env helper.Environment, now time.Time) []models.Signal
	OnData(env helper.Environment, bar models.Candle) []models.Signal
}
