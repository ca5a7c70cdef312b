package models

import (
	"time"

	"github.com/pkowalke/algohost/enum"
)

// Signal is an algorithm's target-allocation request for one symbol.
// Percent is the desired share of total portfolio equity, 0-100; direction
// comes from Type. SignalLiquidate closes whatever is held regardless of
// Percent.
type Signal struct {
	Symbol  string
	Type    enum.SignalType
	Percent float64
	Price   float64
	Time    time.Time
	Reason  string
}

// TargetPercent is the signed target allocation the broker should converge to.
func (s Signal) TargetPercent() float64 {
	switch s.Type {
	case enum.SignalBuy:
		return s.Percent
	case enum.SignalSell:
		return -s.Percent
	default:
		return 0
	}
}
