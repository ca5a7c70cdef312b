package enum

import "fmt"

// SignalType is the action an algorithm asks the host to take for a symbol.
type SignalType int

const (
	SignalBuy SignalType = iota
	SignalSell
	SignalLiquidate
	SignalHold
)

func (s SignalType) String() string {
	switch s {
	case SignalBuy:
		return "SignalBuy"
	case SignalSell:
		return "SignalSell"
	case SignalLiquidate:
		return "SignalLiquidate"
	case SignalHold:
		return "SignalHold"
	default:
		panic(fmt.Sprintf("Unknown SignalType (%d)", s))
	}
}

// Actionable reports whether the host should turn the signal into an order.
func (s SignalType) Actionable() bool {
	return s == SignalBuy || s == SignalSell || s == SignalLiquidate
}
