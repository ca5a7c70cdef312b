package signaler

import (
	strategies "github.com/pkowalke/algohost/entities/signaler/strategies"
	enum "github.com/pkowalke/algohost/enum"
)

/* ------------------------------------------------------------------------ FACTORY ------------------------------------------------------------------------ */

// NewAlgorithm builds a strategy with its stock parameters. The symbol only
// applies to single-symbol strategies; pass "" for the default.
func NewAlgorithm(strategy enum.Strategy, symbol string) Algorithm {
	switch strategy {
	case enum.DualThrust:
		return strategies.NewDualThrust(strategies.DualThrustConfig{
			Symbol: symbol,
		})
	case enum.MomentumRotation:
		return strategies.NewMomentumRotation(strategies.MomentumRotationConfig{})
	}
	return nil
}
