package enum

import "fmt"

type Strategy int

const (
	DualThrust Strategy = iota // opening-range breakout with daily trigger recalculation
	MomentumRotation           // cross-asset rotation into the top trailing-momentum names
)

func (s Strategy) String() string {
	switch s {
	case DualThrust:
		return "DualThrust"
	case MomentumRotation:
		return "MomentumRotation"
	default:
		panic(fmt.Sprintf("Unknown Strategy (%d)", s))
	}
}

func GetStrategy(s string) Strategy {
	switch s {
	case "DualThrust":
		return DualThrust
	case "MomentumRotation":
		return MomentumRotation
	default:
		panic(fmt.Sprintf("Unknown Strategy (%s)", s))
	}
}
