package strategy_helper

import (
	"sort"

	talib "github.com/markcheno/go-talib"
)

// ----- momentum ---------------------------------------------------------------

// Momentum returns the trailing price-change series: out[i] = src[i] - src[i-length].
// The first length values are zero, matching talib warmup behavior.
func Momentum(src []float64, length int) []float64 {
	return talib.Mom(src, length)
}

// MomentumScore is the latest momentum value, ok=false while warming up.
func MomentumScore(src []float64, length int) (float64, bool) {
	if len(src) < length+1 {
		return 0, false
	}
	mom := Momentum(src, length)
	return mom[len(mom)-1], true
}

// ----- slice helpers ------------------------------------------------------------

func MaxSlice(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, v := range xs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func MinSlice(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, v := range xs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// ----- ranking ------------------------------------------------------------------

// RankDescending orders symbols by score, highest first, and returns up to n.
// Ties break on the symbol name so the ordering is deterministic.
func RankDescending(scores map[string]float64, n int) []string {
	ranked := make([]string, 0, len(scores))
	for symbol := range scores {
		ranked = append(ranked, symbol)
	}
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i]], scores[ranked[j]]
		if si == sj {
			return ranked[i] < ranked[j]
		}
		return si > sj
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Contains reports whether symbol is in the set.
func Contains(symbols []string, symbol string) bool {
	for _, s := range symbols {
		if s == symbol {
			return true
		}
	}
	return false
}
