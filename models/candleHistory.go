package models

import "time"

type CandleHistory struct {
	Candles []Candle
}

func (c *CandleHistory) Len() int {
	return len(c.Candles)
}

// Append adds a closed candle and drops the oldest ones beyond maxLen.
// maxLen <= 0 keeps everything.
func (c *CandleHistory) Append(candle Candle, maxLen int) {
	c.Candles = append(c.Candles, candle)
	if maxLen > 0 && len(c.Candles) > maxLen {
		c.Candles = c.Candles[len(c.Candles)-maxLen:]
	}
}

// Last returns the trailing n candles (all of them when fewer are stored).
func (c *CandleHistory) Last(n int) CandleHistory {
	if n >= len(c.Candles) {
		return CandleHistory{Candles: c.Candles}
	}
	return CandleHistory{Candles: c.Candles[len(c.Candles)-n:]}
}

func (c *CandleHistory) GetOpens() []float64 {
	opens := make([]float64, len(c.Candles))
	for i, candle := range c.Candles {
		opens[i] = candle.Open
	}
	return opens
}

func (c *CandleHistory) GetHighs() []float64 {
	highs := make([]float64, len(c.Candles))
	for i, candle := range c.Candles {
		highs[i] = candle.High
	}
	return highs
}

func (c *CandleHistory) GetLows() []float64 {
	lows := make([]float64, len(c.Candles))
	for i, candle := range c.Candles {
		lows[i] = candle.Low
	}
	return lows
}

func (c *CandleHistory) GetCloses() []float64 {
	closes := make([]float64, len(c.Candles))
	for i, candle := range c.Candles {
		closes[i] = candle.Close
	}
	return closes
}

func (c *CandleHistory) GetVolumes() []float64 {
	volumes := make([]float64, len(c.Candles))
	for i, candle := range c.Candles {
		volumes[i] = candle.Volume
	}
	return volumes
}

func (c *CandleHistory) GetStarts() []time.Time {
	starts := make([]time.Time, len(c.Candles))
	for i, candle := range c.Candles {
		starts[i] = candle.Start
	}
	return starts
}
