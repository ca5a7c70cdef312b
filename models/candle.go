package models

import "time"

type Candle struct {
	Start  time.Time `json:"start"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Symbol string    `json:"symbol"`
}

// UpdateCandle folds a trade print into a still-open candle.
func (c *Candle) UpdateCandle(price float64, volume float64) {
	c.Close = price
	if price > c.High {
		c.High = price
	}
	if price < c.Low {
		c.Low = price
	}
	c.Volume += volume
}

// NewCandle opens a candle at start from its first print.
func NewCandle(symbol string, start time.Time, price float64, volume float64) Candle {
	return Candle{
		Start:  start,
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Volume: volume,
		Symbol: symbol,
	}
}
