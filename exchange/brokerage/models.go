package brokerage

import (
	"strconv"
	"time"

	"github.com/pkowalke/algohost/models"
)

// wire types for the brokerage REST and websocket APIs

type historicalCandle struct {
	Start  string  `json:"start"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type candlesResponse struct {
	Candles []historicalCandle `json:"candles"`
}

func (h historicalCandle) toCandle(symbol string) models.Candle {
	return models.Candle{
		Start:  timeFromUnixString(h.Start),
		Open:   h.Open,
		High:   h.High,
		Low:    h.Low,
		Close:  h.Close,
		Volume: h.Volume,
		Symbol: symbol,
	}
}

func timeFromUnixString(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

type money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type account struct {
	Currency         string `json:"currency"`
	Active           bool   `json:"active"`
	Ready            bool   `json:"ready"`
	AvailableBalance money  `json:"available_balance"`
}

type accountsListResponse struct {
	Accounts []account `json:"accounts"`
}

type marketIOC struct {
	QuoteSize string `json:"quote_size"`
}

type orderConfiguration struct {
	MarketMarketIOC marketIOC `json:"market_market_ioc"`
}

type createOrderRequest struct {
	ClientOrderID      string             `json:"client_order_id"`
	ProductID          string             `json:"product_id"`
	Side               string             `json:"side"`
	OrderConfiguration orderConfiguration `json:"order_configuration"`
}

type createOrderResponse struct {
	Success bool `json:"success"`
	Order   struct {
		OrderID string `json:"order_id"`
	} `json:"success_response"`
	Error struct {
		Message string `json:"message"`
	} `json:"error_response"`
}

// candleMsg is one websocket frame on the candles channel.
type candleMsg struct {
	Channel     string    `json:"channel"`
	Timestamp   time.Time `json:"timestamp"`
	SequenceNum int       `json:"sequence_num"`
	Events      []struct {
		Type    string `json:"type"`
		Candles []struct {
			historicalCandle
			ProductID string `json:"product_id"`
		} `json:"candles"`
	} `json:"events"`
}

type subscribeMsg struct {
	Type       string   `json:"type"`
	ProductIDs []string `json:"product_ids"`
	Channel    string   `json:"channel"`
	JWT        string   `json:"jwt,omitempty"`
}

func parseFloatSafe(s string) float64 {
	if s == "" {
		return 0
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}
