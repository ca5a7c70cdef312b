package models

import (
	"time"

	"github.com/pkowalke/algohost/enum"
)

type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "NEW"
	OrderStatusFilled   OrderStatus = "FILLED"
	OrderStatusRejected OrderStatus = "REJECTED"
)

// Order is a notional (cash-denominated) market order.
type Order struct {
	ClientOrderID string
	Symbol        string
	NotionalUSD   float64
	IsBuy         bool
	Status        OrderStatus
	CreatedAt     time.Time
}

// Fill records the execution the broker produced for a signal.
type Fill struct {
	OrderID     string
	Symbol      string
	Side        enum.SignalType
	Quantity    float64
	Price       float64
	NotionalUSD float64
	Time        time.Time
}
