package trader

import (
	"context"

	"github.com/pkowalke/algohost/models"
)

// Broker turns target-allocation signals into executions and exposes the
// resulting portfolio back to the host.
type Broker interface {
	// Execute converges the signal's symbol toward its target allocation.
	// A zero-quantity Fill with a nonzero OrderID means nothing needed doing.
	Execute(ctx context.Context, sig models.Signal) (models.Fill, error)
	Portfolio() models.PortfolioView
	// MarkPrice records the latest trade price used for valuation.
	MarkPrice(symbol string, price float64)
}
