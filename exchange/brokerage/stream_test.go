package brokerage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

func vendorCandle(start time.Time, open, high, low, close, volume float64) models.Candle {
	return models.Candle{
		Start:  start,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
		Symbol: "NFLX",
	}
}

func TestAggregatorRollsFiveMinuteCandlesIntoHourly(t *testing.T) {
	agg := newCandleAggregator("NFLX", enum.Resolution1h)
	hour := time.Date(2018, 6, 1, 13, 0, 0, 0, time.UTC)

	assert.Nil(t, agg.ingest(vendorCandle(hour, 100, 101, 99, 100.5, 10)))
	assert.Nil(t, agg.ingest(vendorCandle(hour.Add(5*time.Minute), 100.5, 104, 100, 103, 20)))
	assert.Nil(t, agg.ingest(vendorCandle(hour.Add(55*time.Minute), 103, 103.5, 98, 99, 5)))

	closed := agg.ingest(vendorCandle(hour.Add(time.Hour), 99, 100, 98.5, 99.5, 7))
	require.NotNil(t, closed)
	assert.Equal(t, hour, closed.Start)
	assert.InDelta(t, 100, closed.Open, 1e-9)
	assert.InDelta(t, 104, closed.High, 1e-9)
	assert.InDelta(t, 98, closed.Low, 1e-9)
	assert.InDelta(t, 99, closed.Close, 1e-9)
	assert.InDelta(t, 35, closed.Volume, 1e-9)
}

func TestAggregatorRefreshReplacesOpenVendorCandle(t *testing.T) {
	agg := newCandleAggregator("NFLX", enum.Resolution1h)
	hour := time.Date(2018, 6, 1, 13, 0, 0, 0, time.UTC)

	// the vendor resends the still-open candle as it builds
	assert.Nil(t, agg.ingest(vendorCandle(hour, 100, 100, 100, 100, 10)))
	assert.Nil(t, agg.ingest(vendorCandle(hour, 100, 102, 100, 102, 25)))
	assert.Nil(t, agg.ingest(vendorCandle(hour, 100, 102, 97, 98, 40)))

	closed := agg.ingest(vendorCandle(hour.Add(time.Hour), 98, 98, 98, 98, 1))
	require.NotNil(t, closed)
	assert.InDelta(t, 102, closed.High, 1e-9)
	assert.InDelta(t, 97, closed.Low, 1e-9)
	assert.InDelta(t, 98, closed.Close, 1e-9)
	assert.InDelta(t, 40, closed.Volume, 1e-9, "refreshes must not double-count volume")
}

func TestAggregatorPassthroughWhenSizesMatch(t *testing.T) {
	agg := newCandleAggregator("NFLX", enum.Resolution5m)
	start := time.Date(2018, 6, 1, 13, 0, 0, 0, time.UTC)

	assert.Nil(t, agg.ingest(vendorCandle(start, 100, 101, 99, 100.5, 10)))
	closed := agg.ingest(vendorCandle(start.Add(5*time.Minute), 100.5, 101, 100, 101, 3))
	require.NotNil(t, closed)
	assert.Equal(t, start, closed.Start)
	assert.InDelta(t, 100, closed.Open, 1e-9)
	assert.InDelta(t, 101, closed.High, 1e-9)
	assert.InDelta(t, 99, closed.Low, 1e-9)
	assert.InDelta(t, 100.5, closed.Close, 1e-9)
	assert.InDelta(t, 10, closed.Volume, 1e-9)
}

func TestAggregatorBridgesQuietGaps(t *testing.T) {
	agg := newCandleAggregator("NFLX", enum.Resolution1h)
	hour := time.Date(2018, 6, 1, 13, 0, 0, 0, time.UTC)

	assert.Nil(t, agg.ingest(vendorCandle(hour.Add(30*time.Minute), 100, 100, 100, 100, 10)))

	// the next vendor candle lands two hours later; the stale aggregate
	// closes and a fresh one opens at the new bucket
	closed := agg.ingest(vendorCandle(hour.Add(2*time.Hour), 105, 105, 105, 105, 2))
	require.NotNil(t, closed)
	assert.Equal(t, hour, closed.Start)

	closed = agg.ingest(vendorCandle(hour.Add(3*time.Hour), 106, 106, 106, 106, 2))
	require.NotNil(t, closed)
	assert.Equal(t, hour.Add(2*time.Hour), closed.Start)
	assert.InDelta(t, 105, closed.Close, 1e-9)
}
