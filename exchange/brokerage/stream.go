package brokerage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

// candleAggregator rolls the vendor's fixed-size candles up into
// resolution-sized ones. The vendor re-sends the still-open candle with
// refreshed values, so same-start arrivals replace the previous contribution
// instead of double-counting volume.
type candleAggregator struct {
	symbol string
	span   time.Duration

	current          *models.Candle
	lastVendorStart  time.Time
	lastVendorVolume float64
}

func newCandleAggregator(symbol string, resolution enum.Resolution) *candleAggregator {
	return &candleAggregator{
		symbol: symbol,
		span:   enum.GetTimeDurationFromResolution(resolution),
	}
}

// ingest folds one vendor candle into the running aggregate and returns the
// finished candle once the vendor moves past the aggregate's bucket.
func (a *candleAggregator) ingest(vc models.Candle) *models.Candle {
	bucket := vc.Start.Truncate(a.span)

	var closed *models.Candle
	if a.current == nil || bucket.After(a.current.Start) {
		if a.current != nil {
			done := *a.current
			closed = &done
		}
		fresh := models.NewCandle(a.symbol, bucket, vc.Open, 0)
		a.current = &fresh
		a.lastVendorStart = time.Time{}
	}

	volume := vc.Volume
	if vc.Start.Equal(a.lastVendorStart) {
		volume = vc.Volume - a.lastVendorVolume
	}
	a.current.UpdateCandle(vc.High, 0)
	a.current.UpdateCandle(vc.Low, 0)
	a.current.UpdateCandle(vc.Close, volume)
	a.lastVendorStart = vc.Start
	a.lastVendorVolume = vc.Volume

	return closed
}

// SubscribeToCandles opens a websocket subscription on the candles channel,
// aggregates the vendor's candles up to the requested resolution, and emits
// each aggregate once the next bucket begins, i.e. only closed candles of the
// requested size reach the strategy side.
func (c *Client) SubscribeToCandles(symbol string, resolution enum.Resolution) (<-chan models.Candle, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan models.Candle, 64)

	go c.streamCandles(ctx, symbol, resolution, out)

	return out, cancel, nil
}

func (c *Client) streamCandles(ctx context.Context, symbol string, resolution enum.Resolution, out chan<- models.Candle) {
	defer close(out)

	slog := log.WithField("symbol", symbol)
	agg := newCandleAggregator(symbol, resolution)

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxElapsedTime = 0 // keep reconnecting for the session lifetime

	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := c.dialAndSubscribe(ctx, symbol)
		if err != nil {
			slog.WithError(err).Warn("candle stream dial failed")
			if !sleepCtx(ctx, retry.NextBackOff()) {
				return
			}
			continue
		}
		retry.Reset()

		// tear the read loop down when the subscriber goes away
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-done:
			}
		}()

		for {
			var msg candleMsg
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() == nil {
					slog.WithError(err).Warn("candle stream read failed, reconnecting")
				}
				break
			}
			for _, ev := range msg.Events {
				for _, wc := range ev.Candles {
					if wc.ProductID != symbol {
						continue
					}
					closed := agg.ingest(wc.toCandle(symbol))
					if closed == nil {
						continue
					}
					select {
					case out <- *closed:
					case <-ctx.Done():
						close(done)
						conn.Close()
						return
					}
				}
			}
		}
		close(done)
		conn.Close()
		if !sleepCtx(ctx, retry.NextBackOff()) {
			return
		}
	}
}

func (c *Client) dialAndSubscribe(ctx context.Context, symbol string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return nil, err
	}

	sub := subscribeMsg{
		Type:       "subscribe",
		ProductIDs: []string{symbol},
		Channel:    "candles",
	}
	if c.apiKey != "" && c.apiSecret != "" {
		if tok, err := buildJWT(c.apiKey, c.apiSecret); err == nil {
			sub.JWT = tok
		} else {
			log.WithError(err).Warn("subscribing without JWT")
		}
	}
	payload, err := json.Marshal(sub)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		conn.Close()
		return nil, err
	}
	log.WithFields(logrus.Fields{"symbol": symbol, "url": c.wsURL}).Info("candle stream subscribed")
	return conn, nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
