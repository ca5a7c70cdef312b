package brokerage

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pkowalke/algohost/enum"
	"github.com/pkowalke/algohost/models"
)

var log = logrus.WithField("component", "brokerage")

// Client talks to the brokerage REST API. Public market data goes out plain,
// account and order calls carry a short-lived ES256 JWT.
type Client struct {
	baseURL   string
	wsURL     string
	http      *http.Client
	apiKey    string
	apiSecret string
}

func NewClient(baseURL, wsURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		wsURL:     wsURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// CandleHistory fetches the trailing n closed candles for symbol, oldest first.
func (c *Client) CandleHistory(ctx context.Context, symbol string, n int, resolution enum.Resolution) (models.CandleHistory, error) {
	url := fmt.Sprintf("%s/api/v3/brokerage/market/products/%s/candles", c.baseURL, symbol)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return models.CandleHistory{}, err
	}

	span := enum.GetTimeDurationFromResolution(resolution)
	endUnix := time.Now().Unix()
	startUnix := time.Now().Add(-time.Duration(n+1) * span).Unix()

	q := req.URL.Query()
	q.Set("start", strconv.FormatInt(startUnix, 10))
	q.Set("end", strconv.FormatInt(endUnix, 10))
	q.Set("granularity", enum.GetVendorGranularityFromResolution(resolution))
	req.URL.RawQuery = q.Encode()

	var out candlesResponse
	if err := c.send(ctx, req, &out); err != nil {
		return models.CandleHistory{}, fmt.Errorf("candle history %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(out.Candles))
	for _, wc := range out.Candles {
		candles = append(candles, wc.toCandle(symbol))
	}
	// the API returns newest first
	sort.Slice(candles, func(i, j int) bool { return candles[i].Start.Before(candles[j].Start) })
	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}
	return models.CandleHistory{Candles: candles}, nil
}

// PlaceMarketOrder submits a notional market IOC order.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, notionalUSD float64, isBuy bool) (models.Order, error) {
	side := "SELL"
	if isBuy {
		side = "BUY"
	}
	order := models.Order{
		ClientOrderID: uuid.NewString(),
		Symbol:        symbol,
		NotionalUSD:   notionalUSD,
		IsBuy:         isBuy,
		Status:        models.OrderStatusNew,
		CreatedAt:     time.Now(),
	}
	body, err := json.Marshal(createOrderRequest{
		ClientOrderID: order.ClientOrderID,
		ProductID:     symbol,
		Side:          side,
		OrderConfiguration: orderConfiguration{
			MarketMarketIOC: marketIOC{QuoteSize: strconv.FormatFloat(notionalUSD, 'f', 2, 64)},
		},
	})
	if err != nil {
		return order, err
	}

	url := fmt.Sprintf("%s/api/v3/brokerage/orders", c.baseURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return order, err
	}
	var out createOrderResponse
	if err := c.sendWithJwt(ctx, req, &out); err != nil {
		order.Status = models.OrderStatusRejected
		return order, fmt.Errorf("place order %s: %w", symbol, err)
	}
	if !out.Success {
		order.Status = models.OrderStatusRejected
		return order, fmt.Errorf("place order %s: %s", symbol, out.Error.Message)
	}
	order.Status = models.OrderStatusFilled
	log.WithFields(logrus.Fields{
		"symbol":   symbol,
		"side":     side,
		"notional": notionalUSD,
		"order_id": out.Order.OrderID,
	}).Info("order placed")
	return order, nil
}

// Balances returns available cash per currency across active accounts.
func (c *Client) Balances(ctx context.Context) (map[string]float64, error) {
	url := fmt.Sprintf("%s/api/v3/brokerage/accounts", c.baseURL)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	var out accountsListResponse
	if err := c.sendWithJwt(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	balances := make(map[string]float64)
	for _, acct := range out.Accounts {
		if acct.Active && acct.Ready {
			balances[acct.Currency] = parseFloatSafe(acct.AvailableBalance.Value)
		}
	}
	return balances, nil
}

// buildJWT signs a short-lived ES256 token with the account's EC private key.
func buildJWT(apiKey, apiSecret string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(2 * time.Minute).Unix(),
		"sub": apiKey,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	block, _ := pem.Decode([]byte(apiSecret))
	if block == nil {
		return "", fmt.Errorf("api secret is not valid PEM")
	}
	privKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("parse EC private key: %w", err)
	}
	return token.SignedString(privKey)
}

func (c *Client) sendWithJwt(ctx context.Context, req *http.Request, v any) error {
	jwtTok, err := buildJWT(c.apiKey, c.apiSecret)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+jwtTok)
	return c.send(ctx, req, v)
}

// send runs the request with bounded exponential backoff on transport errors
// and 5xx responses.
func (c *Client) send(ctx context.Context, req *http.Request, v any) error {
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	// buffer the body so retries can replay it
	var body []byte
	if req.Body != nil {
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(req.Body); err != nil {
			return err
		}
		req.Body.Close()
		body = buf.Bytes()
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(func() error {
		attempt, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		attempt.Header = req.Header
		resp, err := c.http.Do(attempt)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("brokerage http %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("brokerage http %d", resp.StatusCode))
		}
		if v != nil {
			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return backoff.Permanent(err)
			}
		}
		return nil
	}, policy)
}
