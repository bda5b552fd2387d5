package market

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"poeflow/config"
	"poeflow/logger"
)

// line is the wire shape of a single listing as returned by the price API.
// Currency overviews name items via currencyTypeName/chaosEquivalent, item
// overviews via name/chaosValue; count is absent for currency rows.
type line struct {
	Name             string   `json:"name,omitempty"`
	CurrencyTypeName string   `json:"currencyTypeName,omitempty"`
	ChaosValue       *float64 `json:"chaosValue,omitempty"`
	ChaosEquivalent  *float64 `json:"chaosEquivalent,omitempty"`
	Count            *int     `json:"count,omitempty"`
	GemLevel         int      `json:"gemLevel,omitempty"`
	GemQuality       int      `json:"gemQuality,omitempty"`
	Corrupted        bool     `json:"corrupted,omitempty"`
}

func (l line) itemName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.CurrencyTypeName
}

func (l line) chaos() float64 {
	if l.ChaosValue != nil {
		return *l.ChaosValue
	}
	if l.ChaosEquivalent != nil {
		return *l.ChaosEquivalent
	}
	return 0
}

type linesResponse struct {
	Lines []line `json:"lines"`
}

// Client talks to the price overview API. All requests go through a
// shared rate limiter so a full snapshot fetch stays polite.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	baseURL string
	log     *logger.Log
}

func NewClient(cfg *config.Config) *Client {
	http := resty.New()
	http.SetTimeout(cfg.API.Timeout)

	return &Client{
		http:    http,
		limiter: rate.NewLimiter(rate.Limit(cfg.API.RequestsPerSecond), 1),
		baseURL: cfg.API.BaseURL,
		log:     logger.GetLogger(),
	}
}

// fetchLines issues a single overview request and returns the decoded
// lines array. Transport and shape failures come back as errors; the
// gateway converts them into empty results.
func (c *Client) fetchLines(ctx context.Context, overviewType, league, apiType string) ([]line, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	logger.IncrementAPIRequest()

	var body linesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"league": league,
			"type":   apiType,
		}).
		SetResult(&body).
		Get(c.baseURL + overviewType)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	c.log.WithComponent("market_client").WithFields(logger.Fields{
		"url":    resp.Request.URL,
		"status": resp.StatusCode(),
		"lines":  len(body.Lines),
	}).Debug("api request complete")

	return body.Lines, nil
}
