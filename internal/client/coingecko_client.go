package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chainfolio/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// CoinGeckoClient defines the interface for fetching spot prices from
// the CoinGecko simple price API.
type CoinGeckoClient interface {
	// GetSimplePrices fetches USD prices for the given coin ids in one
	// batched call.
	GetSimplePrices(ctx context.Context, coinIDs []string) (entity.CoinGeckoSimplePrice, error)
}

type coinGeckoClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a new instance of coinGeckoClientImpl.
func NewCoinGeckoClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger) CoinGeckoClient {
	return &coinGeckoClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// GetSimplePrices implements the CoinGeckoClient interface.
func (c *coinGeckoClientImpl) GetSimplePrices(ctx context.Context, coinIDs []string) (entity.CoinGeckoSimplePrice, error) {
	if len(coinIDs) == 0 {
		return nil, fmt.Errorf("coinIDs cannot be empty")
	}

	requestURL := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, strings.Join(coinIDs, ","))

	c.logger.Debug("Requesting prices from CoinGecko", zap.Int("coinCount", len(coinIDs)))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to CoinGecko", zap.Error(err))
		return nil, fmt.Errorf("coingecko price request failed: %w", err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("CoinGecko API request failed",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("coingecko API request failed with status %d", resp.StatusCode())
	}

	var parsed entity.CoinGeckoSimplePrice
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CoinGecko response: %w", err)
	}

	c.logger.Debug("Successfully fetched prices from CoinGecko", zap.Int("priceCount", len(parsed)))
	return parsed, nil
}
