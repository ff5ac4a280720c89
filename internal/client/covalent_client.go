package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chainfolio/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CovalentClient defines the interface for fetching token balances from
// the Covalent API.
type CovalentClient interface {
	GetTokenBalances(ctx context.Context, chainName string, address string) ([]entity.CovalentBalanceItem, error)
}

type covalentClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCovalentClient creates a new instance of covalentClientImpl.
func NewCovalentClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger) CovalentClient {
	return &covalentClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("CovalentClient"),
	}
}

// GetTokenBalances implements the CovalentClient interface.
func (c *covalentClientImpl) GetTokenBalances(ctx context.Context, chainName string, address string) ([]entity.CovalentBalanceItem, error) {
	requestURL := fmt.Sprintf("%s/v1/%s/address/%s/balances_v2/?no-spam=true", c.baseURL, chainName, address)

	c.logger.Debug("Requesting token balances from Covalent",
		zap.String("chain", chainName), zap.String("address", address))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.doWithDeadline(ctx, req, resp); err != nil {
		c.logger.Error("Failed to execute request to Covalent", zap.String("chain", chainName), zap.Error(err))
		return nil, fmt.Errorf("covalent request for chain %s failed: %w", chainName, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Covalent API request failed",
			zap.String("chain", chainName),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("covalent API request for chain %s failed with status %d", chainName, resp.StatusCode())
	}

	var parsed entity.CovalentBalancesResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal Covalent response for chain %s: %w", chainName, err)
	}
	if parsed.Error {
		return nil, fmt.Errorf("covalent API error for chain %s: %s (code %d)", chainName, parsed.ErrorMessage, parsed.ErrorCode)
	}

	c.logger.Debug("Successfully fetched token balances from Covalent",
		zap.String("chain", chainName), zap.Int("itemCount", len(parsed.Data.Items)))
	return parsed.Data.Items, nil
}

func (c *covalentClientImpl) doWithDeadline(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.client.DoDeadline(req, resp, deadline)
	}
	return c.client.DoTimeout(req, resp, c.timeout)
}
