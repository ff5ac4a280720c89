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

// DebankClient defines the interface for fetching staking positions
// from the DeBank open API.
type DebankClient interface {
	GetComplexProtocolList(ctx context.Context, debankChainID string, address string) ([]entity.DebankProtocol, error)
}

type debankClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewDebankClient creates a new instance of debankClientImpl.
func NewDebankClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger) DebankClient {
	return &debankClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("DebankClient"),
	}
}

// GetComplexProtocolList implements the DebankClient interface.
func (c *debankClientImpl) GetComplexProtocolList(ctx context.Context, debankChainID string, address string) ([]entity.DebankProtocol, error) {
	requestURL := fmt.Sprintf("%s/v1/user/complex_protocol_list?id=%s&chain_id=%s", c.baseURL, address, debankChainID)

	c.logger.Debug("Requesting protocol positions from DeBank",
		zap.String("chain", debankChainID), zap.String("address", address))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("AccessKey", c.apiKey)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to DeBank", zap.String("chain", debankChainID), zap.Error(err))
		return nil, fmt.Errorf("debank request for chain %s failed: %w", debankChainID, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("DeBank API request failed",
			zap.String("chain", debankChainID),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("debank API request for chain %s failed with status %d", debankChainID, resp.StatusCode())
	}

	var protocols []entity.DebankProtocol
	if err := json.Unmarshal(rawBody, &protocols); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DeBank response for chain %s: %w", debankChainID, err)
	}

	c.logger.Debug("Successfully fetched protocol positions from DeBank",
		zap.String("chain", debankChainID), zap.Int("protocolCount", len(protocols)))
	return protocols, nil
}
