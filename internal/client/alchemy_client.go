package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"chainfolio/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// maxNFTPages bounds cursor-following for one owner. At 100 NFTs per
// page this covers 2000 holdings; beyond that the call fails rather
// than return a partial listing.
const maxNFTPages = 20

// AlchemyClient defines the interface for fetching NFT holdings from
// the Alchemy NFT API.
type AlchemyClient interface {
	GetNFTsForOwner(ctx context.Context, alchemyNetwork string, address string) ([]entity.AlchemyOwnedNFT, error)
}

type alchemyClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewAlchemyClient creates a new instance of alchemyClientImpl.
// The baseURL is a template containing the network subdomain, e.g.
// "https://eth-mainnet.g.alchemy.com"; the network segment is swapped
// per request.
func NewAlchemyClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger) AlchemyClient {
	return &alchemyClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("AlchemyClient"),
	}
}

// GetNFTsForOwner implements the AlchemyClient interface. Alchemy pages
// the listing at 100 NFTs; the cursor is followed until exhausted so
// the result is always the owner's complete holdings.
func (c *alchemyClientImpl) GetNFTsForOwner(ctx context.Context, alchemyNetwork string, address string) ([]entity.AlchemyOwnedNFT, error) {
	base := c.networkBaseURL(alchemyNetwork)

	c.logger.Debug("Requesting NFTs from Alchemy",
		zap.String("network", alchemyNetwork), zap.String("address", address))

	owned, err := collectNFTPages(func(pageKey string) (entity.AlchemyNFTsResponse, error) {
		requestURL := fmt.Sprintf("%s/nft/v3/%s/getNFTsForOwner?owner=%s&withMetadata=true&pageSize=100",
			base, c.apiKey, address)
		if pageKey != "" {
			requestURL += "&pageKey=" + url.QueryEscape(pageKey)
		}
		return c.fetchNFTPage(ctx, alchemyNetwork, requestURL)
	}, maxNFTPages)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Successfully fetched NFTs from Alchemy",
		zap.String("network", alchemyNetwork), zap.Int("nftCount", len(owned)))
	return owned, nil
}

// collectNFTPages accumulates pages by following the response cursor.
// A listing still paging after maxPages is an error: the caller must
// never mistake a prefix for the full holdings.
func collectNFTPages(fetch func(pageKey string) (entity.AlchemyNFTsResponse, error), maxPages int) ([]entity.AlchemyOwnedNFT, error) {
	var owned []entity.AlchemyOwnedNFT
	pageKey := ""
	for page := 0; page < maxPages; page++ {
		resp, err := fetch(pageKey)
		if err != nil {
			return nil, err
		}
		owned = append(owned, resp.OwnedNFTs...)
		if resp.PageKey == "" {
			return owned, nil
		}
		pageKey = resp.PageKey
	}
	return nil, fmt.Errorf("nft listing not exhausted after %d pages", maxPages)
}

// fetchNFTPage requests and decodes one page of the listing.
func (c *alchemyClientImpl) fetchNFTPage(ctx context.Context, alchemyNetwork string, requestURL string) (entity.AlchemyNFTsResponse, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to Alchemy", zap.String("network", alchemyNetwork), zap.Error(err))
		return entity.AlchemyNFTsResponse{}, fmt.Errorf("alchemy request for network %s failed: %w", alchemyNetwork, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Alchemy API request failed",
			zap.String("network", alchemyNetwork),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return entity.AlchemyNFTsResponse{}, fmt.Errorf("alchemy API request for network %s failed with status %d", alchemyNetwork, resp.StatusCode())
	}

	var parsed entity.AlchemyNFTsResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return entity.AlchemyNFTsResponse{}, fmt.Errorf("failed to unmarshal Alchemy response for network %s: %w", alchemyNetwork, err)
	}
	return parsed, nil
}

// networkBaseURL substitutes the per-network subdomain into the base
// URL. Alchemy hosts every network under its own subdomain.
func (c *alchemyClientImpl) networkBaseURL(alchemyNetwork string) string {
	parts := strings.SplitN(c.baseURL, "://", 2)
	if len(parts) != 2 {
		return c.baseURL
	}
	hostParts := strings.SplitN(parts[1], ".", 2)
	if len(hostParts) != 2 {
		return c.baseURL
	}
	return parts[0] + "://" + alchemyNetwork + "." + hostParts[1]
}
