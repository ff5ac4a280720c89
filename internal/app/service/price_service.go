package service

import (
	"context"
	"strings"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/client"
	"chainfolio/internal/config"
	"chainfolio/internal/domain/entity"
	"chainfolio/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxCoinsPerPriceRequest caps how many coin ids go into one CoinGecko
// simple/price call.
const maxCoinsPerPriceRequest = 250

// coinIDBySymbol maps token symbols (lowercase) to CoinGecko coin ids.
// Symbols not listed here cannot be priced and keep a zero value.
var coinIDBySymbol = map[string]string{
	"eth":    "ethereum",
	"weth":   "weth",
	"matic":  "matic-network",
	"op":     "optimism",
	"arb":    "arbitrum",
	"usdc":   "usd-coin",
	"usdt":   "tether",
	"dai":    "dai",
	"wbtc":   "wrapped-bitcoin",
	"link":   "chainlink",
	"uni":    "uniswap",
	"aave":   "aave",
	"ldo":    "lido-dao",
	"steth":  "staked-ether",
	"wsteth": "wrapped-steth",
	"reth":   "rocket-pool-eth",
	"crv":    "curve-dao-token",
	"snx":    "havven",
	"velo":   "velodrome-finance",
	"aero":   "aerodrome-finance",
}

// priceEnricherImpl implements port.PriceEnricher on top of the
// CoinGecko client, a TTL price cache and a rate limiter that keeps the
// engine inside the provider's request budget. All symbols of one
// enrichment call are batched into as few upstream calls as the
// provider allows, normally exactly one.
type priceEnricherImpl struct {
	client  client.CoinGeckoClient
	cache   *cache.Cache
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewPriceEnricher creates a new instance of priceEnricherImpl.
func NewPriceEnricher(cgClient client.CoinGeckoClient, cfg *config.Config, logger *zap.Logger) port.PriceEnricher {
	ttl := time.Duration(cfg.Prices.CacheTTLMinutes) * time.Minute
	return &priceEnricherImpl{
		client:  cgClient,
		cache:   cache.New(ttl, 2*ttl),
		limiter: rate.NewLimiter(rate.Limit(cfg.Prices.RequestsPerSecond), cfg.Prices.Burst),
		logger:  logger.Named("PriceEnricher"),
	}
}

// Enrich implements port.PriceEnricher. Output preserves input length
// and order; entries without a resolvable price keep zero price/value.
func (s *priceEnricherImpl) Enrich(ctx context.Context, tokens []entity.TokenBalance) []entity.TokenBalance {
	if len(tokens) == 0 {
		return tokens
	}

	missing := make([]string, 0, len(tokens))
	prices := make(map[string]decimal.Decimal, len(tokens))
	for _, t := range tokens {
		coinID, ok := coinIDBySymbol[strings.ToLower(t.Symbol)]
		if !ok {
			continue
		}
		if cached, found := s.cache.Get(coinID); found {
			if p, ok := cached.(decimal.Decimal); ok {
				prices[coinID] = p
				continue
			}
		}
		missing = append(missing, coinID)
	}

	for _, batch := range utils.BatchStrings(utils.UniqueStrings(missing), maxCoinsPerPriceRequest) {
		s.fetchBatch(ctx, batch, prices)
	}

	enriched := make([]entity.TokenBalance, len(tokens))
	for i, t := range tokens {
		coinID, ok := coinIDBySymbol[strings.ToLower(t.Symbol)]
		if ok {
			if price, found := prices[coinID]; found {
				t.Price = price
			}
		}
		t.ComputeValue()
		enriched[i] = t
	}
	return enriched
}

// fetchBatch resolves one batch of coin ids and records the results in
// the cache and the prices map. Failures are logged and absorbed: the
// unresolved coins simply stay unpriced.
func (s *priceEnricherImpl) fetchBatch(ctx context.Context, coinIDs []string, prices map[string]decimal.Decimal) {
	if len(coinIDs) == 0 {
		return
	}
	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn("Price request aborted while waiting for rate limiter", zap.Error(err))
		return
	}

	resp, err := s.client.GetSimplePrices(ctx, coinIDs)
	if err != nil {
		s.logger.Warn("Price batch lookup failed, affected tokens stay unpriced",
			zap.Int("coinCount", len(coinIDs)), zap.Error(err))
		return
	}

	for coinID, currencies := range resp {
		usd, ok := currencies["usd"]
		if !ok || usd <= 0 {
			continue
		}
		price := decimal.NewFromFloat(usd)
		prices[coinID] = price
		s.cache.Set(coinID, price, cache.DefaultExpiration)
	}
}
