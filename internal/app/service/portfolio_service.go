package service

import (
	"context"
	"strings"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/config"
	"chainfolio/internal/domain/entity"
	"chainfolio/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// portfolioServiceImpl implements port.PortfolioService. It validates
// the wallet address, fans the chain aggregator out across the
// requested networks and assembles the wallet-level snapshot, keeping
// per-network results in request order.
type portfolioServiceImpl struct {
	chains    port.ChainAggregator
	cfg       *config.Config
	logger    *zap.Logger
	cycleSpan time.Duration
}

// NewPortfolioService creates a new instance of portfolioServiceImpl.
func NewPortfolioService(chains port.ChainAggregator, cfg *config.Config, logger *zap.Logger) port.PortfolioService {
	// Chains run concurrently, so a cycle takes about one adapter
	// deadline plus a margin, not the sum of them.
	span := time.Duration(cfg.Portfolio.AdapterTimeoutMillis+cfg.Portfolio.CycleMarginMillis) * time.Millisecond
	return &portfolioServiceImpl{
		chains:    chains,
		cfg:       cfg,
		logger:    logger.Named("PortfolioService"),
		cycleSpan: span,
	}
}

// GetUserPortfolio implements port.PortfolioService.
func (s *portfolioServiceImpl) GetUserPortfolio(ctx context.Context, address string, networks []string) (*entity.WalletPortfolio, error) {
	normalized, err := NormalizeAddress(address)
	if err != nil {
		s.logger.Warn("Rejected portfolio request for malformed address", zap.String("address", address))
		return nil, err
	}

	networkDefs := s.resolveNetworks(networks)
	s.logger.Info("Aggregating portfolio",
		zap.String("address", normalized),
		zap.Int("networkCount", len(networkDefs)))

	start := time.Now()
	cycleCtx, cancel := context.WithTimeout(ctx, s.cycleSpan)
	defer cancel()

	// Assign results by index so the response preserves request order
	// regardless of completion order.
	results := make([]entity.NetworkPortfolio, len(networkDefs))
	eg, egCtx := errgroup.WithContext(cycleCtx)
	eg.SetLimit(s.cfg.Portfolio.MaxConcurrentNetworks)

	for i, networkDef := range networkDefs {
		eg.Go(func() error {
			results[i] = s.chains.AggregateNetwork(egCtx, normalized, networkDef)
			return nil
		})
	}
	// AggregateNetwork never returns an error, so Wait only reflects
	// context state.
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		metrics.AggregationCycles.WithLabelValues("cancelled").Inc()
		return nil, err
	}

	portfolio := &entity.WalletPortfolio{
		Address:         normalized,
		Networks:        results,
		LastRefreshedAt: time.Now().UTC(),
	}
	portfolio.ComputeTotal()

	metrics.AggregationCycles.WithLabelValues("success").Inc()
	metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("Portfolio aggregation complete",
		zap.String("address", normalized),
		zap.String("totalValue", portfolio.TotalValue.String()),
		zap.Duration("elapsed", time.Since(start)))
	return portfolio, nil
}

// resolveNetworks maps requested identifiers onto network definitions.
// An empty request falls back to the configured default set; unknown
// identifiers are dropped with a warning rather than failing the whole
// request.
func (s *portfolioServiceImpl) resolveNetworks(requested []string) []entity.NetworkDefinition {
	if len(requested) == 0 {
		requested = s.cfg.Portfolio.DefaultNetworks
	}
	defs := make([]entity.NetworkDefinition, 0, len(requested))
	for _, identifier := range requested {
		def, ok := s.cfg.NetworkByIdentifier(strings.ToLower(strings.TrimSpace(identifier)))
		if !ok {
			s.logger.Warn("Skipping unknown network identifier", zap.String("network", identifier))
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

// NormalizeAddress validates a wallet address and returns its canonical
// lowercase form. Malformed input yields entity.ErrInvalidAddress.
func NormalizeAddress(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if !common.IsHexAddress(trimmed) {
		return "", entity.ErrInvalidAddress
	}
	return strings.ToLower(common.HexToAddress(trimmed).Hex()), nil
}
