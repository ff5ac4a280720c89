package service

import (
	"context"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"
	"chainfolio/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// chainAggregatorImpl implements port.ChainAggregator. It fans out to
// the three asset-class sources for one network in parallel and reduces
// the results into a NetworkPortfolio. The signature carries no error
// return: a failed category degrades to an empty list and the failure
// is logged and counted, so one network's outage never reaches its
// siblings.
type chainAggregatorImpl struct {
	registry port.SourceRegistry
	enricher port.PriceEnricher
	logger   *zap.Logger
}

// NewChainAggregator creates a new instance of chainAggregatorImpl.
func NewChainAggregator(registry port.SourceRegistry, enricher port.PriceEnricher, logger *zap.Logger) port.ChainAggregator {
	return &chainAggregatorImpl{
		registry: registry,
		enricher: enricher,
		logger:   logger.Named("ChainAggregator"),
	}
}

// AggregateNetwork implements port.ChainAggregator.
func (s *chainAggregatorImpl) AggregateNetwork(ctx context.Context, address string, network entity.NetworkDefinition) entity.NetworkPortfolio {
	var (
		tokens     []entity.TokenBalance
		nfts       []entity.NFTItem
		staking    []entity.StakingPosition
		tokensErr  error
		nftsErr    error
		stakingErr error
	)

	// Deliberately no errgroup.WithContext here: categories are
	// independent and one failure must not abort the other two.
	var g errgroup.Group
	g.Go(func() error {
		tokens, tokensErr = s.registry.TokenSource(network.Identifier).FetchTokens(ctx, address, network)
		return nil
	})
	g.Go(func() error {
		nfts, nftsErr = s.registry.NFTSource(network.Identifier).FetchNFTs(ctx, address, network)
		return nil
	})
	g.Go(func() error {
		staking, stakingErr = s.registry.StakingSource(network.Identifier).FetchStaking(ctx, address, network)
		return nil
	})
	_ = g.Wait()

	if tokensErr != nil {
		s.recordFailure(network.Identifier, entity.AssetClassToken, address, tokensErr)
		tokens = []entity.TokenBalance{}
	} else {
		tokens = s.enricher.Enrich(ctx, tokens)
	}
	if nftsErr != nil {
		s.recordFailure(network.Identifier, entity.AssetClassNFT, address, nftsErr)
		nfts = []entity.NFTItem{}
	}
	if stakingErr != nil {
		s.recordFailure(network.Identifier, entity.AssetClassStaking, address, stakingErr)
		staking = []entity.StakingPosition{}
	}
	if tokens == nil {
		tokens = []entity.TokenBalance{}
	}
	if nfts == nil {
		nfts = []entity.NFTItem{}
	}
	if staking == nil {
		staking = []entity.StakingPosition{}
	}

	portfolio := entity.NetworkPortfolio{
		Network:          network.Identifier,
		Tokens:           tokens,
		NFTs:             nfts,
		StakingPositions: staking,
	}
	portfolio.ComputeTotals()
	return portfolio
}

func (s *chainAggregatorImpl) recordFailure(network string, class entity.AssetClass, address string, err error) {
	metrics.ProviderErrors.WithLabelValues(network, string(class)).Inc()
	s.logger.Warn("Source failed, category degrades to empty",
		zap.String("network", network),
		zap.String("assetClass", string(class)),
		zap.String("address", address),
		zap.Error(err))
}
