package service

import (
	"context"

	"chainfolio/internal/app/port"
	"chainfolio/internal/config"
	"chainfolio/internal/domain/entity"
)

// Function adapters so tests can stub sources inline.

type tokenSourceFunc func(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.TokenBalance, error)

func (f tokenSourceFunc) FetchTokens(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.TokenBalance, error) {
	return f(ctx, address, network)
}

type nftSourceFunc func(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.NFTItem, error)

func (f nftSourceFunc) FetchNFTs(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.NFTItem, error) {
	return f(ctx, address, network)
}

type stakingSourceFunc func(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.StakingPosition, error)

func (f stakingSourceFunc) FetchStaking(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.StakingPosition, error) {
	return f(ctx, address, network)
}

// stubRegistry serves the same stub source for every network.
type stubRegistry struct {
	tokens  port.TokenSource
	nfts    port.NFTSource
	staking port.StakingSource
}

func (r stubRegistry) TokenSource(string) port.TokenSource     { return r.tokens }
func (r stubRegistry) NFTSource(string) port.NFTSource         { return r.nfts }
func (r stubRegistry) StakingSource(string) port.StakingSource { return r.staking }

// identityEnricher computes values from already-set prices without any
// upstream call.
type identityEnricher struct{}

func (identityEnricher) Enrich(_ context.Context, tokens []entity.TokenBalance) []entity.TokenBalance {
	out := make([]entity.TokenBalance, len(tokens))
	for i, t := range tokens {
		t.ComputeValue()
		out[i] = t
	}
	return out
}

// enricherFunc stubs port.PriceEnricher.
type enricherFunc func(ctx context.Context, tokens []entity.TokenBalance) []entity.TokenBalance

func (f enricherFunc) Enrich(ctx context.Context, tokens []entity.TokenBalance) []entity.TokenBalance {
	return f(ctx, tokens)
}

// chainAggregatorFunc stubs port.ChainAggregator.
type chainAggregatorFunc func(ctx context.Context, address string, network entity.NetworkDefinition) entity.NetworkPortfolio

func (f chainAggregatorFunc) AggregateNetwork(ctx context.Context, address string, network entity.NetworkDefinition) entity.NetworkPortfolio {
	return f(ctx, address, network)
}

// portfolioServiceFunc stubs port.PortfolioService.
type portfolioServiceFunc func(ctx context.Context, address string, networks []string) (*entity.WalletPortfolio, error)

func (f portfolioServiceFunc) GetUserPortfolio(ctx context.Context, address string, networks []string) (*entity.WalletPortfolio, error) {
	return f(ctx, address, networks)
}

func testConfig() *config.Config {
	return &config.Config{
		Networks: config.DefaultNetworks(),
		Portfolio: config.PortfolioConfig{
			DefaultNetworks:       []string{"ethereum", "optimism", "base"},
			AdapterTimeoutMillis:  10000,
			CycleMarginMillis:     2000,
			MaxConcurrentNetworks: 5,
		},
		Prices: config.PriceServiceConfig{
			CacheTTLMinutes:   5,
			RequestsPerSecond: 100,
			Burst:             10,
		},
	}
}

func testNetwork(identifier string) entity.NetworkDefinition {
	for _, n := range config.DefaultNetworks() {
		if n.Identifier == identifier {
			return n
		}
	}
	return entity.NetworkDefinition{Identifier: identifier}
}
