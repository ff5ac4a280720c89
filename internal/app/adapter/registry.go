package adapter

import (
	"context"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/client"
	"chainfolio/internal/config"
	"chainfolio/internal/domain/entity"

	"go.uber.org/zap"
)

// Registry selects the source implementation for each (asset class,
// network) pair via a lookup table keyed by network identifier. A
// provider whose API key is missing is registered as a disabled source
// that returns empty listings, so the asset class degrades instead of
// erroring.
type Registry struct {
	tokens  map[string]port.TokenSource
	nfts    map[string]port.NFTSource
	staking map[string]port.StakingSource
	logger  *zap.Logger
}

// NewRegistry builds the adapter lookup table from configuration.
func NewRegistry(cfg *config.Config, logger *zap.Logger) *Registry {
	log := logger.Named("AdapterRegistry")
	adapterTimeout := time.Duration(cfg.Portfolio.AdapterTimeoutMillis) * time.Millisecond

	var tokenSource port.TokenSource = disabledSource{}
	if cfg.Providers.Covalent.APIKey != "" {
		covalent := client.NewCovalentClient(
			cfg.Providers.Covalent.BaseURL,
			cfg.Providers.Covalent.APIKey,
			time.Duration(cfg.Providers.Covalent.RequestTimeoutMillis)*time.Millisecond,
			logger,
		)
		tokenSource = NewCovalentTokenSource(covalent, adapterTimeout, logger)
	} else {
		log.Warn("Covalent API key not configured, token balances disabled for all networks")
	}

	var nftSource port.NFTSource = disabledSource{}
	if cfg.Providers.Alchemy.APIKey != "" {
		alchemy := client.NewAlchemyClient(
			cfg.Providers.Alchemy.BaseURL,
			cfg.Providers.Alchemy.APIKey,
			time.Duration(cfg.Providers.Alchemy.RequestTimeoutMillis)*time.Millisecond,
			logger,
		)
		nftSource = NewAlchemyNFTSource(alchemy, adapterTimeout, logger)
	} else {
		log.Warn("Alchemy API key not configured, NFT holdings disabled for all networks")
	}

	var stakingSource port.StakingSource = disabledSource{}
	if cfg.Providers.Debank.APIKey != "" {
		debank := client.NewDebankClient(
			cfg.Providers.Debank.BaseURL,
			cfg.Providers.Debank.APIKey,
			time.Duration(cfg.Providers.Debank.RequestTimeoutMillis)*time.Millisecond,
			logger,
		)
		stakingSource = NewDebankStakingSource(debank, adapterTimeout, logger)
	} else {
		log.Warn("DeBank API key not configured, staking positions disabled for all networks")
	}

	r := &Registry{
		tokens:  make(map[string]port.TokenSource, len(cfg.Networks)),
		nfts:    make(map[string]port.NFTSource, len(cfg.Networks)),
		staking: make(map[string]port.StakingSource, len(cfg.Networks)),
		logger:  log,
	}
	for _, network := range cfg.Networks {
		r.tokens[network.Identifier] = tokenSource
		r.nfts[network.Identifier] = nftSource
		r.staking[network.Identifier] = stakingSource
	}
	return r
}

// TokenSource returns the token source for a network identifier.
func (r *Registry) TokenSource(identifier string) port.TokenSource {
	if s, ok := r.tokens[identifier]; ok {
		return s
	}
	return disabledSource{}
}

// NFTSource returns the NFT source for a network identifier.
func (r *Registry) NFTSource(identifier string) port.NFTSource {
	if s, ok := r.nfts[identifier]; ok {
		return s
	}
	return disabledSource{}
}

// StakingSource returns the staking source for a network identifier.
func (r *Registry) StakingSource(identifier string) port.StakingSource {
	if s, ok := r.staking[identifier]; ok {
		return s
	}
	return disabledSource{}
}

// disabledSource stands in for a provider without an API key. It
// satisfies all three source ports and always returns empty listings.
type disabledSource struct{}

func (disabledSource) FetchTokens(context.Context, string, entity.NetworkDefinition) ([]entity.TokenBalance, error) {
	return []entity.TokenBalance{}, nil
}

func (disabledSource) FetchNFTs(context.Context, string, entity.NetworkDefinition) ([]entity.NFTItem, error) {
	return []entity.NFTItem{}, nil
}

func (disabledSource) FetchStaking(context.Context, string, entity.NetworkDefinition) ([]entity.StakingPosition, error) {
	return []entity.StakingPosition{}, nil
}
