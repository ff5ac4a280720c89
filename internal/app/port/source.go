package port

import (
	"context"

	"chainfolio/internal/domain/entity"
)

// TokenSource fetches fungible token balances for a wallet on one
// network. A call either returns the full listing or an error, never a
// partial result. Implementations apply their own request deadline and
// do not retry; retry policy belongs to the caller.
type TokenSource interface {
	FetchTokens(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.TokenBalance, error)
}

// NFTSource fetches NFT holdings for a wallet on one network.
type NFTSource interface {
	FetchNFTs(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.NFTItem, error)
}

// StakingSource fetches staking positions for a wallet on one network.
type StakingSource interface {
	FetchStaking(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.StakingPosition, error)
}

// SourceRegistry looks up the source implementation for each asset
// class by network identifier.
type SourceRegistry interface {
	TokenSource(identifier string) TokenSource
	NFTSource(identifier string) NFTSource
	StakingSource(identifier string) StakingSource
}
