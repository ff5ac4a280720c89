package port

import (
	"context"

	"chainfolio/internal/domain/entity"
)

// ChainAggregator produces the per-network portfolio for one wallet.
// AggregateNetwork deliberately has no error return: any source or
// enrichment failure is absorbed into an empty category so one
// network's outage cannot degrade the others.
type ChainAggregator interface {
	AggregateNetwork(ctx context.Context, address string, network entity.NetworkDefinition) entity.NetworkPortfolio
}

// PortfolioService produces wallet-level snapshots across networks.
type PortfolioService interface {
	// GetUserPortfolio aggregates the wallet's holdings across the
	// requested networks. An empty network list falls back to the
	// configured default set. The only error it can return is
	// entity.ErrInvalidAddress (or a context error on cancellation).
	GetUserPortfolio(ctx context.Context, address string, networks []string) (*entity.WalletPortfolio, error)
}
