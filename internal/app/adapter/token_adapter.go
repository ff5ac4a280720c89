package adapter

import (
	"context"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/client"
	"chainfolio/internal/domain/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// covalentTokenSource implements port.TokenSource on top of the
// Covalent balances API. Each call runs under its own deadline and is
// all-or-nothing: a failed request yields a ProviderError, never a
// partial listing.
type covalentTokenSource struct {
	client  client.CovalentClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewCovalentTokenSource creates a token source backed by Covalent.
func NewCovalentTokenSource(c client.CovalentClient, timeout time.Duration, logger *zap.Logger) port.TokenSource {
	return &covalentTokenSource{
		client:  c,
		timeout: timeout,
		logger:  logger.Named("CovalentTokenSource"),
	}
}

// FetchTokens implements port.TokenSource.
func (s *covalentTokenSource) FetchTokens(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.TokenBalance, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.client.GetTokenBalances(callCtx, network.CovalentChainName, address)
	if err != nil {
		return nil, entity.NewProviderError(network.Identifier, entity.AssetClassToken, err)
	}

	balances := make([]entity.TokenBalance, 0, len(items))
	for _, item := range items {
		if item.Balance == "" || item.Balance == "0" {
			continue
		}
		contract := item.ContractAddress
		if item.NativeToken {
			contract = entity.NativeAssetSentinel
		}
		balances = append(balances, entity.TokenBalance{
			ContractAddress: contract,
			Symbol:          item.ContractTicker,
			Name:            item.ContractName,
			Balance:         item.Balance,
			Decimals:        item.ContractDecimals,
			Price:           decimal.Zero,
			Value:           decimal.Zero,
			LogoURL:         item.LogoURL,
		})
	}

	s.logger.Debug("Fetched token balances",
		zap.String("network", network.Identifier),
		zap.String("address", address),
		zap.Int("count", len(balances)))
	return balances, nil
}
