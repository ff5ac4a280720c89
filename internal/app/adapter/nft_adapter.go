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

// alchemyNFTSource implements port.NFTSource on top of the Alchemy NFT
// API.
type alchemyNFTSource struct {
	client  client.AlchemyClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewAlchemyNFTSource creates an NFT source backed by Alchemy.
func NewAlchemyNFTSource(c client.AlchemyClient, timeout time.Duration, logger *zap.Logger) port.NFTSource {
	return &alchemyNFTSource{
		client:  c,
		timeout: timeout,
		logger:  logger.Named("AlchemyNFTSource"),
	}
}

// FetchNFTs implements port.NFTSource.
func (s *alchemyNFTSource) FetchNFTs(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.NFTItem, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	owned, err := s.client.GetNFTsForOwner(callCtx, network.AlchemyNetwork, address)
	if err != nil {
		return nil, entity.NewProviderError(network.Identifier, entity.AssetClassNFT, err)
	}

	items := make([]entity.NFTItem, 0, len(owned))
	for _, nft := range owned {
		collection := nft.Contract.OpenSeaMetadata.CollectionName
		if collection == "" {
			collection = nft.Contract.Name
		}
		floor := decimal.Zero
		if nft.Contract.OpenSeaMetadata.FloorPrice > 0 {
			floor = decimal.NewFromFloat(nft.Contract.OpenSeaMetadata.FloorPrice)
		}
		imageURL := nft.Image.CachedURL
		if imageURL == "" {
			imageURL = nft.Image.OriginalURL
		}
		items = append(items, entity.NFTItem{
			ContractAddress: nft.Contract.Address,
			TokenID:         nft.TokenID,
			Name:            nft.Name,
			Collection:      collection,
			ImageURL:        imageURL,
			FloorPrice:      floor,
		})
	}

	s.logger.Debug("Fetched NFT holdings",
		zap.String("network", network.Identifier),
		zap.String("address", address),
		zap.Int("count", len(items)))
	return items, nil
}
