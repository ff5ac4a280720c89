package adapter

import (
	"context"
	"testing"

	"chainfolio/internal/config"
	clientEntity "chainfolio/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func baseConfig() *config.Config {
	return &config.Config{
		Networks: config.DefaultNetworks(),
		Portfolio: config.PortfolioConfig{
			AdapterTimeoutMillis: 10000,
		},
	}
}

func TestRegistryDisablesSourcesWithoutKeys(t *testing.T) {
	r := NewRegistry(baseConfig(), zap.NewNop())
	network, _ := baseConfig().NetworkByIdentifier("ethereum")

	tokens, err := r.TokenSource("ethereum").FetchTokens(context.Background(), "0xabc", network)
	require.NoError(t, err, "a keyless provider degrades, it never errors")
	assert.Empty(t, tokens)

	nfts, err := r.NFTSource("ethereum").FetchNFTs(context.Background(), "0xabc", network)
	require.NoError(t, err)
	assert.Empty(t, nfts)

	staking, err := r.StakingSource("ethereum").FetchStaking(context.Background(), "0xabc", network)
	require.NoError(t, err)
	assert.Empty(t, staking)
}

func TestRegistryUnknownNetworkFallsBackToDisabled(t *testing.T) {
	r := NewRegistry(baseConfig(), zap.NewNop())

	tokens, err := r.TokenSource("notachain").FetchTokens(context.Background(), "0xabc", config.DefaultNetworks()[0])
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestMapPortfolioItem(t *testing.T) {
	item := clientEntity.DebankPortfolioItem{
		Name: "Staked",
		Stats: clientEntity.DebankItemStats{
			NetUSDValue: 15000,
		},
		Detail: clientEntity.DebankItemDetail{
			SupplyTokenList: []clientEntity.DebankToken{{Symbol: "ETH", Amount: 5, Price: 3000}},
			RewardTokenList: []clientEntity.DebankToken{{Symbol: "ETH", Amount: 0.19, Price: 3000}},
		},
	}

	pos := mapPortfolioItem("Lido", item)

	assert.Equal(t, "Lido", pos.Protocol)
	assert.Equal(t, "ETH", pos.Asset)
	assert.Equal(t, "5", pos.Amount)
	assert.Equal(t, "15000", pos.Value.String())
	assert.Equal(t, "0.19", pos.Rewards)
	assert.Equal(t, "570", pos.RewardsValue.String())
}

func TestMapPortfolioItemNoRewards(t *testing.T) {
	item := clientEntity.DebankPortfolioItem{
		Stats:  clientEntity.DebankItemStats{NetUSDValue: 100},
		Detail: clientEntity.DebankItemDetail{},
	}

	pos := mapPortfolioItem("Aave", item)

	assert.Empty(t, pos.Rewards)
	assert.True(t, pos.RewardsValue.IsZero())
	assert.True(t, pos.APR.IsZero())
}
