package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chainfolio/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// valuedAggregator returns a portfolio worth the given amount for every
// network it is asked about.
func valuedAggregator(values map[string]int64) chainAggregatorFunc {
	return func(_ context.Context, _ string, network entity.NetworkDefinition) entity.NetworkPortfolio {
		p := entity.EmptyNetworkPortfolio(network.Identifier)
		if v, ok := values[network.Identifier]; ok {
			p.Tokens = []entity.TokenBalance{{Symbol: "ETH", Value: decimal.NewFromInt(v)}}
			p.ComputeTotals()
		}
		return p
	}
}

func TestGetUserPortfolioRejectsInvalidAddress(t *testing.T) {
	svc := NewPortfolioService(valuedAggregator(nil), testConfig(), zap.NewNop())

	_, err := svc.GetUserPortfolio(context.Background(), "not-an-address", []string{"ethereum"})
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)

	_, err = svc.GetUserPortfolio(context.Background(), "", nil)
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)
}

func TestGetUserPortfolioNormalizesAddress(t *testing.T) {
	svc := NewPortfolioService(valuedAggregator(nil), testConfig(), zap.NewNop())

	p, err := svc.GetUserPortfolio(context.Background(), "0x1234567890ABCDEF1234567890ABCDEF12345678", []string{"ethereum"})
	require.NoError(t, err)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", p.Address)
}

func TestGetUserPortfolioPreservesRequestOrder(t *testing.T) {
	// Completion order is scrambled with per-network delays; result
	// order must still match request order.
	agg := chainAggregatorFunc(func(_ context.Context, _ string, network entity.NetworkDefinition) entity.NetworkPortfolio {
		switch network.Identifier {
		case "ethereum":
			time.Sleep(30 * time.Millisecond)
		case "base":
			time.Sleep(10 * time.Millisecond)
		}
		return entity.EmptyNetworkPortfolio(network.Identifier)
	})
	svc := NewPortfolioService(agg, testConfig(), zap.NewNop())

	p, err := svc.GetUserPortfolio(context.Background(), testAddress, []string{"ethereum", "base", "polygon"})
	require.NoError(t, err)
	require.Len(t, p.Networks, 3)
	assert.Equal(t, "ethereum", p.Networks[0].Network)
	assert.Equal(t, "base", p.Networks[1].Network)
	assert.Equal(t, "polygon", p.Networks[2].Network)
}

func TestGetUserPortfolioEmptyNetworksFallsBackToDefaults(t *testing.T) {
	svc := NewPortfolioService(valuedAggregator(nil), testConfig(), zap.NewNop())

	p, err := svc.GetUserPortfolio(context.Background(), testAddress, nil)
	require.NoError(t, err)
	require.Len(t, p.Networks, 3)
	assert.Equal(t, "ethereum", p.Networks[0].Network)
	assert.Equal(t, "optimism", p.Networks[1].Network)
	assert.Equal(t, "base", p.Networks[2].Network)
}

func TestGetUserPortfolioDropsUnknownNetworks(t *testing.T) {
	svc := NewPortfolioService(valuedAggregator(nil), testConfig(), zap.NewNop())

	p, err := svc.GetUserPortfolio(context.Background(), testAddress, []string{"ethereum", "notachain", "base"})
	require.NoError(t, err)
	require.Len(t, p.Networks, 2)
	assert.Equal(t, "ethereum", p.Networks[0].Network)
	assert.Equal(t, "base", p.Networks[1].Network)
}

func TestGetUserPortfolioPartialFailureScenario(t *testing.T) {
	// Ethereum has one ETH worth 3000; base fails entirely and yields a
	// zero-valued entry that is still present.
	svc := NewPortfolioService(valuedAggregator(map[string]int64{"ethereum": 3000}), testConfig(), zap.NewNop())

	p, err := svc.GetUserPortfolio(context.Background(), "0xAAA4567890abcdef1234567890abcdef12345678", []string{"ethereum", "base"})
	require.NoError(t, err)
	require.Len(t, p.Networks, 2)
	assert.True(t, p.Networks[0].TotalValue.Equal(decimal.NewFromInt(3000)))
	assert.True(t, p.Networks[1].TotalValue.IsZero())
	assert.True(t, p.TotalValue.Equal(decimal.NewFromInt(3000)))
}

func TestGetUserPortfolioTotalIsSumOfNetworkTotals(t *testing.T) {
	svc := NewPortfolioService(valuedAggregator(map[string]int64{
		"ethereum": 3000, "optimism": 950, "base": 4000,
	}), testConfig(), zap.NewNop())

	p, err := svc.GetUserPortfolio(context.Background(), testAddress, []string{"ethereum", "optimism", "base"})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, n := range p.Networks {
		sum = sum.Add(n.TotalValue)
	}
	assert.True(t, p.TotalValue.Equal(sum))
	assert.True(t, p.TotalValue.Equal(decimal.NewFromInt(7950)))
}

func TestGetUserPortfolioIdempotent(t *testing.T) {
	svc := NewPortfolioService(valuedAggregator(map[string]int64{"ethereum": 3000}), testConfig(), zap.NewNop())

	first, err := svc.GetUserPortfolio(context.Background(), testAddress, []string{"ethereum"})
	require.NoError(t, err)
	second, err := svc.GetUserPortfolio(context.Background(), testAddress, []string{"ethereum"})
	require.NoError(t, err)

	// Snapshots are value-equal except for the refresh timestamp.
	second.LastRefreshedAt = first.LastRefreshedAt
	assert.Equal(t, first, second)
}

func TestGetUserPortfolioConcurrencyBounded(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0
	agg := chainAggregatorFunc(func(_ context.Context, _ string, network entity.NetworkDefinition) entity.NetworkPortfolio {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return entity.EmptyNetworkPortfolio(network.Identifier)
	})

	cfg := testConfig()
	cfg.Portfolio.MaxConcurrentNetworks = 2
	svc := NewPortfolioService(agg, cfg, zap.NewNop())

	_, err := svc.GetUserPortfolio(context.Background(), testAddress, []string{"ethereum", "optimism", "base", "arbitrum", "polygon"})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak, 2, "network fan-out must respect the concurrency cap")
}

func TestGetUserPortfolioCancelled(t *testing.T) {
	agg := chainAggregatorFunc(func(ctx context.Context, _ string, network entity.NetworkDefinition) entity.NetworkPortfolio {
		<-ctx.Done()
		return entity.EmptyNetworkPortfolio(network.Identifier)
	})
	svc := NewPortfolioService(agg, testConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.GetUserPortfolio(ctx, testAddress, []string{"ethereum"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNormalizeAddress(t *testing.T) {
	got, err := NormalizeAddress("  0x1234567890ABCDEF1234567890abcdef12345678 ")
	require.NoError(t, err)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", got)

	_, err = NormalizeAddress("0x123")
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)
}
