package adapter

import (
	"context"
	"strconv"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/client"
	"chainfolio/internal/domain/entity"
	clientEntity "chainfolio/internal/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// debankStakingSource implements port.StakingSource on top of the
// DeBank complex protocol API. Each portfolio item of a protocol maps
// to one StakingPosition.
type debankStakingSource struct {
	client  client.DebankClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewDebankStakingSource creates a staking source backed by DeBank.
func NewDebankStakingSource(c client.DebankClient, timeout time.Duration, logger *zap.Logger) port.StakingSource {
	return &debankStakingSource{
		client:  c,
		timeout: timeout,
		logger:  logger.Named("DebankStakingSource"),
	}
}

// FetchStaking implements port.StakingSource.
func (s *debankStakingSource) FetchStaking(ctx context.Context, address string, network entity.NetworkDefinition) ([]entity.StakingPosition, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	protocols, err := s.client.GetComplexProtocolList(callCtx, network.DebankChainID, address)
	if err != nil {
		return nil, entity.NewProviderError(network.Identifier, entity.AssetClassStaking, err)
	}

	var positions []entity.StakingPosition
	for _, protocol := range protocols {
		for _, item := range protocol.PortfolioItemList {
			positions = append(positions, mapPortfolioItem(protocol.Name, item))
		}
	}

	s.logger.Debug("Fetched staking positions",
		zap.String("network", network.Identifier),
		zap.String("address", address),
		zap.Int("count", len(positions)))
	return positions, nil
}

func mapPortfolioItem(protocolName string, item clientEntity.DebankPortfolioItem) entity.StakingPosition {
	pos := entity.StakingPosition{
		Protocol: protocolName,
		Value:    decimal.NewFromFloat(item.Stats.NetUSDValue),
	}
	if item.Detail.DailyAPR > 0 {
		// DeBank reports a daily rate; annualize it.
		pos.APR = decimal.NewFromFloat(item.Detail.DailyAPR).Mul(decimal.NewFromInt(365))
	}
	if len(item.Detail.SupplyTokenList) > 0 {
		supply := item.Detail.SupplyTokenList[0]
		pos.Asset = supply.Symbol
		pos.Amount = strconv.FormatFloat(supply.Amount, 'f', -1, 64)
	}
	rewardsValue := decimal.Zero
	rewardsAmount := decimal.Zero
	for _, reward := range item.Detail.RewardTokenList {
		rewardsAmount = rewardsAmount.Add(decimal.NewFromFloat(reward.Amount))
		rewardsValue = rewardsValue.Add(decimal.NewFromFloat(reward.Amount).Mul(decimal.NewFromFloat(reward.Price)))
	}
	if rewardsValue.Sign() > 0 {
		pos.Rewards = rewardsAmount.String()
		pos.RewardsValue = rewardsValue
	}
	return pos
}
