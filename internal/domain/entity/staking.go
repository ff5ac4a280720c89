package entity

import "github.com/shopspring/decimal"

// StakingPosition represents an amount staked with a protocol on one
// network, plus any accrued rewards. APR, Rewards and RewardsValue are
// optional and stay zero when the provider does not report them.
type StakingPosition struct {
	Protocol     string          `json:"protocol"`
	Asset        string          `json:"asset"`
	Amount       string          `json:"amount"`
	Value        decimal.Decimal `json:"value"`
	APR          decimal.Decimal `json:"apr"`
	Rewards      string          `json:"rewards,omitempty"`
	RewardsValue decimal.Decimal `json:"rewardsValue"`
}
