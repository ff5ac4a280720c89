package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NativeAssetSentinel is the pseudo-address used by indexer APIs
// for a network's native asset (ETH, MATIC, ...).
const NativeAssetSentinel = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// TokenBalance represents a fungible token holding on a single network.
// Balance is the raw on-chain amount as a decimal string; Value is the
// USD valuation derived from Price via ComputeValue.
type TokenBalance struct {
	ContractAddress string          `json:"contractAddress"`
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Balance         string          `json:"balance"`
	Decimals        uint8           `json:"decimals"`
	Price           decimal.Decimal `json:"price"`
	Value           decimal.Decimal `json:"value"`
	LogoURL         string          `json:"logoUrl,omitempty"`
}

// IsNative reports whether the balance is the network's native asset.
func (t TokenBalance) IsNative() bool {
	return t.ContractAddress == "" || strings.EqualFold(t.ContractAddress, NativeAssetSentinel)
}

// ComputeValue derives Value from the raw balance, decimals and unit
// price. An unparseable balance or a non-positive price yields zero,
// never a negative or undefined value.
func (t *TokenBalance) ComputeValue() {
	if t.Price.Sign() <= 0 {
		t.Value = decimal.Zero
		return
	}
	raw, err := decimal.NewFromString(t.Balance)
	if err != nil || raw.Sign() <= 0 {
		t.Value = decimal.Zero
		return
	}
	t.Value = raw.Shift(-int32(t.Decimals)).Mul(t.Price)
}
