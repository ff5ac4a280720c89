package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// NetworkPortfolio aggregates one wallet's holdings on a single network.
// The category subtotals and TotalValue are always re-derived from the
// lists via ComputeTotals, never set independently.
type NetworkPortfolio struct {
	Network          string            `json:"network"`
	Tokens           []TokenBalance    `json:"tokens"`
	NFTs             []NFTItem         `json:"nfts"`
	StakingPositions []StakingPosition `json:"stakingPositions"`
	TokensValue      decimal.Decimal   `json:"tokensValue"`
	NFTsValue        decimal.Decimal   `json:"nftsValue"`
	StakingValue     decimal.Decimal   `json:"stakingValue"`
	TotalValue       decimal.Decimal   `json:"totalValue"`
}

// EmptyNetworkPortfolio returns a zero-valued portfolio for a network.
// Used when every source for the network failed: the entry is still
// present in the wallet result, just empty.
func EmptyNetworkPortfolio(network string) NetworkPortfolio {
	p := NetworkPortfolio{
		Network:          network,
		Tokens:           []TokenBalance{},
		NFTs:             []NFTItem{},
		StakingPositions: []StakingPosition{},
	}
	p.ComputeTotals()
	return p
}

// ComputeTotals recomputes the three category subtotals and TotalValue
// from the item lists.
func (p *NetworkPortfolio) ComputeTotals() {
	tokens := decimal.Zero
	for _, t := range p.Tokens {
		tokens = tokens.Add(t.Value)
	}
	nfts := decimal.Zero
	for _, n := range p.NFTs {
		nfts = nfts.Add(n.FloorPrice)
	}
	staking := decimal.Zero
	for _, s := range p.StakingPositions {
		staking = staking.Add(s.Value)
	}
	p.TokensValue = tokens
	p.NFTsValue = nfts
	p.StakingValue = staking
	p.TotalValue = tokens.Add(nfts).Add(staking)
}

// WalletPortfolio is an immutable snapshot of a wallet's holdings across
// the requested networks, one NetworkPortfolio per requested network in
// request order. A new value is built on every aggregation cycle.
type WalletPortfolio struct {
	Address         string             `json:"address"`
	Networks        []NetworkPortfolio `json:"networks"`
	TotalValue      decimal.Decimal    `json:"totalValue"`
	LastRefreshedAt time.Time          `json:"lastRefreshedAt"`
	Stale           bool               `json:"stale,omitempty"`
}

// ComputeTotal recomputes TotalValue as the sum of per-network totals.
func (w *WalletPortfolio) ComputeTotal() {
	total := decimal.Zero
	for _, n := range w.Networks {
		total = total.Add(n.TotalValue)
	}
	w.TotalValue = total
}

// NetworkValues returns the per-network total values keyed by network
// identifier, for breakdown views.
func (w *WalletPortfolio) NetworkValues() map[string]decimal.Decimal {
	values := make(map[string]decimal.Decimal, len(w.Networks))
	for _, n := range w.Networks {
		values[n.Network] = n.TotalValue
	}
	return values
}
