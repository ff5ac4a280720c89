package entity

import "github.com/shopspring/decimal"

// NFTItem represents a single non-fungible token held by a wallet.
// TokenID is a string because some collections use non-numeric ids.
// A zero FloorPrice means the floor is unknown and counts as 0 in totals.
type NFTItem struct {
	ContractAddress string          `json:"contractAddress"`
	TokenID         string          `json:"tokenId"`
	Name            string          `json:"name"`
	Collection      string          `json:"collection"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	FloorPrice      decimal.Decimal `json:"floorPrice"`
}
