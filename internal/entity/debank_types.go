package entity

// DebankProtocol mirrors one entry of the DeBank complex_protocol_list
// response for the fields the engine consumes.
type DebankProtocol struct {
	ID                string                `json:"id"`
	Chain             string                `json:"chain"`
	Name              string                `json:"name"`
	PortfolioItemList []DebankPortfolioItem `json:"portfolio_item_list"`
}

// DebankPortfolioItem is one position held with a protocol.
type DebankPortfolioItem struct {
	Name   string           `json:"name"`
	Stats  DebankItemStats  `json:"stats"`
	Detail DebankItemDetail `json:"detail"`
}

// DebankItemStats carries the USD valuations of a position.
type DebankItemStats struct {
	AssetUSDValue float64 `json:"asset_usd_value"`
	NetUSDValue   float64 `json:"net_usd_value"`
}

// DebankItemDetail carries the supplied and reward token legs.
type DebankItemDetail struct {
	SupplyTokenList []DebankToken `json:"supply_token_list"`
	RewardTokenList []DebankToken `json:"reward_token_list"`
	DailyAPR        float64       `json:"daily_apr,omitempty"`
}

// DebankToken is one token leg of a position.
type DebankToken struct {
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
}
