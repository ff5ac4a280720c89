package entity

// CovalentBalancesResponse mirrors the Covalent balances_v2 response
// envelope for the fields the engine consumes.
type CovalentBalancesResponse struct {
	Data         CovalentBalancesData `json:"data"`
	Error        bool                 `json:"error"`
	ErrorMessage string               `json:"error_message"`
	ErrorCode    int                  `json:"error_code"`
}

// CovalentBalancesData holds the per-wallet item list.
type CovalentBalancesData struct {
	Address string                `json:"address"`
	ChainID uint64                `json:"chain_id"`
	Items   []CovalentBalanceItem `json:"items"`
}

// CovalentBalanceItem is one token balance entry.
type CovalentBalanceItem struct {
	ContractAddress  string `json:"contract_address"`
	ContractName     string `json:"contract_name"`
	ContractTicker   string `json:"contract_ticker_symbol"`
	ContractDecimals uint8  `json:"contract_decimals"`
	LogoURL          string `json:"logo_url"`
	Balance          string `json:"balance"`
	NativeToken      bool   `json:"native_token"`
}
