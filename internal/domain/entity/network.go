package entity

// NetworkDefinition holds the engine-level description of a supported
// blockchain network, including the identifiers each external provider
// uses for it.
type NetworkDefinition struct {
	Identifier     string `json:"identifier" yaml:"identifier"`
	Name           string `json:"name" yaml:"name"`
	ChainID        uint64 `json:"chainId" yaml:"chainID"`
	NativeSymbol   string `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeDecimals uint8  `json:"nativeDecimals" yaml:"nativeDecimals"`
	// Provider-specific chain identifiers.
	CovalentChainName string `json:"-" yaml:"covalentChainName"`
	AlchemyNetwork    string `json:"-" yaml:"alchemyNetwork"`
	DebankChainID     string `json:"-" yaml:"debankChainID"`
}
