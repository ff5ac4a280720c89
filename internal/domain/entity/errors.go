package entity

import (
	"errors"
	"fmt"
)

// AssetClass identifies which category of holdings an adapter serves.
type AssetClass string

const (
	AssetClassToken   AssetClass = "token"
	AssetClassNFT     AssetClass = "nft"
	AssetClassStaking AssetClass = "staking"
)

// ErrInvalidAddress is returned when the wallet address is not a valid
// hex address. It is the only error the aggregation pipeline surfaces
// synchronously.
var ErrInvalidAddress = errors.New("invalid wallet address")

// ErrCycleCancelled signals that a refresh cycle was aborted before
// producing a result. It is an internal state marker, not a failure.
var ErrCycleCancelled = errors.New("refresh cycle cancelled")

// ProviderError wraps a transport, auth or rate-limit failure from an
// external data provider. It never escapes the per-network aggregation
// boundary; the failing category degrades to an empty list instead.
type ProviderError struct {
	Network    string
	AssetClass AssetClass
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error for %s/%s: %v", e.Network, e.AssetClass, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with the network and asset class it
// occurred for.
func NewProviderError(network string, class AssetClass, err error) *ProviderError {
	return &ProviderError{Network: network, AssetClass: class, Err: err}
}
