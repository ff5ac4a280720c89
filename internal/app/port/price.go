package port

import (
	"context"

	"chainfolio/internal/domain/entity"
)

// PriceEnricher attaches unit prices and derived values to token
// balances. The returned slice has the same length and order as the
// input; entries whose price could not be resolved keep a zero price
// and zero value. A partial lookup failure never fails the call.
type PriceEnricher interface {
	Enrich(ctx context.Context, tokens []entity.TokenBalance) []entity.TokenBalance
}
