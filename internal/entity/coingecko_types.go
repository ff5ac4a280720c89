package entity

// CoinGeckoSimplePrice is the simple/price response: coin id -> currency
// -> price. The engine only asks for "usd".
type CoinGeckoSimplePrice map[string]map[string]float64
