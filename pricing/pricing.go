// Package pricing implements the dynamic pricing rule shared with the
// on-chain contract: every 10 unlocks, the price compounds by 10%.
package pricing

import "math/big"

// Step is the number of unlocks between price increases.
const Step = 10

var (
	num   = big.NewInt(110)
	denom = big.NewInt(100)
)

// Compute returns the current price for a content item given its base price
// and unlock count. Arithmetic is integer-truncated at every compounding step
// so the result matches the contract's uint256 math exactly; prices are in
// the smallest currency unit (18 decimals), so everything stays in big.Int.
func Compute(basePrice *big.Int, unlockCount uint64) *big.Int {
	price := new(big.Int).Set(basePrice)
	increments := unlockCount / Step
	for i := uint64(0); i < increments; i++ {
		price.Mul(price, num)
		price.Div(price, denom)
	}
	return price
}

// ComputeString is Compute for callers that carry wei amounts as decimal
// strings. Returns false if basePrice is not a valid non-negative integer.
func ComputeString(basePrice string, unlockCount uint64) (string, bool) {
	base, ok := new(big.Int).SetString(basePrice, 10)
	if !ok || base.Sign() < 0 {
		return "", false
	}
	return Compute(base, unlockCount).String(), true
}
