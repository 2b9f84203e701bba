package services

// IncrementPolicy yields the per-bid price increment for a listing.
type IncrementPolicy interface {
	Increment(startingPrice float64) float64
}

// TieredIncrementPolicy steps the increment by price band.
type TieredIncrementPolicy struct {
	Low  float64 // below 100
	Mid  float64 // 100 to 500
	High float64 // 500 and up
}

func NewTieredIncrementPolicy() *TieredIncrementPolicy {
	return &TieredIncrementPolicy{Low: 5.0, Mid: 10.0, High: 25.0}
}

func (p *TieredIncrementPolicy) Increment(startingPrice float64) float64 {
	if startingPrice < 100 {
		return p.Low
	} else if startingPrice < 500 {
		return p.Mid
	}
	return p.High
}

// PriceAfterBids computes the simulated listing price after bidCount bids:
// startingPrice + bidCount x increment. Pure, so it can be swapped for a
// real bidding engine without touching transition logic.
func PriceAfterBids(startingPrice float64, bidCount int, policy IncrementPolicy) float64 {
	if bidCount <= 0 {
		return startingPrice
	}
	return startingPrice + float64(bidCount)*policy.Increment(startingPrice)
}
