package models

// Market categories tracked by the gateway. The names double as
// snapshot keys and cache file prefixes.
const (
	CategoryCurrency = "Currency"
	CategoryTattoo   = "Tattoo"
	CategoryScarab   = "Scarab"
	CategoryEssence  = "Essence"
	CategoryGem      = "Gem"
)

// Categories returns the fixed set of categories fetched per league,
// in fetch order.
func Categories() []string {
	return []string{
		CategoryCurrency,
		CategoryTattoo,
		CategoryScarab,
		CategoryEssence,
		CategoryGem,
	}
}

// Listing is a single normalized market row. ChaosValue is the price in
// chaos equivalent; Count is the listing depth and is nil for categories
// that do not report it (currency overview rows).
type Listing struct {
	Name       string
	ChaosValue float64
	Count      *int
	GemLevel   int
	GemQuality int
	Corrupted  bool
}

// MarketSnapshot maps a category name to its listings. A snapshot is
// rebuilt whole on each fetch and treated as immutable by the strategies.
type MarketSnapshot map[string][]Listing
