package models

import (
	"fmt"
	"math"
)

// DefaultDivineToChaos is used until the gateway observes a live
// Divine Orb listing.
const DefaultDivineToChaos = 200

// Rates carries the exchange rates extracted from the currency overview.
// The gateway refreshes it on each full fetch and hands it to whoever
// formats prices, so there is no process-wide mutable rate.
type Rates struct {
	DivineToChaos float64
}

// DefaultRates returns the rates used before any market data is seen.
func DefaultRates() Rates {
	return Rates{DivineToChaos: DefaultDivineToChaos}
}

// FormatChaos renders a chaos value as a readable price, switching to
// divine units once the absolute value reaches one divine.
func (r Rates) FormatChaos(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	if math.Abs(v) >= r.DivineToChaos && r.DivineToChaos > 0 {
		return fmt.Sprintf("%.2f div", v/r.DivineToChaos)
	}
	return fmt.Sprintf("%.1fc", v)
}
