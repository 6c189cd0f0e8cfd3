// Package money converts between the major currency units used on the wire
// (rupees, up to two decimal places) and the integer minor-units (paise)
// stored by the ledger.
package money

import "math"

// MinorUnits converts a major-unit amount to integer minor-units, rounding
// half away from zero so 0.005 becomes a whole paisa.
func MinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// Major converts integer minor-units back to major units for responses.
func Major(minor int64) float64 {
	return float64(minor) / 100
}
