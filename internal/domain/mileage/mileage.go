// Package mileage computes the deduction for business kilometres driven
// with a private car.
package mileage

import "github.com/shopspring/decimal"

// Deduction returns distanceKm * ratePerKm. Capping and flagging of annual
// totals is a caller rule; this function only multiplies.
func Deduction(distanceKm, ratePerKm decimal.Decimal) decimal.Decimal {
	return distanceKm.Mul(ratePerKm)
}

// ExceedsAnnualCap reports whether totalKm is above capKm. A zero cap
// disables the check.
func ExceedsAnnualCap(totalKm, capKm decimal.Decimal) bool {
	if capKm.IsZero() {
		return false
	}
	return totalKm.GreaterThan(capKm)
}
