// Package btw computes Dutch value-added tax (BTW) amounts.
package btw

import (
	"github.com/shopspring/decimal"

	"github.com/zzptax/zzptax/internal/domain"
)

// Rate is a BTW tariff in whole percent.
type Rate int

const (
	Rate0  Rate = 0
	Rate9  Rate = 9
	Rate21 Rate = 21
)

// Rates lists the tariffs accepted by the engine.
var Rates = []Rate{Rate0, Rate9, Rate21}

// Presentation labels for the sign of NetVatDue.
const (
	DirectionPay     = "te betalen"
	DirectionReceive = "te ontvangen"
	DirectionNone    = "nihil"
)

// ParseRate converts an integer percentage into a Rate.
func ParseRate(percent int) (Rate, error) {
	r := Rate(percent)
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return r, nil
}

// Validate rejects rates outside {0, 9, 21}.
func (r Rate) Validate() error {
	switch r {
	case Rate0, Rate9, Rate21:
		return nil
	}
	return &domain.InvalidRateError{Rate: decimal.NewFromInt(int64(r))}
}

// Decimal returns the rate as a percentage.
func (r Rate) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(r)) }

// VatOnNet returns net * rate / 100, unrounded.
func VatOnNet(net decimal.Decimal, r Rate) (decimal.Decimal, error) {
	if err := r.Validate(); err != nil {
		return decimal.Zero, err
	}
	return net.Mul(r.Decimal()).Div(domain.Hundred), nil
}

// VatFromGross extracts the VAT included in a gross amount:
// gross * rate / (100 + rate).
func VatFromGross(gross decimal.Decimal, r Rate) (decimal.Decimal, error) {
	if err := r.Validate(); err != nil {
		return decimal.Zero, err
	}
	denominator := domain.Hundred.Add(r.Decimal())
	if denominator.IsZero() {
		return decimal.Zero, domain.ErrInvalidRate
	}
	return gross.Mul(r.Decimal()).Div(denominator), nil
}

// Summary is the BTW position for a reporting period. A positive NetVatDue
// is owed to the tax authority; a negative one is a refund.
type Summary struct {
	Rate         Rate            `json:"rate"`
	SalesNet     decimal.Decimal `json:"sales_net"`
	PurchasesNet decimal.Decimal `json:"purchases_net"`
	SalesVat     decimal.Decimal `json:"sales_vat"`
	PurchasesVat decimal.Decimal `json:"purchases_vat"`
	NetVatDue    decimal.Decimal `json:"net_vat_due"`
}

// NetDue computes the output VAT on sales minus the input VAT on purchases.
func NetDue(salesNet, purchasesNet decimal.Decimal, r Rate) (Summary, error) {
	salesVat, err := VatOnNet(salesNet, r)
	if err != nil {
		return Summary{}, err
	}
	purchasesVat, err := VatOnNet(purchasesNet, r)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Rate:         r,
		SalesNet:     salesNet,
		PurchasesNet: purchasesNet,
		SalesVat:     salesVat,
		PurchasesVat: purchasesVat,
		NetVatDue:    salesVat.Sub(purchasesVat),
	}, nil
}

// Direction labels the sign of NetVatDue after rounding to cents.
func (s Summary) Direction() string {
	due := domain.Round2(s.NetVatDue)
	switch {
	case due.IsPositive():
		return DirectionPay
	case due.IsNegative():
		return DirectionReceive
	default:
		return DirectionNone
	}
}
