// Package incometax applies the progressive box 1 schedule and the capped
// social contribution to a taxable income.
package incometax

import (
	"github.com/shopspring/decimal"

	"github.com/zzptax/zzptax/internal/domain"
)

// Slice is the part of the income that fell inside one bracket.
type Slice struct {
	Bracket domain.TaxBracket `json:"bracket"`
	Taxable decimal.Decimal   `json:"taxable"`
	Tax     decimal.Decimal   `json:"tax"`
}

// Result holds the unrounded outcome of a calculation.
type Result struct {
	Year                int             `json:"year"`
	TaxableIncome       decimal.Decimal `json:"taxable_income"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	SocialContributions decimal.Decimal `json:"social_contributions"`
	TotalTaxDue         decimal.Decimal `json:"total_tax_due"`
	EffectiveRate       decimal.Decimal `json:"effective_rate"`
	MarginalRate        decimal.Decimal `json:"marginal_rate"`
	Slices              []Slice         `json:"slices"`
}

// ForYear looks up the table for year and calculates.
func ForYear(cfg domain.TaxConfig, year int, income decimal.Decimal) (Result, error) {
	table, err := cfg.Table(year)
	if err != nil {
		return Result{}, err
	}
	return Calculate(income, table), nil
}

// Calculate taxes each bracket only on the income inside its bounds.
// Negative income (a loss year) is clamped to zero first.
func Calculate(income decimal.Decimal, table domain.YearTable) Result {
	taxable := decimal.Max(income, decimal.Zero)

	slices, tax := applyBrackets(taxable, table.Brackets)
	social := SocialContribution(taxable, table.SocialContribution)

	effective := decimal.Zero
	if taxable.IsPositive() {
		effective = tax.Div(taxable)
	}

	return Result{
		Year:                table.Year,
		TaxableIncome:       taxable,
		IncomeTax:           tax,
		SocialContributions: social,
		TotalTaxDue:         tax.Add(social),
		EffectiveRate:       effective,
		MarginalRate:        MarginalRate(taxable, table.Brackets),
		Slices:              slices,
	}
}

func applyBrackets(taxable decimal.Decimal, brackets []domain.TaxBracket) ([]Slice, decimal.Decimal) {
	var slices []Slice
	total := decimal.Zero

	for _, b := range brackets {
		if taxable.LessThanOrEqual(b.Lower) {
			break
		}
		upper := taxable
		if !b.Unbounded() && b.Upper.LessThan(taxable) {
			upper = *b.Upper
		}
		portion := upper.Sub(b.Lower)
		tax := portion.Mul(b.Rate)
		total = total.Add(tax)
		slices = append(slices, Slice{Bracket: b, Taxable: portion, Tax: tax})
	}
	return slices, total
}

// SocialContribution returns min(income * rate, cap).
func SocialContribution(income decimal.Decimal, sc domain.SocialContribution) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(income.Mul(sc.Rate), sc.Cap)
}

// MarginalRate is the rate applied to the next euro of income.
func MarginalRate(income decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	rate := decimal.Zero
	for _, b := range brackets {
		if income.LessThan(b.Lower) {
			break
		}
		rate = b.Rate
	}
	return rate
}

// CumulativeBases returns, for every bracket, the tax owed on all income
// below its lower bound. The values are derived from the table so they can
// never drift from the boundaries and rates.
func CumulativeBases(brackets []domain.TaxBracket) []decimal.Decimal {
	bases := make([]decimal.Decimal, len(brackets))
	running := decimal.Zero
	for i, b := range brackets {
		bases[i] = running
		if !b.Unbounded() {
			running = running.Add(b.Upper.Sub(b.Lower).Mul(b.Rate))
		}
	}
	return bases
}
