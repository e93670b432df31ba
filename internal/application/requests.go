package application

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zzptax/zzptax/internal/domain"
	"github.com/zzptax/zzptax/internal/domain/btw"
)

// Requests carry amounts as the strings they arrive in from flags, forms and
// JSON bodies. Validate turns them into typed inputs in a single pass;
// nothing past Validate sees raw text.

// RatePercent returns a pointer to percent for the Rate field of a request.
func RatePercent(percent int) *int { return &percent }

// BTWRequest asks for the net BTW position of a period.
type BTWRequest struct {
	Sales     string `json:"sales_net"`
	Purchases string `json:"purchases_net"`
	Rate      *int   `json:"rate"`
}

// BTWInput is a validated BTWRequest.
type BTWInput struct {
	Sales     decimal.Decimal
	Purchases decimal.Decimal
	Rate      btw.Rate
}

func (r BTWRequest) Validate() (BTWInput, error) {
	sales, err := parseAmount("sales_net", r.Sales)
	if err != nil {
		return BTWInput{}, err
	}
	purchases, err := parseAmount("purchases_net", r.Purchases)
	if err != nil {
		return BTWInput{}, err
	}
	rate, err := parseRate(r.Rate)
	if err != nil {
		return BTWInput{}, err
	}
	return BTWInput{Sales: sales, Purchases: purchases, Rate: rate}, nil
}

// GrossRequest asks for the BTW contained in a gross amount.
type GrossRequest struct {
	Gross string `json:"gross"`
	Rate  *int   `json:"rate"`
}

// GrossInput is a validated GrossRequest.
type GrossInput struct {
	Gross decimal.Decimal
	Rate  btw.Rate
}

func (r GrossRequest) Validate() (GrossInput, error) {
	gross, err := parseAmount("gross", r.Gross)
	if err != nil {
		return GrossInput{}, err
	}
	rate, err := parseRate(r.Rate)
	if err != nil {
		return GrossInput{}, err
	}
	return GrossInput{Gross: gross, Rate: rate}, nil
}

// IncomeTaxRequest asks for the income tax on a year's taxable profit.
type IncomeTaxRequest struct {
	Income string `json:"taxable_income"`
	Year   int    `json:"year"`
}

// IncomeTaxInput is a validated IncomeTaxRequest. The year is checked
// against the configured tables later, by the service.
type IncomeTaxInput struct {
	Income decimal.Decimal
	Year   int
}

func (r IncomeTaxRequest) Validate() (IncomeTaxInput, error) {
	income, err := parseAmount("taxable_income", r.Income)
	if err != nil {
		return IncomeTaxInput{}, err
	}
	if err := validateYear(r.Year); err != nil {
		return IncomeTaxInput{}, err
	}
	return IncomeTaxInput{Income: income, Year: r.Year}, nil
}

// MileageRequest asks for the deduction for a business trip. AnnualKm is the
// running total for the year including this trip; empty means the trip is
// the only one.
type MileageRequest struct {
	DistanceKm string `json:"distance_km"`
	Year       int    `json:"year"`
	AnnualKm   string `json:"annual_km,omitempty"`
}

// MileageInput is a validated MileageRequest.
type MileageInput struct {
	DistanceKm decimal.Decimal
	Year       int
	AnnualKm   decimal.Decimal
}

func (r MileageRequest) Validate() (MileageInput, error) {
	distance, err := parseAmount("distance_km", r.DistanceKm)
	if err != nil {
		return MileageInput{}, err
	}
	if distance.IsNegative() {
		return MileageInput{}, &domain.ValidationError{Field: "distance_km", Reason: "must not be negative"}
	}
	if err := validateYear(r.Year); err != nil {
		return MileageInput{}, err
	}

	annual := distance
	if strings.TrimSpace(r.AnnualKm) != "" {
		annual, err = parseAmount("annual_km", r.AnnualKm)
		if err != nil {
			return MileageInput{}, err
		}
		if annual.LessThan(distance) {
			return MileageInput{}, &domain.ValidationError{Field: "annual_km", Reason: "must include the trip distance"}
		}
	}
	return MileageInput{DistanceKm: distance, Year: r.Year, AnnualKm: annual}, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := domain.ParseEuro(raw)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return decimal.Zero, &domain.ValidationError{Field: field, Reason: ve.Reason}
		}
		return decimal.Zero, err
	}
	return d, nil
}

// parseRate rejects a missing rate; a zero value is not the same as 0%.
func parseRate(percent *int) (btw.Rate, error) {
	if percent == nil {
		return 0, &domain.ValidationError{Field: "rate", Reason: "is required"}
	}
	return btw.ParseRate(*percent)
}

func validateYear(year int) error {
	if year <= 0 {
		return &domain.ValidationError{Field: "year", Reason: "is required"}
	}
	return nil
}
