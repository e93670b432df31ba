package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRate is returned when a VAT rate outside the Dutch tariffs reaches the engine.
	ErrInvalidRate = errors.New("invalid vat rate")
	// ErrUnsupportedYear is returned when no tax table is configured for a year.
	ErrUnsupportedYear = errors.New("unsupported year")
	// ErrMalformedInput is returned when boundary input cannot be turned into a typed value.
	ErrMalformedInput = errors.New("malformed input")
)

// InvalidRateError reports a VAT rate outside {0, 9, 21}.
type InvalidRateError struct {
	Rate decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid vat rate %s%%: must be one of 0, 9, 21", e.Rate.String())
}

func (e *InvalidRateError) Is(target error) bool { return target == ErrInvalidRate }

// UnsupportedYearError reports a lookup for a year without a configured table.
type UnsupportedYearError struct {
	Year int
}

func (e *UnsupportedYearError) Error() string {
	return fmt.Sprintf("year %d is not supported: no tax table configured", e.Year)
}

func (e *UnsupportedYearError) Is(target error) bool { return target == ErrUnsupportedYear }

// ValidationError is the structured rejection produced by a boundary validation pass.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrMalformedInput }
