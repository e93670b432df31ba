package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Hundred is used by every percentage conversion in the engine.
var Hundred = decimal.NewFromInt(100)

// Round2 rounds an amount to whole cents. Only presentation code calls this;
// calculations keep full precision.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatEuro renders an amount the Dutch way: "€ 1.234,56" or "-€ 1.234,56".
func FormatEuro(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s€ %s,%s", sign, b.String(), frac)
}

// thousandsGrouped matches "1.234" and "1.234.567": digits grouped by dots
// in threes, no decimal part.
var thousandsGrouped = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseEuro parses an amount typed by a user or produced by FormatEuro.
//
// A comma marks Dutch display notation, where dots group thousands and the
// comma is the decimal separator. Without a comma the dot is the decimal
// separator, unless the dots group digits in threes and either there is
// more than one of them or the amount carries a currency marker: "€ 1.234"
// and "1.234.567" are thousands, "1.234" is not. Currency markers ("€",
// "EUR") and spaces are ignored.
func ParseEuro(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "empty"}
	}

	clean := strings.NewReplacer("€", "", "EUR", "", "eur", "", " ", "", "\u00a0", "").Replace(raw)
	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case thousandsGrouped.MatchString(clean) && (strings.Count(clean, ".") > 1 || hasCurrencyMarker(raw)):
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: fmt.Sprintf("not a number: %q", s)}
	}
	return d, nil
}

func hasCurrencyMarker(s string) bool {
	return strings.Contains(s, "€") || strings.Contains(strings.ToUpper(s), "EUR")
}

// Percent converts a fraction (0.3693) to a percentage string ("36.93%").
func Percent(fraction decimal.Decimal) string {
	return fraction.Mul(Hundred).Round(2).String() + "%"
}

// Euro is a full-precision amount that presents itself rounded to cents:
// JSON as "1234.57" and String as "€ 1.234,57".
type Euro struct {
	decimal.Decimal
}

// NewEuro wraps d without rounding it.
func NewEuro(d decimal.Decimal) Euro { return Euro{Decimal: d} }

// Fixed returns the amount as a plain two-decimal string.
func (e Euro) Fixed() string { return e.Decimal.StringFixed(2) }

func (e Euro) String() string { return FormatEuro(e.Decimal) }

func (e Euro) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.Fixed() + `"`), nil
}
