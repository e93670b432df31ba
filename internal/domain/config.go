package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// TaxBracket is one slice of the progressive box 1 schedule.
// A nil Upper means the bracket is unbounded.
type TaxBracket struct {
	Lower decimal.Decimal  `json:"lower"`
	Upper *decimal.Decimal `json:"upper,omitempty"`
	Rate  decimal.Decimal  `json:"rate"`
}

// Unbounded reports whether the bracket has no upper limit.
func (b TaxBracket) Unbounded() bool { return b.Upper == nil }

// SocialContribution is the flat-rate contribution levied up to a fixed annual amount.
type SocialContribution struct {
	Rate decimal.Decimal `json:"rate"`
	Cap  decimal.Decimal `json:"cap"`
}

// MileagePolicy holds the per-km allowance and the annual distance above which
// trips are flagged for review.
type MileagePolicy struct {
	RatePerKm   decimal.Decimal `json:"rate_per_km"`
	AnnualCapKm decimal.Decimal `json:"annual_cap_km"`
}

// YearTable is the complete set of fiscal parameters for one year.
type YearTable struct {
	Year               int                `json:"year"`
	Brackets           []TaxBracket       `json:"brackets"`
	SocialContribution SocialContribution `json:"social_contribution"`
	Mileage            MileagePolicy      `json:"mileage"`
}

// CategoryRule maps keywords found in a transaction description to an expense category.
type CategoryRule struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// TaxConfig is the read-only configuration consumed by the calculation engine.
type TaxConfig struct {
	Years      map[int]YearTable `json:"years"`
	Categories []CategoryRule    `json:"categories,omitempty"`
}

// Table returns the table for year or an *UnsupportedYearError.
func (c TaxConfig) Table(year int) (YearTable, error) {
	t, ok := c.Years[year]
	if !ok {
		return YearTable{}, &UnsupportedYearError{Year: year}
	}
	return t, nil
}

// SupportedYears returns the configured years in ascending order.
func (c TaxConfig) SupportedYears() []int {
	years := make([]int, 0, len(c.Years))
	for y := range c.Years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Validate checks every year table and category rule.
func (c TaxConfig) Validate() error {
	for _, year := range c.SupportedYears() {
		t := c.Years[year]
		if t.Year != year {
			return fmt.Errorf("table keyed %d declares year %d", year, t.Year)
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("year %d: %w", year, err)
		}
	}
	for i, rule := range c.Categories {
		if rule.Name == "" {
			return fmt.Errorf("category %d: name is required", i)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("category %q: at least one keyword is required", rule.Name)
		}
	}
	return nil
}

// Validate checks that brackets start at zero, are contiguous and ascending,
// that only the last one is unbounded, and that rates and caps are sane.
func (t YearTable) Validate() error {
	if len(t.Brackets) == 0 {
		return fmt.Errorf("no brackets")
	}
	one := decimal.NewFromInt(1)

	for i, b := range t.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("bracket %d: rate %s outside [0, 1]", i, b.Rate)
		}
		if i == 0 && !b.Lower.IsZero() {
			return fmt.Errorf("bracket 0: lower bound must be 0, got %s", b.Lower)
		}
		if i > 0 {
			prev := t.Brackets[i-1]
			if prev.Unbounded() {
				return fmt.Errorf("bracket %d: only the last bracket may be unbounded", i-1)
			}
			if !b.Lower.Equal(*prev.Upper) {
				return fmt.Errorf("bracket %d: lower bound %s does not continue previous upper bound %s", i, b.Lower, *prev.Upper)
			}
			// Rates never fall, so the top bracket carries the highest marginal rate.
			if b.Rate.LessThan(prev.Rate) {
				return fmt.Errorf("bracket %d: rate %s is below the previous bracket's rate %s", i, b.Rate, prev.Rate)
			}
		}
		if !b.Unbounded() && b.Upper.LessThanOrEqual(b.Lower) {
			return fmt.Errorf("bracket %d: upper bound %s must exceed lower bound %s", i, *b.Upper, b.Lower)
		}
	}
	if !t.Brackets[len(t.Brackets)-1].Unbounded() {
		return fmt.Errorf("last bracket must be unbounded")
	}

	sc := t.SocialContribution
	if sc.Rate.IsNegative() || sc.Rate.GreaterThan(one) {
		return fmt.Errorf("social contribution rate %s outside [0, 1]", sc.Rate)
	}
	if sc.Cap.IsNegative() {
		return fmt.Errorf("social contribution cap must not be negative")
	}
	if t.Mileage.RatePerKm.IsNegative() {
		return fmt.Errorf("mileage rate must not be negative")
	}
	if t.Mileage.AnnualCapKm.IsNegative() {
		return fmt.Errorf("mileage annual cap must not be negative")
	}
	return nil
}

// TopRate returns the marginal rate of the unbounded bracket.
func (t YearTable) TopRate() decimal.Decimal {
	if len(t.Brackets) == 0 {
		return decimal.Zero
	}
	return t.Brackets[len(t.Brackets)-1].Rate
}

// DefaultTaxConfig returns the built-in tables for 2023 through 2025
// (box 1 below state-pension age, Zvw contribution for entrepreneurs).
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		Years: map[int]YearTable{
			2023: {
				Year: 2023,
				Brackets: []TaxBracket{
					bracket("0", "73031", "0.3693"),
					bracket("73031", "", "0.495"),
				},
				SocialContribution: SocialContribution{Rate: dec("0.0543"), Cap: dec("3635.71")},
				Mileage:            MileagePolicy{RatePerKm: dec("0.21"), AnnualCapKm: dec("40000")},
			},
			2024: {
				Year: 2024,
				Brackets: []TaxBracket{
					bracket("0", "38098", "0.3697"),
					bracket("38098", "75518", "0.3697"),
					bracket("75518", "", "0.495"),
				},
				SocialContribution: SocialContribution{Rate: dec("0.0532"), Cap: dec("3810.61")},
				Mileage:            MileagePolicy{RatePerKm: dec("0.23"), AnnualCapKm: dec("40000")},
			},
			2025: {
				Year: 2025,
				Brackets: []TaxBracket{
					bracket("0", "38441", "0.3582"),
					bracket("38441", "76817", "0.3748"),
					bracket("76817", "", "0.495"),
				},
				SocialContribution: SocialContribution{Rate: dec("0.0526"), Cap: dec("3990.45")},
				Mileage:            MileagePolicy{RatePerKm: dec("0.23"), AnnualCapKm: dec("40000")},
			},
		},
		Categories: DefaultCategories(),
	}
}

// DefaultCategories is the built-in keyword table. Order matters: the first
// matching rule wins, so specific keywords come before generic ones.
func DefaultCategories() []CategoryRule {
	return []CategoryRule{
		{Name: "Marketing", Keywords: []string{"google ads", "facebook ads", "linkedin", "vistaprint", "mailchimp"}},
		{Name: "Software & abonnementen", Keywords: []string{"adobe", "microsoft", "google", "github", "jetbrains", "dropbox", "slack", "notion", "atlassian"}},
		{Name: "Reiskosten", Keywords: []string{"ns", "ov chipkaart", "shell", "bp", "esso", "tango", "tinq", "parkeren", "q park", "uber", "taxi", "gvb", "ret", "arriva"}},
		{Name: "Telefoon & internet", Keywords: []string{"kpn", "vodafone", "t mobile", "odido", "ziggo", "tele2", "simyo"}},
		{Name: "Kantoorkosten", Keywords: []string{"staples", "bruna", "ikea", "kantoor", "office", "printer"}},
		{Name: "Representatie", Keywords: []string{"restaurant", "cafe", "lunch", "diner", "thuisbezorgd"}},
		{Name: "Verzekeringen", Keywords: []string{"verzekering", "centraal beheer", "interpolis", "nationale nederlanden", "ohra"}},
		{Name: "Bankkosten", Keywords: []string{"bankkosten", "rente", "transactiekosten"}},
		{Name: "Privé", Keywords: []string{"albert heijn", "jumbo", "lidl", "aldi", "plus"}},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bracket(lower, upper, rate string) TaxBracket {
	b := TaxBracket{Lower: dec(lower), Rate: dec(rate)}
	if upper != "" {
		u := dec(upper)
		b.Upper = &u
	}
	return b
}
