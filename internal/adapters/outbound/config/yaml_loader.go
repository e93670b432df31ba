package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/zzptax/zzptax/internal/domain"
)

const fileName = ".zzptax.yaml"

// YAMLLoader implements domain.TaxTableLoader by reading .zzptax.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// file mirrors .zzptax.yaml. Decimals are strings so that "0.3697" never
// passes through a float.
type file struct {
	Years      []yearEntry     `yaml:"years"`
	Categories []categoryEntry `yaml:"categories"`
}

type yearEntry struct {
	Year               int            `yaml:"year"`
	Brackets           []bracketEntry `yaml:"brackets"`
	SocialContribution struct {
		Rate string `yaml:"rate"`
		Cap  string `yaml:"cap"`
	} `yaml:"social_contribution"`
	Mileage struct {
		RatePerKm   string `yaml:"rate_per_km"`
		AnnualCapKm string `yaml:"annual_cap_km"`
	} `yaml:"mileage"`
}

type bracketEntry struct {
	Lower string `yaml:"lower"`
	Upper string `yaml:"upper"`
	Rate  string `yaml:"rate"`
}

type categoryEntry struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Load reads .zzptax.yaml from dir.
// Returns DefaultTaxConfig if the file does not exist.
func (l *YAMLLoader) Load(dir string) (domain.TaxConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultTaxConfig(), nil
		}
		return domain.TaxConfig{}, err
	}

	var raw file
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.TaxConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	override, err := raw.toConfig()
	if err != nil {
		return domain.TaxConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Validate the user's tables on their own before they are mixed with defaults.
	if err := override.Validate(); err != nil {
		return domain.TaxConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return mergeConfig(domain.DefaultTaxConfig(), override), nil
}

func (f file) toConfig() (domain.TaxConfig, error) {
	cfg := domain.TaxConfig{Years: make(map[int]domain.YearTable, len(f.Years))}

	for _, y := range f.Years {
		if _, dup := cfg.Years[y.Year]; dup {
			return domain.TaxConfig{}, fmt.Errorf("year %d listed twice", y.Year)
		}
		t, err := y.toTable()
		if err != nil {
			return domain.TaxConfig{}, fmt.Errorf("year %d: %w", y.Year, err)
		}
		cfg.Years[y.Year] = t
	}

	for _, c := range f.Categories {
		cfg.Categories = append(cfg.Categories, domain.CategoryRule{Name: c.Name, Keywords: c.Keywords})
	}
	return cfg, nil
}

func (y yearEntry) toTable() (domain.YearTable, error) {
	t := domain.YearTable{Year: y.Year}

	for i, b := range y.Brackets {
		lower, err := parseDecimal(fmt.Sprintf("brackets[%d].lower", i), b.Lower, true)
		if err != nil {
			return t, err
		}
		rate, err := parseDecimal(fmt.Sprintf("brackets[%d].rate", i), b.Rate, true)
		if err != nil {
			return t, err
		}
		bracket := domain.TaxBracket{Lower: lower, Rate: rate}
		if b.Upper != "" {
			upper, err := parseDecimal(fmt.Sprintf("brackets[%d].upper", i), b.Upper, true)
			if err != nil {
				return t, err
			}
			bracket.Upper = &upper
		}
		t.Brackets = append(t.Brackets, bracket)
	}

	var err error
	if t.SocialContribution.Rate, err = parseDecimal("social_contribution.rate", y.SocialContribution.Rate, false); err != nil {
		return t, err
	}
	if t.SocialContribution.Cap, err = parseDecimal("social_contribution.cap", y.SocialContribution.Cap, false); err != nil {
		return t, err
	}
	if t.Mileage.RatePerKm, err = parseDecimal("mileage.rate_per_km", y.Mileage.RatePerKm, false); err != nil {
		return t, err
	}
	if t.Mileage.AnnualCapKm, err = parseDecimal("mileage.annual_cap_km", y.Mileage.AnnualCapKm, false); err != nil {
		return t, err
	}
	return t, nil
}

// parseDecimal reads a decimal field; optional fields default to zero.
func parseDecimal(field, s string, required bool) (decimal.Decimal, error) {
	if s == "" {
		if required {
			return decimal.Zero, fmt.Errorf("%s is required", field)
		}
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a decimal", field, s)
	}
	return d, nil
}

// mergeConfig overlays explicit tables on the defaults.
// A year present in the file replaces the default year as a whole.
func mergeConfig(base, override domain.TaxConfig) domain.TaxConfig {
	result := domain.TaxConfig{
		Years:      make(map[int]domain.YearTable, len(base.Years)+len(override.Years)),
		Categories: base.Categories,
	}
	for y, t := range base.Years {
		result.Years[y] = t
	}
	for y, t := range override.Years {
		result.Years[y] = t
	}

	// Explicit categories replace the built-in table entirely.
	if len(override.Categories) > 0 {
		result.Categories = override.Categories
	}
	return result
}
