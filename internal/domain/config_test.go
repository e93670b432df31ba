package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzptax/zzptax/internal/domain"
)

func ptr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validTable() domain.YearTable {
	return domain.YearTable{
		Year: 2024,
		Brackets: []domain.TaxBracket{
			{Lower: decimal.Zero, Upper: ptr("38098"), Rate: decimal.RequireFromString("0.3697")},
			{Lower: decimal.RequireFromString("38098"), Rate: decimal.RequireFromString("0.495")},
		},
		SocialContribution: domain.SocialContribution{Rate: decimal.RequireFromString("0.0532"), Cap: decimal.RequireFromString("3810.61")},
	}
}

func TestDefaultTaxConfig_IsValid(t *testing.T) {
	cfg := domain.DefaultTaxConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{2023, 2024, 2025}, cfg.SupportedYears())
	assert.NotEmpty(t, cfg.Categories)
}

func TestDefaultTaxConfig_TopRate(t *testing.T) {
	for _, year := range domain.DefaultTaxConfig().SupportedYears() {
		table, err := domain.DefaultTaxConfig().Table(year)
		require.NoError(t, err)
		assert.True(t, table.TopRate().Equal(decimal.RequireFromString("0.495")), "year %d", year)
		assert.True(t, table.Brackets[len(table.Brackets)-1].Unbounded())
	}
}

func TestTaxConfig_Table_Unsupported(t *testing.T) {
	_, err := domain.DefaultTaxConfig().Table(2019)
	require.ErrorIs(t, err, domain.ErrUnsupportedYear)
	assert.Contains(t, err.Error(), "2019")
}

func TestYearTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.YearTable)
		wantErr string
	}{
		{"valid", func(*domain.YearTable) {}, ""},
		{"no brackets", func(tb *domain.YearTable) { tb.Brackets = nil }, "no brackets"},
		{"first lower not zero", func(tb *domain.YearTable) { tb.Brackets[0].Lower = decimal.NewFromInt(1) }, "lower bound must be 0"},
		{"gap", func(tb *domain.YearTable) { tb.Brackets[1].Lower = decimal.NewFromInt(40000) }, "does not continue"},
		{"unbounded middle", func(tb *domain.YearTable) { tb.Brackets[0].Upper = nil }, "only the last bracket"},
		{"bounded last", func(tb *domain.YearTable) { tb.Brackets[1].Upper = ptr("100000") }, "last bracket must be unbounded"},
		{"rate above one", func(tb *domain.YearTable) { tb.Brackets[1].Rate = decimal.RequireFromString("49.5") }, "outside [0, 1]"},
		{"falling rate", func(tb *domain.YearTable) { tb.Brackets[1].Rate = decimal.RequireFromString("0.30") }, "below the previous bracket's rate"},
		{"equal rates", func(tb *domain.YearTable) { tb.Brackets[1].Rate = decimal.RequireFromString("0.3697") }, ""},
		{"empty bracket", func(tb *domain.YearTable) {
			tb.Brackets[0].Upper = ptr("0")
			tb.Brackets[1].Lower = decimal.Zero
		}, "must exceed lower bound"},
		{"negative cap", func(tb *domain.YearTable) { tb.SocialContribution.Cap = decimal.NewFromInt(-1) }, "cap must not be negative"},
		{"negative mileage rate", func(tb *domain.YearTable) { tb.Mileage.RatePerKm = decimal.RequireFromString("-0.23") }, "mileage rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := validTable()
			tt.mutate(&tb)
			err := tb.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTaxConfig_Validate_YearKeyMismatch(t *testing.T) {
	cfg := domain.TaxConfig{Years: map[int]domain.YearTable{2025: validTable()}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares year 2024")
}

func TestTaxConfig_Validate_Categories(t *testing.T) {
	cfg := domain.TaxConfig{Categories: []domain.CategoryRule{{Keywords: []string{"x"}}}}
	assert.ErrorContains(t, cfg.Validate(), "name is required")

	cfg = domain.TaxConfig{Categories: []domain.CategoryRule{{Name: "Leeg"}}}
	assert.ErrorContains(t, cfg.Validate(), "at least one keyword")
}
