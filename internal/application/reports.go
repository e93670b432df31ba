package application

import (
	"github.com/shopspring/decimal"

	"github.com/zzptax/zzptax/internal/domain"
	"github.com/zzptax/zzptax/internal/domain/btw"
	"github.com/zzptax/zzptax/internal/domain/incometax"
)

// IBANReport describes one checked IBAN.
type IBANReport struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Display    string `json:"display"`
	Valid      bool   `json:"valid"`
	Reason     string `json:"reason,omitempty"`
	Bank       string `json:"bank"`
}

type BTWReport struct {
	Rate         btw.Rate    `json:"rate"`
	SalesNet     domain.Euro `json:"sales_net"`
	PurchasesNet domain.Euro `json:"purchases_net"`
	SalesVat     domain.Euro `json:"sales_vat"`
	PurchasesVat domain.Euro `json:"purchases_vat"`
	NetVatDue    domain.Euro `json:"net_vat_due"`
	Direction    string      `json:"direction"`
}

type GrossReport struct {
	Rate  btw.Rate    `json:"rate"`
	Gross domain.Euro `json:"gross"`
	Vat   domain.Euro `json:"vat"`
	Net   domain.Euro `json:"net"`
}

type PeriodReport struct {
	Label   string `json:"label"`
	Year    int    `json:"year"`
	Quarter int    `json:"quarter"`
	Start   string `json:"start"`
	End     string `json:"end"`
	DueDate string `json:"due_date"`
}

// SliceReport is the tax levied inside one bracket.
type SliceReport struct {
	Lower   domain.Euro  `json:"lower"`
	Upper   *domain.Euro `json:"upper,omitempty"`
	Rate    string       `json:"rate"`
	Taxable domain.Euro  `json:"taxable"`
	Tax     domain.Euro  `json:"tax"`
}

type IncomeTaxReport struct {
	Year                int           `json:"year"`
	TaxableIncome       domain.Euro   `json:"taxable_income"`
	IncomeTax           domain.Euro   `json:"income_tax"`
	SocialContributions domain.Euro   `json:"social_contributions"`
	TotalTaxDue         domain.Euro   `json:"total_tax_due"`
	EffectiveRate       string        `json:"effective_rate"`
	MarginalRate        string        `json:"marginal_rate"`
	Slices              []SliceReport `json:"slices"`
	TableRevision       string        `json:"table_revision,omitempty"`
}

type MileageReport struct {
	Year             int         `json:"year"`
	DistanceKm       string      `json:"distance_km"`
	RatePerKm        domain.Euro `json:"rate"`
	Deduction        domain.Euro `json:"deduction"`
	AnnualKm         string      `json:"annual_km"`
	AnnualCapKm      string      `json:"annual_cap_km"`
	ExceedsAnnualCap bool        `json:"exceeds_annual_cap"`
}

// BracketReport is a bracket with the tax owed on all income below it.
type BracketReport struct {
	Lower   domain.Euro  `json:"lower"`
	Upper   *domain.Euro `json:"upper,omitempty"`
	Rate    string       `json:"rate"`
	BaseTax domain.Euro  `json:"base_tax"`
}

type TableReport struct {
	Year                   int             `json:"year"`
	Brackets               []BracketReport `json:"brackets"`
	SocialContributionRate string          `json:"social_contribution_rate"`
	SocialContributionCap  domain.Euro     `json:"social_contribution_cap"`
	MileageRatePerKm       domain.Euro     `json:"mileage_rate_per_km"`
	MileageAnnualCapKm     string          `json:"mileage_annual_cap_km"`
	Revision               string          `json:"revision,omitempty"`
}

func newSliceReports(slices []incometax.Slice) []SliceReport {
	out := make([]SliceReport, 0, len(slices))
	for _, s := range slices {
		out = append(out, SliceReport{
			Lower:   domain.NewEuro(s.Bracket.Lower),
			Upper:   euroPtr(s.Bracket.Upper),
			Rate:    domain.Percent(s.Bracket.Rate),
			Taxable: domain.NewEuro(s.Taxable),
			Tax:     domain.NewEuro(s.Tax),
		})
	}
	return out
}

func newTableReport(t domain.YearTable, revision string) TableReport {
	bases := incometax.CumulativeBases(t.Brackets)
	brackets := make([]BracketReport, len(t.Brackets))
	for i, b := range t.Brackets {
		brackets[i] = BracketReport{
			Lower:   domain.NewEuro(b.Lower),
			Upper:   euroPtr(b.Upper),
			Rate:    domain.Percent(b.Rate),
			BaseTax: domain.NewEuro(bases[i]),
		}
	}
	return TableReport{
		Year:                   t.Year,
		Brackets:               brackets,
		SocialContributionRate: domain.Percent(t.SocialContribution.Rate),
		SocialContributionCap:  domain.NewEuro(t.SocialContribution.Cap),
		MileageRatePerKm:       domain.NewEuro(t.Mileage.RatePerKm),
		MileageAnnualCapKm:     t.Mileage.AnnualCapKm.String(),
		Revision:               revision,
	}
}

func euroPtr(d *decimal.Decimal) *domain.Euro {
	if d == nil {
		return nil
	}
	e := domain.NewEuro(*d)
	return &e
}
