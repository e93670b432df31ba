package application

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zzptax/zzptax/internal/domain"
	"github.com/zzptax/zzptax/internal/domain/btw"
	"github.com/zzptax/zzptax/internal/domain/categorize"
	"github.com/zzptax/zzptax/internal/domain/iban"
	"github.com/zzptax/zzptax/internal/domain/incometax"
	"github.com/zzptax/zzptax/internal/domain/mileage"
)

const dateLayout = "2006-01-02"

// CalcService validates requests, runs the engine against an immutable tax
// configuration and records every calculation in the history.
type CalcService struct {
	cfg         domain.TaxConfig
	categorizer *categorize.Categorizer
	history     domain.CalculationHistory
	dataDir     string
	revision    string
	now         func() time.Time
}

// NewCalcService wires a service around cfg. history may be nil, in which
// case nothing is recorded.
func NewCalcService(cfg domain.TaxConfig, history domain.CalculationHistory, dataDir, revision string) *CalcService {
	rules := cfg.Categories
	if len(rules) == 0 {
		rules = domain.DefaultCategories()
	}
	return &CalcService{
		cfg:         cfg,
		categorizer: categorize.New(rules),
		history:     history,
		dataDir:     dataDir,
		revision:    revision,
		now:         time.Now,
	}
}

// LoadCalcService loads the tax tables under dir once and stamps them with
// the directory's commit when it is a git checkout.
func LoadCalcService(
	loader domain.TaxTableLoader,
	revisions domain.RevisionSource,
	history domain.CalculationHistory,
	dir string,
) (*CalcService, error) {
	cfg, err := loader.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading tax tables: %w", err)
	}

	revision := ""
	if revisions != nil && revisions.IsGitRepo(dir) {
		if hash, err := revisions.CommitHash(dir); err == nil {
			revision = hash
		}
	}
	return NewCalcService(cfg, history, dir, revision), nil
}

// WithoutHistory returns a copy of the service that records nothing.
// Servers use it: the history file is rewritten on every save, which a
// one-shot command can afford and a request loop cannot.
func (s *CalcService) WithoutHistory() *CalcService {
	c := *s
	c.history = nil
	return &c
}

// Revision returns the commit the tax tables were loaded from, if known.
func (s *CalcService) Revision() string { return s.revision }

// SupportedYears lists the years with a tax table.
func (s *CalcService) SupportedYears() []int { return s.cfg.SupportedYears() }

// CheckIBAN never fails; an invalid IBAN is reported in the result.
func (s *CalcService) CheckIBAN(raw string) IBANReport {
	normalized := iban.Normalize(raw)
	res := iban.Validate(raw)

	report := IBANReport{
		Input:      raw,
		Normalized: normalized,
		Display:    iban.FormatForDisplay(normalized),
		Valid:      res.Valid,
		Reason:     res.Reason,
		Bank:       iban.DetectBank(normalized),
	}

	s.record(domain.KindIBAN, 0,
		map[string]string{"iban": iban.Mask(normalized)},
		map[string]string{"valid": strconv.FormatBool(res.Valid), "reason": res.Reason, "bank": report.Bank})
	return report
}

func (s *CalcService) BTWDue(req BTWRequest) (*BTWReport, error) {
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}
	sum, err := btw.NetDue(in.Sales, in.Purchases, in.Rate)
	if err != nil {
		return nil, err
	}

	report := &BTWReport{
		Rate:         sum.Rate,
		SalesNet:     domain.NewEuro(sum.SalesNet),
		PurchasesNet: domain.NewEuro(sum.PurchasesNet),
		SalesVat:     domain.NewEuro(sum.SalesVat),
		PurchasesVat: domain.NewEuro(sum.PurchasesVat),
		NetVatDue:    domain.NewEuro(sum.NetVatDue),
		Direction:    sum.Direction(),
	}

	s.record(domain.KindBTW, 0,
		map[string]string{"sales_net": report.SalesNet.Fixed(), "purchases_net": report.PurchasesNet.Fixed(), "rate": strconv.Itoa(int(in.Rate))},
		map[string]string{"sales_vat": report.SalesVat.Fixed(), "purchases_vat": report.PurchasesVat.Fixed(), "net_vat_due": report.NetVatDue.Fixed()})
	return report, nil
}

func (s *CalcService) VATFromGross(req GrossRequest) (*GrossReport, error) {
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}
	vat, err := btw.VatFromGross(in.Gross, in.Rate)
	if err != nil {
		return nil, err
	}

	report := &GrossReport{
		Rate:  in.Rate,
		Gross: domain.NewEuro(in.Gross),
		Vat:   domain.NewEuro(vat),
		Net:   domain.NewEuro(in.Gross.Sub(vat)),
	}

	s.record(domain.KindVATExtract, 0,
		map[string]string{"gross": report.Gross.Fixed(), "rate": strconv.Itoa(int(in.Rate))},
		map[string]string{"vat": report.Vat.Fixed(), "net": report.Net.Fixed()})
	return report, nil
}

// BTWPeriod returns the filing period for a quarter. It is not recorded.
func (s *CalcService) BTWPeriod(year, quarter int) (*PeriodReport, error) {
	p, err := btw.QuarterPeriod(year, quarter)
	if err != nil {
		return nil, err
	}
	return &PeriodReport{
		Label:   p.Label(),
		Year:    p.Year,
		Quarter: p.Quarter,
		Start:   p.Start.Format(dateLayout),
		End:     p.End.Format(dateLayout),
		DueDate: p.DueDate.Format(dateLayout),
	}, nil
}

func (s *CalcService) IncomeTax(req IncomeTaxRequest) (*IncomeTaxReport, error) {
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}
	res, err := incometax.ForYear(s.cfg, in.Year, in.Income)
	if err != nil {
		return nil, err
	}

	report := &IncomeTaxReport{
		Year:                res.Year,
		TaxableIncome:       domain.NewEuro(res.TaxableIncome),
		IncomeTax:           domain.NewEuro(res.IncomeTax),
		SocialContributions: domain.NewEuro(res.SocialContributions),
		TotalTaxDue:         domain.NewEuro(res.TotalTaxDue),
		EffectiveRate:       domain.Percent(res.EffectiveRate),
		MarginalRate:        domain.Percent(res.MarginalRate),
		Slices:              newSliceReports(res.Slices),
		TableRevision:       s.revision,
	}

	s.record(domain.KindIncomeTax, in.Year,
		map[string]string{"taxable_income": domain.NewEuro(in.Income).Fixed()},
		map[string]string{
			"income_tax":           report.IncomeTax.Fixed(),
			"social_contributions": report.SocialContributions.Fixed(),
			"total_tax_due":        report.TotalTaxDue.Fixed(),
			"effective_rate":       report.EffectiveRate,
		})
	return report, nil
}

// Mileage computes the deduction and flags, without capping, a running
// annual total above the year's limit.
func (s *CalcService) Mileage(req MileageRequest) (*MileageReport, error) {
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}
	table, err := s.cfg.Table(in.Year)
	if err != nil {
		return nil, err
	}

	policy := table.Mileage
	report := &MileageReport{
		Year:             in.Year,
		DistanceKm:       in.DistanceKm.String(),
		RatePerKm:        domain.NewEuro(policy.RatePerKm),
		Deduction:        domain.NewEuro(mileage.Deduction(in.DistanceKm, policy.RatePerKm)),
		AnnualKm:         in.AnnualKm.String(),
		AnnualCapKm:      policy.AnnualCapKm.String(),
		ExceedsAnnualCap: mileage.ExceedsAnnualCap(in.AnnualKm, policy.AnnualCapKm),
	}

	s.record(domain.KindMileage, in.Year,
		map[string]string{"distance_km": report.DistanceKm, "annual_km": report.AnnualKm},
		map[string]string{"deduction": report.Deduction.Fixed(), "exceeds_annual_cap": strconv.FormatBool(report.ExceedsAnnualCap)})
	return report, nil
}

// Categorize suggests an expense category for a bank-transaction description.
func (s *CalcService) Categorize(description string) categorize.Match {
	return s.categorizer.Categorize(description)
}

// Tables returns every configured year, oldest first.
func (s *CalcService) Tables() []TableReport {
	years := s.cfg.SupportedYears()
	out := make([]TableReport, 0, len(years))
	for _, y := range years {
		out = append(out, newTableReport(s.cfg.Years[y], s.revision))
	}
	return out
}

// Table returns a single year.
func (s *CalcService) Table(year int) (*TableReport, error) {
	t, err := s.cfg.Table(year)
	if err != nil {
		return nil, err
	}
	r := newTableReport(t, s.revision)
	return &r, nil
}

// History returns the recorded calculations, oldest first.
func (s *CalcService) History() ([]domain.CalculationEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	entries, err := s.history.Load(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

// record is best effort: a failing history never fails a calculation.
func (s *CalcService) record(kind domain.CalculationKind, year int, inputs, outputs map[string]string) {
	if s.history == nil {
		return
	}
	_ = s.history.Save(s.dataDir, domain.CalculationEntry{
		ID:            uuid.NewString(),
		Kind:          kind,
		Timestamp:     s.now().UTC(),
		Year:          year,
		Inputs:        inputs,
		Outputs:       outputs,
		TableRevision: s.revision,
	})
}
