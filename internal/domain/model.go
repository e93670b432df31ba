package domain

import "time"

// CalculationKind names the engine operation behind a history entry.
type CalculationKind string

const (
	KindIBAN       CalculationKind = "iban"
	KindBTW        CalculationKind = "btw"
	KindVATExtract CalculationKind = "vat_extract"
	KindIncomeTax  CalculationKind = "income_tax"
	KindMileage    CalculationKind = "mileage"
)

// CalculationEntry is one recorded calculation. Inputs and outputs are kept
// as display strings so the history file stays readable.
type CalculationEntry struct {
	ID            string            `json:"id"`
	Kind          CalculationKind   `json:"kind"`
	Timestamp     time.Time         `json:"timestamp"`
	Year          int               `json:"year,omitempty"`
	Inputs        map[string]string `json:"inputs"`
	Outputs       map[string]string `json:"outputs"`
	TableRevision string            `json:"table_revision,omitempty"`
}
