package domain

// TaxTableLoader loads the tax configuration stored under a directory.
type TaxTableLoader interface {
	Load(dir string) (TaxConfig, error)
}

// CalculationHistory persists calculation entries.
type CalculationHistory interface {
	Save(dir string, entry CalculationEntry) error
	Load(dir string) ([]CalculationEntry, error)
}

// RevisionSource identifies the version of the tax tables in use.
type RevisionSource interface {
	IsGitRepo(dir string) bool
	CommitHash(dir string) (string, error)
}
