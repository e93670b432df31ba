package history

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/zzptax/zzptax/internal/domain"
)

const historyFile = ".zzptax/history/calculations.json"

// MaxEntries bounds the file; the oldest entries are dropped first.
const MaxEntries = 500

// FileHistory implements domain.CalculationHistory using JSON file storage.
// Save rewrites the whole file, so concurrent writers in one process are
// serialized.
type FileHistory struct {
	mu sync.Mutex
}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Save(dir string, entry domain.CalculationEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := load(dir)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}

	fp := filepath.Join(dir, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fp)
}

func (h *FileHistory) Load(dir string) ([]domain.CalculationEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return load(dir)
}

func load(dir string) ([]domain.CalculationEntry, error) {
	data, err := os.ReadFile(filepath.Join(dir, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.CalculationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
