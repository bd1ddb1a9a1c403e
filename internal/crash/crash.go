package crash

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// Record describes the fault that ended the previous run.
type Record struct {
	Timestamp int64  `toml:"timestamp" json:"timestamp"`
	Stack     string `toml:"stack" json:"stack"`
}

func NewRecord(at time.Time, stack string) Record {
	return Record{Timestamp: at.UnixMilli(), Stack: stack}
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored record, or nil when there is none.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read crash record: %w", err)
	}
	var rec Record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse crash record: %w", err)
	}
	return &rec, nil
}

func (s *Store) Save(rec Record) error {
	data, err := toml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode crash record: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create crash dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write crash record: %w", err)
	}
	log.Error().Str("module", "crash").Str("path", s.path).Msg("crash record written")
	return nil
}
