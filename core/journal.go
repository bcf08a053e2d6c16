package strata

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DefaultJournalPath is where intent records are kept before the target
// filesystem exists. It sits on tmpfs, so the pipeline relocates the
// journal onto the mounted target as soon as there is one.
const DefaultJournalPath = "/run/strata/journal.log"

// TargetJournalPath is the journal's home under the mounted target, where
// records survive a power loss mid-install.
const TargetJournalPath = "var/log/strata/journal.log"

// IntentRecord marks that a destructive step was about to run, or that it
// finished. There is no rollback; the journal exists so a recovery tool
// can tell how far a failed run got.
type IntentRecord struct {
	ID     string    `json:"id"`
	Stage  string    `json:"stage"`
	Detail string    `json:"detail,omitempty"`
	Time   time.Time `json:"time"`
	Done   bool      `json:"done"`
}

// Journal appends intent records to a JSON-lines file.
type Journal struct {
	path string
}

func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %s", err)
	}
	return &Journal{path: path}, nil
}

// Begin records intent to run a destructive step and returns the record id.
func (j *Journal) Begin(stage Stage, detail string) (string, error) {
	rec := IntentRecord{
		ID:     uuid.NewString(),
		Stage:  stage.String(),
		Detail: detail,
		Time:   time.Now().UTC(),
	}
	if err := j.append(rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Finish records that the step identified by id completed.
func (j *Journal) Finish(id string, stage Stage) error {
	return j.append(IntentRecord{
		ID:    id,
		Stage: stage.String(),
		Time:  time.Now().UTC(),
		Done:  true,
	})
}

// Relocate moves the journal to path, carrying existing records over.
func (j *Journal) Relocate(path string) error {
	if path == j.path {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %s", err)
	}

	content, err := os.ReadFile(j.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to relocate journal: %s", err)
	}
	if err == nil {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return fmt.Errorf("failed to relocate journal: %s", err)
		}
		if err := os.Remove(j.path); err != nil {
			return fmt.Errorf("failed to remove old journal: %s", err)
		}
	}

	j.path = path
	return nil
}

func (j *Journal) append(rec IntentRecord) error {
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open journal: %s", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode intent record: %s", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append intent record: %s", err)
	}

	return nil
}

// ReadJournal loads all intent records from a journal file.
func ReadJournal(path string) ([]IntentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	records := []IntentRecord{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec IntentRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode intent record: %s", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %s", err)
	}

	return records, nil
}
