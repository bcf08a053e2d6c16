// Package staging persists configuration artifacts under the mounted
// installation target. Decisions made before the chroot pivot do not
// survive it in process memory, so anything the chroot stage needs must be
// re-derivable from files already present under the new root.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is a file-backed artifact store rooted at the target's /etc.
// Artifact names are paths relative to it, so an artifact staged as
// "hostname" before the pivot is readable as /etc/hostname after it.
type Store struct {
	root string
}

func NewStore(mountPoint string) *Store {
	return &Store{root: filepath.Join(mountPoint, "etc")}
}

// Path returns the pre-pivot location of an artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, name)
}

func (s *Store) Put(name, content string) error {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to stage %s: %s", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to stage %s: %s", name, err)
	}
	return nil
}

func (s *Store) Get(name string) (string, error) {
	content, err := os.ReadFile(s.Path(name))
	if err != nil {
		return "", fmt.Errorf("failed to read staged %s: %w", name, err)
	}
	return string(content), nil
}

func (s *Store) Delete(name string) error {
	if err := os.Remove(s.Path(name)); err != nil {
		return fmt.Errorf("failed to delete staged %s: %w", name, err)
	}
	return nil
}
