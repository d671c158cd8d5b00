package widget

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FlagStore remembers which polls this client has voted in. It is a UX hint
// only: clearing it lets the same client vote again, and the server does not
// consult it.
type FlagStore interface {
	HasVoted(slug string) bool
	MarkVoted(slug string) error
}

type MemoryFlags struct {
	mu    sync.Mutex
	voted map[string]bool
}

func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{voted: make(map[string]bool)}
}

func (m *MemoryFlags) HasVoted(slug string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.voted[slug]
}

func (m *MemoryFlags) MarkVoted(slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voted[slug] = true
	return nil
}

// FileFlags keeps the flags in a JSON file mapping poll slug to the time of
// the vote. An unreadable or corrupt file counts as no flags.
type FileFlags struct {
	mu   sync.Mutex
	path string
}

func NewFileFlags(path string) *FileFlags {
	return &FileFlags{path: path}
}

func (f *FileFlags) HasVoted(slug string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.read()[slug]
	return ok
}

func (f *FileFlags) MarkVoted(slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	flags := f.read()
	flags[slug] = time.Now().UTC()

	data, err := json.MarshalIndent(flags, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create flag directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write voted flag: %w", err)
	}
	return nil
}

func (f *FileFlags) read() map[string]time.Time {
	flags := make(map[string]time.Time)
	data, err := os.ReadFile(f.path)
	if err != nil {
		return flags
	}
	if err := json.Unmarshal(data, &flags); err != nil {
		return make(map[string]time.Time)
	}
	return flags
}

var _ FlagStore = (*MemoryFlags)(nil)
var _ FlagStore = (*FileFlags)(nil)
