package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/varshaaa-v/Web-Technology-Project/internal/board"
)

var _ board.LocalStore = (*FileStore)(nil)

type fileState struct {
	Identity *board.Identity         `json:"identity,omitempty"`
	Profiles map[string]board.Profile `json:"profiles"`
}

// FileStore keeps the remembered identity and per-identity profiles in one
// JSON file, readable only by its owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStatePath is <user config dir>/taskboard/state.json.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taskboard", "state.json"), nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) LoadIdentity() (*board.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return nil, err
	}
	return st.Identity, nil
}

func (s *FileStore) SaveIdentity(id board.Identity) error {
	return s.update(func(st *fileState) { st.Identity = &id })
}

func (s *FileStore) ClearIdentity() error {
	return s.update(func(st *fileState) { st.Identity = nil })
}

// LoadProfile returns the zero profile for an unknown key.
func (s *FileStore) LoadProfile(key string) (board.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return board.Profile{}, err
	}
	return st.Profiles[key], nil
}

func (s *FileStore) SaveProfile(key string, p board.Profile) error {
	return s.update(func(st *fileState) { st.Profiles[key] = p })
}

func (s *FileStore) update(fn func(*fileState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		// an unreadable file is replaced rather than blocking every save
		st = &fileState{Profiles: map[string]board.Profile{}}
	}
	fn(st)
	return s.write(st)
}

func (s *FileStore) read() (*fileState, error) {
	st := &fileState{Profiles: map[string]board.Profile{}}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	if st.Profiles == nil {
		st.Profiles = map[string]board.Profile{}
	}
	return st, nil
}

// write replaces the file atomically.
func (s *FileStore) write(st *fileState) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set state file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
