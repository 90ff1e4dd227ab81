package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState is the last sort run on a file.
type FileState struct {
	// Selections are stored in the LINE:COL-LINE:COL syntax.
	Selections []string  `json:"selections"`
	Descending bool      `json:"descending,omitempty"`
	Locale     string    `json:"locale,omitempty"`
	SortedAt   time.Time `json:"sorted_at"`
}

// Session stores sort history keyed by absolute file path.
type Session struct {
	Files     map[string]FileState `json:"files"`
	LastSaved time.Time            `json:"last_saved"`
}

// Manager handles session persistence
type Manager struct {
	mu      sync.RWMutex
	session Session
	path    string
	dirty   bool
}

// NewManager loads the session file, starting empty when it is missing or
// unreadable.
func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return Open(path), nil
}

// Open loads the session stored at path.
func Open(path string) *Manager {
	m := &Manager{
		session: Session{Files: make(map[string]FileState)},
		path:    path,
	}
	m.load()
	return m
}

func sessionPath() (string, error) {
	stateDir := os.Getenv("SORTLINES_STATE_HOME")
	if stateDir == "" {
		stateDir = os.Getenv("XDG_STATE_HOME")
		if stateDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			stateDir = filepath.Join(home, ".local", "state")
		}
		stateDir = filepath.Join(stateDir, "sortlines")
	}
	return filepath.Join(stateDir, "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return
	}
	if session.Files == nil {
		session.Files = make(map[string]FileState)
	}
	m.session = session
}

// Path returns the session file location.
func (m *Manager) Path() string {
	return m.path
}

// Save persists the session to disk if it changed.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

// GetFileState returns the saved state for a file
func (m *Manager) GetFileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.session.Files[absPath]
	return state, ok
}

// SetFileState updates the state for a file
func (m *Manager) SetFileState(absPath string, state FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Files[absPath] = state
	m.dirty = true
}
