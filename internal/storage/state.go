package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunState is what a run leaves behind for the next one.
type RunState struct {
	LastRun  *time.Time           `json:"last_run,omitempty"`
	Preset   string               `json:"preset,omitempty"`
	DigestID string               `json:"digest_id,omitempty"`
	Sent     map[string]time.Time `json:"sent,omitempty"` // url hash -> time sent
}

// StateFile keeps RunState in a JSON file. Sent entries expire after ttl.
type StateFile struct {
	path  string
	ttl   time.Duration
	state RunState
	mu    sync.RWMutex
	now   func() time.Time
}

func NewStateFile(path string, ttl time.Duration) *StateFile {
	return &StateFile{
		path:  path,
		ttl:   ttl,
		state: RunState{Sent: make(map[string]time.Time)},
		now:   time.Now,
	}
}

// Load reads the state file. A missing or empty file is a fresh state.
func (sf *StateFile) Load() error {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	data, err := os.ReadFile(sf.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var st RunState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if st.Sent == nil {
		st.Sent = make(map[string]time.Time)
	}
	sf.state = st
	sf.cleanupLocked()
	return nil
}

// Save writes the state through a temp file so a crash never leaves it half
// written.
func (sf *StateFile) Save() error {
	sf.mu.RLock()
	data, err := json.MarshalIndent(sf.state, "", "  ")
	sf.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(sf.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state dir: %w", err)
		}
	}
	tmp := sf.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, sf.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// LastRun returns the time of the last completed run, or nil.
func (sf *StateFile) LastRun() *time.Time {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	if sf.state.LastRun == nil {
		return nil
	}
	t := *sf.state.LastRun
	return &t
}

// State returns a copy of the current state.
func (sf *StateFile) State() RunState {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	st := sf.state
	st.Sent = make(map[string]time.Time, len(sf.state.Sent))
	for k, v := range sf.state.Sent {
		st.Sent[k] = v
	}
	if sf.state.LastRun != nil {
		t := *sf.state.LastRun
		st.LastRun = &t
	}
	return st
}

// MarkRun records a finished run.
func (sf *StateFile) MarkRun(at time.Time, preset, digestID string) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	t := at.UTC()
	sf.state.LastRun = &t
	sf.state.Preset = preset
	sf.state.DigestID = digestID
}

// WasSent reports whether url was published within the ttl.
func (sf *StateFile) WasSent(url string) bool {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	at, ok := sf.state.Sent[URLHash(url)]
	return ok && at.After(sf.now().Add(-sf.ttl))
}

// MarkSent records urls as published now.
func (sf *StateFile) MarkSent(urls ...string) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	now := sf.now().UTC()
	for _, u := range urls {
		sf.state.Sent[URLHash(u)] = now
	}
}

// Cleanup drops expired sent entries.
func (sf *StateFile) Cleanup() {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.cleanupLocked()
}

func (sf *StateFile) cleanupLocked() {
	cutoff := sf.now().Add(-sf.ttl)
	for hash, at := range sf.state.Sent {
		if at.Before(cutoff) {
			delete(sf.state.Sent, hash)
		}
	}
}

// GetStats returns state statistics
func (sf *StateFile) GetStats() map[string]int {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	return map[string]int{"sent_items": len(sf.state.Sent)}
}
