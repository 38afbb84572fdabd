package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"po-review/internal/core"
)

// Settings are the operator-tunable review parameters. They persist as a
// JSON file so edits survive restarts, and every review run reads the
// current values.
type Settings struct {
	SafetyStock      int     `json:"safety_stock"`
	PalletMaxHeight  float64 `json:"pallet_max_height"`
	PalletMaxWeight  float64 `json:"pallet_max_weight"`
	PalletBaseWeight float64 `json:"pallet_base_weight"`
}

// DefaultSettings returns the shipping defaults used when no settings file
// exists yet.
func DefaultSettings() Settings {
	pc := core.DefaultPalletConfig()
	return Settings{
		SafetyStock:      0,
		PalletMaxHeight:  pc.MaxHeight,
		PalletMaxWeight:  pc.MaxWeight,
		PalletBaseWeight: pc.BaseWeight,
	}
}

// PalletConfig converts the tunable pallet limits into the packing
// configuration, falling back to defaults for non-positive values.
func (s Settings) PalletConfig() core.PalletConfig {
	pc := core.DefaultPalletConfig()
	if s.PalletMaxHeight > 0 {
		pc.MaxHeight = s.PalletMaxHeight
	}
	if s.PalletMaxWeight > 0 {
		pc.MaxWeight = s.PalletMaxWeight
	}
	if s.PalletBaseWeight > 0 {
		pc.BaseWeight = s.PalletBaseWeight
	}
	return pc
}

// SettingsStore owns the settings file. Reads and writes are serialized so
// concurrent admin updates cannot interleave partial state.
type SettingsStore struct {
	path string

	mu      sync.Mutex
	current Settings
}

// NewSettingsStore loads settings from path, creating defaults when the
// file does not exist yet.
func NewSettingsStore(path string) (*SettingsStore, error) {
	s := &SettingsStore{path: path, current: DefaultSettings()}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Get returns the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update validates, persists, and applies new settings. Persistence goes
// through a temp file and rename so a crash mid-write cannot corrupt the
// settings file.
func (s *SettingsStore) Update(next Settings) error {
	if next.SafetyStock < 0 {
		return fmt.Errorf("safety_stock must not be negative, got %d", next.SafetyStock)
	}
	if next.PalletMaxHeight <= 0 || next.PalletMaxWeight <= 0 || next.PalletBaseWeight < 0 {
		return errors.New("pallet limits must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	s.current = next
	return nil
}
