package config_test

import (
	"path/filepath"
	"testing"

	"po-review/internal/config"
)

func TestSettingsStore_DefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := config.NewSettingsStore(path)
	if err != nil {
		t.Fatalf("NewSettingsStore: %v", err)
	}
	got := store.Get()
	if got.SafetyStock != 0 || got.PalletMaxHeight != 68 || got.PalletMaxWeight != 2500 || got.PalletBaseWeight != 40 {
		t.Errorf("defaults = %+v", got)
	}
}

func TestSettingsStore_UpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := config.NewSettingsStore(path)
	if err != nil {
		t.Fatalf("NewSettingsStore: %v", err)
	}
	next := config.Settings{SafetyStock: 25, PalletMaxHeight: 72, PalletMaxWeight: 2200, PalletBaseWeight: 35}
	if err := store.Update(next); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reopened, err := config.NewSettingsStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Get(); got != next {
		t.Errorf("reloaded = %+v, want %+v", got, next)
	}
}

func TestSettingsStore_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := config.NewSettingsStore(path)
	if err != nil {
		t.Fatalf("NewSettingsStore: %v", err)
	}
	cases := []config.Settings{
		{SafetyStock: -1, PalletMaxHeight: 68, PalletMaxWeight: 2500, PalletBaseWeight: 40},
		{SafetyStock: 0, PalletMaxHeight: 0, PalletMaxWeight: 2500, PalletBaseWeight: 40},
		{SafetyStock: 0, PalletMaxHeight: 68, PalletMaxWeight: -5, PalletBaseWeight: 40},
	}
	for _, c := range cases {
		if err := store.Update(c); err == nil {
			t.Errorf("Update(%+v) accepted invalid settings", c)
		}
	}
	if got := store.Get(); got != config.DefaultSettings() {
		t.Errorf("settings changed after rejected update: %+v", got)
	}
}

func TestSettings_PalletConfigFallsBack(t *testing.T) {
	s := config.Settings{PalletMaxHeight: 72}
	pc := s.PalletConfig()
	if pc.MaxHeight != 72 {
		t.Errorf("MaxHeight = %v, want 72", pc.MaxHeight)
	}
	if pc.MaxWeight != 2500 || pc.BaseWeight != 40 {
		t.Errorf("fallback config = %+v", pc)
	}
}
