package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_ExplicitPathErrorsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "housingmarket.toml")

	if _, _, err := Load(path, true); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "housingmarket.toml")

	cfg := Default()
	cfg.Market.RandomSeed = 42
	cfg.Supply.NewDwellingsPerYear = 7

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, _, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Market.RandomSeed != 42 {
		t.Errorf("RandomSeed = %d, want 42", loaded.Market.RandomSeed)
	}
	if loaded.Supply.NewDwellingsPerYear != 7 {
		t.Errorf("NewDwellingsPerYear = %d, want 7", loaded.Supply.NewDwellingsPerYear)
	}
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "housingmarket.toml")

	cfg := Default()
	cfg.Market.MaxBedrooms = 0
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, _, err := Load(path, false); err == nil {
		t.Error("expected Load to reject an invalid configuration")
	}
}
