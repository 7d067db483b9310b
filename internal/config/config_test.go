package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SimilarityThreshold != 0.85 {
		t.Fatalf("SimilarityThreshold = %v, want 0.85", cfg.SimilarityThreshold)
	}
	if cfg.PacingDelayMS != 2000 {
		t.Fatalf("PacingDelayMS = %d, want 2000", cfg.PacingDelayMS)
	}
	if len(cfg.CanonicalCategories) != len(DefaultCanonicalCategories) {
		t.Fatalf("CanonicalCategories length = %d, want %d",
			len(cfg.CanonicalCategories), len(DefaultCanonicalCategories))
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"similarity_threshold": 0.7, "max_tags_per_image": 5}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SimilarityThreshold != 0.7 {
		t.Fatalf("SimilarityThreshold = %v, want 0.7", cfg.SimilarityThreshold)
	}
	if cfg.MaxTagsPerImage != 5 {
		t.Fatalf("MaxTagsPerImage = %d, want 5", cfg.MaxTagsPerImage)
	}
	// Unset values keep defaults
	if cfg.MaxProjectTags != 8 {
		t.Fatalf("MaxProjectTags = %d, want 8", cfg.MaxProjectTags)
	}
}

func TestLoad_CategoriesReplaceWholesale(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"canonical_categories": ["crm", "crm", " billing portal "]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.CanonicalCategories) != 2 {
		t.Fatalf("CanonicalCategories = %v, want 2 entries", cfg.CanonicalCategories)
	}
	if cfg.CanonicalCategories[0] != "crm" || cfg.CanonicalCategories[1] != "billing portal" {
		t.Fatalf("CanonicalCategories = %v", cfg.CanonicalCategories)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.SimilarityThreshold = 0.9
	cfg.AddCanonicalCategory("flight booking app")

	if err := Save(tmpDir, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.SimilarityThreshold != 0.9 {
		t.Fatalf("SimilarityThreshold = %v, want 0.9", loaded.SimilarityThreshold)
	}
	last := loaded.CanonicalCategories[len(loaded.CanonicalCategories)-1]
	if last != "flight booking app" {
		t.Fatalf("last category = %q, want %q", last, "flight booking app")
	}
}

func TestAddCanonicalCategory(t *testing.T) {
	cfg := &Config{CanonicalCategories: []string{"mobile banking app"}}

	if !cfg.AddCanonicalCategory("CRM Platform") {
		t.Fatal("AddCanonicalCategory(new) = false, want true")
	}
	if cfg.CanonicalCategories[1] != "crm platform" {
		t.Fatalf("appended = %q, want lowercase", cfg.CanonicalCategories[1])
	}
	if cfg.AddCanonicalCategory("Mobile Banking App") {
		t.Fatal("AddCanonicalCategory(dup) = true, want false")
	}
	if cfg.AddCanonicalCategory("   ") {
		t.Fatal("AddCanonicalCategory(blank) = true, want false")
	}
}
