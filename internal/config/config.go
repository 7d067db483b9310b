package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// CanonicalCategories is the ordered, curated list of product category
	// labels that normalization converges to. Order matters: similarity ties
	// resolve to the first entry reaching the maximum score.
	CanonicalCategories []string `json:"canonical_categories,omitempty"`

	// SimilarityThreshold is the minimum similarity (0-1) for a candidate
	// category to collapse into a canonical one. Default 0.85.
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`

	// TagVocabulary is an ordered list of suggested descriptive tags passed
	// to the vision model as hints. The model may still produce other tags.
	TagVocabulary []string `json:"tag_vocabulary,omitempty"`

	// MaxTagsPerImage caps descriptive tags kept per screenshot. Default 10.
	MaxTagsPerImage int `json:"max_tags_per_image,omitempty"`

	// MaxProjectTags caps project-level tags. Default 8.
	MaxProjectTags int `json:"max_project_tags,omitempty"`

	// ProjectTagSampleSize is how many images are sent in the single
	// project-tag generation call. Default 5.
	ProjectTagSampleSize int `json:"project_tag_sample_size,omitempty"`

	// PacingDelayMS is the delay between per-image vision calls, in
	// milliseconds. Default 2000. Skipped after the last image.
	PacingDelayMS int `json:"pacing_delay_ms,omitempty"`

	// DefaultSearchResults is the result count when a query omits a limit.
	// Default 12.
	DefaultSearchResults int `json:"default_search_results,omitempty"`

	// MaxSearchResults caps any single query. Default 24.
	MaxSearchResults int `json:"max_search_results,omitempty"`

	// VisionModel is the model name for the vision collaborator.
	VisionModel string `json:"vision_model,omitempty"`

	// VisionMaxTokens caps tokens per vision call. Default 300.
	VisionMaxTokens int `json:"vision_max_tokens,omitempty"`

	// StorageRoot is the directory holding per-project screenshot folders.
	// Empty means baseDir/screenshots.
	StorageRoot string `json:"storage_root,omitempty"`

	// DBMaxOpenConns limits open database connections. 0 means sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections. 0 means sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultCanonicalCategories seeds a fresh install. Operators grow this
// list through the categories add command; edits persist to config.json.
var DefaultCanonicalCategories = []string{
	"ai/ml developer platform",
	"developer tools platform",
	"mobile banking app",
	"e-commerce platform",
	"social media app",
	"fitness tracker",
	"healthcare platform",
	"productivity app",
	"educational platform",
}

// DefaultTagVocabulary seeds the hint list passed to the vision model.
var DefaultTagVocabulary = []string{
	"button", "form", "modal", "navigation bar", "card", "list", "sidebar",
	"hero section", "empty state", "error message", "loading spinner",
	"dropdown", "search bar", "tab bar", "footer", "header", "icon",
	"tooltip", "badge", "avatar",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CanonicalCategories:  append([]string(nil), DefaultCanonicalCategories...),
		SimilarityThreshold:  0.85,
		TagVocabulary:        append([]string(nil), DefaultTagVocabulary...),
		MaxTagsPerImage:      10,
		MaxProjectTags:       8,
		ProjectTagSampleSize: 5,
		PacingDelayMS:        2000,
		DefaultSearchResults: 12,
		MaxSearchResults:     24,
		VisionModel:          "claude-sonnet-4-5-20250929",
		VisionMaxTokens:      300,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.screendex.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Save writes configuration to baseDir/config.json. Canonical categories and
// thresholds edited by an operator persist here, not in source text.
func Save(baseDir string, cfg *Config) error {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(baseDir, "config.json"), data, 0600)
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; list values replace wholesale
// when set, since order is significant for categories and vocabulary.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.SimilarityThreshold = overlay.SimilarityThreshold
	if result.SimilarityThreshold == 0 {
		result.SimilarityThreshold = base.SimilarityThreshold
	}

	result.MaxTagsPerImage = overlay.MaxTagsPerImage
	if result.MaxTagsPerImage == 0 {
		result.MaxTagsPerImage = base.MaxTagsPerImage
	}

	result.MaxProjectTags = overlay.MaxProjectTags
	if result.MaxProjectTags == 0 {
		result.MaxProjectTags = base.MaxProjectTags
	}

	result.ProjectTagSampleSize = overlay.ProjectTagSampleSize
	if result.ProjectTagSampleSize == 0 {
		result.ProjectTagSampleSize = base.ProjectTagSampleSize
	}

	result.PacingDelayMS = overlay.PacingDelayMS
	if result.PacingDelayMS == 0 {
		result.PacingDelayMS = base.PacingDelayMS
	}

	result.DefaultSearchResults = overlay.DefaultSearchResults
	if result.DefaultSearchResults == 0 {
		result.DefaultSearchResults = base.DefaultSearchResults
	}

	result.MaxSearchResults = overlay.MaxSearchResults
	if result.MaxSearchResults == 0 {
		result.MaxSearchResults = base.MaxSearchResults
	}

	result.VisionModel = overlay.VisionModel
	if result.VisionModel == "" {
		result.VisionModel = base.VisionModel
	}

	result.VisionMaxTokens = overlay.VisionMaxTokens
	if result.VisionMaxTokens == 0 {
		result.VisionMaxTokens = base.VisionMaxTokens
	}

	result.StorageRoot = overlay.StorageRoot
	if result.StorageRoot == "" {
		result.StorageRoot = base.StorageRoot
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Ordered lists: overlay replaces when present
	result.CanonicalCategories = cleanList(overlay.CanonicalCategories)
	if result.CanonicalCategories == nil {
		result.CanonicalCategories = cleanList(base.CanonicalCategories)
	}
	result.TagVocabulary = cleanList(overlay.TagVocabulary)
	if result.TagVocabulary == nil {
		result.TagVocabulary = cleanList(base.TagVocabulary)
	}
	result.DisabledTools = cleanList(overlay.DisabledTools)
	if result.DisabledTools == nil {
		result.DisabledTools = cleanList(base.DisabledTools)
	}

	return result
}

// AddCanonicalCategory appends a category if no case-insensitive duplicate
// exists. Returns true when the list changed.
func (c *Config) AddCanonicalCategory(category string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return false
	}
	for _, existing := range c.CanonicalCategories {
		if strings.EqualFold(existing, category) {
			return false
		}
	}
	c.CanonicalCategories = append(c.CanonicalCategories, category)
	return true
}

// cleanList trims entries, drops empties and duplicates, and preserves order.
func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	result := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
