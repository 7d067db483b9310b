// Package catalog owns screenshot persistence, metadata invariants, and the
// retrieval queries served over them. Records live in the embedding index's
// flat string metadata; tag collections are comma-joined there and decoded
// back into lists at this boundary.
package catalog

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/screendex/screendex/internal/index"
)

// Metadata keys used in the embedding index. Changing these breaks
// compatibility with existing index files.
const (
	metaProjectName     = "project_name"
	metaFilePath        = "file_path"
	metaCompanyName     = "company_name"
	metaProductCategory = "product_category"
	metaProjectTags     = "project_tags"
	metaDescriptiveTags = "descriptive_tags"
	metaAllTags         = "all_tags"
)

// Screenshot is a cataloged UI screenshot.
//
// AllTags is a materialized cache: always the union of ProjectTags and
// DescriptiveTags, recomputed on every write path that touches either
// source. No write path accepts AllTags as input.
type Screenshot struct {
	ID              string   `json:"id"`
	FilePath        string   `json:"file_path"`
	ProjectName     string   `json:"project_name"`
	CompanyName     string   `json:"company_name"`
	ProductCategory string   `json:"product_category"`
	ProjectTags     []string `json:"project_tags"`
	DescriptiveTags []string `json:"descriptive_tags"`
	AllTags         []string `json:"all_tags"`
}

// ScoredScreenshot is a similarity-search result. Similarity is 1 - distance
// and inherits the distance metric's bounds; cosine keeps it in [0, 1].
type ScoredScreenshot struct {
	Screenshot
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
}

// ScreenshotID derives the stable entity key from the project name and the
// file's base name. Deterministic: re-ingesting the same file into the same
// project addresses the same record.
func ScreenshotID(projectName, filePath string) string {
	return projectName + "_" + filepath.Base(filePath)
}

// CleanTags trims entries, drops empties, and removes duplicates while
// preserving first-occurrence order.
func CleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// UnionTags returns the sorted union of two tag lists. Sorting makes the
// materialized aggregate deterministic across recomputations.
func UnionTags(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, t := range list {
			t = strings.TrimSpace(t)
			if t != "" && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out
}

// joinTags encodes a tag list for flat string metadata.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// splitTags decodes comma-joined metadata back into a list.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// toMetadata encodes a screenshot as flat string metadata. AllTags is
// always rebuilt from the two source sets here, never taken from the
// struct, so a stale cache can't leak into storage.
func toMetadata(s *Screenshot) map[string]string {
	return map[string]string{
		metaProjectName:     s.ProjectName,
		metaFilePath:        s.FilePath,
		metaCompanyName:     s.CompanyName,
		metaProductCategory: s.ProductCategory,
		metaProjectTags:     joinTags(s.ProjectTags),
		metaDescriptiveTags: joinTags(s.DescriptiveTags),
		metaAllTags:         joinTags(UnionTags(s.ProjectTags, s.DescriptiveTags)),
	}
}

// fromRecord decodes an index record into a Screenshot.
func fromRecord(rec index.Record) Screenshot {
	return Screenshot{
		ID:              rec.ID,
		FilePath:        rec.Metadata[metaFilePath],
		ProjectName:     rec.Metadata[metaProjectName],
		CompanyName:     rec.Metadata[metaCompanyName],
		ProductCategory: rec.Metadata[metaProductCategory],
		ProjectTags:     splitTags(rec.Metadata[metaProjectTags]),
		DescriptiveTags: splitTags(rec.Metadata[metaDescriptiveTags]),
		AllTags:         splitTags(rec.Metadata[metaAllTags]),
	}
}
