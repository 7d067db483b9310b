// Package extract recovers fixed-schema records from free-form vision-model
// output. Model responses are untrusted: they may be truncated, wrapped in
// commentary or code fences, or not JSON at all. Every entry point degrades
// to an empty record instead of returning an error; callers treat an empty
// record as "no data extracted" and apply their own defaults.
package extract

import (
	"encoding/json"
	"strings"
)

// ImageRecord is the per-image structured schema.
type ImageRecord struct {
	CompanyName     string   `json:"company_name"`
	ProductCategory string   `json:"product_category"`
	DescriptiveTags []string `json:"descriptive_tags"`
}

// Empty reports whether no field carries data.
func (r ImageRecord) Empty() bool {
	return r.CompanyName == "" && r.ProductCategory == "" && len(r.DescriptiveTags) == 0
}

// Field aliases, in priority order. Model responses drift across runs: a
// category may arrive as "category", "product_type", or "app_type". The
// first alias present wins.
var (
	companyAliases  = []string{"company_name", "company", "brand", "brand_name"}
	categoryAliases = []string{"product_category", "category", "product_type", "app_type"}
	imageTagAliases = []string{"descriptive_tags", "tags", "feature_tags"}
	projectAliases  = []string{"project_tags", "tags", "common_tags"}
)

// ImageData extracts an ImageRecord from raw model text. The category is
// returned as written; callers normalize it against the canonical vocabulary.
func ImageData(text string) ImageRecord {
	obj := Parse(text)
	return ImageRecord{
		CompanyName:     stringField(obj, companyAliases),
		ProductCategory: stringField(obj, categoryAliases),
		DescriptiveTags: tagField(obj, imageTagAliases),
	}
}

// ProjectTags extracts the project-level tag list from raw model text.
// Returns nil when nothing could be extracted.
func ProjectTags(text string) []string {
	return tagField(Parse(text), projectAliases)
}

// Parse locates and decodes the first JSON object recoverable from text.
// Strategies, first success wins:
//  1. the entire text as a JSON object
//  2. the contents of a ```json fenced block
//  3. the contents of any fenced block
//  4. a left-to-right scan for the first balanced top-level {...}
//
// Returns an empty map when every strategy fails.
func Parse(text string) map[string]any {
	text = strings.TrimSpace(text)
	if text == "" {
		return map[string]any{}
	}

	if obj, ok := decodeObject(text); ok {
		return obj
	}

	if inner, ok := fencedBlock(text, "```json"); ok {
		if obj, ok := decodeObject(inner); ok {
			return obj
		}
	}

	if inner, ok := fencedBlock(text, "```"); ok {
		if obj, ok := decodeObject(inner); ok {
			return obj
		}
	}

	return firstBalancedObject(text)
}

// decodeObject parses s as a JSON object. Arrays and scalars don't count.
func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// fencedBlock returns the content between the first occurrence of marker and
// the next ``` fence.
func fencedBlock(text, marker string) (string, bool) {
	start := strings.Index(text, marker)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(marker):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// firstBalancedObject scans for the first balanced {...} block at top level,
// treating characters inside quoted strings (including escapes) as
// non-structural. A candidate that fails to parse does not abort the scan;
// scanning resumes from the next '{'. Returns an empty map when no candidate
// parses.
func firstBalancedObject(text string) map[string]any {
	n := len(text)
	start := strings.IndexByte(text, '{')
	for start != -1 {
		depth := 0
		inStr := false
		esc := false
	scan:
		for i := start; i < n; i++ {
			ch := text[i]
			if inStr {
				switch {
				case esc:
					esc = false
				case ch == '\\':
					esc = true
				case ch == '"':
					inStr = false
				}
				continue
			}
			switch ch {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					if obj, ok := decodeObject(text[start : i+1]); ok {
						return obj
					}
					break scan
				}
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return map[string]any{}
}

// stringField returns the first alias present with a non-empty string value.
func stringField(obj map[string]any, aliases []string) string {
	for _, key := range aliases {
		if v, ok := obj[key]; ok {
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// tagField returns the first alias present as a cleaned tag list. A single
// comma-separated string splits into a list; any other non-list value
// normalizes to nil.
func tagField(obj map[string]any, aliases []string) []string {
	for _, key := range aliases {
		v, ok := obj[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []any:
			tags := make([]string, 0, len(t))
			for _, item := range t {
				if s, ok := item.(string); ok {
					s = strings.TrimSpace(s)
					if s != "" {
						tags = append(tags, s)
					}
				}
			}
			if len(tags) > 0 {
				return tags
			}
		case string:
			if tags := SplitTags(t); len(tags) > 0 {
				return tags
			}
		}
	}
	return nil
}

// SplitTags splits a comma-separated tag string into trimmed, non-empty tags.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
