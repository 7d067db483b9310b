package catalog

import (
	"context"
	"strings"

	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/index"
)

// Search runs a similarity query: the text is embedded into the image
// space by the index and results come back ordered by increasing distance,
// best match first. Similarity is 1 - distance; with cosine distance it
// stays in [0, 1], but callers must not assume bounds for other metrics.
// Tie order among equal distances is the index's own and not part of the
// contract.
//
// A non-empty projectFilter is pushed to the index as a metadata pre-filter,
// not applied after ranking.
func (s *Store) Search(ctx context.Context, query string, limit int, projectFilter string) ([]ScoredScreenshot, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	limit = s.clampLimit(limit)

	var filter index.Filter
	if projectFilter != "" {
		filter = index.Filter{metaProjectName: projectFilter}
	}

	records, err := s.idx.QueryByText(ctx, query, limit, filter)
	if err != nil {
		return nil, err
	}

	results := make([]ScoredScreenshot, len(records))
	for i, rec := range records {
		results[i] = ScoredScreenshot{
			Screenshot: fromRecord(rec.Record),
			Distance:   rec.Distance,
			Similarity: 1 - rec.Distance,
		}
	}
	return results, nil
}

// SearchByTags returns screenshots whose tag aggregate contains the query
// as a case-insensitive substring. No ranking: matches come back in
// store-native order, truncated to limit. This is raw substring containment
// over the comma-joined aggregate, not a token index; multi-term AND/OR
// semantics are out of contract.
func (s *Store) SearchByTags(ctx context.Context, query string, limit int, projectFilter string) ([]Screenshot, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	limit = s.clampLimit(limit)

	var filter index.Filter
	if projectFilter != "" {
		filter = index.Filter{metaProjectName: projectFilter}
	}

	records, err := s.idx.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	var matches []Screenshot
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Metadata[metaAllTags]), query) {
			matches = append(matches, fromRecord(rec))
			if len(matches) == limit {
				break
			}
		}
	}
	return matches, nil
}

// clampLimit applies the configured default and maximum result counts.
func (s *Store) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.DefaultSearchResults
	}
	if max := s.cfg.MaxSearchResults; max > 0 && limit > max {
		limit = max
	}
	return limit
}
