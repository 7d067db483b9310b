package catalog

import (
	"context"
	"sort"
)

// Stats summarizes the catalog.
type Stats struct {
	TotalImages   int      `json:"total_images"`
	TotalProjects int      `json:"total_projects"`
	ProjectNames  []string `json:"project_names"`
}

// Stats scans all records and derives the counts. TotalProjects is the
// cardinality of the distinct project-name set, never a maintained counter,
// so it cannot drift from the underlying records.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	records, err := s.idx.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	projects := make(map[string]bool)
	for _, rec := range records {
		if name := rec.Metadata[metaProjectName]; name != "" {
			projects[name] = true
		}
	}
	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Stats{
		TotalImages:   len(records),
		TotalProjects: len(names),
		ProjectNames:  names,
	}, nil
}

// Distinct holds the unique companies and categories across the catalog,
// for filter dropdowns in the UI layer.
type Distinct struct {
	Companies  []string `json:"companies"`
	Categories []string `json:"categories"`
}

// Distinct scans all records for unique non-empty company and category
// values, sorted.
func (s *Store) Distinct(ctx context.Context) (*Distinct, error) {
	records, err := s.idx.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	companies := make(map[string]bool)
	categories := make(map[string]bool)
	for _, rec := range records {
		if v := rec.Metadata[metaCompanyName]; v != "" {
			companies[v] = true
		}
		if v := rec.Metadata[metaProductCategory]; v != "" {
			categories[v] = true
		}
	}

	return &Distinct{
		Companies:  sortedKeys(companies),
		Categories: sortedKeys(categories),
	}, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
