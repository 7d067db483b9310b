package catalog

import (
	"context"
	"strings"
)

// UpdateMetadataInput contains the editable per-image fields.
type UpdateMetadataInput struct {
	CompanyName     string
	ProductCategory string
	DescriptiveTags []string
}

// UpdateMetadata replaces a screenshot's per-image fields and recomputes
// the tag aggregate from the entity's existing project tags and the new
// descriptive tags, persisted in one metadata write.
//
// Returns false (not an error) when the ID is unknown; callers must check.
func (s *Store) UpdateMetadata(ctx context.Context, id string, input UpdateMetadataInput) (bool, error) {
	rec, err := s.idx.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}

	shot := fromRecord(*rec)
	shot.CompanyName = strings.TrimSpace(input.CompanyName)
	shot.ProductCategory = strings.TrimSpace(input.ProductCategory)
	shot.DescriptiveTags = CleanTags(input.DescriptiveTags)

	return s.idx.UpdateMetadata(ctx, id, toMetadata(&shot))
}
