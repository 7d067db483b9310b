package catalog

import (
	"context"
	"strings"

	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/extract"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	FilePath    string // backing image file; base name feeds the ID
	ProjectName string // required
	ProjectTags []string
	Image       extract.ImageRecord // per-image structured data; fields may be empty
	ImageBytes  []byte              // embedding input for the index
	Overwrite   bool                // replace an existing record instead of failing
}

// Create ingests a screenshot: derives the deterministic ID, materializes
// the tag aggregate, and registers the record plus its embedding with the
// index in one upsert. Re-running with the same inputs is idempotent, which
// makes a crash between persistence and embedding registration recoverable
// by re-ingesting that ID.
//
// An existing ID fails with DUPLICATE_ENTITY unless Overwrite is set.
func (s *Store) Create(ctx context.Context, input CreateInput) (string, error) {
	projectName := strings.TrimSpace(input.ProjectName)
	if projectName == "" {
		return "", errors.NewInvalidRequest("project_name is required")
	}
	if strings.TrimSpace(input.FilePath) == "" {
		return "", errors.NewInvalidRequest("file_path is required")
	}

	id := ScreenshotID(projectName, input.FilePath)

	if !input.Overwrite {
		existing, err := s.idx.Get(ctx, id)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return "", errors.NewDuplicateEntity(id)
		}
	}

	shot := &Screenshot{
		ID:              id,
		FilePath:        input.FilePath,
		ProjectName:     projectName,
		CompanyName:     strings.TrimSpace(input.Image.CompanyName),
		ProductCategory: strings.TrimSpace(input.Image.ProductCategory),
		ProjectTags:     CleanTags(input.ProjectTags),
		DescriptiveTags: CleanTags(input.Image.DescriptiveTags),
	}

	if err := s.idx.Upsert(ctx, id, input.ImageBytes, toMetadata(shot)); err != nil {
		return "", err
	}
	return id, nil
}
