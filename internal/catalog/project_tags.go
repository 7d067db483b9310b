package catalog

import (
	"context"
	"strings"

	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/index"
)

// UpdateProjectTags sets projectTags on every screenshot of a project and
// recomputes each one's tag aggregate. Each entity's two fields land in a
// single metadata write, so no record is ever visible with old project tags
// but a new aggregate. A partial batch failure returns the count actually
// committed; the caller may retry the remainder.
//
// Serializes with other batch mutations of the same project.
func (s *Store) UpdateProjectTags(ctx context.Context, projectName string, newProjectTags []string) (int, error) {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return 0, errors.NewInvalidRequest("project_name is required")
	}

	lock := s.projectLock(projectName)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.idx.GetAll(ctx, index.Filter{metaProjectName: projectName})
	if err != nil {
		return 0, err
	}

	cleaned := CleanTags(newProjectTags)
	updated := 0
	for _, rec := range records {
		shot := fromRecord(rec)
		shot.ProjectTags = cleaned
		ok, err := s.idx.UpdateMetadata(ctx, rec.ID, toMetadata(&shot))
		if err != nil {
			return updated, err
		}
		if ok {
			updated++
		}
	}
	return updated, nil
}
