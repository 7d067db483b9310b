package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/index"
)

// Delete removes a screenshot: the index record (embedding included) first,
// the backing file second. Removing searchable state before the file means a
// crash mid-operation never leaves a queryable record pointing at a missing
// file. A file that is already gone is success; a record that is already
// gone returns false.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	rec, err := s.idx.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	filePath := rec.Metadata[metaFilePath]

	removed, err := s.idx.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if !removed {
		// Concurrent delete won the race; non-fatal.
		return false, nil
	}

	if filePath != "" {
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			return true, errors.NewInternal(err)
		}
	}
	return true, nil
}

// DeleteProject removes every screenshot of a project, then the project's
// storage directory. Returns the number of catalog records removed.
//
// Serializes with other batch mutations of the same project.
func (s *Store) DeleteProject(ctx context.Context, projectName string) (int, error) {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return 0, errors.NewInvalidRequest("project_name is required")
	}

	lock := s.projectLock(projectName)
	lock.Lock()
	defer lock.Unlock()

	deleted, err := s.idx.DeleteWhere(ctx, index.Filter{metaProjectName: projectName})
	if err != nil {
		return deleted, err
	}

	if s.storageRoot != "" {
		projectDir := filepath.Join(s.storageRoot, projectName)
		if err := os.RemoveAll(projectDir); err != nil {
			return deleted, errors.NewInternal(err)
		}
	}
	return deleted, nil
}
