package catalog

import (
	"sync"

	"github.com/screendex/screendex/internal/config"
	"github.com/screendex/screendex/internal/index"
)

// Store is the catalog over an embedding index. Retrieval methods are safe
// for concurrent use; multi-entity mutations (UpdateProjectTags,
// DeleteProject) serialize per project name so the project-tag uniformity
// invariant can't be violated by interleaved writers.
type Store struct {
	idx         index.Index
	cfg         *config.Config
	storageRoot string

	mu       sync.Mutex
	projects map[string]*sync.Mutex
}

// NewStore creates a Store. storageRoot is the directory holding per-project
// screenshot folders; DeleteProject removes its project subdirectory.
func NewStore(idx index.Index, cfg *config.Config, storageRoot string) *Store {
	return &Store{
		idx:         idx,
		cfg:         cfg,
		storageRoot: storageRoot,
		projects:    make(map[string]*sync.Mutex),
	}
}

// projectLock returns the mutex serializing batch mutations for one project.
func (s *Store) projectLock(projectName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.projects[projectName]
	if !ok {
		m = &sync.Mutex{}
		s.projects[projectName] = m
	}
	return m
}
