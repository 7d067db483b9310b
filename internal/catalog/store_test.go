package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screendex/screendex/internal/config"
	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/extract"
	"github.com/screendex/screendex/internal/index"
)

// testStore builds a Store over a real SQLite index in a temp dir. The
// returned storage root is where test image files live, one subdirectory
// per project.
func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	idx, err := index.Open(t.TempDir(), index.NewHashEmbedder(128))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	storageRoot := t.TempDir()
	return NewStore(idx, config.DefaultConfig(), storageRoot), storageRoot
}

// writeImage creates a fake image file under root/project and returns its
// path. Content doubles as the embedding input in tests.
func writeImage(t *testing.T, root, project, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, project)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func ingest(t *testing.T, s *Store, root, project, name, content string, projectTags []string, img extract.ImageRecord) string {
	t.Helper()
	path := writeImage(t, root, project, name, content)
	id, err := s.Create(context.Background(), CreateInput{
		FilePath:    path,
		ProjectName: project,
		ProjectTags: projectTags,
		Image:       img,
		ImageBytes:  []byte(content),
	})
	require.NoError(t, err)
	return id
}

func TestCreate_DeterministicID(t *testing.T) {
	s, root := testStore(t)

	id := ingest(t, s, root, "banking", "login.png", "login screen", nil, extract.ImageRecord{})

	assert.Equal(t, "banking_login.png", id)
}

func TestCreate_DuplicateRejected(t *testing.T) {
	s, root := testStore(t)
	ctx := context.Background()

	path := writeImage(t, root, "banking", "login.png", "login screen")
	_, err := s.Create(ctx, CreateInput{FilePath: path, ProjectName: "banking", ImageBytes: []byte("x")})
	require.NoError(t, err)

	_, err = s.Create(ctx, CreateInput{FilePath: path, ProjectName: "banking", ImageBytes: []byte("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDuplicateEntity))

	// Same inputs with Overwrite set is an upsert, also the recovery path
	// for a crash between persistence and embedding registration.
	_, err = s.Create(ctx, CreateInput{FilePath: path, ProjectName: "banking", ImageBytes: []byte("x"), Overwrite: true})
	require.NoError(t, err)
}

func TestCreate_AllTagsIsUnion(t *testing.T) {
	s, root := testStore(t)

	id := ingest(t, s, root, "banking", "login.png", "login screen",
		[]string{"dark mode", "mobile first"},
		extract.ImageRecord{DescriptiveTags: []string{"login screen", "dark mode"}})

	shot, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, UnionTags(shot.ProjectTags, shot.DescriptiveTags), shot.AllTags)
	assert.ElementsMatch(t, []string{"dark mode", "mobile first", "login screen"}, shot.AllTags)
}

func TestCreate_Validation(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateInput{FilePath: "x.png"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = s.Create(ctx, CreateInput{ProjectName: "p"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestGet_NotFound(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUpdateMetadata_RoundTrip(t *testing.T) {
	s, root := testStore(t)
	ctx := context.Background()

	id := ingest(t, s, root, "banking", "login.png", "login screen",
		[]string{"mobile first"}, extract.ImageRecord{DescriptiveTags: []string{"old tag"}})

	ok, err := s.UpdateMetadata(ctx, id, UpdateMetadataInput{
		CompanyName:     "Chase Bank",
		ProductCategory: "mobile banking app",
		DescriptiveTags: []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.True(t, ok)

	shot, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Chase Bank", shot.CompanyName)
	assert.Equal(t, "mobile banking app", shot.ProductCategory)
	assert.ElementsMatch(t, []string{"a", "b"}, shot.DescriptiveTags)
	// Aggregate recomputed from existing project tags and new descriptive tags
	assert.Equal(t, UnionTags(shot.ProjectTags, shot.DescriptiveTags), shot.AllTags)
	assert.Subset(t, shot.AllTags, []string{"a", "b", "mobile first"})
	assert.NotContains(t, shot.AllTags, "old tag")
}

func TestUpdateMetadata_UnknownIDReturnsFalse(t *testing.T) {
	s, _ := testStore(t)

	ok, err := s.UpdateMetadata(context.Background(), "missing", UpdateMetadataInput{CompanyName: "X"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateProjectTags_UniformAcrossProject(t *testing.T) {
	s, root := testStore(t)
	ctx := context.Background()

	ingest(t, s, root, "banking", "a.png", "one", []string{"old"}, extract.ImageRecord{DescriptiveTags: []string{"t1"}})
	ingest(t, s, root, "banking", "b.png", "two", []string{"old"}, extract.ImageRecord{DescriptiveTags: []string{"t2"}})
	ingest(t, s, root, "other", "c.png", "three", []string{"keep"}, extract.ImageRecord{})

	updated, err := s.UpdateProjectTags(ctx, "banking", []string{"new tag", "shared"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	shots, err := s.ListAll(ctx)
	require.NoError(t, err)
	for _, shot := range shots {
		if shot.ProjectName == "banking" {
			assert.Equal(t, []string{"new tag", "shared"}, shot.ProjectTags)
			assert.Equal(t, UnionTags(shot.ProjectTags, shot.DescriptiveTags), shot.AllTags)
		} else {
			assert.Equal(t, []string{"keep"}, shot.ProjectTags)
		}
	}
}

func TestUpdateProjectTags_EmptyProjectName(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.UpdateProjectTags(context.Background(), "  ", []string{"x"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestDelete_RemovesRecordAndFile(t *testing.T) {
	s, root := testStore(t)
	ctx := context.Background()

	id := ingest(t, s, root, "banking", "login.png", "login screen", nil, extract.ImageRecord{})
	path := filepath.Join(root, "banking", "login.png")

	removed, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = s.Get(ctx, id)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDelete_MissingFileTolerated(t *testing.T) {
	s, root := testStore(t)
	ctx := context.Background()

	id := ingest(t, s, root, "banking", "login.png", "login screen", nil, extract.ImageRecord{})
	require.NoError(t, os.Remove(filepath.Join(root, "banking", "login.png")))

	removed, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestDelete_AbsentRecordReturnsFalse(t *testing.T) {
	s, _ := testStore(t)

	removed, err := s.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDeleteProject(t *testing.T) {
	s, root := testStore(t)
	ctx := context.Background()

	ingest(t, s, root, "banking", "a.png", "one", nil, extract.ImageRecord{})
	ingest(t, s, root, "banking", "b.png", "two", nil, extract.ImageRecord{})
	ingest(t, s, root, "other", "c.png", "three", nil, extract.ImageRecord{})

	before, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, before.TotalProjects)

	deleted, err := s.DeleteProject(ctx, "banking")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	shots, err := s.ListAll(ctx)
	require.NoError(t, err)
	for _, shot := range shots {
		assert.NotEqual(t, "banking", shot.ProjectName)
	}

	after, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, after.TotalProjects)
	assert.Equal(t, []string{"other"}, after.ProjectNames)

	_, statErr := os.Stat(filepath.Join(root, "banking"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStats_DerivedFromRecords(t *testing.T) {
	s, root := testStore(t)
	ctx := context.Background()

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalImages)
	assert.Equal(t, 0, stats.TotalProjects)

	ingest(t, s, root, "banking", "a.png", "one", nil, extract.ImageRecord{})
	ingest(t, s, root, "banking", "b.png", "two", nil, extract.ImageRecord{})

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalImages)
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, []string{"banking"}, stats.ProjectNames)
}

func TestDistinct(t *testing.T) {
	s, root := testStore(t)

	ingest(t, s, root, "p", "a.png", "one", nil,
		extract.ImageRecord{CompanyName: "Chase Bank", ProductCategory: "mobile banking app"})
	ingest(t, s, root, "p", "b.png", "two", nil,
		extract.ImageRecord{CompanyName: "Acme", ProductCategory: "mobile banking app"})
	ingest(t, s, root, "p", "c.png", "three", nil, extract.ImageRecord{})

	distinct, err := s.Distinct(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Chase Bank"}, distinct.Companies)
	assert.Equal(t, []string{"mobile banking app"}, distinct.Categories)
}
