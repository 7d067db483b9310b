// Package pipeline stages vision-driven tagging runs. A run walks a
// project's screenshots through two model passes (shared project tags,
// then per-image structured data), holds the results for review, and only
// writes to the catalog on an explicit commit.
package pipeline

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/screendex/screendex/internal/catalog"
	"github.com/screendex/screendex/internal/config"
	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/extract"
	"github.com/screendex/screendex/internal/normalize"
	"github.com/screendex/screendex/internal/vision"
)

// State is a batch lifecycle stage.
type State string

const (
	StatePendingProjectTags State = "pending_project_tags"
	StatePendingImageTags   State = "pending_image_tags"
	StateReadyForReview     State = "ready_for_review"
	StateCommitted          State = "committed"
	StateCancelled          State = "cancelled"
)

// Item is one screenshot's staged tagging result. A failed model call or
// unreadable file leaves Image empty and records why in Note; the item is
// still valid for review, where the gaps get filled by hand or block the
// commit.
type Item struct {
	FilePath string              `json:"file_path"`
	Image    extract.ImageRecord `json:"image"`
	Note     string              `json:"note,omitempty"`
}

// Batch is one staged tagging run over a project.
type Batch struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	State       State     `json:"state"`
	ProjectTags []string  `json:"project_tags"`
	Items       []Item    `json:"items"`
	Skipped     []string  `json:"skipped,omitempty"` // unsupported formats, not tagged
	CreatedAt   time.Time `json:"created_at"`
}

// Pipeline runs tagging batches and holds them until commit or cancel.
// Staged batches live in memory only; a restart discards them.
type Pipeline struct {
	vision vision.Client
	norm   *normalize.Normalizer
	store  *catalog.Store
	cfg    *config.Config

	mu      sync.Mutex
	batches map[string]*Batch
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(client vision.Client, norm *normalize.Normalizer, store *catalog.Store, cfg *config.Config) *Pipeline {
	return &Pipeline{
		vision:  client,
		norm:    norm,
		store:   store,
		cfg:     cfg,
		batches: make(map[string]*Batch),
	}
}

// Get returns a snapshot of the batch, or a NOT_FOUND error.
func (p *Pipeline) Get(batchID string) (*Batch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.batches[batchID]
	if !ok {
		return nil, errors.NewNotFound(batchID)
	}
	return snapshot(b), nil
}

// List returns snapshots of all known batches, newest first.
func (p *Pipeline) List() []*Batch {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*Batch, 0, len(p.batches))
	for _, b := range p.batches {
		out = append(out, snapshot(b))
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func snapshot(b *Batch) *Batch {
	cp := *b
	cp.ProjectTags = append([]string(nil), b.ProjectTags...)
	cp.Items = append([]Item(nil), b.Items...)
	cp.Skipped = append([]string(nil), b.Skipped...)
	return &cp
}

func newBatchID() string {
	return ulid.Make().String()
}
