package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/screendex/screendex/internal/catalog"
	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/extract"
)

// EditItem replaces one item's structured data during review. The batch
// must be ready for review; filePath must name an item in the batch.
func (p *Pipeline) EditItem(batchID, filePath string, rec extract.ImageRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.batches[batchID]
	if !ok {
		return errors.NewNotFound(batchID)
	}
	if b.State != StateReadyForReview {
		return errors.NewInvalidRequest(fmt.Sprintf("batch %s is %s, not ready for review", batchID, b.State))
	}
	for i := range b.Items {
		if b.Items[i].FilePath == filePath {
			rec.DescriptiveTags = catalog.CleanTags(rec.DescriptiveTags)
			b.Items[i].Image = rec
			b.Items[i].Note = ""
			return nil
		}
	}
	return errors.NewNotFound(filePath)
}

// SetProjectTags replaces the batch's project tags during review.
func (p *Pipeline) SetProjectTags(batchID string, tags []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.batches[batchID]
	if !ok {
		return errors.NewNotFound(batchID)
	}
	if b.State != StateReadyForReview {
		return errors.NewInvalidRequest(fmt.Sprintf("batch %s is %s, not ready for review", batchID, b.State))
	}
	tags = catalog.CleanTags(tags)
	if len(tags) == 0 {
		return errors.NewInvalidRequest("projectTags must not be empty")
	}
	b.ProjectTags = tags
	return nil
}

// Commit writes every staged item to the catalog and returns the created
// record IDs. The gate: every item needs a non-empty company name and
// product category, otherwise the whole commit is rejected and nothing is
// written. Committing overwrites existing records for the same IDs, so a
// re-tagging run replaces the project's previous data.
//
// On a write failure partway through, the IDs committed so far are returned
// with the error and the batch stays ready for review; re-committing is
// safe because writes are overwrites.
func (p *Pipeline) Commit(ctx context.Context, batchID string) ([]string, error) {
	p.mu.Lock()
	b, ok := p.batches[batchID]
	if !ok {
		p.mu.Unlock()
		return nil, errors.NewNotFound(batchID)
	}
	if b.State != StateReadyForReview {
		p.mu.Unlock()
		return nil, errors.NewInvalidRequest(fmt.Sprintf("batch %s is %s, not ready for review", batchID, b.State))
	}

	var incomplete []string
	for _, item := range b.Items {
		if strings.TrimSpace(item.Image.CompanyName) == "" || strings.TrimSpace(item.Image.ProductCategory) == "" {
			incomplete = append(incomplete, item.FilePath)
		}
	}
	if len(incomplete) > 0 {
		p.mu.Unlock()
		return nil, errors.NewInvalidRequest(fmt.Sprintf(
			"cannot commit: %d item(s) missing company name or product category: %s",
			len(incomplete), strings.Join(incomplete, ", ")))
	}
	snap := snapshot(b)
	p.mu.Unlock()

	var ids []string
	for _, item := range snap.Items {
		data, err := os.ReadFile(item.FilePath)
		if err != nil {
			return ids, errors.NewInternal(fmt.Errorf("read %s: %w", item.FilePath, err))
		}
		id, err := p.store.Create(ctx, catalog.CreateInput{
			FilePath:    item.FilePath,
			ProjectName: snap.ProjectName,
			ProjectTags: snap.ProjectTags,
			Image:       item.Image,
			ImageBytes:  data,
			Overwrite:   true,
		})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}

	p.mu.Lock()
	b.State = StateCommitted
	p.mu.Unlock()
	return ids, nil
}

// Cancel discards a batch's staged data. The batch record survives in the
// cancelled state so callers can still see what happened to it. Terminal
// batches cannot be cancelled.
func (p *Pipeline) Cancel(batchID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.batches[batchID]
	if !ok {
		return errors.NewNotFound(batchID)
	}
	if b.State == StateCommitted || b.State == StateCancelled {
		return errors.NewInvalidRequest(fmt.Sprintf("batch %s is already %s", batchID, b.State))
	}
	b.State = StateCancelled
	b.Items = nil
	b.ProjectTags = nil
	return nil
}
