package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/screendex/screendex/internal/catalog"
	"github.com/screendex/screendex/internal/errors"
	"github.com/screendex/screendex/internal/extract"
	"github.com/screendex/screendex/internal/vision"
)

// Start runs a tagging batch over the given screenshot files. The call is
// synchronous: it returns once every image has been through the model and
// the batch is ready for review. Model calls are sequential with a
// configurable delay between them; cancelling ctx aborts between calls,
// never mid-call.
//
// Unsupported file formats are skipped, not failed. A batch with no
// supported files is an INVALID_REQUEST.
func (p *Pipeline) Start(ctx context.Context, projectName string, filePaths []string) (*Batch, error) {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return nil, errors.NewInvalidRequest("projectName is required")
	}

	var supported, skipped []string
	for _, path := range filePaths {
		if vision.IsSupportedImage(path) {
			supported = append(supported, path)
		} else {
			skipped = append(skipped, path)
		}
	}
	if len(supported) == 0 {
		return nil, errors.NewInvalidRequest("no supported image files in batch")
	}

	b := &Batch{
		ID:          newBatchID(),
		ProjectName: projectName,
		State:       StatePendingProjectTags,
		Skipped:     skipped,
		CreatedAt:   time.Now().UTC(),
	}
	p.mu.Lock()
	p.batches[b.ID] = b
	p.mu.Unlock()

	projectTags := p.generateProjectTags(ctx, projectName, supported)
	p.mu.Lock()
	b.ProjectTags = projectTags
	b.State = StatePendingImageTags
	p.mu.Unlock()

	for i, path := range supported {
		item := p.tagImage(ctx, path, projectTags)
		p.mu.Lock()
		b.Items = append(b.Items, item)
		p.mu.Unlock()

		// Pace the model, but not after the final image.
		if i < len(supported)-1 {
			if err := p.pace(ctx); err != nil {
				return nil, err
			}
		}
	}

	p.mu.Lock()
	b.State = StateReadyForReview
	p.mu.Unlock()
	return p.Get(b.ID)
}

// generateProjectTags asks the model for project-wide tags from a sample of
// the batch. Any failure falls back to tags derived from the project name;
// a batch never proceeds without project tags.
func (p *Pipeline) generateProjectTags(ctx context.Context, projectName string, paths []string) []string {
	sample := paths
	if n := p.cfg.ProjectTagSampleSize; n > 0 && len(sample) > n {
		sample = sample[:n]
	}

	var images []vision.Image
	for _, path := range sample {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		images = append(images, vision.Image{Kind: vision.GuessKind(path), Data: data})
	}
	if len(images) == 0 {
		return fallbackProjectTags(projectName)
	}

	text, err := p.vision.Generate(ctx, vision.Request{
		Prompt: vision.ProjectTagsPrompt(projectName),
		Images: images,
	})
	if err != nil {
		return fallbackProjectTags(projectName)
	}
	tags := catalog.CleanTags(extract.ProjectTags(text))
	if len(tags) == 0 {
		return fallbackProjectTags(projectName)
	}
	return capTags(tags, p.cfg.MaxProjectTags)
}

// tagImage runs the per-image model pass. Failures degrade to an empty
// record with a note rather than failing the batch.
func (p *Pipeline) tagImage(ctx context.Context, path string, projectTags []string) Item {
	item := Item{FilePath: path}

	data, err := os.ReadFile(path)
	if err != nil {
		item.Note = fmt.Sprintf("read failed: %v", err)
		return item
	}

	text, err := p.vision.Generate(ctx, vision.Request{
		Prompt: vision.ImageTagsPrompt(projectTags, p.cfg.TagVocabulary),
		Images: []vision.Image{{Kind: vision.GuessKind(path), Data: data}},
	})
	if err != nil {
		item.Note = fmt.Sprintf("vision call failed: %v", err)
		return item
	}

	rec := extract.ImageData(text)
	if rec.Empty() {
		item.Note = "no structured data in model output"
		return item
	}
	if rec.ProductCategory != "" {
		rec.ProductCategory, _ = p.norm.Normalize(rec.ProductCategory)
	}
	rec.DescriptiveTags = capTags(catalog.CleanTags(rec.DescriptiveTags), p.cfg.MaxTagsPerImage)
	item.Image = rec
	return item
}

func (p *Pipeline) pace(ctx context.Context) error {
	delay := time.Duration(p.cfg.PacingDelayMS) * time.Millisecond
	if delay <= 0 {
		return nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fallbackProjectTags derives usable tags from the project name alone:
// the name with separators spaced out, plus two generic UI tags.
func fallbackProjectTags(projectName string) []string {
	slug := strings.ToLower(projectName)
	slug = strings.ReplaceAll(slug, "_", " ")
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = strings.Join(strings.Fields(slug), " ")
	return catalog.CleanTags([]string{slug, "ui design", "interface"})
}

func capTags(tags []string, max int) []string {
	if max > 0 && len(tags) > max {
		return tags[:max]
	}
	return tags
}
