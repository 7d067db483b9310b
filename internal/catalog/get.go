package catalog

import (
	"context"

	"github.com/screendex/screendex/internal/errors"
)

// Get retrieves a screenshot by ID. Absent IDs return a NOT_FOUND error.
func (s *Store) Get(ctx context.Context, id string) (*Screenshot, error) {
	rec, err := s.idx.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NewNotFound(id)
	}
	shot := fromRecord(*rec)
	return &shot, nil
}

// ListAll returns every screenshot in store-native order. Full scan, stable
// enough for a single render; no pagination contract.
func (s *Store) ListAll(ctx context.Context) ([]Screenshot, error) {
	records, err := s.idx.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	shots := make([]Screenshot, len(records))
	for i, rec := range records {
		shots[i] = fromRecord(rec)
	}
	return shots, nil
}
