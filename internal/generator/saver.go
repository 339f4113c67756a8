package generator

import (
	"context"
	"fmt"

	"github.com/johnnynv/RouteScribe/internal/storage"
)

// Saver upserts items into storage by identifier
type Saver struct {
	store storage.Storage
	force bool
}

// NewSaver creates a saver. With force an update also replaces the stored
// response.
func NewSaver(store storage.Storage, force bool) *Saver {
	return &Saver{store: store, force: force}
}

// Save inserts the item or updates the record with the same identifier.
// inserted reports which of the two happened.
func (s *Saver) Save(ctx context.Context, item *Item) (doc *storage.ApiDoc, inserted bool, err error) {
	existing, err := s.store.GetDocByIdentifier(ctx, item.ID)
	switch {
	case err == nil:
		existing.Method = item.Method()
		existing.URI = item.URI
		existing.Title = item.Title
		existing.Description = item.Description
		existing.Parameters = item.Parameters
		if s.force {
			existing.Response = item.Response
		}
		if err := s.store.UpdateDoc(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update %s %s: %w", item.Method(), item.URI, err)
		}
		return existing, false, nil

	case storage.IsNotFound(err):
		doc = &storage.ApiDoc{
			Identifier:  item.ID,
			Title:       item.Title,
			Method:      item.Method(),
			URI:         item.URI,
			Description: item.Description,
			Parameters:  item.Parameters,
			Response:    item.Response,
		}
		if err := s.store.InsertDoc(ctx, doc); err != nil {
			return nil, false, fmt.Errorf("failed to insert %s %s: %w", item.Method(), item.URI, err)
		}
		return doc, true, nil

	default:
		return nil, false, fmt.Errorf("failed to look up %s: %w", item.ID, err)
	}
}
