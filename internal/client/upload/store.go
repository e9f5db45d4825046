package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/logging"
)

// MediaStore persists uploaded assets. The handle returned in
// Media.PublicID is what Delete expects.
type MediaStore interface {
	Upload(ctx context.Context, kind models.MediaKind, name string, r io.Reader) (models.Media, error)
	Delete(ctx context.Context, kind models.MediaKind, handle string) error
}

// HTTPStore stores assets through the backend upload endpoints.
type HTTPStore struct {
	api client.UploadAPI
}

func NewHTTPStore(api client.UploadAPI) *HTTPStore {
	return &HTTPStore{api: api}
}

func (s *HTTPStore) Upload(ctx context.Context, kind models.MediaKind, name string, r io.Reader) (models.Media, error) {
	return s.api.Upload(ctx, kind, name, r)
}

func (s *HTTPStore) Delete(ctx context.Context, kind models.MediaKind, handle string) error {
	if kind == models.MediaImage {
		return s.api.DeleteImage(ctx, handle)
	}
	return s.api.DeleteMedia(ctx, kind, handle)
}

// Replace uploads the machine's selection and hands it to save. Once save
// succeeds the previous asset is removed; if save fails the new asset is
// removed instead. Removal failures are only logged.
func Replace(ctx context.Context, m *Machine, store MediaStore, log logging.Logger, old models.Media, save func(ctx context.Context, media models.Media) error) (models.Media, error) {
	f, ok := m.File()
	if !ok {
		return models.Media{}, fmt.Errorf("%w: no file selected", ErrInvalidTransition)
	}

	media, err := m.Upload(ctx, store)
	if err != nil {
		return models.Media{}, err
	}

	if err := save(ctx, media); err != nil {
		Discard(ctx, store, log, f.Kind, media)
		return models.Media{}, err
	}

	if old.PublicID != "" && old.PublicID != media.PublicID {
		Discard(ctx, store, log, f.Kind, old)
	}
	return media, nil
}

// Discard deletes an asset no entity references any more, best effort.
func Discard(ctx context.Context, store MediaStore, log logging.Logger, kind models.MediaKind, media models.Media) {
	if media.PublicID == "" {
		return
	}
	if err := store.Delete(ctx, kind, media.PublicID); err != nil {
		log.Warn(ctx, "failed to delete media", "kind", kind, "handle", media.PublicID, "err", err)
		return
	}
	log.Debug(ctx, "media deleted", "kind", kind, "handle", media.PublicID)
}
