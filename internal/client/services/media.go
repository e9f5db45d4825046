package services

import (
	"context"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
)

// mediaItem is an entity whose image is set through an upload.
type mediaItem[T any] interface {
	models.MediaOwner
	WithMedia(models.Media) T
}

// createWithMedia uploads the selected file, if any, and then saves item
// referencing it. An upload failure aborts the save.
func createWithMedia[T mediaItem[T]](ctx context.Context, store upload.MediaStore, r *mutation.Runner, form Form[T], item T, save func(context.Context, T) (T, error)) (T, error) {
	if !form.hasFile() {
		return save(ctx, item)
	}
	f, _ := form.Media.File()
	media, err := form.Media.Upload(ctx, store)
	if err != nil {
		var zero T
		return zero, err
	}
	saved, err := save(ctx, item.WithMedia(media))
	if err != nil {
		upload.Discard(ctx, store, r.Logger(), f.Kind, media)
	}
	return saved, err
}

// updateWithMedia saves item, replacing its image first when a new file is
// selected.
func updateWithMedia[T mediaItem[T]](ctx context.Context, store upload.MediaStore, r *mutation.Runner, form Form[T], item T, save func(context.Context, string, T) (T, error)) (T, error) {
	if !form.hasFile() {
		return save(ctx, item.GetID(), item)
	}
	var saved T
	_, err := upload.Replace(ctx, form.Media, store, r.Logger(), item.MediaRef(),
		func(ctx context.Context, media models.Media) error {
			var err error
			saved, err = save(ctx, item.GetID(), item.WithMedia(media))
			return err
		})
	return saved, err
}

// deleteWithMedia deletes item and then its asset, best effort.
func deleteWithMedia(ctx context.Context, store upload.MediaStore, r *mutation.Runner, item models.MediaOwner, kind models.MediaKind, del func(context.Context, string) error) error {
	if err := del(ctx, item.GetID()); err != nil {
		return err
	}
	upload.Discard(ctx, store, r.Logger(), kind, item.MediaRef())
	return nil
}
