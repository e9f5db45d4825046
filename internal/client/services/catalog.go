package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
)

// CatalogItem is a simple image-bearing entity: announcements, gallery
// images, ministries and service times.
type CatalogItem[T any] interface {
	mediaItem[T]
	AsProvisional(id string, at time.Time) T
}

// CatalogService is the list-and-edit surface shared by the catalog
// entities.
type CatalogService[T CatalogItem[T]] interface {
	List(ctx context.Context) (cache.Result[[]T], error)
	Create(ctx context.Context, form Form[T]) (T, error)
	Update(ctx context.Context, form Form[T]) (T, error)
	Delete(ctx context.Context, item T) error
}

type catalogService[T CatalogItem[T]] struct {
	entity string
	noun   string
	// imageField is the JSON name of the image URL, satisfied by a
	// selected file.
	imageField string
	api        client.Resource[T]
	media      upload.MediaStore
	r          *mutation.Runner
}

func newCatalogService[T CatalogItem[T]](entity, noun, imageField string, api client.Resource[T], media upload.MediaStore, r *mutation.Runner) CatalogService[T] {
	return &catalogService[T]{entity: entity, noun: noun, imageField: imageField, api: api, media: media, r: r}
}

func NewAnnouncementService(api client.Resource[models.Announcement], media upload.MediaStore, r *mutation.Runner) CatalogService[models.Announcement] {
	return newCatalogService(EntityAnnouncements, "announcement", "image", api, media, r)
}

func NewGalleryService(api client.Resource[models.GalleryImage], media upload.MediaStore, r *mutation.Runner) CatalogService[models.GalleryImage] {
	return newCatalogService(EntityGallery, "gallery image", "imageUrl", api, media, r)
}

func NewMinistryService(api client.Resource[models.Ministry], media upload.MediaStore, r *mutation.Runner) CatalogService[models.Ministry] {
	return newCatalogService(EntityMinistries, "ministry", "image", api, media, r)
}

func NewServiceTimeService(api client.Resource[models.ServiceTime], media upload.MediaStore, r *mutation.Runner) CatalogService[models.ServiceTime] {
	return newCatalogService(EntityServiceTimes, "service time", "image", api, media, r)
}

func CatalogListKey(entity string) cache.Key {
	return cache.NewKey(entity, "list")
}

func (s *catalogService[T]) List(ctx context.Context) (cache.Result[[]T], error) {
	return list(ctx, s.r, CatalogListKey(s.entity), func(ctx context.Context) ([]T, error) {
		return s.api.List(ctx, nil)
	})
}

func (s *catalogService[T]) Create(ctx context.Context, form Form[T]) (T, error) {
	var zero T
	if err := check(form.Item, form.hasFile(), s.imageField); err != nil {
		return zero, reject(s.r, err)
	}

	payload := form.Item.AsProvisional("", time.Time{})
	provisional := form.Item.AsProvisional(mutation.TempID(), s.r.Now())

	m := mutation.Optimistic[[]T, T, T]{
		Name: "create-" + s.entity,
		Keys: []cache.Key{CatalogListKey(s.entity)},
		Apply: func(old []T, v T) []T {
			return mutation.Prepend(old, v)
		},
		Reconcile: func(cur []T, v T, res T) []T {
			return mutation.ReplaceByID(cur, v.GetID(), res)
		},
		Mutate: func(ctx context.Context, _ T) (T, error) {
			return createWithMedia(ctx, s.media, s.r, form, payload, s.api.Create)
		},
		SuccessMessage: capitalize(s.noun) + " created successfully",
		ErrorMessage:   failure("create " + s.noun),
	}
	return mutation.Run(ctx, s.r, m, provisional)
}

func (s *catalogService[T]) Update(ctx context.Context, form Form[T]) (T, error) {
	var zero T
	if form.Item.GetID() == "" {
		return zero, client.ErrNotFound
	}
	if err := check(form.Item, form.hasFile(), s.imageField); err != nil {
		return zero, reject(s.r, err)
	}

	m := mutation.Optimistic[[]T, T, T]{
		Name: "update-" + s.entity,
		Keys: keysOf(s.r.Cache(), s.entity),
		Apply: func(old []T, v T) []T {
			return mutation.ReplaceByID(old, v.GetID(), v)
		},
		Reconcile: func(cur []T, v T, res T) []T {
			return mutation.ReplaceByID(cur, v.GetID(), res)
		},
		Mutate: func(ctx context.Context, v T) (T, error) {
			return updateWithMedia(ctx, s.media, s.r, form, v, s.api.Update)
		},
		SuccessMessage: capitalize(s.noun) + " updated successfully",
		ErrorMessage:   failure("update " + s.noun),
	}
	return mutation.Run(ctx, s.r, m, form.Item)
}

func (s *catalogService[T]) Delete(ctx context.Context, item T) error {
	m := mutation.Optimistic[[]T, string, struct{}]{
		Name: "delete-" + s.entity,
		Keys: keysOf(s.r.Cache(), s.entity),
		Apply: func(old []T, id string) []T {
			return mutation.RemoveByID(old, id)
		},
		Mutate: func(ctx context.Context, _ string) (struct{}, error) {
			return struct{}{}, deleteWithMedia(ctx, s.media, s.r, item, models.MediaImage, s.api.Delete)
		},
		SuccessMessage: capitalize(s.noun) + " deleted successfully",
		ErrorMessage:   failure("delete " + s.noun),
	}
	_, err := mutation.Run(ctx, s.r, m, item.GetID())
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
