// Package services binds the HTTP resource clients to the query cache: every
// read goes through a cache key, every write through an optimistic mutation.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
)

// Cache entity names.
const (
	EntitySermons       = "sermons"
	EntityEvents        = "events"
	EntityRegistrations = "registrations"
	EntityAnnouncements = "announcements"
	EntityGallery       = "gallery"
	EntityMinistries    = "ministries"
	EntityServiceTimes  = "servicetimes"
)

// Form is what an admin submits: the entity fields plus an optional file
// picked for its media field.
type Form[T any] struct {
	Item  T
	Media *upload.Machine
}

func (f Form[T]) hasFile() bool {
	if f.Media == nil {
		return false
	}
	_, ok := f.Media.File()
	return ok
}

// reject raises one notification per failed field category and returns
// err unchanged.
func reject(r *mutation.Runner, err error) error {
	if verr, ok := models.AsValidation(err); ok {
		for _, f := range verr.Fields {
			r.Notifier().Error(f.Message())
		}
		return err
	}
	r.Notifier().Error(err.Error())
	return err
}

// check validates item. Media fields are not required when a file has been
// selected to fill them.
func check(item any, fileSelected bool, mediaFields ...string) error {
	err := models.Validate(item)
	if err == nil {
		return nil
	}
	verr, ok := models.AsValidation(err)
	if !ok {
		return err
	}
	if fileSelected {
		return verr.Without(mediaFields...).OrNil()
	}
	return verr
}

// keysOf lists the cached or previously read keys of entity, plus extra.
func keysOf(qc *cache.QueryClient, entity string, extra ...cache.Key) []cache.Key {
	keys := qc.KeysOf(entity)
	for _, k := range extra {
		found := false
		for _, have := range keys {
			if have == k {
				found = true
				break
			}
		}
		if !found {
			keys = append(keys, k)
		}
	}
	return keys
}

func list[T any](ctx context.Context, r *mutation.Runner, key cache.Key, fetch func(ctx context.Context) ([]T, error)) (cache.Result[[]T], error) {
	res, err := cache.Query(ctx, r.Cache(), key, fetch)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", key.Entity, err)
	}
	return res, nil
}
