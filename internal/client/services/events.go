package services

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
)

// EventService reads and edits events. The event image, when a file is
// selected, is uploaded before the event is saved.
type EventService interface {
	List(ctx context.Context, filter models.EventFilter) (cache.Result[[]models.Event], error)
	Upcoming(ctx context.Context) (cache.Result[[]models.Event], error)
	Get(ctx context.Context, id string) (cache.Result[models.Event], error)
	Create(ctx context.Context, form Form[models.Event]) (models.Event, error)
	Update(ctx context.Context, form Form[models.Event]) (models.Event, error)
	Delete(ctx context.Context, event models.Event) error
}

type eventService struct {
	api   client.EventAPI
	media upload.MediaStore
	r     *mutation.Runner
}

func NewEventService(api client.EventAPI, media upload.MediaStore, r *mutation.Runner) EventService {
	return &eventService{api: api, media: media, r: r}
}

func EventListKey(f models.EventFilter) cache.Key {
	return cache.NewKey(EntityEvents, "list", f.Search)
}

func EventKey(id string) cache.Key {
	return cache.NewKey(EntityEvents, "detail", id)
}

var eventsUpcomingKey = cache.NewKey(EntityEvents, "upcoming")

func (s *eventService) List(ctx context.Context, f models.EventFilter) (cache.Result[[]models.Event], error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return list(ctx, s.r, EventListKey(f), func(ctx context.Context) ([]models.Event, error) {
		return s.api.List(ctx, q)
	})
}

func (s *eventService) Upcoming(ctx context.Context) (cache.Result[[]models.Event], error) {
	return list(ctx, s.r, eventsUpcomingKey, s.api.Upcoming)
}

func (s *eventService) Get(ctx context.Context, id string) (cache.Result[models.Event], error) {
	return cache.Query(ctx, s.r.Cache(), EventKey(id), func(ctx context.Context) (models.Event, error) {
		return s.api.Get(ctx, id)
	})
}

func (s *eventService) Create(ctx context.Context, form Form[models.Event]) (models.Event, error) {
	if err := check(form.Item, form.hasFile(), "image"); err != nil {
		return models.Event{}, reject(s.r, err)
	}

	payload := form.Item
	payload.ID = ""
	provisional := payload.AsProvisional(mutation.TempID(), s.r.Now())

	m := mutation.Optimistic[[]models.Event, models.Event, models.Event]{
		Name: "create-event",
		Keys: []cache.Key{EventListKey(models.EventFilter{}), eventsUpcomingKey},
		Apply: func(old []models.Event, v models.Event) []models.Event {
			return mutation.Prepend(old, v)
		},
		Reconcile: func(cur []models.Event, v models.Event, res models.Event) []models.Event {
			return mutation.ReplaceByID(cur, v.ID, res)
		},
		Mutate: func(ctx context.Context, _ models.Event) (models.Event, error) {
			return createWithMedia(ctx, s.media, s.r, form, payload, s.api.Create)
		},
		SuccessMessage: "Event created successfully",
		ErrorMessage:   failure("create event"),
	}
	return mutation.Run(ctx, s.r, m, provisional)
}

func (s *eventService) Update(ctx context.Context, form Form[models.Event]) (models.Event, error) {
	if form.Item.ID == "" {
		return models.Event{}, client.ErrNotFound
	}
	if err := check(form.Item, form.hasFile(), "image"); err != nil {
		return models.Event{}, reject(s.r, err)
	}

	payload := form.Item
	payload.Optimistic, payload.Updating = false, false
	edited := payload
	edited.Updating = true

	m := mutation.Optimistic[[]models.Event, models.Event, models.Event]{
		Name: "update-event",
		Keys: keysOf(s.r.Cache(), EntityEvents),
		Apply: func(old []models.Event, v models.Event) []models.Event {
			return mutation.ReplaceByID(old, v.ID, v)
		},
		Reconcile: func(cur []models.Event, v models.Event, res models.Event) []models.Event {
			return mutation.ReplaceByID(cur, v.ID, res)
		},
		Mutate: func(ctx context.Context, _ models.Event) (models.Event, error) {
			return updateWithMedia(ctx, s.media, s.r, form, payload, s.api.Update)
		},
		SuccessMessage: "Event updated successfully",
		ErrorMessage:   failure("update event"),
	}
	return mutation.Run(ctx, s.r, m, edited)
}

func (s *eventService) Delete(ctx context.Context, event models.Event) error {
	m := mutation.Optimistic[[]models.Event, string, struct{}]{
		Name: "delete-event",
		Keys: keysOf(s.r.Cache(), EntityEvents),
		Apply: func(old []models.Event, id string) []models.Event {
			return mutation.RemoveByID(old, id)
		},
		Mutate: func(ctx context.Context, _ string) (struct{}, error) {
			return struct{}{}, deleteWithMedia(ctx, s.media, s.r, event, models.MediaImage, s.api.Delete)
		},
		SuccessMessage: "Event deleted successfully",
		ErrorMessage:   failure("delete event"),
	}
	_, err := mutation.Run(ctx, s.r, m, event.ID)
	return err
}
