package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

// Collection is the CRUD resource rooted at one REST path.
type Collection[T models.Identifiable] struct {
	c    *HTTPClient
	path string
}

func NewCollection[T models.Identifiable](c *HTTPClient, path string) *Collection[T] {
	return &Collection[T]{c: c, path: path}
}

func (r *Collection[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Collection[T]) list(ctx context.Context, path string, query url.Values) ([]T, error) {
	var items []T
	if err := r.c.doJSON(ctx, http.MethodGet, path, query, nil, &items); err != nil {
		return nil, err
	}
	return keepValid(ctx, r.c.log, path, items), nil
}

func (r *Collection[T]) one(ctx context.Context, method, path string, body any) (T, error) {
	var item T
	if err := r.c.doJSON(ctx, method, path, nil, body, &item); err != nil {
		var zero T
		return zero, err
	}
	if err := checkEntity(item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

func (r *Collection[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	return r.list(ctx, r.path, query)
}

func (r *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	return r.one(ctx, http.MethodGet, r.itemPath(id), nil)
}

// Create validates item before sending it; invalid input never reaches the
// network.
func (r *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	if err := models.Validate(item); err != nil {
		var zero T
		return zero, err
	}
	return r.one(ctx, http.MethodPost, r.path, item)
}

func (r *Collection[T]) Update(ctx context.Context, id string, item T) (T, error) {
	if err := models.Validate(item); err != nil {
		var zero T
		return zero, err
	}
	return r.one(ctx, http.MethodPut, r.itemPath(id), item)
}

func (r *Collection[T]) Delete(ctx context.Context, id string) error {
	return r.c.doJSON(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

type sermons struct {
	*Collection[models.Sermon]
}

func (s *sermons) All(ctx context.Context) ([]models.Sermon, error) {
	return s.list(ctx, s.path+"/all", nil)
}

func (s *sermons) Featured(ctx context.Context) ([]models.Sermon, error) {
	return s.list(ctx, s.path+"/featured", nil)
}

func (s *sermons) AddComment(ctx context.Context, sermonID string, c models.Comment) (models.Sermon, error) {
	if err := models.Validate(c); err != nil {
		return models.Sermon{}, err
	}
	return s.one(ctx, http.MethodPost, s.itemPath(sermonID)+"/comments", c)
}

func (s *sermons) DeleteComment(ctx context.Context, sermonID, commentID string) (models.Sermon, error) {
	return s.one(ctx, http.MethodDelete, s.itemPath(sermonID)+"/comments/"+url.PathEscape(commentID), nil)
}

type events struct {
	*Collection[models.Event]
}

func (e *events) Upcoming(ctx context.Context) ([]models.Event, error) {
	return e.list(ctx, e.path+"/upcoming", nil)
}

type registrations struct {
	*Collection[models.Registration]
}

func (r *registrations) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) (models.Registration, error) {
	body := struct {
		Status models.RegistrationStatus `json:"status"`
	}{Status: status}
	return r.one(ctx, http.MethodPatch, r.itemPath(id)+"/status", body)
}
