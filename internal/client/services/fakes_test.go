package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/notify"
	"github.com/dmitrijs2005/ministrysync/internal/logging"
)

// fakeResource is an in-memory backend collection.
type fakeResource[T models.Identifiable] struct {
	mu      sync.Mutex
	items   []T
	seq     int
	calls   int
	err     error
	setID   func(T, string) T
	onWrite func(T)
}

func (f *fakeResource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]T(nil), f.items...), nil
}

func (f *fakeResource[T]) Get(ctx context.Context, id string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, it := range f.items {
		if it.GetID() == id {
			return it, nil
		}
	}
	var zero T
	return zero, &client.APIError{Status: 404, Message: "Not found"}
}

func (f *fakeResource[T]) Create(ctx context.Context, item T) (T, error) {
	if f.onWrite != nil {
		f.onWrite(item)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	f.seq++
	item = f.setID(item, fmt.Sprintf("srv-%d", f.seq))
	f.items = append([]T{item}, f.items...)
	return item, nil
}

func (f *fakeResource[T]) Update(ctx context.Context, id string, item T) (T, error) {
	if f.onWrite != nil {
		f.onWrite(item)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		var zero T
		return zero, f.err
	}
	item = f.setID(item, id)
	f.items = mutation.ReplaceByID(f.items, id, item)
	return item, nil
}

func (f *fakeResource[T]) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.items = mutation.RemoveByID(f.items, id)
	return nil
}

func (f *fakeResource[T]) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSermons struct {
	*fakeResource[models.Sermon]
}

func newFakeSermons(items ...models.Sermon) *fakeSermons {
	return &fakeSermons{&fakeResource[models.Sermon]{
		items: items,
		setID: func(s models.Sermon, id string) models.Sermon {
			s.ID, s.Optimistic, s.Updating = id, false, false
			return s
		},
	}}
}

func (f *fakeSermons) All(ctx context.Context) ([]models.Sermon, error) {
	return f.List(ctx, nil)
}

func (f *fakeSermons) Featured(ctx context.Context) ([]models.Sermon, error) {
	all, err := f.List(ctx, nil)
	var out []models.Sermon
	for _, s := range all {
		if s.Featured {
			out = append(out, s)
		}
	}
	return out, err
}

func (f *fakeSermons) AddComment(ctx context.Context, sermonID string, c models.Comment) (models.Sermon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return models.Sermon{}, f.err
	}
	for i, s := range f.items {
		if s.ID == sermonID {
			f.seq++
			c.ID = fmt.Sprintf("c-%d", f.seq)
			s.Comments = append(s.Comments, c)
			f.items[i] = s
			return s, nil
		}
	}
	return models.Sermon{}, &client.APIError{Status: 404, Message: "Sermon not found"}
}

func (f *fakeSermons) DeleteComment(ctx context.Context, sermonID, commentID string) (models.Sermon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for i, s := range f.items {
		if s.ID == sermonID {
			s.Comments = mutation.RemoveByID(s.Comments, commentID)
			f.items[i] = s
			return s, nil
		}
	}
	return models.Sermon{}, &client.APIError{Status: 404, Message: "Sermon not found"}
}

type fakeEvents struct {
	*fakeResource[models.Event]
}

func newFakeEvents(items ...models.Event) *fakeEvents {
	return &fakeEvents{&fakeResource[models.Event]{
		items: items,
		setID: func(e models.Event, id string) models.Event {
			e.ID, e.Optimistic, e.Updating = id, false, false
			return e
		},
	}}
}

func (f *fakeEvents) Upcoming(ctx context.Context) ([]models.Event, error) {
	return f.List(ctx, nil)
}

// register bumps the attendee count the way the backend does.
func (f *fakeEvents) register(eventID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.items {
		if e.ID == eventID {
			e.Registrations++
			f.items[i] = e
		}
	}
}

type fakeRegistrations struct {
	*fakeResource[models.Registration]
}

func newFakeRegistrations(events *fakeEvents) *fakeRegistrations {
	r := &fakeRegistrations{&fakeResource[models.Registration]{
		setID: func(r models.Registration, id string) models.Registration {
			r.ID, r.Optimistic = id, false
			if r.Status == "" {
				r.Status = models.StatusPending
			}
			return r
		},
	}}
	if events != nil {
		r.onWrite = func(reg models.Registration) { events.register(reg.EventID) }
	}
	return r
}

func (f *fakeRegistrations) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) (models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return models.Registration{}, f.err
	}
	for i, r := range f.items {
		if r.ID == id {
			r.Status = status
			f.items[i] = r
			return r, nil
		}
	}
	return models.Registration{}, &client.APIError{Status: 404, Message: "Registration not found"}
}

type fakeMedia struct {
	mu       sync.Mutex
	err      error
	uploads  []string
	deleted  []string
	sequence int
}

func (f *fakeMedia) Upload(ctx context.Context, kind models.MediaKind, name string, r io.Reader) (models.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.Copy(io.Discard, r); err != nil {
		return models.Media{}, err
	}
	f.uploads = append(f.uploads, name)
	if f.err != nil {
		return models.Media{}, f.err
	}
	f.sequence++
	id := fmt.Sprintf("%s-%d", kind, f.sequence)
	return models.Media{URL: "https://cdn.example.org/" + id, PublicID: id}, nil
}

func (f *fakeMedia) Delete(ctx context.Context, kind models.MediaKind, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, handle)
	return nil
}

func newTestRunner(t *testing.T) (*mutation.Runner, *notify.Recorder) {
	t.Helper()
	qc := cache.NewQueryClient(cache.NewLRUStore(64, time.Hour),
		cache.WithRetries(0, 0),
		cache.WithStaleTime(time.Minute))
	t.Cleanup(qc.Close)
	rec := &notify.Recorder{}
	return mutation.NewRunner(qc, rec, logging.Nop()), rec
}

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	mp3Bytes = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...)
)
