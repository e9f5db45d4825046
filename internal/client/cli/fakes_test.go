package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/config"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/notify"
	"github.com/dmitrijs2005/ministrysync/internal/client/services"
	"github.com/dmitrijs2005/ministrysync/internal/client/session"
	"github.com/dmitrijs2005/ministrysync/internal/logging"
)

// ------------ helpers ------------

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

// captureOutput replaces printlnFn for the duration of the test.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var (
		mu  sync.Mutex
		out []string
	)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func joined(out *[]string) string {
	return strings.Join(*out, "\n")
}

type memRepo struct {
	mu sync.Mutex
	m  map[string]string
}

func (r *memRepo) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[key]
	return v, ok, nil
}

func (r *memRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		r.m = map[string]string{}
	}
	r.m[key] = value
	return nil
}

func (r *memRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, key)
	return nil
}

func (r *memRepo) List(context.Context) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.m))
	for k, v := range r.m {
		out[k] = v
	}
	return out, nil
}

func (r *memRepo) Clear(context.Context) error {
	r.mu.Lock()
	r.m = nil
	r.mu.Unlock()
	return nil
}

type testApp struct {
	*App
	sermons       *fakeSermons
	events        *fakeEvents
	registrations *fakeRegistrations
	announcements *fakeCatalog[models.Announcement]
	gallery       *fakeCatalog[models.GalleryImage]
	ministries    *fakeCatalog[models.Ministry]
	serviceTimes  *fakeCatalog[models.ServiceTime]
	contact       *fakeContact
	notes         *notify.Recorder
	store         *session.MemoryStore
}

func newTestApp(t *testing.T, lines ...string) *testApp {
	t.Helper()
	ta := &testApp{
		sermons:       &fakeSermons{},
		events:        &fakeEvents{},
		registrations: &fakeRegistrations{},
		announcements: &fakeCatalog[models.Announcement]{},
		gallery:       &fakeCatalog[models.GalleryImage]{},
		ministries:    &fakeCatalog[models.Ministry]{},
		serviceTimes:  &fakeCatalog[models.ServiceTime]{},
		contact:       &fakeContact{},
		notes:         &notify.Recorder{},
		store:         &session.MemoryStore{},
	}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ExportDir = t.TempDir()

	ta.App = &App{
		config: cfg,
		log:    logging.Nop(),
		svc: &services.Services{
			Sermons:       ta.sermons,
			Events:        ta.events,
			Registrations: ta.registrations,
			Announcements: ta.announcements,
			Gallery:       ta.gallery,
			Ministries:    ta.ministries,
			ServiceTimes:  ta.serviceTimes,
			Contact:       ta.contact,
		},
		session:  ta.store,
		banner:   session.NewBanner(&memRepo{}),
		notifier: ta.notes,
		reader:   readerFromLines(lines...),
		out:      io.Discard,
		now:      func() time.Time { return testNow },
	}
	return ta
}

func (ta *testApp) asAdmin(t *testing.T) *testApp {
	t.Helper()
	if err := ta.store.SetAdmin(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	return ta
}

func result[T any](data T) cache.Result[T] {
	return cache.Result[T]{Data: data}
}

// pop returns the first error of errs and shifts it off.
func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

// ------------ fake services ------------

type fakeSermons struct {
	items   []models.Sermon
	filter  models.SermonFilter
	comment models.Comment
	removed [2]string
}

func (f *fakeSermons) List(_ context.Context, filter models.SermonFilter) (cache.Result[[]models.Sermon], error) {
	f.filter = filter
	return result(f.items), nil
}

func (f *fakeSermons) All(context.Context) (cache.Result[[]models.Sermon], error) {
	return result(f.items), nil
}

func (f *fakeSermons) Featured(context.Context) (cache.Result[[]models.Sermon], error) {
	var out []models.Sermon
	for _, s := range f.items {
		if s.Featured {
			out = append(out, s)
		}
	}
	return result(out), nil
}

func (f *fakeSermons) Get(_ context.Context, id string) (cache.Result[models.Sermon], error) {
	for _, s := range f.items {
		if s.ID == id {
			return result(s), nil
		}
	}
	return cache.Result[models.Sermon]{}, client.ErrNotFound
}

func (f *fakeSermons) Create(_ context.Context, form services.Form[models.Sermon]) (models.Sermon, error) {
	f.items = append(f.items, form.Item)
	return form.Item, nil
}

func (f *fakeSermons) Update(_ context.Context, form services.Form[models.Sermon]) (models.Sermon, error) {
	return form.Item, nil
}

func (f *fakeSermons) Delete(context.Context, models.Sermon) error { return nil }

func (f *fakeSermons) AddComment(_ context.Context, sermonID string, c models.Comment) (models.Sermon, error) {
	f.comment = c
	return models.Sermon{ID: sermonID, Comments: []models.Comment{c}}, nil
}

func (f *fakeSermons) DeleteComment(_ context.Context, sermonID, commentID string) (models.Sermon, error) {
	f.removed = [2]string{sermonID, commentID}
	return models.Sermon{ID: sermonID}, nil
}

type fakeEvents struct {
	items []models.Event
}

func (f *fakeEvents) List(context.Context, models.EventFilter) (cache.Result[[]models.Event], error) {
	return result(f.items), nil
}

func (f *fakeEvents) Upcoming(context.Context) (cache.Result[[]models.Event], error) {
	return result(f.items), nil
}

func (f *fakeEvents) Get(_ context.Context, id string) (cache.Result[models.Event], error) {
	for _, e := range f.items {
		if e.ID == id {
			return result(e), nil
		}
	}
	return cache.Result[models.Event]{}, client.ErrNotFound
}

func (f *fakeEvents) Create(_ context.Context, form services.Form[models.Event]) (models.Event, error) {
	return form.Item, nil
}

func (f *fakeEvents) Update(_ context.Context, form services.Form[models.Event]) (models.Event, error) {
	return form.Item, nil
}

func (f *fakeEvents) Delete(context.Context, models.Event) error { return nil }

type fakeRegistrations struct {
	items   []models.Registration
	listErr error
	created []models.Registration
	status  map[string]models.RegistrationStatus
	deleted []string
}

func (f *fakeRegistrations) List(context.Context, models.RegistrationFilter) (cache.Result[[]models.Registration], error) {
	if f.listErr != nil {
		return cache.Result[[]models.Registration]{}, f.listErr
	}
	return result(f.items), nil
}

func (f *fakeRegistrations) Create(_ context.Context, reg models.Registration) (models.Registration, error) {
	f.created = append(f.created, reg)
	return reg, nil
}

func (f *fakeRegistrations) UpdateStatus(_ context.Context, id string, status models.RegistrationStatus) (models.Registration, error) {
	if f.status == nil {
		f.status = map[string]models.RegistrationStatus{}
	}
	f.status[id] = status
	return models.Registration{ID: id, Status: status}, nil
}

func (f *fakeRegistrations) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCatalog[T services.CatalogItem[T]] struct {
	items     []T
	listErrs  []error
	listCalls int
	saveErrs  []error
	created   []T
	updated   []T
	deleted   []T
	forms     []services.Form[T]
}

func (f *fakeCatalog[T]) List(context.Context) (cache.Result[[]T], error) {
	f.listCalls++
	if err := pop(&f.listErrs); err != nil {
		return cache.Result[[]T]{}, err
	}
	return result(f.items), nil
}

func (f *fakeCatalog[T]) Create(_ context.Context, form services.Form[T]) (T, error) {
	f.forms = append(f.forms, form)
	f.created = append(f.created, form.Item)
	if err := pop(&f.saveErrs); err != nil {
		var zero T
		return zero, err
	}
	return form.Item, nil
}

func (f *fakeCatalog[T]) Update(_ context.Context, form services.Form[T]) (T, error) {
	f.forms = append(f.forms, form)
	f.updated = append(f.updated, form.Item)
	if err := pop(&f.saveErrs); err != nil {
		var zero T
		return zero, err
	}
	return form.Item, nil
}

func (f *fakeCatalog[T]) Delete(_ context.Context, item T) error {
	if err := pop(&f.saveErrs); err != nil {
		return err
	}
	f.deleted = append(f.deleted, item)
	return nil
}

type fakeContact struct {
	sent []models.ContactMessage
}

func (f *fakeContact) Send(_ context.Context, msg models.ContactMessage) error {
	f.sent = append(f.sent, msg)
	return nil
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
