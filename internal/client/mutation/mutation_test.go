package mutation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/notify"
	"github.com/dmitrijs2005/ministrysync/internal/logging"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*Runner, *notify.Recorder) {
	t.Helper()
	qc := cache.NewQueryClient(cache.NewLRUStore(32, time.Hour), cache.WithRetries(0, 0))
	t.Cleanup(qc.Close)
	rec := &notify.Recorder{}
	return NewRunner(qc, rec, logging.Nop()), rec
}

func createSermon(key cache.Key, mutate func(ctx context.Context, s models.Sermon) (models.Sermon, error)) Optimistic[[]models.Sermon, models.Sermon, models.Sermon] {
	return Optimistic[[]models.Sermon, models.Sermon, models.Sermon]{
		Name: "create-sermon",
		Keys: []cache.Key{key},
		Apply: func(old []models.Sermon, s models.Sermon) []models.Sermon {
			return Prepend(old, s)
		},
		Reconcile: func(cur []models.Sermon, s models.Sermon, res models.Sermon) []models.Sermon {
			return ReplaceByID(cur, s.ID, res)
		},
		Mutate:         mutate,
		SuccessMessage: "Sermon created",
	}
}

func TestRun_ReconcilesProvisionalEntry(t *testing.T) {
	r, rec := newRunner(t)
	key := cache.NewKey("sermons")
	existing := []models.Sermon{{ID: "s1", Title: "Hope", Speaker: "Ann", Type: models.SermonAudio}}
	r.Cache().SetData(key, existing)

	provisional := models.Sermon{ID: TempID(), Title: "Grace", Speaker: "Ann", Type: models.SermonAudio, Optimistic: true}
	var seen []models.Sermon

	m := createSermon(key, func(ctx context.Context, s models.Sermon) (models.Sermon, error) {
		seen, _ = cache.Get[[]models.Sermon](r.Cache(), key)
		saved := s
		saved.ID = "srv-42"
		saved.Optimistic = false
		return saved, nil
	})

	res, err := Run(context.Background(), r, m, provisional)
	require.NoError(t, err)
	assert.Equal(t, "srv-42", res.ID)

	require.Len(t, seen, 2)
	assert.Equal(t, provisional.ID, seen[0].ID)
	assert.True(t, seen[0].Optimistic)

	got, ok := cache.Get[[]models.Sermon](r.Cache(), key)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "srv-42", got[0].ID)
	assert.False(t, got[0].Optimistic)
	assert.False(t, ContainsID(got, provisional.ID))
	assert.Equal(t, []string{"Sermon created"}, rec.Texts(notify.LevelSuccess))

	// input slice untouched
	assert.Len(t, existing, 1)
}

func TestRun_RollbackRestoresExactSnapshot(t *testing.T) {
	r, rec := newRunner(t)
	key := cache.NewKey("sermons")
	absent := cache.NewKey("sermons", "audio")

	r.Cache().SetData(key, []models.Sermon{
		{ID: "s1", Title: "Hope", Speaker: "Ann", Type: models.SermonAudio},
		{ID: "s2", Title: "Faith", Speaker: "Bo", Type: models.SermonVideo},
	})
	before, _ := r.Cache().Snapshot(key)
	beforeJSON, err := json.Marshal(before.Data)
	require.NoError(t, err)

	m := createSermon(key, func(ctx context.Context, s models.Sermon) (models.Sermon, error) {
		return models.Sermon{}, &client.APIError{Status: 500, Message: "database down"}
	})
	m.Keys = append(m.Keys, absent)
	rollbacks := rollbacksTotal.WithLabelValues(m.Name)
	rollbacksBefore := testutil.ToFloat64(rollbacks)

	_, err = Run(context.Background(), r, m, models.Sermon{ID: TempID(), Title: "Grace"})
	require.Error(t, err)
	assert.Equal(t, rollbacksBefore+1, testutil.ToFloat64(rollbacks))

	after, ok := r.Cache().Snapshot(key)
	require.True(t, ok)
	afterJSON, err := json.Marshal(after.Data)
	require.NoError(t, err)

	assert.Equal(t, string(beforeJSON), string(afterJSON))
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.True(t, after.Invalidated)

	_, ok = r.Cache().GetData(absent)
	assert.False(t, ok)

	assert.Equal(t, []string{"database down"}, rec.Texts(notify.LevelError))
	assert.Empty(t, rec.Texts(notify.LevelSuccess))
}

func TestRun_CancelsScheduledRefetch(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	qc := cache.NewQueryClient(cache.NewLRUStore(32, time.Hour),
		cache.WithRetries(0, 0),
		cache.WithStaleTime(time.Minute),
		cache.WithClock(func() time.Time { return now }),
	)
	t.Cleanup(qc.Close)
	r := NewRunner(qc, &notify.Recorder{}, logging.Nop())

	key := cache.NewKey("announcements")
	server := func(ctx context.Context) (any, error) { return []string{"a"}, nil }
	_, err := qc.Fetch(context.Background(), key, server)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	st, err := qc.Fetch(context.Background(), key, server)
	require.NoError(t, err)
	require.True(t, st.Refetching)

	var during []string
	m := Optimistic[[]string, string, string]{
		Name: "create-announcement",
		Keys: []cache.Key{key},
		Apply: func(old []string, id string) []string {
			return Prepend(old, id)
		},
		Mutate: func(ctx context.Context, id string) (string, error) {
			qc.Wait()
			during, _ = cache.Get[[]string](qc, key)
			return "a2", nil
		},
	}
	_, err = Run(context.Background(), r, m, "tmp-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"tmp-1", "a"}, during)
}

func TestRun_ErrorMessageOverride(t *testing.T) {
	r, rec := newRunner(t)
	boom := errors.New("boom")

	m := Optimistic[[]models.Event, string, struct{}]{
		Name: "delete-event",
		Keys: []cache.Key{cache.NewKey("events")},
		Apply: func(old []models.Event, id string) []models.Event {
			return RemoveByID(old, id)
		},
		Mutate: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, boom
		},
		ErrorMessage: func(err error) string { return "Failed to delete event" },
	}

	_, err := Run(context.Background(), r, m, "e1")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"Failed to delete event"}, rec.Texts(notify.LevelError))
}

func TestRun_InvalidatesExtraEntities(t *testing.T) {
	r, _ := newRunner(t)
	eventsKey := cache.NewKey("events")
	calls := 0

	_, err := r.Cache().Fetch(context.Background(), eventsKey, func(ctx context.Context) (any, error) {
		calls++
		return []models.Event{{ID: "e1", Registrations: calls + 4}}, nil
	})
	require.NoError(t, err)

	m := Optimistic[[]models.Registration, models.Registration, models.Registration]{
		Name:       "create-registration",
		Keys:       []cache.Key{cache.NewKey("registrations")},
		Mutate:     func(ctx context.Context, reg models.Registration) (models.Registration, error) { return reg, nil },
		Invalidate: []string{"events"},
	}
	_, err = Run(context.Background(), r, m, models.Registration{ID: "r1", EventID: "e1"})
	require.NoError(t, err)
	r.Cache().Wait()

	events, _ := cache.Get[[]models.Event](r.Cache(), eventsKey)
	require.Len(t, events, 1)
	assert.Equal(t, 6, events[0].Registrations)
}

func TestListHelpers(t *testing.T) {
	items := []models.Event{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Equal(t, []models.Event{{ID: "z"}, {ID: "a"}, {ID: "b"}, {ID: "c"}}, Prepend(items, models.Event{ID: "z"}))
	assert.Equal(t, []models.Event{{ID: "a"}, {ID: "x"}, {ID: "c"}}, ReplaceByID(items, "b", models.Event{ID: "x"}))
	assert.Equal(t, []models.Event{{ID: "a"}, {ID: "c"}}, RemoveByID(items, "b"))

	merged := MergeByID(items, "c", func(e models.Event) models.Event {
		e.Updating = true
		return e
	})
	assert.True(t, merged[2].Updating)

	assert.Equal(t, []models.Event{{ID: "a"}, {ID: "b"}, {ID: "c"}}, items)
}

func TestTempID(t *testing.T) {
	a, b := TempID(), TempID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsTemp(a))
	assert.False(t, IsTemp("65f1c2"))
}
