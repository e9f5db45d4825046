package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/notify"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hope = models.Sermon{
	ID: "s1", Title: "Hope", Speaker: "Ann", Type: models.SermonAudio,
	MediaURL: "https://cdn.example.org/hope.mp3", MediaPublicID: "hope",
	Date: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
}

func TestSermonService_List_CachedWithinStaleness(t *testing.T) {
	r, _ := newTestRunner(t)
	api := newFakeSermons(hope)
	svc := NewSermonService(api, &fakeMedia{}, r)

	first, err := svc.List(context.Background(), models.SermonFilter{})
	require.NoError(t, err)
	second, err := svc.List(context.Background(), models.SermonFilter{})
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, api.Calls())

	_, err = svc.List(context.Background(), models.SermonFilter{Type: models.SermonVideo})
	require.NoError(t, err)
	assert.Equal(t, 2, api.Calls())
}

func TestSermonService_List_Error(t *testing.T) {
	r, _ := newTestRunner(t)
	api := newFakeSermons()
	api.err = client.ErrUnavailable
	svc := NewSermonService(api, &fakeMedia{}, r)

	_, err := svc.List(context.Background(), models.SermonFilter{})
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.ErrorIs(t, r.Cache().State(SermonListKey(models.SermonFilter{})).Err, client.ErrUnavailable)
}

func TestSermonService_Create_ProvisionalThenReconciled(t *testing.T) {
	r, rec := newTestRunner(t)
	api := newFakeSermons(hope)
	media := &fakeMedia{}
	svc := NewSermonService(api, media, r)
	key := SermonListKey(models.SermonFilter{})

	_, err := svc.List(context.Background(), models.SermonFilter{})
	require.NoError(t, err)

	var during []models.Sermon
	api.onWrite = func(models.Sermon) {
		during, _ = cache.Get[[]models.Sermon](r.Cache(), key)
	}

	m := upload.NewMachine(models.MediaAudio)
	require.NoError(t, m.Select("grace.mp3", mp3Bytes))

	saved, err := svc.Create(context.Background(), Form[models.Sermon]{
		Item:  models.Sermon{Title: "Grace", Speaker: "J. Doe", Type: models.SermonAudio},
		Media: m,
	})
	require.NoError(t, err)

	require.Len(t, during, 2)
	assert.Equal(t, "Grace", during[0].Title)
	assert.True(t, during[0].Optimistic)
	assert.True(t, mutation.IsTemp(during[0].ID))

	assert.Equal(t, "srv-1", saved.ID)
	assert.Equal(t, "https://cdn.example.org/audio-1", saved.MediaURL)
	assert.Equal(t, "audio-1", saved.MediaPublicID)

	got, ok := cache.Get[[]models.Sermon](r.Cache(), key)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "srv-1", got[0].ID)
	assert.False(t, got[0].Optimistic)
	assert.Equal(t, "https://cdn.example.org/audio-1", got[0].MediaURL)

	r.Cache().Wait()
	refetched, ok := cache.Get[[]models.Sermon](r.Cache(), key)
	require.True(t, ok)
	assert.Equal(t, got, refetched)

	assert.Equal(t, []string{"Sermon created successfully"}, rec.Texts(notify.LevelSuccess))
}

func TestSermonService_Create_ZeroFieldsNeverCallsNetwork(t *testing.T) {
	r, rec := newTestRunner(t)
	api := newFakeSermons()
	media := &fakeMedia{}
	svc := NewSermonService(api, media, r)

	_, err := svc.Create(context.Background(), Form[models.Sermon]{})
	require.ErrorIs(t, err, models.ErrValidation)

	assert.Equal(t, 0, api.Calls())
	assert.Empty(t, media.uploads)
	assert.Equal(t, []string{
		"title is required",
		"speaker is required",
		"type is required",
		"mediaUrl is required",
	}, rec.Texts(notify.LevelError))
}

func TestSermonService_Create_UploadFailureAbortsSave(t *testing.T) {
	r, rec := newTestRunner(t)
	api := newFakeSermons(hope)
	media := &fakeMedia{err: errors.New("too large")}
	svc := NewSermonService(api, media, r)
	key := SermonListKey(models.SermonFilter{})

	_, err := svc.List(context.Background(), models.SermonFilter{})
	require.NoError(t, err)
	before, _ := cache.Get[[]models.Sermon](r.Cache(), key)

	m := upload.NewMachine(models.MediaAudio)
	require.NoError(t, m.Select("grace.mp3", mp3Bytes))
	callsBefore := api.Calls()

	_, err = svc.Create(context.Background(), Form[models.Sermon]{
		Item:  models.Sermon{Title: "Grace", Speaker: "J. Doe", Type: models.SermonAudio},
		Media: m,
	})
	require.ErrorIs(t, err, upload.ErrUpload)
	r.Cache().Wait()
	// only the refetch that follows every mutation
	assert.Equal(t, callsBefore+1, api.Calls())

	after, _ := cache.Get[[]models.Sermon](r.Cache(), key)
	assert.Equal(t, before, after)
	assert.Equal(t, []string{"Media upload failed: too large"}, rec.Texts(notify.LevelError))
}

func TestSermonService_Create_SaveFailureRollsBackAndDiscardsUpload(t *testing.T) {
	r, rec := newTestRunner(t)
	api := newFakeSermons(hope)
	media := &fakeMedia{}
	svc := NewSermonService(api, media, r)
	key := SermonListKey(models.SermonFilter{})

	_, err := svc.List(context.Background(), models.SermonFilter{})
	require.NoError(t, err)
	before, _ := r.Cache().Snapshot(key)

	api.err = &client.APIError{Status: 500, Message: "Server error"}
	m := upload.NewMachine()
	require.NoError(t, m.Select("grace.mp3", mp3Bytes))

	_, err = svc.Create(context.Background(), Form[models.Sermon]{
		Item:  models.Sermon{Title: "Grace", Speaker: "J. Doe", Type: models.SermonAudio},
		Media: m,
	})
	require.Error(t, err)

	after, _ := r.Cache().Snapshot(key)
	assert.Equal(t, before.Data, after.Data)
	assert.Equal(t, []string{"audio-1"}, media.deleted)
	assert.Equal(t, []string{"Failed to create sermon: Server error"}, rec.Texts(notify.LevelError))
}

func TestSermonService_Update_ReplacesMedia(t *testing.T) {
	r, _ := newTestRunner(t)
	api := newFakeSermons(hope)
	media := &fakeMedia{}
	svc := NewSermonService(api, media, r)
	key := SermonListKey(models.SermonFilter{})

	_, err := svc.List(context.Background(), models.SermonFilter{})
	require.NoError(t, err)

	var during []models.Sermon
	api.onWrite = func(models.Sermon) {
		during, _ = cache.Get[[]models.Sermon](r.Cache(), key)
	}

	edited := hope
	edited.Title = "Hope Renewed"
	m := upload.NewMachine()
	require.NoError(t, m.Select("hope2.mp3", mp3Bytes))

	saved, err := svc.Update(context.Background(), Form[models.Sermon]{Item: edited, Media: m})
	require.NoError(t, err)

	require.Len(t, during, 1)
	assert.True(t, during[0].Updating)
	assert.Equal(t, "Hope Renewed", during[0].Title)

	assert.Equal(t, "audio-1", saved.MediaPublicID)
	assert.Equal(t, []string{"hope"}, media.deleted)

	got, _ := cache.Get[[]models.Sermon](r.Cache(), key)
	require.Len(t, got, 1)
	assert.False(t, got[0].Updating)
	assert.Equal(t, "Hope Renewed", got[0].Title)
}

func TestSermonService_Delete(t *testing.T) {
	r, _ := newTestRunner(t)
	api := newFakeSermons(hope)
	media := &fakeMedia{}
	svc := NewSermonService(api, media, r)

	_, err := svc.List(context.Background(), models.SermonFilter{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), hope))

	got, _ := cache.Get[[]models.Sermon](r.Cache(), SermonListKey(models.SermonFilter{}))
	assert.Empty(t, got)
	assert.Equal(t, []string{"hope"}, media.deleted)
}

func TestSermonService_Comments(t *testing.T) {
	r, rec := newTestRunner(t)
	api := newFakeSermons(hope)
	svc := NewSermonService(api, &fakeMedia{}, r)
	key := SermonListKey(models.SermonFilter{})

	_, err := svc.List(context.Background(), models.SermonFilter{})
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), "s1", models.Comment{})
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, rec.Texts(notify.LevelError), 2)

	updated, err := svc.AddComment(context.Background(), "s1", models.Comment{Name: "Eve", Text: "Amen"})
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	cid := updated.Comments[0].ID

	got, _ := cache.Get[[]models.Sermon](r.Cache(), key)
	require.Len(t, got[0].Comments, 1)
	assert.Equal(t, cid, got[0].Comments[0].ID)

	updated, err = svc.DeleteComment(context.Background(), "s1", cid)
	require.NoError(t, err)
	assert.Empty(t, updated.Comments)
}
