package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationService_Create_RefreshesEventCount(t *testing.T) {
	r, rec := newTestRunner(t)
	events := newFakeEvents(models.Event{
		ID: "42", Title: "Retreat", Location: "Hall", Registrations: 5,
		Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	regs := newFakeRegistrations(events)
	eventSvc := NewEventService(events, &fakeMedia{}, r)
	regSvc := NewRegistrationService(regs, r)

	ev, err := eventSvc.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 5, ev.Data.Registrations)

	_, err = regSvc.List(context.Background(), models.RegistrationFilter{EventID: "42"})
	require.NoError(t, err)

	saved, err := regSvc.Create(context.Background(), models.Registration{
		EventID: "42", FullName: "A. Smith", Email: "a@x.com", NumberOfAttendees: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, saved.Status)
	r.Cache().Wait()

	list, ok := cache.Get[[]models.Registration](r.Cache(), RegistrationListKey(models.RegistrationFilter{EventID: "42"}))
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
	assert.Equal(t, "A. Smith", list[0].FullName)

	ev, err = eventSvc.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 6, ev.Data.Registrations)
	assert.Equal(t, []string{"Registration submitted successfully"}, rec.Texts(notify.LevelSuccess))
}

func TestRegistrationService_Create_ZeroFields(t *testing.T) {
	r, rec := newTestRunner(t)
	regs := newFakeRegistrations(nil)
	svc := NewRegistrationService(regs, r)

	_, err := svc.Create(context.Background(), models.Registration{})
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 0, regs.Calls())
	assert.Equal(t, []string{
		"eventId is required",
		"fullName is required",
		"email is required",
		"numberOfAttendees is too small",
	}, rec.Texts(notify.LevelError))
}

func TestRegistrationService_UpdateStatusAndDelete(t *testing.T) {
	r, rec := newTestRunner(t)
	regs := newFakeRegistrations(nil)
	regs.items = []models.Registration{
		{ID: "r1", EventID: "42", FullName: "A", Email: "a@x.com", NumberOfAttendees: 1, Status: models.StatusPending},
		{ID: "r2", EventID: "42", FullName: "B", Email: "b@x.com", NumberOfAttendees: 3, Status: models.StatusPending},
	}
	svc := NewRegistrationService(regs, r)
	key := RegistrationListKey(models.RegistrationFilter{})

	_, err := svc.List(context.Background(), models.RegistrationFilter{})
	require.NoError(t, err)

	res, err := svc.UpdateStatus(context.Background(), "r1", models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, res.Status)

	got, _ := cache.Get[[]models.Registration](r.Cache(), key)
	assert.Equal(t, models.StatusConfirmed, got[0].Status)

	r.Cache().Wait()
	regs.mu.Lock()
	regs.err = &client.APIError{Status: 403, Message: "Forbidden"}
	regs.mu.Unlock()
	before, _ := cache.Get[[]models.Registration](r.Cache(), key)

	err = svc.Delete(context.Background(), "r2")
	require.ErrorIs(t, err, client.ErrUnauthorized)

	after, _ := cache.Get[[]models.Registration](r.Cache(), key)
	assert.Equal(t, before, after)
	assert.Equal(t, []string{"Failed to delete registration: Forbidden"}, rec.Texts(notify.LevelError))
}
