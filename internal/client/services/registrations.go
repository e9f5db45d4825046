package services

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
)

// RegistrationService reads and edits event registrations. A new
// registration changes its event's attendee count on the server, so events
// are refreshed once it settles.
type RegistrationService interface {
	List(ctx context.Context, filter models.RegistrationFilter) (cache.Result[[]models.Registration], error)
	Create(ctx context.Context, reg models.Registration) (models.Registration, error)
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) (models.Registration, error)
	Delete(ctx context.Context, id string) error
}

type registrationService struct {
	api client.RegistrationAPI
	r   *mutation.Runner
}

func NewRegistrationService(api client.RegistrationAPI, r *mutation.Runner) RegistrationService {
	return &registrationService{api: api, r: r}
}

func RegistrationListKey(f models.RegistrationFilter) cache.Key {
	return cache.NewKey(EntityRegistrations, "list", f.EventID)
}

func (s *registrationService) List(ctx context.Context, f models.RegistrationFilter) (cache.Result[[]models.Registration], error) {
	q := url.Values{}
	if f.EventID != "" {
		q.Set("eventId", f.EventID)
	}
	return list(ctx, s.r, RegistrationListKey(f), func(ctx context.Context) ([]models.Registration, error) {
		return s.api.List(ctx, q)
	})
}

func (s *registrationService) Create(ctx context.Context, reg models.Registration) (models.Registration, error) {
	if err := models.Validate(reg); err != nil {
		return models.Registration{}, reject(s.r, err)
	}

	payload := reg
	payload.ID = ""
	provisional := payload.AsProvisional(mutation.TempID(), s.r.Now())

	m := mutation.Optimistic[[]models.Registration, models.Registration, models.Registration]{
		Name: "create-registration",
		Keys: []cache.Key{
			RegistrationListKey(models.RegistrationFilter{}),
			RegistrationListKey(models.RegistrationFilter{EventID: reg.EventID}),
		},
		Apply: func(old []models.Registration, v models.Registration) []models.Registration {
			return mutation.Prepend(old, v)
		},
		Reconcile: func(cur []models.Registration, v models.Registration, res models.Registration) []models.Registration {
			return mutation.ReplaceByID(cur, v.ID, res)
		},
		Mutate: func(ctx context.Context, _ models.Registration) (models.Registration, error) {
			return s.api.Create(ctx, payload)
		},
		Invalidate:     []string{EntityEvents},
		SuccessMessage: "Registration submitted successfully",
		ErrorMessage:   failure("submit registration"),
	}
	return mutation.Run(ctx, s.r, m, provisional)
}

func (s *registrationService) UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) (models.Registration, error) {
	m := mutation.Optimistic[[]models.Registration, models.RegistrationStatus, models.Registration]{
		Name: "update-registration-status",
		Keys: keysOf(s.r.Cache(), EntityRegistrations),
		Apply: func(old []models.Registration, v models.RegistrationStatus) []models.Registration {
			return mutation.MergeByID(old, id, func(r models.Registration) models.Registration {
				r.Status = v
				return r
			})
		},
		Reconcile: func(cur []models.Registration, _ models.RegistrationStatus, res models.Registration) []models.Registration {
			return mutation.ReplaceByID(cur, id, res)
		},
		Mutate: func(ctx context.Context, v models.RegistrationStatus) (models.Registration, error) {
			return s.api.UpdateStatus(ctx, id, v)
		},
		SuccessMessage: "Registration status updated",
		ErrorMessage:   failure("update registration"),
	}
	return mutation.Run(ctx, s.r, m, status)
}

func (s *registrationService) Delete(ctx context.Context, id string) error {
	m := mutation.Optimistic[[]models.Registration, string, struct{}]{
		Name: "delete-registration",
		Keys: keysOf(s.r.Cache(), EntityRegistrations),
		Apply: func(old []models.Registration, id string) []models.Registration {
			return mutation.RemoveByID(old, id)
		},
		Mutate: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, s.api.Delete(ctx, id)
		},
		Invalidate:     []string{EntityEvents},
		SuccessMessage: "Registration deleted successfully",
		ErrorMessage:   failure("delete registration"),
	}
	_, err := mutation.Run(ctx, s.r, m, id)
	return err
}
