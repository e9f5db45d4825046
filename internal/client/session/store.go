package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/ministrysync/internal/client/repositories/metadata"
)

// ErrAdminRequired is returned when an admin route is opened without the
// admin flag.
var ErrAdminRequired = errors.New("admin access required")

const adminKey = "isAdmin"

// Store is the admin flag. Only presence and value are checked; no token
// is validated here.
type Store interface {
	IsAdmin(ctx context.Context) (bool, error)
	SetAdmin(ctx context.Context, admin bool) error
	Clear(ctx context.Context) error
}

// RequireAdmin returns ErrAdminRequired unless the flag is set.
func RequireAdmin(ctx context.Context, s Store) error {
	ok, err := s.IsAdmin(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAdminRequired
	}
	return nil
}

// MetadataStore keeps the flag in the metadata repository.
type MetadataStore struct {
	repo metadata.Repository
}

func NewMetadataStore(repo metadata.Repository) *MetadataStore {
	return &MetadataStore{repo: repo}
}

func (s *MetadataStore) IsAdmin(ctx context.Context) (bool, error) {
	v, ok, err := s.repo.Get(ctx, adminKey)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

func (s *MetadataStore) SetAdmin(ctx context.Context, admin bool) error {
	if !admin {
		return s.repo.Delete(ctx, adminKey)
	}
	return s.repo.Set(ctx, adminKey, "true")
}

func (s *MetadataStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, adminKey)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	admin bool
}

func (s *MemoryStore) IsAdmin(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin, nil
}

func (s *MemoryStore) SetAdmin(_ context.Context, admin bool) error {
	s.mu.Lock()
	s.admin = admin
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	return s.SetAdmin(ctx, false)
}
