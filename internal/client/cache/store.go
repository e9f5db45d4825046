// Package cache is the read side of the client data layer: a keyed query
// cache with staleness windows, background refetch, per-key cancellation
// and invalidation.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Key identifies one cached read: the entity plus its filter parameters.
type Key struct {
	Entity string
	Params string
}

// NewKey joins params into a stable key. Empty params are kept so that
// ("sermons", "", "grace") and ("sermons", "grace") stay distinct.
func NewKey(entity string, params ...string) Key {
	return Key{Entity: entity, Params: strings.Join(params, "|")}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Entity
	}
	return k.Entity + ":" + k.Params
}

// Entry is one cached value with its bookkeeping.
type Entry struct {
	Data        any
	UpdatedAt   time.Time
	Invalidated bool
}

// Store holds entries. Implementations must be safe for concurrent use.
type Store interface {
	Get(key Key) (Entry, bool)
	Set(key Key, e Entry)
	Remove(key Key)
	Keys() []Key
	Purge()
}

// LRUStore is a size-bounded Store whose entries expire ttl after their last
// write, whether or not they were read.
type LRUStore struct {
	lru *expirable.LRU[Key, Entry]
}

func NewLRUStore(size int, ttl time.Duration) *LRUStore {
	return &LRUStore{lru: expirable.NewLRU[Key, Entry](size, nil, ttl)}
}

func (s *LRUStore) Get(key Key) (Entry, bool) { return s.lru.Get(key) }
func (s *LRUStore) Set(key Key, e Entry)      { s.lru.Add(key, e) }
func (s *LRUStore) Remove(key Key)            { s.lru.Remove(key) }
func (s *LRUStore) Keys() []Key               { return s.lru.Keys() }
func (s *LRUStore) Purge()                    { s.lru.Purge() }
