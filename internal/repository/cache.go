package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type preferenceStore interface {
	LoadPreference(ctx context.Context, owner, name string) (string, error)
	SavePreference(ctx context.Context, owner, name, value string) error
}

// CachedPreferenceStore is a read-through, write-through cache in front of
// another preference store. Misses are not cached. A ttl of zero or less
// disables caching: every call goes to the wrapped store.
type CachedPreferenceStore struct {
	preferenceStore

	c   *cache.Cache
	ttl time.Duration
}

// NewCachedPreferenceStore wraps store; entries expire after ttl.
func NewCachedPreferenceStore(store preferenceStore, ttl time.Duration) *CachedPreferenceStore {
	s := &CachedPreferenceStore{preferenceStore: store, ttl: ttl}
	// go-cache treats a zero expiration as "never expire".
	if ttl > 0 {
		s.c = cache.New(ttl, 2*ttl)
	}
	return s
}

func (s *CachedPreferenceStore) LoadPreference(ctx context.Context, owner, name string) (string, error) {
	if s.c == nil {
		return s.preferenceStore.LoadPreference(ctx, owner, name)
	}

	key := cacheKey(owner, name)
	if v, found := s.c.Get(key); found {
		if value, ok := v.(string); ok {
			return value, nil
		}
	}

	value, err := s.preferenceStore.LoadPreference(ctx, owner, name)
	if err != nil {
		return "", err
	}

	s.c.Set(key, value, s.ttl)
	return value, nil
}

func (s *CachedPreferenceStore) SavePreference(ctx context.Context, owner, name, value string) error {
	if s.c == nil {
		return s.preferenceStore.SavePreference(ctx, owner, name, value)
	}

	if err := s.preferenceStore.SavePreference(ctx, owner, name, value); err != nil {
		s.c.Delete(cacheKey(owner, name))
		return err
	}

	s.c.Set(cacheKey(owner, name), value, s.ttl)
	return nil
}

func cacheKey(owner, name string) string {
	return owner + "\x00" + name
}
