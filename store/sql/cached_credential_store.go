package sqlstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-authsession/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const credentialCacheKey = "go-authsession::credential::v1"

type cachedCredential struct {
	Pair    core.CredentialPair
	Present bool
}

// CachedCredentialStore serves Load from a read-through cache over any
// CredentialStore. Save and Clear write through and evict the cached entry.
// Cache fills and writes are mutually exclusive, so a fill that read the base
// store before a write cannot repopulate the entry after that write.
type CachedCredentialStore struct {
	base  core.CredentialStore
	cache repositorycache.CacheService

	mu sync.RWMutex
}

func NewCachedCredentialStore(
	base core.CredentialStore,
	cacheService repositorycache.CacheService,
) (*CachedCredentialStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base credential store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: credential cache service is required")
	}
	return &CachedCredentialStore{base: base, cache: cacheService}, nil
}

func (s *CachedCredentialStore) Load(ctx context.Context) (core.CredentialPair, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.CredentialPair{}, false, fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cached, err := repositorycache.GetOrFetch(ctx, s.cache, credentialCacheKey, func(ctx context.Context) (cachedCredential, error) {
		pair, ok, fetchErr := s.base.Load(ctx)
		if fetchErr != nil {
			return cachedCredential{}, fetchErr
		}
		return cachedCredential{Pair: pair, Present: ok}, nil
	})
	if err != nil {
		return core.CredentialPair{}, false, err
	}
	return cached.Pair, cached.Present, nil
}

func (s *CachedCredentialStore) Save(ctx context.Context, pair core.CredentialPair) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.base.Save(ctx, pair); err != nil {
		return err
	}
	return s.cache.Delete(ctx, credentialCacheKey)
}

func (s *CachedCredentialStore) Clear(ctx context.Context) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached credential store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.base.Clear(ctx); err != nil {
		return err
	}
	return s.cache.Delete(ctx, credentialCacheKey)
}

// NewCacheService builds the in-process cache used by CachedCredentialStore.
func NewCacheService(ttl time.Duration) (repositorycache.CacheService, error) {
	config := repositorycache.DefaultConfig()
	if ttl > 0 {
		config.TTL = ttl
	}
	return repositorycache.NewCacheService(config)
}
