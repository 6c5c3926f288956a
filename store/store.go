package store

import (
	"time"

	"github.com/flowstate-app/flowstate/internal/profile"
	"github.com/flowstate-app/flowstate/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	preferencesCache *cache.TieredCache[*WorkspacePreferences]
}

// New creates a new instance of Store. l2 is the optional shared cache tier
// and may be nil.
func New(driver Driver, profile *profile.Profile, l2 cache.RedisCacheInterface) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		preferencesCache: cache.NewTieredCache[*WorkspacePreferences](&cache.TieredCacheConfig{
			L1MaxItems: 1000,
			L1TTL:      5 * time.Minute,
			L2TTL:      30 * time.Minute,
		}, l2),
	}
}

// PreferencesCacheStats reports the state of the preferences cache tiers.
func (s *Store) PreferencesCacheStats() map[string]any {
	return s.preferencesCache.Stats()
}

func (s *Store) Close() error {
	if err := s.preferencesCache.Close(); err != nil {
		return err
	}
	return s.driver.Close()
}
