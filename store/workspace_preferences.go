package store

import (
	"context"

	"github.com/flowstate-app/flowstate/store/cache"
)

// WorkspacePreferences holds the work-hour windows of a workspace.
// Clock values are "HH:MM" in the workspace timezone.
type WorkspacePreferences struct {
	WorkspaceID  string `json:"workspace_id"`
	WeekdayStart string `json:"weekday_start"`
	WeekdayEnd   string `json:"weekday_end"`
	WeekendStart string `json:"weekend_start"`
	WeekendEnd   string `json:"weekend_end"`
	Timezone     string `json:"timezone"`
	CreatedTs    int64  `json:"created_ts"`
	UpdatedTs    int64  `json:"updated_ts"`
}

// FindWorkspacePreferences specifies the conditions for finding workspace preferences.
type FindWorkspacePreferences struct {
	WorkspaceID *string
}

// UpsertWorkspacePreferences specifies the data for upserting workspace preferences.
type UpsertWorkspacePreferences struct {
	WorkspaceID  string
	WeekdayStart string
	WeekdayEnd   string
	WeekendStart string
	WeekendEnd   string
	Timezone     string
}

func workspacePreferencesCacheKey(workspaceID string) string {
	return cache.GenerateCacheKey("workspace_preferences", workspaceID)
}

// GetWorkspacePreferences returns the preferences of a workspace, or nil when none are stored.
func (s *Store) GetWorkspacePreferences(ctx context.Context, find *FindWorkspacePreferences) (*WorkspacePreferences, error) {
	if find.WorkspaceID == nil {
		return s.driver.GetWorkspacePreferences(ctx, find)
	}
	return s.preferencesCache.Get(ctx, workspacePreferencesCacheKey(*find.WorkspaceID),
		func(ctx context.Context, _ string) (*WorkspacePreferences, error) {
			return s.driver.GetWorkspacePreferences(ctx, find)
		})
}

// UpsertWorkspacePreferences stores preferences and refreshes the cache.
func (s *Store) UpsertWorkspacePreferences(ctx context.Context, upsert *UpsertWorkspacePreferences) (*WorkspacePreferences, error) {
	key := workspacePreferencesCacheKey(upsert.WorkspaceID)
	s.preferencesCache.Delete(ctx, key)

	prefs, err := s.driver.UpsertWorkspacePreferences(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.preferencesCache.Set(ctx, key, prefs)
	return prefs, nil
}
