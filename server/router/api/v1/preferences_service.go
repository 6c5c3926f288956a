package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/flowstate-app/flowstate/server/internal/errors"
	"github.com/flowstate-app/flowstate/server/service/schedule"
	"github.com/flowstate-app/flowstate/store"
)

// preferencesTimezone is recorded with stored preferences; all work hours are IST.
const preferencesTimezone = "Asia/Kolkata"

// PreferencesResponse is the response of the preferences endpoints.
type PreferencesResponse struct {
	Success     bool                      `json:"success"`
	Preferences *schedule.WorkPreferences `json:"preferences"`
}

// GetPreferences returns the caller's work hours, or the defaults.
// GET /api/preferences
func (s *APIV1Service) GetPreferences(c echo.Context) error {
	identity, err := workspaceFrom(c)
	if err != nil {
		return err
	}

	prefs, err := s.ScheduleService.GetWorkPreferences(c.Request().Context(), identity.WorkspaceID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PreferencesResponse{Success: true, Preferences: prefs})
}

// UpdatePreferences validates and stores the caller's work hours.
// PUT /api/preferences
func (s *APIV1Service) UpdatePreferences(c echo.Context) error {
	identity, err := workspaceFrom(c)
	if err != nil {
		return err
	}

	var req schedule.WorkPreferences
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	req, err = req.Normalize()
	if err != nil {
		return apperrors.InvalidArgument(err.Error())
	}

	stored, err := s.Store.UpsertWorkspacePreferences(c.Request().Context(), &store.UpsertWorkspacePreferences{
		WorkspaceID:  identity.WorkspaceID,
		WeekdayStart: req.WeekdayStart,
		WeekdayEnd:   req.WeekdayEnd,
		WeekendStart: req.WeekendStart,
		WeekendEnd:   req.WeekendEnd,
		Timezone:     preferencesTimezone,
	})
	if err != nil {
		return apperrors.Internal("failed to save preferences", err)
	}

	return c.JSON(http.StatusOK, PreferencesResponse{Success: true, Preferences: &schedule.WorkPreferences{
		WeekdayStart: stored.WeekdayStart,
		WeekdayEnd:   stored.WeekdayEnd,
		WeekendStart: stored.WeekendStart,
		WeekendEnd:   stored.WeekendEnd,
	}})
}
