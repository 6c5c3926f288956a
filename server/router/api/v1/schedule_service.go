package v1

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/flowstate-app/flowstate/server/internal/errors"
	"github.com/flowstate-app/flowstate/server/service/schedule"
)

// ContextList accepts either a single context name or a list of names.
type ContextList []string

func (l *ContextList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if strings.TrimSpace(single) == "" {
			*l = nil
			return nil
		}
		*l = ContextList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// ProposeRequest is the body of POST /api/schedule/propose.
type ProposeRequest struct {
	EstimateMins int         `json:"estimateMins"`
	Priority     string      `json:"priority"`
	Context      ContextList `json:"context"`
	Exclude      []int32     `json:"exclude"`
}

// ProposeResponse is the response of POST /api/schedule/propose.
type ProposeResponse struct {
	Success   bool                      `json:"success"`
	Proposals []*schedule.ProposedBlock `json:"proposals"`
}

// ProposeSchedule returns ranked time block proposals for a task.
// POST /api/schedule/propose
func (s *APIV1Service) ProposeSchedule(c echo.Context) error {
	identity, err := workspaceFrom(c)
	if err != nil {
		return err
	}

	var req ProposeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.EstimateMins <= 0 {
		return apperrors.InvalidArgument("estimateMins must be a positive integer")
	}

	proposals, err := s.ScheduleService.ProposeForWorkspace(c.Request().Context(), identity.WorkspaceID, &schedule.ProposeOptions{
		EstimateMins: req.EstimateMins,
		Priority:     req.Priority,
		Contexts:     req.Context,
		Exclude:      req.Exclude,
		Now:          s.Now(),
	})
	if err != nil {
		return err
	}
	if proposals == nil {
		proposals = []*schedule.ProposedBlock{}
	}
	return c.JSON(http.StatusOK, ProposeResponse{Success: true, Proposals: proposals})
}

// AcceptRequest is the body of POST /api/schedule/accept.
type AcceptRequest struct {
	TaskID int32  `json:"taskId"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// AcceptResponse is the response of POST /api/schedule/accept.
type AcceptResponse struct {
	Success bool          `json:"success"`
	Task    *TaskResponse `json:"task"`
}

// AcceptProposal books a proposed window on a task.
// POST /api/schedule/accept
func (s *APIV1Service) AcceptProposal(c echo.Context) error {
	identity, err := workspaceFrom(c)
	if err != nil {
		return err
	}

	var req AcceptRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.TaskID <= 0 {
		return apperrors.InvalidArgument("taskId is required")
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return apperrors.InvalidArgument("start must be an RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return apperrors.InvalidArgument("end must be an RFC 3339 timestamp")
	}

	task, err := s.ScheduleService.AcceptProposal(c.Request().Context(), identity.WorkspaceID, req.TaskID, start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AcceptResponse{Success: true, Task: convertTaskFromStore(task)})
}
