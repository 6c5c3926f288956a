package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flowstate-app/flowstate/plugin/ai"
	"github.com/flowstate-app/flowstate/plugin/ai/timeout"
	apperrors "github.com/flowstate-app/flowstate/server/internal/errors"
	"github.com/flowstate-app/flowstate/server/internal/observability"
)

// CaptureRequest is the body of POST /api/capture.
type CaptureRequest struct {
	Text string `json:"text"`
}

// CaptureResponse is the response of POST /api/capture.
type CaptureResponse struct {
	Success bool          `json:"success"`
	Draft   *ai.TaskDraft `json:"draft"`
}

// Capture turns free text into a task draft. The draft is not persisted.
// POST /api/capture
func (s *APIV1Service) Capture(c echo.Context) (err error) {
	if s.CaptureService == nil {
		return apperrors.ServiceUnavailable("AI capture is not enabled")
	}
	if _, err := workspaceFrom(c); err != nil {
		return err
	}

	var req CaptureRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout.CaptureTimeout)
	defer cancel()
	if err := s.captureSemaphore.Acquire(ctx, 1); err != nil {
		return apperrors.ServiceUnavailable("request cancelled while waiting for capture capacity")
	}
	defer s.captureSemaphore.Release(1)

	start := time.Now()
	defer func() {
		s.Metrics.RecordRequest(observability.OperationCapture, time.Since(start), err)
	}()

	draft, err := s.CaptureService.Capture(ctx, req.Text, s.Now())
	if err != nil {
		if errors.Is(err, ai.ErrEmptyCapture) {
			return apperrors.InvalidArgument("text is required")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.ServiceUnavailable("AI capture timed out")
		}
		if errors.Is(err, ai.ErrInvalidDraft) {
			return apperrors.ServiceUnavailable("AI capture returned an unusable draft")
		}
		return apperrors.Internal("failed to capture task", err)
	}
	return c.JSON(http.StatusOK, CaptureResponse{Success: true, Draft: draft})
}
