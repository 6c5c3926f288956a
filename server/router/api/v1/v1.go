package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/flowstate-app/flowstate/internal/profile"
	"github.com/flowstate-app/flowstate/plugin/ai"
	"github.com/flowstate-app/flowstate/server/auth"
	apperrors "github.com/flowstate-app/flowstate/server/internal/errors"
	"github.com/flowstate-app/flowstate/server/internal/observability"
	apimiddleware "github.com/flowstate-app/flowstate/server/middleware"
	"github.com/flowstate-app/flowstate/server/service/schedule"
	"github.com/flowstate-app/flowstate/store"
)

// maxConcurrentCaptures bounds in-flight LLM calls per process.
const maxConcurrentCaptures = 4

type APIV1Service struct {
	Profile         *profile.Profile
	Store           *store.Store
	ScheduleService schedule.Service
	// CaptureService is nil when AI is disabled.
	CaptureService *ai.CaptureService
	Metrics        *observability.Metrics

	// Now is the request clock.
	Now func() time.Time

	rateLimiter      *apimiddleware.RateLimiter
	captureSemaphore *semaphore.Weighted
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, metrics *observability.Metrics) *APIV1Service {
	if metrics == nil {
		metrics = observability.GlobalMetrics()
	}
	service := &APIV1Service{
		Profile:          profile,
		Store:            store,
		ScheduleService:  schedule.NewService(store, metrics),
		Metrics:          metrics,
		Now:              time.Now,
		rateLimiter:      apimiddleware.NewRateLimiter(profile.RateLimitRPS, profile.RateLimitBurst),
		captureSemaphore: semaphore.NewWeighted(maxConcurrentCaptures),
	}

	// Initialize AI capture if enabled
	aiConfig := ai.NewConfigFromProfile(profile)
	if aiConfig.Enabled {
		if err := aiConfig.Validate(); err != nil {
			slog.Warn("AI capture disabled: invalid configuration", "error", err)
			return service
		}
		llmService, err := ai.NewLLMService(&aiConfig.LLM)
		if err != nil {
			slog.Warn("AI capture disabled: failed to create LLM service", "error", err)
			return service
		}
		service.CaptureService = ai.NewCaptureService(llmService)
	}

	return service
}

// RegisterRoutes registers the JSON API, health and metrics endpoints.
// Authenticated routes get the auth and rate limit middleware per route so
// that unknown paths and wrong methods are answered by the router.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	protected := []echo.MiddlewareFunc{
		auth.Middleware([]byte(s.Profile.JWTSecret)),
		apimiddleware.WorkspaceRateLimit(s.rateLimiter),
	}
	api := e.Group("/api")
	api.POST("/schedule/propose", s.ProposeSchedule, protected...)
	api.POST("/schedule/accept", s.AcceptProposal, protected...)
	api.GET("/preferences", s.GetPreferences, protected...)
	api.PUT("/preferences", s.UpdatePreferences, protected...)
	api.GET("/tasks", s.ListTasks, protected...)
	api.POST("/tasks", s.CreateTask, protected...)
	api.DELETE("/tasks/:id", s.DeleteTask, protected...)
	api.POST("/capture", s.Capture, protected...)
	api.GET("/system/metrics/overview", s.GetMetricsOverview, protected...)
}

// HealthResponse is the response body for GET /healthz.
type HealthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// Healthz reports liveness.
// GET /healthz
func (s *APIV1Service) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Success: true, Status: "ok"})
}

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HTTPErrorHandler renders every error as an ErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	appErr := toAppError(err)
	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Success: false, Error: appErr.Message})
	}
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

// toAppError maps domain and router errors onto API error codes.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound:
			return apperrors.NotFound("not found")
		case http.StatusMethodNotAllowed:
			return &apperrors.AppError{Code: apperrors.ErrCodeMethodNotAllowed, Message: "method not allowed"}
		case http.StatusUnauthorized:
			return apperrors.Unauthorized("unauthorized")
		case http.StatusTooManyRequests:
			return apperrors.RateLimitExceeded("too many requests")
		}
		if httpErr.Code >= http.StatusBadRequest && httpErr.Code < http.StatusInternalServerError {
			return apperrors.InvalidArgument(http.StatusText(httpErr.Code))
		}
		return apperrors.Internal("internal server error", err)
	}

	switch {
	case errors.Is(err, schedule.ErrInvalidArgument):
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidArgument, err.Error())
	case errors.Is(err, schedule.ErrScheduleConflict):
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, err.Error())
	case errors.Is(err, schedule.ErrTaskNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, err.Error())
	case errors.Is(err, ai.ErrEmptyCapture):
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidArgument, err.Error())
	}
	return apperrors.Internal("internal server error", err)
}

// workspaceFrom returns the authenticated identity of the request.
func workspaceFrom(c echo.Context) (*auth.Identity, error) {
	identity := auth.GetIdentity(c.Request().Context())
	if identity == nil || identity.WorkspaceID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}
	return identity, nil
}

func bindJSON(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}
	return nil
}
