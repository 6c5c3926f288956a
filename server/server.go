// Package server assembles the FlowState HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/flowstate-app/flowstate/internal/profile"
	"github.com/flowstate-app/flowstate/server/internal/observability"
	apimiddleware "github.com/flowstate-app/flowstate/server/middleware"
	apiv1 "github.com/flowstate-app/flowstate/server/router/api/v1"
	"github.com/flowstate-app/flowstate/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	apiV1      *apiv1.APIV1Service
}

func NewServer(_ context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Store:   store,
		Profile: profile,
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.HTTPErrorHandler = apiv1.HTTPErrorHandler
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestID())
	echoServer.Use(apimiddleware.RequestContext(slog.Default()))
	s.echoServer = echoServer

	s.apiV1 = apiv1.NewAPIV1Service(profile, store, observability.GlobalMetrics())
	s.apiV1.RegisterRoutes(echoServer)

	return s, nil
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start(_ context.Context) error {
	address := net.JoinHostPort(s.Profile.Addr, fmt.Sprintf("%d", s.Profile.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.echoServer.Listener = listener

	slog.Info("flowstate server started",
		"address", address,
		"mode", s.Profile.Mode,
		"driver", s.Profile.Driver,
		"ai_capture", s.apiV1.CaptureService != nil,
	)
	if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}
	slog.Info("flowstate stopped properly")
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}
