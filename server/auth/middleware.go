package auth

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	apperrors "github.com/flowstate-app/flowstate/server/internal/errors"
	"github.com/flowstate-app/flowstate/server/internal/observability"
)

// Middleware rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := ExtractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return apperrors.Unauthorized("missing bearer token")
			}
			claims, err := Parse(secret, token)
			if err != nil {
				slog.Debug("rejecting bearer token", "error", err)
				return apperrors.Unauthorized("invalid bearer token")
			}

			identity := IdentityFromClaims(claims)
			ctx := SetIdentityInContext(c.Request().Context(), identity)
			if reqCtx, ok := observability.FromContext(ctx); ok {
				reqCtx.UserID = identity.UserID
				reqCtx.WorkspaceID = identity.WorkspaceID
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
