package rest

import (
	"log"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sarathaj/User-Management/internal/apperrors"
	"github.com/sarathaj/User-Management/internal/application/common"
	"github.com/sarathaj/User-Management/internal/application/interfaces"
)

const identityKey = "identity"

// RequireAuth resolves the bearer access token and stores the caller's
// identity on the context. Handlers behind it read it with identityFrom.
func RequireAuth(auth interfaces.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return apperrors.Unauthorized("Authentication credentials were not provided.")
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return apperrors.Unauthorized("Authorization header must contain two space-delimited values")
			}

			identity, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return err
			}
			c.Set(identityKey, *identity)
			return next(c)
		}
	}
}

// identityFrom returns the identity set by RequireAuth.
func identityFrom(c echo.Context) (common.Identity, error) {
	identity, ok := c.Get(identityKey).(common.Identity)
	if !ok {
		return common.Identity{}, apperrors.Unauthorized("Authentication credentials were not provided.")
	}
	return identity, nil
}

// requestLogger logs one line per request in the service log.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s %d %s id=%s err=%v", v.Method, v.URI, v.Status, v.Latency.Round(time.Microsecond), v.RequestID, v.Error)
				return nil
			}
			log.Printf("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency.Round(time.Microsecond), v.RequestID)
			return nil
		},
	})
}
