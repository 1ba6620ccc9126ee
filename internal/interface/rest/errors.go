package rest

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sarathaj/User-Management/internal/apperrors"
)

// statusFor maps each application error kind to its HTTP status.
var statusFor = map[apperrors.Kind]int{
	apperrors.KindValidation:         http.StatusBadRequest,
	apperrors.KindInvalidCredentials: http.StatusBadRequest,
	apperrors.KindBadRequest:         http.StatusBadRequest,
	apperrors.KindUnauthorized:       http.StatusUnauthorized,
	apperrors.KindNotFound:           http.StatusNotFound,
	apperrors.KindTooManyRequests:    http.StatusTooManyRequests,
}

// ErrorHandler writes every error returned by a handler as JSON.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	if status == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

func errorResponse(err error) (int, any) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status, ok := statusFor[appErr.Kind]
		if !ok {
			return http.StatusInternalServerError, echo.Map{"detail": "Internal server error"}
		}
		switch appErr.Kind {
		case apperrors.KindValidation:
			return status, appErr.Fields
		case apperrors.KindInvalidCredentials:
			return status, echo.Map{apperrors.NonFieldErrors: []string{appErr.Message}}
		case apperrors.KindBadRequest:
			return status, echo.Map{"error": appErr.Message}
		default:
			return status, echo.Map{"detail": appErr.Message}
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := he.Message
		if s, ok := msg.(string); ok {
			return he.Code, echo.Map{"detail": s}
		}
		if e, ok := msg.(error); ok {
			return he.Code, echo.Map{"detail": e.Error()}
		}
		return he.Code, echo.Map{"detail": fmt.Sprint(msg)}
	}

	return http.StatusInternalServerError, echo.Map{"detail": "Internal server error"}
}
