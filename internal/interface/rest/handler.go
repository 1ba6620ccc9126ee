package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sarathaj/User-Management/internal/application/interfaces"
)

// Handler exposes the application services over HTTP.
type Handler struct {
	auth     interfaces.AuthService
	profiles interfaces.ProfileService
	tasks    interfaces.TaskService
}

func NewHandler(auth interfaces.AuthService, profiles interfaces.ProfileService, tasks interfaces.TaskService) *Handler {
	return &Handler{auth: auth, profiles: profiles, tasks: tasks}
}

type RouterConfig struct {
	Prefix         string
	MaxUploadBytes int64
}

// NewRouter builds the echo instance with every route mounted under
// cfg.Prefix. Trailing slashes are optional.
func NewRouter(cfg RouterConfig, h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewRequestValidator()

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	if cfg.MaxUploadBytes > 0 {
		// multipart framing on top of the file itself
		e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxUploadBytes + 1<<20)))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group(strings.TrimRight(cfg.Prefix, "/"))

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/token/refresh", h.RefreshToken)

	protected := authGroup.Group("", RequireAuth(h.auth))
	protected.POST("/logout", h.Logout)
	protected.GET("/profile", h.GetProfile)
	protected.PUT("/profile", h.ReplaceProfile)
	protected.PATCH("/profile", h.PatchProfile)
	protected.POST("/reset-password", h.ResetPassword)

	tasks := api.Group("/tasks", RequireAuth(h.auth))
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.CreateTask)
	tasks.GET("/recent", h.RecentTasks)
	tasks.DELETE("/delete-all", h.DeleteAllTasks)
	tasks.GET("/:id", h.GetTask)
	tasks.PUT("/:id", h.ReplaceTask)
	tasks.PATCH("/:id", h.PatchTask)
	tasks.DELETE("/:id", h.DeleteTask)
	tasks.POST("/:id/duplicate", h.DuplicateTask)

	return e
}

// bodyLimit renders n in the unit syntax BodyLimit expects.
func bodyLimit(n int64) string {
	const mb = 1 << 20
	if n%mb == 0 {
		return strconv.FormatInt(n/mb, 10) + "M"
	}
	kb := (n + 1023) / 1024
	return strconv.FormatInt(kb, 10) + "K"
}
