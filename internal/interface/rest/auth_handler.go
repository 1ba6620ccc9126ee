package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sarathaj/User-Management/internal/application/command"
)

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.Request().Context(), &command.RegisterUserCommand{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FullName:        req.FullName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), &command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	result, err := h.auth.Refresh(c.Request().Context(), &command.RefreshTokenCommand{Refresh: req.Refresh})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Logout(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := h.auth.Logout(c.Request().Context(), &command.LogoutCommand{
		UserID:  identity.UserID,
		Refresh: req.Refresh,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully logged out"})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.ResetPassword(c.Request().Context(), &command.ResetPasswordCommand{
		UserID:             identity.UserID,
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}
