package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sarathaj/User-Management/internal/application/command"
)

func (h *Handler) GetProfile(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) ReplaceProfile(c echo.Context) error {
	return h.updateProfile(c, false)
}

func (h *Handler) PatchProfile(c echo.Context) error {
	return h.updateProfile(c, true)
}

func (h *Handler) updateProfile(c echo.Context, partial bool) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateProfile(c.Request().Context(), &command.UpdateProfileCommand{
		UserID:       identity.UserID,
		Email:        req.Email,
		FullName:     req.FullName,
		DateOfBirth:  req.DateOfBirth,
		Address:      req.Address,
		Gender:       req.Gender,
		MobileNumber: req.MobileNumber,
		Partial:      partial,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
