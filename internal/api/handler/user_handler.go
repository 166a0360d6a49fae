package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me returns the caller's account.
//
// @Summary      Get own account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateMe lets the caller change their display name.
//
// @Summary      Update own account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateSelfRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req updateSelfRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateSelf(c.Request().Context(), account, req.FullName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// List searches accounts by email or name.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Case-insensitive match on email or full name"
// @Param        skip   query     int     false  "Offset"
// @Param        limit  query     int     false  "Page size (max 200)"
// @Success      200    {object}  pageResponse[domain.Account]
// @Failure      403    {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter, err := bindListFilter(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page))
}

// Update changes another account's name or active flag.
//
// @Summary      Update an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.AccountUpdate{
		FullName: req.FullName,
		Active:   req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
