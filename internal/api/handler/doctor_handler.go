package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/core/ports"
)

// DoctorHandler handles HTTP requests for doctor profiles.
type DoctorHandler struct {
	service ports.DoctorService
}

func NewDoctorHandler(service ports.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// List handles GET /doctors.
//
// @Summary      List doctors
// @Tags         doctors
// @Produce      json
// @Param        q      query     string  false  "Case-insensitive match on name or specialization"
// @Param        skip   query     int     false  "Offset"
// @Param        limit  query     int     false  "Page size (max 200)"
// @Success      200    {object}  pageResponse[domain.DoctorProfile]
// @Router       /doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
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

// Get handles GET /doctors/:id.
//
// @Summary      Get a doctor
// @Tags         doctors
// @Produce      json
// @Param        id   path      string  true  "Doctor id"
// @Success      200  {object}  domain.DoctorProfile
// @Failure      404  {object}  errorResponse
// @Router       /doctors/{id} [get]
func (h *DoctorHandler) Get(c echo.Context) error {
	d, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Mine handles GET /doctors/me.
//
// @Summary      Get own doctor profile
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.DoctorProfile
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /doctors/me [get]
func (h *DoctorHandler) Mine(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	d, err := h.service.Mine(c.Request().Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Create handles POST /doctors.
//
// @Summary      Create a doctor profile for an existing account
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDoctorRequest  true  "Profile"
// @Success      201   {object}  domain.DoctorProfile
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /doctors [post]
func (h *DoctorHandler) Create(c echo.Context) error {
	var req createDoctorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	d, err := h.service.Create(c.Request().Context(), ports.CreateDoctorInput{
		AccountID:    req.AccountID,
		DoctorUpdate: req.toUpdate(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

// Update handles PATCH /doctors/:id.
//
// @Summary      Update a doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Doctor id"
// @Param        body  body      doctorRequest  true  "Fields to change"
// @Success      200   {object}  domain.DoctorProfile
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /doctors/{id} [patch]
func (h *DoctorHandler) Update(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req doctorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	d, err := h.service.Update(c.Request().Context(), account, c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateMine handles PATCH /doctors/me.
//
// @Summary      Update own doctor profile
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      doctorRequest  true  "Fields to change"
// @Success      200   {object}  domain.DoctorProfile
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /doctors/me [patch]
func (h *DoctorHandler) UpdateMine(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req doctorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	d, err := h.service.UpdateMine(c.Request().Context(), account, req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /doctors/:id.
//
// @Summary      Delete a doctor profile
// @Tags         doctors
// @Security     BearerAuth
// @Param        id   path  string  true  "Doctor id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /doctors/{id} [delete]
func (h *DoctorHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
