package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/core/ports"
)

// PatientHandler handles HTTP requests for patient profiles.
type PatientHandler struct {
	service ports.PatientService
}

func NewPatientHandler(service ports.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// List handles GET /patients.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Case-insensitive match on name"
// @Param        skip   query     int     false  "Offset"
// @Param        limit  query     int     false  "Page size (max 200)"
// @Success      200    {object}  pageResponse[domain.PatientProfile]
// @Failure      403    {object}  errorResponse
// @Router       /patients [get]
func (h *PatientHandler) List(c echo.Context) error {
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

// Get handles GET /patients/:id.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Patient id"
// @Success      200  {object}  domain.PatientProfile
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /patients/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Mine handles GET /patients/me.
//
// @Summary      Get own patient profile
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PatientProfile
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /patients/me [get]
func (h *PatientHandler) Mine(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	p, err := h.service.Mine(c.Request().Context(), account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /patients.
//
// @Summary      Create a patient profile for an existing account
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Profile"
// @Success      201   {object}  domain.PatientProfile
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var req createPatientRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), ports.CreatePatientInput{
		AccountID:     req.AccountID,
		PatientUpdate: req.toUpdate(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PATCH /patients/:id.
//
// @Summary      Update a patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Patient id"
// @Param        body  body      patientRequest  true  "Fields to change"
// @Success      200   {object}  domain.PatientProfile
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /patients/{id} [patch]
func (h *PatientHandler) Update(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req patientRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), account, c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateMine handles PATCH /patients/me.
//
// @Summary      Update own patient profile
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      patientRequest  true  "Fields to change"
// @Success      200   {object}  domain.PatientProfile
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /patients/me [patch]
func (h *PatientHandler) UpdateMine(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req patientRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.service.UpdateMine(c.Request().Context(), account, req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /patients/:id.
//
// @Summary      Delete a patient profile
// @Tags         patients
// @Security     BearerAuth
// @Param        id   path  string  true  "Patient id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
