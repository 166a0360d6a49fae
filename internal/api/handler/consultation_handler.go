package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/core/ports"
)

// ConsultationHandler handles HTTP requests for consultations. Scoping to
// the caller's own consultations happens in the service.
type ConsultationHandler struct {
	service ports.ConsultationService
}

func NewConsultationHandler(service ports.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

// Create handles POST /consultations.
//
// @Summary      Book a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createConsultationRequest  true  "Booking"
// @Success      201   {object}  domain.Consultation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /consultations [post]
func (h *ConsultationHandler) Create(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req createConsultationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.ScheduledAt.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "scheduled_at is required")
	}

	created, err := h.service.Create(c.Request().Context(), account, ports.CreateConsultationInput{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// List handles GET /consultations.
//
// @Summary      List consultations
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        patient_id  query     string  false  "Filter by patient (admin only)"
// @Param        doctor_id   query     string  false  "Filter by doctor (admin only)"
// @Param        skip        query     int     false  "Offset"
// @Param        limit       query     int     false  "Page size (max 200)"
// @Success      200         {object}  pageResponse[domain.Consultation]
// @Failure      401         {object}  errorResponse
// @Router       /consultations [get]
func (h *ConsultationHandler) List(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var filter ports.ConsultationFilter
	err = echo.QueryParamsBinder(c).
		String("patient_id", &filter.PatientID).
		String("doctor_id", &filter.DoctorID).
		Int("skip", &filter.Skip).
		Int("limit", &filter.Limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	page, err := h.service.List(c.Request().Context(), account, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPageResponse(page))
}

// Get handles GET /consultations/:id.
//
// @Summary      Get a consultation
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Consultation id"
// @Success      200  {object}  domain.Consultation
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /consultations/{id} [get]
func (h *ConsultationHandler) Get(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	consultation, err := h.service.Get(c.Request().Context(), account, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, consultation)
}

// Update handles PATCH /consultations/:id.
//
// @Summary      Reschedule, annotate or advance a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Consultation id"
// @Param        body  body      updateConsultationRequest  true  "Fields to change"
// @Success      200   {object}  domain.Consultation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /consultations/{id} [patch]
func (h *ConsultationHandler) Update(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req updateConsultationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.service.Update(c.Request().Context(), account, c.Param("id"), req.toUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
