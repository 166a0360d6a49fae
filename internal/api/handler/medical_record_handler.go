package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/core/ports"
)

type MedicalRecordHandler struct {
	service ports.MedicalRecordService
}

func NewMedicalRecordHandler(service ports.MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{service: service}
}

// Create handles POST /medical-records.
//
// @Summary      Add a medical record
// @Tags         medical-records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRecordRequest  true  "Record"
// @Success      201   {object}  domain.MedicalRecord
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /medical-records [post]
func (h *MedicalRecordHandler) Create(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req createRecordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	record, err := h.service.Create(c.Request().Context(), account, ports.CreateRecordInput{
		PatientID:  req.PatientID,
		RecordType: req.RecordType,
		Title:      req.Title,
		Metadata:   req.Metadata,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}

// List handles GET /medical-records. Patients always get their own records;
// staff must name the patient.
//
// @Summary      List medical records
// @Tags         medical-records
// @Produce      json
// @Security     BearerAuth
// @Param        patient_id  query     string  false  "Patient id (required for doctors and admins)"
// @Param        skip        query     int     false  "Offset"
// @Param        limit       query     int     false  "Page size (max 200)"
// @Success      200         {object}  pageResponse[domain.MedicalRecord]
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /medical-records [get]
func (h *MedicalRecordHandler) List(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var filter ports.RecordFilter
	err = echo.QueryParamsBinder(c).
		String("patient_id", &filter.PatientID).
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

// Get handles GET /medical-records/:id.
//
// @Summary      Get a medical record
// @Tags         medical-records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  domain.MedicalRecord
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /medical-records/{id} [get]
func (h *MedicalRecordHandler) Get(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	record, err := h.service.Get(c.Request().Context(), account, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}
