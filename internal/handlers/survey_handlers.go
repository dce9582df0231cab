package handlers

import (
	"net/http"
	"strconv"

	"sewlovely/internal/common"
	"sewlovely/internal/models"
	"sewlovely/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SurveyHandlers handles HTTP requests for surveys
type SurveyHandlers struct {
	surveyService services.SurveyServiceInterface
}

// NewSurveyHandlers creates a new survey handlers instance
func NewSurveyHandlers(surveyService services.SurveyServiceInterface) *SurveyHandlers {
	return &SurveyHandlers{surveyService: surveyService}
}

// CreateSurvey handles POST /surveys
func (h *SurveyHandlers) CreateSurvey(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		PartnerID      *string `json:"partner_id"`
		CustomerName   string  `json:"customer_name"`
		CustomerPhone  string  `json:"customer_phone"`
		Address        string  `json:"address"`
		CalculatorType string  `json:"calculator_type"`
		Notes          *string `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	survey := &models.Survey{
		ID:             uuid.New(),
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Address:        req.Address,
		CalculatorType: req.CalculatorType,
		Notes:          req.Notes,
	}

	if req.PartnerID != nil && *req.PartnerID != "" {
		partnerID, err := common.ValidateUUID(*req.PartnerID, "partner_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		survey.PartnerID = &partnerID
	}

	if err := h.surveyService.CreateSurvey(ctx, survey); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, survey)
}

// GetSurvey handles GET /surveys/:id
func (h *SurveyHandlers) GetSurvey(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	survey, err := h.surveyService.GetSurveyByID(ctx, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, survey)
}

// ListSurveys handles GET /surveys
func (h *SurveyHandlers) ListSurveys(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	var (
		surveys []*models.Survey
		err     error
	)
	switch {
	case c.QueryParam("partner_id") != "":
		partnerID, vErr := common.ValidateUUID(c.QueryParam("partner_id"), "partner_id")
		if vErr != nil {
			return common.SendClientError(c, vErr.Error())
		}
		surveys, err = h.surveyService.ListSurveysByPartner(ctx, partnerID, limit, offset)
	case c.QueryParam("status") != "":
		surveys, err = h.surveyService.ListSurveysByStatus(ctx, c.QueryParam("status"), limit, offset)
	default:
		surveys, err = h.surveyService.ListSurveys(ctx, limit, offset)
	}
	if err != nil {
		return common.SendServerError(c, "Failed to list surveys")
	}
	return c.JSON(http.StatusOK, surveys)
}

// TransitionSurvey handles POST /surveys/:id/status
func (h *SurveyHandlers) TransitionSurvey(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		TargetStatus string `json:"target_status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.TargetStatus, "target_status"); err != nil {
		return common.SendClientError(c, err.Error())
	}

	survey, err := h.surveyService.Transition(ctx, id, req.TargetStatus)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, survey)
}

// UpdateSurveyNotes handles PATCH /surveys/:id/notes
func (h *SurveyHandlers) UpdateSurveyNotes(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	survey, err := h.surveyService.UpdateSurveyNotes(ctx, id, req.Notes)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, survey)
}

func paginationParams(c echo.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}
