package handlers

import (
	"log"
	"net/http"
	"time"

	"sewlovely/internal/common"
	"sewlovely/internal/models"
	"sewlovely/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles HTTP requests for invoices
type InvoiceHandlers struct {
	invoiceService    services.InvoiceServiceInterface
	commissionService services.CommissionServiceInterface
	proofStorage      services.ProofStorage
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceServiceInterface,
	commissionService services.CommissionServiceInterface, proofStorage services.ProofStorage) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService:    invoiceService,
		commissionService: commissionService,
		proofStorage:      proofStorage,
	}
}

// CreateInvoice handles POST /invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		SurveyID    *string `json:"survey_id"`
		PartnerID   *string `json:"partner_id"`
		TotalAmount int64   `json:"total_amount"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.TotalAmount <= 0 {
		return common.SendValidationError(c, "total_amount", "must be a positive amount in the smallest currency unit")
	}

	invoice := &models.Invoice{
		ID:          uuid.New(),
		TotalAmount: req.TotalAmount,
	}

	if req.SurveyID != nil && *req.SurveyID != "" {
		surveyID, err := common.ValidateUUID(*req.SurveyID, "survey_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		invoice.SurveyID = &surveyID
	}
	if req.PartnerID != nil && *req.PartnerID != "" {
		partnerID, err := common.ValidateUUID(*req.PartnerID, "partner_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		invoice.PartnerID = &partnerID
	}

	if err := h.invoiceService.CreateInvoice(ctx, invoice); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetInvoiceByID(ctx, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	var (
		invoices []*models.Invoice
		err      error
	)
	if status := c.QueryParam("payment_status"); status != "" {
		invoices, err = h.invoiceService.ListInvoicesByStatus(ctx, status, limit, offset)
	} else {
		invoices, err = h.invoiceService.ListInvoices(ctx, limit, offset)
	}
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}
	return c.JSON(http.StatusOK, invoices)
}

// ListSurveyInvoices handles GET /surveys/:id/invoices
func (h *InvoiceHandlers) ListSurveyInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	surveyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoices, err := h.invoiceService.GetInvoicesBySurveyID(ctx, surveyID)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}
	return c.JSON(http.StatusOK, invoices)
}

// ApproveInvoice handles POST /invoices/:id/approve. The proof may arrive as
// a multipart file upload (stored in object storage, its key becomes the
// proof reference) or as an already-uploaded proof_ref field; if neither is
// present the record's existing proof is used.
func (h *InvoiceHandlers) ApproveInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var proofRef *string

	if file, err := c.FormFile("proof"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return common.SendServerError(c, "Failed to read proof upload")
		}
		defer src.Close()

		objectKey, err := h.proofStorage.UploadProof(ctx, "payment", src, file.Size, file.Header.Get("Content-Type"))
		if err != nil {
			return common.SendServerError(c, "Failed to store proof upload")
		}
		proofRef = &objectKey
	} else if ref := c.FormValue("proof_ref"); ref != "" {
		proofRef = &ref
	}

	result, err := h.invoiceService.Approve(ctx, id, proofRef)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// RejectInvoice handles POST /invoices/:id/reject
func (h *InvoiceHandlers) RejectInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.Reject(ctx, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// GetInvoiceProofURL handles GET /invoices/:id/proof
func (h *InvoiceHandlers) GetInvoiceProofURL(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetInvoiceByID(ctx, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	if common.SafeString(invoice.PaymentProof) == "" {
		return common.SendNotFoundError(c, "payment proof")
	}

	url, err := h.proofStorage.PresignedProofURL(*invoice.PaymentProof, 15*time.Minute)
	if err != nil {
		return common.SendServerError(c, "Failed to sign proof URL")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// DisburseCommission handles POST /surveys/:id/disburse
func (h *InvoiceHandlers) DisburseCommission(c echo.Context) error {
	ctx := c.Request().Context()

	surveyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	result, err := h.commissionService.Disburse(ctx, surveyID)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	if adminID, ok := common.GetAdminIDFromContext(ctx); ok && !result.AlreadyDisbursed {
		log.Printf("Admin %s disbursed commission for survey %s", adminID, surveyID)
	}
	return c.JSON(http.StatusOK, result)
}
