package handlers

import (
	"net/http"

	"sewlovely/internal/common"
	"sewlovely/internal/services"

	"github.com/labstack/echo/v4"
)

// WithdrawalHandlers handles HTTP requests for partner withdrawals
type WithdrawalHandlers struct {
	withdrawalService services.WithdrawalServiceInterface
	proofStorage      services.ProofStorage
}

// NewWithdrawalHandlers creates a new withdrawal handlers instance
func NewWithdrawalHandlers(withdrawalService services.WithdrawalServiceInterface, proofStorage services.ProofStorage) *WithdrawalHandlers {
	return &WithdrawalHandlers{
		withdrawalService: withdrawalService,
		proofStorage:      proofStorage,
	}
}

// RequestWithdrawal handles POST /withdrawals
func (h *WithdrawalHandlers) RequestWithdrawal(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		PartnerID   string `json:"partner_id"`
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	partnerID, err := common.ValidateUUID(req.PartnerID, "partner_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if req.Amount <= 0 {
		return common.SendValidationError(c, "amount", "must be a positive amount in the smallest currency unit")
	}

	txn, err := h.withdrawalService.Request(ctx, partnerID, req.Amount, req.Description)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, txn)
}

// ListPendingWithdrawals handles GET /withdrawals/pending
func (h *WithdrawalHandlers) ListPendingWithdrawals(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	txns, err := h.withdrawalService.ListPendingWithdrawals(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list withdrawals")
	}
	return c.JSON(http.StatusOK, txns)
}

// ApproveWithdrawal handles POST /withdrawals/:id/approve. Accepts an optional
// multipart transfer proof or a proof_ref field.
func (h *WithdrawalHandlers) ApproveWithdrawal(c echo.Context) error {
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

		objectKey, err := h.proofStorage.UploadProof(ctx, "transfer", src, file.Size, file.Header.Get("Content-Type"))
		if err != nil {
			return common.SendServerError(c, "Failed to store proof upload")
		}
		proofRef = &objectKey
	} else if ref := c.FormValue("proof_ref"); ref != "" {
		proofRef = &ref
	}

	txn, err := h.withdrawalService.Approve(ctx, id, proofRef)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}

// RejectWithdrawal handles POST /withdrawals/:id/reject
func (h *WithdrawalHandlers) RejectWithdrawal(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	txn, err := h.withdrawalService.Reject(ctx, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}
