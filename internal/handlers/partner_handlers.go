package handlers

import (
	"net/http"

	"sewlovely/internal/common"
	"sewlovely/internal/models"
	"sewlovely/internal/repositories"
	"sewlovely/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PartnerHandlers handles HTTP requests for partners
type PartnerHandlers struct {
	partnerRepo       repositories.PartnerRepository
	withdrawalService services.WithdrawalServiceInterface
}

// NewPartnerHandlers creates a new partner handlers instance
func NewPartnerHandlers(partnerRepo repositories.PartnerRepository, withdrawalService services.WithdrawalServiceInterface) *PartnerHandlers {
	return &PartnerHandlers{
		partnerRepo:       partnerRepo,
		withdrawalService: withdrawalService,
	}
}

// CreatePartner handles POST /partners
func (h *PartnerHandlers) CreatePartner(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		BankName    string `json:"bank_name"`
		BankAccount string `json:"bank_account"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendClientError(c, err.Error())
	}

	partner := &models.Partner{
		ID:          uuid.New(),
		Name:        req.Name,
		Phone:       req.Phone,
		BankName:    req.BankName,
		BankAccount: req.BankAccount,
	}
	if err := h.partnerRepo.Create(ctx, partner); err != nil {
		return common.SendServerError(c, "Failed to create partner")
	}
	return c.JSON(http.StatusCreated, partner)
}

// ListPartners handles GET /partners
func (h *PartnerHandlers) ListPartners(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	partners, err := h.partnerRepo.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list partners")
	}
	return c.JSON(http.StatusOK, partners)
}

// UpdatePartner handles PUT /partners/:id
func (h *PartnerHandlers) UpdatePartner(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	partner, err := h.partnerRepo.GetByID(ctx, id)
	if err != nil {
		return common.SendServerError(c, "Failed to load partner")
	}
	if partner == nil {
		return common.SendNotFoundError(c, "partner")
	}

	var req struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		BankName    string `json:"bank_name"`
		BankAccount string `json:"bank_account"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendClientError(c, err.Error())
	}

	partner.Name = req.Name
	partner.Phone = req.Phone
	partner.BankName = req.BankName
	partner.BankAccount = req.BankAccount
	if err := h.partnerRepo.Update(ctx, partner); err != nil {
		return common.SendServerError(c, "Failed to update partner")
	}
	return c.JSON(http.StatusOK, partner)
}

// GetPartnerBalance handles GET /partners/:id/balance. Always derived live
// from the transaction history.
func (h *PartnerHandlers) GetPartnerBalance(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	balance, err := h.withdrawalService.GetPartnerBalance(ctx, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, balance)
}

// ListPartnerTransactions handles GET /partners/:id/transactions
func (h *PartnerHandlers) ListPartnerTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	limit, offset := paginationParams(c)

	txns, err := h.withdrawalService.ListPartnerTransactions(ctx, id, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list transactions")
	}
	return c.JSON(http.StatusOK, txns)
}
