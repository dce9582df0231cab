package services

import (
	"context"
	"fmt"
	"log"

	"sewlovely/internal/common"
	"sewlovely/internal/models"
	"sewlovely/internal/repositories"

	"github.com/google/uuid"
)

// DisburseResult is the outcome of a commission disbursement. AlreadyDisbursed
// marks the retry-safe no-op case: the ledger entry existed before this call.
type DisburseResult struct {
	Transaction      *models.Transaction `json:"transaction"`
	AlreadyDisbursed bool                `json:"already_disbursed"`
}

// CommissionServiceInterface settles partner commission exactly once per paid
// invoice.
type CommissionServiceInterface interface {
	Disburse(ctx context.Context, surveyID uuid.UUID) (*DisburseResult, error)
}

type commissionService struct {
	db              repositories.TxDatabase
	surveyRepo      repositories.SurveyRepository
	invoiceRepo     repositories.InvoiceRepository
	transactionRepo repositories.TransactionRepository
	settingsRepo    repositories.SettingsRepository
}

// NewCommissionService creates a new commission settlement service
func NewCommissionService(db repositories.TxDatabase, surveyRepo repositories.SurveyRepository,
	invoiceRepo repositories.InvoiceRepository, transactionRepo repositories.TransactionRepository,
	settingsRepo repositories.SettingsRepository) CommissionServiceInterface {
	return &commissionService{
		db:              db,
		surveyRepo:      surveyRepo,
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		settingsRepo:    settingsRepo,
	}
}

// commissionAmount rounds half-up to the smallest currency unit using integer
// arithmetic, so 333 * 5% settles as 17 and never silently truncates.
func commissionAmount(totalAmount int64, percentage int) int64 {
	return (totalAmount*int64(percentage) + 50) / 100
}

// Disburse computes and pays the commission for a finished survey. The ledger
// insert and the commission_paid flag flip happen in one database transaction:
// a ledger entry without the flag, or the flag without an entry, cannot occur.
func (s *commissionService) Disburse(ctx context.Context, surveyID uuid.UUID) (*DisburseResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin disbursement: %w", err)
	}
	defer tx.Rollback(ctx)

	surveyRepo := s.surveyRepo.WithTx(tx)
	invoiceRepo := s.invoiceRepo.WithTx(tx)
	transactionRepo := s.transactionRepo.WithTx(tx)

	survey, err := surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, fmt.Errorf("survey %s: %w", surveyID, common.ErrNotFound)
	}
	if survey.Status != models.SurveyStatusDone {
		return nil, fmt.Errorf("survey %s is %s: %w", surveyID, survey.Status, common.ErrSurveyNotDone)
	}
	if survey.PartnerID == nil {
		return nil, fmt.Errorf("survey %s: %w", surveyID, common.ErrSurveyWithoutPartner)
	}

	payable, err := invoiceRepo.GetPayableBySurveyID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	switch {
	case len(payable) == 0:
		return nil, fmt.Errorf("survey %s: %w", surveyID, common.ErrNoPayableInvoice)
	case len(payable) > 1:
		return nil, fmt.Errorf("survey %s has %d paid invoices: %w", surveyID, len(payable), common.ErrMultiplePayableInvoices)
	}

	invoice, err := invoiceRepo.GetByIDForUpdate(ctx, payable[0].ID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("invoice %s: %w", payable[0].ID, common.ErrNotFound)
	}

	if invoice.CommissionPaid {
		existing, err := transactionRepo.GetCommissionByInvoiceID(ctx, invoice.ID)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit disbursement: %w", err)
		}
		return &DisburseResult{Transaction: existing, AlreadyDisbursed: true}, nil
	}

	percentage, err := s.settingsRepo.GetCommissionPercentage(ctx)
	if err != nil {
		return nil, fmt.Errorf("read commission percentage: %w", err)
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		PartnerID:   *survey.PartnerID,
		InvoiceID:   &invoice.ID,
		Type:        models.TransactionTypeCommission,
		Amount:      commissionAmount(invoice.TotalAmount, percentage),
		Status:      models.TransactionStatusSuccess,
		Description: fmt.Sprintf("Commission %d%% for invoice %s", percentage, invoice.InvoiceNumber),
	}

	if err := transactionRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create commission transaction: %w", err)
	}

	rows, err := invoiceRepo.MarkCommissionPaidIf(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("mark commission paid: %w", err)
	}
	if rows == 0 {
		// Row was locked FOR UPDATE, so this only fires if the invoice left
		// the paid state underneath us.
		return nil, fmt.Errorf("invoice %s: %w", invoice.InvoiceNumber, common.ErrPreconditionFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit disbursement: %w", err)
	}

	log.Printf("Disbursed commission %d to partner %s for invoice %s", txn.Amount, txn.PartnerID, invoice.InvoiceNumber)

	return &DisburseResult{Transaction: txn}, nil
}
