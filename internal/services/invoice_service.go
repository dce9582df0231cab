package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"sewlovely/internal/common"
	"sewlovely/internal/models"
	"sewlovely/internal/repositories"

	"github.com/google/uuid"
)

// ApprovalResult carries the approved invoice plus a non-fatal warning when
// the survey cascade could not be applied. Invoice approval never rolls back
// because of the linked survey's state.
type ApprovalResult struct {
	Invoice         *models.Invoice `json:"invoice"`
	CascadeWarning  string          `json:"cascade_warning,omitempty"`
	SurveyCascaded  bool            `json:"survey_cascaded"`
}

// InvoiceServiceInterface defines the interface for invoice payment approval
type InvoiceServiceInterface interface {
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	ListInvoicesByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Invoice, error)
	GetInvoicesBySurveyID(ctx context.Context, surveyID uuid.UUID) ([]*models.Invoice, error)
	Approve(ctx context.Context, id uuid.UUID, proofRef *string) (*ApprovalResult, error)
	Reject(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	surveySvc   SurveyServiceInterface
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, surveySvc SurveyServiceInterface) InvoiceServiceInterface {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		surveySvc:   surveySvc,
	}
}

// CreateInvoice records an invoice produced by a finalized calculator session.
func (s *invoiceService) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if invoice.TotalAmount <= 0 {
		return fmt.Errorf("total amount must be positive")
	}

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.PaymentStatus = models.PaymentStatusPending
	invoice.CommissionPaid = false
	invoice.CreatedAt = time.Now()
	invoice.UpdatedAt = time.Now()

	if invoice.InvoiceNumber == "" {
		invoiceNumber, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, invoice.CreatedAt)
		if err != nil {
			return fmt.Errorf("generate invoice number: %w", err)
		}
		invoice.InvoiceNumber = invoiceNumber
	}

	return s.invoiceRepo.Create(ctx, invoice)
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("invoice %s: %w", id, common.ErrNotFound)
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, limit, offset)
}

func (s *invoiceService) ListInvoicesByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListByPaymentStatus(ctx, status, limit, offset)
}

func (s *invoiceService) GetInvoicesBySurveyID(ctx context.Context, surveyID uuid.UUID) ([]*models.Invoice, error) {
	return s.invoiceRepo.GetBySurveyID(ctx, surveyID)
}

// Approve confirms payment on a pending invoice. A proof reference must be
// supplied in the call or already stored on the record. After the invoice is
// marked paid, the linked survey (if any) is moved to installation; a cascade
// failure is reported as a warning on the result, not as an error, because
// the payment confirmation must not block on the survey workflow.
func (s *invoiceService) Approve(ctx context.Context, id uuid.UUID, proofRef *string) (*ApprovalResult, error) {
	invoice, err := s.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.PaymentStatus != models.PaymentStatusPending {
		return nil, fmt.Errorf("invoice %s is %s: %w", invoice.InvoiceNumber, invoice.PaymentStatus, common.ErrAlreadyFinalized)
	}

	proof := common.SafeString(proofRef)
	if proof == "" {
		proof = common.SafeString(invoice.PaymentProof)
	}
	if proof == "" {
		return nil, fmt.Errorf("invoice %s: %w", invoice.InvoiceNumber, common.ErrProofRequired)
	}

	rows, err := s.invoiceRepo.MarkPaidIf(ctx, id, proof)
	if err != nil {
		return nil, fmt.Errorf("mark invoice paid: %w", err)
	}
	if rows == 0 {
		// Another admin finalized it between our read and the write.
		return nil, fmt.Errorf("invoice %s: %w", invoice.InvoiceNumber, common.ErrAlreadyFinalized)
	}

	now := time.Now()
	invoice.PaymentStatus = models.PaymentStatusPaid
	invoice.PaymentProof = &proof
	invoice.PaidAt = &now
	invoice.UpdatedAt = now

	result := &ApprovalResult{Invoice: invoice}

	if invoice.SurveyID != nil {
		if err := s.surveySvc.CascadeToInstallation(ctx, *invoice.SurveyID); err != nil {
			result.CascadeWarning = fmt.Sprintf("invoice approved but survey %s was not moved to installation: %v", invoice.SurveyID, err)
			log.Printf("WARN: %s", result.CascadeWarning)
		} else {
			result.SurveyCascaded = true
		}
	}

	return result, nil
}

// Reject cancels a pending invoice. No cascade.
func (s *invoiceService) Reject(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.PaymentStatus != models.PaymentStatusPending {
		return nil, fmt.Errorf("invoice %s is %s: %w", invoice.InvoiceNumber, invoice.PaymentStatus, common.ErrAlreadyFinalized)
	}

	rows, err := s.invoiceRepo.MarkCancelledIf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark invoice cancelled: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("invoice %s: %w", invoice.InvoiceNumber, common.ErrAlreadyFinalized)
	}

	invoice.PaymentStatus = models.PaymentStatusCancelled
	invoice.UpdatedAt = time.Now()
	return invoice, nil
}
