package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sewlovely/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	// GetByIDForUpdate locks the invoice row for the duration of the enclosing
	// transaction. Only meaningful on a repository bound via WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	ListByPaymentStatus(ctx context.Context, status string, limit, offset int) ([]*models.Invoice, error)
	GetBySurveyID(ctx context.Context, surveyID uuid.UUID) ([]*models.Invoice, error)
	GetPayableBySurveyID(ctx context.Context, surveyID uuid.UUID) ([]*models.Invoice, error)
	// MarkPaidIf approves the invoice only while it is still pending.
	MarkPaidIf(ctx context.Context, id uuid.UUID, proof string) (int64, error)
	// MarkCancelledIf rejects the invoice only while it is still pending.
	MarkCancelledIf(ctx context.Context, id uuid.UUID) (int64, error)
	// MarkCommissionPaidIf flips the once-only disbursement flag. Zero rows
	// means the invoice is not paid or was already disbursed.
	MarkCommissionPaidIf(ctx context.Context, id uuid.UUID) (int64, error)
	GenerateInvoiceNumber(ctx context.Context, issuedDate time.Time) (string, error)
	WithTx(tx pgx.Tx) InvoiceRepository
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) WithTx(tx pgx.Tx) InvoiceRepository {
	return &invoiceRepo{db: tx}
}

const invoiceColumns = `id, invoice_number, survey_id, partner_id, total_amount, payment_status, payment_proof, commission_paid, created_at, paid_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := row.Scan(&invoice.ID, &invoice.InvoiceNumber, &invoice.SurveyID, &invoice.PartnerID,
		&invoice.TotalAmount, &invoice.PaymentStatus, &invoice.PaymentProof, &invoice.CommissionPaid,
		&invoice.CreatedAt, &invoice.PaidAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_number, survey_id, partner_id, total_amount, payment_status, payment_proof, commission_paid, created_at, paid_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.InvoiceNumber, invoice.SurveyID, invoice.PartnerID,
		invoice.TotalAmount, invoice.PaymentStatus, invoice.PaymentProof, invoice.CommissionPaid, invoice.PaidAt)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1
	`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1
		FOR UPDATE
	`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func (r *invoiceRepo) ListByPaymentStatus(ctx context.Context, status string, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE payment_status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func (r *invoiceRepo) GetBySurveyID(ctx context.Context, surveyID uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE survey_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func (r *invoiceRepo) GetPayableBySurveyID(ctx context.Context, surveyID uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE survey_id = $1 AND payment_status = 'paid'
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func collectInvoices(rows pgx.Rows) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) MarkPaidIf(ctx context.Context, id uuid.UUID, proof string) (int64, error) {
	query := `
		UPDATE invoices
		SET payment_status = 'paid', payment_proof = $1, paid_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND payment_status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, proof, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invoiceRepo) MarkCancelledIf(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE invoices
		SET payment_status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invoiceRepo) MarkCommissionPaidIf(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		UPDATE invoices
		SET commission_paid = TRUE, updated_at = NOW()
		WHERE id = $1 AND payment_status = 'paid' AND commission_paid = FALSE
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GenerateInvoiceNumber generates a unique invoice number from a per-month
// sequence row.
func (r *invoiceRepo) GenerateInvoiceNumber(ctx context.Context, issuedDate time.Time) (string, error) {
	yearMonth := issuedDate.Format("2006-01")

	query := `
		WITH upsert AS (
			INSERT INTO invoice_sequences (year_month, last_number)
			VALUES ($1, 1)
			ON CONFLICT (year_month)
			DO UPDATE SET
				last_number = invoice_sequences.last_number + 1,
				updated_at = NOW()
			RETURNING last_number
		)
		SELECT last_number FROM upsert;
	`

	var sequenceNum int
	err := r.db.QueryRow(ctx, query, yearMonth).Scan(&sequenceNum)
	if err != nil {
		return "", fmt.Errorf("failed to generate invoice sequence: %w", err)
	}

	return fmt.Sprintf("INV-%s-%06d", yearMonth, sequenceNum), nil
}
