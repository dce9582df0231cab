package repositories

import (
	"context"
	"errors"

	"sewlovely/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	// GetByIDForUpdate locks the row inside the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetCommissionByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*models.Transaction, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*models.Transaction, error)
	ListByStatus(ctx context.Context, txnType, status string, limit, offset int) ([]*models.Transaction, error)
	// UpdateStatusIf moves a row out of the expected status, optionally storing
	// a proof reference. Zero rows affected means a concurrent update won.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, proof *string) (int64, error)
	// BalanceSummary derives a partner's balance from the full transaction
	// history in one aggregate query.
	BalanceSummary(ctx context.Context, partnerID uuid.UUID) (*models.PartnerBalance, error)
	// DisbursedInvoiceIDsWithoutLedgerRow reports invoices flagged
	// commission_paid that have no matching commission transaction.
	DisbursedInvoiceIDsWithoutLedgerRow(ctx context.Context) ([]uuid.UUID, error)
	// LedgerRowsWithoutDisbursedInvoice reports commission transactions whose
	// invoice is missing the commission_paid flag.
	LedgerRowsWithoutDisbursedInvoice(ctx context.Context) ([]uuid.UUID, error)
	WithTx(tx pgx.Tx) TransactionRepository
}

type transactionRepo struct {
	db Database
}

func NewTransactionRepo(db Database) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) WithTx(tx pgx.Tx) TransactionRepository {
	return &transactionRepo{db: tx}
}

const transactionColumns = `id, partner_id, invoice_id, type, amount, status, description, proof, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	txn := &models.Transaction{}
	err := row.Scan(&txn.ID, &txn.PartnerID, &txn.InvoiceID, &txn.Type, &txn.Amount,
		&txn.Status, &txn.Description, &txn.Proof, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *transactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, partner_id, invoice_id, type, amount, status, description, proof, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, txn.ID, txn.PartnerID, txn.InvoiceID, txn.Type,
		txn.Amount, txn.Status, txn.Description, txn.Proof)
	return err
}

func (r *transactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *transactionRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *transactionRepo) GetCommissionByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE invoice_id = $1 AND type = 'commission'
	`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, invoiceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *transactionRepo) ListByPartner(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE partner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, partnerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *transactionRepo) ListByStatus(ctx context.Context, txnType, status string, limit, offset int) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE type = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, txnType, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (r *transactionRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, fromStatus, toStatus string, proof *string) (int64, error) {
	query := `
		UPDATE transactions
		SET status = $1, proof = COALESCE($2, proof), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	tag, err := r.db.Exec(ctx, query, toStatus, proof, id, fromStatus)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *transactionRepo) BalanceSummary(ctx context.Context, partnerID uuid.UUID) (*models.PartnerBalance, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'commission' AND status = 'success'), 0) AS total_earned,
			COALESCE(SUM(amount) FILTER (WHERE type = 'withdraw' AND status = 'success'), 0) AS total_withdrawn,
			COALESCE(SUM(amount) FILTER (WHERE type = 'withdraw' AND status = 'pending'), 0) AS pending_withdrawal
		FROM transactions
		WHERE partner_id = $1
	`
	balance := &models.PartnerBalance{PartnerID: partnerID}
	err := r.db.QueryRow(ctx, query, partnerID).Scan(&balance.TotalEarned, &balance.TotalWithdrawn, &balance.PendingWithdrawal)
	if err != nil {
		return nil, err
	}
	balance.Balance = balance.TotalEarned - balance.TotalWithdrawn - balance.PendingWithdrawal
	return balance, nil
}

func (r *transactionRepo) DisbursedInvoiceIDsWithoutLedgerRow(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT i.id
		FROM invoices i
		LEFT JOIN transactions t ON t.invoice_id = i.id AND t.type = 'commission'
		WHERE i.commission_paid = TRUE AND t.id IS NULL
	`
	return collectIDs(r.db.Query(ctx, query))
}

func (r *transactionRepo) LedgerRowsWithoutDisbursedInvoice(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT t.id
		FROM transactions t
		JOIN invoices i ON i.id = t.invoice_id
		WHERE t.type = 'commission' AND i.commission_paid = FALSE
	`
	return collectIDs(r.db.Query(ctx, query))
}

func collectIDs(rows pgx.Rows, err error) ([]uuid.UUID, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
