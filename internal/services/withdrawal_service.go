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

// WithdrawalServiceInterface manages the partner withdrawal lifecycle against
// the ledger: request (reserve), approve (settle), reject (release).
type WithdrawalServiceInterface interface {
	Request(ctx context.Context, partnerID uuid.UUID, amount int64, description string) (*models.Transaction, error)
	Approve(ctx context.Context, transactionID uuid.UUID, proofRef *string) (*models.Transaction, error)
	Reject(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error)
	GetPartnerBalance(ctx context.Context, partnerID uuid.UUID) (*models.PartnerBalance, error)
	ListPartnerTransactions(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*models.Transaction, error)
	ListPendingWithdrawals(ctx context.Context, limit, offset int) ([]*models.Transaction, error)
}

type withdrawalService struct {
	db              repositories.TxDatabase
	transactionRepo repositories.TransactionRepository
	partnerRepo     repositories.PartnerRepository
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(db repositories.TxDatabase, transactionRepo repositories.TransactionRepository,
	partnerRepo repositories.PartnerRepository) WithdrawalServiceInterface {
	return &withdrawalService{
		db:              db,
		transactionRepo: transactionRepo,
		partnerRepo:     partnerRepo,
	}
}

// Request creates a pending withdrawal. The balance is derived inside the
// same transaction as the insert, so two racing requests cannot both fit
// into one balance.
func (s *withdrawalService) Request(ctx context.Context, partnerID uuid.UUID, amount int64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive")
	}

	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("partner %s: %w", partnerID, common.ErrNotFound)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin withdrawal request: %w", err)
	}
	defer tx.Rollback(ctx)

	transactionRepo := s.transactionRepo.WithTx(tx)

	balance, err := transactionRepo.BalanceSummary(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("derive balance: %w", err)
	}
	if amount > balance.Balance {
		return nil, fmt.Errorf("requested %d with balance %d: %w", amount, balance.Balance, common.ErrInsufficientBalance)
	}

	txn := &models.Transaction{
		ID:          uuid.New(),
		PartnerID:   partnerID,
		Type:        models.TransactionTypeWithdraw,
		Amount:      amount,
		Status:      models.TransactionStatusPending,
		Description: description,
	}
	if err := transactionRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit withdrawal request: %w", err)
	}
	return txn, nil
}

// Approve settles a pending withdrawal. The amount was already reserved
// against the derived balance at request time, so the approval does not
// re-require balance >= amount; it does re-check, inside the same
// transaction, that settled withdrawals plus this one stay within settled
// commissions, which blocks the double-approval race on duplicate requests.
func (s *withdrawalService) Approve(ctx context.Context, transactionID uuid.UUID, proofRef *string) (*models.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin withdrawal approval: %w", err)
	}
	defer tx.Rollback(ctx)

	transactionRepo := s.transactionRepo.WithTx(tx)

	txn, err := s.pendingWithdrawalForUpdate(ctx, transactionRepo, transactionID)
	if err != nil {
		return nil, err
	}

	balance, err := transactionRepo.BalanceSummary(ctx, txn.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("derive balance: %w", err)
	}
	if balance.TotalWithdrawn+txn.Amount > balance.TotalEarned {
		return nil, fmt.Errorf("approving %d would exceed settled commissions %d: %w",
			txn.Amount, balance.TotalEarned, common.ErrInsufficientBalance)
	}

	rows, err := transactionRepo.UpdateStatusIf(ctx, transactionID,
		models.TransactionStatusPending, models.TransactionStatusSuccess, proofRef)
	if err != nil {
		return nil, fmt.Errorf("approve withdrawal: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("withdrawal %s: %w", transactionID, common.ErrPreconditionFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit withdrawal approval: %w", err)
	}

	txn.Status = models.TransactionStatusSuccess
	if common.SafeString(proofRef) != "" {
		txn.Proof = proofRef
	}
	log.Printf("Approved withdrawal %s amount %d for partner %s", txn.ID, txn.Amount, txn.PartnerID)
	return txn, nil
}

// Reject moves a pending withdrawal to rejected. The reserved amount flows
// back into the derived balance because rejected rows are excluded from the
// balance formula.
func (s *withdrawalService) Reject(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin withdrawal rejection: %w", err)
	}
	defer tx.Rollback(ctx)

	transactionRepo := s.transactionRepo.WithTx(tx)

	txn, err := s.pendingWithdrawalForUpdate(ctx, transactionRepo, transactionID)
	if err != nil {
		return nil, err
	}

	rows, err := transactionRepo.UpdateStatusIf(ctx, transactionID,
		models.TransactionStatusPending, models.TransactionStatusRejected, nil)
	if err != nil {
		return nil, fmt.Errorf("reject withdrawal: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("withdrawal %s: %w", transactionID, common.ErrPreconditionFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit withdrawal rejection: %w", err)
	}

	txn.Status = models.TransactionStatusRejected
	return txn, nil
}

func (s *withdrawalService) pendingWithdrawalForUpdate(ctx context.Context, repo repositories.TransactionRepository, id uuid.UUID) (*models.Transaction, error) {
	txn, err := repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if txn.Type != models.TransactionTypeWithdraw {
		return nil, fmt.Errorf("transaction %s is type %s: %w", id, txn.Type, common.ErrNotWithdrawal)
	}
	if txn.Status != models.TransactionStatusPending {
		return nil, fmt.Errorf("transaction %s is %s: %w", id, txn.Status, common.ErrAlreadyFinalized)
	}
	return txn, nil
}

func (s *withdrawalService) GetPartnerBalance(ctx context.Context, partnerID uuid.UUID) (*models.PartnerBalance, error) {
	partner, err := s.partnerRepo.GetByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("partner %s: %w", partnerID, common.ErrNotFound)
	}
	return s.transactionRepo.BalanceSummary(ctx, partnerID)
}

func (s *withdrawalService) ListPartnerTransactions(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	return s.transactionRepo.ListByPartner(ctx, partnerID, limit, offset)
}

func (s *withdrawalService) ListPendingWithdrawals(ctx context.Context, limit, offset int) ([]*models.Transaction, error) {
	return s.transactionRepo.ListByStatus(ctx, models.TransactionTypeWithdraw, models.TransactionStatusPending, limit, offset)
}
