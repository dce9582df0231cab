package jobs

import (
	"context"
	"log"

	"sewlovely/internal/repositories"
)

// LedgerReconciler cross-checks invoice commission_paid flags against
// commission ledger rows. Disbursement writes both sides in one transaction,
// so any mismatch here points at manual data edits and is worth paging on.
type LedgerReconciler struct {
	transactionRepo repositories.TransactionRepository
}

func NewLedgerReconciler(transactionRepo repositories.TransactionRepository) *LedgerReconciler {
	return &LedgerReconciler{transactionRepo: transactionRepo}
}

// ReconcileResult reports both mismatch directions.
type ReconcileResult struct {
	FlaggedWithoutLedgerRow int
	LedgerRowsWithoutFlag   int
}

func (r *LedgerReconciler) Run(ctx context.Context) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	orphanInvoices, err := r.transactionRepo.DisbursedInvoiceIDsWithoutLedgerRow(ctx)
	if err != nil {
		return nil, err
	}
	result.FlaggedWithoutLedgerRow = len(orphanInvoices)
	for _, id := range orphanInvoices {
		log.Printf("RECONCILE: invoice %s flagged commission_paid but has no commission transaction", id)
	}

	orphanLedgerRows, err := r.transactionRepo.LedgerRowsWithoutDisbursedInvoice(ctx)
	if err != nil {
		return nil, err
	}
	result.LedgerRowsWithoutFlag = len(orphanLedgerRows)
	for _, id := range orphanLedgerRows {
		log.Printf("RECONCILE: commission transaction %s exists but its invoice is not flagged commission_paid", id)
	}

	return result, nil
}
