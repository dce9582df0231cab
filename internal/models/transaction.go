package models

import (
	"time"

	"github.com/google/uuid"
)

// Ledger transaction types and statuses. Commission rows are written directly
// in success; withdraw rows move pending -> success or pending -> rejected and
// are immutable after that.
const (
	TransactionTypeCommission = "commission"
	TransactionTypeWithdraw   = "withdraw"

	TransactionStatusPending  = "pending"
	TransactionStatusSuccess  = "success"
	TransactionStatusRejected = "rejected"
	TransactionStatusFailed   = "failed"
)

type Transaction struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	PartnerID   uuid.UUID  `json:"partner_id" db:"partner_id"`
	InvoiceID   *uuid.UUID `json:"invoice_id" db:"invoice_id"`
	Type        string     `json:"type" db:"type"`
	Amount      int64      `json:"amount" db:"amount"`
	Status      string     `json:"status" db:"status"`
	Description string     `json:"description" db:"description"`
	Proof       *string    `json:"proof" db:"proof"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// PartnerBalance is derived live from transaction rows, never stored.
type PartnerBalance struct {
	PartnerID         uuid.UUID `json:"partner_id"`
	Balance           int64     `json:"balance"`
	TotalEarned       int64     `json:"total_earned"`
	TotalWithdrawn    int64     `json:"total_withdrawn"`
	PendingWithdrawal int64     `json:"pending_withdrawal"`
}
