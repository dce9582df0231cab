package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice payment statuses. paid and cancelled are terminal.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

type Invoice struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	InvoiceNumber  string     `json:"invoice_number" db:"invoice_number"`
	SurveyID       *uuid.UUID `json:"survey_id" db:"survey_id"`
	PartnerID      *uuid.UUID `json:"partner_id" db:"partner_id"`
	TotalAmount    int64      `json:"total_amount" db:"total_amount"`
	PaymentStatus  string     `json:"payment_status" db:"payment_status"`
	PaymentProof   *string    `json:"payment_proof" db:"payment_proof"`
	CommissionPaid bool       `json:"commission_paid" db:"commission_paid"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	PaidAt         *time.Time `json:"paid_at" db:"paid_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
