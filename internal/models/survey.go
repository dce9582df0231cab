package models

import (
	"time"

	"github.com/google/uuid"
)

// Survey statuses. done and cancelled are terminal.
const (
	SurveyStatusPending      = "pending"
	SurveyStatusConfirmed    = "confirmed"
	SurveyStatusCompleted    = "completed"
	SurveyStatusInstallation = "installation"
	SurveyStatusDone         = "done"
	SurveyStatusCancelled    = "cancelled"
)

type Survey struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	PartnerID      *uuid.UUID `json:"partner_id" db:"partner_id"`
	CustomerName   string     `json:"customer_name" db:"customer_name"`
	CustomerPhone  string     `json:"customer_phone" db:"customer_phone"`
	Address        string     `json:"address" db:"address"`
	CalculatorType string     `json:"calculator_type" db:"calculator_type"`
	Notes          *string    `json:"notes" db:"notes"`
	Status         string     `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
