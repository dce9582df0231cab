package models

import (
	"time"

	"github.com/google/uuid"
)

type Partner struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Phone       string    `json:"phone" db:"phone"`
	BankName    string    `json:"bank_name" db:"bank_name"`
	BankAccount string    `json:"bank_account" db:"bank_account"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
