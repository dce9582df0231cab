package repositories

import (
	"context"
	"errors"

	"sewlovely/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PartnerRepository interface {
	Create(ctx context.Context, partner *models.Partner) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Partner, error)
	List(ctx context.Context, limit, offset int) ([]*models.Partner, error)
	Update(ctx context.Context, partner *models.Partner) error
}

type partnerRepo struct {
	db Database
}

func NewPartnerRepo(db Database) PartnerRepository {
	return &partnerRepo{db: db}
}

func (r *partnerRepo) Create(ctx context.Context, partner *models.Partner) error {
	query := `
		INSERT INTO partners (id, name, phone, bank_name, bank_account, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, partner.ID, partner.Name, partner.Phone, partner.BankName, partner.BankAccount)
	return err
}

func (r *partnerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	partner := &models.Partner{}
	query := `
		SELECT id, name, phone, bank_name, bank_account, created_at, updated_at
		FROM partners
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&partner.ID, &partner.Name, &partner.Phone,
		&partner.BankName, &partner.BankAccount, &partner.CreatedAt, &partner.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return partner, nil
}

func (r *partnerRepo) List(ctx context.Context, limit, offset int) ([]*models.Partner, error) {
	query := `
		SELECT id, name, phone, bank_name, bank_account, created_at, updated_at
		FROM partners
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []*models.Partner
	for rows.Next() {
		partner := &models.Partner{}
		if err := rows.Scan(&partner.ID, &partner.Name, &partner.Phone,
			&partner.BankName, &partner.BankAccount, &partner.CreatedAt, &partner.UpdatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	return partners, rows.Err()
}

func (r *partnerRepo) Update(ctx context.Context, partner *models.Partner) error {
	query := `
		UPDATE partners
		SET name = $1, phone = $2, bank_name = $3, bank_account = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, partner.Name, partner.Phone, partner.BankName, partner.BankAccount, partner.ID)
	return err
}
