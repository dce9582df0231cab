package repositories

import (
	"context"
	"errors"

	"sewlovely/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SurveyRepository interface {
	Create(ctx context.Context, survey *models.Survey) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Survey, error)
	List(ctx context.Context, limit, offset int) ([]*models.Survey, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Survey, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*models.Survey, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error
	// UpdateStatusIf performs a conditional status write keyed on the expected
	// prior status and reports how many rows matched. Zero rows means the
	// precondition no longer holds.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (int64, error)
	WithTx(tx pgx.Tx) SurveyRepository
}

type surveyRepo struct {
	db Database
}

func NewSurveyRepo(db Database) SurveyRepository {
	return &surveyRepo{db: db}
}

func (r *surveyRepo) WithTx(tx pgx.Tx) SurveyRepository {
	return &surveyRepo{db: tx}
}

const surveyColumns = `id, partner_id, customer_name, customer_phone, address, calculator_type, notes, status, created_at, updated_at`

func scanSurvey(row pgx.Row) (*models.Survey, error) {
	survey := &models.Survey{}
	err := row.Scan(&survey.ID, &survey.PartnerID, &survey.CustomerName, &survey.CustomerPhone,
		&survey.Address, &survey.CalculatorType, &survey.Notes, &survey.Status, &survey.CreatedAt, &survey.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return survey, nil
}

func (r *surveyRepo) Create(ctx context.Context, survey *models.Survey) error {
	query := `
		INSERT INTO surveys (id, partner_id, customer_name, customer_phone, address, calculator_type, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, survey.ID, survey.PartnerID, survey.CustomerName, survey.CustomerPhone,
		survey.Address, survey.CalculatorType, survey.Notes, survey.Status)
	return err
}

func (r *surveyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Survey, error) {
	query := `
		SELECT ` + surveyColumns + `
		FROM surveys
		WHERE id = $1
	`
	survey, err := scanSurvey(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return survey, nil
}

func (r *surveyRepo) List(ctx context.Context, limit, offset int) ([]*models.Survey, error) {
	query := `
		SELECT ` + surveyColumns + `
		FROM surveys
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSurveys(rows)
}

func (r *surveyRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Survey, error) {
	query := `
		SELECT ` + surveyColumns + `
		FROM surveys
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSurveys(rows)
}

func (r *surveyRepo) ListByPartner(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*models.Survey, error) {
	query := `
		SELECT ` + surveyColumns + `
		FROM surveys
		WHERE partner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, partnerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSurveys(rows)
}

func collectSurveys(rows pgx.Rows) ([]*models.Survey, error) {
	var surveys []*models.Survey
	for rows.Next() {
		survey, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, survey)
	}
	return surveys, rows.Err()
}

func (r *surveyRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error {
	query := `
		UPDATE surveys
		SET notes = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, notes, id)
	return err
}

func (r *surveyRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (int64, error) {
	query := `
		UPDATE surveys
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, toStatus, id, fromStatus)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
