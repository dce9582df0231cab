package repositories

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
)

const commissionPercentageKey = "commission_percentage"

// SettingsRepository reads admin-tunable settings. The commission percentage
// applies from the next disbursement on, never retroactively.
type SettingsRepository interface {
	GetCommissionPercentage(ctx context.Context) (int, error)
	SetCommissionPercentage(ctx context.Context, percentage int) error
}

type settingsRepo struct {
	db                Database
	defaultPercentage int
}

func NewSettingsRepo(db Database, defaultPercentage int) SettingsRepository {
	return &settingsRepo{db: db, defaultPercentage: defaultPercentage}
}

func (r *settingsRepo) GetCommissionPercentage(ctx context.Context) (int, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = $1`
	err := r.db.QueryRow(ctx, query, commissionPercentageKey).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.defaultPercentage, nil
	}
	if err != nil {
		return 0, err
	}

	percentage, err := strconv.Atoi(value)
	if err != nil || percentage < 0 || percentage > 100 {
		return r.defaultPercentage, nil
	}
	return percentage, nil
}

func (r *settingsRepo) SetCommissionPercentage(ctx context.Context, percentage int) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	_, err := r.db.Exec(ctx, query, commissionPercentageKey, strconv.Itoa(percentage))
	return err
}
