package services

import (
	"context"
	"fmt"
	"time"

	"sewlovely/internal/common"
	"sewlovely/internal/models"
	"sewlovely/internal/repositories"

	"github.com/google/uuid"
)

// SurveyServiceInterface defines the interface for the survey lifecycle
type SurveyServiceInterface interface {
	CreateSurvey(ctx context.Context, survey *models.Survey) error
	GetSurveyByID(ctx context.Context, id uuid.UUID) (*models.Survey, error)
	ListSurveys(ctx context.Context, limit, offset int) ([]*models.Survey, error)
	ListSurveysByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Survey, error)
	ListSurveysByPartner(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*models.Survey, error)
	UpdateSurveyNotes(ctx context.Context, id uuid.UUID, notes *string) (*models.Survey, error)
	Transition(ctx context.Context, id uuid.UUID, targetStatus string) (*models.Survey, error)
	// CascadeToInstallation is the secondary transition triggered by invoice
	// approval. Unlike admin transitions it accepts confirmed as a source
	// state, covering invoices approved before the visit is finished.
	CascadeToInstallation(ctx context.Context, id uuid.UUID) error
}

// adminTransitions is the survey status graph. A missing entry means the
// requested edge is rejected without touching the row.
var adminTransitions = map[string][]string{
	models.SurveyStatusPending:      {models.SurveyStatusConfirmed, models.SurveyStatusCancelled},
	models.SurveyStatusConfirmed:    {models.SurveyStatusCompleted},
	models.SurveyStatusCompleted:    {models.SurveyStatusInstallation},
	models.SurveyStatusInstallation: {models.SurveyStatusDone},
	models.SurveyStatusDone:         {},
	models.SurveyStatusCancelled:    {},
}

// cascadeSources are the statuses the invoice-approval cascade may move to
// installation from.
var cascadeSources = map[string]bool{
	models.SurveyStatusConfirmed: true,
	models.SurveyStatusCompleted: true,
}

func isValidTransition(from, to string) bool {
	for _, allowed := range adminTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type surveyService struct {
	surveyRepo repositories.SurveyRepository
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repositories.SurveyRepository) SurveyServiceInterface {
	return &surveyService{surveyRepo: surveyRepo}
}

func (s *surveyService) CreateSurvey(ctx context.Context, survey *models.Survey) error {
	if err := common.ValidateRequiredString(survey.CustomerName, "customer_name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(survey.CalculatorType, "calculator_type"); err != nil {
		return err
	}

	if survey.ID == uuid.Nil {
		survey.ID = uuid.New()
	}
	survey.Status = models.SurveyStatusPending
	survey.CreatedAt = time.Now()
	survey.UpdatedAt = time.Now()

	return s.surveyRepo.Create(ctx, survey)
}

func (s *surveyService) GetSurveyByID(ctx context.Context, id uuid.UUID) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, fmt.Errorf("survey %s: %w", id, common.ErrNotFound)
	}
	return survey, nil
}

func (s *surveyService) ListSurveys(ctx context.Context, limit, offset int) ([]*models.Survey, error) {
	return s.surveyRepo.List(ctx, limit, offset)
}

func (s *surveyService) ListSurveysByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Survey, error) {
	return s.surveyRepo.ListByStatus(ctx, status, limit, offset)
}

func (s *surveyService) ListSurveysByPartner(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]*models.Survey, error) {
	return s.surveyRepo.ListByPartner(ctx, partnerID, limit, offset)
}

func (s *surveyService) UpdateSurveyNotes(ctx context.Context, id uuid.UUID, notes *string) (*models.Survey, error) {
	survey, err := s.GetSurveyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.surveyRepo.UpdateNotes(ctx, id, notes); err != nil {
		return nil, fmt.Errorf("update survey notes: %w", err)
	}
	survey.Notes = notes
	return survey, nil
}

// Transition moves a survey along the status graph. The write is conditional
// on the status the caller observed; if another admin got there first the
// write matches zero rows and the caller gets ErrPreconditionFailed so it can
// refresh and decide again.
func (s *surveyService) Transition(ctx context.Context, id uuid.UUID, targetStatus string) (*models.Survey, error) {
	survey, err := s.GetSurveyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isValidTransition(survey.Status, targetStatus) {
		return nil, &common.TransitionError{From: survey.Status, To: targetStatus}
	}

	rows, err := s.surveyRepo.UpdateStatusIf(ctx, id, survey.Status, targetStatus)
	if err != nil {
		return nil, fmt.Errorf("update survey status: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("survey %s moved from %s concurrently: %w", id, survey.Status, common.ErrPreconditionFailed)
	}

	survey.Status = targetStatus
	return survey, nil
}

func (s *surveyService) CascadeToInstallation(ctx context.Context, id uuid.UUID) error {
	survey, err := s.GetSurveyByID(ctx, id)
	if err != nil {
		return err
	}

	if !cascadeSources[survey.Status] {
		return &common.TransitionError{From: survey.Status, To: models.SurveyStatusInstallation}
	}

	rows, err := s.surveyRepo.UpdateStatusIf(ctx, id, survey.Status, models.SurveyStatusInstallation)
	if err != nil {
		return fmt.Errorf("cascade survey status: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("survey %s moved from %s concurrently: %w", id, survey.Status, common.ErrPreconditionFailed)
	}
	return nil
}
