package services

import (
	"context"
	"testing"
	"time"

	"sewlovely/internal/common"
	"sewlovely/internal/models"
	"sewlovely/internal/repositories"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SurveyServiceTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	svc      SurveyServiceInterface
	surveyID uuid.UUID
	context  context.Context
}

func (suite *SurveyServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.svc = NewSurveyService(repositories.NewSurveyRepo(mock))
	suite.surveyID = uuid.New()
	suite.context = context.Background()
}

func (suite *SurveyServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestSurveyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SurveyServiceTestSuite))
}

func (suite *SurveyServiceTestSuite) surveyRow(status string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "partner_id", "customer_name", "customer_phone", "address", "calculator_type", "notes", "status", "created_at", "updated_at"}).
		AddRow(suite.surveyID, nil, "Ibu Sari", "0812000111", "Jl. Melati 4", "curtain", nil, status, time.Now(), time.Now())
}

func (suite *SurveyServiceTestSuite) expectGet(status string) {
	suite.mock.ExpectQuery(`FROM surveys`).
		WithArgs(suite.surveyID).
		WillReturnRows(suite.surveyRow(status))
}

func (suite *SurveyServiceTestSuite) TestTransition_PendingToConfirmed() {
	suite.expectGet(models.SurveyStatusPending)
	suite.mock.ExpectExec(`UPDATE surveys`).
		WithArgs(models.SurveyStatusConfirmed, suite.surveyID, models.SurveyStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	survey, err := suite.svc.Transition(suite.context, suite.surveyID, models.SurveyStatusConfirmed)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.SurveyStatusConfirmed, survey.Status)
}

func (suite *SurveyServiceTestSuite) TestTransition_PendingToCancelled() {
	suite.expectGet(models.SurveyStatusPending)
	suite.mock.ExpectExec(`UPDATE surveys`).
		WithArgs(models.SurveyStatusCancelled, suite.surveyID, models.SurveyStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	survey, err := suite.svc.Transition(suite.context, suite.surveyID, models.SurveyStatusCancelled)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.SurveyStatusCancelled, survey.Status)
}

func (suite *SurveyServiceTestSuite) TestTransition_SkippingStatesRejected() {
	suite.expectGet(models.SurveyStatusPending)

	_, err := suite.svc.Transition(suite.context, suite.surveyID, models.SurveyStatusDone)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidTransition)
}

func (suite *SurveyServiceTestSuite) TestTransition_TerminalStatesRejectEverything() {
	for _, terminal := range []string{models.SurveyStatusDone, models.SurveyStatusCancelled} {
		for _, target := range []string{
			models.SurveyStatusPending, models.SurveyStatusConfirmed, models.SurveyStatusCompleted,
			models.SurveyStatusInstallation, models.SurveyStatusDone, models.SurveyStatusCancelled,
		} {
			if terminal == target {
				continue
			}
			suite.expectGet(terminal)

			_, err := suite.svc.Transition(suite.context, suite.surveyID, target)
			assert.ErrorIs(suite.T(), err, common.ErrInvalidTransition, "from %s to %s", terminal, target)
		}
	}
}

func (suite *SurveyServiceTestSuite) TestTransition_ConcurrentChangeSurfacesPreconditionFailed() {
	suite.expectGet(models.SurveyStatusConfirmed)
	suite.mock.ExpectExec(`UPDATE surveys`).
		WithArgs(models.SurveyStatusCompleted, suite.surveyID, models.SurveyStatusConfirmed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := suite.svc.Transition(suite.context, suite.surveyID, models.SurveyStatusCompleted)
	assert.ErrorIs(suite.T(), err, common.ErrPreconditionFailed)
}

func (suite *SurveyServiceTestSuite) TestTransition_NotFound() {
	suite.mock.ExpectQuery(`FROM surveys`).
		WithArgs(suite.surveyID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "partner_id", "customer_name", "customer_phone", "address", "calculator_type", "notes", "status", "created_at", "updated_at"}))

	_, err := suite.svc.Transition(suite.context, suite.surveyID, models.SurveyStatusConfirmed)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *SurveyServiceTestSuite) TestCascade_FromConfirmed() {
	suite.expectGet(models.SurveyStatusConfirmed)
	suite.mock.ExpectExec(`UPDATE surveys`).
		WithArgs(models.SurveyStatusInstallation, suite.surveyID, models.SurveyStatusConfirmed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.svc.CascadeToInstallation(suite.context, suite.surveyID)
	assert.NoError(suite.T(), err)
}

func (suite *SurveyServiceTestSuite) TestCascade_FromCompleted() {
	suite.expectGet(models.SurveyStatusCompleted)
	suite.mock.ExpectExec(`UPDATE surveys`).
		WithArgs(models.SurveyStatusInstallation, suite.surveyID, models.SurveyStatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.svc.CascadeToInstallation(suite.context, suite.surveyID)
	assert.NoError(suite.T(), err)
}

func (suite *SurveyServiceTestSuite) TestCascade_FromTerminalRejected() {
	suite.expectGet(models.SurveyStatusCancelled)

	err := suite.svc.CascadeToInstallation(suite.context, suite.surveyID)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidTransition)
}

func (suite *SurveyServiceTestSuite) TestCreateSurvey_StartsPending() {
	suite.mock.ExpectExec(`INSERT INTO surveys`).
		WithArgs(pgxmock.AnyArg(), (*uuid.UUID)(nil), "Ibu Sari", "0812000111", "Jl. Melati 4", "curtain", (*string)(nil), models.SurveyStatusPending).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	survey := &models.Survey{
		CustomerName:   "Ibu Sari",
		CustomerPhone:  "0812000111",
		Address:        "Jl. Melati 4",
		CalculatorType: "curtain",
	}
	err := suite.svc.CreateSurvey(suite.context, survey)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.SurveyStatusPending, survey.Status)
	assert.NotEqual(suite.T(), uuid.Nil, survey.ID)
}

func (suite *SurveyServiceTestSuite) TestCreateSurvey_RequiresCustomerName() {
	err := suite.svc.CreateSurvey(suite.context, &models.Survey{CalculatorType: "curtain"})
	assert.Error(suite.T(), err)
}
