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

type CommissionServiceTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	svc       CommissionServiceInterface
	surveyID  uuid.UUID
	invoiceID uuid.UUID
	partnerID uuid.UUID
	context   context.Context
}

func (suite *CommissionServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.svc = NewCommissionService(mock,
		repositories.NewSurveyRepo(mock),
		repositories.NewInvoiceRepo(mock),
		repositories.NewTransactionRepo(mock),
		repositories.NewSettingsRepo(mock, 5))
	suite.surveyID = uuid.New()
	suite.invoiceID = uuid.New()
	suite.partnerID = uuid.New()
	suite.context = context.Background()
}

func (suite *CommissionServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCommissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommissionServiceTestSuite))
}

func (suite *CommissionServiceTestSuite) expectSurvey(status string, partnerID *uuid.UUID) {
	suite.mock.ExpectQuery(`FROM surveys`).
		WithArgs(suite.surveyID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "partner_id", "customer_name", "customer_phone", "address", "calculator_type", "notes", "status", "created_at", "updated_at"}).
			AddRow(suite.surveyID, partnerID, "Ibu Sari", "0812000111", "Jl. Melati 4", "curtain", nil, status, time.Now(), time.Now()))
}

func (suite *CommissionServiceTestSuite) invoiceRow(commissionPaid bool) *pgxmock.Rows {
	paidAt := time.Now()
	return pgxmock.NewRows(invoiceColumnsList()).
		AddRow(suite.invoiceID, "INV-2026-08-000001", &suite.surveyID, &suite.partnerID, int64(1000000),
			models.PaymentStatusPaid, nil, commissionPaid, time.Now(), &paidAt, time.Now())
}

func (suite *CommissionServiceTestSuite) TestDisburse_HappyPath() {
	suite.mock.ExpectBegin()
	suite.expectSurvey(models.SurveyStatusDone, &suite.partnerID)
	suite.mock.ExpectQuery(`FROM invoices`).
		WithArgs(suite.surveyID).
		WillReturnRows(suite.invoiceRow(false))
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.invoiceID).
		WillReturnRows(suite.invoiceRow(false))
	suite.mock.ExpectQuery(`FROM settings`).
		WithArgs("commission_percentage").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("5"))
	suite.mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs(pgxmock.AnyArg(), suite.partnerID, &suite.invoiceID, models.TransactionTypeCommission,
			int64(50000), models.TransactionStatusSuccess, pgxmock.AnyArg(), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	result, err := suite.svc.Disburse(suite.context, suite.surveyID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.AlreadyDisbursed)
	assert.Equal(suite.T(), int64(50000), result.Transaction.Amount)
	assert.Equal(suite.T(), models.TransactionStatusSuccess, result.Transaction.Status)
	assert.Equal(suite.T(), suite.partnerID, result.Transaction.PartnerID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CommissionServiceTestSuite) TestDisburse_SecondCallIsNoOpSuccess() {
	existingTxnID := uuid.New()
	suite.mock.ExpectBegin()
	suite.expectSurvey(models.SurveyStatusDone, &suite.partnerID)
	suite.mock.ExpectQuery(`FROM invoices`).
		WithArgs(suite.surveyID).
		WillReturnRows(suite.invoiceRow(true))
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.invoiceID).
		WillReturnRows(suite.invoiceRow(true))
	suite.mock.ExpectQuery(`FROM transactions`).
		WithArgs(suite.invoiceID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "partner_id", "invoice_id", "type", "amount", "status", "description", "proof", "created_at", "updated_at"}).
			AddRow(existingTxnID, suite.partnerID, &suite.invoiceID, models.TransactionTypeCommission,
				int64(50000), models.TransactionStatusSuccess, "Commission 5% for invoice INV-2026-08-000001", nil, time.Now(), time.Now()))
	suite.mock.ExpectCommit()

	result, err := suite.svc.Disburse(suite.context, suite.surveyID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.AlreadyDisbursed)
	assert.Equal(suite.T(), existingTxnID, result.Transaction.ID)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CommissionServiceTestSuite) TestDisburse_SurveyNotDone() {
	suite.mock.ExpectBegin()
	suite.expectSurvey(models.SurveyStatusInstallation, &suite.partnerID)
	suite.mock.ExpectRollback()

	_, err := suite.svc.Disburse(suite.context, suite.surveyID)
	assert.ErrorIs(suite.T(), err, common.ErrSurveyNotDone)
}

func (suite *CommissionServiceTestSuite) TestDisburse_SurveyWithoutPartner() {
	suite.mock.ExpectBegin()
	suite.expectSurvey(models.SurveyStatusDone, nil)
	suite.mock.ExpectRollback()

	_, err := suite.svc.Disburse(suite.context, suite.surveyID)
	assert.ErrorIs(suite.T(), err, common.ErrSurveyWithoutPartner)
}

func (suite *CommissionServiceTestSuite) TestDisburse_NoPayableInvoice() {
	suite.mock.ExpectBegin()
	suite.expectSurvey(models.SurveyStatusDone, &suite.partnerID)
	suite.mock.ExpectQuery(`FROM invoices`).
		WithArgs(suite.surveyID).
		WillReturnRows(pgxmock.NewRows(invoiceColumnsList()))
	suite.mock.ExpectRollback()

	_, err := suite.svc.Disburse(suite.context, suite.surveyID)
	assert.ErrorIs(suite.T(), err, common.ErrNoPayableInvoice)
}

func (suite *CommissionServiceTestSuite) TestDisburse_MultiplePayableInvoices() {
	paidAt := time.Now()
	rows := pgxmock.NewRows(invoiceColumnsList()).
		AddRow(uuid.New(), "INV-2026-08-000001", &suite.surveyID, &suite.partnerID, int64(1000000),
			models.PaymentStatusPaid, nil, false, time.Now(), &paidAt, time.Now()).
		AddRow(uuid.New(), "INV-2026-08-000002", &suite.surveyID, &suite.partnerID, int64(500000),
			models.PaymentStatusPaid, nil, false, time.Now(), &paidAt, time.Now())

	suite.mock.ExpectBegin()
	suite.expectSurvey(models.SurveyStatusDone, &suite.partnerID)
	suite.mock.ExpectQuery(`FROM invoices`).
		WithArgs(suite.surveyID).
		WillReturnRows(rows)
	suite.mock.ExpectRollback()

	_, err := suite.svc.Disburse(suite.context, suite.surveyID)
	assert.ErrorIs(suite.T(), err, common.ErrMultiplePayableInvoices)
}

func (suite *CommissionServiceTestSuite) TestDisburse_SurveyNotFound() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FROM surveys`).
		WithArgs(suite.surveyID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "partner_id", "customer_name", "customer_phone", "address", "calculator_type", "notes", "status", "created_at", "updated_at"}))
	suite.mock.ExpectRollback()

	_, err := suite.svc.Disburse(suite.context, suite.surveyID)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func TestCommissionAmountRounding(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		percentage int
		want       int64
	}{
		{"exact", 1000000, 5, 50000},
		{"half rounds up", 330, 5, 17},
		{"below half rounds down", 320, 5, 16},
		{"just under half", 329, 5, 16},
		{"fraction of a unit", 1, 1, 0},
		{"full percentage", 12345, 100, 12345},
		{"zero percentage", 12345, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commissionAmount(tt.total, tt.percentage))
		})
	}
}
