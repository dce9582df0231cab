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

type InvoiceServiceTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	svc       InvoiceServiceInterface
	invoiceID uuid.UUID
	surveyID  uuid.UUID
	context   context.Context
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	surveySvc := NewSurveyService(repositories.NewSurveyRepo(mock))
	suite.svc = NewInvoiceService(repositories.NewInvoiceRepo(mock), surveySvc)
	suite.invoiceID = uuid.New()
	suite.surveyID = uuid.New()
	suite.context = context.Background()
}

func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func invoiceColumnsList() []string {
	return []string{"id", "invoice_number", "survey_id", "partner_id", "total_amount", "payment_status", "payment_proof", "commission_paid", "created_at", "paid_at", "updated_at"}
}

func (suite *InvoiceServiceTestSuite) expectGetInvoice(status string, surveyID *uuid.UUID, proof *string) {
	suite.mock.ExpectQuery(`FROM invoices`).
		WithArgs(suite.invoiceID).
		WillReturnRows(pgxmock.NewRows(invoiceColumnsList()).
			AddRow(suite.invoiceID, "INV-2026-08-000001", surveyID, nil, int64(1000000), status, proof, false, time.Now(), nil, time.Now()))
}

func (suite *InvoiceServiceTestSuite) TestApprove_WithLinkedSurveyCascades() {
	proof := "proofs/payment/abc"
	suite.expectGetInvoice(models.PaymentStatusPending, &suite.surveyID, nil)
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(proof, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	// cascade reads and moves the linked survey
	suite.mock.ExpectQuery(`FROM surveys`).
		WithArgs(suite.surveyID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "partner_id", "customer_name", "customer_phone", "address", "calculator_type", "notes", "status", "created_at", "updated_at"}).
			AddRow(suite.surveyID, nil, "Ibu Sari", "0812000111", "Jl. Melati 4", "curtain", nil, models.SurveyStatusConfirmed, time.Now(), time.Now()))
	suite.mock.ExpectExec(`UPDATE surveys`).
		WithArgs(models.SurveyStatusInstallation, suite.surveyID, models.SurveyStatusConfirmed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := suite.svc.Approve(suite.context, suite.invoiceID, &proof)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), result.SurveyCascaded)
	assert.Empty(suite.T(), result.CascadeWarning)
	assert.Equal(suite.T(), models.PaymentStatusPaid, result.Invoice.PaymentStatus)
	assert.NotNil(suite.T(), result.Invoice.PaidAt)
}

func (suite *InvoiceServiceTestSuite) TestApprove_CascadeFailureIsWarningNotError() {
	proof := "proofs/payment/abc"
	suite.expectGetInvoice(models.PaymentStatusPending, &suite.surveyID, nil)
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(proof, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	// linked survey already terminal: cascade fails, approval stands
	suite.mock.ExpectQuery(`FROM surveys`).
		WithArgs(suite.surveyID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "partner_id", "customer_name", "customer_phone", "address", "calculator_type", "notes", "status", "created_at", "updated_at"}).
			AddRow(suite.surveyID, nil, "Ibu Sari", "0812000111", "Jl. Melati 4", "curtain", nil, models.SurveyStatusCancelled, time.Now(), time.Now()))

	result, err := suite.svc.Approve(suite.context, suite.invoiceID, &proof)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.SurveyCascaded)
	assert.NotEmpty(suite.T(), result.CascadeWarning)
	assert.Equal(suite.T(), models.PaymentStatusPaid, result.Invoice.PaymentStatus)
}

func (suite *InvoiceServiceTestSuite) TestApprove_NoSurveyNoCascade() {
	proof := "proofs/payment/abc"
	suite.expectGetInvoice(models.PaymentStatusPending, nil, nil)
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(proof, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := suite.svc.Approve(suite.context, suite.invoiceID, &proof)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), result.SurveyCascaded)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceServiceTestSuite) TestApprove_UsesExistingProofWhenNoneSupplied() {
	existing := "proofs/payment/earlier-upload"
	suite.expectGetInvoice(models.PaymentStatusPending, nil, &existing)
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(existing, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := suite.svc.Approve(suite.context, suite.invoiceID, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), existing, *result.Invoice.PaymentProof)
}

func (suite *InvoiceServiceTestSuite) TestApprove_ProofRequired() {
	suite.expectGetInvoice(models.PaymentStatusPending, nil, nil)

	_, err := suite.svc.Approve(suite.context, suite.invoiceID, nil)
	assert.ErrorIs(suite.T(), err, common.ErrProofRequired)
}

func (suite *InvoiceServiceTestSuite) TestApprove_AlreadyPaid() {
	proof := "proofs/payment/abc"
	suite.expectGetInvoice(models.PaymentStatusPaid, nil, &proof)

	_, err := suite.svc.Approve(suite.context, suite.invoiceID, &proof)
	assert.ErrorIs(suite.T(), err, common.ErrAlreadyFinalized)
}

func (suite *InvoiceServiceTestSuite) TestApprove_ConcurrentApprovalLosesWithAlreadyFinalized() {
	proof := "proofs/payment/abc"
	suite.expectGetInvoice(models.PaymentStatusPending, nil, nil)
	// the other admin's approval landed between our read and our write
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(proof, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := suite.svc.Approve(suite.context, suite.invoiceID, &proof)
	assert.ErrorIs(suite.T(), err, common.ErrAlreadyFinalized)
}

func (suite *InvoiceServiceTestSuite) TestReject_Pending() {
	suite.expectGetInvoice(models.PaymentStatusPending, &suite.surveyID, nil)
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	invoice, err := suite.svc.Reject(suite.context, suite.invoiceID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.PaymentStatusCancelled, invoice.PaymentStatus)
	// no cascade expectations: reject never touches the survey
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceServiceTestSuite) TestReject_AlreadyCancelled() {
	suite.expectGetInvoice(models.PaymentStatusCancelled, nil, nil)

	_, err := suite.svc.Reject(suite.context, suite.invoiceID)
	assert.ErrorIs(suite.T(), err, common.ErrAlreadyFinalized)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_GeneratesNumber() {
	suite.mock.ExpectQuery(`SELECT last_number FROM upsert`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"last_number"}).AddRow(7))
	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), (*uuid.UUID)(nil), (*uuid.UUID)(nil), int64(250000),
			models.PaymentStatusPending, (*string)(nil), false, (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	invoice := &models.Invoice{TotalAmount: 250000}
	err := suite.svc.CreateInvoice(suite.context, invoice)
	assert.NoError(suite.T(), err)
	assert.Regexp(suite.T(), `^INV-\d{4}-\d{2}-000007$`, invoice.InvoiceNumber)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsNonPositiveAmount() {
	err := suite.svc.CreateInvoice(suite.context, &models.Invoice{TotalAmount: 0})
	assert.Error(suite.T(), err)
}
