package repositories

import (
	"context"
	"testing"

	"sewlovely/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TransactionRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      TransactionRepository
	partnerID uuid.UUID
	context   context.Context
}

func (suite *TransactionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewTransactionRepo(mock)
	suite.partnerID = uuid.New()
	suite.context = context.Background()
}

func (suite *TransactionRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestTransactionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepoTestSuite))
}

func (suite *TransactionRepoTestSuite) expectBalanceRow(earned, withdrawn, pending int64) {
	suite.mock.ExpectQuery(`FROM transactions`).
		WithArgs(suite.partnerID).
		WillReturnRows(pgxmock.NewRows([]string{"total_earned", "total_withdrawn", "pending_withdrawal"}).
			AddRow(earned, withdrawn, pending))
}

func (suite *TransactionRepoTestSuite) TestBalanceSummary_DerivesBalance() {
	suite.expectBalanceRow(500000, 150000, 100000)

	balance, err := suite.repo.BalanceSummary(suite.context, suite.partnerID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.partnerID, balance.PartnerID)
	assert.Equal(suite.T(), int64(500000), balance.TotalEarned)
	assert.Equal(suite.T(), int64(150000), balance.TotalWithdrawn)
	assert.Equal(suite.T(), int64(100000), balance.PendingWithdrawal)
	assert.Equal(suite.T(), int64(250000), balance.Balance)
}

func (suite *TransactionRepoTestSuite) TestBalanceSummary_EmptyHistoryIsZero() {
	suite.expectBalanceRow(0, 0, 0)

	balance, err := suite.repo.BalanceSummary(suite.context, suite.partnerID)
	assert.NoError(suite.T(), err)
	assert.Zero(suite.T(), balance.Balance)
	assert.Zero(suite.T(), balance.TotalEarned)
}

func (suite *TransactionRepoTestSuite) TestUpdateStatusIf_ReportsAffectedRows() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE transactions`).
		WithArgs(models.TransactionStatusSuccess, (*string)(nil), id, models.TransactionStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rows, err := suite.repo.UpdateStatusIf(suite.context, id,
		models.TransactionStatusPending, models.TransactionStatusSuccess, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), rows)
}

func (suite *TransactionRepoTestSuite) TestUpdateStatusIf_ZeroRowsWhenStatusMoved() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE transactions`).
		WithArgs(models.TransactionStatusRejected, (*string)(nil), id, models.TransactionStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	rows, err := suite.repo.UpdateStatusIf(suite.context, id,
		models.TransactionStatusPending, models.TransactionStatusRejected, nil)
	assert.NoError(suite.T(), err)
	assert.Zero(suite.T(), rows)
}

func (suite *TransactionRepoTestSuite) TestGetByID_NoRowsIsNil() {
	id := uuid.New()
	suite.mock.ExpectQuery(`FROM transactions`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "partner_id", "invoice_id", "type", "amount", "status", "description", "proof", "created_at", "updated_at"}))

	txn, err := suite.repo.GetByID(suite.context, id)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), txn)
}

func (suite *TransactionRepoTestSuite) TestDisbursedInvoiceIDsWithoutLedgerRow() {
	orphanA := uuid.New()
	orphanB := uuid.New()
	suite.mock.ExpectQuery(`LEFT JOIN transactions`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(orphanA).AddRow(orphanB))

	ids, err := suite.repo.DisbursedInvoiceIDsWithoutLedgerRow(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []uuid.UUID{orphanA, orphanB}, ids)
}

func (suite *TransactionRepoTestSuite) TestLedgerRowsWithoutDisbursedInvoice_CleanLedger() {
	suite.mock.ExpectQuery(`JOIN invoices`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	ids, err := suite.repo.LedgerRowsWithoutDisbursedInvoice(suite.context)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), ids)
}
