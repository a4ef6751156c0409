package depositrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/avencore/investcore/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

const transactionColumns = "id, user_id, amount, transaction_id, status, created_at"

func transactionRows(txs ...domain.Transaction) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "user_id", "amount", "transaction_id", "status", "created_at"})
	for _, tx := range txs {
		rows.AddRow(tx.ID, tx.UserID, tx.Amount, tx.TransactionID, tx.Status, tx.CreatedAt)
	}
	return rows
}

func TestRepository_CreateTransaction(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("INSERT INTO transactions (user_id, amount, transaction_id, status, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id")
	now := time.Now()

	t.Run("Create transaction successfully", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(1, decimal.NewFromInt(500), "txn-1", domain.TransactionPending, now).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(7))

		tx := &domain.Transaction{
			UserID:        1,
			Amount:        decimal.NewFromInt(500),
			TransactionID: "txn-1",
			Status:        domain.TransactionPending,
			CreatedAt:     now,
		}
		created, err := repo.CreateTransaction(context.Background(), tx)
		assert.NoError(t, err)
		assert.Equal(t, 7, created.ID)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(1, decimal.NewFromInt(500), "txn-1", domain.TransactionPending, now).
			WillReturnError(errors.New("database error"))

		_, err := repo.CreateTransaction(context.Background(), &domain.Transaction{
			UserID:        1,
			Amount:        decimal.NewFromInt(500),
			TransactionID: "txn-1",
			Status:        domain.TransactionPending,
			CreatedAt:     now,
		})
		assert.Error(t, err)
	})
}

func TestRepository_FindByTransactionRef(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("SELECT " + transactionColumns + " FROM transactions WHERE transaction_id = $1")
	stored := domain.Transaction{
		ID:            7,
		UserID:        1,
		Amount:        decimal.NewFromInt(500),
		TransactionID: "txn-1",
		Status:        domain.TransactionPending,
		CreatedAt:     time.Now(),
	}

	tests := []struct {
		name      string
		ref       string
		mockSetup func()
		expectErr bool
		result    *domain.Transaction
	}{
		{
			name: "Transaction found",
			ref:  "txn-1",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("txn-1").
					WillReturnRows(transactionRows(stored))
			},
			expectErr: false,
			result:    &stored,
		},
		{
			name: "Transaction not found",
			ref:  "txn-missing",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("txn-missing").
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name: "Database error",
			ref:  "txn-1",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("txn-1").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByTransactionRef(context.Background(), tt.ref)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindByUserID(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("SELECT " + transactionColumns + " FROM transactions WHERE user_id = $1 ORDER BY created_at DESC")

	t.Run("Returns user transactions", func(t *testing.T) {
		stored := []domain.Transaction{
			{ID: 2, UserID: 1, Amount: decimal.NewFromInt(200), TransactionID: "txn-2", Status: domain.TransactionConfirmed},
			{ID: 1, UserID: 1, Amount: decimal.NewFromInt(100), TransactionID: "txn-1", Status: domain.TransactionPending},
		}
		mock.ExpectQuery(query).WithArgs(1).WillReturnRows(transactionRows(stored...))

		result, err := repo.FindByUserID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, stored, result)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(1).WillReturnError(errors.New("database error"))

		_, err := repo.FindByUserID(context.Background(), 1)
		assert.Error(t, err)
	})
}

func TestRepository_FindPending(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("SELECT " + transactionColumns + " FROM transactions WHERE status = 'Pending' ORDER BY created_at DESC")

	stored := []domain.Transaction{
		{ID: 3, UserID: 2, Amount: decimal.NewFromInt(900), TransactionID: "txn-3", Status: domain.TransactionPending},
	}
	mock.ExpectQuery(query).WillReturnRows(transactionRows(stored...))

	result, err := repo.FindPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, stored, result)
}

func TestRepository_UpdateStatusIfPending(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("UPDATE transactions SET status = $1 WHERE id = $2 AND status = 'Pending'")

	t.Run("Updates a pending transaction", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(domain.TransactionConfirmed, 7).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		updated, err := repo.UpdateStatusIfPending(context.Background(), 7, domain.TransactionConfirmed)
		assert.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("Skips an already decided transaction", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(domain.TransactionRejected, 7).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		updated, err := repo.UpdateStatusIfPending(context.Background(), 7, domain.TransactionRejected)
		assert.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(domain.TransactionConfirmed, 7).
			WillReturnError(errors.New("database error"))

		_, err := repo.UpdateStatusIfPending(context.Background(), 7, domain.TransactionConfirmed)
		assert.Error(t, err)
	})
}

func TestRepository_CreatePaymentLog(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("INSERT INTO payment_logs (transaction_id, amount, status, admin_confirmation, notes, payment_date) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id")
	now := time.Now()

	mock.ExpectQuery(query).
		WithArgs(7, decimal.NewFromInt(500), "confirmed", true, "ok", now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(11))

	log := &domain.PaymentLog{
		TransactionID:     7,
		Amount:            decimal.NewFromInt(500),
		Status:            "confirmed",
		AdminConfirmation: true,
		Notes:             "ok",
		PaymentDate:       now,
	}
	created, err := repo.CreatePaymentLog(context.Background(), log)
	assert.NoError(t, err)
	assert.Equal(t, 11, created.ID)
}

func TestRepository_FindLogByTransactionID(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("SELECT id, transaction_id, amount, status, admin_confirmation, notes, payment_date FROM payment_logs WHERE transaction_id = $1")

	t.Run("Log found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(query).
			WithArgs(7).
			WillReturnRows(pgxmock.NewRows([]string{"id", "transaction_id", "amount", "status", "admin_confirmation", "notes", "payment_date"}).
				AddRow(11, 7, decimal.NewFromInt(500), "confirmed", true, "ok", now))

		result, err := repo.FindLogByTransactionID(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, &domain.PaymentLog{
			ID:                11,
			TransactionID:     7,
			Amount:            decimal.NewFromInt(500),
			Status:            "confirmed",
			AdminConfirmation: true,
			Notes:             "ok",
			PaymentDate:       now,
		}, result)
	})

	t.Run("Log not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(8).WillReturnError(pgx.ErrNoRows)

		result, err := repo.FindLogByTransactionID(context.Background(), 8)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})
}
