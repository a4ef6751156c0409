package userrepo

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

func userRow(user domain.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "login", "password_hash", "name", "email", "role", "is_verified",
		"balance", "investment_balance", "total_maturity_amount", "created_at",
	}).AddRow(
		user.ID, user.Login, user.PasswordHash, user.Name, user.Email, user.Role, user.IsVerified,
		user.Balance, user.InvestmentBalance, user.TotalMaturityAmount, user.CreatedAt,
	)
}

func TestRepository_FindByLogin(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE login = $1")
	stored := domain.User{
		ID:           1,
		Login:        "test_user",
		PasswordHash: "hashed_password",
		Role:         "user",
		IsVerified:   true,
		Balance:      decimal.NewFromInt(700),
		CreatedAt:    time.Now(),
	}

	tests := []struct {
		name      string
		login     string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:  "User found",
			login: "test_user",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("test_user").
					WillReturnRows(userRow(stored))
			},
			expectErr: false,
			result:    &stored,
		},
		{
			name:  "User not found",
			login: "non_existing_user",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("non_existing_user").
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:  "Database error",
			login: "test_user",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("test_user").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByLogin(context.Background(), tt.login)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE id = $1")

	t.Run("User found", func(t *testing.T) {
		stored := domain.User{ID: 1, Login: "test_user", Role: "user"}
		mock.ExpectQuery(query).WithArgs(1).WillReturnRows(userRow(stored))

		result, err := repo.FindByID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, &stored, result)
	})

	t.Run("User not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(42).WillReturnError(pgx.ErrNoRows)

		result, err := repo.FindByID(context.Background(), 42)
		assert.NoError(t, err)
		assert.Nil(t, result)
	})
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("INSERT INTO users (login, password_hash, name, email, role, is_verified) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at")

	t.Run("Create user successfully", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(query).
			WithArgs("test_user", "hashed_password", "Ann", "ann@example.com", "user", true).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

		user := &domain.User{
			Login:        "test_user",
			PasswordHash: "hashed_password",
			Name:         "Ann",
			Email:        "ann@example.com",
			Role:         "user",
			IsVerified:   true,
		}
		created, err := repo.Create(context.Background(), user)
		assert.NoError(t, err)
		assert.Equal(t, 1, created.ID)
		assert.Equal(t, now, created.CreatedAt)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("test_user", "hashed_password", "Ann", "ann@example.com", "user", true).
			WillReturnError(errors.New("database error"))

		_, err := repo.Create(context.Background(), &domain.User{
			Login:        "test_user",
			PasswordHash: "hashed_password",
			Name:         "Ann",
			Email:        "ann@example.com",
			Role:         "user",
			IsVerified:   true,
		})
		assert.Error(t, err)
	})
}

func TestRepository_CreditBalance(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("UPDATE users SET balance = balance + $1 WHERE id = $2")

	t.Run("Credits the balance", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(decimal.NewFromInt(500), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.CreditBalance(context.Background(), 1, decimal.NewFromInt(500))
		assert.NoError(t, err)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(decimal.NewFromInt(500), 1).
			WillReturnError(errors.New("database error"))

		err := repo.CreditBalance(context.Background(), 1, decimal.NewFromInt(500))
		assert.Error(t, err)
	})
}

func TestRepository_LockForInvestment(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("UPDATE users SET balance = balance - $1, investment_balance = investment_balance + $1 WHERE id = $2 AND balance >= $1")

	t.Run("Locks when the balance covers the amount", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(decimal.NewFromInt(300), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		locked, err := repo.LockForInvestment(context.Background(), 1, decimal.NewFromInt(300))
		assert.NoError(t, err)
		assert.True(t, locked)
	})

	t.Run("Refuses when the balance is short", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(decimal.NewFromInt(300), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		locked, err := repo.LockForInvestment(context.Background(), 1, decimal.NewFromInt(300))
		assert.NoError(t, err)
		assert.False(t, locked)
	})
}

func TestRepository_SettleMaturity(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("UPDATE users SET investment_balance = investment_balance - $1, total_maturity_amount = total_maturity_amount + $2 WHERE id = $3")

	mock.ExpectExec(query).
		WithArgs(decimal.NewFromInt(300), decimal.NewFromInt(330), 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SettleMaturity(context.Background(), 1, decimal.NewFromInt(300), decimal.NewFromInt(330))
	assert.NoError(t, err)
}

func TestRepository_HoldMaturity(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("UPDATE users SET total_maturity_amount = total_maturity_amount - $1 WHERE id = $2 AND total_maturity_amount >= $1")

	t.Run("Holds when matured funds cover the amount", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(decimal.NewFromInt(100), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		held, err := repo.HoldMaturity(context.Background(), 1, decimal.NewFromInt(100))
		assert.NoError(t, err)
		assert.True(t, held)
	})

	t.Run("Refuses when matured funds are short", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(decimal.NewFromInt(100), 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		held, err := repo.HoldMaturity(context.Background(), 1, decimal.NewFromInt(100))
		assert.NoError(t, err)
		assert.False(t, held)
	})
}

func TestRepository_ReleaseMaturity(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta("UPDATE users SET total_maturity_amount = total_maturity_amount + $1 WHERE id = $2")

	mock.ExpectExec(query).
		WithArgs(decimal.NewFromInt(100), 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ReleaseMaturity(context.Background(), 1, decimal.NewFromInt(100))
	assert.NoError(t, err)
}
