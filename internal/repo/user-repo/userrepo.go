package userrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

const userColumns = `id, login, password_hash, name, email, role, is_verified, balance, investment_balance, total_maturity_amount, created_at`

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID, &user.Login, &user.PasswordHash, &user.Name, &user.Email,
		&user.Role, &user.IsVerified, &user.Balance, &user.InvestmentBalance,
		&user.TotalMaturityAmount, &user.CreatedAt,
	)
}

func (r *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE login = $1
    `
	var user domain.User
	err := scanUser(r.db.QueryRow(ctx, query, login), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user by login", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, userID int) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE id = $1
    `
	var user domain.User
	err := scanUser(r.db.QueryRow(ctx, query, userID), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (login, password_hash, name, email, role, is_verified)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		user.Login, user.PasswordHash, user.Name, user.Email, user.Role, user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		zap.L().Error("can't create user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// CreditBalance adds a confirmed deposit to the spendable balance.
func (r *Repository) CreditBalance(ctx context.Context, userID int, amount decimal.Decimal) error {
	query := `
        UPDATE users
        SET balance = balance + $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("can't credit balance", zap.Error(err))
		return err
	}
	return nil
}

// LockForInvestment moves funds from the spendable balance into the
// locked investment balance. The balance check is part of the UPDATE,
// so concurrent approvals cannot overdraw; a false return means the
// spendable balance no longer covers the amount.
func (r *Repository) LockForInvestment(ctx context.Context, userID int, amount decimal.Decimal) (bool, error) {
	query := `
        UPDATE users
        SET balance = balance - $1, investment_balance = investment_balance + $1
        WHERE id = $2 AND balance >= $1
    `
	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("can't lock funds for investment", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SettleMaturity releases the locked principal and credits the frozen
// maturity payout.
func (r *Repository) SettleMaturity(ctx context.Context, userID int, amount, maturityAmount decimal.Decimal) error {
	query := `
        UPDATE users
        SET investment_balance = investment_balance - $1,
            total_maturity_amount = total_maturity_amount + $2
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, amount, maturityAmount, userID)
	if err != nil {
		zap.L().Error("can't settle maturity", zap.Error(err))
		return err
	}
	return nil
}

// HoldMaturity places the optimistic withdrawal hold. A false return
// means the maturity balance does not cover the amount.
func (r *Repository) HoldMaturity(ctx context.Context, userID int, amount decimal.Decimal) (bool, error) {
	query := `
        UPDATE users
        SET total_maturity_amount = total_maturity_amount - $1
        WHERE id = $2 AND total_maturity_amount >= $1
    `
	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("can't hold maturity amount", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReleaseMaturity is the compensating credit for a rejected withdrawal.
func (r *Repository) ReleaseMaturity(ctx context.Context, userID int, amount decimal.Decimal) error {
	query := `
        UPDATE users
        SET total_maturity_amount = total_maturity_amount + $1
        WHERE id = $2
    `
	_, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("can't release maturity hold", zap.Error(err))
		return err
	}
	return nil
}
