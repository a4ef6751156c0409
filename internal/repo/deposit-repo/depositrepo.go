package depositrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

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

func (r *Repository) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
        INSERT INTO transactions (user_id, amount, transaction_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, tx.UserID, tx.Amount, tx.TransactionID, tx.Status, tx.CreatedAt).Scan(&tx.ID)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return tx, nil
}

func (r *Repository) FindByTransactionRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	query := `
        SELECT id, user_id, amount, transaction_id, status, created_at
        FROM transactions
        WHERE transaction_id = $1
    `
	var tx domain.Transaction
	err := r.db.QueryRow(ctx, query, ref).Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.TransactionID, &tx.Status, &tx.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find transaction", zap.Error(err))
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	query := `
        SELECT id, user_id, amount, transaction_id, status, created_at
        FROM transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	return r.queryTransactions(ctx, query, userID)
}

func (r *Repository) FindPending(ctx context.Context) ([]domain.Transaction, error) {
	query := `
        SELECT id, user_id, amount, transaction_id, status, created_at
        FROM transactions
        WHERE status = 'Pending'
        ORDER BY created_at DESC
    `
	return r.queryTransactions(ctx, query)
}

func (r *Repository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.TransactionID, &tx.Status, &tx.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// UpdateStatusIfPending is the atomic check-then-transition for the
// deposit state machine. A false return means another writer already
// decided the transaction.
func (r *Repository) UpdateStatusIfPending(ctx context.Context, id int, status domain.TransactionStatus) (bool, error) {
	query := `
        UPDATE transactions
        SET status = $1
        WHERE id = $2 AND status = 'Pending'
    `
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		zap.L().Error("can't update transaction status", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) CreatePaymentLog(ctx context.Context, log *domain.PaymentLog) (*domain.PaymentLog, error) {
	query := `
        INSERT INTO payment_logs (transaction_id, amount, status, admin_confirmation, notes, payment_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		log.TransactionID, log.Amount, log.Status, log.AdminConfirmation, log.Notes, log.PaymentDate,
	).Scan(&log.ID)
	if err != nil {
		zap.L().Error("can't save payment log", zap.Error(err))
		return nil, err
	}
	return log, nil
}

func (r *Repository) FindLogByTransactionID(ctx context.Context, transactionID int) (*domain.PaymentLog, error) {
	query := `
        SELECT id, transaction_id, amount, status, admin_confirmation, notes, payment_date
        FROM payment_logs
        WHERE transaction_id = $1
    `
	var log domain.PaymentLog
	err := r.db.QueryRow(ctx, query, transactionID).Scan(
		&log.ID, &log.TransactionID, &log.Amount, &log.Status, &log.AdminConfirmation, &log.Notes, &log.PaymentDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payment log", zap.Error(err))
		return nil, err
	}
	return &log, nil
}
