package withdrawalrepo

import (
	"context"
	"errors"
	"time"

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

const withdrawalColumns = `id, user_id, amount, wallet_address, status, request_date, approval_date`

func (r *Repository) Create(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error) {
	query := `
		INSERT INTO withdrawals (user_id, amount, wallet_address, status, request_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		withdrawal.UserID, withdrawal.Amount, withdrawal.WalletAddress, withdrawal.Status, withdrawal.RequestDate,
	).Scan(&withdrawal.ID)
	if err != nil {
		zap.L().Error("can't save withdrawal", zap.Error(err))
		return nil, err
	}
	return withdrawal, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Withdrawal, error) {
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawals
        WHERE id = $1
    `
	var wd domain.Withdrawal
	err := r.db.QueryRow(ctx, query, id).Scan(
		&wd.ID, &wd.UserID, &wd.Amount, &wd.WalletAddress, &wd.Status, &wd.RequestDate, &wd.ApprovalDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find withdrawal", zap.Error(err))
		return nil, err
	}
	return &wd, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error) {
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawals
        WHERE user_id = $1
        ORDER BY request_date DESC
    `
	return r.queryWithdrawals(ctx, query, userID)
}

func (r *Repository) FindPending(ctx context.Context) ([]domain.Withdrawal, error) {
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawals
        WHERE status = 'Pending'
        ORDER BY request_date DESC
    `
	return r.queryWithdrawals(ctx, query)
}

func (r *Repository) queryWithdrawals(ctx context.Context, query string, args ...any) ([]domain.Withdrawal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var wd domain.Withdrawal
		err := rows.Scan(&wd.ID, &wd.UserID, &wd.Amount, &wd.WalletAddress, &wd.Status, &wd.RequestDate, &wd.ApprovalDate)
		if err != nil {
			zap.L().Error("failed to scan withdrawal row", zap.Error(err))
			return nil, err
		}
		withdrawals = append(withdrawals, wd)
	}

	return withdrawals, nil
}

// MarkApproved transitions Pending -> Approved; the optimistic hold
// becomes permanent. A false return means the request was already
// decided.
func (r *Repository) MarkApproved(ctx context.Context, id int, approvalDate time.Time) (bool, error) {
	query := `
        UPDATE withdrawals
        SET status = 'Approved', approval_date = $1
        WHERE id = $2 AND status = 'Pending'
    `
	tag, err := r.db.Exec(ctx, query, approvalDate, id)
	if err != nil {
		zap.L().Error("can't approve withdrawal", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkRejected transitions Pending -> Rejected.
func (r *Repository) MarkRejected(ctx context.Context, id int) (bool, error) {
	query := `
        UPDATE withdrawals
        SET status = 'Rejected'
        WHERE id = $1 AND status = 'Pending'
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't reject withdrawal", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
