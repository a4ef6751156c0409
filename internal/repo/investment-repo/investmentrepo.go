package investmentrepo

import (
	"context"
	"errors"
	"time"

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

const investmentColumns = `id, user_id, plan_name, amount, start_date, end_date, maturity_amount, status, admin_approval, approval_date, rejection_date`

func scanInvestment(row pgx.Row, inv *domain.Investment) error {
	return row.Scan(
		&inv.ID, &inv.UserID, &inv.PlanName, &inv.Amount, &inv.StartDate, &inv.EndDate,
		&inv.MaturityAmount, &inv.Status, &inv.AdminApproval, &inv.ApprovalDate, &inv.RejectionDate,
	)
}

func (r *Repository) Create(ctx context.Context, inv *domain.Investment) (*domain.Investment, error) {
	query := `
        INSERT INTO investments (user_id, plan_name, amount, start_date, end_date, maturity_amount, status, admin_approval)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		inv.UserID, inv.PlanName, inv.Amount, inv.StartDate, inv.EndDate,
		inv.MaturityAmount, inv.Status, inv.AdminApproval,
	).Scan(&inv.ID)
	if err != nil {
		zap.L().Error("can't save investment", zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Investment, error) {
	query := `
        SELECT ` + investmentColumns + `
        FROM investments
        WHERE id = $1
    `
	var inv domain.Investment
	err := scanInvestment(r.db.QueryRow(ctx, query, id), &inv)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find investment", zap.Error(err))
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Investment, error) {
	query := `
        SELECT ` + investmentColumns + `
        FROM investments
        WHERE user_id = $1
        ORDER BY start_date DESC
    `
	return r.queryInvestments(ctx, query, userID)
}

func (r *Repository) FindPending(ctx context.Context) ([]domain.Investment, error) {
	query := `
        SELECT ` + investmentColumns + `
        FROM investments
        WHERE status = 'Pending'
        ORDER BY start_date DESC
    `
	return r.queryInvestments(ctx, query)
}

// FindMaturedByUserID returns the user's Active investments past their
// end date, oldest first.
func (r *Repository) FindMaturedByUserID(ctx context.Context, userID int, now time.Time) ([]domain.Investment, error) {
	query := `
        SELECT ` + investmentColumns + `
        FROM investments
        WHERE user_id = $1 AND status = 'Active' AND end_date <= $2
        ORDER BY end_date ASC
    `
	return r.queryInvestments(ctx, query, userID, now)
}

// FindMatured feeds the background sweep across all users.
func (r *Repository) FindMatured(ctx context.Context, now time.Time, limit uint32) ([]domain.Investment, error) {
	query := `
        SELECT ` + investmentColumns + `
        FROM investments
        WHERE status = 'Active' AND end_date <= $1
        ORDER BY end_date ASC
        LIMIT $2
    `
	return r.queryInvestments(ctx, query, now, int(limit))
}

func (r *Repository) queryInvestments(ctx context.Context, query string, args ...any) ([]domain.Investment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get investments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var investments []domain.Investment
	for rows.Next() {
		var inv domain.Investment
		if err := scanInvestment(rows, &inv); err != nil {
			zap.L().Error("can't scan investment row", zap.Error(err))
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, nil
}

func (r *Repository) TotalAmountByUserID(ctx context.Context, userID int) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(amount), 0)
        FROM investments
        WHERE user_id = $1 AND status = 'Active'
    `
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		zap.L().Error("can't sum investments", zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}

// MarkApproved transitions Pending -> Active. A false return means the
// investment was already processed by another writer.
func (r *Repository) MarkApproved(ctx context.Context, id int, approvalDate time.Time) (bool, error) {
	query := `
        UPDATE investments
        SET status = 'Active', admin_approval = 'approved', approval_date = $1
        WHERE id = $2 AND status = 'Pending'
    `
	tag, err := r.db.Exec(ctx, query, approvalDate, id)
	if err != nil {
		zap.L().Error("can't approve investment", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkRejected transitions Pending -> Rejected.
func (r *Repository) MarkRejected(ctx context.Context, id int, rejectionDate time.Time) (bool, error) {
	query := `
        UPDATE investments
        SET status = 'Rejected', admin_approval = 'rejected', rejection_date = $1
        WHERE id = $2 AND status = 'Pending'
    `
	tag, err := r.db.Exec(ctx, query, rejectionDate, id)
	if err != nil {
		zap.L().Error("can't reject investment", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkEnded transitions Active -> Ended. The status guard makes the
// settlement sweep idempotent under concurrent runs.
func (r *Repository) MarkEnded(ctx context.Context, id int) (bool, error) {
	query := `
        UPDATE investments
        SET status = 'Ended'
        WHERE id = $1 AND status = 'Active'
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't end investment", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
