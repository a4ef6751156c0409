package planrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/pg"
	"go.uber.org/zap"
)

// Repository reads the seeded plan catalog. Plans are never mutated
// at runtime.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindByName(ctx context.Context, name string) (*domain.InvestmentPlan, error) {
	query := `
        SELECT id, name, min_amount, max_amount, duration_days, interest_rate
        FROM investment_plans
        WHERE name = $1
    `
	var plan domain.InvestmentPlan
	err := r.db.QueryRow(ctx, query, name).Scan(
		&plan.ID, &plan.Name, &plan.MinAmount, &plan.MaxAmount, &plan.DurationDays, &plan.InterestRate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find investment plan", zap.Error(err))
		return nil, err
	}
	return &plan, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.InvestmentPlan, error) {
	query := `
        SELECT id, name, min_amount, max_amount, duration_days, interest_rate
        FROM investment_plans
        ORDER BY min_amount ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list investment plans", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var plans []domain.InvestmentPlan
	for rows.Next() {
		var plan domain.InvestmentPlan
		err := rows.Scan(&plan.ID, &plan.Name, &plan.MinAmount, &plan.MaxAmount, &plan.DurationDays, &plan.InterestRate)
		if err != nil {
			zap.L().Error("can't scan investment plan row", zap.Error(err))
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
