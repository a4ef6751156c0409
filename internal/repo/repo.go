package repo

import (
	"github.com/avencore/investcore/internal/pg"
	depositrepo "github.com/avencore/investcore/internal/repo/deposit-repo"
	investmentrepo "github.com/avencore/investcore/internal/repo/investment-repo"
	planrepo "github.com/avencore/investcore/internal/repo/plan-repo"
	userrepo "github.com/avencore/investcore/internal/repo/user-repo"
	withdrawalrepo "github.com/avencore/investcore/internal/repo/withdrawal-repo"
)

type Repositories struct {
	UserRepo       *userrepo.Repository
	PlanRepo       *planrepo.Repository
	DepositRepo    *depositrepo.Repository
	InvestmentRepo *investmentrepo.Repository
	WithdrawalRepo *withdrawalrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:       userrepo.New(conn),
		PlanRepo:       planrepo.New(conn),
		DepositRepo:    depositrepo.New(conn),
		InvestmentRepo: investmentrepo.New(conn),
		WithdrawalRepo: withdrawalrepo.New(conn),
	}
}
