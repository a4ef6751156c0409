package service

import (
	"github.com/avencore/investcore/internal/handlers/auth"
	"github.com/avencore/investcore/internal/handlers/deposits"
	"github.com/avencore/investcore/internal/handlers/history"
	"github.com/avencore/investcore/internal/handlers/withdrawals"

	pkgauth "github.com/avencore/investcore/pkg/auth"

	"github.com/avencore/investcore/internal/notify"
	"github.com/avencore/investcore/internal/pg"
	"github.com/avencore/investcore/internal/repo"
	authservice "github.com/avencore/investcore/internal/service/authservice"
	depositservice "github.com/avencore/investcore/internal/service/depositservice"
	historyservice "github.com/avencore/investcore/internal/service/historyservice"
	investmentservice "github.com/avencore/investcore/internal/service/investmentservice"
	withdrawalservice "github.com/avencore/investcore/internal/service/withdrawalservice"
)

type Services struct {
	AuthService       auth.Service
	DepositService    deposits.Service
	InvestmentService *investmentservice.Service
	WithdrawalService withdrawals.Service
	HistoryService    history.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, notifier notify.Notifier, adminEmail string) *Services {
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})
	depositService := depositservice.New(repo.DepositRepo, repo.UserRepo, txManager, notifier, adminEmail)
	investmentService := investmentservice.New(repo.InvestmentRepo, repo.PlanRepo, repo.UserRepo, txManager, notifier, adminEmail)
	withdrawalService := withdrawalservice.New(repo.WithdrawalRepo, repo.UserRepo, txManager, notifier, adminEmail)
	historyService := historyservice.New(repo.DepositRepo, repo.InvestmentRepo, repo.WithdrawalRepo)

	return &Services{
		AuthService:       authService,
		DepositService:    depositService,
		InvestmentService: investmentService,
		WithdrawalService: withdrawalService,
		HistoryService:    historyService,
	}
}
