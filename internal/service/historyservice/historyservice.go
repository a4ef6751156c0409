package historyservice

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avencore/investcore/internal/domain"
)

type TransactionRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
}

type InvestmentRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.Investment, error)
}

type WithdrawalRepo interface {
	FindByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error)
}

// Service is a read-only projection over the three workflows. It
// mutates nothing and is not a source of truth.
type Service struct {
	transactionRepo TransactionRepo
	investmentRepo  InvestmentRepo
	withdrawalRepo  WithdrawalRepo
}

func New(transactionRepo TransactionRepo, investmentRepo InvestmentRepo, withdrawalRepo WithdrawalRepo) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		investmentRepo:  investmentRepo,
		withdrawalRepo:  withdrawalRepo,
	}
}

const (
	KindTransaction = "Transaction"
	KindInvestment  = "Investment"
	KindWithdrawal  = "Withdrawal"
)

type Entry struct {
	Kind   string
	ID     int
	Amount decimal.Decimal
	Status string
	Date   time.Time
}

// Combined merges the user's deposits, investments and withdrawals
// into one list, newest first. Investment statuses are the computed
// display statuses, so an unswept matured record already reads Ended.
func (s *Service) Combined(ctx context.Context, userID int) ([]Entry, error) {
	transactions, err := s.transactionRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	investments, err := s.investmentRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch investments", zap.Error(err))
		return nil, err
	}
	withdrawals, err := s.withdrawalRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	entries := make([]Entry, 0, len(transactions)+len(investments)+len(withdrawals))
	for _, tx := range transactions {
		entries = append(entries, Entry{
			Kind:   KindTransaction,
			ID:     tx.ID,
			Amount: tx.Amount,
			Status: string(tx.Status),
			Date:   tx.CreatedAt,
		})
	}
	for _, inv := range investments {
		entries = append(entries, Entry{
			Kind:   KindInvestment,
			ID:     inv.ID,
			Amount: inv.Amount,
			Status: string(inv.DisplayStatus(now)),
			Date:   inv.StartDate,
		})
	}
	for _, wd := range withdrawals {
		entries = append(entries, Entry{
			Kind:   KindWithdrawal,
			ID:     wd.ID,
			Amount: wd.Amount,
			Status: string(wd.Status),
			Date:   wd.RequestDate,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	return entries, nil
}
