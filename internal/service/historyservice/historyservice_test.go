package historyservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/avencore/investcore/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockTransactionRepo, *MockInvestmentRepo, *MockWithdrawalRepo) {
	ctrl := gomock.NewController(t)
	transactionRepo := NewMockTransactionRepo(ctrl)
	investmentRepo := NewMockInvestmentRepo(ctrl)
	withdrawalRepo := NewMockWithdrawalRepo(ctrl)
	service := New(transactionRepo, investmentRepo, withdrawalRepo)
	defer ctrl.Finish()
	return service, transactionRepo, investmentRepo, withdrawalRepo
}

func TestCombined(t *testing.T) {
	service, transactionRepo, investmentRepo, withdrawalRepo := NewMock(t)

	now := time.Now()

	t.Run("Merges all three workflows newest first", func(t *testing.T) {
		transactionRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return([]domain.Transaction{
			{ID: 1, Amount: decimal.NewFromInt(500), Status: domain.TransactionConfirmed, CreatedAt: now.Add(-3 * time.Hour)},
		}, nil)
		investmentRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return([]domain.Investment{
			{ID: 2, Amount: decimal.NewFromInt(300), Status: domain.InvestmentActive, StartDate: now.Add(-2 * time.Hour), EndDate: now.Add(24 * time.Hour)},
		}, nil)
		withdrawalRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return([]domain.Withdrawal{
			{ID: 3, Amount: decimal.NewFromInt(100), Status: domain.WithdrawalPending, RequestDate: now.Add(-time.Hour)},
		}, nil)

		entries, err := service.Combined(context.Background(), 1)
		assert.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Equal(t, KindWithdrawal, entries[0].Kind)
		assert.Equal(t, KindInvestment, entries[1].Kind)
		assert.Equal(t, KindTransaction, entries[2].Kind)
	})

	t.Run("Matured investment reads Ended before the sweep", func(t *testing.T) {
		transactionRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, nil)
		investmentRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return([]domain.Investment{
			{ID: 2, Status: domain.InvestmentActive, StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-time.Hour)},
		}, nil)
		withdrawalRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, nil)

		entries, err := service.Combined(context.Background(), 1)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, string(domain.InvestmentEnded), entries[0].Status)
	})

	t.Run("Empty history", func(t *testing.T) {
		transactionRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, nil)
		investmentRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, nil)
		withdrawalRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, nil)

		entries, err := service.Combined(context.Background(), 1)
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Propagates repository error", func(t *testing.T) {
		transactionRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, errors.New("db error"))

		_, err := service.Combined(context.Background(), 1)
		assert.Error(t, err)
	})
}
