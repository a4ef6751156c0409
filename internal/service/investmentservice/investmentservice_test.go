package investmentservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockInvestmentRepo, *MockPlanRepo, *MockUserRepo, *pg.MockTXManager, *MockNotifier) {
	ctrl := gomock.NewController(t)
	investmentRepo := NewMockInvestmentRepo(ctrl)
	planRepo := NewMockPlanRepo(ctrl)
	userRepo := NewMockUserRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	notifier := NewMockNotifier(ctrl)
	service := New(investmentRepo, planRepo, userRepo, txManager, notifier, "admin@investcore.local")
	defer ctrl.Finish()
	return service, investmentRepo, planRepo, userRepo, txManager, notifier
}

func passThroughTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		})
}

func starterPlan() *domain.InvestmentPlan {
	return &domain.InvestmentPlan{
		ID:           1,
		Name:         "Starter Plan",
		MinAmount:    decimal.NewFromInt(100),
		MaxAmount:    decimal.NewFromInt(500),
		DurationDays: 1,
		InterestRate: decimal.NewFromInt(10),
	}
}

func verifiedUser(balance int64) *domain.User {
	return &domain.User{
		ID:         1,
		Name:       "Ann",
		Email:      "ann@example.com",
		IsVerified: true,
		Balance:    decimal.NewFromInt(balance),
	}
}

func TestStart(t *testing.T) {
	service, investmentRepo, planRepo, userRepo, _, notifier := NewMock(t)

	tests := []struct {
		name          string
		amount        decimal.Decimal
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Successful investment at 300 in Starter",
			amount: decimal.NewFromInt(300),
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
				planRepo.EXPECT().FindByName(gomock.Any(), "Starter Plan").Return(starterPlan(), nil)
				investmentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, inv *domain.Investment) (*domain.Investment, error) {
						assert.Equal(t, domain.InvestmentPending, inv.Status)
						assert.True(t, decimal.NewFromInt(330).Equal(inv.MaturityAmount))
						assert.Equal(t, inv.StartDate.AddDate(0, 0, 1), inv.EndDate)
						return inv, nil
					})
				notifier.EXPECT().Notify(gomock.Any(), "admin@investcore.local", gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:   "Bounds are inclusive at the minimum",
			amount: decimal.NewFromInt(100),
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
				planRepo.EXPECT().FindByName(gomock.Any(), "Starter Plan").Return(starterPlan(), nil)
				investmentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, inv *domain.Investment) (*domain.Investment, error) {
						return inv, nil
					})
				notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:   "Bounds are inclusive at the maximum",
			amount: decimal.NewFromInt(500),
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
				planRepo.EXPECT().FindByName(gomock.Any(), "Starter Plan").Return(starterPlan(), nil)
				investmentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, inv *domain.Investment) (*domain.Investment, error) {
						return inv, nil
					})
				notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:          "Zero amount",
			amount:        decimal.Zero,
			prepareMock:   func() {},
			expectedError: ErrInvalidAmount,
		},
		{
			name:   "Unverified user",
			amount: decimal.NewFromInt(300),
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(&domain.User{ID: 1, Balance: decimal.NewFromInt(1000)}, nil)
			},
			expectedError: ErrUserNotVerified,
		},
		{
			name:   "Insufficient balance",
			amount: decimal.NewFromInt(300),
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(200), nil)
			},
			expectedError: ErrInsufficientBalance,
		},
		{
			name:   "Unknown plan",
			amount: decimal.NewFromInt(300),
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
				planRepo.EXPECT().FindByName(gomock.Any(), "Starter Plan").Return(nil, nil)
			},
			expectedError: ErrPlanNotFound,
		},
		{
			name:   "Amount below plan minimum",
			amount: decimal.NewFromInt(99),
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
				planRepo.EXPECT().FindByName(gomock.Any(), "Starter Plan").Return(starterPlan(), nil)
			},
			expectedError: ErrAmountOutOfRange,
		},
		{
			name:   "Amount above plan maximum",
			amount: decimal.NewFromInt(501),
			prepareMock: func() {
				userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
				planRepo.EXPECT().FindByName(gomock.Any(), "Starter Plan").Return(starterPlan(), nil)
			},
			expectedError: ErrAmountOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			investment, err := service.Start(context.Background(), 1, "Starter Plan", tt.amount)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, investment)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.InvestmentPending, investment.Status)
			}
		})
	}
}

func TestApprove(t *testing.T) {
	service, investmentRepo, _, userRepo, txManager, notifier := NewMock(t)

	pending := func() *domain.Investment {
		return &domain.Investment{
			ID:     5,
			UserID: 1,
			Amount: decimal.NewFromInt(300),
			Status: domain.InvestmentPending,
		}
	}

	t.Run("Successful approval locks the funds", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 5).Return(pending(), nil)
		passThroughTx(txManager)
		investmentRepo.EXPECT().MarkApproved(gomock.Any(), 5, gomock.Any()).Return(true, nil)
		userRepo.EXPECT().LockForInvestment(gomock.Any(), 1, decimal.NewFromInt(300)).Return(true, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
		notifier.EXPECT().Notify(gomock.Any(), "ann@example.com", gomock.Any(), gomock.Any()).Return(nil)

		investment, err := service.Approve(context.Background(), 5)
		assert.NoError(t, err)
		assert.Equal(t, domain.InvestmentActive, investment.Status)
		assert.Equal(t, domain.ApprovalApproved, investment.AdminApproval)
		assert.NotNil(t, investment.ApprovalDate)
	})

	t.Run("Already processed", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 5).Return(&domain.Investment{
			ID:     5,
			Status: domain.InvestmentActive,
		}, nil)

		_, err := service.Approve(context.Background(), 5)
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})

	t.Run("Lost the race to another admin", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 5).Return(pending(), nil)
		passThroughTx(txManager)
		investmentRepo.EXPECT().MarkApproved(gomock.Any(), 5, gomock.Any()).Return(false, nil)

		_, err := service.Approve(context.Background(), 5)
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})

	t.Run("Balance spent between start and approval", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 5).Return(pending(), nil)
		passThroughTx(txManager)
		investmentRepo.EXPECT().MarkApproved(gomock.Any(), 5, gomock.Any()).Return(true, nil)
		userRepo.EXPECT().LockForInvestment(gomock.Any(), 1, decimal.NewFromInt(300)).Return(false, nil)

		_, err := service.Approve(context.Background(), 5)
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})

	t.Run("Not found", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 42).Return(nil, nil)

		_, err := service.Approve(context.Background(), 42)
		assert.ErrorIs(t, err, ErrInvestmentNotFound)
	})
}

func TestReject(t *testing.T) {
	service, investmentRepo, _, userRepo, _, notifier := NewMock(t)

	t.Run("Successful rejection", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 5).Return(&domain.Investment{
			ID:     5,
			UserID: 1,
			Status: domain.InvestmentPending,
		}, nil)
		investmentRepo.EXPECT().MarkRejected(gomock.Any(), 5, gomock.Any()).Return(true, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
		notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		investment, err := service.Reject(context.Background(), 5)
		assert.NoError(t, err)
		assert.Equal(t, domain.InvestmentRejected, investment.Status)
		assert.NotNil(t, investment.RejectionDate)
	})

	t.Run("Already processed", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 5).Return(&domain.Investment{
			ID:     5,
			Status: domain.InvestmentRejected,
		}, nil)

		_, err := service.Reject(context.Background(), 5)
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})
}

func TestSettleMatured(t *testing.T) {
	service, investmentRepo, _, userRepo, txManager, _ := NewMock(t)

	matured := domain.Investment{
		ID:             5,
		UserID:         1,
		Amount:         decimal.NewFromInt(300),
		MaturityAmount: decimal.NewFromInt(330),
		Status:         domain.InvestmentActive,
		EndDate:        time.Now().Add(-time.Hour),
	}

	t.Run("Credits each matured investment once", func(t *testing.T) {
		userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
		investmentRepo.EXPECT().FindMaturedByUserID(gomock.Any(), 1, gomock.Any()).Return([]domain.Investment{matured}, nil)
		passThroughTx(txManager)
		investmentRepo.EXPECT().MarkEnded(gomock.Any(), 5).Return(true, nil)
		userRepo.EXPECT().SettleMaturity(gomock.Any(), 1, decimal.NewFromInt(300), decimal.NewFromInt(330)).Return(nil)
		userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)

		credited, user, err := service.SettleMatured(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, credited)
		assert.NotNil(t, user)
	})

	t.Run("Second run is a no-op", func(t *testing.T) {
		userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
		investmentRepo.EXPECT().FindMaturedByUserID(gomock.Any(), 1, gomock.Any()).Return([]domain.Investment{matured}, nil)
		passThroughTx(txManager)
		investmentRepo.EXPECT().MarkEnded(gomock.Any(), 5).Return(false, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)

		credited, _, err := service.SettleMatured(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 0, credited)
	})

	t.Run("Nothing matured", func(t *testing.T) {
		userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)
		investmentRepo.EXPECT().FindMaturedByUserID(gomock.Any(), 1, gomock.Any()).Return(nil, nil)
		userRepo.EXPECT().FindByID(gomock.Any(), 1).Return(verifiedUser(1000), nil)

		credited, _, err := service.SettleMatured(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, 0, credited)
	})

	t.Run("Unknown user", func(t *testing.T) {
		userRepo.EXPECT().FindByID(gomock.Any(), 42).Return(nil, nil)

		_, _, err := service.SettleMatured(context.Background(), 42)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSettle(t *testing.T) {
	service, investmentRepo, _, userRepo, txManager, _ := NewMock(t)

	investment := domain.Investment{
		ID:             5,
		UserID:         1,
		Amount:         decimal.NewFromInt(300),
		MaturityAmount: decimal.NewFromInt(330),
	}

	t.Run("Settles once", func(t *testing.T) {
		passThroughTx(txManager)
		investmentRepo.EXPECT().MarkEnded(gomock.Any(), 5).Return(true, nil)
		userRepo.EXPECT().SettleMaturity(gomock.Any(), 1, investment.Amount, investment.MaturityAmount).Return(nil)

		settled, err := service.Settle(context.Background(), investment)
		assert.NoError(t, err)
		assert.True(t, settled)
	})

	t.Run("Already settled elsewhere", func(t *testing.T) {
		passThroughTx(txManager)
		investmentRepo.EXPECT().MarkEnded(gomock.Any(), 5).Return(false, nil)

		settled, err := service.Settle(context.Background(), investment)
		assert.NoError(t, err)
		assert.False(t, settled)
	})

	t.Run("Bucket mutation failure rolls back", func(t *testing.T) {
		passThroughTx(txManager)
		investmentRepo.EXPECT().MarkEnded(gomock.Any(), 5).Return(true, nil)
		userRepo.EXPECT().SettleMaturity(gomock.Any(), 1, investment.Amount, investment.MaturityAmount).Return(errors.New("db error"))

		settled, err := service.Settle(context.Background(), investment)
		assert.Error(t, err)
		assert.False(t, settled)
	})
}

func TestTotalInvested(t *testing.T) {
	service, investmentRepo, _, _, _, _ := NewMock(t)

	investmentRepo.EXPECT().TotalAmountByUserID(gomock.Any(), 1).Return(decimal.NewFromInt(800), nil)

	total, err := service.TotalInvested(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(total))
}

func TestDetails(t *testing.T) {
	service, investmentRepo, _, _, _, _ := NewMock(t)

	t.Run("Found", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 5).Return(&domain.Investment{ID: 5}, nil)

		investment, err := service.Details(context.Background(), 5)
		assert.NoError(t, err)
		assert.Equal(t, 5, investment.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		investmentRepo.EXPECT().FindByID(gomock.Any(), 42).Return(nil, nil)

		_, err := service.Details(context.Background(), 42)
		assert.ErrorIs(t, err, ErrInvestmentNotFound)
	})
}
