package withdrawalservice

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/notify"
	"github.com/avencore/investcore/internal/pg"
)

type WithdrawalRepo interface {
	Create(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error)
	FindByID(ctx context.Context, id int) (*domain.Withdrawal, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error)
	FindPending(ctx context.Context) ([]domain.Withdrawal, error)
	MarkApproved(ctx context.Context, id int, approvalDate time.Time) (bool, error)
	MarkRejected(ctx context.Context, id int) (bool, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	HoldMaturity(ctx context.Context, userID int, amount decimal.Decimal) (bool, error)
	ReleaseMaturity(ctx context.Context, userID int, amount decimal.Decimal) error
}

type Notifier interface {
	Notify(ctx context.Context, recipient string, kind notify.Kind, data map[string]string) error
}

type Service struct {
	withdrawalRepo WithdrawalRepo
	userRepo       UserRepo
	txManager      pg.TXManager
	notifier       Notifier
	adminEmail     string
}

func New(withdrawalRepo WithdrawalRepo, userRepo UserRepo, txManager pg.TXManager, notifier Notifier, adminEmail string) *Service {
	return &Service{
		withdrawalRepo: withdrawalRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		notifier:       notifier,
		adminEmail:     adminEmail,
	}
}

// MinWithdrawalAmount is a business rule of the product, not a config
// knob.
var MinWithdrawalAmount = decimal.NewFromInt(50)

var (
	ErrBelowMinimum         = errors.New("the minimum amount for withdrawal is $50")
	ErrInsufficientMaturity = errors.New("insufficient maturity balance")
	ErrUserNotFound         = errors.New("user not found")
	ErrWithdrawalNotFound   = errors.New("withdrawal request not found")
	ErrAlreadyProcessed     = errors.New("withdrawal request already processed")
)

// Request places the optimistic hold: the maturity balance is debited
// immediately and the request goes to the admin as Pending. The hold
// and the record share one database transaction, so a failed insert
// cannot strand the debit.
func (s *Service) Request(ctx context.Context, userID int, amount decimal.Decimal, walletAddress string) (*domain.Withdrawal, error) {
	if amount.LessThan(MinWithdrawalAmount) {
		return nil, ErrBelowMinimum
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	withdrawal := &domain.Withdrawal{
		UserID:        userID,
		Amount:        amount,
		WalletAddress: walletAddress,
		Status:        domain.WithdrawalPending,
		RequestDate:   time.Now(),
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		held, err := s.userRepo.HoldMaturity(ctx, userID, amount)
		if err != nil {
			return err
		}
		if !held {
			return ErrInsufficientMaturity
		}
		_, err = s.withdrawalRepo.Create(ctx, withdrawal)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyQuietly(ctx, s.adminEmail, notify.KindWithdrawalRequested, map[string]string{
		"name":           user.Name,
		"amount":         amount.String(),
		"wallet_address": walletAddress,
	})

	return withdrawal, nil
}

// Approve makes the hold permanent.
func (s *Service) Approve(ctx context.Context, id int) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrWithdrawalNotFound
	}
	if withdrawal.Status != domain.WithdrawalPending {
		return nil, ErrAlreadyProcessed
	}

	approvalDate := time.Now()
	ok, err := s.withdrawalRepo.MarkApproved(ctx, withdrawal.ID, approvalDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyProcessed
	}

	withdrawal.Status = domain.WithdrawalApproved
	withdrawal.ApprovalDate = &approvalDate

	s.notifyDecision(ctx, withdrawal, "approved")

	return withdrawal, nil
}

// Reject releases the hold back to the maturity balance. The
// compensation and the status flip commit atomically; without the
// refund the held funds would be stranded forever.
func (s *Service) Reject(ctx context.Context, id int) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrWithdrawalNotFound
	}
	if withdrawal.Status != domain.WithdrawalPending {
		return nil, ErrAlreadyProcessed
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.withdrawalRepo.MarkRejected(ctx, withdrawal.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyProcessed
		}
		return s.userRepo.ReleaseMaturity(ctx, withdrawal.UserID, withdrawal.Amount)
	})
	if err != nil {
		return nil, err
	}

	withdrawal.Status = domain.WithdrawalRejected

	s.notifyDecision(ctx, withdrawal, "rejected")

	return withdrawal, nil
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrWithdrawalNotFound
	}
	return withdrawal, nil
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.FindPending(ctx)
	if err != nil {
		zap.L().Error("failed to fetch pending withdrawals", zap.Error(err))
		return nil, err
	}
	return withdrawals, nil
}

func (s *Service) History(ctx context.Context, userID int) ([]domain.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}
	return withdrawals, nil
}

func (s *Service) notifyDecision(ctx context.Context, withdrawal *domain.Withdrawal, decision string) {
	user, err := s.userRepo.FindByID(ctx, withdrawal.UserID)
	if err != nil || user == nil {
		zap.L().Error("can't load user for notification", zap.Int("userID", withdrawal.UserID), zap.Error(err))
		return
	}
	s.notifyQuietly(ctx, user.Email, notify.KindWithdrawalDecided, map[string]string{
		"name":           user.Name,
		"amount":         withdrawal.Amount.String(),
		"wallet_address": withdrawal.WalletAddress,
		"decision":       decision,
	})
}

func (s *Service) notifyQuietly(ctx context.Context, recipient string, kind notify.Kind, data map[string]string) {
	if err := s.notifier.Notify(ctx, recipient, kind, data); err != nil {
		zap.L().Error("notification failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
