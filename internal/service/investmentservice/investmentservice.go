package investmentservice

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

type InvestmentRepo interface {
	Create(ctx context.Context, inv *domain.Investment) (*domain.Investment, error)
	FindByID(ctx context.Context, id int) (*domain.Investment, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Investment, error)
	FindPending(ctx context.Context) ([]domain.Investment, error)
	FindMaturedByUserID(ctx context.Context, userID int, now time.Time) ([]domain.Investment, error)
	TotalAmountByUserID(ctx context.Context, userID int) (decimal.Decimal, error)
	MarkApproved(ctx context.Context, id int, approvalDate time.Time) (bool, error)
	MarkRejected(ctx context.Context, id int, rejectionDate time.Time) (bool, error)
	MarkEnded(ctx context.Context, id int) (bool, error)
}

type PlanRepo interface {
	FindByName(ctx context.Context, name string) (*domain.InvestmentPlan, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	LockForInvestment(ctx context.Context, userID int, amount decimal.Decimal) (bool, error)
	SettleMaturity(ctx context.Context, userID int, amount, maturityAmount decimal.Decimal) error
}

type Notifier interface {
	Notify(ctx context.Context, recipient string, kind notify.Kind, data map[string]string) error
}

type Service struct {
	investmentRepo InvestmentRepo
	planRepo       PlanRepo
	userRepo       UserRepo
	txManager      pg.TXManager
	notifier       Notifier
	adminEmail     string
}

func New(investmentRepo InvestmentRepo, planRepo PlanRepo, userRepo UserRepo, txManager pg.TXManager, notifier Notifier, adminEmail string) *Service {
	return &Service{
		investmentRepo: investmentRepo,
		planRepo:       planRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		notifier:       notifier,
		adminEmail:     adminEmail,
	}
}

var (
	ErrInvalidAmount       = errors.New("invalid investment amount")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserNotVerified     = errors.New("user is not verified")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPlanNotFound        = errors.New("investment plan not found")
	ErrAmountOutOfRange    = errors.New("amount is outside the plan range")
	ErrInvestmentNotFound  = errors.New("investment not found")
	ErrAlreadyProcessed    = errors.New("investment is already processed")
)

// Start creates a Pending investment from a snapshot of the plan. The
// maturity amount and end date are frozen here; later plan edits do
// not touch the record. The spendable balance stays untouched until
// admin approval.
func (s *Service) Start(ctx context.Context, userID int, planName string, amount decimal.Decimal) (*domain.Investment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsVerified {
		return nil, ErrUserNotVerified
	}
	if user.Balance.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}

	plan, err := s.planRepo.FindByName(ctx, planName)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if amount.LessThan(plan.MinAmount) || amount.GreaterThan(plan.MaxAmount) {
		return nil, ErrAmountOutOfRange
	}

	now := time.Now()
	investment := &domain.Investment{
		UserID:         userID,
		PlanName:       plan.Name,
		Amount:         amount,
		StartDate:      now,
		EndDate:        now.AddDate(0, 0, plan.DurationDays),
		MaturityAmount: plan.MaturityAmount(amount),
		Status:         domain.InvestmentPending,
		AdminApproval:  domain.ApprovalPending,
	}

	if _, err := s.investmentRepo.Create(ctx, investment); err != nil {
		zap.L().Error("can't save investment", zap.Error(err))
		return nil, err
	}

	s.notifyQuietly(ctx, s.adminEmail, notify.KindInvestmentRequested, map[string]string{
		"name":   user.Name,
		"plan":   plan.Name,
		"amount": amount.String(),
	})

	return investment, nil
}

// Approve transitions Pending -> Active and moves the amount from the
// spendable balance into the locked investment balance. Both writes
// share one database transaction; the conditional status update keyed
// on Pending makes a concurrent or retried approval fail with
// ErrAlreadyProcessed instead of double-debiting.
func (s *Service) Approve(ctx context.Context, investmentID int) (*domain.Investment, error) {
	investment, err := s.investmentRepo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if investment == nil {
		return nil, ErrInvestmentNotFound
	}
	if investment.Status != domain.InvestmentPending {
		return nil, ErrAlreadyProcessed
	}

	approvalDate := time.Now()
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.investmentRepo.MarkApproved(ctx, investment.ID, approvalDate)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyProcessed
		}

		locked, err := s.userRepo.LockForInvestment(ctx, investment.UserID, investment.Amount)
		if err != nil {
			return err
		}
		if !locked {
			return ErrInsufficientBalance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	investment.Status = domain.InvestmentActive
	investment.AdminApproval = domain.ApprovalApproved
	investment.ApprovalDate = &approvalDate

	s.notifyDecision(ctx, investment, "approved")

	return investment, nil
}

// Reject transitions Pending -> Rejected. No funds were moved at
// start, so there is nothing to restore.
func (s *Service) Reject(ctx context.Context, investmentID int) (*domain.Investment, error) {
	investment, err := s.investmentRepo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if investment == nil {
		return nil, ErrInvestmentNotFound
	}
	if investment.Status != domain.InvestmentPending {
		return nil, ErrAlreadyProcessed
	}

	rejectionDate := time.Now()
	ok, err := s.investmentRepo.MarkRejected(ctx, investment.ID, rejectionDate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyProcessed
	}

	investment.Status = domain.InvestmentRejected
	investment.AdminApproval = domain.ApprovalRejected
	investment.RejectionDate = &rejectionDate

	s.notifyDecision(ctx, investment, "rejected")

	return investment, nil
}

// SettleMatured runs the lazy settlement sweep for one user: every
// Active investment past its end date releases its principal and
// credits the frozen maturity payout. Re-running is a no-op because
// the Active guard fails on already settled records.
func (s *Service) SettleMatured(ctx context.Context, userID int) (int, *domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	if user == nil {
		return 0, nil, ErrUserNotFound
	}

	matured, err := s.investmentRepo.FindMaturedByUserID(ctx, userID, time.Now())
	if err != nil {
		return 0, nil, err
	}

	credited := 0
	for _, investment := range matured {
		settled, err := s.Settle(ctx, investment)
		if err != nil {
			return credited, nil, err
		}
		if settled {
			credited++
		}
	}

	snapshot, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return credited, nil, err
	}
	return credited, snapshot, nil
}

// Settle finalizes one matured investment. The status flip and both
// bucket mutations commit atomically; a false return means another
// settlement run got there first.
func (s *Service) Settle(ctx context.Context, investment domain.Investment) (bool, error) {
	settled := false
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.investmentRepo.MarkEnded(ctx, investment.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		settled = true
		return s.userRepo.SettleMaturity(ctx, investment.UserID, investment.Amount, investment.MaturityAmount)
	})
	if err != nil {
		return false, err
	}
	return settled, nil
}

func (s *Service) History(ctx context.Context, userID int) ([]domain.Investment, error) {
	investments, err := s.investmentRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get investments", zap.Error(err))
		return nil, err
	}
	return investments, nil
}

func (s *Service) Details(ctx context.Context, investmentID int) (*domain.Investment, error) {
	investment, err := s.investmentRepo.FindByID(ctx, investmentID)
	if err != nil {
		return nil, err
	}
	if investment == nil {
		return nil, ErrInvestmentNotFound
	}
	return investment, nil
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Investment, error) {
	investments, err := s.investmentRepo.FindPending(ctx)
	if err != nil {
		zap.L().Error("failed to fetch pending investments", zap.Error(err))
		return nil, err
	}
	return investments, nil
}

func (s *Service) TotalInvested(ctx context.Context, userID int) (decimal.Decimal, error) {
	total, err := s.investmentRepo.TotalAmountByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to sum investments", zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Service) notifyDecision(ctx context.Context, investment *domain.Investment, decision string) {
	user, err := s.userRepo.FindByID(ctx, investment.UserID)
	if err != nil || user == nil {
		zap.L().Error("can't load user for notification", zap.Int("userID", investment.UserID), zap.Error(err))
		return
	}
	s.notifyQuietly(ctx, user.Email, notify.KindInvestmentDecided, map[string]string{
		"name":     user.Name,
		"plan":     investment.PlanName,
		"amount":   investment.Amount.String(),
		"decision": decision,
	})
}

func (s *Service) notifyQuietly(ctx context.Context, recipient string, kind notify.Kind, data map[string]string) {
	if err := s.notifier.Notify(ctx, recipient, kind, data); err != nil {
		zap.L().Error("notification failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
