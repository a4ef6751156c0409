package depositservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/notify"
	"github.com/avencore/investcore/internal/pg"
)

type TransactionRepo interface {
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	FindByTransactionRef(ctx context.Context, ref string) (*domain.Transaction, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
	FindPending(ctx context.Context) ([]domain.Transaction, error)
	UpdateStatusIfPending(ctx context.Context, id int, status domain.TransactionStatus) (bool, error)
	CreatePaymentLog(ctx context.Context, log *domain.PaymentLog) (*domain.PaymentLog, error)
	FindLogByTransactionID(ctx context.Context, transactionID int) (*domain.PaymentLog, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	CreditBalance(ctx context.Context, userID int, amount decimal.Decimal) error
}

type Notifier interface {
	Notify(ctx context.Context, recipient string, kind notify.Kind, data map[string]string) error
}

type Service struct {
	transactionRepo TransactionRepo
	userRepo        UserRepo
	txManager       pg.TXManager
	notifier        Notifier
	adminEmail      string
}

func New(transactionRepo TransactionRepo, userRepo UserRepo, txManager pg.TXManager, notifier Notifier, adminEmail string) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		txManager:       txManager,
		notifier:        notifier,
		adminEmail:      adminEmail,
	}
}

var (
	ErrInvalidAmount       = errors.New("deposit amount must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyProcessed    = errors.New("transaction has already been confirmed or rejected")
	ErrInvalidDecision     = errors.New("invalid decision")
	ErrUserNotFound        = errors.New("user not found")
)

// CreateDeposit registers a Pending deposit. The balance is not
// touched until an admin confirms the transaction.
func (s *Service) CreateDeposit(ctx context.Context, userID int, amount decimal.Decimal) (*domain.Transaction, error) {
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

	transaction := &domain.Transaction{
		UserID:        userID,
		Amount:        amount,
		TransactionID: "TX-" + uuid.NewString(),
		Status:        domain.TransactionPending,
		CreatedAt:     time.Now(),
	}

	if _, err := s.transactionRepo.CreateTransaction(ctx, transaction); err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}

	s.notifyQuietly(ctx, s.adminEmail, notify.KindDepositCreated, map[string]string{
		"name":           user.Name,
		"amount":         amount.String(),
		"transaction_id": transaction.TransactionID,
	})

	return transaction, nil
}

// Decide settles a Pending deposit. The status transition, the
// balance credit and the payment log are committed in one database
// transaction, so a decided transaction always has its log and a
// retried decision can never credit twice.
func (s *Service) Decide(ctx context.Context, transactionRef string, decision domain.TransactionStatus, notes string) (*domain.PaymentLog, error) {
	if !domain.TransactionPending.CanTransitionTo(decision) {
		return nil, ErrInvalidDecision
	}

	transaction, err := s.transactionRepo.FindByTransactionRef(ctx, transactionRef)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, ErrTransactionNotFound
	}
	if transaction.Status != domain.TransactionPending {
		return nil, ErrAlreadyProcessed
	}

	log := &domain.PaymentLog{
		TransactionID:     transaction.ID,
		Amount:            transaction.Amount,
		Status:            decision.Lower(),
		AdminConfirmation: decision == domain.TransactionConfirmed,
		Notes:             notes,
		PaymentDate:       time.Now(),
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.transactionRepo.UpdateStatusIfPending(ctx, transaction.ID, decision)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyProcessed
		}

		if decision == domain.TransactionConfirmed {
			if err := s.userRepo.CreditBalance(ctx, transaction.UserID, transaction.Amount); err != nil {
				return err
			}
		}

		_, err = s.transactionRepo.CreatePaymentLog(ctx, log)
		return err
	})
	if err != nil {
		return nil, err
	}

	if user, err := s.userRepo.FindByID(ctx, transaction.UserID); err == nil && user != nil {
		s.notifyQuietly(ctx, user.Email, notify.KindDepositDecided, map[string]string{
			"name":           user.Name,
			"amount":         transaction.Amount.String(),
			"transaction_id": transaction.TransactionID,
			"decision":       decision.Lower(),
		})
	}

	return log, nil
}

// ViewStatus reports the stored transaction status, with the audit
// log attached once a decision has been recorded.
func (s *Service) ViewStatus(ctx context.Context, transactionRef string) (*domain.Transaction, *domain.PaymentLog, error) {
	transaction, err := s.transactionRepo.FindByTransactionRef(ctx, transactionRef)
	if err != nil {
		return nil, nil, err
	}
	if transaction == nil {
		return nil, nil, ErrTransactionNotFound
	}

	log, err := s.transactionRepo.FindLogByTransactionID(ctx, transaction.ID)
	if err != nil {
		return nil, nil, err
	}
	return transaction, log, nil
}

func (s *Service) ListPending(ctx context.Context) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.FindPending(ctx)
	if err != nil {
		zap.L().Error("failed to fetch pending transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

func (s *Service) notifyQuietly(ctx context.Context, recipient string, kind notify.Kind, data map[string]string) {
	if err := s.notifier.Notify(ctx, recipient, kind, data); err != nil {
		zap.L().Error("notification failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
