package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                  int             `db:"id"`
	Login               string          `db:"login"`
	PasswordHash        string          `db:"password_hash"`
	Name                string          `db:"name"`
	Email               string          `db:"email"`
	Role                string          `db:"role"`
	IsVerified          bool            `db:"is_verified"`
	Balance             decimal.Decimal `db:"balance"`
	InvestmentBalance   decimal.Decimal `db:"investment_balance"`
	TotalMaturityAmount decimal.Decimal `db:"total_maturity_amount"`
	CreatedAt           time.Time       `db:"created_at"`
}

// InvestmentPlan is a read-only catalog entry seeded by migration.
type InvestmentPlan struct {
	ID           int             `db:"id"`
	Name         string          `db:"name"`
	MinAmount    decimal.Decimal `db:"min_amount"`
	MaxAmount    decimal.Decimal `db:"max_amount"`
	DurationDays int             `db:"duration_days"`
	InterestRate decimal.Decimal `db:"interest_rate"`
}

// MaturityAmount computes amount * (1 + rate/100) rounded to two
// decimals. The result is frozen on the investment at creation time;
// later plan edits never touch existing investments.
func (p InvestmentPlan) MaturityAmount(amount decimal.Decimal) decimal.Decimal {
	rate := p.InterestRate.Div(decimal.NewFromInt(100))
	return amount.Mul(decimal.NewFromInt(1).Add(rate)).Round(2)
}

type Investment struct {
	ID             int              `db:"id"`
	UserID         int              `db:"user_id"`
	PlanName       string           `db:"plan_name"`
	Amount         decimal.Decimal  `db:"amount"`
	StartDate      time.Time        `db:"start_date"`
	EndDate        time.Time        `db:"end_date"`
	MaturityAmount decimal.Decimal  `db:"maturity_amount"`
	Status         InvestmentStatus `db:"status"`
	AdminApproval  AdminApproval    `db:"admin_approval"`
	ApprovalDate   *time.Time       `db:"approval_date"`
	RejectionDate  *time.Time       `db:"rejection_date"`
}

// Matured reports whether an Active investment is past its end date.
// The maturity sweep and the history view use the same predicate, so
// a displayed "Ended" is always a settlement the next sweep will make.
func (i Investment) Matured(now time.Time) bool {
	return i.Status == InvestmentActive && !i.EndDate.After(now)
}

// DisplayStatus is the user-facing status. It can run ahead of the
// stored status only in the Active->Ended direction, before the lazy
// settlement sweep has persisted the transition.
func (i Investment) DisplayStatus(now time.Time) InvestmentStatus {
	if i.Matured(now) {
		return InvestmentEnded
	}
	return i.Status
}

type Transaction struct {
	ID            int               `db:"id"`
	UserID        int               `db:"user_id"`
	Amount        decimal.Decimal   `db:"amount"`
	TransactionID string            `db:"transaction_id"`
	Status        TransactionStatus `db:"status"`
	CreatedAt     time.Time         `db:"created_at"`
}

// PaymentLog is the append-only audit record written alongside a
// deposit decision. It is never updated after creation.
type PaymentLog struct {
	ID                int             `db:"id"`
	TransactionID     int             `db:"transaction_id"`
	Amount            decimal.Decimal `db:"amount"`
	Status            string          `db:"status"`
	AdminConfirmation bool            `db:"admin_confirmation"`
	Notes             string          `db:"notes"`
	PaymentDate       time.Time       `db:"payment_date"`
}

type Withdrawal struct {
	ID            int              `db:"id"`
	UserID        int              `db:"user_id"`
	Amount        decimal.Decimal  `db:"amount"`
	WalletAddress string           `db:"wallet_address"`
	Status        WithdrawalStatus `db:"status"`
	RequestDate   time.Time        `db:"request_date"`
	ApprovalDate  *time.Time       `db:"approval_date"`
}
