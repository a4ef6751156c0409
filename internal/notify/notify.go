package notify

import "context"

// Kind selects the message template.
type Kind string

const (
	KindDepositCreated      Kind = "deposit_created"
	KindDepositDecided      Kind = "deposit_decided"
	KindInvestmentRequested Kind = "investment_requested"
	KindInvestmentDecided   Kind = "investment_decided"
	KindWithdrawalRequested Kind = "withdrawal_requested"
	KindWithdrawalDecided   Kind = "withdrawal_decided"
)

// Notifier delivers status-change notifications. Delivery is
// best-effort: callers log a returned error and move on, a committed
// balance change is never rolled back because mail failed.
type Notifier interface {
	Notify(ctx context.Context, recipient string, kind Kind, data map[string]string) error
}
