package domain

// Entity lifecycles are expressed as typed statuses with a single
// transition table per entity. Repositories enforce the same edges
// with conditional updates keyed on the expected prior status.

type InvestmentStatus string

const (
	InvestmentPending  InvestmentStatus = "Pending"
	InvestmentActive   InvestmentStatus = "Active"
	InvestmentRejected InvestmentStatus = "Rejected"
	InvestmentEnded    InvestmentStatus = "Ended"
)

func (s InvestmentStatus) CanTransitionTo(next InvestmentStatus) bool {
	switch s {
	case InvestmentPending:
		return next == InvestmentActive || next == InvestmentRejected
	case InvestmentActive:
		return next == InvestmentEnded
	default:
		// Rejected and Ended are terminal.
		return false
	}
}

type AdminApproval string

const (
	ApprovalPending  AdminApproval = "Pending"
	ApprovalApproved AdminApproval = "approved"
	ApprovalRejected AdminApproval = "rejected"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "Pending"
	TransactionConfirmed TransactionStatus = "Confirmed"
	TransactionRejected  TransactionStatus = "Rejected"
	TransactionCompleted TransactionStatus = "Completed"
)

func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s != TransactionPending {
		return false
	}
	return next == TransactionConfirmed || next == TransactionRejected
}

// Lower is the lowercase mirror recorded on payment logs.
func (s TransactionStatus) Lower() string {
	switch s {
	case TransactionConfirmed:
		return "confirmed"
	case TransactionRejected:
		return "rejected"
	default:
		return "pending"
	}
}

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "Pending"
	WithdrawalApproved WithdrawalStatus = "Approved"
	WithdrawalRejected WithdrawalStatus = "Rejected"
)

func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	if s != WithdrawalPending {
		return false
	}
	return next == WithdrawalApproved || next == WithdrawalRejected
}
