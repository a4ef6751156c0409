package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type StartInvestmentRequestDTO struct {
	PlanName string          `json:"plan_name" example:"Starter Plan"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"number" example:"300"`
}

type InvestmentResponseDTO struct {
	ID             int             `json:"id" example:"1"`
	PlanName       string          `json:"plan_name" example:"Starter Plan"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"number" example:"300"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	MaturityAmount decimal.Decimal `json:"maturity_amount" swaggertype:"number" example:"330"`
	Status         string          `json:"status" example:"Pending"`
}

type SettleMaturityResponseDTO struct {
	CreditedCount       int             `json:"credited_count" example:"1"`
	Balance             decimal.Decimal `json:"balance" swaggertype:"number" example:"700"`
	InvestmentBalance   decimal.Decimal `json:"investment_balance" swaggertype:"number" example:"0"`
	TotalMaturityAmount decimal.Decimal `json:"total_maturity_amount" swaggertype:"number" example:"330"`
}

type TotalInvestedResponseDTO struct {
	TotalInvestmentAmount decimal.Decimal `json:"total_investment_amount" swaggertype:"number" example:"300"`
}
