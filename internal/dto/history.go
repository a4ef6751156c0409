package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type HistoryEntryDTO struct {
	Kind   string          `json:"kind" example:"Investment"`
	ID     int             `json:"id" example:"1"`
	Amount decimal.Decimal `json:"amount" swaggertype:"number" example:"300"`
	Status string          `json:"status" example:"Active"`
	Date   time.Time       `json:"date"`
}
