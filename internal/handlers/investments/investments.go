package investments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/dto"
	investmentservice "github.com/avencore/investcore/internal/service/investmentservice"
	"github.com/avencore/investcore/pkg/auth"
	"github.com/avencore/investcore/pkg/utils"
)

type Service interface {
	Start(ctx context.Context, userID int, planName string, amount decimal.Decimal) (*domain.Investment, error)
	Approve(ctx context.Context, investmentID int) (*domain.Investment, error)
	Reject(ctx context.Context, investmentID int) (*domain.Investment, error)
	SettleMatured(ctx context.Context, userID int) (int, *domain.User, error)
	History(ctx context.Context, userID int) ([]domain.Investment, error)
	Details(ctx context.Context, investmentID int) (*domain.Investment, error)
	ListPending(ctx context.Context) ([]domain.Investment, error)
	TotalInvested(ctx context.Context, userID int) (decimal.Decimal, error)
}

type InvestmentHandler struct {
	investmentService Service
}

func New(investmentService Service) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
	}
}

// Start godoc
//
//	@Summary		Start an investment
//	@Description	Create a pending investment in a named plan; funds stay spendable until admin approval
//	@Tags			Investments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.StartInvestmentRequestDTO	true	"Investment request payload"
//	@Success		201		{object}	dto.InvestmentResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount or out of plan range"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		403		{object}	utils.Response	"User not verified"
//	@Failure		404		{object}	utils.Response	"Plan not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/investments [post]
func (h *InvestmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.StartInvestmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	investment, err := h.investmentService.Start(r.Context(), userID, req.PlanName, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, investmentservice.ErrInvalidAmount), errors.Is(err, investmentservice.ErrAmountOutOfRange):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, investmentservice.ErrUserNotVerified):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, investmentservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, investmentservice.ErrPlanNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, toResponseDTO(investment, time.Now()))
}

// History godoc
//
//	@Summary		Get investment history
//	@Description	List the user's investments with computed display statuses
//	@Tags			Investments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.InvestmentResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/investments [get]
func (h *InvestmentHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	investments, err := h.investmentService.History(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch investments")
		return
	}

	now := time.Now()
	resp := make([]dto.InvestmentResponseDTO, 0, len(investments))
	for _, inv := range investments {
		inv := inv
		resp = append(resp, toResponseDTO(&inv, now))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// SettleMaturity godoc
//
//	@Summary		Settle matured investments
//	@Description	Run the lazy settlement sweep for the authenticated user
//	@Tags			Investments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.SettleMaturityResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/investments/maturity [post]
func (h *InvestmentHandler) SettleMaturity(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	credited, user, err := h.investmentService.SettleMatured(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to settle matured investments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.SettleMaturityResponseDTO{
		CreditedCount:       credited,
		Balance:             user.Balance,
		InvestmentBalance:   user.InvestmentBalance,
		TotalMaturityAmount: user.TotalMaturityAmount,
	})
}

// TotalInvested godoc
//
//	@Summary		Get total invested amount
//	@Description	Sum of the user's active investment principal
//	@Tags			Investments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.TotalInvestedResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/investments/total [get]
func (h *InvestmentHandler) TotalInvested(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	total, err := h.investmentService.TotalInvested(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to sum investments")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TotalInvestedResponseDTO{TotalInvestmentAmount: total})
}

// Approve godoc
//
//	@Summary		Approve a pending investment
//	@Description	Activate an investment and move its amount into the locked investment balance
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			investmentID	path		int	true	"Investment ID"
//	@Success		200				{object}	dto.InvestmentResponseDTO
//	@Failure		400				{object}	utils.Response	"Already processed"
//	@Failure		401				{object}	utils.Response	"User not authorized"
//	@Failure		402				{object}	utils.Response	"Insufficient balance"
//	@Failure		404				{object}	utils.Response	"Investment not found"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/investments/{investmentID}/approve [patch]
func (h *InvestmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.investmentService.Approve)
}

// Reject godoc
//
//	@Summary		Reject a pending investment
//	@Description	Reject an investment; no funds move since none were locked
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			investmentID	path		int	true	"Investment ID"
//	@Success		200				{object}	dto.InvestmentResponseDTO
//	@Failure		400				{object}	utils.Response	"Already processed"
//	@Failure		401				{object}	utils.Response	"User not authorized"
//	@Failure		404				{object}	utils.Response	"Investment not found"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/investments/{investmentID}/reject [patch]
func (h *InvestmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.investmentService.Reject)
}

func (h *InvestmentHandler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) (*domain.Investment, error)) {
	investmentID, err := strconv.Atoi(chi.URLParam(r, "investmentID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	investment, err := fn(r.Context(), investmentID)
	if err != nil {
		switch {
		case errors.Is(err, investmentservice.ErrInvestmentNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, investmentservice.ErrAlreadyProcessed):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, investmentservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, toResponseDTO(investment, time.Now()))
}

// Details godoc
//
//	@Summary		Get investment details
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			investmentID	path		int	true	"Investment ID"
//	@Success		200				{object}	dto.InvestmentResponseDTO
//	@Failure		404				{object}	utils.Response	"Investment not found"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/investments/{investmentID} [get]
func (h *InvestmentHandler) Details(w http.ResponseWriter, r *http.Request) {
	investmentID, err := strconv.Atoi(chi.URLParam(r, "investmentID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid investment id")
		return
	}

	investment, err := h.investmentService.Details(r.Context(), investmentID)
	if err != nil {
		if errors.Is(err, investmentservice.ErrInvestmentNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponseDTO(investment, time.Now()))
}

// ListPending godoc
//
//	@Summary		List pending investments
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.InvestmentResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/investments/pending [get]
func (h *InvestmentHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	investments, err := h.investmentService.ListPending(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch pending investments")
		return
	}

	now := time.Now()
	resp := make([]dto.InvestmentResponseDTO, 0, len(investments))
	for _, inv := range investments {
		inv := inv
		resp = append(resp, toResponseDTO(&inv, now))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func toResponseDTO(inv *domain.Investment, now time.Time) dto.InvestmentResponseDTO {
	return dto.InvestmentResponseDTO{
		ID:             inv.ID,
		PlanName:       inv.PlanName,
		Amount:         inv.Amount,
		StartDate:      inv.StartDate,
		EndDate:        inv.EndDate,
		MaturityAmount: inv.MaturityAmount,
		Status:         string(inv.DisplayStatus(now)),
	}
}
