package withdrawals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/dto"
	withdrawalservice "github.com/avencore/investcore/internal/service/withdrawalservice"
	"github.com/avencore/investcore/pkg/auth"
	"github.com/avencore/investcore/pkg/utils"
)

type Service interface {
	Request(ctx context.Context, userID int, amount decimal.Decimal, walletAddress string) (*domain.Withdrawal, error)
	Approve(ctx context.Context, id int) (*domain.Withdrawal, error)
	Reject(ctx context.Context, id int) (*domain.Withdrawal, error)
	Get(ctx context.Context, id int) (*domain.Withdrawal, error)
	ListPending(ctx context.Context) ([]domain.Withdrawal, error)
	History(ctx context.Context, userID int) ([]domain.Withdrawal, error)
}

type WithdrawalHandler struct {
	withdrawalService Service
}

func New(withdrawalService Service) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// Request godoc
//
//	@Summary		Request a withdrawal
//	@Description	Reserve matured funds and create a pending withdrawal
//	@Tags			Withdrawals
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RequestWithdrawalRequestDTO	true	"Withdrawal request payload"
//	@Success		201		{object}	dto.WithdrawalResponseDTO
//	@Failure		400		{object}	utils.Response	"Amount below minimum"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient matured funds"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/withdrawals [post]
func (h *WithdrawalHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.RequestWithdrawalRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	withdrawal, err := h.withdrawalService.Request(r.Context(), userID, req.Amount, req.WalletAddress)
	if err != nil {
		switch {
		case errors.Is(err, withdrawalservice.ErrBelowMinimum):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, withdrawalservice.ErrInsufficientMaturity):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, toResponseDTO(withdrawal))
}

// History godoc
//
//	@Summary		Get withdrawal history
//	@Tags			Withdrawals
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.WithdrawalResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/withdrawals [get]
func (h *WithdrawalHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	withdrawals, err := h.withdrawalService.History(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch withdrawals")
		return
	}

	resp := make([]dto.WithdrawalResponseDTO, 0, len(withdrawals))
	for _, wd := range withdrawals {
		wd := wd
		resp = append(resp, toResponseDTO(&wd))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Approve godoc
//
//	@Summary		Approve a pending withdrawal
//	@Description	Mark the withdrawal approved; the held funds leave the platform
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			withdrawalID	path		int	true	"Withdrawal ID"
//	@Success		200				{object}	dto.WithdrawalResponseDTO
//	@Failure		400				{object}	utils.Response	"Already processed"
//	@Failure		401				{object}	utils.Response	"User not authorized"
//	@Failure		404				{object}	utils.Response	"Withdrawal not found"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/withdrawals/{withdrawalID}/approve [patch]
func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.withdrawalService.Approve)
}

// Reject godoc
//
//	@Summary		Reject a pending withdrawal
//	@Description	Mark the withdrawal rejected and return the held funds to the user
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			withdrawalID	path		int	true	"Withdrawal ID"
//	@Success		200				{object}	dto.WithdrawalResponseDTO
//	@Failure		400				{object}	utils.Response	"Already processed"
//	@Failure		401				{object}	utils.Response	"User not authorized"
//	@Failure		404				{object}	utils.Response	"Withdrawal not found"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/withdrawals/{withdrawalID}/reject [patch]
func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.withdrawalService.Reject)
}

func (h *WithdrawalHandler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int) (*domain.Withdrawal, error)) {
	withdrawalID, err := strconv.Atoi(chi.URLParam(r, "withdrawalID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	withdrawal, err := fn(r.Context(), withdrawalID)
	if err != nil {
		switch {
		case errors.Is(err, withdrawalservice.ErrWithdrawalNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, withdrawalservice.ErrAlreadyProcessed):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, toResponseDTO(withdrawal))
}

// Get godoc
//
//	@Summary		Get withdrawal details
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			withdrawalID	path		int	true	"Withdrawal ID"
//	@Success		200				{object}	dto.WithdrawalResponseDTO
//	@Failure		404				{object}	utils.Response	"Withdrawal not found"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/withdrawals/{withdrawalID} [get]
func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	withdrawalID, err := strconv.Atoi(chi.URLParam(r, "withdrawalID"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	withdrawal, err := h.withdrawalService.Get(r.Context(), withdrawalID)
	if err != nil {
		if errors.Is(err, withdrawalservice.ErrWithdrawalNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponseDTO(withdrawal))
}

// ListPending godoc
//
//	@Summary		List pending withdrawals
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.WithdrawalResponseDTO
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/withdrawals/pending [get]
func (h *WithdrawalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalService.ListPending(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch pending withdrawals")
		return
	}

	resp := make([]dto.WithdrawalResponseDTO, 0, len(withdrawals))
	for _, wd := range withdrawals {
		wd := wd
		resp = append(resp, toResponseDTO(&wd))
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func toResponseDTO(wd *domain.Withdrawal) dto.WithdrawalResponseDTO {
	return dto.WithdrawalResponseDTO{
		ID:            wd.ID,
		Amount:        wd.Amount,
		WalletAddress: wd.WalletAddress,
		Status:        string(wd.Status),
		RequestDate:   wd.RequestDate,
		ApprovalDate:  wd.ApprovalDate,
	}
}
