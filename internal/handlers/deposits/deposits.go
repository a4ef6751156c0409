package deposits

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/avencore/investcore/internal/domain"
	"github.com/avencore/investcore/internal/dto"
	depositservice "github.com/avencore/investcore/internal/service/depositservice"
	"github.com/avencore/investcore/pkg/auth"
	"github.com/avencore/investcore/pkg/utils"
)

type Service interface {
	CreateDeposit(ctx context.Context, userID int, amount decimal.Decimal) (*domain.Transaction, error)
	Decide(ctx context.Context, transactionRef string, decision domain.TransactionStatus, notes string) (*domain.PaymentLog, error)
	ViewStatus(ctx context.Context, transactionRef string) (*domain.Transaction, *domain.PaymentLog, error)
	ListPending(ctx context.Context) ([]domain.Transaction, error)
}

type DepositHandler struct {
	depositService Service
}

func New(depositService Service) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
	}
}

// Create godoc
//
//	@Summary		Create a deposit
//	@Description	Register a pending deposit transaction awaiting admin confirmation
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateDepositRequestDTO	true	"Deposit request payload"
//	@Success		201		{object}	dto.CreateDepositResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/deposits [post]
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreateDepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transaction, err := h.depositService.CreateDeposit(r.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, depositservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.CreateDepositResponseDTO{
		TransactionID: transaction.TransactionID,
		Amount:        transaction.Amount,
		Status:        string(transaction.Status),
		CreatedAt:     transaction.CreatedAt,
	})
}

// ViewStatus godoc
//
//	@Summary		View deposit status
//	@Description	Get the stored status of a deposit and its audit log once decided
//	@Tags			Deposits
//	@Security		BearerAuth
//	@Produce		json
//	@Param			transactionID	path		string	true	"Transaction reference"
//	@Success		200				{object}	dto.DepositStatusResponseDTO
//	@Failure		401				{object}	utils.Response	"User not authorized"
//	@Failure		404				{object}	utils.Response	"Transaction not found"
//	@Failure		500				{object}	utils.Response	"Internal server error"
//	@Router			/api/user/deposits/{transactionID} [get]
func (h *DepositHandler) ViewStatus(w http.ResponseWriter, r *http.Request) {
	transactionRef := chi.URLParam(r, "transactionID")

	transaction, log, err := h.depositService.ViewStatus(r.Context(), transactionRef)
	if err != nil {
		switch {
		case errors.Is(err, depositservice.ErrTransactionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	resp := dto.DepositStatusResponseDTO{
		TransactionID: transaction.TransactionID,
		Amount:        transaction.Amount,
		Status:        string(transaction.Status),
	}
	if log != nil {
		resp.AdminConfirmation = &log.AdminConfirmation
		resp.Notes = log.Notes
		resp.PaymentDate = &log.PaymentDate
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// Decide godoc
//
//	@Summary		Decide a pending deposit
//	@Description	Confirm or reject a pending deposit; confirmation credits the user balance
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DecideDepositRequestDTO	true	"Decision payload"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid decision or already processed"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"Transaction not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/deposits/decide [post]
func (h *DepositHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req dto.DecideDepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := h.depositService.Decide(r.Context(), req.TransactionID, domain.TransactionStatus(req.Decision), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, depositservice.ErrTransactionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, depositservice.ErrAlreadyProcessed), errors.Is(err, depositservice.ErrInvalidDecision):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Deposit decision recorded"})
}

// ListPending godoc
//
//	@Summary		List pending deposits
//	@Description	Fetch all deposits awaiting an admin decision
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.PendingDepositDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/deposits/pending [get]
func (h *DepositHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.depositService.ListPending(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch pending deposits")
		return
	}

	resp := make([]dto.PendingDepositDTO, 0, len(transactions))
	for _, tx := range transactions {
		resp = append(resp, dto.PendingDepositDTO{
			TransactionID: tx.TransactionID,
			UserID:        tx.UserID,
			Amount:        tx.Amount,
			CreatedAt:     tx.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
