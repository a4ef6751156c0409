package history

import (
	"context"
	"net/http"

	"github.com/avencore/investcore/internal/dto"
	"github.com/avencore/investcore/internal/service/historyservice"
	"github.com/avencore/investcore/pkg/auth"
	"github.com/avencore/investcore/pkg/utils"
)

type Service interface {
	Combined(ctx context.Context, userID int) ([]historyservice.Entry, error)
}

type HistoryHandler struct {
	historyService Service
}

func New(historyService Service) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// Combined godoc
//
//	@Summary		Get combined activity history
//	@Description	Deposits, investments and withdrawals merged into one list, newest first
//	@Tags			History
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.HistoryEntryDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/history [get]
func (h *HistoryHandler) Combined(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	entries, err := h.historyService.Combined(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	resp := make([]dto.HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.HistoryEntryDTO{
			Kind:   e.Kind,
			ID:     e.ID,
			Amount: e.Amount,
			Status: e.Status,
			Date:   e.Date,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
