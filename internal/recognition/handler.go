package recognition

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cashbook/internal"
	"cashbook/internal/auth"
	"cashbook/internal/transport"
	"cashbook/pkg/logger"
)

// recognizeTimeout bounds queue wait plus the upstream completion call.
const recognizeTimeout = 3 * time.Minute

type ServiceAPI interface {
	Recognize(ctx context.Context, userID string, dto RecognizeDTO) ([]Proposal, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Recognize(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	var dto RecognizeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Recognize: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := internal.WithTimeout(r.Context(), recognizeTimeout)
	defer cancel()

	proposals, err := h.Service.Recognize(ctx, user.ID, dto)
	if err != nil {
		h.Logger.Error("Recognize: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RecognitionResponse{Success: true, Transactions: proposals})
}
