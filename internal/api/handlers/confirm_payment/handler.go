package confirm_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/GameClub-ReservationService/internal/api/handlers"
	"github.com/m04kA/GameClub-ReservationService/internal/service/reservations"
	"github.com/m04kA/GameClub-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/internal/payments/callback
// Внутренний эндпоинт для платежного сервиса, закрыт на уровне сети
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentCallbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /internal/payments/callback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.ConfirmPayment(r.Context(), &req); err != nil {
		if errors.Is(err, reservations.ErrInvalidInput) {
			h.logger.Warn("POST /internal/payments/callback - Invalid input: group_id=%s, error=%v", req.GroupID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}

		h.logger.Error("POST /internal/payments/callback - Failed: group_id=%s, error=%v", req.GroupID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/payments/callback - Processed: group_id=%s, success=%t", req.GroupID, req.Success)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
