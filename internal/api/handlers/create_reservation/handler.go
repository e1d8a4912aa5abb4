package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/GameClub-ReservationService/internal/api/handlers"
	"github.com/m04kA/GameClub-ReservationService/internal/api/middleware"
	createReservation "github.com/m04kA/GameClub-ReservationService/internal/usecase/create_group_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgClubNotFound       = "клуб не найден"
	msgClubInactive       = "клуб временно не принимает бронирования"
	msgResourceNotFound   = "ресурс не найден в каталоге клуба"
	msgOutOfHours         = "запрошенное время вне часов работы клуба"
	msgInvalidWindow      = "некорректное окно бронирования"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgCapacityExceeded   = "запрошенные места превышают вместимость клуба"
	msgUnitsNotAvailable  = "часть запрошенных мест занята"
	msgTxAborted          = "бронирование не создано из-за конкурентного запроса, повторите попытку"
	msgDependencyFailure  = "внешний сервис недоступен"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		if req.Date != "" && len(req.Date) != len("2006-01-02") {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidTime)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Конфликт юнитов несет данные для повторного запроса
		var conflict *createReservation.UnitsConflictError
		if errors.As(err, &conflict) {
			h.logger.Warn("POST /reservations - Units not available: user_id=%d, club_id=%d, unavailable=%v",
				userID, req.ClubID, conflict.UnavailableUnits)
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Code:             http.StatusConflict,
				Message:          msgUnitsNotAvailable,
				UnavailableUnits: conflict.UnavailableUnits,
				AvailableUnits:   conflict.AvailableUnits,
			})
			return
		}

		switch {
		case errors.Is(err, createReservation.ErrClubNotFound):
			h.logger.Warn("POST /reservations - Club not found: club_id=%d", req.ClubID)
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, createReservation.ErrClubInactive):
			h.logger.Warn("POST /reservations - Club inactive: club_id=%d", req.ClubID)
			handlers.RespondUnprocessable(w, msgClubInactive)

		case errors.Is(err, createReservation.ErrResourceNotFound):
			h.logger.Warn("POST /reservations - Resource not found: club_id=%d, resource=%s", req.ClubID, req.ResourceType)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createReservation.ErrOutOfHours):
			h.logger.Warn("POST /reservations - Out of hours: user_id=%d, club_id=%d", userID, req.ClubID)
			handlers.RespondUnprocessable(w, msgOutOfHours)

		case errors.Is(err, createReservation.ErrInvalidWindow):
			h.logger.Warn("POST /reservations - Invalid window: user_id=%d, club_id=%d", userID, req.ClubID)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid date: user_id=%d, club_id=%d", userID, req.ClubID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createReservation.ErrCapacityExceeded):
			h.logger.Warn("POST /reservations - Capacity exceeded: user_id=%d, club_id=%d", userID, req.ClubID)
			handlers.RespondUnprocessable(w, msgCapacityExceeded)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createReservation.ErrTxAborted):
			h.logger.Warn("POST /reservations - Transaction aborted: user_id=%d, club_id=%d", userID, req.ClubID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgTxAborted)

		case errors.Is(err, createReservation.ErrDependencyFailure):
			h.logger.Error("POST /reservations - Dependency failure: user_id=%d, club_id=%d, error=%v",
				userID, req.ClubID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgDependencyFailure)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, club_id=%d, error=%v",
				userID, req.ClubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Group created successfully: group_id=%s, user_id=%d, club_id=%d, units=%d",
		result.GroupID, userID, req.ClubID, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusCreated, response)
}
