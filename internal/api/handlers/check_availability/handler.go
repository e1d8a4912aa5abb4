package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/GameClub-ReservationService/internal/api/handlers"
	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	checkAvailability "github.com/m04kA/GameClub-ReservationService/internal/usecase/check_availability"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

const (
	msgInvalidClubID      = "некорректный ID клуба"
	msgMissingParams      = "обязательные параметры: resourceType, unitNumber, date, startTime, endTime"
	msgInvalidUnitNumber  = "некорректный номер места"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgClubNotFound       = "клуб не найден"
	msgClubInactive       = "клуб временно не принимает бронирования"
	msgResourceNotFound   = "ресурс не найден в каталоге клуба"
	msgOutOfHours         = "запрошенное время вне часов работы клуба"
	msgInvalidWindow      = "некорректное окно бронирования"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgCapacityExceeded   = "номер места превышает вместимость клуба"
	msgDependencyFailure  = "внешний сервис недоступен"
)

// CheckAvailabilityResponse HTTP response model
type CheckAvailabilityResponse struct {
	Available     bool    `json:"available"`
	EstimatedCost float64 `json:"estimatedCost"`
	HourlyRate    float64 `json:"hourlyRate"`
}

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clubID, err := strconv.ParseInt(vars["clubId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clubs/{clubId}/availability - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	useCaseReq, errMsg := parseQuery(r, clubID)
	if errMsg != "" {
		h.logger.Warn("GET /clubs/{clubId}/availability - Invalid query: club_id=%d, %s", clubID, errMsg)
		handlers.RespondBadRequest(w, errMsg)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrClubNotFound):
			h.logger.Warn("GET /clubs/{clubId}/availability - Club not found: club_id=%d", clubID)
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, checkAvailability.ErrClubInactive):
			handlers.RespondUnprocessable(w, msgClubInactive)

		case errors.Is(err, checkAvailability.ErrResourceNotFound):
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, checkAvailability.ErrCapacityExceeded):
			handlers.RespondUnprocessable(w, msgCapacityExceeded)

		case errors.Is(err, checkAvailability.ErrOutOfHours):
			handlers.RespondUnprocessable(w, msgOutOfHours)

		case errors.Is(err, checkAvailability.ErrInvalidWindow):
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, checkAvailability.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingParams)

		case errors.Is(err, checkAvailability.ErrDependencyFailure):
			h.logger.Error("GET /clubs/{clubId}/availability - Dependency failure: club_id=%d, error=%v", clubID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgDependencyFailure)

		default:
			h.logger.Error("GET /clubs/{clubId}/availability - Failed: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clubs/{clubId}/availability - club_id=%d, unit=%d, available=%t",
		clubID, useCaseReq.UnitNumber, result.Available)
	handlers.RespondJSON(w, http.StatusOK, CheckAvailabilityResponse{
		Available:     result.Available,
		EstimatedCost: result.EstimatedCost,
		HourlyRate:    result.HourlyRate,
	})
}

// parseQuery разбирает query параметры, возвращает сообщение об ошибке для клиента
func parseQuery(r *http.Request, clubID int64) (*checkAvailability.Request, string) {
	q := r.URL.Query()

	resourceType := q.Get("resourceType")
	unitStr := q.Get("unitNumber")
	dateStr := q.Get("date")
	startStr := q.Get("startTime")
	endStr := q.Get("endTime")

	if resourceType == "" || unitStr == "" || dateStr == "" || startStr == "" || endStr == "" {
		return nil, msgMissingParams
	}

	unitNumber, err := strconv.Atoi(unitStr)
	if err != nil || unitNumber <= 0 {
		return nil, msgInvalidUnitNumber
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, msgInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return nil, msgInvalidTime
	}

	endTime, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return nil, msgInvalidTime
	}

	var subtype *string
	if s := q.Get("subtype"); s != "" {
		subtype = &s
	}

	return &checkAvailability.Request{
		ClubID:          clubID,
		ResourceType:    resourceType,
		ResourceSubtype: subtype,
		UnitNumber:      unitNumber,
		Date:            date,
		StartTime:       startTime,
		EndTime:         endTime,
	}, ""
}
