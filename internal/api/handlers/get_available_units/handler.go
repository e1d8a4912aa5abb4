package get_available_units

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/GameClub-ReservationService/internal/api/handlers"
	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	getAvailableUnits "github.com/m04kA/GameClub-ReservationService/internal/usecase/get_available_units"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

const (
	msgInvalidClubID      = "некорректный ID клуба"
	msgMissingParams      = "обязательные параметры: resourceType, date, startTime, endTime"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgClubNotFound       = "клуб не найден"
	msgClubInactive       = "клуб временно не принимает бронирования"
	msgResourceNotFound   = "ресурс не найден в каталоге клуба"
	msgOutOfHours         = "запрошенное время вне часов работы клуба"
	msgInvalidWindow      = "некорректное окно бронирования"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDependencyFailure  = "внешний сервис недоступен"
)

type Handler struct {
	useCase GetAvailableUnitsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableUnitsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/available-units
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clubID, err := strconv.ParseInt(vars["clubId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clubs/{clubId}/available-units - Invalid club ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	params, errMsg := parseQuery(r)
	if errMsg != "" {
		h.logger.Warn("GET /clubs/{clubId}/available-units - Invalid query: club_id=%d, %s", clubID, errMsg)
		handlers.RespondBadRequest(w, errMsg)
		return
	}

	result, err := h.useCase.Execute(r.Context(), params.toUseCaseRequest(clubID))
	if err != nil {
		switch {
		case errors.Is(err, getAvailableUnits.ErrClubNotFound):
			h.logger.Warn("GET /clubs/{clubId}/available-units - Club not found: club_id=%d", clubID)
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, getAvailableUnits.ErrClubInactive):
			h.logger.Warn("GET /clubs/{clubId}/available-units - Club inactive: club_id=%d", clubID)
			handlers.RespondUnprocessable(w, msgClubInactive)

		case errors.Is(err, getAvailableUnits.ErrResourceNotFound):
			h.logger.Warn("GET /clubs/{clubId}/available-units - Resource not found: club_id=%d, resource=%s",
				clubID, params.resourceType)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailableUnits.ErrOutOfHours):
			handlers.RespondUnprocessable(w, msgOutOfHours)

		case errors.Is(err, getAvailableUnits.ErrInvalidWindow):
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, getAvailableUnits.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, getAvailableUnits.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingParams)

		case errors.Is(err, getAvailableUnits.ErrDependencyFailure):
			h.logger.Error("GET /clubs/{clubId}/available-units - Dependency failure: club_id=%d, error=%v", clubID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgDependencyFailure)

		default:
			h.logger.Error("GET /clubs/{clubId}/available-units - Failed: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /clubs/{clubId}/available-units - %d units available: club_id=%d, resource=%s",
		len(result.AvailableUnits), clubID, params.resourceType)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// parseQuery разбирает query параметры, возвращает сообщение об ошибке для клиента
func parseQuery(r *http.Request) (*queryParams, string) {
	q := r.URL.Query()

	resourceType := q.Get("resourceType")
	dateStr := q.Get("date")
	startStr := q.Get("startTime")
	endStr := q.Get("endTime")

	if resourceType == "" || dateStr == "" || startStr == "" || endStr == "" {
		return nil, msgMissingParams
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

	return &queryParams{
		resourceType:    resourceType,
		resourceSubtype: subtype,
		date:            date,
		startTime:       startTime,
		endTime:         endTime,
	}, ""
}
