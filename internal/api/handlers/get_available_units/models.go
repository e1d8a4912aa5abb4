package get_available_units

import (
	"time"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	getAvailableUnits "github.com/m04kA/GameClub-ReservationService/internal/usecase/get_available_units"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// AvailableUnitsResponse HTTP response model
type AvailableUnitsResponse struct {
	ClubID          int64   `json:"clubId"`
	ResourceType    string  `json:"resourceType"`
	ResourceSubtype *string `json:"resourceSubtype,omitempty"`
	Date            string  `json:"date"`
	AvailableUnits  []int   `json:"availableUnits"`
	TotalUnits      int     `json:"totalUnits"`
	HourlyRate      float64 `json:"hourlyRate"`
}

// queryParams разобранные query параметры запроса
type queryParams struct {
	resourceType    string
	resourceSubtype *string
	date            time.Time
	startTime       types.TimeString
	endTime         types.TimeString
}

// toUseCaseRequest конвертирует параметры в модель use case
func (q *queryParams) toUseCaseRequest(clubID int64) *getAvailableUnits.Request {
	return &getAvailableUnits.Request{
		ClubID:          clubID,
		ResourceType:    q.resourceType,
		ResourceSubtype: q.resourceSubtype,
		Date:            q.date,
		StartTime:       q.startTime,
		EndTime:         q.endTime,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableUnits.Response) *AvailableUnitsResponse {
	return &AvailableUnitsResponse{
		ClubID:          resp.ClubID,
		ResourceType:    resp.ResourceType,
		ResourceSubtype: resp.ResourceSubtype,
		Date:            resp.Date.Format(domain.DateFormat),
		AvailableUnits:  resp.AvailableUnits,
		TotalUnits:      resp.TotalUnits,
		HourlyRate:      resp.HourlyRate,
	}
}
