package create_reservation

import (
	"time"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	createReservation "github.com/m04kA/GameClub-ReservationService/internal/usecase/create_group_reservation"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
// unitCount = 1 дает обычную одиночную бронь, больше - групповую
// на последовательных юнитах начиная с firstUnit
type CreateReservationRequest struct {
	ClubID          int64   `json:"clubId"`
	ResourceType    string  `json:"resourceType"`
	ResourceSubtype *string `json:"resourceSubtype,omitempty"`
	FirstUnit       int     `json:"firstUnit"`
	UnitCount       int     `json:"unitCount"`
	Date            string  `json:"date"`      // "2025-10-16"
	StartTime       string  `json:"startTime"` // "09:30"
	EndTime         string  `json:"endTime"`   // "11:30"
}

// ReservationResponse HTTP модель одного бронирования в группе
type ReservationResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	ClubID          int64   `json:"clubId"`
	ResourceType    string  `json:"resourceType"`
	ResourceSubtype *string `json:"resourceSubtype,omitempty"`
	UnitNumber      int     `json:"unitNumber"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	HourlyRate      float64 `json:"hourlyRate"`
	Amount          float64 `json:"amount"`
	GroupIndex      int     `json:"groupIndex"`
	CreatedAt       string  `json:"createdAt"`
}

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	GroupID      string                 `json:"groupId"`
	TotalAmount  float64                `json:"totalAmount"`
	Reservations []*ReservationResponse `json:"reservations"`
}

// ConflictResponse тело ответа 409 с данными для повторного запроса
type ConflictResponse struct {
	Code             int    `json:"code"`
	Message          string `json:"message"`
	UnavailableUnits []int  `json:"unavailableUnits"`
	AvailableUnits   []int  `json:"availableUnits"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:          userID,
		ClubID:          r.ClubID,
		ResourceType:    r.ResourceType,
		ResourceSubtype: r.ResourceSubtype,
		FirstUnit:       r.FirstUnit,
		UnitCount:       r.UnitCount,
		Date:            date,
		StartTime:       startTime,
		EndTime:         endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	reservations := make([]*ReservationResponse, len(resp.Reservations))
	for i, r := range resp.Reservations {
		reservations[i] = &ReservationResponse{
			ID:              r.ID,
			UserID:          r.UserID,
			ClubID:          r.ClubID,
			ResourceType:    r.ResourceType,
			ResourceSubtype: r.ResourceSubtype,
			UnitNumber:      r.UnitNumber,
			Date:            r.Date.Format(domain.DateFormat),
			StartTime:       r.StartTime.String(),
			EndTime:         r.EndTime.String(),
			Status:          r.Status,
			PaymentStatus:   r.PaymentStatus,
			HourlyRate:      r.HourlyRate,
			Amount:          r.Amount,
			GroupIndex:      r.GroupIndex,
			CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		}
	}

	return &CreateReservationResponse{
		GroupID:      resp.GroupID,
		TotalAmount:  resp.TotalAmount,
		Reservations: reservations,
	}
}
