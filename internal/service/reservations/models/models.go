package models

import (
	"errors"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Статусы возврата средств при отмене
const (
	RefundStatusNone      = "none"      // Возврат не положен
	RefundStatusRequested = "requested" // Возврат передан платежному сервису
	RefundStatusPending   = "pending"   // Возврат начислен, уведомление будет повторено
)

// Request модели

// CancelReservationRequest запрос на отмену бронирования
type CancelReservationRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// PaymentCallbackRequest колбэк платежного сервиса о результате оплаты группы
type PaymentCallbackRequest struct {
	GroupID        string  `json:"groupId"`
	ReservationIDs []int64 `json:"reservationIds"`
	Success        bool    `json:"success"`
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                 int64    `json:"id"`
	UserID             int64    `json:"userId"`
	ClubID             int64    `json:"clubId"`
	ResourceType       string   `json:"resourceType"`
	ResourceSubtype    *string  `json:"resourceSubtype,omitempty"`
	UnitNumber         int      `json:"unitNumber"`
	ReservationDate    string   `json:"reservationDate"` // "2025-10-16"
	StartTime          string   `json:"startTime"`       // "09:30"
	EndTime            string   `json:"endTime"`         // "11:30"
	Status             string   `json:"status"`
	PaymentStatus      string   `json:"paymentStatus"`
	HourlyRate         float64  `json:"hourlyRate"`
	TotalAmount        float64  `json:"totalAmount"`
	GroupID            *string  `json:"groupId,omitempty"`
	GroupIndex         *int     `json:"groupIndex,omitempty"`
	CancellationReason *string  `json:"cancellationReason,omitempty"`
	RefundAmount       *float64 `json:"refundAmount,omitempty"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []*ReservationResponse `json:"reservations"`
	Total        int                    `json:"total"`
}

// CancelReservationResponse результат отмены бронирования
type CancelReservationResponse struct {
	ReservationID int64   `json:"reservationId"`
	RefundAmount  float64 `json:"refundAmount"`
	RefundStatus  string  `json:"refundStatus"`
}

// Конвертеры

// FromDomainReservation конвертирует domain модель в response
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:                 r.ID,
		UserID:             r.UserID,
		ClubID:             r.ClubID,
		ResourceType:       r.ResourceType,
		ResourceSubtype:    r.ResourceSubtype,
		UnitNumber:         r.UnitNumber,
		ReservationDate:    r.ReservationDate.Format(domain.DateFormat),
		StartTime:          string(r.StartTime),
		EndTime:            string(r.EndTime),
		Status:             string(r.Status),
		PaymentStatus:      string(r.PaymentStatus),
		HourlyRate:         r.HourlyRate,
		TotalAmount:        r.TotalAmount,
		GroupID:            r.GroupID,
		GroupIndex:         r.GroupIndex,
		CancellationReason: r.CancellationReason,
		RefundAmount:       r.RefundAmount,
		CreatedAt:          r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:          r.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// FromDomainReservationList конвертирует список domain моделей в response
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	result := make([]*ReservationResponse, len(reservations))
	for i, r := range reservations {
		result[i] = FromDomainReservation(r)
	}
	return &ReservationListResponse{
		Reservations: result,
		Total:        len(result),
	}
}

// ToDomainReservationStatus конвертирует строку в domain статус
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	switch domain.ReservationStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
		return domain.ReservationStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
