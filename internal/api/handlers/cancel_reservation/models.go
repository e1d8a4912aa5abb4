package cancel_reservation

import (
	"github.com/m04kA/GameClub-ReservationService/internal/service/reservations/models"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelReservationRequest) ToServiceRequest(userID int64) *models.CancelReservationRequest {
	reason := ""
	if r.CancellationReason != nil {
		reason = *r.CancellationReason
	}

	return &models.CancelReservationRequest{
		UserID:             userID,
		CancellationReason: reason,
	}
}
