package confirm_payment

import (
	"context"

	"github.com/m04kA/GameClub-ReservationService/internal/service/reservations/models"
)

type ReservationService interface {
	ConfirmPayment(ctx context.Context, req *models.PaymentCallbackRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
