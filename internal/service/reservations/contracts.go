package reservations

import (
	"context"
	"time"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/paymentservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	GetConfirmedDue(ctx context.Context, date time.Time) ([]*domain.Reservation, error)
	SetPayment(ctx context.Context, id int64, status domain.ReservationStatus, paymentStatus domain.PaymentStatus) error
	Cancel(ctx context.Context, id int64, reason string, refundAmount float64, paymentStatus domain.PaymentStatus) error
	UpdateStatusBatch(ctx context.Context, ids []int64, status domain.ReservationStatus) error
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClubServiceClient интерфейс клиента для ClubService
type ClubServiceClient interface {
	GetClub(ctx context.Context, clubID int64) (*clubservice.Club, error)
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	NotifyRefund(ctx context.Context, req *paymentservice.RefundRequest) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
