package create_group_reservation

import (
	"context"
	"time"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/paymentservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetActiveByPartition(ctx context.Context, filter domain.PartitionFilter) ([]*domain.Reservation, error)
	CreateGroup(ctx context.Context, reservations []*domain.Reservation) ([]*domain.Reservation, error)
}

// ClubServiceClient интерфейс клиента каталога клубов
type ClubServiceClient interface {
	GetClub(ctx context.Context, clubID int64) (*clubservice.Club, error)
}

// PaymentServiceClient интерфейс клиента платежного сервиса
type PaymentServiceClient interface {
	NotifyCharge(ctx context.Context, req *paymentservice.ChargeRequest) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
