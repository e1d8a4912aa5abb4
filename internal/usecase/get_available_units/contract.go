package get_available_units

import (
	"context"
	"time"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// GetActiveByPartition получает активные брони раздела
	// (клуб, тип ресурса, подтип, дата)
	GetActiveByPartition(ctx context.Context, filter domain.PartitionFilter) ([]*domain.Reservation, error)
}

// ClubServiceClient интерфейс клиента для ClubService
type ClubServiceClient interface {
	GetClub(ctx context.Context, clubID int64) (*clubservice.Club, error)
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
