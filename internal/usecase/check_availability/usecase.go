package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	clubClient "github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// UseCase use case для проверки доступности конкретного юнита
type UseCase struct {
	reservationRepo ReservationRepository
	clubClient      ClubServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	clubClient ClubServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		clubClient:      clubClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case проверки доступности юнита
// Оценка стоимости считается по одному юниту на запрошенное окно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: club=%d, resource=%s, unit=%d, date=%s, window=%s-%s",
		req.ClubID, req.ResourceType, req.UnitNumber, req.Date.Format(domain.DateFormat),
		req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не в прошлом
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CheckAvailability: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем каталог клуба
	club, err := uc.clubClient.GetClub(ctx, req.ClubID)
	if err != nil {
		if errors.Is(err, clubClient.ErrClubNotFound) {
			uc.logger.Warn("CheckAvailability: club id=%d not found", req.ClubID)
			return nil, ErrClubNotFound
		}
		uc.logger.Error("CheckAvailability: failed to get club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get club: %v", ErrDependencyFailure, err)
	}

	if !club.IsActive {
		uc.logger.Warn("CheckAvailability: club id=%d is inactive", req.ClubID)
		return nil, ErrClubInactive
	}

	// 4. Ищем ресурс в каталоге
	resource, ok := club.FindResource(req.ResourceType, req.ResourceSubtype)
	if !ok {
		uc.logger.Warn("CheckAvailability: resource %s not found in club id=%d", req.ResourceType, req.ClubID)
		return nil, ErrResourceNotFound
	}

	// 5. Проверяем, что юнит существует в каталоге
	if req.UnitNumber > resource.UnitCount {
		uc.logger.Warn("CheckAvailability: unit %d requested, catalog has %d", req.UnitNumber, resource.UnitCount)
		return nil, fmt.Errorf("%w: unit %d requested, catalog has %d",
			ErrCapacityExceeded, req.UnitNumber, resource.UnitCount)
	}

	// 6. Нормализуем окно и проверяем часы работы
	window, err := operatingWindow(club)
	if err != nil {
		uc.logger.Error("CheckAvailability: invalid operating hours for club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: invalid club operating hours: %v", ErrDependencyFailure, err)
	}

	candidate, err := validateWindow(window, req)
	if err != nil {
		uc.logger.Warn("CheckAvailability: window validation failed: %v", err)
		return nil, err
	}

	// 7. Получаем активные брони раздела и проверяем юнит
	filter := domain.PartitionFilter{
		ClubID:          req.ClubID,
		ResourceType:    req.ResourceType,
		ResourceSubtype: req.ResourceSubtype,
		Date:            req.Date,
	}

	reservations, err := uc.reservationRepo.GetActiveByPartition(ctx, filter)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	available := domain.UnitIsFree(reservations, candidate, req.UnitNumber)
	estimatedCost := domain.TotalAmount(candidate.DurationMinutes(), resource.HourlyRate, 1)

	uc.logger.Info("CheckAvailability: club=%d, unit=%d, available=%t, estimatedCost=%.2f",
		req.ClubID, req.UnitNumber, available, estimatedCost)

	return &Response{
		Available:     available,
		EstimatedCost: estimatedCost,
		HourlyRate:    resource.HourlyRate,
	}, nil
}

// operatingWindow строит операционное окно из каталога клуба
func operatingWindow(club *clubClient.Club) (domain.OperatingWindow, error) {
	open, err := types.NewTimeStringFromString(club.OpeningTime)
	if err != nil {
		return domain.OperatingWindow{}, err
	}
	closeT, err := types.NewTimeStringFromString(club.ClosingTime)
	if err != nil {
		return domain.OperatingWindow{}, err
	}
	return domain.NewOperatingWindow(open, closeT)
}
