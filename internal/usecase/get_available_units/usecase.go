package get_available_units

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	clubClient "github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// UseCase use case для получения свободных юнитов на окно брони
// Результат носит рекомендательный характер: финальная проверка
// занятости выполняется в сериализуемой транзакции при создании брони
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

// Execute выполняет use case получения свободных юнитов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableUnits: club=%d, resource=%s, date=%s, window=%s-%s",
		req.ClubID, req.ResourceType, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableUnits: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не в прошлом
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableUnits: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем каталог клуба
	club, err := uc.clubClient.GetClub(ctx, req.ClubID)
	if err != nil {
		if errors.Is(err, clubClient.ErrClubNotFound) {
			uc.logger.Warn("GetAvailableUnits: club id=%d not found", req.ClubID)
			return nil, ErrClubNotFound
		}
		uc.logger.Error("GetAvailableUnits: failed to get club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get club: %v", ErrDependencyFailure, err)
	}

	if !club.IsActive {
		uc.logger.Warn("GetAvailableUnits: club id=%d is inactive", req.ClubID)
		return nil, ErrClubInactive
	}

	// 4. Ищем ресурс в каталоге
	resource, ok := club.FindResource(req.ResourceType, req.ResourceSubtype)
	if !ok {
		uc.logger.Warn("GetAvailableUnits: resource %s not found in club id=%d", req.ResourceType, req.ClubID)
		return nil, ErrResourceNotFound
	}

	// 5. Нормализуем окно и проверяем часы работы
	window, err := operatingWindow(club)
	if err != nil {
		uc.logger.Error("GetAvailableUnits: invalid operating hours for club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: invalid club operating hours: %v", ErrDependencyFailure, err)
	}

	candidate, err := validateWindow(window, req)
	if err != nil {
		uc.logger.Warn("GetAvailableUnits: window validation failed: %v", err)
		return nil, err
	}

	// 6. Получаем активные брони раздела на эту дату
	filter := domain.PartitionFilter{
		ClubID:          req.ClubID,
		ResourceType:    req.ResourceType,
		ResourceSubtype: req.ResourceSubtype,
		Date:            req.Date,
	}

	reservations, err := uc.reservationRepo.GetActiveByPartition(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableUnits: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 7. Юнит свободен, если ни одна активная бронь юнита не пересекает окно
	availableUnits := domain.FreeUnits(reservations, candidate, resource.UnitCount)

	uc.logger.Info("GetAvailableUnits: %d of %d units available for club=%d, resource=%s, date=%s",
		len(availableUnits), resource.UnitCount, req.ClubID, req.ResourceType, req.Date.Format(domain.DateFormat))

	return &Response{
		ClubID:          req.ClubID,
		ResourceType:    req.ResourceType,
		ResourceSubtype: req.ResourceSubtype,
		Date:            req.Date,
		AvailableUnits:  availableUnits,
		TotalUnits:      resource.UnitCount,
		HourlyRate:      resource.HourlyRate,
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
