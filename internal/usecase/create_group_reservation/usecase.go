package create_group_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	clubClient "github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/GameClub-ReservationService/pkg/ptr"
	"github.com/m04kA/GameClub-ReservationService/pkg/txmanager"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// UseCase use case для атомарного создания групповой брони
// Гарантия "не больше одного победителя": доступность перепроверяется
// внутри той же сериализуемой транзакции, что выполняет запись
type UseCase struct {
	reservationRepo ReservationRepository
	clubClient      ClubServiceClient
	paymentClient   PaymentServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	clubClient ClubServiceClient,
	paymentClient PaymentServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		clubClient:      clubClient,
		paymentClient:   paymentClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания групповой брони
// Либо создаются все UnitCount бронирований на последовательных юнитах,
// либо ни одного
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateGroupReservation: user=%d, club=%d, resource=%s, units=%d..%d, date=%s, window=%s-%s",
		req.UserID, req.ClubID, req.ResourceType, req.FirstUnit, req.FirstUnit+req.UnitCount-1,
		req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateGroupReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата не в прошлом
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateGroupReservation: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем каталог клуба
	club, err := uc.clubClient.GetClub(ctx, req.ClubID)
	if err != nil {
		if errors.Is(err, clubClient.ErrClubNotFound) {
			uc.logger.Warn("CreateGroupReservation: club id=%d not found", req.ClubID)
			return nil, ErrClubNotFound
		}
		uc.logger.Error("CreateGroupReservation: failed to get club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get club: %v", ErrDependencyFailure, err)
	}

	if !club.IsActive {
		uc.logger.Warn("CreateGroupReservation: club id=%d is inactive", req.ClubID)
		return nil, ErrClubInactive
	}

	// 4. Ищем ресурс в каталоге
	resource, ok := club.FindResource(req.ResourceType, req.ResourceSubtype)
	if !ok {
		uc.logger.Warn("CreateGroupReservation: resource %s not found in club id=%d", req.ResourceType, req.ClubID)
		return nil, ErrResourceNotFound
	}

	// 5. Нормализуем окно брони и проверяем часы работы
	// Закрытие раньше открытия означает работу через полночь
	window, err := operatingWindow(club)
	if err != nil {
		uc.logger.Error("CreateGroupReservation: invalid operating hours for club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: invalid club operating hours: %v", ErrDependencyFailure, err)
	}

	candidate, err := validateWindow(window, req)
	if err != nil {
		uc.logger.Warn("CreateGroupReservation: window validation failed: %v", err)
		return nil, err
	}

	// 6. Проверяем вместимость каталога до открытия транзакции
	if err := validateCapacity(req.FirstUnit, req.UnitCount, resource.UnitCount); err != nil {
		uc.logger.Warn("CreateGroupReservation: capacity check failed: %v", err)
		return nil, err
	}

	// 7. Считаем стоимость: часы * ставка * количество юнитов
	unitAmount := domain.TotalAmount(candidate.DurationMinutes(), resource.HourlyRate, 1)
	totalAmount := domain.TotalAmount(candidate.DurationMinutes(), resource.HourlyRate, req.UnitCount)

	groupID := uuid.NewString()
	var created []*domain.Reservation

	// 8. Атомарная проверка и запись в сериализуемой транзакции
	// Чтение партиции берет FOR UPDATE, поэтому два конкурентных запроса
	// на пересекающиеся окна одного юнита не могут пройти оба
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Перечитываем партицию с блокировкой
		filter := domain.PartitionFilter{
			ClubID:          req.ClubID,
			ResourceType:    req.ResourceType,
			ResourceSubtype: req.ResourceSubtype,
			Date:            req.Date,
		}

		existing, err := uc.reservationRepo.GetActiveByPartition(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateGroupReservation: failed to get partition reservations: %v", err)
			return fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
		}

		// 8.2. Перепроверяем доступность всех запрошенных юнитов
		free := domain.FreeUnits(existing, candidate, resource.UnitCount)
		freeSet := make(map[int]bool, len(free))
		for _, u := range free {
			freeSet[u] = true
		}

		var unavailable []int
		for unit := req.FirstUnit; unit < req.FirstUnit+req.UnitCount; unit++ {
			if !freeSet[unit] {
				unavailable = append(unavailable, unit)
			}
		}

		if len(unavailable) > 0 {
			uc.logger.Warn("CreateGroupReservation: units %v are busy, free units: %v", unavailable, free)
			return &UnitsConflictError{
				UnavailableUnits: unavailable,
				AvailableUnits:   free,
			}
		}

		// 8.3. Создаем всех участников группы со статусом pending/unpaid
		reservations := make([]*domain.Reservation, 0, req.UnitCount)
		for i := 0; i < req.UnitCount; i++ {
			reservations = append(reservations, &domain.Reservation{
				UserID:          req.UserID,
				ClubID:          req.ClubID,
				ResourceType:    req.ResourceType,
				ResourceSubtype: req.ResourceSubtype,
				UnitNumber:      req.FirstUnit + i,
				ReservationDate: req.Date,
				StartTime:       req.StartTime,
				EndTime:         req.EndTime,
				StartMinutes:    candidate.Start,
				EndMinutes:      candidate.End,
				Status:          domain.StatusPending,
				PaymentStatus:   domain.PaymentUnpaid,
				HourlyRate:      resource.HourlyRate,
				TotalAmount:     unitAmount,
				GroupID:         ptr.Ptr(groupID),
				GroupIndex:      ptr.Ptr(i + 1),
			})
		}

		created, err = uc.reservationRepo.CreateGroup(txCtx, reservations)
		if err != nil {
			uc.logger.Error("CreateGroupReservation: failed to create reservations: %v", err)
			return fmt.Errorf("%w: failed to create reservations: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrTxAborted) {
			uc.logger.Warn("CreateGroupReservation: transaction aborted after retries: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrTxAborted, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateGroupReservation: created group=%s with %d reservations, total=%.2f",
		groupID, len(created), totalAmount)

	// 9. Сообщаем платежному сервису сумму группы одним платежом
	// Неудача не откатывает бронь: она остается pending/unpaid,
	// платежный сервис доберет ее своей сверкой
	ids := make([]int64, len(created))
	for i, r := range created {
		ids[i] = r.ID
	}

	chargeReq := &paymentservice.ChargeRequest{
		GroupID:        groupID,
		ReservationIDs: ids,
		UserID:         req.UserID,
		Amount:         totalAmount,
	}
	if err := uc.paymentClient.NotifyCharge(ctx, chargeReq); err != nil {
		uc.logger.Error("CreateGroupReservation: failed to notify payment service for group=%s: %v", groupID, err)
	}

	return buildResponse(groupID, totalAmount, created), nil
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

func buildResponse(groupID string, totalAmount float64, created []*domain.Reservation) *Response {
	data := make([]ReservationData, len(created))
	for i, r := range created {
		data[i] = ReservationData{
			ID:              r.ID,
			UserID:          r.UserID,
			ClubID:          r.ClubID,
			ResourceType:    r.ResourceType,
			ResourceSubtype: r.ResourceSubtype,
			UnitNumber:      r.UnitNumber,
			Date:            r.ReservationDate,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			Status:          string(r.Status),
			PaymentStatus:   string(r.PaymentStatus),
			HourlyRate:      r.HourlyRate,
			Amount:          r.TotalAmount,
			GroupIndex:      derefInt(r.GroupIndex),
			CreatedAt:       r.CreatedAt,
		}
	}

	return &Response{
		GroupID:      groupID,
		TotalAmount:  totalAmount,
		Reservations: data,
	}
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
