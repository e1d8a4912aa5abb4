package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/GameClub-ReservationService/internal/infra/storage/reservation"
	clubClient "github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/GameClub-ReservationService/internal/service/reservations/models"
)

// Service сервис для работы с существующими бронированиями:
// просмотр, отмена с возвратом, колбэк оплаты, завершение истекших
type Service struct {
	reservationRepo ReservationRepository
	txManager       TxManager
	clubClient      ClubServiceClient
	paymentClient   PaymentServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	txManager TxManager,
	clubClient ClubServiceClient,
	paymentClient PaymentServiceClient,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		clubClient:      clubClient,
		paymentClient:   paymentClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование
// или если он является менеджером клуба
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, reservation, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(reservation), nil
}

// GetUserReservations получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование и рассчитывает возврат средств
// Полный возврат положен, если до начала брони осталось не меньше часа,
// иначе возврат нулевой. Частичных возвратов нет
// Отмена участника группы не затрагивает остальных участников
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) (*models.CancelReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Отменить может владелец или менеджер клуба
	if reservation.UserID != req.UserID {
		if err := s.checkManagerAccess(ctx, reservation.ClubID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel reservation id=%d", req.UserID, reservationID)
			return nil, ErrAccessDenied
		}
	}

	if !reservation.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", reservationID, reservation.Status)
		return nil, ErrCannotCancel
	}

	// Рассчитываем возврат: только для оплаченных бронирований
	now := s.timeProvider.Now()
	var refundAmount float64
	if reservation.IsPaid() {
		start := reservation.StartInstant(now.Location())
		refundAmount = domain.RefundAmount(start, now, reservation.TotalAmount)
	}

	paymentStatus := reservation.PaymentStatus
	if refundAmount > 0 {
		paymentStatus = domain.PaymentRefunded
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID, req.CancellationReason, refundAmount, paymentStatus); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found during cancellation", reservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	refundStatus := models.RefundStatusNone

	// Уведомляем платежный сервис о возврате
	// Сбой уведомления не откатывает отмену: сумма возврата уже
	// зафиксирована в строке брони, сверка на стороне платежного сервиса
	if refundAmount > 0 {
		refundStatus = models.RefundStatusRequested
		notifyErr := s.paymentClient.NotifyRefund(ctx, &paymentservice.RefundRequest{
			ReservationID: reservationID,
			Amount:        refundAmount,
		})
		if notifyErr != nil {
			s.logger.Error("Cancel: failed to notify refund for reservation id=%d: %v", reservationID, notifyErr)
			refundStatus = models.RefundStatusPending
		}
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d, refund=%.2f, refundStatus=%s",
		reservationID, refundAmount, refundStatus)

	return &models.CancelReservationResponse{
		ReservationID: reservationID,
		RefundAmount:  refundAmount,
		RefundStatus:  refundStatus,
	}, nil
}

// ConfirmPayment обрабатывает колбэк платежного сервиса по группе бронирований
// Успешная оплата переводит pending брони в confirmed/paid,
// неуспешная - в cancelled/failed
// Группа обновляется в одной транзакции: ошибка на любой строке откатывает
// всю доставку, группа не остается наполовину подтвержденной
// Брони, уже покинувшие pending, пропускаются: колбэк идемпотентен
func (s *Service) ConfirmPayment(ctx context.Context, req *models.PaymentCallbackRequest) error {
	s.logger.Info("ConfirmPayment: group=%s, reservations=%d, success=%t",
		req.GroupID, len(req.ReservationIDs), req.Success)

	if len(req.ReservationIDs) == 0 {
		return fmt.Errorf("%w: reservationIds are required", ErrInvalidInput)
	}

	status := domain.StatusConfirmed
	paymentStatus := domain.PaymentPaid
	if !req.Success {
		status = domain.StatusCancelled
		paymentStatus = domain.PaymentFailed
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, id := range req.ReservationIDs {
			reservation, err := s.reservationRepo.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, reservationRepo.ErrReservationNotFound) {
					s.logger.Warn("ConfirmPayment: reservation id=%d not found, skipping", id)
					continue
				}
				s.logger.Error("ConfirmPayment: repository error for reservation id=%d: %v", id, err)
				return fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
			}

			if reservation.Status != domain.StatusPending {
				s.logger.Warn("ConfirmPayment: reservation id=%d already in status=%s, skipping", id, reservation.Status)
				continue
			}

			if err := s.reservationRepo.SetPayment(ctx, id, status, paymentStatus); err != nil {
				s.logger.Error("ConfirmPayment: failed to update reservation id=%d: %v", id, err)
				return fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		s.logger.Error("ConfirmPayment: transaction failed for group=%s: %v", req.GroupID, err)
		return fmt.Errorf("%w: ConfirmPayment - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("ConfirmPayment: group=%s processed, status=%s", req.GroupID, status)
	return nil
}

// CompleteElapsed переводит подтвержденные брони с истекшим окном в completed
// Вызывается фоновой задачей по расписанию
// Бронь через полночь завершается только после конца окна на следующий день
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	due, err := s.reservationRepo.GetConfirmedDue(ctx, today)
	if err != nil {
		s.logger.Error("CompleteElapsed: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteElapsed - repository error: %v", ErrInternal, err)
	}

	var elapsed []int64
	for _, r := range due {
		if !r.EndInstant(now.Location()).After(now) {
			elapsed = append(elapsed, r.ID)
		}
	}

	if len(elapsed) == 0 {
		return 0, nil
	}

	if err := s.reservationRepo.UpdateStatusBatch(ctx, elapsed, domain.StatusCompleted); err != nil {
		s.logger.Error("CompleteElapsed: failed to complete %d reservations: %v", len(elapsed), err)
		return 0, fmt.Errorf("%w: CompleteElapsed - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CompleteElapsed: completed %d reservations", len(elapsed))
	return len(elapsed), nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Пользователь может видеть своё бронирование или если он менеджер клуба
func (s *Service) checkUserAccess(ctx context.Context, reservation *domain.Reservation, userID int64) error {
	if reservation.UserID == userID {
		return nil
	}

	if err := s.checkManagerAccess(ctx, reservation.ClubID, userID); err != nil {
		// Ошибка уже залогирована в checkManagerAccess
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером клуба
func (s *Service) checkManagerAccess(ctx context.Context, clubID int64, userID int64) error {
	club, err := s.clubClient.GetClub(ctx, clubID)
	if err != nil {
		if errors.Is(err, clubClient.ErrClubNotFound) {
			s.logger.Warn("checkManagerAccess: club id=%d not found", clubID)
			return ErrClubNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get club id=%d: %v", clubID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get club: %v", ErrInternal, err)
	}

	if !club.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of club=%d", userID, clubID)
		return ErrAccessDenied
	}

	return nil
}
