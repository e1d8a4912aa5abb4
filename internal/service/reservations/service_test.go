package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/GameClub-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/GameClub-ReservationService/internal/service/reservations/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	reservations map[int64]*domain.Reservation

	// ID брони, на которой SetPayment возвращает ошибку
	failSetPaymentID int64
}

func newFakeRepo(reservations ...*domain.Reservation) *fakeRepo {
	repo := &fakeRepo{reservations: make(map[int64]*domain.Reservation)}
	for _, r := range reservations {
		repo.reservations[r.ID] = r
	}
	return repo
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range r.reservations {
		if res.UserID != userID {
			continue
		}
		if status != nil && res.Status != *status {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *fakeRepo) GetConfirmedDue(_ context.Context, date time.Time) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, res := range r.reservations {
		if res.Status == domain.StatusConfirmed && !res.ReservationDate.After(date) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeRepo) SetPayment(_ context.Context, id int64, status domain.ReservationStatus, paymentStatus domain.PaymentStatus) error {
	if r.failSetPaymentID == id {
		return errors.New("connection reset")
	}
	res, ok := r.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	res.Status = status
	res.PaymentStatus = paymentStatus
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, reason string, refundAmount float64, paymentStatus domain.PaymentStatus) error {
	res, ok := r.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	res.Status = domain.StatusCancelled
	res.PaymentStatus = paymentStatus
	res.CancellationReason = &reason
	res.RefundAmount = &refundAmount
	return nil
}

func (r *fakeRepo) UpdateStatusBatch(_ context.Context, ids []int64, status domain.ReservationStatus) error {
	for _, id := range ids {
		if res, ok := r.reservations[id]; ok {
			res.Status = status
		}
	}
	return nil
}

type fakeClubClient struct{ club *clubservice.Club }

func (c *fakeClubClient) GetClub(_ context.Context, clubID int64) (*clubservice.Club, error) {
	if c.club == nil || c.club.ID != clubID {
		return nil, clubservice.ErrClubNotFound
	}
	return c.club, nil
}

type fakePaymentClient struct {
	refunds []*paymentservice.RefundRequest
	fail    bool
}

func (c *fakePaymentClient) NotifyRefund(_ context.Context, req *paymentservice.RefundRequest) error {
	if c.fail {
		return paymentservice.ErrUnavailable
	}
	c.refunds = append(c.refunds, req)
	return nil
}

// fakeTxManager выполняет fn над fakeRepo как транзакцию:
// при ошибке восстанавливает снимок состояния, имитируя откат
type fakeTxManager struct {
	repo *fakeRepo
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[int64]domain.Reservation, len(m.repo.reservations))
	for id, res := range m.repo.reservations {
		snapshot[id] = *res
	}

	if err := fn(ctx); err != nil {
		for id, prev := range snapshot {
			restored := prev
			m.repo.reservations[id] = &restored
		}
		return err
	}
	return nil
}

func testClub() *clubservice.Club {
	return &clubservice.Club{
		ID:         1,
		IsActive:   true,
		ManagerIDs: []int64{99},
	}
}

// Бронь на 16 октября 2025, 15:00-17:00, оплачена
func paidReservation(id, userID int64) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		UserID:          userID,
		ClubID:          1,
		ResourceType:    domain.ResourceTypePC,
		UnitNumber:      1,
		ReservationDate: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       "15:00",
		EndTime:         "17:00",
		StartMinutes:    900,
		EndMinutes:      1020,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentPaid,
		HourlyRate:      100,
		TotalAmount:     200,
	}
}

func newTestService(repo *fakeRepo, club *clubservice.Club, payment *fakePaymentClient, now time.Time) *Service {
	svc := NewService(repo, &fakeTxManager{repo: repo}, &fakeClubClient{club: club}, payment, nopLogger{})
	svc.timeProvider = fixedTime{now: now}
	return svc
}

func TestGetByID_OwnerAccess(t *testing.T) {
	repo := newFakeRepo(paidReservation(1, 42))
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, time.Now())

	resp, err := svc.GetByID(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "15:00", resp.StartTime)
}

func TestGetByID_ManagerAccess(t *testing.T) {
	repo := newFakeRepo(paidReservation(1, 42))
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, time.Now())

	_, err := svc.GetByID(context.Background(), 1, 99)
	assert.NoError(t, err)
}

func TestGetByID_AccessDenied(t *testing.T) {
	repo := newFakeRepo(paidReservation(1, 42))
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, time.Now())

	_, err := svc.GetByID(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), testClub(), &fakePaymentClient{}, time.Now())

	_, err := svc.GetByID(context.Background(), 404, 42)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancel_FullRefundAtDeadline(t *testing.T) {
	// Ровно 60 минут до начала - возврат положен (граница включительно)
	now := time.Date(2025, 10, 16, 14, 0, 0, 0, time.UTC)
	repo := newFakeRepo(paidReservation(1, 42))
	payment := &fakePaymentClient{}
	svc := newTestService(repo, testClub(), payment, now)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             42,
		CancellationReason: "change of plans",
	})
	require.NoError(t, err)

	assert.InDelta(t, 200, resp.RefundAmount, 0.001)
	assert.Equal(t, models.RefundStatusRequested, resp.RefundStatus)

	require.Len(t, payment.refunds, 1)
	assert.InDelta(t, 200, payment.refunds[0].Amount, 0.001)

	cancelled := repo.reservations[1]
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, domain.PaymentRefunded, cancelled.PaymentStatus)
}

func TestCancel_ZeroRefundInsideDeadline(t *testing.T) {
	// 59 минут до начала - возврата нет
	now := time.Date(2025, 10, 16, 14, 1, 0, 0, time.UTC)
	repo := newFakeRepo(paidReservation(1, 42))
	payment := &fakePaymentClient{}
	svc := newTestService(repo, testClub(), payment, now)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 42})
	require.NoError(t, err)

	assert.InDelta(t, 0, resp.RefundAmount, 0.001)
	assert.Equal(t, models.RefundStatusNone, resp.RefundStatus)
	assert.Empty(t, payment.refunds)

	// Оплата не переходит в refunded при нулевом возврате
	assert.Equal(t, domain.PaymentPaid, repo.reservations[1].PaymentStatus)
}

func TestCancel_UnpaidNoRefund(t *testing.T) {
	now := time.Date(2025, 10, 16, 10, 0, 0, 0, time.UTC)
	unpaid := paidReservation(1, 42)
	unpaid.Status = domain.StatusPending
	unpaid.PaymentStatus = domain.PaymentUnpaid
	repo := newFakeRepo(unpaid)
	payment := &fakePaymentClient{}
	svc := newTestService(repo, testClub(), payment, now)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 42})
	require.NoError(t, err)

	assert.InDelta(t, 0, resp.RefundAmount, 0.001)
	assert.Empty(t, payment.refunds)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	cancelled := paidReservation(1, 42)
	cancelled.Status = domain.StatusCancelled
	svc := newTestService(newFakeRepo(cancelled), testClub(), &fakePaymentClient{}, time.Now())

	_, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_StrangerDenied(t *testing.T) {
	svc := newTestService(newFakeRepo(paidReservation(1, 42)), testClub(), &fakePaymentClient{}, time.Now())

	_, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 7})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_ManagerAllowed(t *testing.T) {
	now := time.Date(2025, 10, 16, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo(paidReservation(1, 42))
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, now)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             99,
		CancellationReason: "hardware maintenance",
	})
	require.NoError(t, err)
	assert.InDelta(t, 200, resp.RefundAmount, 0.001)
}

func TestCancel_RefundNotifyFailureKeepsCancellation(t *testing.T) {
	now := time.Date(2025, 10, 16, 10, 0, 0, 0, time.UTC)
	repo := newFakeRepo(paidReservation(1, 42))
	svc := newTestService(repo, testClub(), &fakePaymentClient{fail: true}, now)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 42})
	require.NoError(t, err)

	// Отмена состоялась, уведомление будет повторено при сверке
	assert.Equal(t, models.RefundStatusPending, resp.RefundStatus)
	assert.Equal(t, domain.StatusCancelled, repo.reservations[1].Status)
	require.NotNil(t, repo.reservations[1].RefundAmount)
	assert.InDelta(t, 200, *repo.reservations[1].RefundAmount, 0.001)
}

func TestCancel_GroupMemberDoesNotCascade(t *testing.T) {
	now := time.Date(2025, 10, 16, 10, 0, 0, 0, time.UTC)
	groupID := "group-1"
	first := paidReservation(1, 42)
	first.GroupID = &groupID
	second := paidReservation(2, 42)
	second.GroupID = &groupID
	second.UnitNumber = 2
	repo := newFakeRepo(first, second)
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, now)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, repo.reservations[1].Status)
	assert.Equal(t, domain.StatusConfirmed, repo.reservations[2].Status)
}

func TestConfirmPayment_Success(t *testing.T) {
	first := paidReservation(1, 42)
	first.Status = domain.StatusPending
	first.PaymentStatus = domain.PaymentUnpaid
	second := paidReservation(2, 42)
	second.Status = domain.StatusPending
	second.PaymentStatus = domain.PaymentUnpaid
	repo := newFakeRepo(first, second)
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, time.Now())

	err := svc.ConfirmPayment(context.Background(), &models.PaymentCallbackRequest{
		GroupID:        "group-1",
		ReservationIDs: []int64{1, 2},
		Success:        true,
	})
	require.NoError(t, err)

	for _, id := range []int64{1, 2} {
		assert.Equal(t, domain.StatusConfirmed, repo.reservations[id].Status)
		assert.Equal(t, domain.PaymentPaid, repo.reservations[id].PaymentStatus)
	}
}

func TestConfirmPayment_Failure(t *testing.T) {
	pending := paidReservation(1, 42)
	pending.Status = domain.StatusPending
	pending.PaymentStatus = domain.PaymentUnpaid
	repo := newFakeRepo(pending)
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, time.Now())

	err := svc.ConfirmPayment(context.Background(), &models.PaymentCallbackRequest{
		GroupID:        "group-1",
		ReservationIDs: []int64{1},
		Success:        false,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, repo.reservations[1].Status)
	assert.Equal(t, domain.PaymentFailed, repo.reservations[1].PaymentStatus)
}

func TestConfirmPayment_GroupAtomicOnMidLoopFailure(t *testing.T) {
	first := paidReservation(1, 42)
	first.Status = domain.StatusPending
	first.PaymentStatus = domain.PaymentUnpaid
	second := paidReservation(2, 42)
	second.Status = domain.StatusPending
	second.PaymentStatus = domain.PaymentUnpaid

	repo := newFakeRepo(first, second)
	repo.failSetPaymentID = 2
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, time.Now())

	err := svc.ConfirmPayment(context.Background(), &models.PaymentCallbackRequest{
		GroupID:        "group-1",
		ReservationIDs: []int64{1, 2},
		Success:        true,
	})
	require.ErrorIs(t, err, ErrInternal)

	// Ошибка на второй строке откатывает всю группу: никакого
	// частично подтвержденного состояния до повторной доставки
	assert.Equal(t, domain.StatusPending, repo.reservations[1].Status)
	assert.Equal(t, domain.PaymentUnpaid, repo.reservations[1].PaymentStatus)
	assert.Equal(t, domain.StatusPending, repo.reservations[2].Status)
}

func TestConfirmPayment_IdempotentSkipsNonPending(t *testing.T) {
	confirmed := paidReservation(1, 42)
	repo := newFakeRepo(confirmed)
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, time.Now())

	err := svc.ConfirmPayment(context.Background(), &models.PaymentCallbackRequest{
		GroupID:        "group-1",
		ReservationIDs: []int64{1},
		Success:        false,
	})
	require.NoError(t, err)

	// Повторный колбэк не роняет уже подтвержденную бронь
	assert.Equal(t, domain.StatusConfirmed, repo.reservations[1].Status)
}

func TestCompleteElapsed(t *testing.T) {
	// 17:30 - бронь 15:00-17:00 истекла, бронь 17:00-19:00 еще идет
	now := time.Date(2025, 10, 16, 17, 30, 0, 0, time.UTC)
	elapsed := paidReservation(1, 42)
	ongoing := paidReservation(2, 42)
	ongoing.StartTime = "17:00"
	ongoing.EndTime = "19:00"
	ongoing.StartMinutes = 1020
	ongoing.EndMinutes = 1140
	repo := newFakeRepo(elapsed, ongoing)
	svc := newTestService(repo, testClub(), &fakePaymentClient{}, now)

	count, err := svc.CompleteElapsed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, domain.StatusCompleted, repo.reservations[1].Status)
	assert.Equal(t, domain.StatusConfirmed, repo.reservations[2].Status)
}

func TestCompleteElapsed_OvernightWaitsForNextDay(t *testing.T) {
	// Бронь 16 октября 23:00-01:00 заканчивается 17 октября в 01:00
	overnight := paidReservation(1, 42)
	overnight.StartTime = "23:00"
	overnight.EndTime = "01:00"
	overnight.StartMinutes = 1380
	overnight.EndMinutes = 1500

	t.Run("still running after midnight", func(t *testing.T) {
		now := time.Date(2025, 10, 17, 0, 30, 0, 0, time.UTC)
		repo := newFakeRepo(paidReservation(2, 42))
		repo.reservations[1] = overnight
		svc := newTestService(repo, testClub(), &fakePaymentClient{}, now)

		_, err := svc.CompleteElapsed(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, repo.reservations[1].Status)
	})

	t.Run("completed after end next day", func(t *testing.T) {
		fresh := *overnight
		now := time.Date(2025, 10, 17, 1, 30, 0, 0, time.UTC)
		repo := newFakeRepo(&fresh)
		svc := newTestService(repo, testClub(), &fakePaymentClient{}, now)

		count, err := svc.CompleteElapsed(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, domain.StatusCompleted, repo.reservations[1].Status)
	})
}

// Бронь в овернайт-клубе целиком после полуночи: операционный день 16 октября,
// окно 01:00-02:00 с поднятыми минутами, фактическое начало 17 октября
func afterMidnightReservation(id, userID int64) *domain.Reservation {
	r := paidReservation(id, userID)
	r.StartTime = "01:00"
	r.EndTime = "02:00"
	r.StartMinutes = 1500
	r.EndMinutes = 1560
	return r
}

func TestCancel_AfterMidnightFullRefund(t *testing.T) {
	// Вечер 16 октября, до фактического начала (17 октября 01:00) пять часов
	now := time.Date(2025, 10, 16, 20, 0, 0, 0, time.UTC)
	repo := newFakeRepo(afterMidnightReservation(1, 42))
	payment := &fakePaymentClient{}
	svc := newTestService(repo, testClub(), payment, now)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{UserID: 42})
	require.NoError(t, err)

	assert.InDelta(t, 200, resp.RefundAmount, 0.001)
	assert.Equal(t, models.RefundStatusRequested, resp.RefundStatus)
	assert.Equal(t, domain.PaymentRefunded, repo.reservations[1].PaymentStatus)
}

func TestCompleteElapsed_AfterMidnightWaitsForNextDay(t *testing.T) {
	t.Run("still future on the operating day", func(t *testing.T) {
		now := time.Date(2025, 10, 16, 20, 0, 0, 0, time.UTC)
		repo := newFakeRepo(afterMidnightReservation(1, 42))
		svc := newTestService(repo, testClub(), &fakePaymentClient{}, now)

		count, err := svc.CompleteElapsed(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Equal(t, domain.StatusConfirmed, repo.reservations[1].Status)
	})

	t.Run("completed after end next day", func(t *testing.T) {
		now := time.Date(2025, 10, 17, 2, 30, 0, 0, time.UTC)
		repo := newFakeRepo(afterMidnightReservation(1, 42))
		svc := newTestService(repo, testClub(), &fakePaymentClient{}, now)

		count, err := svc.CompleteElapsed(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, domain.StatusCompleted, repo.reservations[1].Status)
	})
}
