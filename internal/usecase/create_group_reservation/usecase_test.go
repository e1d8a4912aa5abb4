package create_group_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/GameClub-ReservationService/pkg/ptr"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// nopLogger логгер-заглушка для тестов
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fixedTime детерминированный провайдер времени
type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeTxManager сериализует транзакции настоящим мьютексом -
// аналог блокировки партиции FOR UPDATE для одного процесса
type fakeTxManager struct{ mu sync.Mutex }

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// fakeRepo реестр бронирований в памяти
type fakeRepo struct {
	mu           sync.Mutex
	reservations []*domain.Reservation
	nextID       int64
}

func (r *fakeRepo) GetActiveByPartition(_ context.Context, filter domain.PartitionFilter) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Reservation
	for _, res := range r.reservations {
		if res.ClubID != filter.ClubID || res.ResourceType != filter.ResourceType {
			continue
		}
		if !res.ReservationDate.Equal(filter.Date) || !res.IsActive() {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *fakeRepo) CreateGroup(_ context.Context, reservations []*domain.Reservation) ([]*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range reservations {
		r.nextID++
		res.ID = r.nextID
		res.CreatedAt = time.Now()
		res.UpdatedAt = res.CreatedAt
		r.reservations = append(r.reservations, res)
	}
	return reservations, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reservations)
}

// fakeClubClient каталог клуба в памяти
type fakeClubClient struct{ club *clubservice.Club }

func (c *fakeClubClient) GetClub(_ context.Context, clubID int64) (*clubservice.Club, error) {
	if c.club == nil || c.club.ID != clubID {
		return nil, clubservice.ErrClubNotFound
	}
	return c.club, nil
}

// fakePaymentClient записывает уведомления о платежах
type fakePaymentClient struct {
	mu      sync.Mutex
	charges []*paymentservice.ChargeRequest
}

func (c *fakePaymentClient) NotifyCharge(_ context.Context, req *paymentservice.ChargeRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.charges = append(c.charges, req)
	return nil
}

func testClub() *clubservice.Club {
	return &clubservice.Club{
		ID:          1,
		Name:        "Test Club",
		IsActive:    true,
		OpeningTime: "09:00",
		ClosingTime: "23:00",
		Resources: []clubservice.Resource{
			{Type: domain.ResourceTypePC, UnitCount: 5, HourlyRate: 100},
			{Type: domain.ResourceTypeConsole, Subtype: ptr.Ptr("ps5"), UnitCount: 2, HourlyRate: 150},
		},
	}
}

func newTestUseCase(repo *fakeRepo, club *clubservice.Club, payment *fakePaymentClient) *UseCase {
	uc := NewUseCase(repo, &fakeClubClient{club: club}, payment, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)}
	return uc
}

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func baseRequest(t *testing.T) *Request {
	return &Request{
		UserID:       42,
		ClubID:       1,
		ResourceType: domain.ResourceTypePC,
		FirstUnit:    3,
		UnitCount:    1,
		Date:         time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartTime:    mustTime(t, "09:00"),
		EndTime:      mustTime(t, "11:00"),
	}
}

func TestExecute_Success(t *testing.T) {
	repo := &fakeRepo{}
	payment := &fakePaymentClient{}
	uc := newTestUseCase(repo, testClub(), payment)

	// Юнит 2 занят 09:00-10:00, юнит 3 свободен на 09:00-11:00
	repo.reservations = []*domain.Reservation{{
		ID: 1, ClubID: 1, ResourceType: domain.ResourceTypePC, UnitNumber: 2,
		ReservationDate: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartMinutes:    540, EndMinutes: 600, Status: domain.StatusConfirmed,
	}}
	repo.nextID = 1

	resp, err := uc.Execute(context.Background(), baseRequest(t))
	require.NoError(t, err)

	// 2 часа * 100/час * 1 юнит = 200
	assert.InDelta(t, 200, resp.TotalAmount, 0.001)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, 3, resp.Reservations[0].UnitNumber)
	assert.Equal(t, string(domain.StatusPending), resp.Reservations[0].Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.Reservations[0].PaymentStatus)
	assert.NotEmpty(t, resp.GroupID)

	// Платежный сервис уведомлен одним платежом на всю сумму
	require.Len(t, payment.charges, 1)
	assert.InDelta(t, 200, payment.charges[0].Amount, 0.001)
	assert.Equal(t, resp.GroupID, payment.charges[0].GroupID)
}

func TestExecute_ConflictEnumeratesUnits(t *testing.T) {
	repo := &fakeRepo{}
	uc := newTestUseCase(repo, testClub(), &fakePaymentClient{})

	repo.reservations = []*domain.Reservation{{
		ID: 1, ClubID: 1, ResourceType: domain.ResourceTypePC, UnitNumber: 2,
		ReservationDate: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartMinutes:    540, EndMinutes: 600, Status: domain.StatusConfirmed,
	}}
	repo.nextID = 1

	req := baseRequest(t)
	req.FirstUnit = 2
	req.StartTime = mustTime(t, "09:30")
	req.EndTime = mustTime(t, "10:30")

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrUnitsNotAvailable)

	var conflict *UnitsConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int{2}, conflict.UnavailableUnits)
	assert.Equal(t, []int{1, 3, 4, 5}, conflict.AvailableUnits)

	// Ничего не записано
	assert.Equal(t, 1, repo.count())
}

func TestExecute_GroupAtomicity(t *testing.T) {
	repo := &fakeRepo{}
	uc := newTestUseCase(repo, testClub(), &fakePaymentClient{})

	// Юнит 2 занят - группа 1..3 не может быть создана целиком
	repo.reservations = []*domain.Reservation{{
		ID: 1, ClubID: 1, ResourceType: domain.ResourceTypePC, UnitNumber: 2,
		ReservationDate: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartMinutes:    540, EndMinutes: 660, Status: domain.StatusPending,
	}}
	repo.nextID = 1

	req := baseRequest(t)
	req.FirstUnit = 1
	req.UnitCount = 3

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrUnitsNotAvailable)

	var conflict *UnitsConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int{2}, conflict.UnavailableUnits)

	// Ни одной записи группы не появилось
	assert.Equal(t, 1, repo.count())
}

func TestExecute_GroupSuccess(t *testing.T) {
	repo := &fakeRepo{}
	payment := &fakePaymentClient{}
	uc := newTestUseCase(repo, testClub(), payment)

	req := baseRequest(t)
	req.FirstUnit = 2
	req.UnitCount = 3

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// 2 часа * 100/час * 3 юнита = 600, один платеж на группу
	assert.InDelta(t, 600, resp.TotalAmount, 0.001)
	require.Len(t, resp.Reservations, 3)

	for i, r := range resp.Reservations {
		assert.Equal(t, 2+i, r.UnitNumber)
		assert.Equal(t, i+1, r.GroupIndex)
		assert.Equal(t, resp.GroupID, payment.charges[0].GroupID)
		// Доля юнита: 2 часа * 100
		assert.InDelta(t, 200, r.Amount, 0.001)
	}
}

func TestExecute_CapacityExceeded(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, testClub(), &fakePaymentClient{})

	req := baseRequest(t)
	req.FirstUnit = 4
	req.UnitCount = 3 // юниты 4..6 при вместимости 5

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_OutOfHours(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, testClub(), &fakePaymentClient{})

	req := baseRequest(t)
	req.StartTime = mustTime(t, "22:00")
	req.EndTime = mustTime(t, "23:30")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutOfHours)
}

func TestExecute_MidnightCrossingClub(t *testing.T) {
	club := testClub()
	club.OpeningTime = "18:00"
	club.ClosingTime = "02:00"

	t.Run("accepts booking across midnight", func(t *testing.T) {
		repo := &fakeRepo{}
		uc := newTestUseCase(repo, club, &fakePaymentClient{})

		req := baseRequest(t)
		req.StartTime = mustTime(t, "23:00")
		req.EndTime = mustTime(t, "01:00")

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.InDelta(t, 200, resp.TotalAmount, 0.001)
	})

	t.Run("rejects booking past close", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, club, &fakePaymentClient{})

		req := baseRequest(t)
		req.StartTime = mustTime(t, "03:00")
		req.EndTime = mustTime(t, "04:00")

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutOfHours)
	})
}

func TestExecute_InvalidWindow(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, testClub(), &fakePaymentClient{})

	t.Run("end not after start", func(t *testing.T) {
		req := baseRequest(t)
		req.StartTime = mustTime(t, "11:00")
		req.EndTime = mustTime(t, "11:00")

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("below minimum duration", func(t *testing.T) {
		req := baseRequest(t)
		req.StartTime = mustTime(t, "10:00")
		req.EndTime = mustTime(t, "10:30")

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestExecute_ClubErrors(t *testing.T) {
	t.Run("club not found", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, nil, &fakePaymentClient{})

		_, err := uc.Execute(context.Background(), baseRequest(t))
		assert.ErrorIs(t, err, ErrClubNotFound)
	})

	t.Run("club inactive", func(t *testing.T) {
		club := testClub()
		club.IsActive = false
		uc := newTestUseCase(&fakeRepo{}, club, &fakePaymentClient{})

		_, err := uc.Execute(context.Background(), baseRequest(t))
		assert.ErrorIs(t, err, ErrClubInactive)
	})

	t.Run("resource not found", func(t *testing.T) {
		uc := newTestUseCase(&fakeRepo{}, testClub(), &fakePaymentClient{})

		req := baseRequest(t)
		req.ResourceType = domain.ResourceTypeConsole
		req.ResourceSubtype = ptr.Ptr("sega")

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})
}

func TestExecute_ConcurrentSingleWinner(t *testing.T) {
	repo := &fakeRepo{}
	payment := &fakePaymentClient{}
	uc := newTestUseCase(repo, testClub(), payment)

	req1 := baseRequest(t)
	req1.FirstUnit = 1
	req2 := baseRequest(t)
	req2.FirstUnit = 1
	req2.UserID = 43
	req2.StartTime = mustTime(t, "10:00")
	req2.EndTime = mustTime(t, "12:00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})

	for i, req := range []*Request{req1, req2} {
		wg.Add(1)
		go func(i int, req *Request) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Execute(context.Background(), req)
		}(i, req)
	}

	close(start)
	wg.Wait()

	// Ровно один победитель, второй получает конфликт с данными для повтора
	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrUnitsNotAvailable)
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, repo.count())
}
