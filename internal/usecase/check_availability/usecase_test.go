package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
	"github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	reservations []*domain.Reservation
}

func (r *fakeRepo) GetActiveByPartition(_ context.Context, _ domain.PartitionFilter) ([]*domain.Reservation, error) {
	return r.reservations, nil
}

type fakeClubClient struct{ club *clubservice.Club }

func (c *fakeClubClient) GetClub(_ context.Context, clubID int64) (*clubservice.Club, error) {
	if c.club == nil || c.club.ID != clubID {
		return nil, clubservice.ErrClubNotFound
	}
	return c.club, nil
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
		},
	}
}

func newTestUseCase(repo *fakeRepo, club *clubservice.Club) *UseCase {
	uc := NewUseCase(repo, &fakeClubClient{club: club}, nopLogger{})
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
		ClubID:       1,
		ResourceType: domain.ResourceTypePC,
		UnitNumber:   2,
		Date:         time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartTime:    mustTime(t, "09:00"),
		EndTime:      mustTime(t, "11:00"),
	}
}

func busyUnit(unit, start, end int) *domain.Reservation {
	return &domain.Reservation{
		ClubID:          1,
		ResourceType:    domain.ResourceTypePC,
		UnitNumber:      unit,
		ReservationDate: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartMinutes:    start,
		EndMinutes:      end,
		Status:          domain.StatusConfirmed,
	}
}

func TestExecute_UnitFree(t *testing.T) {
	// Занят только юнит 3, запрос на юнит 2
	repo := &fakeRepo{reservations: []*domain.Reservation{busyUnit(3, 540, 660)}}
	uc := newTestUseCase(repo, testClub())

	resp, err := uc.Execute(context.Background(), baseRequest(t))
	require.NoError(t, err)

	assert.True(t, resp.Available)
	// 2 часа * 100/час
	assert.InDelta(t, 200, resp.EstimatedCost, 0.001)
	assert.InDelta(t, 100, resp.HourlyRate, 0.001)
}

func TestExecute_UnitBusy(t *testing.T) {
	repo := &fakeRepo{reservations: []*domain.Reservation{busyUnit(2, 600, 720)}}
	uc := newTestUseCase(repo, testClub())

	resp, err := uc.Execute(context.Background(), baseRequest(t))
	require.NoError(t, err)

	assert.False(t, resp.Available)
	// Стоимость оценивается независимо от занятости
	assert.InDelta(t, 200, resp.EstimatedCost, 0.001)
}

func TestExecute_EstimatedCost_RoundsHours(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, testClub())

	req := baseRequest(t)
	req.StartTime = mustTime(t, "09:00")
	req.EndTime = mustTime(t, "10:30")

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// 90 минут = 1.5 часа * 100
	assert.InDelta(t, 150, resp.EstimatedCost, 0.001)
}

func TestExecute_UnitOutOfCatalog(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, testClub())

	req := baseRequest(t)
	req.UnitNumber = 6

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_OutOfHours(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, testClub())

	req := baseRequest(t)
	req.StartTime = mustTime(t, "08:00")
	req.EndTime = mustTime(t, "09:30")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutOfHours)
}

func TestExecute_BelowMinimumDuration(t *testing.T) {
	uc := newTestUseCase(&fakeRepo{}, testClub())

	req := baseRequest(t)
	req.EndTime = mustTime(t, "09:45")

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestExecute_ClubInactive(t *testing.T) {
	club := testClub()
	club.IsActive = false
	uc := newTestUseCase(&fakeRepo{}, club)

	_, err := uc.Execute(context.Background(), baseRequest(t))
	assert.ErrorIs(t, err, ErrClubInactive)
}
