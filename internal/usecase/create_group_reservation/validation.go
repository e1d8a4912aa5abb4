package create_group_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Все проверки выполняются до открытия транзакции
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.ClubID <= 0 {
		return fmt.Errorf("%w: clubID must be positive", ErrInvalidInput)
	}

	if req.ResourceType == "" {
		return fmt.Errorf("%w: resourceType is required", ErrInvalidInput)
	}

	if req.FirstUnit <= 0 {
		return fmt.Errorf("%w: firstUnit must be positive", ErrInvalidInput)
	}

	if req.UnitCount <= 0 {
		return fmt.Errorf("%w: unitCount must be positive", ErrInvalidInput)
	}

	if req.UnitCount > domain.MaxGroupSize {
		return fmt.Errorf("%w: unitCount must not exceed %d", ErrInvalidInput, domain.MaxGroupSize)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateWindow нормализует окно брони на шкалу операционного дня клуба
// и проверяет его корректность: конец строго позже начала, длительность не
// меньше минимальной, окно целиком внутри часов работы
func validateWindow(window domain.OperatingWindow, req *Request) (domain.MinuteInterval, error) {
	candidate, err := domain.NormalizeCandidate(window, req.StartTime, req.EndTime)
	if err != nil {
		return domain.MinuteInterval{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !candidate.IsValid() {
		return domain.MinuteInterval{}, fmt.Errorf("%w: end must be after start", ErrInvalidWindow)
	}

	if candidate.DurationMinutes() < domain.MinReservationMinutes {
		return domain.MinuteInterval{}, fmt.Errorf("%w: minimum duration is %d minutes",
			ErrInvalidWindow, domain.MinReservationMinutes)
	}

	if !window.Contains(candidate) {
		return domain.MinuteInterval{}, ErrOutOfHours
	}

	return candidate, nil
}

// validateCapacity проверяет, что непрерывный диапазон юнитов
// [firstUnit, firstUnit+unitCount-1] лежит в пределах каталога
func validateCapacity(firstUnit, unitCount, totalUnits int) error {
	lastUnit := firstUnit + unitCount - 1
	if lastUnit > totalUnits {
		return fmt.Errorf("%w: units %d..%d requested, catalog has %d",
			ErrCapacityExceeded, firstUnit, lastUnit, totalUnits)
	}
	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
