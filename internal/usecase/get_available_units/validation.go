package get_available_units

import (
	"fmt"
	"time"

	"github.com/m04kA/GameClub-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClubID <= 0 {
		return fmt.Errorf("%w: clubID must be positive", ErrInvalidInput)
	}

	if req.ResourceType == "" {
		return fmt.Errorf("%w: resourceType is required", ErrInvalidInput)
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

// validateWindow нормализует окно на шкалу операционного дня клуба
// и проверяет корректность окна и часы работы
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

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
