package domain

import (
	"math"

	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// MinuteInterval полуоткрытый интервал [Start, End) на минутной шкале
// операционного дня. Конец, совпадающий с началом другого интервала,
// пересечением не считается - смежные брони не конфликтуют.
type MinuteInterval struct {
	Start int
	End   int
}

// Overlaps проверяет реальное пересечение двух полуоткрытых интервалов
// Пересечение есть тогда и только тогда, когда start < end' И end > start'
func (i MinuteInterval) Overlaps(other MinuteInterval) bool {
	return i.Start < other.End && i.End > other.Start
}

// DurationMinutes возвращает длительность интервала в минутах
func (i MinuteInterval) DurationMinutes() int {
	return i.End - i.Start
}

// IsValid проверяет, что конец строго позже начала
func (i MinuteInterval) IsValid() bool {
	return i.End > i.Start
}

// FreeUnits возвращает упорядоченный список свободных юнитов [1, totalUnits]
// для интервала-кандидата. Юнит свободен, если ни одно активное бронирование
// на нем не пересекается с кандидатом. Вызов вне транзакции дает только
// ориентировочный результат - перед коммитом он перепроверяется внутри
// транзакции на той же партиции.
func FreeUnits(reservations []*Reservation, candidate MinuteInterval, totalUnits int) []int {
	byUnit := make(map[int][]*Reservation, totalUnits)
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		byUnit[r.UnitNumber] = append(byUnit[r.UnitNumber], r)
	}

	free := make([]int, 0, totalUnits)
	for unit := 1; unit <= totalUnits; unit++ {
		conflict := false
		for _, r := range byUnit[unit] {
			if candidate.Overlaps(r.Interval()) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, unit)
		}
	}

	return free
}

// UnitIsFree проверяет, что конкретный юнит свободен для интервала-кандидата
func UnitIsFree(reservations []*Reservation, candidate MinuteInterval, unit int) bool {
	for _, r := range reservations {
		if !r.IsActive() || r.UnitNumber != unit {
			continue
		}
		if candidate.Overlaps(r.Interval()) {
			return false
		}
	}
	return true
}

// DurationHours возвращает длительность в часах, округленную до 2 знаков
func DurationHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// TotalAmount считает стоимость брони: часы * ставка * количество юнитов
func TotalAmount(durationMinutes int, hourlyRate float64, unitCount int) float64 {
	return DurationHours(durationMinutes) * hourlyRate * float64(unitCount)
}

// NormalizeCandidate переводит интервал-кандидат на минутную шкалу
// операционного дня окна w. Времена, численно меньшие открытия,
// поднимаются на 1440 (следующие календарные сутки).
func NormalizeCandidate(w OperatingWindow, start, end types.TimeString) (MinuteInterval, error) {
	startM, err := start.Minutes()
	if err != nil {
		return MinuteInterval{}, err
	}
	endM, err := end.Minutes()
	if err != nil {
		return MinuteInterval{}, err
	}

	return MinuteInterval{
		Start: w.Lift(startM),
		End:   w.Lift(endM),
	}, nil
}
