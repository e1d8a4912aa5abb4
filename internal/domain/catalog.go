package domain

import (
	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// OperatingWindow операционное окно клуба на линейной минутной шкале
// Если время закрытия численно не позже открытия, клуб работает через
// полночь и Close сдвинут на 1440 (следующие календарные сутки).
// Окно "00:00"-"00:00" трактуется как круглосуточное.
type OperatingWindow struct {
	Open  int // минуты открытия, [0, 1439]
	Close int // минуты закрытия на линейной шкале, Open < Close <= Open+1440
}

// NewOperatingWindow строит операционное окно из времен открытия и закрытия
func NewOperatingWindow(openingTime, closingTime types.TimeString) (OperatingWindow, error) {
	open, err := openingTime.Minutes()
	if err != nil {
		return OperatingWindow{}, err
	}
	closeM, err := closingTime.Minutes()
	if err != nil {
		return OperatingWindow{}, err
	}

	if closeM <= open {
		closeM += types.MinutesPerDay
	}

	return OperatingWindow{Open: open, Close: closeM}, nil
}

// IsOvernight проверяет, что окно пересекает полночь
func (w OperatingWindow) IsOvernight() bool {
	return w.Close > types.MinutesPerDay
}

// Lift поднимает время на шкалу операционного дня: значения, численно
// меньшие открытия, относятся к следующим календарным суткам
func (w OperatingWindow) Lift(minutes int) int {
	if minutes < w.Open {
		return minutes + types.MinutesPerDay
	}
	return minutes
}

// Contains проверяет, что интервал целиком лежит внутри операционного окна
// Интервал должен быть уже нормализован через NormalizeCandidate
func (w OperatingWindow) Contains(interval MinuteInterval) bool {
	return interval.Start >= w.Open && interval.End <= w.Close
}

// ResourceConfig конфигурация одного типа ресурса в каталоге клуба
// Каталог принадлежит внешнему сервису и для этого ядра read-only
type ResourceConfig struct {
	Type       string
	Subtype    *string
	UnitCount  int
	HourlyRate float64
}

// MatchesSubtype проверяет соответствие подтипа запрошенному
// nil с обеих сторон - ресурс без подтипов
func (rc *ResourceConfig) MatchesSubtype(subtype *string) bool {
	if rc.Subtype == nil && subtype == nil {
		return true
	}
	if rc.Subtype == nil || subtype == nil {
		return false
	}
	return *rc.Subtype == *subtype
}
