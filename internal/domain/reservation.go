package domain

import (
	"time"

	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// PaymentStatus статус оплаты бронирования
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Reservation бронирование одного юнита (ПК или консоли) на интервал времени
// Бронирования никогда не удаляются физически - только смена статуса
type Reservation struct {
	ID              int64
	UserID          int64
	ClubID          int64
	ResourceType    string
	ResourceSubtype *string
	UnitNumber      int
	ReservationDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString

	// Нормализованные минуты на линейной шкале операционного дня клуба
	// Вычисляются при создании, конец брони через полночь лежит за пределами 1439
	StartMinutes int
	EndMinutes   int

	Status        ReservationStatus
	PaymentStatus PaymentStatus

	// Денормализованная цена на момент создания
	HourlyRate  float64
	TotalAmount float64

	// Групповая бронь: uuid группы и порядковый номер участника 1..N
	GroupID    *string
	GroupIndex *int

	CancellationReason *string
	CancelledAt        *time.Time
	RefundAmount       *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive проверяет, что бронирование занимает юнит
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanBeCancelled проверяет, что бронирование можно отменить
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsPaid проверяет, что бронирование оплачено
func (r *Reservation) IsPaid() bool {
	return r.PaymentStatus == PaymentPaid
}

// Interval возвращает занимаемый интервал на минутной шкале
func (r *Reservation) Interval() MinuteInterval {
	return MinuteInterval{Start: r.StartMinutes, End: r.EndMinutes}
}

// StartInstant возвращает момент начала брони как time.Time
// Минуты берутся с нормализованной шкалы StartMinutes: значение за пределами
// 1439 (бронь целиком после полуночи овернайт-клуба) переносит момент на
// следующий календарный день, time.Date нормализует переполнение часов
func (r *Reservation) StartInstant(loc *time.Location) time.Time {
	d := r.ReservationDate
	m := r.StartMinutes
	return time.Date(d.Year(), d.Month(), d.Day(), m/60, m%60, 0, 0, loc)
}

// EndInstant возвращает момент окончания брони как time.Time
// EndMinutes лежит за пределами 1439 для броней, заканчивающихся после
// полуночи, поэтому отдельной проверки перехода через полночь не нужно
func (r *Reservation) EndInstant(loc *time.Location) time.Time {
	d := r.ReservationDate
	m := r.EndMinutes
	return time.Date(d.Year(), d.Month(), d.Day(), m/60, m%60, 0, 0, loc)
}

// PartitionFilter определяет партицию реестра бронирований:
// все брони одного клуба, типа ресурса (и подтипа) на одну дату
type PartitionFilter struct {
	ClubID          int64
	ResourceType    string
	ResourceSubtype *string // nil = ресурс без подтипов
	Date            time.Time
}

// UserReservationsFilter фильтр истории бронирований пользователя
type UserReservationsFilter struct {
	UserID int64
	Status *ReservationStatus // опционально
}
