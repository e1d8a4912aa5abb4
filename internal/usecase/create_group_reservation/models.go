package create_group_reservation

import (
	"time"

	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// Request модель запроса на создание групповой брони
// Одиночная бронь - группа из одного юнита (UnitCount = 1)
type Request struct {
	UserID          int64            // ID пользователя
	ClubID          int64            // ID клуба
	ResourceType    string           // Тип ресурса ("pc", "console")
	ResourceSubtype *string          // Подтип (например "ps5"), nil для ПК
	FirstUnit       int              // Первый юнит непрерывного диапазона
	UnitCount       int              // Количество юнитов подряд
	Date            time.Time        // Дата бронирования (без времени)
	StartTime       types.TimeString // Время начала ("HH:MM")
	EndTime         types.TimeString // Время окончания, может быть за полночью
}

// Response модель ответа с созданной группой бронирований
type Response struct {
	GroupID      string            // UUID группы
	TotalAmount  float64           // Общая сумма группы (один платеж)
	Reservations []ReservationData // Участники группы по порядку юнитов
}

// ReservationData данные одного бронирования группы
type ReservationData struct {
	ID              int64
	UserID          int64
	ClubID          int64
	ResourceType    string
	ResourceSubtype *string
	UnitNumber      int
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          string
	PaymentStatus   string
	HourlyRate      float64
	Amount          float64 // Доля этого юнита в общей сумме
	GroupIndex      int
	CreatedAt       time.Time
}
