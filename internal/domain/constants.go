package domain

// Типы ресурсов клуба
const (
	ResourceTypePC      = "pc"
	ResourceTypeConsole = "console"
)

// Business validation constants
const (
	// MinReservationMinutes минимальная длительность бронирования
	MinReservationMinutes = 60

	// MaxGroupSize максимальный размер групповой брони
	MaxGroupSize = 20

	// RefundDeadlineMinutes порог полного возврата: если до начала брони
	// осталось не меньше этого значения, возвращается вся сумма, иначе ноль.
	// Ровно 60 минут до начала - полный возврат (граница включается).
	RefundDeadlineMinutes = 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих юниты
// Используется при фильтрации для подсчета доступности
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusCompleted,
}

// ActiveStatuses список статусов, занимающих юниты
// Только эти статусы участвуют в проверке конфликтов
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
