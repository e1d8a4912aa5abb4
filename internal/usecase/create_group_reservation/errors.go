package create_group_reservation

import (
	"errors"
	"fmt"
)

var (
	// ErrClubNotFound возвращается, когда клуб не найден
	ErrClubNotFound = errors.New("create_group_reservation: club not found")

	// ErrClubInactive возвращается, когда клуб деактивирован
	ErrClubInactive = errors.New("create_group_reservation: club is inactive")

	// ErrResourceNotFound возвращается, когда тип ресурса (или подтип)
	// отсутствует в каталоге клуба
	ErrResourceNotFound = errors.New("create_group_reservation: resource not found in club catalog")

	// ErrOutOfHours возвращается, когда окно брони не лежит целиком внутри
	// операционного окна клуба (с учетом работы через полночь)
	ErrOutOfHours = errors.New("create_group_reservation: window is outside operating hours")

	// ErrInvalidWindow возвращается, когда конец не позже начала после
	// нормализации или длительность меньше минимальной
	ErrInvalidWindow = errors.New("create_group_reservation: invalid reservation window")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_group_reservation: invalid reservation date")

	// ErrCapacityExceeded возвращается, когда запрошенный диапазон юнитов
	// выходит за пределы каталога
	ErrCapacityExceeded = errors.New("create_group_reservation: requested units exceed catalog capacity")

	// ErrUnitsNotAvailable возвращается, когда хотя бы один запрошенный юнит занят
	// Конкретные номера несет UnitsConflictError
	ErrUnitsNotAvailable = errors.New("create_group_reservation: requested units are not available")

	// ErrTxAborted возвращается при аборте транзакции после всех повторов
	// Транзиентная ошибка: ни одной частичной записи не осталось, можно повторить
	ErrTxAborted = errors.New("create_group_reservation: transaction aborted, safe to retry")

	// ErrDependencyFailure возвращается при недоступности внешнего сервиса
	ErrDependencyFailure = errors.New("create_group_reservation: dependency failure")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_group_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_group_reservation: internal error")
)

// UnitsConflictError структурированная ошибка конфликта
// Несет и занятые, и свободные юниты как данные, чтобы вызывающая сторона
// могла повторить запрос без дополнительного обращения. Никакого разбора
// текста ошибки не требуется.
type UnitsConflictError struct {
	UnavailableUnits []int
	AvailableUnits   []int
}

// Error возвращает сообщение с перечислением конкретных занятых юнитов
func (e *UnitsConflictError) Error() string {
	return fmt.Sprintf("%v: units %v are busy, free units: %v",
		ErrUnitsNotAvailable, e.UnavailableUnits, e.AvailableUnits)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrUnitsNotAvailable)
func (e *UnitsConflictError) Unwrap() error {
	return ErrUnitsNotAvailable
}
