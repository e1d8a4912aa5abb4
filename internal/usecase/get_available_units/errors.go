package get_available_units

import "errors"

var (
	// ErrClubNotFound возвращается, когда клуб не найден
	ErrClubNotFound = errors.New("club not found")

	// ErrClubInactive возвращается, когда клуб неактивен
	ErrClubInactive = errors.New("club is inactive")

	// ErrResourceNotFound возвращается, когда ресурс не найден в каталоге клуба
	ErrResourceNotFound = errors.New("resource not found in club catalog")

	// ErrOutOfHours возвращается, когда окно брони выходит за часы работы клуба
	ErrOutOfHours = errors.New("requested window is outside operating hours")

	// ErrInvalidWindow возвращается при некорректном окне брони
	ErrInvalidWindow = errors.New("invalid reservation window")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid reservation date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrDependencyFailure возвращается при сбое внешнего сервиса
	ErrDependencyFailure = errors.New("dependency failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
