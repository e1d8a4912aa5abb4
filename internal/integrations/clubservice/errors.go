package clubservice

import "errors"

var (
	// ErrClubNotFound возвращается, когда клуб не найден
	ErrClubNotFound = errors.New("club not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("clubservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("clubservice client: invalid response")

	// ErrUnavailable возвращается, когда ClubService недоступен
	// Каталог - обязательная зависимость, деградации здесь нет
	ErrUnavailable = errors.New("clubservice client: service unavailable")
)
