package paymentservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")

	// ErrUnavailable возвращается, когда PaymentService недоступен
	// Ядро не повторяет такие вызовы само - сверка на стороне платежного сервиса
	ErrUnavailable = errors.New("paymentservice client: service unavailable")
)
