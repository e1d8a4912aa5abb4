package paymentservice

// ChargeRequest уведомление платежного сервиса о созданной брони
// Групповая бронь выставляется одним платежом на всю сумму
type ChargeRequest struct {
	GroupID        string  `json:"group_id"`
	ReservationIDs []int64 `json:"reservation_ids"`
	UserID         int64   `json:"user_id"`
	Amount         float64 `json:"amount"`
}

// RefundRequest запрос на исполнение возврата
// Сумма уже вычислена ядром, платежный сервис только исполняет
type RefundRequest struct {
	ReservationID int64   `json:"reservation_id"`
	Amount        float64 `json:"amount"`
}

// ErrorResponse модель ошибки от PaymentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
