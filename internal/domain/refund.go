package domain

import "time"

// RefundAmount считает сумму возврата при отмене бронирования
// Жесткий порог без градаций: если до начала брони осталось не меньше
// RefundDeadlineMinutes, возвращается вся уплаченная сумма, иначе ноль.
// Исполнение возврата - ответственность платежного сервиса, это ядро
// только вычисляет сумму.
func RefundAmount(reservationStart, now time.Time, amountPaid float64) float64 {
	deadline := time.Duration(RefundDeadlineMinutes) * time.Minute
	if reservationStart.Sub(now) >= deadline {
		return amountPaid
	}
	return 0
}
