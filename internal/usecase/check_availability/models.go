package check_availability

import (
	"time"

	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// Request модель запроса на проверку доступности юнита
type Request struct {
	ClubID          int64            // ID клуба
	ResourceType    string           // Тип ресурса (pc, console)
	ResourceSubtype *string          // Подтип ресурса, опционально
	UnitNumber      int              // Номер юнита
	Date            time.Time        // Дата брони (без времени)
	StartTime       types.TimeString // Начало окна
	EndTime         types.TimeString // Конец окна
}

// Response модель ответа проверки доступности
type Response struct {
	Available     bool    // Свободен ли юнит на запрошенное окно
	EstimatedCost float64 // Оценка стоимости брони одного юнита
	HourlyRate    float64 // Почасовая ставка ресурса
}
