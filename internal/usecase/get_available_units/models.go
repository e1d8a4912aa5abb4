package get_available_units

import (
	"time"

	"github.com/m04kA/GameClub-ReservationService/pkg/types"
)

// Request модель запроса на получение свободных юнитов
type Request struct {
	ClubID          int64            // ID клуба
	ResourceType    string           // Тип ресурса (pc, console)
	ResourceSubtype *string          // Подтип ресурса (например, ps5), опционально
	Date            time.Time        // Дата брони (без времени)
	StartTime       types.TimeString // Начало окна (например, "09:30")
	EndTime         types.TimeString // Конец окна (например, "11:30")
}

// Response модель ответа со списком свободных юнитов
type Response struct {
	ClubID          int64     // ID клуба
	ResourceType    string    // Тип ресурса
	ResourceSubtype *string   // Подтип ресурса
	Date            time.Time // Дата, на которую запрашивались юниты
	AvailableUnits  []int     // Номера свободных юнитов по возрастанию
	TotalUnits      int       // Общее количество юнитов этого ресурса
	HourlyRate      float64   // Почасовая ставка ресурса
}
