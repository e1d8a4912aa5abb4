package clubservice

// Club модель клуба из ClubService (каталог ресурсов)
// Каталог принадлежит внешнему сервису, это ядро его не изменяет
type Club struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	IsActive    bool       `json:"is_active"`
	OpeningTime string     `json:"opening_time"` // "HH:MM", закрытие раньше открытия = работа через полночь
	ClosingTime string     `json:"closing_time"`
	ManagerIDs  []int64    `json:"manager_ids"`
	Resources   []Resource `json:"resources"`
}

// Resource конфигурация одного типа ресурса клуба
type Resource struct {
	Type       string  `json:"type"`              // "pc" или "console"
	Subtype    *string `json:"subtype,omitempty"` // например "ps5", "xbox"; nil для ПК
	UnitCount  int     `json:"unit_count"`
	HourlyRate float64 `json:"hourly_rate"`
}

// FindResource ищет конфигурацию ресурса по типу и подтипу
func (c *Club) FindResource(resourceType string, subtype *string) (*Resource, bool) {
	for i := range c.Resources {
		r := &c.Resources[i]
		if r.Type != resourceType {
			continue
		}
		if subtypeMatches(r.Subtype, subtype) {
			return r, true
		}
	}
	return nil, false
}

// IsManager проверяет, что пользователь управляет клубом
func (c *Club) IsManager(userID int64) bool {
	for _, id := range c.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func subtypeMatches(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// ErrorResponse модель ошибки от ClubService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
