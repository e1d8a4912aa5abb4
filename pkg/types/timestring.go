package types

import (
	"errors"
	"fmt"
	"time"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")
)

// TimeString время суток в 24-часовом формате ("HH:MM" или "HH:MM:SS")
// Хранится в нормализованном виде "HH:MM", секунды отбрасываются
type TimeString string

// NewTimeString создает TimeString из time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString парсит строку времени в строгом 24-часовом формате
// Допустимые форматы: "HH:MM" и "HH:MM:SS" (часы 00-23, минуты и секунды 00-59)
// Никаких 12-часовых эвристик: "00:00" и "12:00" всегда различимы
func NewTimeStringFromString(s string) (TimeString, error) {
	h, m, err := parse24h(s)
	if err != nil {
		return "", err
	}
	return TimeString(fmt.Sprintf("%02d:%02d", h, m)), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала суток
// Значения за пределами суток сворачиваются по модулю 1440
func NewTimeStringFromMinutes(minutes int) TimeString {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// Validate проверяет, что значение соответствует строгому формату
func (t TimeString) Validate() error {
	_, _, err := parse24h(string(t))
	return err
}

// Minutes возвращает количество минут с начала суток в диапазоне [0, 1439]
// Для невалидного значения возвращает ошибку
func (t TimeString) Minutes() (int, error) {
	h, m, err := parse24h(string(t))
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// IsZero проверяет, что значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// IsBefore проверяет, что время строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	tm, err1 := t.Minutes()
	om, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return tm < om
}

// IsAfter проверяет, что время строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	tm, err1 := t.Minutes()
	om, err2 := other.Minutes()
	if err1 != nil || err2 != nil {
		return false
	}
	return tm > om
}

// AddMinutes возвращает время, сдвинутое на minutes вперед
// Переход через полночь сворачивается в пределы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(m + minutes), nil
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// parse24h разбирает строку "HH:MM" или "HH:MM:SS" без использования time.Parse
// Ровно две цифры в каждом компоненте, разделитель - двоеточие
func parse24h(s string) (hour, minute int, err error) {
	if len(s) != 5 && len(s) != 8 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if s[2] != ':' || (len(s) == 8 && s[5] != ':') {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hour, err = twoDigits(s[0:2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	minute, err = twoDigits(s[3:5])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	var second int
	if len(s) == 8 {
		second, err = twoDigits(s[6:8])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
	}

	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return hour, minute, nil
}

func twoDigits(s string) (int, error) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, errors.New("not a two-digit number")
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), nil
}
