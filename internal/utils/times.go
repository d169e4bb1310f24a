package utils

import (
	"fmt"
	"time"
)

var (
	moscowLocation *time.Location
)

func init() {
	// Пытаемся загрузить локацию Москвы
	var err error
	moscowLocation, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Fallback: UTC+3
		moscowLocation = time.FixedZone("MSK", 3*60*60)
	}
}

// TruncateToMinute отбрасывает секунды и доли секунды.
// Вся работа с расписанием идёт с точностью до минуты
func TruncateToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// ParseDateTime парсит дату-время вида "2024-05-28 16:15" как UTC
func ParseDateTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("ожидается дата-время в формате YYYY-MM-DD HH:MM: %v", err)
	}
	return t, nil
}

// FormatDateTimeForDisplay форматирует дату-время для отображения (UTC → МСК)
func FormatDateTimeForDisplay(t time.Time) string {
	mskTime := t.In(moscowLocation)
	return fmt.Sprintf("%s МСК (%s UTC)",
		mskTime.Format("02.01.2006 15:04"), t.UTC().Format("15:04"))
}

// GetTimezoneInfo возвращает информацию о временной зоне
func GetTimezoneInfo() string {
	nowUTC := time.Now().UTC()
	nowMSK := nowUTC.In(moscowLocation)

	_, offset := nowMSK.Zone()
	offsetHours := offset / 3600

	return fmt.Sprintf("🕐 Текущее время: %s МСК (UTC+%d)\n   Серверное время: %s UTC",
		nowMSK.Format("15:04"), offsetHours, nowUTC.Format("15:04"))
}
