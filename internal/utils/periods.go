package utils

import (
	"strings"

	"habit-tracker/internal/database"
)

// Вспомогательные функции для периодичности привычек

// ParsePeriod принимает периодичность как код или по-русски
func ParsePeriod(value string) (database.Period, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "минута", "ежеминутно", "minute", "every_minute":
		return database.PeriodEveryMinute, true
	case "час", "ежечасно", "hour", "every_hour":
		return database.PeriodEveryHour, true
	case "день", "ежедневно", "day", "every_day":
		return database.PeriodEveryDay, true
	case "неделя", "еженедельно", "week", "every_week":
		return database.PeriodEveryWeek, true
	case "выкл", "отключено", "disable":
		return database.PeriodDisable, true
	default:
		return "", false
	}
}

func GetPeriodName(period database.Period) string {
	if name, ok := database.PeriodNames[period]; ok {
		return name
	}
	return string(period)
}
