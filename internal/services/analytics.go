package services

import (
	"fmt"
	"strings"

	"habit-tracker/internal/database"
)

type AnalyticsService struct {
	repository *database.Repository
}

func NewAnalyticsService(repo *database.Repository) *AnalyticsService {
	return &AnalyticsService{
		repository: repo,
	}
}

func (as *AnalyticsService) GetUserStats(userID int) (*database.HabitStats, error) {
	return as.repository.GetHabitStats(userID)
}

// FormatStats собирает сводку по привычкам пользователя для отображения
func (as *AnalyticsService) FormatStats(stats *database.HabitStats) string {
	var message strings.Builder

	message.WriteString("📊 <b>Ваши привычки</b>\n\n")
	message.WriteString(fmt.Sprintf("Всего: %d\n", stats.Total))
	message.WriteString(fmt.Sprintf("😊 Приятных: %d\n", stats.Pleasant))
	message.WriteString(fmt.Sprintf("🌍 Публичных: %d\n", stats.Public))

	if len(stats.ByPeriod) > 0 {
		message.WriteString("\n<b>По периодичности:</b>\n")
		for _, period := range []database.Period{
			database.PeriodEveryMinute,
			database.PeriodEveryHour,
			database.PeriodEveryDay,
			database.PeriodEveryWeek,
			database.PeriodDisable,
		} {
			if count, ok := stats.ByPeriod[period]; ok {
				message.WriteString(fmt.Sprintf("%s: %d\n", database.PeriodNames[period], count))
			}
		}
	}

	return message.String()
}
