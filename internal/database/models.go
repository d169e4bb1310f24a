package database

import (
	"database/sql"
	"time"
)

type Period string

const (
	PeriodDisable     Period = "DISABLE"
	PeriodEveryMinute Period = "EVERY_MINUTE"
	PeriodEveryHour   Period = "EVERY_HOUR"
	PeriodEveryDay    Period = "EVERY_DAY"
	PeriodEveryWeek   Period = "EVERY_WEEK"
)

var PeriodNames = map[Period]string{
	PeriodDisable:     "⏸ Отключено",
	PeriodEveryMinute: "⏱ Ежеминутно",
	PeriodEveryHour:   "🕐 Ежечасно",
	PeriodEveryDay:    "📅 Ежедневно",
	PeriodEveryWeek:   "🗓 Еженедельно",
}

type User struct {
	ID        int       `json:"id"`
	TgName    string    `json:"tg_name"`
	TgChatID  int64     `json:"tg_chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Place struct {
	ID     int           `json:"id"`
	UserID sql.NullInt64 `json:"user_id"`
	Name   string        `json:"name"`
}

type Action struct {
	ID     int           `json:"id"`
	UserID sql.NullInt64 `json:"user_id"`
	Name   string        `json:"name"`
}

type Habit struct {
	ID             int           `json:"id"`
	UserID         int           `json:"user_id"`
	PlaceID        int           `json:"place_id"`
	ActionID       int           `json:"action_id"`
	DateTime       time.Time     `json:"date_time"`
	IsPleasant     bool          `json:"is_pleasant"`
	RelatedHabitID sql.NullInt64 `json:"related_habit_id"`
	Period         Period        `json:"period"`
	Reward         string        `json:"reward"`
	TimeToComplete int           `json:"time_to_complete"`
	IsPublic       bool          `json:"is_public"`
	// Заполняется только планировщиком, не руками
	DateTimeNextSent sql.NullTime `json:"date_time_next_sent"`
	CreatedAt        time.Time    `json:"created_at"`
}

// HabitView привычка с раскрытыми названиями места и действия
type HabitView struct {
	Habit
	PlaceName  string `json:"place_name"`
	ActionName string `json:"action_name"`
}

// HabitReminder всё, что нужно для отправки одного напоминания
type HabitReminder struct {
	HabitID           int            `json:"habit_id"`
	UserID            int            `json:"user_id"`
	TgName            string         `json:"tg_name"`
	TgChatID          int64          `json:"tg_chat_id"`
	PlaceName         string         `json:"place_name"`
	ActionName        string         `json:"action_name"`
	DateTime          time.Time      `json:"date_time"`
	Period            Period         `json:"period"`
	TimeToComplete    int            `json:"time_to_complete"`
	Reward            string         `json:"reward"`
	RelatedActionName sql.NullString `json:"related_action_name"`
	DateTimeNextSent  time.Time      `json:"date_time_next_sent"`
}

type HabitStats struct {
	Total    int            `json:"total"`
	Pleasant int            `json:"pleasant"`
	Public   int            `json:"public"`
	ByPeriod map[Period]int `json:"by_period"`
}
