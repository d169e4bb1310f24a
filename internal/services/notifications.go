package services

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"habit-tracker/internal/database"
	"habit-tracker/internal/schedule"
	"habit-tracker/internal/utils"
)

// NotificationSender интерфейс для отправки уведомлений
type NotificationSender interface {
	SendMessage(chatID int64, text string) error
}

// ChatResolver находит chat_id пользователя по имени в Telegram
type ChatResolver interface {
	ResolveChatID(tgName string) (int64, error)
}

// ReminderStore часть хранилища, нужная циклу рассылки
type ReminderStore interface {
	GetDueReminders(now time.Time) ([]database.HabitReminder, error)
	RearmHabit(habitID int, prev time.Time, next sql.NullTime) (bool, error)
	UpdateUserChatID(userID int, chatID int64) error
}

type NotificationService struct {
	store    ReminderStore
	sender   NotificationSender
	resolver ChatResolver
	now      func() time.Time
}

func NewNotificationService(store ReminderStore, sender NotificationSender, resolver ChatResolver) *NotificationService {
	return &NotificationService{
		store:    store,
		sender:   sender,
		resolver: resolver,
		now:      time.Now,
	}
}

// CheckAndSendNotifications один проход рассылки: выбрать все привычки,
// время которых наступило, и обработать каждую независимо
func (ns *NotificationService) CheckAndSendNotifications() {
	now := utils.TruncateToMinute(ns.now().UTC())

	log.Printf("🔔 Проверка напоминаний: %s", now.Format("2006-01-02 15:04"))

	reminders, err := ns.store.GetDueReminders(now)
	if err != nil {
		log.Printf("⚠️ Ошибка получения привычек: %v", err)
		return
	}

	if len(reminders) == 0 {
		return
	}
	log.Printf("📋 Привычек к оповещению: %d", len(reminders))

	for _, rem := range reminders {
		ns.processReminder(rem, now)
	}
}

// processReminder сначала перевзводит привычку, потом отправляет сообщение.
// Сбой доставки не мешает переносу: пропущенное напоминание не должно
// породить повтор на следующей минуте
func (ns *NotificationService) processReminder(rem database.HabitReminder, now time.Time) {
	var nextSent sql.NullTime
	next, err := schedule.Next(rem.DateTime, now, rem.Period)
	if err != nil {
		log.Printf("⚠️ Привычка %d: %v — оповещения отключены", rem.HabitID, err)
	} else if !next.IsZero() {
		nextSent = sql.NullTime{Time: next, Valid: true}
	}

	claimed, err := ns.store.RearmHabit(rem.HabitID, rem.DateTimeNextSent, nextSent)
	if err != nil {
		log.Printf("⚠️ Ошибка перевзвода привычки %d: %v", rem.HabitID, err)
		return
	}
	if !claimed {
		// параллельный проход уже обработал эту привычку
		return
	}

	chatID := rem.TgChatID
	if chatID == 0 {
		chatID, err = ns.resolver.ResolveChatID(rem.TgName)
		if err != nil || chatID == 0 {
			log.Printf("⚠️ Чат пользователя %s не найден, напоминание пропущено: %v", rem.TgName, err)
			return
		}
		if err := ns.store.UpdateUserChatID(rem.UserID, chatID); err != nil {
			log.Printf("⚠️ Ошибка сохранения chat_id пользователя %s: %v", rem.TgName, err)
		}
	}

	if err := ns.sender.SendMessage(chatID, composeReminderMessage(rem)); err != nil {
		log.Printf("❌ Ошибка отправки напоминания по привычке %d: %v", rem.HabitID, err)
		return
	}

	log.Printf("✅ Напоминание отправлено: привычка %d → %s", rem.HabitID, rem.TgName)
}

// composeReminderMessage собирает текст напоминания. В качестве награды
// называется связанная приятная привычка, если она есть, иначе вознаграждение
func composeReminderMessage(rem database.HabitReminder) string {
	bonus := rem.Reward
	if rem.RelatedActionName.Valid && rem.RelatedActionName.String != "" {
		bonus = rem.RelatedActionName.String
	}

	return fmt.Sprintf(
		"Пора выполнять привычку!\n"+
			"Место: %s.\n"+
			"Действие: %s.\n"+
			"На выполнение %d секунд.\n"+
			"А в качестве награды %s!",
		rem.PlaceName,
		rem.ActionName,
		rem.TimeToComplete,
		bonus,
	)
}
