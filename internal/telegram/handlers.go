package telegram

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"habit-tracker/internal/database"
	"habit-tracker/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handlers.go - обработчики команд Telegram бота

func (b *Bot) handleStart(user *database.User, msg *tgbotapi.Message) {
	message := fmt.Sprintf(`🎯 <b>Трекер полезных привычек</b>

Привет, @%s! Вы зарегистрированы, напоминания будут приходить в этот чат.

Доступные команды:
/habits - мои привычки
/public - публичные привычки
/add - добавить полезную привычку
/pleasant - добавить приятную привычку
/link - связать привычку с приятной
/time - изменить время привычки
/del - удалить привычку
/stats - сводка по привычкам
/help - помощь

Пример:
/add Дом; Отжимание; 2024-05-28 16:15; день; Съесть бургер`, user.TgName)

	b.replyOrLogError(user.TgChatID, message)
}

func (b *Bot) handleHelp(user *database.User, msg *tgbotapi.Message) {
	message := `📖 <b>Команды</b>

/add [место]; [действие]; [YYYY-MM-DD HH:MM UTC]; [период]; [награда]
Добавить полезную привычку. Награда необязательна.

/pleasant [место]; [действие]; [YYYY-MM-DD HH:MM UTC]; [период]
Добавить приятную привычку. У неё не бывает награды.

/link [id] [id приятной]
Назначить приятную привычку наградой. Награда текстом при этом недопустима.

/time [id] [YYYY-MM-DD HH:MM UTC]
Перенести время привычки, расписание пересчитается.

/del [id]
Удалить привычку. У ссылавшихся на неё привычек связь обнулится.

Периодичность: минута, час, день, неделя, выкл.
Время на выполнение не больше 120 секунд.`

	b.replyOrLogError(user.TgChatID, message)
}

func (b *Bot) handleHabits(user *database.User, msg *tgbotapi.Message) {
	habits, err := database.NewRepository(b.db).GetHabitsByUser(user.ID)
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Ошибка получения привычек")
		return
	}

	if len(habits) == 0 {
		b.replyOrLogError(user.TgChatID, "📭 У вас пока нет привычек. Добавьте первую: /add")
		return
	}

	var message strings.Builder
	message.WriteString("📅 <b>Ваши привычки</b>\n\n")
	message.WriteString(utils.GetTimezoneInfo() + "\n\n")

	for _, h := range habits {
		message.WriteString(formatHabit(h))
	}

	b.replyOrLogError(user.TgChatID, message.String())
}

func (b *Bot) handlePublic(user *database.User, msg *tgbotapi.Message) {
	habits, err := database.NewRepository(b.db).GetPublicHabits()
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Ошибка получения привычек")
		return
	}

	if len(habits) == 0 {
		b.replyOrLogError(user.TgChatID, "📭 Публичных привычек пока нет")
		return
	}

	var message strings.Builder
	message.WriteString("🌍 <b>Публичные привычки</b>\n\n")
	for _, h := range habits {
		message.WriteString(formatHabit(h))
	}

	b.replyOrLogError(user.TgChatID, message.String())
}

func formatHabit(h database.HabitView) string {
	status := "😊"
	if !h.IsPleasant {
		status = "💪"
	}

	next := "—"
	if h.DateTimeNextSent.Valid {
		next = utils.FormatDateTimeForDisplay(h.DateTimeNextSent.Time)
	}

	line := fmt.Sprintf(
		"%s <b>#%d %s</b> (%s)\n%s\n⏰ Следующее напоминание: %s\n",
		status, h.ID, h.ActionName, h.PlaceName,
		utils.GetPeriodName(h.Period), next,
	)

	if h.Reward != "" {
		line += fmt.Sprintf("🎁 Награда: %s\n", h.Reward)
	}
	if h.RelatedHabitID.Valid {
		line += fmt.Sprintf("🔗 Связана с привычкой #%d\n", h.RelatedHabitID.Int64)
	}

	return line + "\n"
}

func (b *Bot) handleStats(user *database.User, msg *tgbotapi.Message) {
	stats, err := b.services.Analytics.GetUserStats(user.ID)
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Ошибка получения сводки")
		return
	}

	b.replyOrLogError(user.TgChatID, b.services.Analytics.FormatStats(stats))
}

func (b *Bot) handleAdd(user *database.User, msg *tgbotapi.Message) {
	b.createHabit(user, strings.TrimPrefix(msg.Text, "/add "), false)
}

func (b *Bot) handlePleasant(user *database.User, msg *tgbotapi.Message) {
	b.createHabit(user, strings.TrimPrefix(msg.Text, "/pleasant "), true)
}

func (b *Bot) createHabit(user *database.User, args string, pleasant bool) {
	parts := strings.Split(args, ";")
	if len(parts) < 4 {
		b.replyOrLogError(user.TgChatID,
			"❌ Формат: место; действие; YYYY-MM-DD HH:MM; период[; награда]")
		return
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	dateTime, err := utils.ParseDateTime(parts[2])
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Время в формате YYYY-MM-DD HH:MM (UTC)")
		return
	}

	period, ok := utils.ParsePeriod(parts[3])
	if !ok {
		b.replyOrLogError(user.TgChatID,
			"❌ Периодичность: минута, час, день, неделя или выкл")
		return
	}

	reward := ""
	if len(parts) > 4 {
		reward = parts[4]
	}

	repo := database.NewRepository(b.db)
	placeID, err := repo.GetOrCreatePlace(parts[0], user.ID)
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Ошибка сохранения места")
		return
	}
	actionID, err := repo.GetOrCreateAction(parts[1], user.ID)
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Ошибка сохранения действия")
		return
	}

	habit := &database.Habit{
		UserID:         user.ID,
		PlaceID:        placeID,
		ActionID:       actionID,
		DateTime:       dateTime,
		IsPleasant:     pleasant,
		Period:         period,
		Reward:         reward,
		TimeToComplete: 120,
	}

	if err := b.services.Habit.Create(habit); err != nil {
		b.replyOrLogError(user.TgChatID, "❌ "+err.Error())
		return
	}

	next := "оповещения отключены"
	if habit.DateTimeNextSent.Valid {
		next = utils.FormatDateTimeForDisplay(habit.DateTimeNextSent.Time)
	}
	b.replyOrLogError(user.TgChatID, fmt.Sprintf(
		"✅ Привычка #%d добавлена\n⏰ Следующее напоминание: %s", habit.ID, next))
}

func (b *Bot) handleLink(user *database.User, msg *tgbotapi.Message) {
	parts := strings.Fields(strings.TrimPrefix(msg.Text, "/link "))
	if len(parts) != 2 {
		b.replyOrLogError(user.TgChatID, "❌ Формат: /link [id] [id приятной привычки]")
		return
	}

	habitID, err1 := strconv.Atoi(parts[0])
	relatedID, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		b.replyOrLogError(user.TgChatID, "❌ id должны быть числовыми")
		return
	}

	habit := b.getOwnHabit(user, habitID)
	if habit == nil {
		return
	}

	habit.RelatedHabitID = sql.NullInt64{Int64: int64(relatedID), Valid: true}
	if err := b.services.Habit.Update(habit); err != nil {
		b.replyOrLogError(user.TgChatID, "❌ "+err.Error())
		return
	}

	b.replyOrLogError(user.TgChatID, fmt.Sprintf(
		"✅ Привычка #%d связана с приятной привычкой #%d", habitID, relatedID))
}

func (b *Bot) handleChangeTime(user *database.User, msg *tgbotapi.Message) {
	parts := strings.SplitN(strings.TrimPrefix(msg.Text, "/time "), " ", 2)
	if len(parts) < 2 {
		b.replyOrLogError(user.TgChatID, "❌ Формат: /time [id] [YYYY-MM-DD HH:MM в UTC]")
		return
	}

	habitID, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ id должен быть числовой")
		return
	}

	dateTime, err := utils.ParseDateTime(strings.TrimSpace(parts[1]))
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Время в формате YYYY-MM-DD HH:MM (UTC)")
		return
	}

	habit := b.getOwnHabit(user, habitID)
	if habit == nil {
		return
	}

	habit.DateTime = dateTime
	if err := b.services.Habit.Update(habit); err != nil {
		b.replyOrLogError(user.TgChatID, "❌ "+err.Error())
		return
	}

	next := "оповещения отключены"
	if habit.DateTimeNextSent.Valid {
		next = utils.FormatDateTimeForDisplay(habit.DateTimeNextSent.Time)
	}
	b.replyOrLogError(user.TgChatID, fmt.Sprintf(
		"✅ Время привычки #%d обновлено\n⏰ Следующее напоминание: %s", habitID, next))
}

func (b *Bot) handleDelete(user *database.User, msg *tgbotapi.Message) {
	habitID, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(msg.Text, "/del ")))
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Формат: /del [id]")
		return
	}

	deleted, err := database.NewRepository(b.db).DeleteHabit(habitID, user.ID)
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Ошибка удаления привычки")
		return
	}
	if !deleted {
		b.replyOrLogError(user.TgChatID, "❌ Привычка не найдена или вы не её владелец")
		return
	}

	b.replyOrLogError(user.TgChatID, fmt.Sprintf("🗑 Привычка #%d удалена", habitID))
}

// getOwnHabit возвращает привычку, если она принадлежит пользователю
func (b *Bot) getOwnHabit(user *database.User, habitID int) *database.Habit {
	habit, err := database.NewRepository(b.db).GetHabitByID(habitID)
	if err != nil {
		b.replyOrLogError(user.TgChatID, "❌ Привычка не найдена")
		return nil
	}
	if habit.UserID != user.ID {
		b.replyOrLogError(user.TgChatID, "❌ Вы не являетесь владельцем этой привычки")
		return nil
	}
	return habit
}
