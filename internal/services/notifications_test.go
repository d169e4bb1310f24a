package services

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habit-tracker/internal/database"
)

type fakeReminderStore struct {
	// habitID → текущее date_time_next_sent
	nextSent map[int]sql.NullTime
	due      []database.HabitReminder
	chatIDs  map[int]int64
}

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{
		nextSent: make(map[int]sql.NullTime),
		chatIDs:  make(map[int]int64),
	}
}

func (s *fakeReminderStore) addDue(rem database.HabitReminder) {
	s.due = append(s.due, rem)
	s.nextSent[rem.HabitID] = sql.NullTime{Time: rem.DateTimeNextSent, Valid: true}
}

func (s *fakeReminderStore) GetDueReminders(now time.Time) ([]database.HabitReminder, error) {
	var due []database.HabitReminder
	for _, rem := range s.due {
		current, ok := s.nextSent[rem.HabitID]
		if ok && current.Valid && !current.Time.After(now) {
			rem.DateTimeNextSent = current.Time
			due = append(due, rem)
		}
	}
	return due, nil
}

func (s *fakeReminderStore) RearmHabit(habitID int, prev time.Time, next sql.NullTime) (bool, error) {
	current, ok := s.nextSent[habitID]
	if !ok || !current.Valid || !current.Time.Equal(prev) {
		return false, nil
	}
	s.nextSent[habitID] = next
	return true, nil
}

func (s *fakeReminderStore) UpdateUserChatID(userID int, chatID int64) error {
	s.chatIDs[userID] = chatID
	return nil
}

type fakeSender struct {
	sent []string
	to   []int64
	err  error
}

func (f *fakeSender) SendMessage(chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, chatID)
	f.sent = append(f.sent, text)
	return nil
}

type fakeResolver struct {
	chatIDs map[string]int64
	calls   int
}

func (f *fakeResolver) ResolveChatID(tgName string) (int64, error) {
	f.calls++
	if id, ok := f.chatIDs[tgName]; ok {
		return id, nil
	}
	return 0, errors.New("чат не найден")
}

func dueReminder(habitID int, nextSent time.Time) database.HabitReminder {
	return database.HabitReminder{
		HabitID:          habitID,
		UserID:           1,
		TgName:           "ivan",
		TgChatID:         100500,
		PlaceName:        "Дом",
		ActionName:       "Отжимание",
		DateTime:         time.Date(2024, time.May, 28, 16, 15, 0, 0, time.UTC),
		Period:           database.PeriodEveryDay,
		TimeToComplete:   120,
		Reward:           "Съесть бургер",
		DateTimeNextSent: nextSent,
	}
}

func newTestNotificationService(store *fakeReminderStore, sender *fakeSender, resolver *fakeResolver, now time.Time) *NotificationService {
	ns := NewNotificationService(store, sender, resolver)
	ns.now = func() time.Time { return now }
	return ns
}

func TestNotificationService_SendsAndRearms(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 10, 0, 0, time.UTC)
	store := newFakeReminderStore()
	store.addDue(dueReminder(1, now.Add(-time.Minute)))
	sender := &fakeSender{}

	ns := newTestNotificationService(store, sender, &fakeResolver{}, now)
	ns.CheckAndSendNotifications()

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(100500), sender.to[0])
	assert.Contains(t, sender.sent[0], "Пора выполнять привычку!")
	assert.Contains(t, sender.sent[0], "Место: Дом.")
	assert.Contains(t, sender.sent[0], "Действие: Отжимание.")
	assert.Contains(t, sender.sent[0], "На выполнение 120 секунд.")
	assert.Contains(t, sender.sent[0], "награды Съесть бургер!")

	rearmed := store.nextSent[1]
	require.True(t, rearmed.Valid)
	assert.True(t, rearmed.Time.After(now), "привычка должна быть перевзведена строго вперёд")
}

func TestNotificationService_PrefersRelatedHabitOverReward(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 10, 0, 0, time.UTC)
	store := newFakeReminderStore()
	rem := dueReminder(1, now)
	rem.RelatedActionName = sql.NullString{String: "Съесть мороженое", Valid: true}
	store.addDue(rem)
	sender := &fakeSender{}

	ns := newTestNotificationService(store, sender, &fakeResolver{}, now)
	ns.CheckAndSendNotifications()

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "награды Съесть мороженое!")
	assert.NotContains(t, sender.sent[0], "бургер")
}

func TestNotificationService_DeliveryFailureStillRearms(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 10, 0, 0, time.UTC)
	store := newFakeReminderStore()
	store.addDue(dueReminder(1, now))
	sender := &fakeSender{err: errors.New("transport down")}

	ns := newTestNotificationService(store, sender, &fakeResolver{}, now)
	ns.CheckAndSendNotifications()

	rearmed := store.nextSent[1]
	require.True(t, rearmed.Valid)
	assert.True(t, rearmed.Time.After(now),
		"сбой доставки не должен мешать переносу на следующее время")
}

func TestNotificationService_SecondPassSameMinuteIsEmpty(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 10, 0, 0, time.UTC)
	store := newFakeReminderStore()
	store.addDue(dueReminder(1, now))
	sender := &fakeSender{}

	ns := newTestNotificationService(store, sender, &fakeResolver{}, now)
	ns.CheckAndSendNotifications()
	ns.CheckAndSendNotifications()

	assert.Len(t, sender.sent, 1, "после обработки привычка не должна снова считаться наступившей")
}

func TestNotificationService_ClaimLostSkipsSend(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 10, 0, 0, time.UTC)
	store := newFakeReminderStore()
	rem := dueReminder(1, now)
	store.addDue(rem)
	// Параллельный проход успел перевзвести привычку
	store.nextSent[1] = sql.NullTime{Time: now.AddDate(0, 0, 1), Valid: true}
	sender := &fakeSender{}

	ns := newTestNotificationService(store, sender, &fakeResolver{}, now)
	ns.processReminder(rem, now)

	assert.Empty(t, sender.sent, "проигравший проход не отправляет дубль")
}

func TestNotificationService_ResolvesAndCachesChatID(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 10, 0, 0, time.UTC)
	store := newFakeReminderStore()
	rem := dueReminder(1, now)
	rem.TgChatID = 0
	store.addDue(rem)
	sender := &fakeSender{}
	resolver := &fakeResolver{chatIDs: map[string]int64{"ivan": 42}}

	ns := newTestNotificationService(store, sender, resolver, now)
	ns.CheckAndSendNotifications()

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.to[0])
	assert.Equal(t, int64(42), store.chatIDs[1], "найденный chat_id сохраняется на пользователе")
}

func TestNotificationService_UnresolvedChatStillRearms(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 10, 0, 0, time.UTC)
	store := newFakeReminderStore()
	rem := dueReminder(1, now)
	rem.TgChatID = 0
	store.addDue(rem)
	sender := &fakeSender{}

	ns := newTestNotificationService(store, sender, &fakeResolver{}, now)
	ns.CheckAndSendNotifications()

	assert.Empty(t, sender.sent)
	rearmed := store.nextSent[1]
	require.True(t, rearmed.Valid)
	assert.True(t, rearmed.Time.After(now))
}

func TestNotificationService_UnknownPeriodDisablesHabit(t *testing.T) {
	now := time.Date(2024, time.June, 15, 18, 10, 0, 0, time.UTC)
	store := newFakeReminderStore()
	rem := dueReminder(1, now)
	rem.Period = database.Period("EVERY_MONTH")
	store.addDue(rem)
	sender := &fakeSender{}

	ns := newTestNotificationService(store, sender, &fakeResolver{}, now)
	ns.CheckAndSendNotifications()

	assert.False(t, store.nextSent[1].Valid,
		"при неизвестной периодичности время оповещения сбрасывается")
}
