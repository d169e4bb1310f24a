package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habit-tracker/internal/database"
	"habit-tracker/internal/schedule"
)

type fakeHabitStore struct {
	habits  map[int]*database.Habit
	nextID  int
	created int
	updated int
}

func newFakeHabitStore() *fakeHabitStore {
	return &fakeHabitStore{habits: make(map[int]*database.Habit), nextID: 1}
}

func (s *fakeHabitStore) GetHabitByID(id int) (*database.Habit, error) {
	h, ok := s.habits[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *h
	return &copied, nil
}

func (s *fakeHabitStore) CreateHabit(h *database.Habit) (int, error) {
	id := s.nextID
	s.nextID++
	copied := *h
	copied.ID = id
	s.habits[id] = &copied
	s.created++
	return id, nil
}

func (s *fakeHabitStore) UpdateHabit(h *database.Habit) error {
	copied := *h
	s.habits[h.ID] = &copied
	s.updated++
	return nil
}

func newTestHabitService(store *fakeHabitStore, now time.Time) *HabitService {
	hs := NewHabitService(store)
	hs.now = func() time.Time { return now }
	return hs
}

func TestHabitService_Create_ComputesNextSent(t *testing.T) {
	store := newFakeHabitStore()
	now := time.Date(2024, time.June, 15, 18, 10, 1, 0, time.UTC)
	hs := newTestHabitService(store, now)

	h := validHabit()
	require.NoError(t, hs.Create(h))
	require.NotZero(t, h.ID)

	saved, err := store.GetHabitByID(h.ID)
	require.NoError(t, err)

	expected, err := schedule.Next(h.DateTime, now, h.Period)
	require.NoError(t, err)
	require.True(t, saved.DateTimeNextSent.Valid)
	assert.Equal(t, expected, saved.DateTimeNextSent.Time)
}

func TestHabitService_Create_DisabledPeriodLeavesNextSentEmpty(t *testing.T) {
	store := newFakeHabitStore()
	hs := newTestHabitService(store, time.Now().UTC())

	h := validHabit()
	h.Period = database.PeriodDisable
	require.NoError(t, hs.Create(h))

	saved, err := store.GetHabitByID(h.ID)
	require.NoError(t, err)
	assert.False(t, saved.DateTimeNextSent.Valid)
}

func TestHabitService_Create_RejectsInvalid(t *testing.T) {
	store := newFakeHabitStore()
	hs := newTestHabitService(store, time.Now().UTC())

	h := validHabit()
	h.TimeToComplete = 500

	err := hs.Create(h)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Zero(t, store.created, "при нарушении правил ничего не сохраняется")
}

func TestHabitService_Create_LooksUpRelatedHabit(t *testing.T) {
	store := newFakeHabitStore()
	hs := newTestHabitService(store, time.Now().UTC())

	pleasant := pleasantHabit()
	require.NoError(t, hs.Create(pleasant))

	h := validHabit()
	h.Reward = ""
	h.RelatedHabitID = sql.NullInt64{Int64: int64(pleasant.ID), Valid: true}
	assert.NoError(t, hs.Create(h))
}

func TestHabitService_Create_RejectsMissingRelatedHabit(t *testing.T) {
	store := newFakeHabitStore()
	hs := newTestHabitService(store, time.Now().UTC())

	h := validHabit()
	h.Reward = ""
	h.RelatedHabitID = sql.NullInt64{Int64: 77, Valid: true}

	err := hs.Create(h)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Zero(t, store.created)
}

func TestHabitService_Update_RearmsSchedule(t *testing.T) {
	store := newFakeHabitStore()
	now := time.Date(2024, time.June, 15, 13, 10, 0, 0, time.UTC)
	hs := newTestHabitService(store, now)

	h := validHabit()
	require.NoError(t, hs.Create(h))

	h.Period = database.PeriodEveryHour
	require.NoError(t, hs.Update(h))

	saved, err := store.GetHabitByID(h.ID)
	require.NoError(t, err)

	expected, err := schedule.Next(h.DateTime, now, database.PeriodEveryHour)
	require.NoError(t, err)
	require.True(t, saved.DateTimeNextSent.Valid)
	assert.Equal(t, expected, saved.DateTimeNextSent.Time)
}

func TestHabitService_Create_TruncatesAnchor(t *testing.T) {
	store := newFakeHabitStore()
	hs := newTestHabitService(store, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))

	h := validHabit()
	h.DateTime = time.Date(2024, time.May, 28, 16, 15, 34, 500, time.UTC)
	require.NoError(t, hs.Create(h))

	saved, err := store.GetHabitByID(h.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.May, 28, 16, 15, 0, 0, time.UTC), saved.DateTime)
}
