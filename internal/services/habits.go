package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"habit-tracker/internal/database"
	"habit-tracker/internal/schedule"
	"habit-tracker/internal/utils"
)

// HabitStore интерфейс хранилища привычек для сервиса записи
type HabitStore interface {
	GetHabitByID(id int) (*database.Habit, error)
	CreateHabit(h *database.Habit) (int, error)
	UpdateHabit(h *database.Habit) error
}

// HabitService проводит каждую запись привычки через валидацию
// и перевзводит время следующего оповещения
type HabitService struct {
	store HabitStore
	now   func() time.Time
}

func NewHabitService(store HabitStore) *HabitService {
	return &HabitService{
		store: store,
		now:   time.Now,
	}
}

func (hs *HabitService) Create(h *database.Habit) error {
	if err := hs.prepare(h); err != nil {
		return err
	}

	id, err := hs.store.CreateHabit(h)
	if err != nil {
		return fmt.Errorf("ошибка сохранения привычки: %v", err)
	}
	h.ID = id

	return nil
}

func (hs *HabitService) Update(h *database.Habit) error {
	if err := hs.prepare(h); err != nil {
		return err
	}

	if err := hs.store.UpdateHabit(h); err != nil {
		return fmt.Errorf("ошибка сохранения привычки: %v", err)
	}

	return nil
}

// prepare выполняет правила валидации и вычисляет date_time_next_sent.
// До успешного завершения всех проверок ничего не сохраняется
func (hs *HabitService) prepare(h *database.Habit) error {
	h.DateTime = utils.TruncateToMinute(h.DateTime)

	var related *database.Habit
	if h.RelatedHabitID.Valid {
		found, err := hs.store.GetHabitByID(int(h.RelatedHabitID.Int64))
		switch {
		case err == nil:
			related = found
		case errors.Is(err, sql.ErrNoRows):
			// правило related_not_found отработает ниже
		default:
			return fmt.Errorf("ошибка поиска связанной привычки: %v", err)
		}
	}

	if err := ValidateHabit(h, related); err != nil {
		return err
	}

	next, err := schedule.Next(h.DateTime, hs.now().UTC(), h.Period)
	if err != nil {
		return err
	}

	h.DateTimeNextSent = sql.NullTime{}
	if !next.IsZero() {
		h.DateTimeNextSent = sql.NullTime{Time: next, Valid: true}
	}

	return nil
}
