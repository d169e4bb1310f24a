package services

import (
	"fmt"
	"strings"

	"habit-tracker/internal/database"
)

// Максимальное время выполнения привычки, секунд
const MaxTimeToComplete = 120

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

// ValidationRule чистый предикат над предлагаемыми полями привычки.
// related — связанная привычка, если related_habit_id заполнен
// и такая привычка нашлась в хранилище
type ValidationRule func(h *database.Habit, related *database.Habit) *ValidationError

var habitRules = []ValidationRule{
	checkRewardOrRelated,
	checkTimeToComplete,
	checkPleasantHasNoBonus,
	checkRelatedIsPleasant,
	checkPeriod,
}

// ValidateHabit прогоняет все правила и собирает все нарушения разом.
// Возвращает nil, если привычку можно сохранять
func ValidateHabit(h *database.Habit, related *database.Habit) error {
	var errs ValidationErrors
	for _, rule := range habitRules {
		if err := rule(h, related); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Нельзя указать связанную привычку и вознаграждение одновременно
func checkRewardOrRelated(h *database.Habit, _ *database.Habit) *ValidationError {
	if h.RelatedHabitID.Valid && h.Reward != "" {
		return &ValidationError{
			Code:    "related_or_reward",
			Message: "Нельзя указать связанную привычку и вознаграждение одновременно",
		}
	}
	return nil
}

func checkTimeToComplete(h *database.Habit, _ *database.Habit) *ValidationError {
	if h.TimeToComplete > MaxTimeToComplete {
		return &ValidationError{
			Code: "time_to_complete",
			Message: fmt.Sprintf(
				"Время на выполнение привычки указано больше чем %d секунд", MaxTimeToComplete),
		}
	}
	return nil
}

// У приятной привычки не может быть вознаграждения или связанной привычки
func checkPleasantHasNoBonus(h *database.Habit, _ *database.Habit) *ValidationError {
	if h.IsPleasant && (h.RelatedHabitID.Valid || h.Reward != "") {
		return &ValidationError{
			Code:    "pleasant_bonus",
			Message: "У приятной привычки не может быть вознаграждения или связанной привычки",
		}
	}
	return nil
}

// В связанные привычки попадают только привычки с признаком приятной
func checkRelatedIsPleasant(h *database.Habit, related *database.Habit) *ValidationError {
	if !h.RelatedHabitID.Valid {
		return nil
	}
	if related == nil {
		return &ValidationError{
			Code:    "related_not_found",
			Message: "Связанная привычка не найдена",
		}
	}
	if !related.IsPleasant {
		return &ValidationError{
			Code:    "related_not_pleasant",
			Message: "Связанная привычка должна быть приятной",
		}
	}
	return nil
}

func checkPeriod(h *database.Habit, _ *database.Habit) *ValidationError {
	if _, ok := database.PeriodNames[h.Period]; !ok {
		keys := make([]string, 0, len(database.PeriodNames))
		for p := range database.PeriodNames {
			keys = append(keys, string(p))
		}
		return &ValidationError{
			Code: "period",
			Message: fmt.Sprintf(
				"Периодичность может быть только из списка: %s", strings.Join(keys, ", ")),
		}
	}
	return nil
}
