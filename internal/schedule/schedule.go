package schedule

import (
	"errors"
	"fmt"
	"time"

	"habit-tracker/internal/database"
	"habit-tracker/internal/utils"
)

// ErrUnknownPeriod валидация не должна пропускать неизвестную
// периодичность; если она всё же дошла сюда — это дефект конфигурации
var ErrUnknownPeriod = errors.New("неизвестная периодичность")

const day = 24 * time.Hour

// Next вычисляет время следующего оповещения привычки.
//
// anchor — исходное время выполнения привычки, опорная точка всех
// последующих вычислений. Пока now не дошло до anchor, следующим
// оповещением остаётся сам anchor. После этого выбирается ближайшее
// время строго позже now на решётке с шагом периода от anchor.
// Для PeriodDisable возвращается нулевое время: оповещений нет.
//
// Вход и выход всегда с точностью до минуты
func Next(anchor, now time.Time, period database.Period) (time.Time, error) {
	anchor = utils.TruncateToMinute(anchor)
	now = utils.TruncateToMinute(now)

	switch period {
	case database.PeriodDisable:
		return time.Time{}, nil

	case database.PeriodEveryMinute:
		if now.After(anchor) {
			return now.Add(time.Minute), nil
		}
		return anchor, nil

	case database.PeriodEveryHour:
		if now.After(anchor) {
			hours := int(now.Sub(anchor)/time.Hour) + 1
			return anchor.Add(time.Duration(hours) * time.Hour), nil
		}
		return anchor, nil

	case database.PeriodEveryDay:
		if now.After(anchor) {
			days := int(now.Sub(anchor)/day) + 1
			return anchor.AddDate(0, 0, days), nil
		}
		return anchor, nil

	case database.PeriodEveryWeek:
		if now.After(anchor) {
			// Дотягиваем до дня недели anchor, не ближе чем через неделю
			d := int(now.Sub(anchor) / day)
			return anchor.AddDate(0, 0, d+(7-d%7)), nil
		}
		return anchor, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
}
