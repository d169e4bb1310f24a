package database

import (
	"database/sql"
	"time"
)

type Repository struct {
	Db *Database
}

func NewRepository(db *Database) *Repository {
	return &Repository{Db: db}
}

// User repository methods

// UpsertUser регистрирует пользователя по имени в Telegram и
// запоминает chat_id его чата
func (r *Repository) UpsertUser(tgName string, chatID int64) (*User, error) {
	_, err := r.Db.db.Exec(`
		INSERT INTO users (tg_name, tg_chat_id)
		VALUES (?, ?)
		ON CONFLICT(tg_name) DO UPDATE SET tg_chat_id = excluded.tg_chat_id
	`, tgName, chatID)
	if err != nil {
		return nil, err
	}

	return r.GetUserByName(tgName)
}

func (r *Repository) GetUserByName(tgName string) (*User, error) {
	var user User
	err := r.Db.db.QueryRow(`
		SELECT id, tg_name, tg_chat_id, created_at
		FROM users
		WHERE tg_name = ?
	`, tgName).Scan(&user.ID, &user.TgName, &user.TgChatID, &user.CreatedAt)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *Repository) UpdateUserChatID(userID int, chatID int64) error {
	_, err := r.Db.db.Exec("UPDATE users SET tg_chat_id = ? WHERE id = ?", chatID, userID)
	return err
}

// Place / Action repository methods

// GetOrCreatePlace ищет место среди общих и своих, при отсутствии создаёт
func (r *Repository) GetOrCreatePlace(name string, userID int) (int, error) {
	var id int
	err := r.Db.db.QueryRow(`
		SELECT id FROM places
		WHERE name = ? AND (user_id IS NULL OR user_id = ?)
		ORDER BY user_id IS NOT NULL
		LIMIT 1
	`, name, userID).Scan(&id)

	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := r.Db.db.Exec("INSERT INTO places (user_id, name) VALUES (?, ?)", userID, name)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	return int(newID), err
}

func (r *Repository) GetOrCreateAction(name string, userID int) (int, error) {
	var id int
	err := r.Db.db.QueryRow(`
		SELECT id FROM actions
		WHERE name = ? AND (user_id IS NULL OR user_id = ?)
		ORDER BY user_id IS NOT NULL
		LIMIT 1
	`, name, userID).Scan(&id)

	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := r.Db.db.Exec("INSERT INTO actions (user_id, name) VALUES (?, ?)", userID, name)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	return int(newID), err
}

func (r *Repository) CountPlaces() (int, error) {
	var count int
	err := r.Db.db.QueryRow("SELECT COUNT(*) FROM places").Scan(&count)
	return count, err
}

// AddGlobalPlace добавляет общее место (без владельца)
func (r *Repository) AddGlobalPlace(name string) error {
	_, err := r.Db.db.Exec("INSERT INTO places (user_id, name) VALUES (NULL, ?)", name)
	return err
}

func (r *Repository) AddGlobalAction(name string) error {
	_, err := r.Db.db.Exec("INSERT INTO actions (user_id, name) VALUES (NULL, ?)", name)
	return err
}

// Habit repository methods

func (r *Repository) CreateHabit(h *Habit) (int, error) {
	res, err := r.Db.db.Exec(`
		INSERT INTO habits
		(user_id, place_id, action_id, date_time, is_pleasant, related_habit_id,
		 period, reward, time_to_complete, is_public, date_time_next_sent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.UserID, h.PlaceID, h.ActionID, h.DateTime, h.IsPleasant, h.RelatedHabitID,
		h.Period, h.Reward, h.TimeToComplete, h.IsPublic, h.DateTimeNextSent)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	return int(id), err
}

func (r *Repository) UpdateHabit(h *Habit) error {
	_, err := r.Db.db.Exec(`
		UPDATE habits
		SET place_id = ?, action_id = ?, date_time = ?, is_pleasant = ?,
		    related_habit_id = ?, period = ?, reward = ?, time_to_complete = ?,
		    is_public = ?, date_time_next_sent = ?
		WHERE id = ?
	`, h.PlaceID, h.ActionID, h.DateTime, h.IsPleasant, h.RelatedHabitID,
		h.Period, h.Reward, h.TimeToComplete, h.IsPublic, h.DateTimeNextSent, h.ID)
	return err
}

func (r *Repository) GetHabitByID(id int) (*Habit, error) {
	var h Habit
	err := r.Db.db.QueryRow(`
		SELECT id, user_id, place_id, action_id, date_time, is_pleasant,
		       related_habit_id, period, reward, time_to_complete, is_public,
		       date_time_next_sent, created_at
		FROM habits
		WHERE id = ?
	`, id).Scan(
		&h.ID,
		&h.UserID,
		&h.PlaceID,
		&h.ActionID,
		&h.DateTime,
		&h.IsPleasant,
		&h.RelatedHabitID,
		&h.Period,
		&h.Reward,
		&h.TimeToComplete,
		&h.IsPublic,
		&h.DateTimeNextSent,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &h, nil
}

func (r *Repository) GetHabitsByUser(userID int) ([]HabitView, error) {
	rows, err := r.Db.db.Query(`
		SELECT h.id, h.user_id, h.place_id, h.action_id, h.date_time, h.is_pleasant,
		       h.related_habit_id, h.period, h.reward, h.time_to_complete, h.is_public,
		       h.date_time_next_sent, h.created_at, p.name, a.name
		FROM habits h
		JOIN places p ON p.id = h.place_id
		JOIN actions a ON a.id = h.action_id
		WHERE h.user_id = ?
		ORDER BY h.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHabitViews(rows)
}

func (r *Repository) GetPublicHabits() ([]HabitView, error) {
	rows, err := r.Db.db.Query(`
		SELECT h.id, h.user_id, h.place_id, h.action_id, h.date_time, h.is_pleasant,
		       h.related_habit_id, h.period, h.reward, h.time_to_complete, h.is_public,
		       h.date_time_next_sent, h.created_at, p.name, a.name
		FROM habits h
		JOIN places p ON p.id = h.place_id
		JOIN actions a ON a.id = h.action_id
		WHERE h.is_public = 1
		ORDER BY h.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHabitViews(rows)
}

func scanHabitViews(rows *sql.Rows) ([]HabitView, error) {
	var habits []HabitView
	for rows.Next() {
		var hv HabitView
		err := rows.Scan(
			&hv.ID,
			&hv.UserID,
			&hv.PlaceID,
			&hv.ActionID,
			&hv.DateTime,
			&hv.IsPleasant,
			&hv.RelatedHabitID,
			&hv.Period,
			&hv.Reward,
			&hv.TimeToComplete,
			&hv.IsPublic,
			&hv.DateTimeNextSent,
			&hv.CreatedAt,
			&hv.PlaceName,
			&hv.ActionName,
		)
		if err != nil {
			return nil, err
		}
		habits = append(habits, hv)
	}

	return habits, rows.Err()
}

// DeleteHabit удаляет привычку владельца. У привычек, ссылавшихся на неё,
// related_habit_id обнуляется на уровне БД (ON DELETE SET NULL)
func (r *Repository) DeleteHabit(id, userID int) (bool, error) {
	res, err := r.Db.db.Exec("DELETE FROM habits WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

// GetDueReminders возвращает привычки, время оповещения которых наступило
func (r *Repository) GetDueReminders(now time.Time) ([]HabitReminder, error) {
	rows, err := r.Db.db.Query(`
		SELECT h.id, h.user_id, u.tg_name, u.tg_chat_id, p.name, a.name,
		       h.date_time, h.period, h.time_to_complete, h.reward,
		       ra.name, h.date_time_next_sent
		FROM habits h
		JOIN users u ON u.id = h.user_id
		JOIN places p ON p.id = h.place_id
		JOIN actions a ON a.id = h.action_id
		LEFT JOIN habits rh ON rh.id = h.related_habit_id
		LEFT JOIN actions ra ON ra.id = rh.action_id
		WHERE h.date_time_next_sent IS NOT NULL AND h.date_time_next_sent <= ?
		ORDER BY h.date_time_next_sent
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []HabitReminder
	for rows.Next() {
		var rem HabitReminder
		err := rows.Scan(
			&rem.HabitID,
			&rem.UserID,
			&rem.TgName,
			&rem.TgChatID,
			&rem.PlaceName,
			&rem.ActionName,
			&rem.DateTime,
			&rem.Period,
			&rem.TimeToComplete,
			&rem.Reward,
			&rem.RelatedActionName,
			&rem.DateTimeNextSent,
		)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// RearmHabit переводит привычку на следующее время оповещения.
// Условие по старому значению не даёт двум параллельным проходам
// обработать одну привычку дважды
func (r *Repository) RearmHabit(habitID int, prev time.Time, next sql.NullTime) (bool, error) {
	res, err := r.Db.db.Exec(`
		UPDATE habits
		SET date_time_next_sent = ?
		WHERE id = ? AND date_time_next_sent = ?
	`, next, habitID, prev)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

// Analytics repository methods

func (r *Repository) GetHabitStats(userID int) (*HabitStats, error) {
	stats := &HabitStats{ByPeriod: make(map[Period]int)}

	err := r.Db.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN is_pleasant = 1 THEN 1 ELSE 0 END), 0) as pleasant,
			COALESCE(SUM(CASE WHEN is_public = 1 THEN 1 ELSE 0 END), 0) as public
		FROM habits
		WHERE user_id = ?
	`, userID).Scan(&stats.Total, &stats.Pleasant, &stats.Public)
	if err != nil {
		return nil, err
	}

	rows, err := r.Db.db.Query(`
		SELECT period, COUNT(*) as count
		FROM habits
		WHERE user_id = ?
		GROUP BY period
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var period Period
		var count int
		if err := rows.Scan(&period, &count); err != nil {
			return nil, err
		}
		stats.ByPeriod[period] = count
	}

	return stats, rows.Err()
}
