package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	// FK включаются на каждом соединении пула, иначе ON DELETE SET NULL
	// для related_habit_id не сработает
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %v", err)
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		return nil, err
	}

	log.Printf("✅ База данных инициализирована: %s", path)
	return d, nil
}

func (d *Database) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tg_name TEXT UNIQUE NOT NULL,
			tg_chat_id INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS places (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS habits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			place_id INTEGER NOT NULL REFERENCES places(id) ON DELETE CASCADE,
			action_id INTEGER NOT NULL REFERENCES actions(id) ON DELETE CASCADE,
			date_time DATETIME NOT NULL,
			is_pleasant BOOLEAN NOT NULL DEFAULT 0,
			related_habit_id INTEGER REFERENCES habits(id) ON DELETE SET NULL,
			period TEXT NOT NULL DEFAULT 'DISABLE',
			reward TEXT NOT NULL DEFAULT '',
			time_to_complete INTEGER NOT NULL DEFAULT 120,
			is_public BOOLEAN NOT NULL DEFAULT 0,
			date_time_next_sent DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_habits_next_sent ON habits(date_time_next_sent)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_habits_public ON habits(is_public)`,
		`CREATE INDEX IF NOT EXISTS idx_places_user ON places(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_user ON actions(user_id)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("ошибка создания таблицы: %v", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}
