package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		Token string `yaml:"token"`
	} `yaml:"telegram"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Scheduler struct {
		// cron-выражение для проверки напоминаний
		Spec string `yaml:"spec"`
	} `yaml:"scheduler"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	cfg.Database.Path = "/data/habit-tracker.db"
	cfg.Scheduler.Spec = "* * * * *"

	if path := getEnv("CONFIG_PATH", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %v", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора файла конфигурации: %v", err)
		}
	}

	// Переменные окружения важнее файла
	if token := getEnv("TG_TOKEN", ""); token != "" {
		cfg.Telegram.Token = token
	}
	if dbPath := getEnv("DB_PATH", ""); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if cfg.Telegram.Token == "" {
		log.Fatal("❌ TG_TOKEN не установлен. Установите переменную окружения или создайте .env файл")
	}

	log.Printf("✅ Конфигурация загружена: БД=%s, расписание=%q", cfg.Database.Path, cfg.Scheduler.Spec)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
