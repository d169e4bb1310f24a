package app

import (
	"context"
	"log"

	"habit-tracker/internal/config"
	"habit-tracker/internal/database"
	"habit-tracker/internal/services"
	"habit-tracker/internal/telegram"

	"github.com/robfig/cron/v3"
)

type Application struct {
	config     *config.Config
	db         *database.Database
	bot        *telegram.Bot
	services   *services.ServiceManager
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config) (*Application, error) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	serviceManager := services.NewServiceManager(db)
	bot, err := telegram.NewBot(cfg.Telegram.Token, db, serviceManager)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Бот и транспорт, и справочник chat_id
	serviceManager.SetNotificationSender(bot, bot)
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:     cfg,
		db:         db,
		bot:        bot,
		services:   serviceManager,
		cron:       cron.New(),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	if err := app.setupCronJobs(); err != nil {
		db.Close()
		cancel()
		return nil, err
	}

	return app, nil
}

func (a *Application) Start() error {
	log.Println("🚀 Запуск приложения...")

	go a.bot.Start(a.ctx)

	a.cron.Start()

	if err := a.services.Seed.CreateDefaultData(); err != nil {
		log.Printf("⚠️ Ошибка наполнения стартовых данных: %v", err)
	}

	log.Printf("✅ Приложение запущено. Бот: @%s", a.bot.GetUsername())

	return nil
}

func (a *Application) Stop() error {
	log.Println("🛑 Остановка приложения...")

	a.cancelFunc()
	a.cron.Stop()

	if err := a.db.Close(); err != nil {
		log.Printf("⚠️ Ошибка закрытия БД: %v", err)
	}

	log.Println("✅ Приложение остановлено")
	return nil
}

func (a *Application) setupCronJobs() error {
	// Проверка напоминаний раз в минуту: та же точность,
	// с которой считает расписание
	_, err := a.cron.AddFunc(a.config.Scheduler.Spec, func() {
		a.services.Notification.CheckAndSendNotifications()
	})
	return err
}
