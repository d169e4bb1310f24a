package telegram

import (
	"context"
	"fmt"
	"log"

	"habit-tracker/internal/database"
	"habit-tracker/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	bot      *tgbotapi.BotAPI
	db       *database.Database
	services *services.ServiceManager
	handlers map[string]func(*database.User, *tgbotapi.Message)
}

func NewBot(token string, db *database.Database, serviceManager *services.ServiceManager) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бота: %v", err)
	}

	bot := &Bot{
		bot:      botAPI,
		db:       db,
		services: serviceManager,
		handlers: make(map[string]func(*database.User, *tgbotapi.Message)),
	}

	bot.registerHandlers()
	log.Printf("🤖 Бот инициализирован: %s", botAPI.Self.UserName)
	return bot, nil
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/help"] = b.handleHelp
	b.handlers["/habits"] = b.handleHabits
	b.handlers["/public"] = b.handlePublic
	b.handlers["/stats"] = b.handleStats
}

// SendMessage отправляет текст в указанный чат
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.bot.Send(msg)
	return err
}

// ResolveChatID ищет chat_id пользователя по имени среди свежих
// обновлений бота. Работает только если пользователь уже писал боту
func (b *Bot) ResolveChatID(tgName string) (int64, error) {
	updates, err := b.bot.GetUpdates(tgbotapi.UpdateConfig{Timeout: 0})
	if err != nil {
		return 0, fmt.Errorf("ошибка получения обновлений: %v", err)
	}

	for _, update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		if update.Message.From.UserName == tgName {
			return update.Message.Chat.ID, nil
		}
	}

	return 0, fmt.Errorf("чат с пользователем %s не найден", tgName)
}

func (b *Bot) GetUsername() string {
	return b.bot.Self.UserName
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	if msg.From == nil || msg.From.UserName == "" {
		b.replyOrLogError(msg.Chat.ID, "⛔ Для работы с ботом нужен username в Telegram")
		return
	}

	// Любое сообщение обновляет chat_id: дальше напоминания
	// уходят без обращения к getUpdates
	user, err := database.NewRepository(b.db).UpsertUser(msg.From.UserName, msg.Chat.ID)
	if err != nil {
		log.Printf("⚠️ Ошибка регистрации пользователя %s: %v", msg.From.UserName, err)
		b.replyOrLogError(msg.Chat.ID, "❌ Ошибка регистрации, попробуйте ещё раз")
		return
	}

	b.handleMessage(user, msg)
}

// handleMessage обрабатывает текстовые сообщения
func (b *Bot) handleMessage(user *database.User, msg *tgbotapi.Message) {
	text := msg.Text
	if text == "" {
		return
	}

	switch {
	case hasCommandPrefix(text, "/add "):
		b.handleAdd(user, msg)
	case hasCommandPrefix(text, "/pleasant "):
		b.handlePleasant(user, msg)
	case hasCommandPrefix(text, "/link "):
		b.handleLink(user, msg)
	case hasCommandPrefix(text, "/time "):
		b.handleChangeTime(user, msg)
	case hasCommandPrefix(text, "/del "):
		b.handleDelete(user, msg)
	default:
		if text[0] == '/' {
			if handler, exists := b.handlers[commandName(text)]; exists {
				handler(user, msg)
			} else {
				b.replyOrLogError(user.TgChatID, "❌ Неизвестная команда. Используйте /help")
			}
		}
	}
}
