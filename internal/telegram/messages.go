package telegram

import (
	"log"
	"strings"
)

func (b *Bot) replyOrLogError(chatID int64, message string) {
	if err := b.SendMessage(chatID, message); err != nil {
		log.Printf("⚠️ Ошибка отправки сообщения в чат %d: %v", chatID, err)
	}
}

func hasCommandPrefix(text, prefix string) bool {
	return strings.HasPrefix(text, prefix)
}

func commandName(text string) string {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
