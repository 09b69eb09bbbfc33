package telegram_api

import (
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Aquagrim/internal/constants"
)

// Messenger — минимальный контракт отправки, которого хватает обработчикам
// и потокам диалога. В продакшене его реализует *BotClient, в тестах —
// записывающий фейк.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SendOrEditMessage пытается отредактировать существующее сообщение,
// а при неудаче отправляет новое. Ошибка "message is not modified" не
// считается ошибкой: контент просто не изменился.
func SendOrEditMessage(
	bot Messenger,
	chatID int64,
	messageIDToTryEdit int,
	text string,
	keyboard *tgbotapi.InlineKeyboardMarkup,
) (tgbotapi.Message, error) {
	if messageIDToTryEdit != 0 {
		var editMsgConfig tgbotapi.EditMessageTextConfig
		if keyboard != nil {
			editMsgConfig = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageIDToTryEdit, text, *keyboard)
		} else {
			editMsgConfig = tgbotapi.NewEditMessageText(chatID, messageIDToTryEdit, text)
		}

		_, err := bot.Request(editMsgConfig)
		if err == nil || strings.Contains(err.Error(), "message is not modified") {
			var original tgbotapi.Message
			original.Chat.ID = chatID
			original.MessageID = messageIDToTryEdit
			original.Text = text
			return original, nil
		}
		log.Printf("SendOrEditMessage: не удалось отредактировать сообщение %d в чате %d: %v. Будет отправлено новое.", messageIDToTryEdit, chatID, err)
	}

	newMsg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		newMsg.ReplyMarkup = keyboard
	}
	sent, err := bot.Send(newMsg)
	if err != nil {
		log.Printf("SendOrEditMessage: ОШИБКА отправки сообщения для chatID %d: %v", chatID, err)
		return tgbotapi.Message{}, err
	}
	return sent, nil
}

// SendLongMessage отправляет текст, разбивая его на части, если он
// превышает предел длины сообщения Telegram.
func SendLongMessage(bot Messenger, chatID int64, text string) error {
	for _, part := range SplitLongMessage(text, constants.MAX_MESSAGE_LENGTH) {
		if _, err := bot.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return err
		}
	}
	return nil
}

// SplitLongMessage режет текст на куски не длиннее maxLen рун,
// предпочитая границы строк.
func SplitLongMessage(text string, maxLen int) []string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(runes) > maxLen {
		cut := maxLen
		for i := maxLen; i > maxLen/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}

// AnswerCallback закрывает "часики" на кнопке; необязательный текст
// показывается всплывающим уведомлением.
func AnswerCallback(bot Messenger, callbackID, text string) {
	if _, err := bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("AnswerCallback: ошибка ответа на коллбэк %s: %v", callbackID, err)
	}
}
