// Пакет flows — пошаговые диалоги бота: утреннее заполнение площадки,
// вечерние отчеты, редактирование и начисления. Каждый поток ведет
// пользователя по состояниям сессии; диспетчеризация по состояниям —
// в internal/handlers.
package flows

import (
	"context"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Aquagrim/internal/config"
	"Aquagrim/internal/constants"
	"Aquagrim/internal/kv"
	"Aquagrim/internal/models"
	"Aquagrim/internal/services"
	"Aquagrim/internal/telegram_api"
)

// Deps — зависимости потоков, внедряются из main.
type Deps struct {
	Store   *kv.Store
	Reports *services.ReportService
	Bot     telegram_api.Messenger
	Cfg     *config.Config
}

func (d *Deps) send(chatID int64, text string) {
	if _, err := d.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("flows: ошибка отправки сообщения для chatID %d: %v", chatID, err)
	}
}

func (d *Deps) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := d.Bot.Send(msg); err != nil {
		log.Printf("flows: ошибка отправки сообщения с клавиатурой для chatID %d: %v", chatID, err)
	}
}

func (d *Deps) sendError(chatID int64) {
	d.send(chatID, constants.GenericErrorMessage)
}

// updateSession — обновление сессии с логированием ошибки; потоки не
// прерываются из-за недоступности хранилища, но пользователь узнает о сбое.
func (d *Deps) updateSession(ctx context.Context, chatID int64, userID, state string, patch *models.SessionContext) bool {
	if _, err := d.Store.UpdateSession(ctx, chatID, userID, state, patch); err != nil {
		log.Printf("flows: ошибка обновления сессии для chatID %d: %v", chatID, err)
		d.sendError(chatID)
		return false
	}
	return true
}

// abortMissing завершает поток, когда ожидаемая сущность не найдена:
// сессия очищается, чтобы пользователь не застрял в мертвом состоянии.
func (d *Deps) abortMissing(ctx context.Context, chatID int64, text string) {
	if err := d.Store.ClearSession(ctx, chatID); err != nil {
		log.Printf("flows.abortMissing: ошибка очистки сессии для chatID %d: %v", chatID, err)
	}
	d.send(chatID, text)
}

// Cancel завершает любой активный поток и очищает сессию.
func (d *Deps) Cancel(ctx context.Context, chatID int64) {
	if err := d.Store.ClearSession(ctx, chatID); err != nil {
		log.Printf("flows.Cancel: ошибка очистки сессии для chatID %d: %v", chatID, err)
	}
	d.send(chatID, "Действие отменено.")
}
