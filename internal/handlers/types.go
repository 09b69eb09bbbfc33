package handlers

import (
	"context"
	"log"

	"Aquagrim/internal/config"
	"Aquagrim/internal/constants"
	"Aquagrim/internal/documents"
	"Aquagrim/internal/flows"
	"Aquagrim/internal/kv"
	"Aquagrim/internal/models"
	"Aquagrim/internal/services"
	"Aquagrim/internal/telegram_api"
)

// HandlerDependencies содержит все зависимости, необходимые для обработчиков.
type HandlerDependencies struct {
	Config    *config.Config
	Bot       telegram_api.Messenger
	Store     *kv.Store
	Reports   *services.ReportService
	Documents *documents.Generator
	Flows     *flows.Deps
}

// BotHandler инкапсулирует логику обработки сообщений и коллбэков.
type BotHandler struct {
	Deps HandlerDependencies
}

// NewBotHandler создает новый экземпляр BotHandler.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.Bot == nil || deps.Store == nil || deps.Reports == nil || deps.Flows == nil {
		panic("Не все зависимости для BotHandler были предоставлены.")
	}
	return &BotHandler{Deps: deps}
}

// ensureUser возвращает пользователя по Telegram ID, при первом обращении
// регистрируя его. Суперадмины из конфигурации получают роль сразу.
func (bh *BotHandler) ensureUser(ctx context.Context, telegramID int64, username string) (*models.User, bool) {
	user, err := bh.Deps.Store.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		log.Printf("ensureUser: ошибка получения пользователя %d: %v", telegramID, err)
		return nil, false
	}
	if user != nil {
		return user, true
	}

	role := constants.ROLE_USER
	if bh.Deps.Config.IsSuperadmin(telegramID) {
		role = constants.ROLE_SUPERADMIN
	}
	user, err = bh.Deps.Store.CreateUser(ctx, telegramID, username, role)
	if err != nil {
		log.Printf("ensureUser: ошибка регистрации пользователя %d: %v", telegramID, err)
		return nil, false
	}
	if _, err := bh.Deps.Store.CreateLog(ctx, user.ID, constants.LOG_USER_CREATED, nil,
		map[string]any{"telegram_id": telegramID, "role": role}, ""); err != nil {
		log.Printf("ensureUser: ошибка записи лога: %v", err)
	}
	log.Printf("ensureUser: зарегистрирован новый пользователь %d (роль %s)", telegramID, role)
	return user, true
}

func isAdmin(user *models.User) bool {
	return user.IsAdmin()
}
