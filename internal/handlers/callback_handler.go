package handlers

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/models"
	"Aquagrim/internal/telegram_api"
)

// HandleCallbackQuery — входная точка для нажатий inline-кнопок.
// Данные коллбэка — "<префикс>" или "<префикс>_<id>"; более длинные
// префиксы проверяются раньше коротких.
func (bh *BotHandler) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	telegram_api.AnswerCallback(bh.Deps.Bot, callback.ID, "")

	username := ""
	if callback.From != nil {
		username = callback.From.UserName
	}
	user, ok := bh.ensureUser(ctx, chatID, username)
	if !ok {
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}

	session, err := bh.Deps.Store.GetSession(ctx, chatID)
	if err != nil {
		log.Printf("HandleCallbackQuery: ошибка получения сессии %d: %v", chatID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if session == nil {
		session = &models.Session{}
	}

	switch data {
	case constants.CALLBACK_CONFIRM_CANCEL:
		bh.Deps.Flows.Cancel(ctx, chatID)
		return
	case constants.CALLBACK_CANCEL_CANCEL:
		bh.send(chatID, "Продолжаем. Введите данные текущего шага.")
		return
	case constants.CALLBACK_EDIT_BY_LASTNAME:
		bh.Deps.Flows.EditByLastname(ctx, chatID, user)
		return
	case constants.CALLBACK_EDIT_BY_SITE:
		bh.Deps.Flows.EditBySite(ctx, chatID, user)
		return
	case constants.CALLBACK_BONUS_TYPE_PENALTY:
		bh.Deps.Flows.BonusTypeSelected(ctx, chatID, user, session, constants.BONUS_TYPE_PENALTY)
		return
	case constants.CALLBACK_BONUS_TYPE_SALARY:
		bh.Deps.Flows.BonusTypeSelected(ctx, chatID, user, session, constants.BONUS_TYPE_RESPONSIBLE_SALARY)
		return
	}

	if strings.HasPrefix(data, "admin_") {
		if !isAdmin(user) {
			bh.send(chatID, constants.AccessDeniedMessage)
			return
		}
		bh.handleAdminCallback(ctx, chatID, callback.Message.MessageID, user, session, data)
		return
	}

	switch {
	// "select_site_edit" длиннее "select_site" — порядок проверок важен
	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_EDIT_SITE+"_"):
		siteID := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_EDIT_SITE+"_")
		bh.Deps.Flows.EditSiteSelected(ctx, chatID, user, siteID)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_EVENING_SITE+"_"):
		siteID := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_EVENING_SITE+"_")
		bh.Deps.Flows.SelectEveningSite(ctx, chatID, user, siteID)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_SELECT_REPORT+"_"):
		reportID := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_SELECT_REPORT+"_")
		bh.Deps.Flows.OpenReportForEditing(ctx, chatID, user, reportID)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_SELECT_PERSON+"_"):
		index := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_SELECT_PERSON+"_")
		bh.Deps.Flows.EditPersonSelected(ctx, chatID, user, session, index)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_EDIT_FIELD+"_"):
		// edit_field_<key>__<report_id>
		payload := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_EDIT_FIELD+"_")
		parts := strings.SplitN(payload, "__", 2)
		if len(parts) != 2 {
			log.Printf("HandleCallbackQuery: некорректные данные коллбэка: %s", data)
			return
		}
		bh.Deps.Flows.SelectEditField(ctx, chatID, user, session, parts[0])

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_FINISH_EDIT+"_"):
		bh.Deps.Flows.FinishEditing(ctx, chatID, user, session)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_VIEW_LOGS+"_"):
		reportID := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_VIEW_LOGS+"_")
		bh.Deps.Flows.ShowReportLogs(ctx, chatID, reportID)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_BONUS_SITE+"_"):
		siteID := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_BONUS_SITE+"_")
		bh.Deps.Flows.BonusSiteSelected(ctx, chatID, user, siteID)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_BONUS_EMPLOYEE+"_"):
		reportID := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_BONUS_EMPLOYEE+"_")
		bh.Deps.Flows.BonusEmployeeSelected(ctx, chatID, user, session, reportID)

	default:
		log.Printf("HandleCallbackQuery: неизвестные данные коллбэка: %s", data)
	}
}
