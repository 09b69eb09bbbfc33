package handlers

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/models"
)

// HandleMessage — входная точка для текстовых сообщений. Глобальные кнопки
// и команды обрабатываются до диспетчеризации по состоянию сессии.
func (bh *BotHandler) HandleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	user, ok := bh.ensureUser(ctx, chatID, username)
	if !ok {
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}

	switch text {
	case "/start":
		bh.sendMainMenu(chatID, user, "Добро пожаловать! Выберите действие:")
		return
	case "/help", constants.BTN_HELP:
		bh.sendHelp(chatID, user)
		return
	case constants.BTN_CANCEL:
		bh.offerCancel(ctx, chatID)
		return
	case constants.BTN_MORNING_FILL:
		bh.Deps.Flows.StartMorningFill(ctx, chatID, user)
		return
	case constants.BTN_EVENING_FILL:
		bh.Deps.Flows.StartEveningFill(ctx, chatID, user, isAdmin(user))
		return
	case constants.BTN_EDIT:
		bh.Deps.Flows.StartEditFlow(ctx, chatID, user)
		return
	case constants.BTN_BONUS:
		if !isAdmin(user) {
			bh.send(chatID, constants.AccessDeniedMessage)
			return
		}
		bh.Deps.Flows.StartBonusFlow(ctx, chatID, user)
		return
	case constants.BTN_ADMIN_PANEL:
		if !isAdmin(user) {
			bh.send(chatID, constants.AccessDeniedMessage)
			return
		}
		bh.ShowAdminPanel(ctx, chatID)
		return
	}

	session, err := bh.Deps.Store.GetSession(ctx, chatID)
	if err != nil {
		log.Printf("HandleMessage: ошибка получения сессии %d: %v", chatID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if session == nil {
		bh.sendMainMenu(chatID, user, constants.NoActiveFlowMessage+". Выберите действие:")
		return
	}

	skip := text == constants.BTN_NEXT
	if text == constants.BTN_BACK {
		if session.Context.Flow == constants.FLOW_EVENING {
			bh.Deps.Flows.EveningBack(ctx, chatID, user, session)
		} else {
			bh.send(chatID, "Кнопка «Назад» доступна только при заполнении вечернего отчета.")
		}
		return
	}

	bh.dispatchByState(ctx, chatID, user, session, text, skip)
}

func (bh *BotHandler) dispatchByState(ctx context.Context, chatID int64, user *models.User, session *models.Session, text string, skip bool) {
	switch session.State {
	case constants.STATE_MORNING_FILL_SITE_NAME,
		constants.STATE_MORNING_FILL_BONUS_TARGETS,
		constants.STATE_MORNING_FILL_RESP_LASTNAME,
		constants.STATE_MORNING_FILL_RESP_FIRSTNAME,
		constants.STATE_MORNING_FILL_PHONE:
		bh.Deps.Flows.HandleMorningText(ctx, chatID, user, session, text, skip)

	case constants.STATE_EVENING_FILL_SELECT_SITE,
		constants.STATE_EVENING_FILL_LASTNAME,
		constants.STATE_EVENING_FILL_FIRSTNAME,
		constants.STATE_EVENING_FILL_QR_NUMBER,
		constants.STATE_EVENING_FILL_QR_AMOUNT,
		constants.STATE_EVENING_FILL_CASH_AMOUNT,
		constants.STATE_EVENING_FILL_TERMINAL_AMOUNT,
		constants.STATE_EVENING_FILL_COMMENT,
		constants.STATE_EVENING_FILL_CONFIRM,
		constants.STATE_EVENING_FILL_DONE:
		bh.Deps.Flows.HandleEveningText(ctx, chatID, user, session, text, skip)

	case constants.STATE_EDIT_ENTER_LASTNAME:
		bh.Deps.Flows.HandleEditLastnameInput(ctx, chatID, user, text)

	case constants.STATE_EDIT_MENU:
		bh.send(chatID, "Выберите параметр кнопкой в меню выше.")

	case constants.STATE_EDIT_FIELD:
		bh.Deps.Flows.HandleEditFieldInput(ctx, chatID, user, session, text)

	case constants.STATE_BONUS_SELECT_SITE, constants.STATE_BONUS_SELECT_EMPLOYEE, constants.STATE_BONUS_SELECT_TYPE:
		bh.send(chatID, "Выберите вариант кнопкой выше.")

	case constants.STATE_BONUS_INPUT_AMOUNT:
		bh.Deps.Flows.HandleBonusAmountInput(ctx, chatID, user, session, text)

	case constants.STATE_ADMIN_ADD_ADMIN, constants.STATE_ADMIN_REMOVE_ADMIN:
		bh.HandleAdminIDInput(ctx, chatID, user, session, text)

	default:
		bh.sendMainMenu(chatID, user, constants.NoActiveFlowMessage+". Выберите действие:")
	}
}

// offerCancel запрашивает подтверждение отмены активного потока.
func (bh *BotHandler) offerCancel(ctx context.Context, chatID int64) {
	session, err := bh.Deps.Store.GetSession(ctx, chatID)
	if err != nil {
		log.Printf("offerCancel: ошибка получения сессии %d: %v", chatID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if session == nil {
		bh.send(chatID, constants.NoActiveFlowMessage)
		return
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Да, отменить", constants.CALLBACK_CONFIRM_CANCEL),
			tgbotapi.NewInlineKeyboardButtonData("Нет, продолжить", constants.CALLBACK_CANCEL_CANCEL),
		),
	)
	msg := tgbotapi.NewMessage(chatID, "Отменить текущее действие? Введенные данные будут потеряны.")
	msg.ReplyMarkup = keyboard
	if _, err := bh.Deps.Bot.Send(msg); err != nil {
		log.Printf("offerCancel: ошибка отправки сообщения для chatID %d: %v", chatID, err)
	}
}

func (bh *BotHandler) send(chatID int64, text string) {
	if _, err := bh.Deps.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("handlers: ошибка отправки сообщения для chatID %d: %v", chatID, err)
	}
}

// sendMainMenu показывает постоянную клавиатуру главного меню (состав
// зависит от роли).
func (bh *BotHandler) sendMainMenu(chatID int64, user *models.User, text string) {
	rows := [][]tgbotapi.KeyboardButton{
		{tgbotapi.NewKeyboardButton(constants.BTN_MORNING_FILL)},
		{tgbotapi.NewKeyboardButton(constants.BTN_EVENING_FILL)},
		{tgbotapi.NewKeyboardButton(constants.BTN_EDIT)},
	}
	if isAdmin(user) {
		rows = append(rows,
			[]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(constants.BTN_BONUS)},
			[]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(constants.BTN_ADMIN_PANEL)},
		)
	}
	rows = append(rows, []tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButton(constants.BTN_NEXT),
		tgbotapi.NewKeyboardButton(constants.BTN_BACK),
	})
	rows = append(rows, []tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButton(constants.BTN_OK),
		tgbotapi.NewKeyboardButton(constants.BTN_CANCEL),
	})
	rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(constants.BTN_HELP)})

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := bh.Deps.Bot.Send(msg); err != nil {
		log.Printf("sendMainMenu: ошибка отправки меню для chatID %d: %v", chatID, err)
	}
}

func (bh *BotHandler) sendHelp(chatID int64, user *models.User) {
	var b strings.Builder
	b.WriteString("ℹ️ Помощь\n\n")
	b.WriteString("🌅 Заполнить площадку (утро) — название, бонусные планки, ответственный, телефон.\n")
	b.WriteString("🌆 Заполнить площадку (вечер) — отчеты сотрудников: QR, наличные, терминал.\n")
	b.WriteString("✏️ Редактировать данные — поиск отчета по фамилии или площадке, правка полей с пересчетом.\n")
	if isAdmin(user) {
		b.WriteString("💰 Начислить бонус/штраф — начисления сотрудникам, зарплата ответственного.\n")
		b.WriteString("🔧 Админ-панель — сводки PDF/XLSX, история изменений, управление администраторами.\n")
	}
	b.WriteString("\n⏭️ Далее — пропустить необязательный шаг.\n⬅️ Назад — вернуться на шаг назад.\n❌ Отмена — прервать текущее действие.")
	bh.send(chatID, b.String())
}
