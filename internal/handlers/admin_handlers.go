package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/documents"
	"Aquagrim/internal/finance"
	"Aquagrim/internal/models"
	"Aquagrim/internal/telegram_api"
	"Aquagrim/internal/utils"
)

// ShowAdminPanel показывает меню администратора. Управление составом
// администраторов доступно только суперадмину.
func (bh *BotHandler) ShowAdminPanel(ctx context.Context, chatID int64) {
	user, err := bh.Deps.Store.GetUserByTelegramID(ctx, chatID)
	if err != nil || user == nil {
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("🏠 Площадки за сегодня", constants.CALLBACK_ADMIN_VIEW_SITES)},
		{tgbotapi.NewInlineKeyboardButtonData("📄 Сводка PDF", constants.CALLBACK_ADMIN_GET_PDF)},
		{tgbotapi.NewInlineKeyboardButtonData("📊 Сводка XLSX", constants.CALLBACK_ADMIN_GET_XLSX)},
		{tgbotapi.NewInlineKeyboardButtonData("📜 История изменений", constants.CALLBACK_ADMIN_VIEW_LOGS)},
		{tgbotapi.NewInlineKeyboardButtonData("🪪 QR-визитка площадки", constants.CALLBACK_ADMIN_QR_CARD)},
	}
	if user.Role == constants.ROLE_SUPERADMIN {
		rows = append(rows,
			[]tgbotapi.InlineKeyboardButton{tgbotapi.NewInlineKeyboardButtonData("➕ Добавить администратора", constants.CALLBACK_ADMIN_ADD_ADMIN)},
			[]tgbotapi.InlineKeyboardButton{tgbotapi.NewInlineKeyboardButtonData("➖ Удалить администратора", constants.CALLBACK_ADMIN_REMOVE_ADMIN)},
		)
	}

	msg := tgbotapi.NewMessage(chatID, "🔧 Админ-панель. Выберите действие:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := bh.Deps.Bot.Send(msg); err != nil {
		log.Printf("ShowAdminPanel: ошибка отправки меню для chatID %d: %v", chatID, err)
	}
}

func (bh *BotHandler) handleAdminCallback(ctx context.Context, chatID int64, messageID int, user *models.User, session *models.Session, data string) {
	switch data {
	case constants.CALLBACK_ADMIN_VIEW_SITES:
		bh.adminViewSites(ctx, chatID)
		return
	case constants.CALLBACK_ADMIN_GET_PDF:
		bh.adminOfferSites(ctx, chatID, messageID, constants.CALLBACK_PREFIX_ADMIN_PDF_SITE, "Сводку по какой площадке сформировать?")
		return
	case constants.CALLBACK_ADMIN_GET_XLSX:
		bh.adminOfferSites(ctx, chatID, messageID, constants.CALLBACK_PREFIX_ADMIN_XLSX_SITE, "Таблицу по какой площадке сформировать?")
		return
	case constants.CALLBACK_ADMIN_VIEW_LOGS:
		bh.adminOfferSites(ctx, chatID, messageID, constants.CALLBACK_PREFIX_ADMIN_LOGS_SITE, "По какой площадке показать историю?")
		return
	case constants.CALLBACK_ADMIN_QR_CARD:
		bh.adminOfferSites(ctx, chatID, messageID, constants.CALLBACK_PREFIX_ADMIN_QR_SITE, "Для какой площадки сделать QR-визитку?")
		return
	case constants.CALLBACK_ADMIN_ADD_ADMIN, constants.CALLBACK_ADMIN_REMOVE_ADMIN:
		if user.Role != constants.ROLE_SUPERADMIN {
			bh.send(chatID, constants.AccessDeniedMessage)
			return
		}
		state := constants.STATE_ADMIN_ADD_ADMIN
		prompt := "Введите Telegram ID пользователя, которого нужно сделать администратором:"
		removeMode := false
		if data == constants.CALLBACK_ADMIN_REMOVE_ADMIN {
			state = constants.STATE_ADMIN_REMOVE_ADMIN
			prompt = "Введите Telegram ID администратора, которого нужно разжаловать:"
			removeMode = true
		}
		if _, err := bh.Deps.Store.UpdateSession(ctx, chatID, user.ID, state, &models.SessionContext{
			Flow:  constants.FLOW_ADMIN,
			Admin: &models.AdminContext{WaitingForUserID: true, RemoveMode: removeMode},
		}); err != nil {
			log.Printf("handleAdminCallback: ошибка обновления сессии %d: %v", chatID, err)
			bh.send(chatID, constants.GenericErrorMessage)
			return
		}
		bh.send(chatID, prompt)
		return
	}

	switch {
	// "admin_pdf_site" и прочие префиксы площадок
	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_ADMIN_PDF_SITE+"_"):
		bh.adminSendPDF(ctx, chatID, user, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_ADMIN_PDF_SITE+"_"))
	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_ADMIN_XLSX_SITE+"_"):
		bh.adminSendXLSX(ctx, chatID, user, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_ADMIN_XLSX_SITE+"_"))
	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_ADMIN_LOGS_SITE+"_"):
		bh.adminOfferReportsForLogs(ctx, chatID, messageID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_ADMIN_LOGS_SITE+"_"))
	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_ADMIN_LOGS_REPORT+"_"):
		bh.Deps.Flows.ShowReportLogs(ctx, chatID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_ADMIN_LOGS_REPORT+"_"))
	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_ADMIN_QR_SITE+"_"):
		bh.adminSendQRCard(ctx, chatID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_ADMIN_QR_SITE+"_"))
	default:
		log.Printf("handleAdminCallback: неизвестные данные коллбэка: %s", data)
	}
}

func (bh *BotHandler) adminViewSites(ctx context.Context, chatID int64) {
	sites, err := bh.Deps.Store.GetSitesByDate(ctx, utils.MoscowDate())
	if err != nil {
		log.Printf("adminViewSites: ошибка получения площадок: %v", err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if len(sites) == 0 {
		bh.send(chatID, "На сегодня нет заполненных площадок.")
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏠 Площадки за %s:\n", utils.FormatDateShort(utils.MoscowDate())))
	for _, site := range sites {
		reports, err := bh.Deps.Store.GetReportsBySite(ctx, site.ID, site.Date)
		if err != nil {
			log.Printf("adminViewSites: ошибка получения отчетов площадки %s: %v", site.ID, err)
			continue
		}
		var revenue int64
		for _, r := range reports {
			revenue += r.TotalRevenue
		}
		b.WriteString(fmt.Sprintf("\n• %s — %s %s, отчетов: %d, выручка: %s, статус: %s",
			site.Name, site.ResponsibleLastname, site.ResponsibleFirstname,
			len(reports), finance.FormatAmount(revenue), site.Status))
	}
	bh.send(chatID, b.String())
}

// adminOfferSites показывает выбор площадки, редактируя сообщение
// админ-панели на месте: навигация по inline-кнопкам не плодит
// новые сообщения в чате.
func (bh *BotHandler) adminOfferSites(ctx context.Context, chatID int64, messageID int, callbackPrefix, prompt string) {
	sites, err := bh.Deps.Store.GetSitesByDate(ctx, utils.MoscowDate())
	if err != nil {
		log.Printf("adminOfferSites: ошибка получения площадок: %v", err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if len(sites) == 0 {
		bh.send(chatID, "На сегодня нет заполненных площадок.")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(sites))
	for _, site := range sites {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(site.Name, callbackPrefix+"_"+site.ID),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := telegram_api.SendOrEditMessage(bh.Deps.Bot, chatID, messageID, prompt, &keyboard); err != nil {
		log.Printf("adminOfferSites: ошибка отправки для chatID %d: %v", chatID, err)
	}
}

// siteWithFreshBonuses загружает площадку и отчеты, предварительно
// переназначив бонус за лучшую выручку: сводки всегда фиксируют
// актуального победителя.
func (bh *BotHandler) siteWithFreshBonuses(ctx context.Context, user *models.User, siteID string) (*models.Site, []*models.DailyReport, error) {
	site, err := bh.Deps.Store.GetSiteByID(ctx, siteID)
	if err != nil {
		return nil, nil, err
	}
	if site == nil {
		return nil, nil, fmt.Errorf("площадка %s не найдена", siteID)
	}
	if err := bh.Deps.Reports.ReassignBestRevenueBonus(ctx, user.ID, siteID, site.Date); err != nil {
		return nil, nil, err
	}
	reports, err := bh.Deps.Store.GetReportsBySite(ctx, siteID, site.Date)
	if err != nil {
		return nil, nil, err
	}
	return site, reports, nil
}

func (bh *BotHandler) adminSendPDF(ctx context.Context, chatID int64, user *models.User, siteID string) {
	site, reports, err := bh.siteWithFreshBonuses(ctx, user, siteID)
	if err != nil {
		log.Printf("adminSendPDF: %v", err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if len(reports) == 0 {
		bh.send(chatID, "По этой площадке еще нет отчетов.")
		return
	}

	data, err := bh.Deps.Documents.SiteSummaryPDF(site, reports)
	if err != nil {
		log.Printf("adminSendPDF: ошибка генерации PDF для площадки %s: %v", siteID, err)
		bh.send(chatID, "Не удалось сформировать PDF. Проверьте наличие шрифтов на сервере.")
		return
	}

	name := fmt.Sprintf("svodka_%s_%s.pdf", site.Date, uuid.NewString()[:8])
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = fmt.Sprintf("Сводка: %s, %s", site.Name, utils.FormatDateShort(site.Date))
	if _, err := bh.Deps.Bot.Send(doc); err != nil {
		log.Printf("adminSendPDF: ошибка отправки документа для chatID %d: %v", chatID, err)
		return
	}
	if _, err := bh.Deps.Store.CreateLog(ctx, user.ID, constants.LOG_PDF_GENERATED, nil,
		map[string]any{"site_id": siteID, "date": site.Date}, ""); err != nil {
		log.Printf("adminSendPDF: ошибка записи лога: %v", err)
	}
}

func (bh *BotHandler) adminSendXLSX(ctx context.Context, chatID int64, user *models.User, siteID string) {
	site, reports, err := bh.siteWithFreshBonuses(ctx, user, siteID)
	if err != nil {
		log.Printf("adminSendXLSX: %v", err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if len(reports) == 0 {
		bh.send(chatID, "По этой площадке еще нет отчетов.")
		return
	}

	data, err := bh.Deps.Documents.SiteSummaryXLSX(site, reports)
	if err != nil {
		log.Printf("adminSendXLSX: ошибка генерации XLSX для площадки %s: %v", siteID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}

	name := fmt.Sprintf("svodka_%s_%s.xlsx", site.Date, uuid.NewString()[:8])
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = fmt.Sprintf("Таблица: %s, %s", site.Name, utils.FormatDateShort(site.Date))
	if _, err := bh.Deps.Bot.Send(doc); err != nil {
		log.Printf("adminSendXLSX: ошибка отправки документа для chatID %d: %v", chatID, err)
		return
	}
	if _, err := bh.Deps.Store.CreateLog(ctx, user.ID, constants.LOG_XLSX_GENERATED, nil,
		map[string]any{"site_id": siteID, "date": site.Date}, ""); err != nil {
		log.Printf("adminSendXLSX: ошибка записи лога: %v", err)
	}
}

func (bh *BotHandler) adminOfferReportsForLogs(ctx context.Context, chatID int64, messageID int, siteID string) {
	site, err := bh.Deps.Store.GetSiteByID(ctx, siteID)
	if err != nil || site == nil {
		log.Printf("adminOfferReportsForLogs: площадка %s не найдена: %v", siteID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	reports, err := bh.Deps.Store.GetReportsBySite(ctx, siteID, site.Date)
	if err != nil {
		log.Printf("adminOfferReportsForLogs: ошибка получения отчетов: %v", err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if len(reports) == 0 {
		bh.send(chatID, "По этой площадке еще нет отчетов.")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(report.FullName(), constants.CALLBACK_PREFIX_ADMIN_LOGS_REPORT+"_"+report.ID),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := telegram_api.SendOrEditMessage(bh.Deps.Bot, chatID, messageID, "Историю какого отчета показать?", &keyboard); err != nil {
		log.Printf("adminOfferReportsForLogs: ошибка отправки для chatID %d: %v", chatID, err)
	}
}

func (bh *BotHandler) adminSendQRCard(ctx context.Context, chatID int64, siteID string) {
	site, err := bh.Deps.Store.GetSiteByID(ctx, siteID)
	if err != nil || site == nil {
		log.Printf("adminSendQRCard: площадка %s не найдена: %v", siteID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	png, err := documents.SiteQRCard(site)
	if err != nil {
		log.Printf("adminSendQRCard: ошибка генерации QR для площадки %s: %v", siteID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "qr_" + site.ID + ".png", Bytes: png})
	photo.Caption = fmt.Sprintf("QR-визитка: %s", site.Name)
	if _, err := bh.Deps.Bot.Send(photo); err != nil {
		log.Printf("adminSendQRCard: ошибка отправки фото для chatID %d: %v", chatID, err)
	}
}

// HandleAdminIDInput обрабатывает ввод Telegram ID в подпотоках назначения
// и снятия администраторов (только суперадмин).
func (bh *BotHandler) HandleAdminIDInput(ctx context.Context, chatID int64, actor *models.User, session *models.Session, text string) {
	if actor.Role != constants.ROLE_SUPERADMIN {
		bh.send(chatID, constants.AccessDeniedMessage)
		return
	}

	telegramID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || telegramID <= 0 {
		bh.send(chatID, "❌ Введите числовой Telegram ID, например: 123456789")
		return
	}

	target, err := bh.Deps.Store.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		log.Printf("HandleAdminIDInput: ошибка поиска пользователя %d: %v", telegramID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}
	if target == nil {
		bh.send(chatID, "Пользователь с таким Telegram ID еще не запускал бота.")
		return
	}

	remove := session.State == constants.STATE_ADMIN_REMOVE_ADMIN
	if remove {
		if target.Role == constants.ROLE_SUPERADMIN {
			bh.send(chatID, "❌ Суперадмина разжаловать нельзя.")
			return
		}
		if target.Role != constants.ROLE_ADMIN {
			bh.send(chatID, "Этот пользователь и так не администратор.")
			return
		}
		target.Role = constants.ROLE_USER
	} else {
		if target.Role != constants.ROLE_USER {
			bh.send(chatID, "Этот пользователь уже администратор.")
			return
		}
		target.Role = constants.ROLE_ADMIN
	}

	if err := bh.Deps.Store.UpdateUser(ctx, target); err != nil {
		log.Printf("HandleAdminIDInput: ошибка обновления пользователя %s: %v", target.ID, err)
		bh.send(chatID, constants.GenericErrorMessage)
		return
	}

	action := constants.LOG_ADMIN_ADDED
	result := fmt.Sprintf("✅ Пользователь %d назначен администратором.", telegramID)
	if remove {
		action = constants.LOG_ADMIN_REMOVED
		result = fmt.Sprintf("✅ Пользователь %d разжалован до обычного пользователя.", telegramID)
	}
	if _, err := bh.Deps.Store.CreateLog(ctx, actor.ID, action, nil,
		map[string]any{"target_user_id": target.ID, "target_telegram_id": telegramID}, ""); err != nil {
		log.Printf("HandleAdminIDInput: ошибка записи лога: %v", err)
	}
	if err := bh.Deps.Store.ClearSession(ctx, chatID); err != nil {
		log.Printf("HandleAdminIDInput: ошибка очистки сессии: %v", err)
	}
	bh.send(chatID, result)
}
