package flows

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/finance"
	"Aquagrim/internal/models"
	"Aquagrim/internal/services"
	"Aquagrim/internal/utils"
)

// Порядок шагов вечернего отчета; по нему же работает кнопка "Назад".
var eveningStates = []string{
	constants.STATE_EVENING_FILL_LASTNAME,
	constants.STATE_EVENING_FILL_FIRSTNAME,
	constants.STATE_EVENING_FILL_QR_NUMBER,
	constants.STATE_EVENING_FILL_QR_AMOUNT,
	constants.STATE_EVENING_FILL_CASH_AMOUNT,
	constants.STATE_EVENING_FILL_TERMINAL_AMOUNT,
	constants.STATE_EVENING_FILL_COMMENT,
	constants.STATE_EVENING_FILL_CONFIRM,
}

// StartEveningFill запускает вечерний отчет: выбор площадки из заполненных
// сегодня. Единственная видимая площадка выбирается автоматически.
func (d *Deps) StartEveningFill(ctx context.Context, chatID int64, user *models.User, isAdmin bool) {
	sites, err := d.Store.GetSitesByDateForUser(ctx, utils.MoscowDate(), user.ID, isAdmin)
	if err != nil {
		log.Printf("StartEveningFill: ошибка получения площадок: %v", err)
		d.sendError(chatID)
		return
	}
	if len(sites) == 0 {
		d.send(chatID, "На сегодня нет заполненных площадок. Сначала заполните площадку утром.")
		return
	}
	if len(sites) == 1 {
		d.SelectEveningSite(ctx, chatID, user, sites[0].ID)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(sites))
	for _, site := range sites {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(site.Name, constants.CALLBACK_PREFIX_EVENING_SITE+"_"+site.ID),
		))
	}
	if !d.updateSession(ctx, chatID, user.ID, constants.STATE_EVENING_FILL_SELECT_SITE, &models.SessionContext{
		Flow:    constants.FLOW_EVENING,
		Evening: &models.EveningFillContext{},
	}) {
		return
	}
	d.sendWithKeyboard(chatID, "Выберите площадку:", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// SelectEveningSite фиксирует площадку и открывает ввод первого шага.
// Первый отчет площадки — отчет ответственного: фамилия и имя
// предзаполняются из утренних данных.
func (d *Deps) SelectEveningSite(ctx context.Context, chatID int64, user *models.User, siteID string) {
	site, err := d.Store.GetSiteByID(ctx, siteID)
	if err != nil {
		log.Printf("SelectEveningSite: ошибка получения площадки %s: %v", siteID, err)
		d.sendError(chatID)
		return
	}
	if site == nil {
		d.abortMissing(ctx, chatID, "Площадка не найдена. Начните заполнение заново.")
		return
	}

	reports, err := d.Store.GetReportsBySite(ctx, siteID, site.Date)
	if err != nil {
		log.Printf("SelectEveningSite: ошибка получения отчетов: %v", err)
		d.sendError(chatID)
		return
	}

	ec := &models.EveningFillContext{SiteID: siteID}
	firstState := constants.STATE_EVENING_FILL_LASTNAME
	if len(reports) == 0 {
		// Первый отчет — отчет ответственного: имя известно из утренних
		// данных, шаги ввода имени пропускаются целиком.
		ec.Lastname = site.ResponsibleLastname
		ec.Firstname = site.ResponsibleFirstname
		ec.IsResponsible = true
		firstState = constants.STATE_EVENING_FILL_QR_NUMBER
	}

	if _, err := d.Store.CreateLog(ctx, user.ID, constants.LOG_EVENING_FILL_STARTED, nil,
		map[string]any{"site_id": siteID}, ""); err != nil {
		log.Printf("SelectEveningSite: ошибка записи лога: %v", err)
	}

	if d.updateSession(ctx, chatID, user.ID, firstState, &models.SessionContext{
		Flow:    constants.FLOW_EVENING,
		Evening: ec,
	}) {
		if ec.IsResponsible {
			d.send(chatID, fmt.Sprintf("Отчет ответственного: %s %s", ec.Lastname, ec.Firstname))
		}
		d.promptEveningStep(ctx, chatID, firstState, ec)
	}
}

func (d *Deps) promptEveningStep(ctx context.Context, chatID int64, state string, ec *models.EveningFillContext) {
	var prompt string
	switch state {
	case constants.STATE_EVENING_FILL_LASTNAME:
		prompt = "Введите фамилию сотрудника:"
		if ec.Lastname != "" {
			prompt += fmt.Sprintf("\nТекущее значение: %s (⏭️ Далее — оставить)", ec.Lastname)
		}
	case constants.STATE_EVENING_FILL_FIRSTNAME:
		prompt = "Введите имя сотрудника:"
		if ec.Firstname != "" {
			prompt += fmt.Sprintf("\nТекущее значение: %s (⏭️ Далее — оставить)", ec.Firstname)
		}
	case constants.STATE_EVENING_FILL_QR_NUMBER:
		prompt = "Введите номер QR:"
	case constants.STATE_EVENING_FILL_QR_AMOUNT:
		prompt = "Введите сумму по QR:"
	case constants.STATE_EVENING_FILL_CASH_AMOUNT:
		prompt = "Введите сумму наличных:"
	case constants.STATE_EVENING_FILL_TERMINAL_AMOUNT:
		prompt = "Введите сумму по терминалу или нажмите ⏭️ Далее, если терминала не было:"
	case constants.STATE_EVENING_FILL_COMMENT:
		prompt = "Введите комментарий или нажмите ⏭️ Далее:"
	case constants.STATE_EVENING_FILL_CONFIRM:
		d.sendEveningSummary(ctx, chatID, ec)
		return
	}
	d.send(chatID, prompt)
}

// sendEveningSummary — предпросмотр отчета перед подтверждением: введенные
// значения плюс расчет по текущему контексту. Зарплата ответственного и
// бонус за лучшую выручку на этом этапе еще не известны и считаются нулями.
func (d *Deps) sendEveningSummary(ctx context.Context, chatID int64, ec *models.EveningFillContext) {
	var qr, cash, terminal int64
	if ec.QRAmount != nil {
		qr = *ec.QRAmount
	}
	if ec.CashAmount != nil {
		cash = *ec.CashAmount
	}
	if ec.TerminalAmount != nil {
		terminal = *ec.TerminalAmount
	}

	site, err := d.Store.GetSiteByID(ctx, ec.SiteID)
	if err != nil {
		log.Printf("sendEveningSummary: ошибка получения площадки %s: %v", ec.SiteID, err)
	}
	preview := &models.DailyReport{
		QRAmount:       qr,
		CashAmount:     cash,
		TerminalAmount: ec.TerminalAmount,
	}
	services.Recalculate(preview, site)

	summary := fmt.Sprintf(
		"Проверьте данные отчета:\n\n👤 Сотрудник: %s %s\n🔢 Номер QR: %s\n📱 Сумма QR: %s\n💵 Наличные: %s\n💳 Терминал: %s\n💬 Комментарий: %s\n\n💰 Выручка: %s\n💵 Зарплата: %s\n🎯 Бонус за планки: %s\n📊 Итого за день: %s\n✉️ Нал в конверте: %s\n\n✅ Ок — сохранить, ⬅️ Назад — исправить, ❌ Отмена — прервать",
		ec.Lastname, ec.Firstname,
		orDash(ec.QRNumber),
		finance.FormatAmount(qr),
		finance.FormatAmount(cash),
		finance.FormatAmount(terminal),
		orDash(ec.Comment),
		finance.FormatAmount(preview.TotalRevenue),
		finance.FormatAmount(preview.Salary),
		finance.FormatAmount(preview.BonusByTargets),
		finance.FormatAmount(preview.TotalDaily),
		finance.FormatAmount(preview.CashInEnvelope),
	)
	d.send(chatID, summary)
}

// HandleEveningText обрабатывает текстовый ввод шагов вечернего отчета.
func (d *Deps) HandleEveningText(ctx context.Context, chatID int64, user *models.User, session *models.Session, text string, skip bool) {
	ec := session.Context.Evening
	if ec == nil {
		d.send(chatID, constants.NoActiveFlowMessage)
		return
	}

	advance := func(next string) {
		if d.updateSession(ctx, chatID, user.ID, next, &models.SessionContext{Evening: ec}) {
			d.promptEveningStep(ctx, chatID, next, ec)
		}
	}

	switch session.State {
	case constants.STATE_EVENING_FILL_SELECT_SITE:
		d.send(chatID, "Выберите площадку кнопкой выше.")

	case constants.STATE_EVENING_FILL_LASTNAME:
		if skip && ec.Lastname != "" {
			advance(constants.STATE_EVENING_FILL_FIRSTNAME)
			return
		}
		if text == "" {
			d.send(chatID, "Фамилия не может быть пустой. Введите фамилию сотрудника:")
			return
		}
		ec.Lastname = text
		advance(constants.STATE_EVENING_FILL_FIRSTNAME)

	case constants.STATE_EVENING_FILL_FIRSTNAME:
		if skip && ec.Firstname != "" {
			advance(constants.STATE_EVENING_FILL_QR_NUMBER)
			return
		}
		if text == "" {
			d.send(chatID, "Имя не может быть пустым. Введите имя сотрудника:")
			return
		}
		ec.Firstname = text
		advance(constants.STATE_EVENING_FILL_QR_NUMBER)

	case constants.STATE_EVENING_FILL_QR_NUMBER:
		if skip {
			d.send(chatID, "Это обязательный шаг. Введите номер QR:")
			return
		}
		if text == "" {
			d.send(chatID, "Введите номер QR:")
			return
		}
		ec.QRNumber = text
		advance(constants.STATE_EVENING_FILL_QR_AMOUNT)

	case constants.STATE_EVENING_FILL_QR_AMOUNT:
		amount, err := finance.ParseAmount(text)
		if err != nil {
			d.send(chatID, constants.InvalidAmountMessage)
			return
		}
		ec.QRAmount = &amount
		advance(constants.STATE_EVENING_FILL_CASH_AMOUNT)

	case constants.STATE_EVENING_FILL_CASH_AMOUNT:
		amount, err := finance.ParseAmount(text)
		if err != nil {
			d.send(chatID, constants.InvalidAmountMessage)
			return
		}
		ec.CashAmount = &amount
		advance(constants.STATE_EVENING_FILL_TERMINAL_AMOUNT)

	case constants.STATE_EVENING_FILL_TERMINAL_AMOUNT:
		if !skip {
			amount, err := finance.ParseAmount(text)
			if err != nil {
				d.send(chatID, constants.InvalidAmountMessage)
				return
			}
			ec.TerminalAmount = &amount
		}
		advance(constants.STATE_EVENING_FILL_COMMENT)

	case constants.STATE_EVENING_FILL_COMMENT:
		if !skip {
			ec.Comment = text
		}
		advance(constants.STATE_EVENING_FILL_CONFIRM)

	case constants.STATE_EVENING_FILL_CONFIRM:
		if text == constants.BTN_OK {
			d.ConfirmEveningReport(ctx, chatID, user, ec)
			return
		}
		d.sendEveningSummary(ctx, chatID, ec)

	case constants.STATE_EVENING_FILL_DONE:
		if strings.TrimSpace(text) == "" {
			d.send(chatID, "Введите фамилию следующего сотрудника или нажмите ❌ Отмена для завершения.")
			return
		}
		next := &models.EveningFillContext{SiteID: ec.SiteID, Lastname: strings.TrimSpace(text)}
		if d.updateSession(ctx, chatID, user.ID, constants.STATE_EVENING_FILL_FIRSTNAME, &models.SessionContext{
			Flow:    constants.FLOW_EVENING,
			Evening: next,
		}) {
			d.promptEveningStep(ctx, chatID, constants.STATE_EVENING_FILL_FIRSTNAME, next)
		}

	default:
		d.send(chatID, constants.NoActiveFlowMessage)
	}
}

// EveningBack возвращает на предыдущий шаг вечернего отчета.
func (d *Deps) EveningBack(ctx context.Context, chatID int64, user *models.User, session *models.Session) {
	ec := session.Context.Evening
	if ec == nil {
		d.send(chatID, constants.NoActiveFlowMessage)
		return
	}
	idx := -1
	for i, s := range eveningStates {
		if s == session.State {
			idx = i
			break
		}
	}
	if idx <= 0 {
		d.send(chatID, "Это первый шаг, назад некуда. ❌ Отмена — прервать заполнение.")
		return
	}
	prev := eveningStates[idx-1]
	if d.updateSession(ctx, chatID, user.ID, prev, &models.SessionContext{Evening: ec}) {
		d.promptEveningStep(ctx, chatID, prev, ec)
	}
}

// ConfirmEveningReport сохраняет отчет: расчет производных полей, запись,
// смена статуса площадки и переход в состояние "площадка запомнена".
func (d *Deps) ConfirmEveningReport(ctx context.Context, chatID int64, user *models.User, ec *models.EveningFillContext) {
	site, err := d.Store.GetSiteByID(ctx, ec.SiteID)
	if err != nil {
		log.Printf("ConfirmEveningReport: ошибка получения площадки %s: %v", ec.SiteID, err)
		d.sendError(chatID)
		return
	}
	if site == nil {
		d.abortMissing(ctx, chatID, "Площадка не найдена. Начните заполнение заново.")
		return
	}

	report := &models.DailyReport{
		SiteID:         ec.SiteID,
		Date:           site.Date,
		Lastname:       ec.Lastname,
		Firstname:      ec.Firstname,
		QRNumber:       ec.QRNumber,
		TerminalAmount: ec.TerminalAmount,
		Comment:        ec.Comment,
		IsResponsible:  ec.IsResponsible,
	}
	if ec.QRAmount != nil {
		report.QRAmount = *ec.QRAmount
	}
	if ec.CashAmount != nil {
		report.CashAmount = *ec.CashAmount
	}
	services.Recalculate(report, site)

	report, err = d.Store.CreateReport(ctx, report)
	if err != nil {
		log.Printf("ConfirmEveningReport: ошибка сохранения отчета: %v", err)
		d.sendError(chatID)
		return
	}

	if site.Status == constants.SITE_STATUS_MORNING_FILLED {
		site.Status = constants.SITE_STATUS_EVENING_FILLED
		if err := d.Store.UpdateSite(ctx, site); err != nil {
			log.Printf("ConfirmEveningReport: ошибка обновления статуса площадки %s: %v", site.ID, err)
		}
	}

	if _, err := d.Store.CreateLog(ctx, user.ID, constants.LOG_EVENING_FILL_COMPLETED, nil,
		map[string]any{"report_id": report.ID, "site_id": site.ID, "total_revenue": report.TotalRevenue}, report.ID); err != nil {
		log.Printf("ConfirmEveningReport: ошибка записи лога: %v", err)
	}

	// Площадка остается в контексте: следующий сотрудник вводится сразу.
	if !d.updateSession(ctx, chatID, user.ID, constants.STATE_EVENING_FILL_DONE, &models.SessionContext{
		Flow:    constants.FLOW_EVENING,
		Evening: &models.EveningFillContext{SiteID: ec.SiteID},
	}) {
		return
	}

	d.send(chatID, fmt.Sprintf(
		"✅ Отчет сохранен!\n\n👤 %s %s\n💰 Выручка: %s\n💵 Зарплата: %s\n🎯 Бонус за планки: %s\n✉️ Нал в конверте: %s\n\nВведите фамилию следующего сотрудника или нажмите ❌ Отмена для завершения.",
		report.Lastname, report.Firstname,
		finance.FormatAmount(report.TotalRevenue),
		finance.FormatAmount(report.Salary),
		finance.FormatAmount(report.BonusByTargets),
		finance.FormatAmount(report.CashInEnvelope),
	))
}
