package flows

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/finance"
	"Aquagrim/internal/models"
	"Aquagrim/internal/telegram_api"
	"Aquagrim/internal/utils"
)

// Закрытый набор редактируемых полей отчета в порядке отображения меню.
var editableFields = []string{
	constants.FIELD_LASTNAME,
	constants.FIELD_FIRSTNAME,
	constants.FIELD_QR_NUMBER,
	constants.FIELD_QR_AMOUNT,
	constants.FIELD_CASH_AMOUNT,
	constants.FIELD_TERMINAL_AMOUNT,
	constants.FIELD_COMMENT,
}

func fieldLabel(key string) string {
	switch key {
	case constants.FIELD_LASTNAME:
		return "Фамилия"
	case constants.FIELD_FIRSTNAME:
		return "Имя"
	case constants.FIELD_QR_NUMBER:
		return "Номер QR"
	case constants.FIELD_QR_AMOUNT:
		return "Сумма QR"
	case constants.FIELD_CASH_AMOUNT:
		return "Наличные"
	case constants.FIELD_TERMINAL_AMOUNT:
		return "Терминал"
	case constants.FIELD_COMMENT:
		return "Комментарий"
	}
	return key
}

func fieldValue(report *models.DailyReport, key string) string {
	switch key {
	case constants.FIELD_LASTNAME:
		return report.Lastname
	case constants.FIELD_FIRSTNAME:
		return report.Firstname
	case constants.FIELD_QR_NUMBER:
		return report.QRNumber
	case constants.FIELD_QR_AMOUNT:
		return finance.FormatAmount(report.QRAmount)
	case constants.FIELD_CASH_AMOUNT:
		return finance.FormatAmount(report.CashAmount)
	case constants.FIELD_TERMINAL_AMOUNT:
		if report.TerminalAmount == nil {
			return "—"
		}
		return finance.FormatAmount(*report.TerminalAmount)
	case constants.FIELD_COMMENT:
		return orDash(report.Comment)
	}
	return ""
}

// setField применяет ввод пользователя к рабочей копии отчета.
// Возвращает старое и новое значение для журнала и признак изменения.
func setField(report *models.DailyReport, key, input string) (oldVal, newVal string, changed bool, err error) {
	oldVal = fieldValue(report, key)
	switch key {
	case constants.FIELD_LASTNAME:
		if strings.TrimSpace(input) == "" {
			return "", "", false, fmt.Errorf("фамилия не может быть пустой")
		}
		report.Lastname = strings.TrimSpace(input)
	case constants.FIELD_FIRSTNAME:
		if strings.TrimSpace(input) == "" {
			return "", "", false, fmt.Errorf("имя не может быть пустым")
		}
		report.Firstname = strings.TrimSpace(input)
	case constants.FIELD_QR_NUMBER:
		report.QRNumber = strings.TrimSpace(input)
	case constants.FIELD_QR_AMOUNT:
		amount, perr := finance.ParseAmount(input)
		if perr != nil {
			return "", "", false, perr
		}
		report.QRAmount = amount
	case constants.FIELD_CASH_AMOUNT:
		amount, perr := finance.ParseAmount(input)
		if perr != nil {
			return "", "", false, perr
		}
		report.CashAmount = amount
	case constants.FIELD_TERMINAL_AMOUNT:
		amount, perr := finance.ParseAmount(input)
		if perr != nil {
			return "", "", false, perr
		}
		report.TerminalAmount = &amount
	case constants.FIELD_COMMENT:
		report.Comment = strings.TrimSpace(input)
	default:
		return "", "", false, fmt.Errorf("неизвестное поле: %s", key)
	}
	newVal = fieldValue(report, key)
	return oldVal, newVal, oldVal != newVal, nil
}

// StartEditFlow открывает выбор способа поиска отчета.
func (d *Deps) StartEditFlow(ctx context.Context, chatID int64, user *models.User) {
	if !d.updateSession(ctx, chatID, user.ID, constants.STATE_EDIT_MENU, &models.SessionContext{
		Flow: constants.FLOW_EDIT,
		Edit: &models.EditContext{},
	}) {
		return
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 По фамилии", constants.CALLBACK_EDIT_BY_LASTNAME),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 По площадке", constants.CALLBACK_EDIT_BY_SITE),
		),
	)
	d.sendWithKeyboard(chatID, "Как найти отчет для редактирования?", keyboard)
}

// EditByLastname переводит в ожидание ввода фамилии.
func (d *Deps) EditByLastname(ctx context.Context, chatID int64, user *models.User) {
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_EDIT_ENTER_LASTNAME, &models.SessionContext{
		Edit: &models.EditContext{Mode: "by_lastname"},
	}) {
		d.send(chatID, "Введите фамилию сотрудника:")
	}
}

// EditBySite показывает площадки за сегодня для выбора отчета.
// Не-администратор видит только свои площадки.
func (d *Deps) EditBySite(ctx context.Context, chatID int64, user *models.User) {
	sites, err := d.Store.GetSitesByDateForUser(ctx, utils.MoscowDate(), user.ID, user.IsAdmin())
	if err != nil {
		log.Printf("EditBySite: ошибка получения площадок: %v", err)
		d.sendError(chatID)
		return
	}
	if len(sites) == 0 {
		d.send(chatID, "На сегодня нет заполненных площадок.")
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(sites))
	for _, site := range sites {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(site.Name, constants.CALLBACK_PREFIX_EDIT_SITE+"_"+site.ID),
		))
	}
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_EDIT_MENU, &models.SessionContext{
		Edit: &models.EditContext{Mode: "by_site"},
	}) {
		d.sendWithKeyboard(chatID, "Выберите площадку:", tgbotapi.NewInlineKeyboardMarkup(rows...))
	}
}

// HandleEditLastnameInput ищет отчеты по введенной фамилии (без учета
// регистра). Однофамильцы различаются промежуточным выбором полного имени.
func (d *Deps) HandleEditLastnameInput(ctx context.Context, chatID int64, user *models.User, text string) {
	lastname := strings.TrimSpace(text)
	if lastname == "" {
		d.send(chatID, "Введите фамилию сотрудника:")
		return
	}
	reports, err := d.Store.GetReportsByLastname(ctx, lastname)
	if err != nil {
		log.Printf("HandleEditLastnameInput: ошибка поиска по фамилии %q: %v", lastname, err)
		d.sendError(chatID)
		return
	}
	if len(reports) == 0 {
		d.send(chatID, fmt.Sprintf("Отчеты по фамилии «%s» не найдены. Введите другую фамилию:", lastname))
		return
	}

	var persons []string
	seen := make(map[string]bool)
	for _, report := range reports {
		if name := report.FullName(); !seen[name] {
			seen[name] = true
			persons = append(persons, name)
		}
	}
	if len(persons) <= 1 {
		d.offerReports(ctx, chatID, user, reports)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(persons))
	for i, name := range persons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(name, fmt.Sprintf("%s_%d", constants.CALLBACK_PREFIX_SELECT_PERSON, i)),
		))
	}
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_EDIT_MENU, &models.SessionContext{
		Edit: &models.EditContext{Mode: "by_lastname", Lastname: lastname, Candidates: persons},
	}) {
		d.sendWithKeyboard(chatID, "Найдено несколько сотрудников. Выберите сотрудника:", tgbotapi.NewInlineKeyboardMarkup(rows...))
	}
}

// EditPersonSelected сужает найденные отчеты до выбранного сотрудника.
func (d *Deps) EditPersonSelected(ctx context.Context, chatID int64, user *models.User, session *models.Session, indexStr string) {
	ec := session.Context.Edit
	if ec == nil || len(ec.Candidates) == 0 {
		d.send(chatID, constants.NoActiveFlowMessage)
		return
	}
	idx, err := strconv.Atoi(indexStr)
	if err != nil || idx < 0 || idx >= len(ec.Candidates) {
		log.Printf("EditPersonSelected: некорректный индекс %q", indexStr)
		return
	}
	fullName := ec.Candidates[idx]

	reports, err := d.Store.GetReportsByLastname(ctx, ec.Lastname)
	if err != nil {
		log.Printf("EditPersonSelected: ошибка поиска по фамилии %q: %v", ec.Lastname, err)
		d.sendError(chatID)
		return
	}
	matched := reports[:0]
	for _, report := range reports {
		if report.FullName() == fullName {
			matched = append(matched, report)
		}
	}
	if len(matched) == 0 {
		d.send(chatID, "Отчеты этого сотрудника не найдены. Введите фамилию еще раз:")
		return
	}
	d.offerReports(ctx, chatID, user, matched)
}

// EditSiteSelected показывает отчеты выбранной площадки за сегодня.
func (d *Deps) EditSiteSelected(ctx context.Context, chatID int64, user *models.User, siteID string) {
	reports, err := d.Store.GetReportsBySite(ctx, siteID, utils.MoscowDate())
	if err != nil {
		log.Printf("EditSiteSelected: ошибка получения отчетов площадки %s: %v", siteID, err)
		d.sendError(chatID)
		return
	}
	if len(reports) == 0 {
		d.send(chatID, "По этой площадке еще нет отчетов.")
		return
	}
	d.offerReports(ctx, chatID, user, reports)
}

func (d *Deps) offerReports(ctx context.Context, chatID int64, user *models.User, reports []*models.DailyReport) {
	if len(reports) == 1 {
		d.OpenReportForEditing(ctx, chatID, user, reports[0].ID)
		return
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reports))
	for _, report := range reports {
		label := fmt.Sprintf("%s — %s (%s)", utils.FormatDateShort(report.Date), report.FullName(), finance.FormatAmount(report.TotalRevenue))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, constants.CALLBACK_PREFIX_SELECT_REPORT+"_"+report.ID),
		))
	}
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_EDIT_MENU, nil) {
		d.sendWithKeyboard(chatID, "Выберите отчет:", tgbotapi.NewInlineKeyboardMarkup(rows...))
	}
}

// OpenReportForEditing загружает отчет в рабочую копию и показывает меню полей.
// Правки накапливаются в копии и попадают в хранилище только по
// "Завершить редактирование".
func (d *Deps) OpenReportForEditing(ctx context.Context, chatID int64, user *models.User, reportID string) {
	report, err := d.Store.GetReportByID(ctx, reportID)
	if err != nil {
		log.Printf("OpenReportForEditing: ошибка получения отчета %s: %v", reportID, err)
		d.sendError(chatID)
		return
	}
	if report == nil {
		d.abortMissing(ctx, chatID, "Отчет не найден. Начните редактирование заново.")
		return
	}
	if !user.IsAdmin() {
		site, serr := d.Store.GetSiteByID(ctx, report.SiteID)
		if serr != nil {
			log.Printf("OpenReportForEditing: ошибка получения площадки %s: %v", report.SiteID, serr)
			d.sendError(chatID)
			return
		}
		if site == nil {
			d.abortMissing(ctx, chatID, "Площадка отчета не найдена. Начните редактирование заново.")
			return
		}
		if site.ResponsibleUserID != user.ID {
			d.send(chatID, "⛔ Вы можете редактировать только отчеты своих площадок.")
			return
		}
	}
	ec := &models.EditContext{ReportID: report.ID, SiteID: report.SiteID, Date: report.Date, Report: report}
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_EDIT_MENU, &models.SessionContext{
		Flow: constants.FLOW_EDIT,
		Edit: ec,
	}) {
		d.showFieldMenu(chatID, ec)
	}
}

func (d *Deps) showFieldMenu(chatID int64, ec *models.EditContext) {
	report := ec.Report
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(editableFields)+2)
	for _, key := range editableFields {
		label := fmt.Sprintf("%s: %s", fieldLabel(key), utils.TruncateForButton(fieldValue(report, key), constants.MAX_BUTTON_VALUE_LENGTH))
		data := fmt.Sprintf("%s_%s__%s", constants.CALLBACK_PREFIX_EDIT_FIELD, key, report.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📜 История изменений", constants.CALLBACK_PREFIX_VIEW_LOGS+"_"+report.ID),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Завершить редактирование", constants.CALLBACK_PREFIX_FINISH_EDIT+"_"+report.ID),
	))

	header := fmt.Sprintf("Редактирование отчета: %s, %s\nВыберите параметр:", report.FullName(), utils.FormatDateShort(report.Date))
	d.sendWithKeyboard(chatID, header, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// SelectEditField переводит в ожидание нового значения выбранного поля.
func (d *Deps) SelectEditField(ctx context.Context, chatID int64, user *models.User, session *models.Session, fieldKey string) {
	ec := session.Context.Edit
	if ec == nil || ec.Report == nil {
		d.send(chatID, constants.NoActiveFlowMessage)
		return
	}
	ec.CurrentField = fieldKey
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_EDIT_FIELD, &models.SessionContext{Edit: ec}) {
		d.send(chatID, fmt.Sprintf("Текущее значение — %s: %s\nВведите новое значение:", fieldLabel(fieldKey), fieldValue(ec.Report, fieldKey)))
	}
}

// HandleEditFieldInput применяет новое значение к рабочей копии.
// Запись в журнал делается в момент правки; совпадающее значение
// журнал не засоряет.
func (d *Deps) HandleEditFieldInput(ctx context.Context, chatID int64, user *models.User, session *models.Session, text string) {
	ec := session.Context.Edit
	if ec == nil || ec.Report == nil || ec.CurrentField == "" {
		d.send(chatID, constants.NoActiveFlowMessage)
		return
	}

	oldVal, newVal, changed, err := setField(ec.Report, ec.CurrentField, text)
	if err != nil {
		d.send(chatID, fmt.Sprintf("❌ %s. Введите новое значение:", err))
		return
	}

	if changed {
		if _, err := d.Store.CreateLog(ctx, user.ID, constants.LOG_FIELD_EDITED, nil, map[string]any{
			"report_id": ec.Report.ID,
			"field":     ec.CurrentField,
			"old_value": oldVal,
			"new_value": newVal,
		}, ec.Report.ID); err != nil {
			log.Printf("HandleEditFieldInput: ошибка записи лога: %v", err)
		}
	}

	ec.CurrentField = ""
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_EDIT_MENU, &models.SessionContext{Edit: ec}) {
		d.showFieldMenu(chatID, ec)
	}
}

// FinishEditing сохраняет рабочую копию: полный пересчет производных полей
// и запись в хранилище одной операцией.
func (d *Deps) FinishEditing(ctx context.Context, chatID int64, user *models.User, session *models.Session) {
	ec := session.Context.Edit
	if ec == nil || ec.Report == nil {
		d.send(chatID, constants.NoActiveFlowMessage)
		return
	}
	if err := d.Reports.SaveEditedReport(ctx, ec.Report); err != nil {
		log.Printf("FinishEditing: ошибка сохранения отчета %s: %v", ec.Report.ID, err)
		d.sendError(chatID)
		return
	}
	if err := d.Store.ClearSession(ctx, chatID); err != nil {
		log.Printf("FinishEditing: ошибка очистки сессии: %v", err)
	}
	report := ec.Report
	d.send(chatID, fmt.Sprintf(
		"✅ Отчет сохранен и пересчитан.\n\n👤 %s %s\n💰 Выручка: %s\n💵 Зарплата: %s\n🎯 Бонус за планки: %s\n✉️ Нал в конверте: %s",
		report.Lastname, report.Firstname,
		finance.FormatAmount(report.TotalRevenue),
		finance.FormatAmount(report.Salary),
		finance.FormatAmount(report.BonusByTargets),
		finance.FormatAmount(report.CashInEnvelope),
	))
}

// ShowReportLogs выводит историю изменений отчета; длинная история
// разбивается на несколько сообщений.
func (d *Deps) ShowReportLogs(ctx context.Context, chatID int64, reportID string) {
	logs, err := d.Store.GetLogsByReport(ctx, reportID)
	if err != nil {
		log.Printf("ShowReportLogs: ошибка получения истории отчета %s: %v", reportID, err)
		d.sendError(chatID)
		return
	}
	edits := make([]*models.Log, 0, len(logs))
	for _, entry := range logs {
		if entry.ActionType == constants.LOG_FIELD_EDITED {
			edits = append(edits, entry)
		}
	}
	if len(edits) == 0 {
		d.send(chatID, "История изменений пуста.")
		return
	}

	var b strings.Builder
	b.WriteString("📜 История изменений:\n")
	for _, entry := range edits {
		b.WriteString(fmt.Sprintf("\n🕐 %s", utils.FormatTimestamp(entry.Timestamp)))
		if entry.PayloadAfter != nil {
			b.WriteString(fmt.Sprintf("\n   %v: %v → %v",
				fieldLabel(fmt.Sprint(entry.PayloadAfter["field"])),
				entry.PayloadAfter["old_value"],
				entry.PayloadAfter["new_value"]))
		}
	}
	if err := telegram_api.SendLongMessage(d.Bot, chatID, b.String()); err != nil {
		log.Printf("ShowReportLogs: ошибка отправки истории: %v", err)
	}
}
