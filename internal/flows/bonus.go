package flows

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/finance"
	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// StartBonusFlow запускает начисление бонуса/штрафа: выбор площадки за сегодня.
func (d *Deps) StartBonusFlow(ctx context.Context, chatID int64, user *models.User) {
	sites, err := d.Store.GetSitesByDate(ctx, utils.MoscowDate())
	if err != nil {
		log.Printf("StartBonusFlow: ошибка получения площадок: %v", err)
		d.sendError(chatID)
		return
	}
	if len(sites) == 0 {
		d.send(chatID, "На сегодня нет заполненных площадок.")
		return
	}
	if len(sites) == 1 {
		if !d.updateSession(ctx, chatID, user.ID, constants.STATE_BONUS_SELECT_SITE, &models.SessionContext{
			Flow:  constants.FLOW_BONUS,
			Bonus: &models.BonusContext{},
		}) {
			return
		}
		d.BonusSiteSelected(ctx, chatID, user, sites[0].ID)
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(sites))
	for _, site := range sites {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(site.Name, constants.CALLBACK_PREFIX_BONUS_SITE+"_"+site.ID),
		))
	}
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_BONUS_SELECT_SITE, &models.SessionContext{
		Flow:  constants.FLOW_BONUS,
		Bonus: &models.BonusContext{},
	}) {
		d.sendWithKeyboard(chatID, "Выберите площадку:", tgbotapi.NewInlineKeyboardMarkup(rows...))
	}
}

// BonusSiteSelected показывает сотрудников площадки (по отчетам за сегодня).
func (d *Deps) BonusSiteSelected(ctx context.Context, chatID int64, user *models.User, siteID string) {
	reports, err := d.Store.GetReportsBySite(ctx, siteID, utils.MoscowDate())
	if err != nil {
		log.Printf("BonusSiteSelected: ошибка получения отчетов площадки %s: %v", siteID, err)
		d.sendError(chatID)
		return
	}
	if len(reports) == 0 {
		d.send(chatID, "По этой площадке еще нет отчетов.")
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reports))
	for _, report := range reports {
		label := report.FullName()
		if report.IsResponsible {
			label += " (ответственный)"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, constants.CALLBACK_PREFIX_BONUS_EMPLOYEE+"_"+report.ID),
		))
	}
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_BONUS_SELECT_EMPLOYEE, &models.SessionContext{
		Bonus: &models.BonusContext{SiteID: siteID},
	}) {
		d.sendWithKeyboard(chatID, "Выберите сотрудника:", tgbotapi.NewInlineKeyboardMarkup(rows...))
	}
}

// BonusEmployeeSelected фиксирует отчет. Для ответственного доступны два
// канала начисления, для остальных — только бонус/штраф.
func (d *Deps) BonusEmployeeSelected(ctx context.Context, chatID int64, user *models.User, session *models.Session, reportID string) {
	report, err := d.Store.GetReportByID(ctx, reportID)
	if err != nil {
		log.Printf("BonusEmployeeSelected: ошибка получения отчета %s: %v", reportID, err)
		d.sendError(chatID)
		return
	}
	if report == nil {
		d.abortMissing(ctx, chatID, "Отчет не найден. Начните начисление заново.")
		return
	}

	bc := session.Context.Bonus
	if bc == nil {
		bc = &models.BonusContext{}
	}
	bc.ReportID = reportID

	if report.IsResponsible {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💰 Бонус/штраф", constants.CALLBACK_BONUS_TYPE_PENALTY),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("👤 Зарплата ответственного", constants.CALLBACK_BONUS_TYPE_SALARY),
			),
		)
		if d.updateSession(ctx, chatID, user.ID, constants.STATE_BONUS_SELECT_TYPE, &models.SessionContext{Bonus: bc}) {
			d.sendWithKeyboard(chatID, fmt.Sprintf("Сотрудник: %s\nВыберите тип начисления:", report.FullName()), keyboard)
		}
		return
	}

	bc.BonusType = constants.BONUS_TYPE_PENALTY
	if d.updateSession(ctx, chatID, user.ID, constants.STATE_BONUS_INPUT_AMOUNT, &models.SessionContext{Bonus: bc}) {
		d.send(chatID, fmt.Sprintf("Сотрудник: %s\nВведите сумму бонуса (положительное число) или штрафа (отрицательное число):", report.FullName()))
	}
}

// BonusTypeSelected фиксирует канал начисления и запрашивает сумму.
func (d *Deps) BonusTypeSelected(ctx context.Context, chatID int64, user *models.User, session *models.Session, bonusType string) {
	bc := session.Context.Bonus
	if bc == nil || bc.ReportID == "" {
		d.send(chatID, constants.NoActiveFlowMessage)
		return
	}
	bc.BonusType = bonusType
	if !d.updateSession(ctx, chatID, user.ID, constants.STATE_BONUS_INPUT_AMOUNT, &models.SessionContext{Bonus: bc}) {
		return
	}
	if bonusType == constants.BONUS_TYPE_RESPONSIBLE_SALARY {
		d.send(chatID, "Введите сумму зарплаты ответственного (положительное число):")
	} else {
		d.send(chatID, "Введите сумму бонуса (положительное число) или штрафа (отрицательное число):")
	}
}

// HandleBonusAmountInput применяет введенную сумму: бонус/штраф — знаковый
// и накопительный, зарплата ответственного — положительная и заменяющая.
func (d *Deps) HandleBonusAmountInput(ctx context.Context, chatID int64, user *models.User, session *models.Session, text string) {
	bc := session.Context.Bonus
	if bc == nil || bc.ReportID == "" {
		d.send(chatID, constants.NoActiveFlowMessage)
		return
	}

	var report *models.DailyReport
	switch bc.BonusType {
	case constants.BONUS_TYPE_RESPONSIBLE_SALARY:
		amount, err := finance.ParseAmount(text)
		if err != nil || amount <= 0 {
			d.send(chatID, "❌ Введите положительное число:")
			return
		}
		report, err = d.Reports.ApplyResponsibleSalary(ctx, user.ID, bc.ReportID, amount)
		if err != nil {
			log.Printf("HandleBonusAmountInput: ошибка начисления зарплаты ответственного: %v", err)
			d.sendError(chatID)
			return
		}
	default:
		amount, err := finance.ParseSignedAmount(text)
		if err != nil {
			d.send(chatID, constants.InvalidAmountMessage)
			return
		}
		if amount == 0 {
			d.send(chatID, "❌ Сумма не может быть нулевой. Введите сумму:")
			return
		}
		report, err = d.Reports.ApplyBonusPenalty(ctx, user.ID, bc.ReportID, amount)
		if err != nil {
			log.Printf("HandleBonusAmountInput: ошибка начисления бонуса/штрафа: %v", err)
			d.sendError(chatID)
			return
		}
	}

	if err := d.Store.ClearSession(ctx, chatID); err != nil {
		log.Printf("HandleBonusAmountInput: ошибка очистки сессии: %v", err)
	}

	d.send(chatID, fmt.Sprintf(
		"✅ Начисление применено.\n\n👤 %s %s\n💰 Бонус/штраф: %s\n👤 Зарплата ответственного: %s\n✉️ Нал в конверте: %s",
		report.Lastname, report.Firstname,
		finance.FormatSignedAmount(report.BonusPenalty),
		finance.FormatAmount(report.ResponsibleSalaryBonus),
		finance.FormatAmount(report.CashInEnvelope),
	))
}
