package flows

import (
	"context"
	"fmt"
	"log"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/finance"
	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// StartMorningFill запускает утреннее заполнение площадки.
func (d *Deps) StartMorningFill(ctx context.Context, chatID int64, user *models.User) {
	if !d.updateSession(ctx, chatID, user.ID, constants.STATE_MORNING_FILL_SITE_NAME, &models.SessionContext{
		Flow:    constants.FLOW_MORNING,
		Morning: &models.MorningFillContext{},
	}) {
		return
	}
	if _, err := d.Store.CreateLog(ctx, user.ID, constants.LOG_MORNING_FILL_STARTED, nil, nil, ""); err != nil {
		log.Printf("StartMorningFill: ошибка записи лога: %v", err)
	}
	d.send(chatID, "Введите название площадки:")
}

// HandleMorningText обрабатывает текстовый ввод в состояниях утреннего потока.
// skip — нажата кнопка "Далее" (пропуск необязательного шага).
func (d *Deps) HandleMorningText(ctx context.Context, chatID int64, user *models.User, session *models.Session, text string, skip bool) {
	mc := session.Context.Morning
	if mc == nil {
		mc = &models.MorningFillContext{}
	}

	switch session.State {
	case constants.STATE_MORNING_FILL_SITE_NAME:
		if text == "" {
			d.send(chatID, "Название площадки не может быть пустым. Введите название площадки:")
			return
		}
		mc.SiteName = text
		if d.updateSession(ctx, chatID, user.ID, constants.STATE_MORNING_FILL_BONUS_TARGETS, &models.SessionContext{Morning: mc}) {
			d.send(chatID, "Введите бонусные планки через запятую (например: 1000, 2000, 3000):")
		}

	case constants.STATE_MORNING_FILL_BONUS_TARGETS:
		if skip {
			d.send(chatID, "Это обязательный шаг. Введите бонусные планки через запятую, например: 1000, 2000, 3000")
			return
		}
		targets, err := finance.ParseBonusTargets(text)
		if err != nil || len(targets) == 0 {
			d.send(chatID, "❌ Не удалось разобрать планки. Введите суммы через запятую, например: 1000, 2000, 3000")
			return
		}
		mc.BonusTargets = finance.BonusTargetsToString(targets)
		if d.updateSession(ctx, chatID, user.ID, constants.STATE_MORNING_FILL_RESP_LASTNAME, &models.SessionContext{Morning: mc}) {
			d.send(chatID, "Введите фамилию ответственного:")
		}

	case constants.STATE_MORNING_FILL_RESP_LASTNAME:
		if text == "" {
			d.send(chatID, "Фамилия не может быть пустой. Введите фамилию ответственного:")
			return
		}
		mc.ResponsibleLastname = text
		if d.updateSession(ctx, chatID, user.ID, constants.STATE_MORNING_FILL_RESP_FIRSTNAME, &models.SessionContext{Morning: mc}) {
			d.send(chatID, "Введите имя ответственного:")
		}

	case constants.STATE_MORNING_FILL_RESP_FIRSTNAME:
		if text == "" {
			d.send(chatID, "Имя не может быть пустым. Введите имя ответственного:")
			return
		}
		mc.ResponsibleFirstname = text
		if d.updateSession(ctx, chatID, user.ID, constants.STATE_MORNING_FILL_PHONE, &models.SessionContext{Morning: mc}) {
			d.send(chatID, "Введите номер телефона площадки (например: +79991234567) или нажмите ⏭️ Далее:")
		}

	case constants.STATE_MORNING_FILL_PHONE:
		var phone string
		if skip {
			// "Далее" подставляет телефон из профиля; без него шаг обязателен.
			if user.Phone == "" {
				d.send(chatID, "В профиле нет номера телефона, этот шаг нельзя пропустить. Введите номер в формате +79991234567:")
				return
			}
			phone = user.Phone
		} else {
			normalized, err := utils.ValidatePhoneNumber(text)
			if err != nil {
				d.send(chatID, "❌ Некорректный номер телефона. Введите в формате +79991234567 или нажмите ⏭️ Далее:")
				return
			}
			phone = normalized
		}
		d.finishMorningFill(ctx, chatID, user, mc, phone)

	default:
		d.send(chatID, constants.NoActiveFlowMessage)
	}
}

func (d *Deps) finishMorningFill(ctx context.Context, chatID int64, user *models.User, mc *models.MorningFillContext, phone string) {
	site := &models.Site{
		Name:                 mc.SiteName,
		ResponsibleUserID:    user.ID,
		ResponsibleLastname:  mc.ResponsibleLastname,
		ResponsibleFirstname: mc.ResponsibleFirstname,
		BonusTargets:         mc.BonusTargets,
		Phone:                phone,
		Date:                 utils.MoscowDate(),
		Status:               constants.SITE_STATUS_MORNING_FILLED,
	}

	site, err := d.Store.CreateSite(ctx, site)
	if err != nil {
		log.Printf("finishMorningFill: ошибка создания площадки: %v", err)
		d.sendError(chatID)
		return
	}

	if _, err := d.Store.CreateLog(ctx, user.ID, constants.LOG_MORNING_FILL_COMPLETED, nil,
		map[string]any{"site_id": site.ID, "site_name": site.Name, "date": site.Date}, ""); err != nil {
		log.Printf("finishMorningFill: ошибка записи лога: %v", err)
	}
	if err := d.Store.ClearSession(ctx, chatID); err != nil {
		log.Printf("finishMorningFill: ошибка очистки сессии: %v", err)
	}

	summary := fmt.Sprintf(
		"✅ Площадка заполнена!\n\n🏠 Название: %s\n🎯 Бонусные планки: %s\n👤 Ответственный: %s %s\n📞 Телефон: %s\n📅 Дата: %s",
		site.Name,
		finance.FormatBonusTargets(site.BonusTargets),
		site.ResponsibleLastname, site.ResponsibleFirstname,
		orDash(site.Phone),
		utils.FormatDateShort(site.Date),
	)
	d.send(chatID, summary)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
