package models

import "time"

// Session — эфемерное состояние диалога одного пользователя.
// На пользователя существует не более одной сессии; отсутствие сессии
// означает "нет активного потока", текстовый ввод игнорируется.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	State     string         `json:"state"`
	Context   SessionContext `json:"context"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SessionContext — типизированный контекст сессии: метка потока плюс по
// одному указателю на контекст каждого потока. Заполнен ровно тот указатель,
// который соответствует Flow; остальные nil. Слияние контекстов при
// обновлении сессии заменяет только ветку активного потока
// (см. kv.Store.UpdateSession).
type SessionContext struct {
	Flow    string              `json:"flow,omitempty"`
	Morning *MorningFillContext `json:"morning,omitempty"`
	Evening *EveningFillContext `json:"evening,omitempty"`
	Edit    *EditContext        `json:"edit,omitempty"`
	Bonus   *BonusContext       `json:"bonus,omitempty"`
	Admin   *AdminContext       `json:"admin,omitempty"`
}

// MorningFillContext накапливает площадку по шагам утреннего заполнения.
type MorningFillContext struct {
	SiteName             string `json:"site_name,omitempty"`
	BonusTargets         string `json:"bonus_target,omitempty"` // уже нормализованная строка планок
	ResponsibleLastname  string `json:"responsible_lastname,omitempty"`
	ResponsibleFirstname string `json:"responsible_firstname,omitempty"`
}

// EveningFillContext накапливает отчет по шагам вечернего заполнения.
// Денежные поля — указатели: nil означает "еще не вводилось", что важно
// для навигации "Назад" и для необязательного терминала.
type EveningFillContext struct {
	SiteID         string `json:"site_id,omitempty"`
	Lastname       string `json:"lastname,omitempty"`
	Firstname      string `json:"firstname,omitempty"`
	QRNumber       string `json:"qr_number,omitempty"`
	QRAmount       *int64 `json:"qr_amount,omitempty"`
	CashAmount     *int64 `json:"cash_amount,omitempty"`
	TerminalAmount *int64 `json:"terminal_amount,omitempty"`
	Comment        string `json:"comment,omitempty"`
	IsResponsible  bool   `json:"is_responsible,omitempty"`
}

// EditContext — контекст меню редактирования. Report — рабочая копия отчета:
// правки накапливаются в ней и сохраняются в хранилище только по
// "Завершить редактирование".
type EditContext struct {
	Mode         string       `json:"mode,omitempty"` // by_lastname | by_site
	ReportID     string       `json:"report_id,omitempty"`
	SiteID       string       `json:"site_id,omitempty"`
	Date         string       `json:"date,omitempty"`
	CurrentField string       `json:"current_field,omitempty"`
	Report       *DailyReport `json:"report,omitempty"`
	// Candidates — полные имена ("Фамилия Имя") при неоднозначном поиске
	// по фамилии; коллбэк выбора несет индекс в этом списке.
	Candidates []string `json:"candidates,omitempty"`
	Lastname   string   `json:"lastname,omitempty"` // искомая фамилия
}

// BonusContext — контекст потока начислений.
type BonusContext struct {
	SiteID    string `json:"site_id,omitempty"`
	ReportID  string `json:"report_id,omitempty"`
	BonusType string `json:"bonus_type,omitempty"` // constants.BONUS_TYPE_*
}

// AdminContext — контекст админских подпотоков (ввод Telegram ID).
type AdminContext struct {
	WaitingForUserID bool `json:"waiting_for_user_id,omitempty"`
	RemoveMode       bool `json:"remove_mode,omitempty"`
}
