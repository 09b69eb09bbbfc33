package models

import "time"

// DailyReport — дневной отчет одного сотрудника по площадке.
// Все денежные поля — целые рубли.
//
// Производные поля (total_revenue, salary, bonus_by_targets, cash_in_envelope
// и т.д.) никогда не вводятся напрямую: они пересчитываются при создании и
// при каждой мутации (см. internal/services).
type DailyReport struct {
	ID        string `json:"id"`
	SiteID    string `json:"site_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Lastname  string `json:"lastname"`
	Firstname string `json:"firstname"`
	QRNumber  string `json:"qr_number"`

	// Сырые вводимые суммы
	QRAmount       int64  `json:"qr_amount"`
	CashAmount     int64  `json:"cash_amount"`
	TerminalAmount *int64 `json:"terminal_amount,omitempty"`
	Comment        string `json:"comment,omitempty"`

	Signature            string `json:"signature,omitempty"`
	ResponsibleSignature string `json:"responsible_signature,omitempty"`

	// Первый отчет по площадке — отчет ответственного.
	IsResponsible bool `json:"is_responsible"`

	// Производные и начисляемые поля
	TotalRevenue           int64 `json:"total_revenue"`
	Salary                 int64 `json:"salary"`
	BonusByTargets         int64 `json:"bonus_by_targets"`
	BonusPenalty           int64 `json:"bonus_penalty"`            // ручное, знаковое, накопительное
	BestRevenueBonus       int64 `json:"best_revenue_bonus"`       // переназначается при генерации сводки
	ResponsibleSalary      int64 `json:"responsible_salary"`
	ResponsibleSalaryBonus int64 `json:"responsible_salary_bonus"` // ручное, заменяющее
	TotalDaily             int64 `json:"total_daily"`
	TotalCash              int64 `json:"total_cash"`
	TotalQR                int64 `json:"total_qr"`
	CashInEnvelope         int64 `json:"cash_in_envelope"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TerminalOrZero возвращает сумму по терминалу или 0, если она не вводилась.
func (r *DailyReport) TerminalOrZero() int64 {
	if r.TerminalAmount == nil {
		return 0
	}
	return *r.TerminalAmount
}

// FullName возвращает "Фамилия Имя" для списков и дедупликации однофамильцев.
func (r *DailyReport) FullName() string {
	return r.Lastname + " " + r.Firstname
}
