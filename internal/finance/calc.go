// Пакет finance — расчетное ядро: выручка, зарплата, бонусы и "нал в конверте".
// Все суммы в системе — целые рубли (int64); округление везде одно и то же —
// до целого, половина от нуля (decimal.Round).
package finance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"Aquagrim/internal/constants"
)

var salaryPercent = decimal.NewFromFloat(constants.SALARY_PERCENT)

// CalculationInput — сырые суммы отчета. TerminalAmount и BonusPenalty
// необязательны (нулевые значения эквивалентны отсутствию).
type CalculationInput struct {
	QRAmount       int64
	CashAmount     int64
	TerminalAmount int64
	BonusPenalty   int64
}

// CalculationResult — производные показатели отчета.
// "Нал в конверте" сюда намеренно не входит: он зависит от бонусов, которые
// на момент сырого расчета еще не известны (планки площадки, начисления
// ответственному, бонус за лучшую выручку) — см. CashInEnvelope.
type CalculationResult struct {
	TotalRevenue      int64
	Salary            int64
	ResponsibleSalary int64
	TotalDaily        int64
	TotalCash         int64
	TotalQR           int64
}

// Calculate рассчитывает финансовые показатели по сырым суммам отчета.
func Calculate(in CalculationInput) CalculationResult {
	totalRevenue := in.QRAmount + in.CashAmount + in.TerminalAmount

	salary := decimal.NewFromInt(totalRevenue).Mul(salaryPercent).Round(0).IntPart()

	return CalculationResult{
		TotalRevenue:      totalRevenue,
		Salary:            salary,
		ResponsibleSalary: salary,
		TotalDaily:        totalRevenue,
		TotalCash:         in.CashAmount,
		TotalQR:           in.QRAmount,
	}
}

// CashInEnvelope — единственное место, где считается "нал в конверте":
// наличные минус все четыре бонусные составляющие. Каждый путь мутации
// отчета обязан пересчитывать конверт этой функцией от текущих значений.
func CashInEnvelope(cashAmount, bonusByTargets, bonusPenalty, responsibleSalaryBonus, bestRevenueBonus int64) int64 {
	return cashAmount - (bonusByTargets + bonusPenalty + responsibleSalaryBonus + bestRevenueBonus)
}

// ParseAmount разбирает введенную пользователем сумму в целые рубли.
// Принимает точку или запятую как разделитель и пробелы вокруг;
// отрицательные и нечисловые значения отвергает.
func ParseAmount(input string) (int64, error) {
	v, err := ParseSignedAmount(input)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("сумма не может быть отрицательной")
	}
	return v, nil
}

// ParseSignedAmount разбирает сумму, допуская отрицательные значения
// (штрафы в потоке бонусов/штрафов).
func ParseSignedAmount(input string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(input), " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, fmt.Errorf("пустой ввод")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("некорректное число: %q", input)
	}
	return d.Round(0).IntPart(), nil
}

// FormatAmount форматирует сумму для отображения: целые рубли со знаком валюты.
func FormatAmount(amount int64) string {
	return fmt.Sprintf("%d ₽", amount)
}

// FormatSignedAmount форматирует сумму с явным плюсом у положительных значений
// (для бонусов/штрафов).
func FormatSignedAmount(amount int64) string {
	if amount > 0 {
		return fmt.Sprintf("+%d ₽", amount)
	}
	return fmt.Sprintf("%d ₽", amount)
}
