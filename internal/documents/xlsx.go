package documents

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// SiteSummaryXLSX строит XLSX-таблицу отчетов площадки за день со строкой
// итогов. Как и у PDF, бонус за лучшую выручку должен быть переназначен
// до генерации.
func (g *Generator) SiteSummaryXLSX(site *models.Site, reports []*models.DailyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Сводка"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Фамилия", "Имя", "Номер QR",
		"Сумма QR", "Наличные", "Терминал",
		"Выручка", "Зарплата", "Бонус за планки", "Бонус/штраф",
		"Зарплата ответственного", "Бонус за лучшую выручку",
		"Нал в конверте", "Комментарий",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("SiteSummaryXLSX: %w", err)
		}
	}

	var totalRevenue, totalSalary, totalEnvelope int64
	for rowIdx, r := range reports {
		values := []interface{}{
			r.Lastname, r.Firstname, r.QRNumber,
			r.QRAmount, r.CashAmount, r.TerminalOrZero(),
			r.TotalRevenue, r.Salary, r.BonusByTargets, r.BonusPenalty,
			r.ResponsibleSalaryBonus, r.BestRevenueBonus,
			r.CashInEnvelope, r.Comment,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("SiteSummaryXLSX: %w", err)
			}
		}
		totalRevenue += r.TotalRevenue
		totalSalary += r.Salary
		totalEnvelope += r.CashInEnvelope
	}

	totalsRow := len(reports) + 2
	totals := map[int]interface{}{
		1:  "Итого",
		7:  totalRevenue,
		8:  totalSalary,
		13: totalEnvelope,
	}
	for col, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(col, totalsRow)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return nil, fmt.Errorf("SiteSummaryXLSX: %w", err)
		}
	}

	title := fmt.Sprintf("%s — %s", site.Name, utils.FormatDateShort(site.Date))
	_ = f.SetDocProps(&excelize.DocProperties{Title: title})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("SiteSummaryXLSX: %w", err)
	}
	return buf.Bytes(), nil
}
