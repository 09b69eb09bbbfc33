// Пакет documents — генерация выгрузок: PDF-сводка площадки, XLSX-таблица
// дня и QR-визитка площадки.
package documents

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"Aquagrim/internal/finance"
	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// Generator держит путь к каталогу шрифтов: для кириллицы в PDF нужен
// TTF-шрифт (DejaVuSans), встроенные шрифты PDF ее не покрывают.
type Generator struct {
	fontsDir string
}

func NewGenerator(fontsDir string) *Generator {
	return &Generator{fontsDir: fontsDir}
}

func (g *Generator) newPDF() (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font("DejaVu", "", filepath.Join(g.fontsDir, "DejaVuSans.ttf"))
	pdf.AddUTF8Font("DejaVu", "B", filepath.Join(g.fontsDir, "DejaVuSans-Bold.ttf"))
	if pdf.Err() {
		return nil, fmt.Errorf("newPDF: не удалось загрузить шрифты из %s: %v", g.fontsDir, pdf.Error())
	}
	return pdf, nil
}

// SiteSummaryPDF строит PDF-сводку площадки за день: таблица отчетов
// сотрудников и итоги. Перед вызовом должен быть переназначен бонус за
// лучшую выручку, иначе сводка зафиксирует устаревшие значения.
func (g *Generator) SiteSummaryPDF(site *models.Site, reports []*models.DailyReport) ([]byte, error) {
	pdf, err := g.newPDF()
	if err != nil {
		return nil, err
	}
	pdf.AddPage()

	pdf.SetFont("DejaVu", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Сводка по площадке: %s", site.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("DejaVu", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Дата: %s", utils.FormatDateShort(site.Date)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Ответственный: %s %s", site.ResponsibleLastname, site.ResponsibleFirstname), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Сотрудник", "QR", "Наличные", "Терминал", "Выручка", "Зарплата", "Бонусы", "Конверт"}
	widths := []float64{40, 18, 22, 20, 22, 22, 22, 24}

	pdf.SetFont("DejaVu", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	var totals models.DailyReport
	pdf.SetFont("DejaVu", "", 9)
	for _, r := range reports {
		bonuses := r.BonusByTargets + r.BonusPenalty + r.ResponsibleSalaryBonus + r.BestRevenueBonus
		cells := []string{
			r.FullName(),
			fmt.Sprintf("%d", r.QRAmount),
			fmt.Sprintf("%d", r.CashAmount),
			fmt.Sprintf("%d", r.TerminalOrZero()),
			fmt.Sprintf("%d", r.TotalRevenue),
			fmt.Sprintf("%d", r.Salary),
			fmt.Sprintf("%d", bonuses),
			fmt.Sprintf("%d", r.CashInEnvelope),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)

		totals.QRAmount += r.QRAmount
		totals.CashAmount += r.CashAmount
		totals.TotalRevenue += r.TotalRevenue
		totals.Salary += r.Salary
		totals.CashInEnvelope += r.CashInEnvelope
	}

	pdf.Ln(4)
	pdf.SetFont("DejaVu", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Итого выручка: %s", finance.FormatAmount(totals.TotalRevenue)), "", 1, "L", false, 0, "")
	pdf.SetFont("DejaVu", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Итого QR: %s", finance.FormatAmount(totals.QRAmount)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Итого наличные: %s", finance.FormatAmount(totals.CashAmount)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Итого зарплаты: %s", finance.FormatAmount(totals.Salary)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Итого нал в конверте: %s", finance.FormatAmount(totals.CashInEnvelope)), "", 1, "L", false, 0, "")

	var signed []*models.DailyReport
	for _, r := range reports {
		if r.Signature != "" || r.ResponsibleSignature != "" {
			signed = append(signed, r)
		}
	}
	if len(signed) > 0 {
		pdf.Ln(4)
		pdf.SetFont("DejaVu", "B", 10)
		pdf.CellFormat(0, 6, "Подписи:", "", 1, "L", false, 0, "")
		pdf.SetFont("DejaVu", "", 9)
		for _, r := range signed {
			sig := r.Signature
			if sig == "" {
				sig = "—"
			}
			line := r.FullName() + ": " + sig
			if r.ResponsibleSignature != "" {
				line += fmt.Sprintf(" (ответственный: %s)", r.ResponsibleSignature)
			}
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("SiteSummaryPDF: %w", err)
	}
	return buf.Bytes(), nil
}
