package documents

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"Aquagrim/internal/models"
)

func testSite() *models.Site {
	return &models.Site{
		ID:                   "site_1",
		Name:                 "Парк",
		Date:                 "2026-08-30",
		ResponsibleLastname:  "Иванов",
		ResponsibleFirstname: "Петр",
		Phone:                "+79991234567",
	}
}

func TestSiteSummaryXLSX(t *testing.T) {
	g := NewGenerator("fonts")
	terminal := int64(1000)
	reports := []*models.DailyReport{
		{
			Lastname: "Иванов", Firstname: "Петр", QRNumber: "QR-1",
			QRAmount: 3000, CashAmount: 4000, TerminalAmount: &terminal,
			TotalRevenue: 8000, Salary: 1600, BonusByTargets: 500,
			CashInEnvelope: 3500, Comment: "ок",
		},
		{
			Lastname: "Сидоров", Firstname: "Олег",
			QRAmount: 1000, CashAmount: 2000,
			TotalRevenue: 3000, Salary: 600,
			CashInEnvelope: 2000,
		},
	}

	data, err := g.SiteSummaryXLSX(testSite(), reports)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Сводка"
	cell, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Фамилия", cell)

	cell, err = f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Иванов", cell)

	cell, err = f.GetCellValue(sheet, "G3")
	require.NoError(t, err)
	assert.Equal(t, "3000", cell)

	// строка итогов: выручка 8000+3000
	cell, err = f.GetCellValue(sheet, "G4")
	require.NoError(t, err)
	assert.Equal(t, "11000", cell)

	cell, err = f.GetCellValue(sheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Итого", cell)
}

func TestSiteQRCard(t *testing.T) {
	png, err := SiteQRCard(testSite())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "результат — валидный PNG")
}

func TestSiteSummaryPDFMissingFonts(t *testing.T) {
	g := NewGenerator("/nonexistent")
	_, err := g.SiteSummaryPDF(testSite(), nil)
	assert.Error(t, err, "отсутствие шрифтов — ошибка, а не тихий PDF без кириллицы")
}
