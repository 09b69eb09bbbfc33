package documents

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// SiteQRCard строит PNG с QR-кодом визитки площадки: название, дата,
// ответственный и телефон. Содержимое кодируется обычным текстом,
// чтобы читалось любым сканером.
func SiteQRCard(site *models.Site) ([]byte, error) {
	content := fmt.Sprintf("Площадка: %s\nДата: %s\nОтветственный: %s %s",
		site.Name, utils.FormatDateShort(site.Date), site.ResponsibleLastname, site.ResponsibleFirstname)
	if site.Phone != "" {
		content += "\nТелефон: " + site.Phone
	}

	png, err := qrcode.Encode(content, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("SiteQRCard: %w", err)
	}
	return png, nil
}
