package services

import (
	"context"
	"fmt"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/finance"
	"Aquagrim/internal/kv"
	"Aquagrim/internal/models"
)

// ReassignBestRevenueBonus переназначает бонус за лучшую выручку среди
// отчетов площадки за дату. Запускается перед каждой генерацией сводки.
//
// Правила: бонус существует только при двух и более отчетах; держит его
// ровно один отчет — с максимальной выручкой, при равенстве побеждает
// созданный раньше (меньший числовой суффикс id). Запись делается только
// при фактическом изменении, конверт пересчитывается у затронутых.
//
// Два конкурентных вызова могут перезаписать друг друга; операция
// идемпотентна от текущего состояния, побеждает последняя запись.
func (r *ReportService) ReassignBestRevenueBonus(ctx context.Context, actorUserID, siteID, date string) error {
	reports, err := r.store.GetReportsBySite(ctx, siteID, date)
	if err != nil {
		return fmt.Errorf("ReassignBestRevenueBonus: %w", err)
	}

	var winner *models.DailyReport
	if len(reports) >= 2 {
		for _, report := range reports {
			if winner == nil ||
				report.TotalRevenue > winner.TotalRevenue ||
				(report.TotalRevenue == winner.TotalRevenue && kv.IDSeq(report.ID) < kv.IDSeq(winner.ID)) {
				winner = report
			}
		}
	}

	changed := false
	for _, report := range reports {
		var want int64
		if winner != nil && report.ID == winner.ID {
			want = constants.BEST_REVENUE_BONUS_AMOUNT
		}
		if report.BestRevenueBonus == want {
			continue
		}
		report.BestRevenueBonus = want
		report.CashInEnvelope = finance.CashInEnvelope(
			report.CashAmount,
			report.BonusByTargets,
			report.BonusPenalty,
			report.ResponsibleSalaryBonus,
			report.BestRevenueBonus,
		)
		if err := r.store.UpdateReport(ctx, report); err != nil {
			return fmt.Errorf("ReassignBestRevenueBonus: отчет %s: %w", report.ID, err)
		}
		changed = true
	}

	if changed && winner != nil {
		if _, err := r.store.CreateLog(ctx, actorUserID, constants.LOG_BEST_BONUS_REASSIGNED,
			nil,
			map[string]any{"site_id": siteID, "date": date, "winner_report_id": winner.ID},
			winner.ID,
		); err != nil {
			return fmt.Errorf("ReassignBestRevenueBonus: лог: %w", err)
		}
	}
	return nil
}
