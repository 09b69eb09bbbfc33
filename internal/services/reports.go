// Пакет services — мутации отчетов: редактирование с пересчетом,
// бонусы/штрафы, переназначение бонуса за лучшую выручку.
package services

import (
	"context"
	"fmt"
	"log"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/finance"
	"Aquagrim/internal/models"
)

// Store — срез операций хранилища, нужных сервисам. Реализуется *kv.Store.
type Store interface {
	GetSiteByID(ctx context.Context, id string) (*models.Site, error)
	GetReportByID(ctx context.Context, id string) (*models.DailyReport, error)
	GetReportsBySite(ctx context.Context, siteID, date string) ([]*models.DailyReport, error)
	UpdateReport(ctx context.Context, report *models.DailyReport) error
	CreateLog(ctx context.Context, userID, actionType string, before, after map[string]any, reportID string) (*models.Log, error)
}

type ReportService struct {
	store Store
}

func NewReportService(store Store) *ReportService {
	return &ReportService{store: store}
}

// Recalculate заполняет производные поля отчета от его сырых сумм и планок
// площадки. Ручные начисления (bonus_penalty, responsible_salary_bonus,
// best_revenue_bonus) не трогает, но конверт учитывает их все.
func Recalculate(report *models.DailyReport, site *models.Site) {
	result := finance.Calculate(finance.CalculationInput{
		QRAmount:       report.QRAmount,
		CashAmount:     report.CashAmount,
		TerminalAmount: report.TerminalOrZero(),
		BonusPenalty:   report.BonusPenalty,
	})

	report.TotalRevenue = result.TotalRevenue
	report.Salary = result.Salary
	report.ResponsibleSalary = result.ResponsibleSalary
	report.TotalDaily = result.TotalDaily
	report.TotalCash = result.TotalCash
	report.TotalQR = result.TotalQR

	targets := ""
	if site != nil {
		targets = site.BonusTargets
	}
	report.BonusByTargets = finance.BonusByTargets(report.TotalRevenue, targets)

	report.CashInEnvelope = finance.CashInEnvelope(
		report.CashAmount,
		report.BonusByTargets,
		report.BonusPenalty,
		report.ResponsibleSalaryBonus,
		report.BestRevenueBonus,
	)
}

// SaveEditedReport сохраняет отредактированную копию отчета: полный пересчет
// производных полей и запись в хранилище. Записи field_edited в истории
// делаются в момент правки поля, не здесь.
func (r *ReportService) SaveEditedReport(ctx context.Context, report *models.DailyReport) error {
	site, err := r.store.GetSiteByID(ctx, report.SiteID)
	if err != nil {
		return fmt.Errorf("SaveEditedReport: %w", err)
	}
	Recalculate(report, site)
	if err := r.store.UpdateReport(ctx, report); err != nil {
		return fmt.Errorf("SaveEditedReport: %w", err)
	}
	return nil
}

// ApplyBonusPenalty добавляет знаковую сумму к накопленному бонусу/штрафу
// отчета и пересчитывает конверт.
func (r *ReportService) ApplyBonusPenalty(ctx context.Context, actorUserID, reportID string, amount int64) (*models.DailyReport, error) {
	report, err := r.store.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("ApplyBonusPenalty: отчет %s не найден", reportID)
	}

	before := report.BonusPenalty
	report.BonusPenalty += amount
	report.CashInEnvelope = finance.CashInEnvelope(
		report.CashAmount,
		report.BonusByTargets,
		report.BonusPenalty,
		report.ResponsibleSalaryBonus,
		report.BestRevenueBonus,
	)
	if err := r.store.UpdateReport(ctx, report); err != nil {
		return nil, err
	}

	if _, err := r.store.CreateLog(ctx, actorUserID, constants.LOG_BONUS_PENALTY_ADDED,
		map[string]any{"bonus_penalty": before},
		map[string]any{"bonus_penalty": report.BonusPenalty, "delta": amount},
		report.ID,
	); err != nil {
		log.Printf("ApplyBonusPenalty: не удалось записать лог для отчета %s: %v", report.ID, err)
	}
	return report, nil
}

// ApplyResponsibleSalary устанавливает начисление ответственному
// (заменяющее, только положительное) и пересчитывает конверт.
func (r *ReportService) ApplyResponsibleSalary(ctx context.Context, actorUserID, reportID string, amount int64) (*models.DailyReport, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("ApplyResponsibleSalary: сумма должна быть положительной")
	}

	report, err := r.store.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("ApplyResponsibleSalary: отчет %s не найден", reportID)
	}
	if !report.IsResponsible {
		return nil, fmt.Errorf("ApplyResponsibleSalary: отчет %s не принадлежит ответственному", reportID)
	}

	before := report.ResponsibleSalaryBonus
	report.ResponsibleSalaryBonus = amount
	report.CashInEnvelope = finance.CashInEnvelope(
		report.CashAmount,
		report.BonusByTargets,
		report.BonusPenalty,
		report.ResponsibleSalaryBonus,
		report.BestRevenueBonus,
	)
	if err := r.store.UpdateReport(ctx, report); err != nil {
		return nil, err
	}

	if _, err := r.store.CreateLog(ctx, actorUserID, constants.LOG_RESPONSIBLE_SALARY_SET,
		map[string]any{"responsible_salary_bonus": before},
		map[string]any{"responsible_salary_bonus": amount},
		report.ID,
	); err != nil {
		log.Printf("ApplyResponsibleSalary: не удалось записать лог для отчета %s: %v", report.ID, err)
	}
	return report, nil
}
