package kv

import (
	"context"
	"fmt"
	"strings"

	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// CreateReport сохраняет отчет и строит индексы по площадке-дате и по фамилии.
func (s *Store) CreateReport(ctx context.Context, report *models.DailyReport) (*models.DailyReport, error) {
	id, err := s.generateID(ctx, "report")
	if err != nil {
		return nil, err
	}
	report.ID = id
	now := utils.MoscowNow()
	report.CreatedAt = now
	report.UpdatedAt = now

	if err := s.setJSON(ctx, fmt.Sprintf(keyReport, id), report); err != nil {
		return nil, err
	}
	if err := s.kv.SAdd(ctx, fmt.Sprintf(keyReportsSite, report.SiteID, report.Date), id); err != nil {
		return nil, err
	}
	lastname := strings.ToLower(strings.TrimSpace(report.Lastname))
	if lastname != "" {
		if err := s.kv.SAdd(ctx, fmt.Sprintf(keyReportsByName, lastname), id); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (s *Store) GetReportByID(ctx context.Context, id string) (*models.DailyReport, error) {
	var report models.DailyReport
	found, err := s.getJSON(ctx, fmt.Sprintf(keyReport, id), &report)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &report, nil
}

// UpdateReport перезаписывает отчет. При смене фамилии переносит запись
// в индексе report:lastname.
func (s *Store) UpdateReport(ctx context.Context, report *models.DailyReport) error {
	prev, err := s.GetReportByID(ctx, report.ID)
	if err != nil {
		return err
	}
	report.UpdatedAt = utils.MoscowNow()
	if err := s.setJSON(ctx, fmt.Sprintf(keyReport, report.ID), report); err != nil {
		return err
	}

	newName := strings.ToLower(strings.TrimSpace(report.Lastname))
	if prev != nil {
		oldName := strings.ToLower(strings.TrimSpace(prev.Lastname))
		if oldName != newName && oldName != "" {
			if err := s.kv.SRem(ctx, fmt.Sprintf(keyReportsByName, oldName), report.ID); err != nil {
				return err
			}
		}
	}
	if newName != "" {
		if err := s.kv.SAdd(ctx, fmt.Sprintf(keyReportsByName, newName), report.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetReportsBySite возвращает отчеты площадки за дату в порядке создания.
func (s *Store) GetReportsBySite(ctx context.Context, siteID, date string) ([]*models.DailyReport, error) {
	ids, err := s.kv.SMembers(ctx, fmt.Sprintf(keyReportsSite, siteID, date))
	if err != nil {
		return nil, err
	}
	sortByIDSeq(ids)
	return s.loadReports(ctx, ids)
}

// GetReportsByLastname ищет отчеты по фамилии без учета регистра.
func (s *Store) GetReportsByLastname(ctx context.Context, lastname string) ([]*models.DailyReport, error) {
	ids, err := s.kv.SMembers(ctx, fmt.Sprintf(keyReportsByName, strings.ToLower(strings.TrimSpace(lastname))))
	if err != nil {
		return nil, err
	}
	sortByIDSeq(ids)
	return s.loadReports(ctx, ids)
}

func (s *Store) loadReports(ctx context.Context, ids []string) ([]*models.DailyReport, error) {
	reports := make([]*models.DailyReport, 0, len(ids))
	for _, id := range ids {
		report, err := s.GetReportByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if report != nil {
			reports = append(reports, report)
		}
	}
	return reports, nil
}
