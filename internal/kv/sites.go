package kv

import (
	"context"
	"fmt"

	"Aquagrim/internal/models"
	"Aquagrim/internal/utils"
)

// CreateSite сохраняет площадку и индексирует ее по дате.
func (s *Store) CreateSite(ctx context.Context, site *models.Site) (*models.Site, error) {
	id, err := s.generateID(ctx, "site")
	if err != nil {
		return nil, err
	}
	site.ID = id
	now := utils.MoscowNow()
	site.CreatedAt = now
	site.UpdatedAt = now

	if err := s.setJSON(ctx, fmt.Sprintf(keySite, id), site); err != nil {
		return nil, err
	}
	if err := s.kv.SAdd(ctx, fmt.Sprintf(keySitesByDate, site.Date), id); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *Store) GetSiteByID(ctx context.Context, id string) (*models.Site, error) {
	var site models.Site
	found, err := s.getJSON(ctx, fmt.Sprintf(keySite, id), &site)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &site, nil
}

func (s *Store) UpdateSite(ctx context.Context, site *models.Site) error {
	site.UpdatedAt = utils.MoscowNow()
	return s.setJSON(ctx, fmt.Sprintf(keySite, site.ID), site)
}

// GetSitesByDate возвращает площадки на дату в порядке создания.
func (s *Store) GetSitesByDate(ctx context.Context, date string) ([]*models.Site, error) {
	ids, err := s.kv.SMembers(ctx, fmt.Sprintf(keySitesByDate, date))
	if err != nil {
		return nil, err
	}
	sortByIDSeq(ids)

	sites := make([]*models.Site, 0, len(ids))
	for _, id := range ids {
		site, err := s.GetSiteByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if site != nil {
			sites = append(sites, site)
		}
	}
	return sites, nil
}

// GetSitesByDateForUser фильтрует площадки по видимости: администратор
// видит все, обычный пользователь — только площадки, где он ответственный.
func (s *Store) GetSitesByDateForUser(ctx context.Context, date, userID string, isAdmin bool) ([]*models.Site, error) {
	sites, err := s.GetSitesByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		return sites, nil
	}
	visible := make([]*models.Site, 0, len(sites))
	for _, site := range sites {
		if site.ResponsibleUserID == userID {
			visible = append(visible, site)
		}
	}
	return visible, nil
}
