package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/models"
)

func newTestStore() *Store {
	return NewStore(NewMemoryKV())
}

func TestGenerateIDSequence(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	id1, err := s.generateID(ctx, "report")
	require.NoError(t, err)
	id2, err := s.generateID(ctx, "report")
	require.NoError(t, err)
	siteID, err := s.generateID(ctx, "site")
	require.NoError(t, err)

	assert.Equal(t, "report_1", id1)
	assert.Equal(t, "report_2", id2)
	assert.Equal(t, "site_1", siteID, "счетчики независимы по типам")
}

func TestIDSeq(t *testing.T) {
	assert.Equal(t, int64(12), IDSeq("report_12"))
	assert.Equal(t, int64(3), IDSeq("site_3"))
	assert.Zero(t, IDSeq("мусор"))
}

func TestCreateAndFindUser(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, 42, "ivan", constants.ROLE_USER)
	require.NoError(t, err)
	assert.Equal(t, "user_1", user.ID)

	found, err := s.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "ivan", found.Username)

	missing, err := s.GetUserByTelegramID(ctx, 777)
	require.NoError(t, err)
	assert.Nil(t, missing, "отсутствие пользователя — не ошибка")
}

func TestGetAdmins(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.CreateUser(ctx, 1, "a", constants.ROLE_USER)
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, 2, "b", constants.ROLE_ADMIN)
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, 3, "c", constants.ROLE_SUPERADMIN)
	require.NoError(t, err)

	admins, err := s.GetAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, constants.ROLE_ADMIN, admins[0].Role)
	assert.Equal(t, constants.ROLE_SUPERADMIN, admins[1].Role)
}

func TestSessionMerge(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.UpdateSession(ctx, 42, "user_1", constants.STATE_MORNING_FILL_SITE_NAME, &models.SessionContext{
		Flow:    constants.FLOW_MORNING,
		Morning: &models.MorningFillContext{SiteName: "Парк"},
	})
	require.NoError(t, err)

	// обновление другой ветки не затирает накопленный утренний контекст
	session, err := s.UpdateSession(ctx, 42, "", constants.STATE_MORNING_FILL_BONUS_TARGETS, &models.SessionContext{
		Morning: &models.MorningFillContext{SiteName: "Парк", BonusTargets: "1000,2000"},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.FLOW_MORNING, session.Context.Flow, "пустой Flow в патче не затирает текущий")
	assert.Equal(t, constants.STATE_MORNING_FILL_BONUS_TARGETS, session.State)
	assert.Equal(t, "1000,2000", session.Context.Morning.BonusTargets)

	// смена потока обнуляет контексты остальных потоков
	session, err = s.UpdateSession(ctx, 42, "", constants.STATE_EVENING_FILL_LASTNAME, &models.SessionContext{
		Flow:    constants.FLOW_EVENING,
		Evening: &models.EveningFillContext{SiteID: "site_1"},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.FLOW_EVENING, session.Context.Flow)
	assert.Equal(t, "site_1", session.Context.Evening.SiteID)
	assert.Nil(t, session.Context.Morning, "брошенный утренний контекст не переживает смену потока")
}

func TestSessionSingletonPerUser(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.UpdateSession(ctx, 42, "user_1", constants.STATE_MORNING_FILL_SITE_NAME, nil)
	require.NoError(t, err)
	_, err = s.UpdateSession(ctx, 42, "user_1", constants.STATE_BONUS_SELECT_SITE, nil)
	require.NoError(t, err)

	session, err := s.GetSession(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, constants.STATE_BONUS_SELECT_SITE, session.State, "новая сессия перезаписывает старую")

	require.NoError(t, s.ClearSession(ctx, 42))
	session, err = s.GetSession(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestReportIndexes(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	site := &models.Site{Name: "Парк", Date: "2026-08-30"}
	site, err := s.CreateSite(ctx, site)
	require.NoError(t, err)

	r1, err := s.CreateReport(ctx, &models.DailyReport{SiteID: site.ID, Date: site.Date, Lastname: "Иванов", Firstname: "Петр"})
	require.NoError(t, err)
	r2, err := s.CreateReport(ctx, &models.DailyReport{SiteID: site.ID, Date: site.Date, Lastname: "Сидоров", Firstname: "Олег"})
	require.NoError(t, err)

	bySite, err := s.GetReportsBySite(ctx, site.ID, site.Date)
	require.NoError(t, err)
	require.Len(t, bySite, 2)
	assert.Equal(t, r1.ID, bySite[0].ID, "отчеты идут в порядке создания")
	assert.Equal(t, r2.ID, bySite[1].ID)

	// поиск по фамилии без учета регистра
	byName, err := s.GetReportsByLastname(ctx, "иванов")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, r1.ID, byName[0].ID)
}

func TestUpdateReportReindexesLastname(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	report, err := s.CreateReport(ctx, &models.DailyReport{SiteID: "site_1", Date: "2026-08-30", Lastname: "Иванов"})
	require.NoError(t, err)

	report.Lastname = "Петров"
	require.NoError(t, s.UpdateReport(ctx, report))

	old, err := s.GetReportsByLastname(ctx, "Иванов")
	require.NoError(t, err)
	assert.Empty(t, old, "старая фамилия больше не находит отчет")

	renamed, err := s.GetReportsByLastname(ctx, "Петров")
	require.NoError(t, err)
	require.Len(t, renamed, 1)
	assert.Equal(t, report.ID, renamed[0].ID)
}

func TestLogsNewestFirst(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.CreateLog(ctx, "user_1", constants.LOG_FIELD_EDITED, nil, map[string]any{"field": "lastname"}, "report_1")
	require.NoError(t, err)
	_, err = s.CreateLog(ctx, "user_1", constants.LOG_BONUS_PENALTY_ADDED, nil, nil, "report_1")
	require.NoError(t, err)

	logs, err := s.GetLogsByReport(ctx, "report_1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, constants.LOG_BONUS_PENALTY_ADDED, logs[0].ActionType, "новые записи первыми")

	byUser, err := s.GetLogsByUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
}

func TestGetSitesByDateForUser(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	s1, err := s.CreateSite(ctx, &models.Site{Name: "Парк", Date: "2026-08-30", ResponsibleUserID: "user_1"})
	require.NoError(t, err)
	_, err = s.CreateSite(ctx, &models.Site{Name: "ТЦ", Date: "2026-08-30", ResponsibleUserID: "user_2"})
	require.NoError(t, err)

	all, err := s.GetSitesByDateForUser(ctx, "2026-08-30", "user_1", true)
	require.NoError(t, err)
	assert.Len(t, all, 2, "администратор видит все площадки")

	own, err := s.GetSitesByDateForUser(ctx, "2026-08-30", "user_1", false)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, s1.ID, own[0].ID)
}
