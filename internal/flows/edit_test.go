package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Aquagrim/internal/constants"
	"Aquagrim/internal/models"
	"Aquagrim/internal/services"
)

func setupReport(t *testing.T, f *flowFixture, site *models.Site, lastname string, qr, cash int64) *models.DailyReport {
	t.Helper()
	report := &models.DailyReport{
		SiteID:   site.ID,
		Date:     site.Date,
		Lastname: lastname, Firstname: "Петр",
		QRAmount: qr, CashAmount: cash,
	}
	services.Recalculate(report, site)
	report, err := f.store.CreateReport(f.ctx, report)
	require.NoError(t, err)
	return report
}

func TestEditFieldChangeLogsAndDefersSave(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "5000")
	report := setupReport(t, f, site, "Иванов", 1000, 2000)

	f.deps.OpenReportForEditing(f.ctx, testChatID, f.user, report.ID)
	assert.Equal(t, constants.STATE_EDIT_MENU, f.session(t).State)

	f.deps.SelectEditField(f.ctx, testChatID, f.user, f.session(t), constants.FIELD_CASH_AMOUNT)
	assert.Equal(t, constants.STATE_EDIT_FIELD, f.session(t).State)

	f.deps.HandleEditFieldInput(f.ctx, testChatID, f.user, f.session(t), "7000")

	// правка записана в журнал сразу
	logs, err := f.store.GetLogsByReport(f.ctx, report.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, constants.LOG_FIELD_EDITED, logs[0].ActionType)
	assert.Equal(t, constants.FIELD_CASH_AMOUNT, logs[0].PayloadAfter["field"])

	// но в хранилище отчет не тронут до завершения редактирования
	stored, err := f.store.GetReportByID(f.ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), stored.CashAmount)

	f.deps.FinishEditing(f.ctx, testChatID, f.user, f.session(t))

	stored, err = f.store.GetReportByID(f.ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), stored.CashAmount)
	assert.Equal(t, int64(8000), stored.TotalRevenue, "производные поля пересчитаны")
	assert.Equal(t, int64(500), stored.BonusByTargets)

	session, err := f.store.GetSession(f.ctx, testChatID)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestEditUnchangedValueNotLogged(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "")
	report := setupReport(t, f, site, "Иванов", 1000, 2000)

	f.deps.OpenReportForEditing(f.ctx, testChatID, f.user, report.ID)
	f.deps.SelectEditField(f.ctx, testChatID, f.user, f.session(t), constants.FIELD_LASTNAME)
	f.deps.HandleEditFieldInput(f.ctx, testChatID, f.user, f.session(t), "Иванов")

	logs, err := f.store.GetLogsByReport(f.ctx, report.ID)
	require.NoError(t, err)
	assert.Empty(t, logs, "совпадающее значение не попадает в журнал")
	assert.Equal(t, constants.STATE_EDIT_MENU, f.session(t).State, "меню показывается снова")
}

func TestEditInvalidAmountKeepsFieldState(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "")
	report := setupReport(t, f, site, "Иванов", 1000, 2000)

	f.deps.OpenReportForEditing(f.ctx, testChatID, f.user, report.ID)
	f.deps.SelectEditField(f.ctx, testChatID, f.user, f.session(t), constants.FIELD_QR_AMOUNT)
	f.deps.HandleEditFieldInput(f.ctx, testChatID, f.user, f.session(t), "не число")

	assert.Equal(t, constants.STATE_EDIT_FIELD, f.session(t).State)
	assert.Equal(t, constants.FIELD_QR_AMOUNT, f.session(t).Context.Edit.CurrentField)
}

func TestEditByLastnameSearch(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "")
	report := setupReport(t, f, site, "Иванов", 1000, 2000)

	f.deps.EditByLastname(f.ctx, testChatID, f.user)
	assert.Equal(t, constants.STATE_EDIT_ENTER_LASTNAME, f.session(t).State)

	// единственный найденный отчет открывается сразу, без списка
	f.deps.HandleEditLastnameInput(f.ctx, testChatID, f.user, "иванов")
	session := f.session(t)
	assert.Equal(t, constants.STATE_EDIT_MENU, session.State)
	require.NotNil(t, session.Context.Edit)
	assert.Equal(t, report.ID, session.Context.Edit.ReportID)
}

func TestBonusFlowAutoSelectsSingleSite(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "")
	setupReport(t, f, site, "Иванов", 1000, 2000)

	f.deps.StartBonusFlow(f.ctx, testChatID, f.user)

	session := f.session(t)
	assert.Equal(t, constants.STATE_BONUS_SELECT_EMPLOYEE, session.State, "единственная площадка выбирается сразу")
	require.NotNil(t, session.Context.Bonus)
	assert.Equal(t, site.ID, session.Context.Bonus.SiteID)
}

func TestStaleEditButtonAfterNewFlowStart(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "")
	report := setupReport(t, f, site, "Иванов", 1000, 200)

	f.deps.OpenReportForEditing(f.ctx, testChatID, f.user, report.ID)
	f.deps.SelectEditField(f.ctx, testChatID, f.user, f.session(t), constants.FIELD_CASH_AMOUNT)
	f.deps.HandleEditFieldInput(f.ctx, testChatID, f.user, f.session(t), "9999")

	f.deps.StartMorningFill(f.ctx, testChatID, f.user)

	// нажатие кнопки "Завершить редактирование" из брошенного меню
	f.deps.FinishEditing(f.ctx, testChatID, f.user, f.session(t))

	stored, err := f.store.GetReportByID(f.ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), stored.CashAmount, "брошенная рабочая копия не сохраняется")

	session := f.session(t)
	assert.Equal(t, constants.STATE_MORNING_FILL_SITE_NAME, session.State, "активный поток не обрывается")
	assert.Nil(t, session.Context.Edit)
}

func TestEditByLastnameDeduplicatesByFullName(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "")
	setupReport(t, f, site, "Иванов", 1000, 2000)
	second := &models.DailyReport{
		SiteID: site.ID, Date: site.Date,
		Lastname: "Иванов", Firstname: "Сергей",
		QRAmount: 500, CashAmount: 700,
	}
	services.Recalculate(second, site)
	second, err := f.store.CreateReport(f.ctx, second)
	require.NoError(t, err)

	f.deps.EditByLastname(f.ctx, testChatID, f.user)
	f.deps.HandleEditLastnameInput(f.ctx, testChatID, f.user, "иванов")

	assert.Contains(t, f.bot.lastText(), "несколько сотрудников")
	session := f.session(t)
	require.NotNil(t, session.Context.Edit)
	require.Equal(t, []string{"Иванов Петр", "Иванов Сергей"}, session.Context.Edit.Candidates)

	f.deps.EditPersonSelected(f.ctx, testChatID, f.user, session, "1")

	session = f.session(t)
	require.NotNil(t, session.Context.Edit.Report)
	assert.Equal(t, second.ID, session.Context.Edit.Report.ID)
	assert.Equal(t, "Сергей", session.Context.Edit.Report.Firstname)
}

func TestEditForeignSiteDeniedForRegularUser(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "5000")
	report := setupReport(t, f, site, "Иванов", 1000, 2000)

	outsider, err := f.store.CreateUser(f.ctx, 777, "outsider", constants.ROLE_USER)
	require.NoError(t, err)

	f.deps.OpenReportForEditing(f.ctx, 777, outsider, report.ID)

	assert.Contains(t, f.bot.lastText(), "только отчеты своих площадок")
	session, err := f.store.GetSession(f.ctx, 777)
	require.NoError(t, err)
	assert.Nil(t, session)
	logs, err := f.store.GetLogsByReport(f.ctx, report.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestEditOwnSiteAllowedForRegularUser(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "5000")
	report := setupReport(t, f, site, "Иванов", 1000, 2000)

	f.user.Role = constants.ROLE_USER
	require.NoError(t, f.store.UpdateUser(f.ctx, f.user))

	f.deps.OpenReportForEditing(f.ctx, testChatID, f.user, report.ID)

	session := f.session(t)
	assert.Equal(t, constants.STATE_EDIT_MENU, session.State)
	require.NotNil(t, session.Context.Edit)
	assert.Equal(t, report.ID, session.Context.Edit.ReportID)
}

func TestEditByLastnameNotFound(t *testing.T) {
	f := newFlowFixture(t)
	f.deps.EditByLastname(f.ctx, testChatID, f.user)
	f.deps.HandleEditLastnameInput(f.ctx, testChatID, f.user, "Неизвестный")

	assert.Equal(t, constants.STATE_EDIT_ENTER_LASTNAME, f.session(t).State, "можно ввести другую фамилию")
	assert.Contains(t, f.bot.lastText(), "не найдены")
}

func TestBonusPenaltyFlowForRegularEmployee(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "")
	report := setupReport(t, f, site, "Иванов", 0, 5000)

	f.deps.StartBonusFlow(f.ctx, testChatID, f.user)
	f.deps.BonusSiteSelected(f.ctx, testChatID, f.user, site.ID)
	f.deps.BonusEmployeeSelected(f.ctx, testChatID, f.user, f.session(t), report.ID)

	// обычный сотрудник — без выбора типа, сразу ввод суммы
	session := f.session(t)
	assert.Equal(t, constants.STATE_BONUS_INPUT_AMOUNT, session.State)
	assert.Equal(t, constants.BONUS_TYPE_PENALTY, session.Context.Bonus.BonusType)

	f.deps.HandleBonusAmountInput(f.ctx, testChatID, f.user, f.session(t), "-300")

	updated, err := f.store.GetReportByID(f.ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-300), updated.BonusPenalty)
	assert.Equal(t, int64(5300), updated.CashInEnvelope, "штраф увеличивает конверт")
}

func TestBonusFlowResponsibleGetsTypeChoice(t *testing.T) {
	f := newFlowFixture(t)
	site := setupSite(t, f, "")
	report := &models.DailyReport{SiteID: site.ID, Date: site.Date, Lastname: "Иванов", CashAmount: 5000, IsResponsible: true}
	services.Recalculate(report, site)
	report, err := f.store.CreateReport(f.ctx, report)
	require.NoError(t, err)

	f.deps.StartBonusFlow(f.ctx, testChatID, f.user)
	f.deps.BonusSiteSelected(f.ctx, testChatID, f.user, site.ID)
	f.deps.BonusEmployeeSelected(f.ctx, testChatID, f.user, f.session(t), report.ID)

	session := f.session(t)
	assert.Equal(t, constants.STATE_BONUS_SELECT_TYPE, session.State, "ответственному предлагается выбор канала")

	f.deps.BonusTypeSelected(f.ctx, testChatID, f.user, session, constants.BONUS_TYPE_RESPONSIBLE_SALARY)
	assert.Equal(t, constants.STATE_BONUS_INPUT_AMOUNT, f.session(t).State)

	// отрицательная сумма для зарплаты ответственного отвергается
	f.deps.HandleBonusAmountInput(f.ctx, testChatID, f.user, f.session(t), "-100")
	assert.Equal(t, constants.STATE_BONUS_INPUT_AMOUNT, f.session(t).State)

	f.deps.HandleBonusAmountInput(f.ctx, testChatID, f.user, f.session(t), "1200")
	updated, err := f.store.GetReportByID(f.ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), updated.ResponsibleSalaryBonus)
	assert.Equal(t, int64(3800), updated.CashInEnvelope)
}
