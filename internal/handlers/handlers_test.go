package handlers

import (
	"context"
	"testing"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Aquagrim/internal/config"
	"Aquagrim/internal/constants"
	"Aquagrim/internal/documents"
	"Aquagrim/internal/flows"
	"Aquagrim/internal/kv"
	"Aquagrim/internal/models"
	"Aquagrim/internal/services"
	"Aquagrim/internal/utils"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) lastEdit() (tgbotapi.EditMessageTextConfig, bool) {
	for i := len(f.requests) - 1; i >= 0; i-- {
		if edit, ok := f.requests[i].(tgbotapi.EditMessageTextConfig); ok {
			return edit, true
		}
	}
	return tgbotapi.EditMessageTextConfig{}, false
}

func (f *fakeBot) lastText() string {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if msg, ok := f.sent[i].(tgbotapi.MessageConfig); ok {
			return msg.Text
		}
	}
	return ""
}

func newTestHandler(t *testing.T, superadmins ...int64) (*BotHandler, *fakeBot, *kv.Store) {
	t.Helper()
	store := kv.NewStore(kv.NewMemoryKV())
	bot := &fakeBot{}
	cfg := &config.Config{SuperadminIDs: superadmins, FontsDir: "fonts"}
	reports := services.NewReportService(store)
	handler := NewBotHandler(HandlerDependencies{
		Config:    cfg,
		Bot:       bot,
		Store:     store,
		Reports:   reports,
		Documents: documents.NewGenerator(cfg.FontsDir),
		Flows:     &flows.Deps{Store: store, Reports: reports, Bot: bot, Cfg: cfg},
	})
	return handler, bot, store
}

func textMessage(chatID int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{Text: text, From: &tgbotapi.User{ID: chatID, UserName: "tester"}}
	msg.Chat.ID = chatID
	return msg
}

func TestStartRegistersUser(t *testing.T) {
	handler, bot, store := newTestHandler(t)
	ctx := context.Background()

	handler.HandleMessage(ctx, textMessage(42, "/start"))

	user, err := store.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, constants.ROLE_USER, user.Role)
	assert.Contains(t, bot.lastText(), "Добро пожаловать")
}

func TestStartSuperadminGetsRole(t *testing.T) {
	handler, _, store := newTestHandler(t, 42)
	ctx := context.Background()

	handler.HandleMessage(ctx, textMessage(42, "/start"))

	user, err := store.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, constants.ROLE_SUPERADMIN, user.Role)
}

func TestAdminButtonsDeniedForRegularUser(t *testing.T) {
	handler, bot, _ := newTestHandler(t)
	ctx := context.Background()

	for _, btn := range []string{constants.BTN_BONUS, constants.BTN_ADMIN_PANEL} {
		handler.HandleMessage(ctx, textMessage(42, btn))
		assert.Equal(t, constants.AccessDeniedMessage, bot.lastText(), "кнопка %q", btn)
	}
}

func TestEditButtonAvailableToRegularUser(t *testing.T) {
	handler, bot, store := newTestHandler(t)
	ctx := context.Background()

	handler.HandleMessage(ctx, textMessage(42, constants.BTN_EDIT))

	session, err := store.GetSession(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, constants.STATE_EDIT_MENU, session.State)
	assert.Contains(t, bot.lastText(), "Как найти отчет")
}

func TestMorningButtonStartsFlow(t *testing.T) {
	handler, bot, store := newTestHandler(t)
	ctx := context.Background()

	handler.HandleMessage(ctx, textMessage(42, constants.BTN_MORNING_FILL))

	session, err := store.GetSession(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, constants.STATE_MORNING_FILL_SITE_NAME, session.State)
	assert.Contains(t, bot.lastText(), "название площадки")
}

func TestTextWithoutSessionShowsMenu(t *testing.T) {
	handler, bot, _ := newTestHandler(t)
	ctx := context.Background()

	handler.HandleMessage(ctx, textMessage(42, "случайный текст"))
	assert.Contains(t, bot.lastText(), constants.NoActiveFlowMessage)
}

func TestCancelWithoutSession(t *testing.T) {
	handler, bot, _ := newTestHandler(t)
	ctx := context.Background()

	handler.HandleMessage(ctx, textMessage(42, constants.BTN_CANCEL))
	assert.Equal(t, constants.NoActiveFlowMessage, bot.lastText())
}

func TestCancelConfirmClearsSession(t *testing.T) {
	handler, _, store := newTestHandler(t)
	ctx := context.Background()

	handler.HandleMessage(ctx, textMessage(42, constants.BTN_MORNING_FILL))
	handler.HandleMessage(ctx, textMessage(42, constants.BTN_CANCEL))

	callback := &tgbotapi.CallbackQuery{
		ID:   "cb1",
		Data: constants.CALLBACK_CONFIRM_CANCEL,
		From: &tgbotapi.User{ID: 42, UserName: "tester"},
		Message: func() *tgbotapi.Message {
			m := &tgbotapi.Message{MessageID: 1}
			m.Chat.ID = 42
			return m
		}(),
	}
	handler.HandleCallbackQuery(ctx, callback)

	session, err := store.GetSession(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestAdminPanelNavigationEditsMessageInPlace(t *testing.T) {
	handler, bot, store := newTestHandler(t, 1)
	ctx := context.Background()

	handler.HandleMessage(ctx, textMessage(1, "/start"))
	_, err := store.CreateSite(ctx, &models.Site{Name: "Парк Горького", Date: utils.MoscowDate()})
	require.NoError(t, err)

	sentBefore := len(bot.sent)
	callback := &tgbotapi.CallbackQuery{
		ID:   "cb1",
		Data: constants.CALLBACK_ADMIN_GET_PDF,
		From: &tgbotapi.User{ID: 1, UserName: "boss"},
		Message: func() *tgbotapi.Message {
			m := &tgbotapi.Message{MessageID: 7}
			m.Chat.ID = 1
			return m
		}(),
	}
	handler.HandleCallbackQuery(ctx, callback)

	edit, ok := bot.lastEdit()
	require.True(t, ok, "выбор площадки редактирует сообщение панели")
	assert.Equal(t, 7, edit.MessageID)
	assert.Contains(t, edit.Text, "Сводку по какой площадке")
	assert.Equal(t, sentBefore, len(bot.sent), "новое сообщение не отправляется")
}

func TestAdminPromotionBySuperadmin(t *testing.T) {
	handler, bot, store := newTestHandler(t, 1)
	ctx := context.Background()

	// регистрируем суперадмина и обычного пользователя
	handler.HandleMessage(ctx, textMessage(1, "/start"))
	handler.HandleMessage(ctx, textMessage(42, "/start"))

	callback := &tgbotapi.CallbackQuery{
		ID:   "cb1",
		Data: constants.CALLBACK_ADMIN_ADD_ADMIN,
		From: &tgbotapi.User{ID: 1, UserName: "boss"},
		Message: func() *tgbotapi.Message {
			m := &tgbotapi.Message{MessageID: 1}
			m.Chat.ID = 1
			return m
		}(),
	}
	handler.HandleCallbackQuery(ctx, callback)

	session, err := store.GetSession(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, constants.STATE_ADMIN_ADD_ADMIN, session.State)

	handler.HandleMessage(ctx, textMessage(1, "42"))

	promoted, err := store.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, constants.ROLE_ADMIN, promoted.Role)
	assert.Contains(t, bot.lastText(), "назначен администратором")
}
