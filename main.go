package main

import (
	"context"
	"log"
	"net/http"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/joho/godotenv"

	"Aquagrim/internal/api"
	"Aquagrim/internal/config"
	"Aquagrim/internal/documents"
	"Aquagrim/internal/flows"
	"Aquagrim/internal/handlers"
	"Aquagrim/internal/kv"
	"Aquagrim/internal/services"
	"Aquagrim/internal/telegram_api"
)

func main() {
	// --- Блок инициализации ---
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	ctx := context.Background()

	storeKV, err := kv.NewRedisKV(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать хранилище: %v", err)
	}
	store := kv.NewStore(storeKV)
	reportService := services.NewReportService(store)
	docGenerator := documents.NewGenerator(cfg.FontsDir)

	botClient, err := telegram_api.NewBotClient(cfg.TelegramToken, cfg.AppEnv == "dev")
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать Telegram бота: %v", err)
	}

	flowDeps := &flows.Deps{
		Store:   store,
		Reports: reportService,
		Bot:     botClient,
		Cfg:     cfg,
	}
	botHandler := handlers.NewBotHandler(handlers.HandlerDependencies{
		Config:    cfg,
		Bot:       botClient,
		Store:     store,
		Reports:   reportService,
		Documents: docGenerator,
		Flows:     flowDeps,
	})

	// --- HTTP API в отдельной горутине ---
	router := api.NewRouter(api.ApiDependencies{Store: store})
	go func() {
		log.Printf("Запуск HTTP-сервера API на порту %s", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
			log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
		}
	}()

	// --- Цикл обновлений бота ---
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botClient.GetUpdatesChan(u)

	log.Println("Бот и API-сервер запущены и готовы к работе...")

	// Обновления одного чата выполняются последовательно, разные чаты —
	// параллельно: иначе два быстрых сообщения наперегонки читают одну
	// сессию и теряют шаги диалога.
	dispatcher := handlers.NewChatDispatcher()
	for update := range updates {
		if update.Message != nil {
			msg := update.Message
			log.Printf("[%s] %s", msg.From.UserName, msg.Text)
			dispatcher.Dispatch(msg.Chat.ID, func() { botHandler.HandleMessage(ctx, msg) })
		} else if update.CallbackQuery != nil {
			cb := update.CallbackQuery
			log.Printf("Callback от %s: %s", cb.From.UserName, cb.Data)
			dispatcher.Dispatch(cb.Message.Chat.ID, func() { botHandler.HandleCallbackQuery(ctx, cb) })
		}
	}
}
