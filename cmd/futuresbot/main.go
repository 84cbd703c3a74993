package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"futuresbot/internal/buffer"
	"futuresbot/internal/config"
	"futuresbot/internal/logger"
	"futuresbot/internal/notifier"
	"futuresbot/internal/repository"
	"futuresbot/internal/tgbot"
	"futuresbot/internal/worker"
)

func main() {
	// Перенаправляем вывод в консоль и в буфер (чтобы потом отправить в телеграм)
	ringBuffer := buffer.NewRingBuffer(10)
	multiWriter := io.MultiWriter(os.Stdout, ringBuffer)
	log.SetOutput(multiWriter)

	// Создаём контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загружаем конфигурацию через Viper
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logLogger := logger.SetupLogger(cfg)

	// Хранилище привязок, таблица создаётся идемпотентно
	repo, err := repository.NewSQLiteBindingRepository(cfg.DbPath)
	if err != nil {
		log.Fatalf("Ошибка открытия базы привязок: %v", err)
	}
	defer repo.Close()
	if err := repo.Init(ctx); err != nil {
		log.Fatalf("Ошибка создания таблицы привязок: %v", err)
	}

	// Менеджер подписок на стримы пользовательских данных
	log.Println("Запуск подписчиков стримов...")
	manager, err := notifier.NewManager(cfg, repo, logLogger)
	if err != nil {
		log.Fatalf("Ошибка создания менеджера подписок: %v", err)
	}
	if err := manager.Start(ctx); err != nil {
		log.Fatalf("Ошибка запуска подписчиков: %v", err)
	}
	// Периодическая сверка поднимает новых и упавших подписчиков
	err = worker.Start(ctx, manager, time.Minute, logLogger)
	if err != nil {
		log.Fatalf("Ошибка запуска воркера сверки: %v", err)
	}

	// Инициализация Telegram бота
	bot, err := tgbot.NewTelegramBot(cfg, repo, ringBuffer, logLogger, manager.Kick)
	if err != nil {
		log.Fatalf("Ошибка инициализации Telegram бота: %v", err)
	}
	// Запускаем тг бота в отдельной горутине для неблокирующего вызова
	go func() {
		if err := bot.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Bot stopped with error: %v", err)
		}
	}()

	// Настраиваем graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Получен сигнал завершения, останавливаем бота...")
	cancel()
	manager.Wait()
	log.Println("Бот остановлен")
}
