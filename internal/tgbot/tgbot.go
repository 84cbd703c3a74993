package tgbot

import (
	"context"
	"fmt"
	"time"

	"futuresbot/internal/buffer"
	"futuresbot/internal/config"
	"futuresbot/internal/logger"
	"futuresbot/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const helpText = "/help = список команд\n" +
	"/balance = баланс счёта\n" +
	"/orders = позиции и ордера\n" +
	"/bind = привязать API"

type TelegramBot struct {
	api      *tgbotapi.BotAPI
	cfg      config.Config
	repo     repository.BindingRepository
	sessions *BindSessions
	ringBuf  buffer.Buffer
	limiter  *rate.Limiter
	logger   logger.Logger
	onBind   func() // дёргаем после успешной привязки, чтобы подписчик стартовал сразу
}

// NewTelegramBot - инициализация бота с длинным опросом
func NewTelegramBot(cfg config.Config, repo repository.BindingRepository, ringBuf buffer.Buffer, logLogger logger.Logger, onBind func()) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TgToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к Telegram API: %w", err)
	}

	return newTelegramBot(api, cfg, repo, ringBuf, logLogger, onBind), nil
}

func newTelegramBot(api *tgbotapi.BotAPI, cfg config.Config, repo repository.BindingRepository, ringBuf buffer.Buffer, logLogger logger.Logger, onBind func()) *TelegramBot {
	return &TelegramBot{
		api:      api,
		cfg:      cfg,
		repo:     repo,
		sessions: NewBindSessions(),
		ringBuf:  ringBuf,
		// Телеграм ограничивает отправку примерно 30 сообщениями в секунду
		limiter: rate.NewLimiter(rate.Every(40*time.Millisecond), 5),
		logger:  logLogger,
		onBind:  onBind,
	}
}

// Start - основной цикл обработки апдейтов
func (tb *TelegramBot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := tb.api.GetUpdatesChan(u)
	tb.logger.Info(fmt.Sprintf("Телеграм бот запущен: @%s", tb.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			tb.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			tb.handleMessage(ctx, update.Message)
		}
	}
}

func (tb *TelegramBot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		tb.send(ctx, msg.Chat.ID, "Добро пожаловать в Trading bot!")
		tb.send(ctx, msg.Chat.ID, helpText)
	case "help":
		tb.send(ctx, msg.Chat.ID, helpText)
	case "balance":
		// Запросы к бирже долгие, не блокируем цикл апдейтов
		go tb.handleBalance(ctx, msg)
	case "orders":
		go tb.handleOrders(ctx, msg)
	case "bind":
		tb.handleBind(ctx, msg)
	case "logs":
		tb.handleLogs(ctx, msg)
	case "":
		if msg.Text != "" {
			tb.handleText(ctx, msg)
		}
	default:
		tb.send(ctx, msg.Chat.ID, "Неизвестная команда")
	}
}

// handleLogs - последние строки лога, только для админского чата
func (tb *TelegramBot) handleLogs(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.ID != tb.cfg.AdminChatID {
		tb.send(ctx, msg.Chat.ID, "Неизвестная команда")
		return
	}
	tb.send(ctx, msg.Chat.ID, "Последние сообщения:\n"+tb.ringBuf.GetMessages())
}

// send - отправка сообщения с учётом лимита Telegram
func (tb *TelegramBot) send(ctx context.Context, chatID int64, text string) {
	if err := tb.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := tb.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		tb.logger.Warn(fmt.Sprintf("Ошибка отправки сообщения в чат %d: %v", chatID, err))
	}
}
