package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"futuresbot/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
}

// TelegramLogger - отправка служебных сообщений в админский чат
type TelegramLogger struct {
	Token  string
	ChatID int64
}

func NewTelegramLogger(token string, chatID int64) *TelegramLogger {
	return &TelegramLogger{
		Token:  token,
		ChatID: chatID,
	}
}

func (t *TelegramLogger) SendMessage(message string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.Token)
	body := fmt.Sprintf(`{"chat_id": "%d", "text": "%s"}`, t.ChatID, message)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer([]byte(body)))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	return nil
}

// logHook - хук для Logrus
type logHook struct {
	Telegram *TelegramLogger
}

func (h *logHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel}
}

func (h *logHook) Fire(entry *logrus.Entry) error {
	message := fmt.Sprintf("[%s] %s", entry.Level.String(), entry.Message)
	return h.Telegram.SendMessage(message)
}

// logrusLogger - основная реализация логгера
type logrusLogger struct {
	logger   *logrus.Logger
	telegram *TelegramLogger
}

func SetupLogger(cfg config.Config) Logger {
	log := logrus.New()

	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	// Лог в файл с ротацией либо в консоль
	var writer io.Writer
	if cfg.LogFile != "" {
		writer = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMb,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
			LocalTime:  true,
		}
	} else {
		writer = os.Stdout
	}
	log.SetOutput(writer)

	// Хук для Telegram (только Error и Fatal)
	var tgLogger *TelegramLogger
	if cfg.AdminChatID != 0 {
		tgLogger = NewTelegramLogger(cfg.TgToken, cfg.AdminChatID)
		log.AddHook(&logHook{Telegram: tgLogger})
	}

	return &logrusLogger{
		logger:   log,
		telegram: tgLogger,
	}
}

// Implementing Logger interface methods
func (l *logrusLogger) Info(msg string) {
	l.logger.Info(msg)
}

func (l *logrusLogger) Warn(msg string) {
	l.logger.Warn(msg)
}

func (l *logrusLogger) Error(msg string) {
	l.logger.Error(msg)
}

func (l *logrusLogger) Fatal(msg string) {
	l.logger.Fatal(msg)
}
