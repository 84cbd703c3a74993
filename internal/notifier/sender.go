package notifier

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"futuresbot/internal/logger"
)

// Sender - доставка уведомлений в чат.
// Сбой доставки не валит подписчика: логируем и продолжаем.
type Sender struct {
	token  string
	client *http.Client
	logger logger.Logger
}

func NewSender(token string, logLogger logger.Logger) *Sender {
	return &Sender{
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logLogger,
	}
}

func (s *Sender) Send(chatID int64, text string) {
	sendURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage?chat_id=%d&text=%s",
		s.token, chatID, url.QueryEscape(text))

	resp, err := s.client.Get(sendURL)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("Ошибка отправки уведомления в чат %d: %v", chatID, err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn(fmt.Sprintf("Ошибка отправки уведомления в чат %d: %s", chatID, resp.Status))
	}
}
