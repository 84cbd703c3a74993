package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Таймеры для keep-alive ключа, пинга и планового переподключения
const (
	keepAliveInterval    = 30 * time.Minute
	reconnectInterval    = 12 * time.Hour
	pingInterval         = 3 * time.Minute
	readTimeout          = 10 * time.Minute
	maxReconnectAttempts = 5
)

type listenKeyResponse struct {
	ListenKey string `json:"listenKey"`
}

// StartUserDataStream - получить listenKey для стрима пользовательских данных
func (c *Client) StartUserDataStream(ctx context.Context) (string, error) {
	body, err := c.keyedRequest(ctx, http.MethodPost, "/fapi/v1/listenKey", nil)
	if err != nil {
		return "", err
	}

	var resp listenKeyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("не удалось декодировать ответ: %w, тело: %s", err, string(body))
	}
	if resp.ListenKey == "" {
		return "", fmt.Errorf("пустой listenKey в ответе: %s", string(body))
	}
	return resp.ListenKey, nil
}

// KeepAliveUserDataStream - продлить действие listenKey
func (c *Client) KeepAliveUserDataStream(ctx context.Context) error {
	_, err := c.keyedRequest(ctx, http.MethodPut, "/fapi/v1/listenKey", nil)
	return err
}

// CloseUserDataStream - закрыть стрим пользовательских данных
func (c *Client) CloseUserDataStream(ctx context.Context) error {
	_, err := c.keyedRequest(ctx, http.MethodDelete, "/fapi/v1/listenKey", nil)
	return err
}

// connectToWebsocket - подключение к стриму по текущему listenKey
func (c *Client) connectToWebsocket(ctx context.Context) error {
	c.connMu.RLock()
	url := c.wsURL + "/" + c.listenKey
	c.connMu.RUnlock()
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("ошибка подключения к вебсокету: %w", err)
	}

	// Биржа шлёт ping, отвечаем pong
	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
	})

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
	return nil
}

// reconnectMsg - неблокирующий сигнал на переподключение
func (c *Client) reconnectMsg() {
	select {
	case c.reconnectCh <- struct{}{}:
	default:
	}
}

// ping - периодический ping, чтобы соединение не закрывалось по неактивности
func (c *Client) ping(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.connMu.RLock()
				conn := c.conn
				c.connMu.RUnlock()
				if conn == nil {
					continue
				}
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					c.logger.Warn(fmt.Sprintf("Ошибка отправки ping: %v", err))
					c.reconnectMsg()
				}
			}
		}
	}()
}

// keepAlive - периодическое продление listenKey
func (c *Client) keepAlive(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.KeepAliveUserDataStream(ctx); err != nil {
					c.logger.Error(fmt.Sprintf("Ошибка продления listenKey: %v", err))
				}
			}
		}
	}()
}

// reissueListenKey - перевыпуск ключа после listenKeyExpired
func (c *Client) reissueListenKey(ctx context.Context) {
	listenKey, err := c.StartUserDataStream(ctx)
	if err != nil {
		c.logger.Error(fmt.Sprintf("Ошибка перевыпуска listenKey: %v", err))
		return
	}
	c.connMu.Lock()
	c.listenKey = listenKey
	c.connMu.Unlock()
}

// SubscribeUserData - подписка на стрим пользовательских данных.
// События пишутся в eventCh, соединение живёт до отмены контекста.
func (c *Client) SubscribeUserData(ctx context.Context, listenKey string, eventCh chan<- Event) error {
	if listenKey == "" {
		return fmt.Errorf("пустой listenKey")
	}
	c.listenKey = listenKey

	// Горутины для пинга и продления ключа
	c.ping(ctx)
	c.keepAlive(ctx)

	// Закрываем соединение при отмене контекста, чтобы не ждать дедлайна чтения
	go func() {
		<-ctx.Done()
		c.closeConn()
	}()

	// Запускаем горутину для обработки сообщений
	go func() {
		reconnectTimer := time.NewTimer(reconnectInterval)
		defer func() {
			reconnectTimer.Stop()
			close(eventCh)
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.Close()
				c.conn = nil
			}
			c.connMu.Unlock()
		}()

		// Первоначальное подключение
		if !c.connectWithRetries(ctx) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case <-c.reconnectCh:
				// Принудительное переподключение
				c.closeConn()
				if !c.connectWithRetries(ctx) {
					return
				}

			case <-reconnectTimer.C:
				// Плановое переподключение: биржа рвёт соединение раз в сутки
				c.reconnectMsg()
				reconnectTimer.Reset(reconnectInterval)

			default:
				// Чтение сообщений
				c.connMu.RLock()
				conn := c.conn
				c.connMu.RUnlock()
				if conn == nil {
					time.Sleep(100 * time.Millisecond)
					continue
				}

				conn.SetReadDeadline(time.Now().Add(readTimeout))
				_, msg, err := conn.ReadMessage()
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					c.logger.Error(fmt.Sprintf("Ошибка чтения сообщения: %v", err))
					c.reconnectMsg()
					continue
				}

				event, err := ParseEvent(msg)
				if err != nil {
					c.logger.Error(fmt.Sprintf("Ошибка разбора события: %v", err))
					continue
				}

				if event.Type == EventListenKeyExpired {
					c.logger.Warn("listenKey истёк, перевыпускаем и переподключаемся")
					c.reissueListenKey(ctx)
					c.reconnectMsg()
				}

				select {
				case eventCh <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *Client) closeConn() {
	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()
}

// connectWithRetries - подключение с ограниченным числом попыток
func (c *Client) connectWithRetries(ctx context.Context) bool {
	for attempt := 0; attempt < maxReconnectAttempts; attempt++ {
		if err := c.connectToWebsocket(ctx); err == nil {
			return true
		} else {
			c.logger.Error(fmt.Sprintf("Ошибка подключения к вебсокету: %v попытка: %d", err, attempt))
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Second * time.Duration(attempt+1)):
			continue
		}
	}
	c.logger.Error("Не удалось подключиться к вебсокету, попытки исчерпаны")
	return false
}
