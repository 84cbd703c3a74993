package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"futuresbot/internal/config"
	"futuresbot/internal/logger"

	"github.com/gorilla/websocket"
)

// Client - клиент для работы с Binance USDT-M Futures API.
// Ключи принадлежат одной привязке, поэтому на каждую привязку создаётся свой клиент.
type Client struct {
	apiKey     string
	secretKey  string
	baseURL    string
	wsURL      string
	recvWindow int
	client     *http.Client
	logger     logger.Logger

	// Состояние вебсокет-соединения стрима пользовательских данных
	conn        *websocket.Conn
	connMu      sync.RWMutex
	reconnectCh chan struct{}
	listenKey   string
}

// NewClient - конструктор клиента
func NewClient(apiKey, secretKey string, cfg config.Config, logLogger logger.Logger) *Client {
	return &Client{
		apiKey:      apiKey,
		secretKey:   secretKey,
		baseURL:     cfg.BaseURL,
		wsURL:       cfg.WsURL,
		recvWindow:  cfg.RecvWindow,
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      logLogger,
		reconnectCh: make(chan struct{}, 1),
	}
}

// sign - генерация HMAC-SHA256 подписи
func (c *Client) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// signedRequest - подписанный запрос: timestamp + recvWindow + signature, ключ в заголовке
func (c *Client) signedRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.recvWindow > 0 {
		params.Set("recvWindow", strconv.Itoa(c.recvWindow))
	}
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	signature := c.sign(params.Encode())
	params.Set("signature", signature)

	url := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	return c.do(ctx, method, url)
}

// keyedRequest - запрос с ключом в заголовке, но без подписи (listenKey и т.п.)
func (c *Client) keyedRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	url := c.baseURL + path
	if len(params) > 0 {
		url += "?" + params.Encode()
	}
	return c.do(ctx, method, url)
}

// publicRequest - публичный GET без подписи
func (c *Client) publicRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	url := c.baseURL + path
	if len(params) > 0 {
		url += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, url)
}

func (c *Client) do(ctx context.Context, method, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ошибка API: %s, тело: %s", resp.Status, string(body))
	}

	return body, nil
}
