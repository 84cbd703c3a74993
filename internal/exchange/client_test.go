package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"futuresbot/internal/config"
)

type nopLogger struct{}

func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(string) {}
func (nopLogger) Fatal(string) {}

func testClient(apiKey, secret, baseURL string) *Client {
	cfg := config.Config{BaseURL: baseURL, WsURL: "ws://unused", RecvWindow: 5000}
	return NewClient(apiKey, secret, cfg, nopLogger{})
}

// Контрольный пример подписи из документации Binance
func TestSignKnownVector(t *testing.T) {
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	query := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"
	want := "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71"

	c := testClient("key", secret, "http://unused")
	if got := c.sign(query); got != want {
		t.Errorf("sign() = %s, want %s", got, want)
	}
}

func TestSignedRequest(t *testing.T) {
	const apiKey = "test-api-key"
	const secret = "test-secret"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-MBX-APIKEY"); got != apiKey {
			t.Errorf("X-MBX-APIKEY = %q, want %q", got, apiKey)
		}

		q := r.URL.Query()
		if q.Get("timestamp") == "" {
			t.Error("timestamp отсутствует в запросе")
		}
		if q.Get("recvWindow") != "5000" {
			t.Errorf("recvWindow = %q, want 5000", q.Get("recvWindow"))
		}

		// Пересчитываем подпись на стороне сервера
		signature := q.Get("signature")
		q.Del("signature")
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(q.Encode()))
		if want := hex.EncodeToString(mac.Sum(nil)); signature != want {
			t.Errorf("signature = %s, want %s", signature, want)
		}

		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := testClient(apiKey, secret, server.URL)
	body, err := c.signedRequest(context.Background(), http.MethodGet, "/fapi/v2/account", nil)
	if err != nil {
		t.Fatalf("signedRequest: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
}

func TestSignedRequestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":-2015,"msg":"Invalid API-key"}`))
	}))
	defer server.Close()

	c := testClient("bad", "bad", server.URL)
	_, err := c.signedRequest(context.Background(), http.MethodGet, "/fapi/v2/account", nil)
	if err == nil {
		t.Fatal("ожидалась ошибка API")
	}
}

func TestSignedRequestTruncatedBody(t *testing.T) {
	// Сервер обещает больше байт, чем отдаёт: обрыв тела должен стать ошибкой
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte(`{"trunc`))
	}))
	defer server.Close()

	c := testClient("key", "secret", server.URL)
	_, err := c.signedRequest(context.Background(), http.MethodGet, "/fapi/v2/account", nil)
	if err == nil {
		t.Fatal("ожидалась ошибка чтения ответа")
	}
	if !strings.Contains(err.Error(), "ошибка чтения ответа") {
		t.Errorf("err = %v", err)
	}
}

func TestGetAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fapi/v2/account" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"totalWalletBalance": "123.45600000",
			"totalUnrealizedProfit": "-1.20000000",
			"assets": [
				{"asset": "USDT", "walletBalance": "120.00000000"},
				{"asset": "BNB", "walletBalance": "0.50000000"}
			],
			"positions": [
				{"symbol": "BTCUSDT", "positionAmt": "0.002", "entryPrice": "60000.0", "unrealizedProfit": "-1.20000000"},
				{"symbol": "ETHUSDT", "positionAmt": "0", "entryPrice": "0.0", "unrealizedProfit": "0"}
			]
		}`))
	}))
	defer server.Close()

	c := testClient("key", "secret", server.URL)
	account, err := c.GetAccount(context.Background())
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}

	if account.TotalWalletBalance != "123.45600000" {
		t.Errorf("TotalWalletBalance = %s", account.TotalWalletBalance)
	}
	if len(account.Assets) != 2 || account.Assets[1].Asset != "BNB" {
		t.Errorf("Assets = %+v", account.Assets)
	}
	if len(account.Positions) != 2 || account.Positions[0].EntryPrice != "60000.0" {
		t.Errorf("Positions = %+v", account.Positions)
	}
}

func TestGetOpenOrders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fapi/v1/openOrders" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Has("symbol") {
			t.Error("symbol не должен передаваться, если не задан")
		}
		w.Write([]byte(`[
			{"symbol": "BTCUSDT", "orderId": 283194212, "price": "59000", "origQty": "0.002",
			 "status": "NEW", "type": "LIMIT", "side": "BUY", "time": 1716800000000}
		]`))
	}))
	defer server.Close()

	c := testClient("key", "secret", server.URL)
	orders, err := c.GetOpenOrders(context.Background(), "")
	if err != nil {
		t.Fatalf("GetOpenOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("len(orders) = %d", len(orders))
	}
	if orders[0].OrderID != 283194212 || orders[0].Side != Buy {
		t.Errorf("order = %+v", orders[0])
	}
}

func TestGetMarkPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol = %q", got)
		}
		w.Write([]byte(`{"symbol": "BTCUSDT", "markPrice": "60123.40000000"}`))
	}))
	defer server.Close()

	c := testClient("key", "secret", server.URL)
	index, err := c.GetMarkPrice(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("GetMarkPrice: %v", err)
	}
	if index.MarkPrice != "60123.40000000" {
		t.Errorf("MarkPrice = %s", index.MarkPrice)
	}
}
