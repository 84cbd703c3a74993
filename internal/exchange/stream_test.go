package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"futuresbot/internal/config"

	"github.com/gorilla/websocket"
)

func TestListenKeyLifecycle(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fapi/v1/listenKey" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("X-MBX-APIKEY") != "key" {
			t.Error("нет заголовка X-MBX-APIKEY")
		}
		if r.URL.Query().Get("signature") != "" {
			t.Error("listenKey не должен подписываться")
		}
		methods = append(methods, r.Method)
		w.Write([]byte(`{"listenKey":"pqia91ma19a5s61cv6a81va65sdf19v8a65a1a5s61cv6a81va65sdf19v8a65a1"}`))
	}))
	defer server.Close()

	c := testClient("key", "secret", server.URL)
	ctx := context.Background()

	listenKey, err := c.StartUserDataStream(ctx)
	if err != nil {
		t.Fatalf("StartUserDataStream: %v", err)
	}
	if !strings.HasPrefix(listenKey, "pqia91ma") {
		t.Errorf("listenKey = %s", listenKey)
	}
	if err := c.KeepAliveUserDataStream(ctx); err != nil {
		t.Fatalf("KeepAliveUserDataStream: %v", err)
	}
	if err := c.CloseUserDataStream(ctx); err != nil {
		t.Fatalf("CloseUserDataStream: %v", err)
	}

	want := []string{http.MethodPost, http.MethodPut, http.MethodDelete}
	for i, m := range want {
		if i >= len(methods) || methods[i] != m {
			t.Fatalf("methods = %v, want %v", methods, want)
		}
	}
}

func TestStartUserDataStreamEmptyKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := testClient("key", "secret", server.URL)
	if _, err := c.StartUserDataStream(context.Background()); err == nil {
		t.Fatal("ожидалась ошибка на пустой listenKey")
	}
}

func TestSubscribeUserData(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping websocket test in short mode")
	}

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/testkey" {
			t.Errorf("path = %s, want /testkey", r.URL.Path)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		event := `{"e":"ORDER_TRADE_UPDATE","E":1,"o":{"s":"BTCUSDT","S":"BUY","X":"NEW","i":42,"T":1}}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
			return
		}
		// Держим соединение, пока клиент не уйдёт
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	cfg := config.Config{BaseURL: server.URL, WsURL: wsURL}
	c := NewClient("key", "secret", cfg, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventCh := make(chan Event, 100)
	if err := c.SubscribeUserData(ctx, "testkey", eventCh); err != nil {
		t.Fatalf("SubscribeUserData: %v", err)
	}

	select {
	case event := <-eventCh:
		if event.Type != EventOrderTradeUpdate {
			t.Errorf("Type = %s", event.Type)
		}
		if event.Order == nil || event.Order.OrderID != 42 {
			t.Errorf("Order = %+v", event.Order)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("событие не пришло")
	}

	cancel()
	select {
	case _, ok := <-eventCh:
		if ok {
			// Дочитываем остаток до закрытия канала
			for range eventCh {
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("канал событий не закрылся после отмены контекста")
	}
}

func TestSubscribeUserDataEmptyListenKey(t *testing.T) {
	c := testClient("key", "secret", "http://unused")
	if err := c.SubscribeUserData(context.Background(), "", make(chan Event)); err == nil {
		t.Fatal("ожидалась ошибка на пустой listenKey")
	}
}
