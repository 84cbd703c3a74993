package exchange

import (
	"testing"
)

func TestParseEventOrderTradeUpdate(t *testing.T) {
	payload := []byte(`{
		"e": "ORDER_TRADE_UPDATE",
		"E": 1716800001234,
		"T": 1716800001230,
		"o": {
			"s": "BTCUSDT",
			"c": "web_abc",
			"S": "SELL",
			"o": "LIMIT",
			"f": "GTC",
			"q": "0.002",
			"p": "61000",
			"ap": "61000.5",
			"sp": "0",
			"x": "TRADE",
			"X": "FILLED",
			"i": 8886774,
			"l": "0.002",
			"z": "0.002",
			"L": "61000.5",
			"N": "USDT",
			"n": "0.048",
			"T": 1716800001230,
			"t": 1203,
			"m": false,
			"R": false,
			"wt": "CONTRACT_PRICE",
			"ps": "BOTH",
			"cp": false,
			"rp": "1.25"
		}
	}`)

	event, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}

	if event.Type != EventOrderTradeUpdate {
		t.Errorf("Type = %s", event.Type)
	}
	if event.Time != 1716800001234 {
		t.Errorf("Time = %d", event.Time)
	}
	if event.Order == nil {
		t.Fatal("Order = nil")
	}
	order := event.Order
	if order.Symbol != "BTCUSDT" || order.Side != Sell || order.Status != Filled {
		t.Errorf("order = %+v", order)
	}
	if order.OrderID != 8886774 || order.TradeTime != 1716800001230 {
		t.Errorf("OrderID = %d, TradeTime = %d", order.OrderID, order.TradeTime)
	}
	if order.AvgPrice != "61000.5" || order.OrigQty != "0.002" || order.RealizedProfit != "1.25" {
		t.Errorf("order = %+v", order)
	}
}

func TestParseEventAccountUpdate(t *testing.T) {
	payload := []byte(`{
		"e": "ACCOUNT_UPDATE",
		"E": 1716800002000,
		"T": 1716800001995,
		"a": {
			"m": "ORDER",
			"B": [
				{"a": "USDT", "wb": "122.45", "cw": "100.12", "bc": "0"},
				{"a": "BNB", "wb": "0.5", "cw": "0.5", "bc": "0"}
			],
			"P": [
				{"s": "BTCUSDT", "pa": "0.002", "ep": "60000.0", "up": "-1.2", "ps": "BOTH"}
			]
		}
	}`)

	event, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}

	if event.Type != EventAccountUpdate {
		t.Errorf("Type = %s", event.Type)
	}
	if event.Account == nil {
		t.Fatal("Account = nil")
	}
	if len(event.Account.Balances) != 2 {
		t.Fatalf("Balances = %+v", event.Account.Balances)
	}
	if b := event.Account.Balances[0]; b.Asset != "USDT" || b.WalletBalance != "122.45" {
		t.Errorf("balance = %+v", b)
	}
	if p := event.Account.Positions[0]; p.Symbol != "BTCUSDT" || p.EntryPrice != "60000.0" {
		t.Errorf("position = %+v", p)
	}
}

func TestParseEventListenKeyExpired(t *testing.T) {
	event, err := ParseEvent([]byte(`{"e": "listenKeyExpired", "E": 1716800003000}`))
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if event.Type != EventListenKeyExpired {
		t.Errorf("Type = %s", event.Type)
	}
	if event.Account != nil || event.Order != nil {
		t.Error("payload должен быть пустым")
	}
}

func TestParseEventBad(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"не json", "not json"},
		{"без eventType", `{"E": 123}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEvent([]byte(tt.data)); err == nil {
				t.Error("ожидалась ошибка")
			}
		})
	}
}
