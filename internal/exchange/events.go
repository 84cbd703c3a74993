package exchange

import (
	"encoding/json"
	"fmt"
)

// Типы событий стрима пользовательских данных
const (
	EventAccountUpdate    = "ACCOUNT_UPDATE"
	EventOrderTradeUpdate = "ORDER_TRADE_UPDATE"
	EventListenKeyExpired = "listenKeyExpired"
)

// Event - одно событие стрима пользовательских данных
type Event struct {
	Type    string
	Time    int64
	Account *AccountUpdate
	Order   *OrderTradeUpdate
}

// EventBalance - изменение баланса внутри ACCOUNT_UPDATE
type EventBalance struct {
	Asset          string `json:"a"`
	WalletBalance  string `json:"wb"`
	CrossWalletBal string `json:"cw"`
	BalanceChange  string `json:"bc"`
}

// EventPosition - изменение позиции внутри ACCOUNT_UPDATE
type EventPosition struct {
	Symbol           string `json:"s"`
	PositionAmt      string `json:"pa"`
	EntryPrice       string `json:"ep"`
	UnrealizedProfit string `json:"up"`
	PositionSide     string `json:"ps"`
}

// AccountUpdate - payload события ACCOUNT_UPDATE
type AccountUpdate struct {
	Reason    string          `json:"m"`
	Balances  []EventBalance  `json:"B"`
	Positions []EventPosition `json:"P"`
}

// OrderTradeUpdate - payload события ORDER_TRADE_UPDATE
type OrderTradeUpdate struct {
	Symbol          string `json:"s"`
	ClientOrderID   string `json:"c"`
	Side            string `json:"S"`
	OrderType       string `json:"o"`
	TimeInForce     string `json:"f"`
	OrigQty         string `json:"q"`
	Price           string `json:"p"`
	AvgPrice        string `json:"ap"`
	StopPrice       string `json:"sp"`
	ExecutionType   string `json:"x"`
	Status          string `json:"X"`
	OrderID         int64  `json:"i"`
	LastFilledQty   string `json:"l"`
	CumFilledQty    string `json:"z"`
	LastFilledPrice string `json:"L"`
	CommissionAsset string `json:"N"`
	Commission      string `json:"n"`
	TradeTime       int64  `json:"T"`
	TradeID         int64  `json:"t"`
	IsMaker         bool   `json:"m"`
	IsReduceOnly    bool   `json:"R"`
	WorkingType     string `json:"wt"`
	PositionSide    string `json:"ps"`
	IsClosePosition bool   `json:"cp"`
	ActivationPrice string `json:"AP"`
	CallbackRate    string `json:"cr"`
	RealizedProfit  string `json:"rp"`
}

// Сырой конверт события: вид payload зависит от eventType
type eventEnvelope struct {
	EventType string            `json:"e"`
	EventTime int64             `json:"E"`
	Account   *AccountUpdate    `json:"a"`
	Order     *OrderTradeUpdate `json:"o"`
}

// ParseEvent - разбор сообщения стрима по полю eventType
func ParseEvent(data []byte) (Event, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Event{}, fmt.Errorf("не удалось декодировать событие: %w, тело: %s", err, string(data))
	}
	if envelope.EventType == "" {
		return Event{}, fmt.Errorf("событие без eventType: %s", string(data))
	}

	return Event{
		Type:    envelope.EventType,
		Time:    envelope.EventTime,
		Account: envelope.Account,
		Order:   envelope.Order,
	}, nil
}
