package notifier

import (
	"fmt"
	"strings"
	"time"

	"futuresbot/internal/exchange"
	"futuresbot/internal/tools"
)

// FormatAccountUpdate - текст уведомления об изменении балансов
func FormatAccountUpdate(label string, acc *exchange.AccountUpdate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Аккаунт: %s", label)
	for _, bal := range acc.Balances {
		fmt.Fprintf(&sb, "\n%s %s", bal.WalletBalance, bal.Asset)
	}
	return sb.String()
}

// FormatOrderUpdate - текст уведомления об изменении ордера
func FormatOrderUpdate(label string, order *exchange.OrderTradeUpdate, loc *time.Location) string {
	symbol := strings.Replace(order.Symbol, "USDT", "-USDT", 1)
	return fmt.Sprintf("Аккаунт: %s\n"+
		"пара: %s\n"+
		"направление: %s\n"+
		"объём: %s\n"+
		"средняя цена: %s\n"+
		"статус: %s\n"+
		"ордер: №%d\n"+
		"время сделки: %s",
		label, symbol, exchange.SideLabel(order.Side), order.OrigQty, order.AvgPrice,
		exchange.StatusLabel(order.Status), order.OrderID,
		tools.FormatEventTime(order.TradeTime, loc))
}
