package tgbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"futuresbot/internal/exchange"
	"futuresbot/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Минимальная длина склеенного ввода "метка+ключ+секрет":
// два ключа Binance по 64 символа плюс метка.
const minBindInputLen = 128

// handleBind - включение режима привязки для чата
func (tb *TelegramBot) handleBind(ctx context.Context, msg *tgbotapi.Message) {
	tb.sessions.Arm(msg.From.ID)
	tb.send(ctx, msg.Chat.ID, "Отправьте данные API: метка, ключ и секрет, каждый с новой строки.")
}

// parseBindInput - разбор ввода "метка\nключ\nсекрет"
func parseBindInput(text string) (label, key, secret string, ok bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if len(text) < minBindInputLen {
		return "", "", "", false
	}
	parts := strings.Split(text, "\n")
	if len(parts) < 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// handleText - захват свободного текста как данных API, если чат в режиме привязки
func (tb *TelegramBot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	if !tb.sessions.Armed(msg.From.ID) {
		return
	}

	label, key, secret, ok := parseBindInput(msg.Text)
	if !ok {
		// Похоже на случайное сообщение, ждём дальше
		return
	}

	// Дружелюбный ответ при повторной привязке; сам инвариант держит UNIQUE в базе
	exists, err := tb.repo.KeyExists(ctx, key)
	if err != nil {
		tb.logger.Error(fmt.Sprintf("Ошибка проверки api-ключа: %v", err))
	}
	if exists {
		tb.send(ctx, msg.Chat.ID, "Этот API уже привязан!")
		tb.sessions.Disarm(msg.From.ID)
		return
	}

	binding := repository.Binding{
		TelegramID: msg.From.ID,
		Label:      label,
		APIKey:     key,
		SecretKey:  secret,
		BotToken:   strings.ReplaceAll(tb.cfg.TgToken, ":", ""),
	}
	err = tb.repo.CreateBinding(ctx, binding)
	switch {
	case errors.Is(err, repository.ErrKeyBound):
		tb.send(ctx, msg.Chat.ID, "Этот API уже привязан!")
	case err != nil:
		tb.logger.Error(fmt.Sprintf("Ошибка привязки: %v", err))
		tb.send(ctx, msg.Chat.ID, "Не удалось выполнить привязку, попробуйте ещё раз.")
	default:
		tb.send(ctx, msg.Chat.ID, "Привязка выполнена.")
		if tb.onBind != nil {
			tb.onBind()
		}
	}
	tb.sessions.Disarm(msg.From.ID)
}

func displayLabel(b repository.Binding) string {
	if b.Label == "" {
		return "Аккаунт"
	}
	return b.Label
}

// handleBalance - отчёт о балансе счёта по всем привязкам пользователя
func (tb *TelegramBot) handleBalance(ctx context.Context, msg *tgbotapi.Message) {
	bindings, err := tb.repo.GetBindingsByUser(ctx, msg.From.ID)
	if err != nil {
		tb.logger.Error(fmt.Sprintf("Ошибка чтения привязок: %v", err))
		tb.send(ctx, msg.Chat.ID, "Не удалось получить данные, попробуйте позже.")
		return
	}
	if len(bindings) == 0 {
		tb.send(ctx, msg.Chat.ID, "Сначала привяжите API командой /bind")
		return
	}

	tb.send(ctx, msg.Chat.ID, "Идёт подсчёт активов, подождите.")

	accountTotal := decimal.Zero
	totalUSDT := decimal.Zero
	totalBNB := decimal.Zero

	for _, b := range bindings {
		client := exchange.NewClient(b.APIKey, b.SecretKey, tb.cfg, tb.logger)
		account, err := client.GetAccount(ctx)
		if err != nil {
			tb.logger.Error(fmt.Sprintf("Ошибка запроса счёта (%s): %v", displayLabel(b), err))
			tb.send(ctx, msg.Chat.ID, fmt.Sprintf("%s: не удалось получить данные счёта.", displayLabel(b)))
			continue
		}

		if wb, err := decimal.NewFromString(account.TotalWalletBalance); err == nil {
			accountTotal = accountTotal.Add(wb)
		}

		for _, asset := range account.Assets {
			balance, err := decimal.NewFromString(asset.WalletBalance)
			if err != nil || balance.IsZero() {
				continue
			}
			switch asset.Asset {
			case "USDT":
				totalUSDT = totalUSDT.Add(balance)
			case "BNB":
				totalBNB = totalBNB.Add(balance)
			}
			tb.send(ctx, msg.Chat.ID, fmt.Sprintf("%s: баланс: %s %s", displayLabel(b), asset.WalletBalance, asset.Asset))
		}
	}

	summary := fmt.Sprintf("%s: подсчёт завершён, итого: %s USDT\nUSDT: %s\nBNB: %s",
		displayLabel(bindings[0]), accountTotal.String(), totalUSDT.String(), totalBNB.String())
	tb.send(ctx, msg.Chat.ID, summary)
}

// handleOrders - отчёт о позициях и открытых ордерах по всем привязкам пользователя
func (tb *TelegramBot) handleOrders(ctx context.Context, msg *tgbotapi.Message) {
	bindings, err := tb.repo.GetBindingsByUser(ctx, msg.From.ID)
	if err != nil {
		tb.logger.Error(fmt.Sprintf("Ошибка чтения привязок: %v", err))
		tb.send(ctx, msg.Chat.ID, "Не удалось получить данные, попробуйте позже.")
		return
	}
	if len(bindings) == 0 {
		tb.send(ctx, msg.Chat.ID, "Сначала привяжите API командой /bind")
		return
	}

	tb.send(ctx, msg.Chat.ID, "Выполняется запрос ордеров, подождите.")

	haveOrders := false
	for _, b := range bindings {
		client := exchange.NewClient(b.APIKey, b.SecretKey, tb.cfg, tb.logger)

		account, err := client.GetAccount(ctx)
		if err != nil {
			tb.logger.Error(fmt.Sprintf("Ошибка запроса счёта (%s): %v", displayLabel(b), err))
			continue
		}
		for _, pos := range account.Positions {
			entry, err := strconv.ParseFloat(pos.EntryPrice, 64)
			if err != nil || entry == 0.0 {
				// Без позиции пара не интересна
				continue
			}
			posStr := fmt.Sprintf("%s: пара: %s\nобъём позиции: %s\nцена входа: %s\nнереализованный PnL: %s",
				displayLabel(b), pos.Symbol, pos.PositionAmt, pos.EntryPrice, pos.UnrealizedProfit)
			tb.send(ctx, msg.Chat.ID, posStr)
			haveOrders = true
		}

		orders, err := client.GetOpenOrders(ctx, "")
		if err != nil {
			tb.logger.Error(fmt.Sprintf("Ошибка запроса открытых ордеров (%s): %v", displayLabel(b), err))
			continue
		}
		for _, order := range orders {
			markPrice := "?"
			if index, err := client.GetMarkPrice(ctx, order.Symbol); err == nil {
				markPrice = index.MarkPrice
			}
			orderStr := fmt.Sprintf("%s: ордер №%d\nпара: %s\nтип: %s, статус: %s\nсторона: %s\nобъём: %s\nцена: %s\nтекущая цена: %s",
				displayLabel(b), order.OrderID, order.Symbol,
				exchange.TypeLabel(order.Type), exchange.StatusLabel(order.Status),
				exchange.SideLabel(order.Side), order.OrigQty, order.Price, markPrice)
			tb.send(ctx, msg.Chat.ID, orderStr)
			haveOrders = true
		}
	}

	if !haveOrders {
		tb.send(ctx, msg.Chat.ID, "Сейчас нет открытых позиций и ордеров, попробуйте позже.")
		return
	}
	tb.send(ctx, msg.Chat.ID, "Запрос ордеров завершён.")
}
