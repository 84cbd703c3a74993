package main

import (
	"context"
	"flag"
	"log"

	"futuresbot/internal/config"
	"futuresbot/internal/exchange"
	"futuresbot/internal/logger"
)

func main() {
	apiKey := flag.String("key", "", "api-ключ Binance")
	secretKey := flag.String("secret", "", "секрет Binance")
	symbol := flag.String("symbol", "", "пара для истории ордеров, например BTCUSDT")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загружаем конфигурацию
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logLogger := logger.SetupLogger(cfg)
	client := exchange.NewClient(*apiKey, *secretKey, cfg, logLogger)

	account, err := client.GetAccount(ctx)
	if err != nil {
		log.Fatalf("Ошибка запроса счёта: %v", err)
	}

	log.Printf("Баланс счёта: %s USDT, нереализованный PnL: %s USDT",
		account.TotalWalletBalance, account.TotalUnrealizedProfit)
	for _, asset := range account.Assets {
		log.Printf("%s: %s", asset.Asset, asset.WalletBalance)
	}
	for _, pos := range account.Positions {
		if pos.EntryPrice == "0" || pos.EntryPrice == "0.0" {
			continue
		}
		log.Printf("позиция %s: объём %s, вход %s, PnL %s",
			pos.Symbol, pos.PositionAmt, pos.EntryPrice, pos.UnrealizedProfit)
	}

	balances, err := client.GetBalances(ctx)
	if err != nil {
		log.Fatalf("Ошибка запроса балансов: %v", err)
	}
	for _, bal := range balances {
		if bal.Balance == "0" || bal.Balance == "0.00000000" {
			continue
		}
		log.Printf("баланс %s: %s, доступно %s", bal.Asset, bal.Balance, bal.AvailableBalance)
	}

	if *symbol != "" {
		orders, err := client.GetAllOrders(ctx, *symbol, 10)
		if err != nil {
			log.Fatalf("Ошибка запроса истории ордеров: %v", err)
		}
		for _, order := range orders {
			log.Printf("ордер №%d %s: %s %s, объём %s, цена %s, статус %s",
				order.OrderID, order.Symbol, order.Side, order.Type,
				order.OrigQty, order.Price, order.Status)
		}
	}
}
