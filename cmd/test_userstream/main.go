package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"futuresbot/internal/config"
	"futuresbot/internal/exchange"
	"futuresbot/internal/logger"
)

func main() {
	apiKey := flag.String("key", "", "api-ключ Binance")
	secretKey := flag.String("secret", "", "секрет Binance")
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

	listenKey, err := client.StartUserDataStream(ctx)
	if err != nil {
		log.Fatalf("Ошибка получения listenKey: %v", err)
	}
	log.Printf("listenKey: %s", listenKey)

	log.Println("Запуск подписки на стрим пользовательских данных...")
	eventCh := make(chan exchange.Event, 100)
	err = client.SubscribeUserData(ctx, listenKey, eventCh)
	if err != nil {
		log.Fatalf("Ошибка подписки на стрим: %v", err)
	}

	// Основной цикл вывода
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Println("Остановка подписки...")
				return
			case event, ok := <-eventCh:
				if !ok {
					return
				}
				log.Printf("Событие: %s, время: %d", event.Type, event.Time)
			}
		}
	}()

	// Настраиваем graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Получен сигнал завершения, останавливаем...")
	cancel()
}
