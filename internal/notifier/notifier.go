package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"futuresbot/internal/config"
	"futuresbot/internal/exchange"
	"futuresbot/internal/logger"
	"futuresbot/internal/repository"
	"futuresbot/internal/tools"
)

// Manager держит по одному подписчику стрима на каждую привязку.
// Периодическая сверка с базой поднимает подписчиков для новых привязок
// и перезапускает упавших.
type Manager struct {
	cfg    config.Config
	repo   repository.BindingRepository
	sender *Sender
	logger logger.Logger
	loc    *time.Location

	ctx     context.Context
	mu      sync.Mutex
	running map[string]struct{} // ключ - api_key привязки
	wg      sync.WaitGroup
}

// NewManager - конструктор менеджера подписок
func NewManager(cfg config.Config, repo repository.BindingRepository, logLogger logger.Logger) (*Manager, error) {
	loc, err := tools.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("неизвестная таймзона %q: %w", cfg.Timezone, err)
	}

	return &Manager{
		cfg:     cfg,
		repo:    repo,
		sender:  NewSender(cfg.TgToken, logLogger),
		logger:  logLogger,
		loc:     loc,
		running: make(map[string]struct{}),
	}, nil
}

// Name - имя воркера для планировщика
func (m *Manager) Name() string {
	return "stream-reconcile"
}

// Start - запомнить контекст и поднять подписчиков для всех привязок
func (m *Manager) Start(ctx context.Context) error {
	m.ctx = ctx
	return m.Process(ctx)
}

// Kick - внеплановая сверка, дёргается после новой привязки
func (m *Manager) Kick() {
	if m.ctx == nil {
		return
	}
	go func() {
		if err := m.Process(m.ctx); err != nil {
			m.logger.Error(fmt.Sprintf("Ошибка сверки подписок: %v", err))
		}
	}()
}

// Process - одна сверка: запускаем подписчиков, которых не хватает
func (m *Manager) Process(ctx context.Context) error {
	bindings, err := m.repo.GetAllBindings(ctx)
	if err != nil {
		return fmt.Errorf("ошибка чтения привязок: %w", err)
	}

	for _, b := range bindings {
		m.mu.Lock()
		_, exists := m.running[b.APIKey]
		if !exists {
			m.running[b.APIKey] = struct{}{}
		}
		m.mu.Unlock()
		if exists {
			continue
		}

		m.logger.Info(fmt.Sprintf("Запуск подписчика для привязки %q", displayLabel(b)))
		m.wg.Add(1)
		go m.runSubscriber(m.ctx, b)
	}

	return nil
}

// Wait - ожидание завершения всех подписчиков
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) forget(apiKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.running, apiKey)
}

// runSubscriber - жизненный цикл одного подписчика стрима.
// После выхода привязка снимается с учёта, следующий Process поднимет её заново.
func (m *Manager) runSubscriber(ctx context.Context, b repository.Binding) {
	defer m.wg.Done()
	defer m.forget(b.APIKey)

	client := exchange.NewClient(b.APIKey, b.SecretKey, m.cfg, m.logger)

	listenKey, err := client.StartUserDataStream(ctx)
	if err != nil {
		m.logger.Error(fmt.Sprintf("Ошибка получения listenKey (%s): %v", displayLabel(b), err))
		return
	}

	eventCh := make(chan exchange.Event, 100)
	if err := client.SubscribeUserData(ctx, listenKey, eventCh); err != nil {
		m.logger.Error(fmt.Sprintf("Ошибка подписки на стрим (%s): %v", displayLabel(b), err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			client.CloseUserDataStream(context.Background())
			return
		case event, ok := <-eventCh:
			if !ok {
				m.logger.Warn(fmt.Sprintf("Стрим закрыт (%s), подписчик завершается", displayLabel(b)))
				return
			}
			m.handleEvent(b, event)
		}
	}
}

// handleEvent - формирование и отправка уведомления по одному событию
func (m *Manager) handleEvent(b repository.Binding, event exchange.Event) {
	switch event.Type {
	case exchange.EventAccountUpdate:
		if event.Account == nil {
			return
		}
		m.sender.Send(b.TelegramID, FormatAccountUpdate(displayLabel(b), event.Account))

	case exchange.EventOrderTradeUpdate:
		if event.Order == nil {
			return
		}
		m.sender.Send(b.TelegramID, FormatOrderUpdate(displayLabel(b), event.Order, m.loc))

	case exchange.EventListenKeyExpired:
		// Переподключение делает сам клиент, здесь только след в логе
		m.logger.Warn(fmt.Sprintf("listenKey истёк (%s)", displayLabel(b)))

	default:
		m.logger.Info(fmt.Sprintf("Неизвестное событие стрима: %s", event.Type))
	}
}

func displayLabel(b repository.Binding) string {
	if b.Label == "" {
		return "Аккаунт"
	}
	return b.Label
}
