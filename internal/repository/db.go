package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrKeyBound - такой API-ключ уже привязан
var ErrKeyBound = errors.New("api-ключ уже привязан")

// Binding представляет привязку API-ключей к пользователю Telegram
type Binding struct {
	TelegramID int64
	Label      string
	APIKey     string
	SecretKey  string
	BotToken   string
	CreatedAt  string
}

// BindingRepository определяет интерфейс для работы с привязками
type BindingRepository interface {
	Init(ctx context.Context) error
	CreateBinding(ctx context.Context, b Binding) error
	GetBindingsByUser(ctx context.Context, telegramID int64) ([]Binding, error)
	GetAllBindings(ctx context.Context) ([]Binding, error)
	KeyExists(ctx context.Context, apiKey string) (bool, error)
	Close() error
}

// SQLiteBindingRepository реализует BindingRepository с использованием SQLite
type SQLiteBindingRepository struct {
	db *sql.DB
}

// NewSQLiteBindingRepository создает новый экземпляр SQLiteBindingRepository
func NewSQLiteBindingRepository(dbPath string) (*SQLiteBindingRepository, error) {
	// busy_timeout, чтобы конкурентные вставки ждали, а не падали с "database is locked"
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	return &SQLiteBindingRepository{db: db}, nil
}

// Close закрывает соединение с базой
func (r *SQLiteBindingRepository) Close() error {
	return r.db.Close()
}

// Init создает таблицу привязок, если её ещё нет
func (r *SQLiteBindingRepository) Init(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS bindings (
            telegram_id INTEGER NOT NULL,
            label       TEXT,
            api_key     TEXT NOT NULL UNIQUE,
            secret_key  TEXT NOT NULL,
            bot_token   TEXT,
            created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// CreateBinding добавляет новую привязку.
// Уникальность api_key обеспечивает сама таблица, а не проверка перед вставкой.
func (r *SQLiteBindingRepository) CreateBinding(ctx context.Context, b Binding) error {
	query := `
        INSERT INTO bindings (telegram_id, label, api_key, secret_key, bot_token)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		b.TelegramID, b.Label, b.APIKey, b.SecretKey, b.BotToken,
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return ErrKeyBound
	}
	if err != nil {
		return err
	}
	return nil
}

// GetBindingsByUser получает привязки пользователя по Telegram ID
func (r *SQLiteBindingRepository) GetBindingsByUser(ctx context.Context, telegramID int64) ([]Binding, error) {
	query := `
        SELECT telegram_id, label, api_key, secret_key, bot_token, created_at
        FROM bindings WHERE telegram_id = ?
    `
	rows, err := r.db.QueryContext(ctx, query, telegramID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBindings(rows)
}

// GetAllBindings возвращает список всех привязок
func (r *SQLiteBindingRepository) GetAllBindings(ctx context.Context) ([]Binding, error) {
	query := `
        SELECT telegram_id, label, api_key, secret_key, bot_token, created_at
        FROM bindings
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBindings(rows)
}

// KeyExists проверяет, привязан ли уже такой api_key
func (r *SQLiteBindingRepository) KeyExists(ctx context.Context, apiKey string) (bool, error) {
	var one int
	query := "SELECT 1 FROM bindings WHERE api_key = ?"
	err := r.db.QueryRowContext(ctx, query, apiKey).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanBindings(rows *sql.Rows) ([]Binding, error) {
	var bindings []Binding
	for rows.Next() {
		var b Binding
		if err := rows.Scan(
			&b.TelegramID, &b.Label, &b.APIKey, &b.SecretKey, &b.BotToken, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, rows.Err()
}
