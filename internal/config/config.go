package config

import (
	"errors"
	"fmt"

	"futuresbot/internal/tools"

	"github.com/spf13/viper"
)

// Config - структура конфигурации бота
type Config struct {
	TgToken     string `mapstructure:"tg_token"`
	AdminChatID int64  `mapstructure:"admin_chat_id"`
	DbPath      string `mapstructure:"db_path"`
	BaseURL     string `mapstructure:"base_url"` // REST API Binance Futures
	WsURL       string `mapstructure:"ws_url"`   // стрим пользовательских данных
	RecvWindow  int    `mapstructure:"recv_window_ms"`
	Timezone    string `mapstructure:"timezone"` // зона для времени сделок в уведомлениях

	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"` // пусто = stdout
	LogMaxSizeMb  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`
	LogCompress   bool   `mapstructure:"log_compress"`
}

// LoadConfig - загрузка конфигурации через Viper
func LoadConfig() (Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Значения по умолчанию
	viper.SetDefault("db_path", "bindings.db")
	viper.SetDefault("base_url", "https://fapi.binance.com")
	viper.SetDefault("ws_url", "wss://fstream.binance.com/ws")
	viper.SetDefault("recv_window_ms", 5000)
	viper.SetDefault("timezone", "Local")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("log_max_size_mb", 50)
	viper.SetDefault("log_max_backups", 3)
	viper.SetDefault("log_max_age_days", 14)

	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			tools.LogErrorf("конфигурационный файл не найден")
			return Config{}, errors.New("конфигурационный файл не найден")
		} else {
			return Config{}, fmt.Errorf("ошибка чтения конфигурации: %v", err)
		}
	}

	viper.AutomaticEnv()

	var cfg Config
	err = viper.Unmarshal(&cfg)
	if err != nil {
		tools.LogErrorf("ошибка разбора конфигурации: %v", err)
		return Config{}, fmt.Errorf("ошибка разбора конфигурации: %v", err)
	}

	// Проверяем обязательные поля
	if cfg.TgToken == "" {
		return Config{}, errors.New("tg_token обязателен")
	}

	return cfg, nil
}
