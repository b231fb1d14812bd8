package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// SlotConfig описание слота в YAML файле
type SlotConfig struct {
	ID    int    `yaml:"id"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type slotsFile struct {
	Slots []SlotConfig `yaml:"slots"`
}

type Config struct {
	Environment         string
	Storage             string
	DBDSN               string
	HTTPAddr            string
	TelegramToken       string
	AdminTelegramIDs    []int64
	SlotsFile           string
	SeedFile            string
	LockTimeout         time.Duration
	LockPoolConns       int
	RequestTimeout      time.Duration
	AvailabilityWorkers int
	RoomStatusSyncCron  string
	Location            *time.Location

	// Slots пуст, если SLOTS_FILE не задан: используется набор по умолчанию
	Slots []SlotConfig
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из функции чтения переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:        getenv("ENV"),
		Storage:            strings.ToLower(getenv("STORAGE")),
		DBDSN:              getenv("DB_DSN"),
		HTTPAddr:           getenv("HTTP_ADDR"),
		TelegramToken:      getenv("TELEGRAM_TOKEN"),
		SlotsFile:          getenv("SLOTS_FILE"),
		SeedFile:           getenv("SEED_FILE"),
		RoomStatusSyncCron: getenv("ROOM_STATUS_SYNC_CRON"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Storage == "" {
		cfg.Storage = StoragePostgres
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.RoomStatusSyncCron == "" {
		cfg.RoomStatusSyncCron = "*/5 * * * *"
	}

	switch cfg.Storage {
	case StoragePostgres:
		// Проверяем обязательные поля
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage)
	}

	var err error
	if cfg.LockTimeout, err = durationOr(getenv("LOCK_TIMEOUT"), 5*time.Second); err != nil {
		return nil, fmt.Errorf("LOCK_TIMEOUT: %w", err)
	}
	if cfg.LockTimeout <= 0 {
		return nil, fmt.Errorf("LOCK_TIMEOUT must be positive")
	}

	// Соединения advisory lock живут в отдельном пуле
	if cfg.LockPoolConns, err = intOr(getenv("LOCK_POOL_CONNS"), 4); err != nil {
		return nil, fmt.Errorf("LOCK_POOL_CONNS: %w", err)
	}
	if cfg.LockPoolConns <= 0 {
		return nil, fmt.Errorf("LOCK_POOL_CONNS must be positive")
	}

	if cfg.RequestTimeout, err = durationOr(getenv("REQUEST_TIMEOUT"), 15*time.Second); err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if cfg.RequestTimeout <= cfg.LockTimeout {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be greater than LOCK_TIMEOUT")
	}

	if cfg.AvailabilityWorkers, err = intOr(getenv("AVAILABILITY_WORKERS"), 8); err != nil {
		return nil, fmt.Errorf("AVAILABILITY_WORKERS: %w", err)
	}

	if cfg.AdminTelegramIDs, err = parseIDs(getenv("ADMIN_TELEGRAM_IDS")); err != nil {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_IDS: %w", err)
	}

	tz := getenv("TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	if cfg.SlotsFile != "" {
		if cfg.Slots, err = LoadSlots(cfg.SlotsFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadSlots читает набор слотов из YAML файла
func LoadSlots(path string) ([]SlotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slots file: %w", err)
	}

	var file slotsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse slots file: %w", err)
	}
	if len(file.Slots) == 0 {
		return nil, fmt.Errorf("slots file %s defines no slots", path)
	}

	return file.Slots, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsProduction проверяет окружение
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func durationOr(value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	return time.ParseDuration(value)
}

func intOr(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}

func parseIDs(value string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
