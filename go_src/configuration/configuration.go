package configuration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ConfigPathEnv names the environment variable holding the config file path.
	ConfigPathEnv     = "TRADIER_CONFIG_PATH"
	DefaultConfigPath = "./config/config.json"

	EnvToken     = "TRADIER_TOKEN"
	EnvAccountID = "TRADIER_ACCOUNT_ID"
	EnvEndpoint  = "TRADIER_ENDPOINT"

	EnvTelegramBotToken = "TELEGRAM_BOT_TOKEN"

	DefaultSnapshotQueue = "balance-snapshots"
)

// Config struct to hold the configuration data
type Config struct {
	Tradier  Tradier  `json:"tradier"`
	Logging  Logging  `json:"logging"`
	Database Database `json:"database"`
	RabbitMQ RabbitMQ `json:"rabbitmq"`
	Watcher  Watcher  `json:"watcher"`
	Notify   Notify   `json:"notify"`
}

// Tradier holds the API credentials. Token and account id are usually left
// out of the file and supplied through the environment.
type Tradier struct {
	Token          string `json:"token"`
	AccountID      string `json:"account_id"`
	Endpoint       string `json:"endpoint"` // sandbox or brokerage
	TimeoutSeconds int    `json:"timeout_seconds"`
	BaseURL        string `json:"base_url,omitempty"` // overrides the endpoint URL
}

// Timeout returns the HTTP timeout, zero meaning the client default.
func (t Tradier) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// Logging struct
type Logging struct {
	Level         string `json:"level"` // e.g., "debug", "info", "warn", "error"
	FilePath      string `json:"file_path"`
	RotationSize  int    `json:"rotation_size"` // in MB
	MaxBackups    int    `json:"max_backups"`
	ConsoleOutput bool   `json:"console_output"`
}

// Database is the DuckDB file holding balance snapshots. ":memory:" or an
// empty name opens an in-memory database.
type Database struct {
	DBName string `json:"db_name"`
}

// RabbitMQ struct. An empty host disables publishing.
type RabbitMQ struct {
	Host        string        `json:"host"`
	Port        int           `json:"port"`
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	VirtualHost string        `json:"virtual_host"`
	Queues      []QueueConfig `json:"queues"`
}

// QueueConfig struct
type QueueConfig struct {
	Name       string `json:"name"`
	Durable    bool   `json:"durable"`
	AutoDelete bool   `json:"auto_delete"`
}

// Enabled reports whether a broker is configured.
func (r RabbitMQ) Enabled() bool {
	return r.Host != ""
}

// URL builds the amqp connection string.
func (r RabbitMQ) URL() string {
	vhost := r.VirtualHost
	if vhost == "" {
		vhost = "/"
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%d%s", r.Username, r.Password, r.Host, r.Port, vhost)
}

// Watcher configures the periodic balance snapshot job.
type Watcher struct {
	Enabled         bool   `json:"enabled"`
	Timezone        string `json:"timezone"`
	IntervalSeconds int    `json:"interval_seconds"`
	Queue           string `json:"queue"`
	MarketHoursOnly bool   `json:"market_hours_only"` // skip snapshots while the market clock is not open
}

// Interval returns the period between two snapshots.
func (w Watcher) Interval() time.Duration {
	return time.Duration(w.IntervalSeconds) * time.Second
}

// QueueName returns the snapshot queue, defaulting to balance-snapshots.
func (w Watcher) QueueName() string {
	if w.Queue == "" {
		return DefaultSnapshotQueue
	}
	return w.Queue
}

// Notify sends a plain-text summary of every stored snapshot to a RabbitMQ
// text queue, a Telegram chat, or both. Empty fields disable a target.
type Notify struct {
	Queue            string `json:"queue"`
	TelegramBotToken string `json:"telegram_bot_token"`
	TelegramChatID   string `json:"telegram_chat_id"`
}

// QueueEnabled reports whether text summaries go to RabbitMQ.
func (n Notify) QueueEnabled() bool {
	return n.Queue != ""
}

// TelegramEnabled reports whether text summaries go to Telegram.
func (n Notify) TelegramEnabled() bool {
	return n.TelegramBotToken != "" && n.TelegramChatID != ""
}

// ConfigPath returns the config file path from TRADIER_CONFIG_PATH, or the
// default location.
func ConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return DefaultConfigPath
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = json.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config JSON: %w", err)
	}

	return &config, nil
}

// ApplyEnvOverrides loads envFile (when it exists) into the environment and
// then overrides the credentials from TRADIER_TOKEN, TRADIER_ACCOUNT_ID,
// TRADIER_ENDPOINT and TELEGRAM_BOT_TOKEN. Variables already set in the
// process environment win over the file.
func (c *Config) ApplyEnvOverrides(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}
	if v, ok := os.LookupEnv(EnvToken); ok {
		c.Tradier.Token = v
	}
	if v, ok := os.LookupEnv(EnvAccountID); ok {
		c.Tradier.AccountID = v
	}
	if v, ok := os.LookupEnv(EnvEndpoint); ok {
		c.Tradier.Endpoint = v
	}
	if v, ok := os.LookupEnv(EnvTelegramBotToken); ok {
		c.Notify.TelegramBotToken = v
	}
	return nil
}

func oneOf(value string, valid []string) bool {
	for _, v := range valid {
		if strings.ToLower(value) == v {
			return true
		}
	}
	return false
}

// ValidateConfig checks for the presence and correctness of all required configuration fields
func (c *Config) ValidateConfig() error {
	// Validate Tradier
	if c.Tradier.Token == "" {
		return fmt.Errorf("tradier.token is required")
	}
	if c.Tradier.Endpoint != "" && !oneOf(c.Tradier.Endpoint, []string{"sandbox", "brokerage"}) {
		return fmt.Errorf("tradier.endpoint is invalid: %s", c.Tradier.Endpoint)
	}
	if c.Tradier.TimeoutSeconds < 0 {
		return fmt.Errorf("tradier.timeout_seconds cannot be negative")
	}

	// Validate Logging
	if c.Logging.Level == "" {
		return fmt.Errorf("logging.level is required")
	}
	if !oneOf(c.Logging.Level, []string{"debug", "info", "warn", "error", "fatal", "panic"}) {
		return fmt.Errorf("logging.level is invalid: %s", c.Logging.Level)
	}
	if c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required")
	}
	if c.Logging.RotationSize <= 0 {
		return fmt.Errorf("logging.rotation_size must be positive")
	}
	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("logging.max_backups cannot be negative")
	}

	// Validate RabbitMQ
	if c.RabbitMQ.Enabled() {
		if c.RabbitMQ.Port <= 0 {
			return fmt.Errorf("rabbitmq.port must be positive")
		}
		if c.RabbitMQ.Username == "" {
			return fmt.Errorf("rabbitmq.username is required")
		}
		for _, q := range c.RabbitMQ.Queues {
			if q.Name == "" {
				return fmt.Errorf("rabbitmq.queues.name is required")
			}
		}
	}

	// Validate Watcher
	if c.Watcher.Enabled {
		if !strings.EqualFold(c.Tradier.Endpoint, "brokerage") {
			return fmt.Errorf("watcher requires tradier.endpoint to be brokerage")
		}
		if c.Tradier.AccountID == "" {
			return fmt.Errorf("tradier.account_id is required when watcher is enabled")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database.db_name is required when watcher is enabled")
		}
		if c.Watcher.IntervalSeconds <= 0 {
			return fmt.Errorf("watcher.interval_seconds must be positive")
		}
		if c.Watcher.Timezone == "" {
			return fmt.Errorf("watcher.timezone is required when watcher is enabled")
		}
		if _, err := time.LoadLocation(c.Watcher.Timezone); err != nil {
			return fmt.Errorf("watcher.timezone is invalid: %s, error: %w", c.Watcher.Timezone, err)
		}
	}

	// Validate Notify
	if c.Notify.QueueEnabled() && !c.RabbitMQ.Enabled() {
		return fmt.Errorf("notify.queue requires rabbitmq.host")
	}
	if (c.Notify.TelegramBotToken == "") != (c.Notify.TelegramChatID == "") {
		return fmt.Errorf("notify.telegram_bot_token and notify.telegram_chat_id must be set together")
	}

	return nil
}

// GetConfigValue retrieves a configuration value using a dot-separated key.
// Parts match json tags or field names; integer parts index slices.
func (c *Config) GetConfigValue(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	currentValue := reflect.ValueOf(c).Elem()

	for _, part := range parts {
		if currentValue.Kind() == reflect.Ptr {
			currentValue = currentValue.Elem()
		}

		if index, err := strconv.Atoi(part); err == nil {
			if currentValue.Kind() != reflect.Slice {
				return nil, fmt.Errorf("key part '%s' is an index but not a slice in key '%s'", part, key)
			}
			if index < 0 || index >= currentValue.Len() {
				return nil, fmt.Errorf("index out of range for key part '%s' in key '%s'", part, key)
			}
			currentValue = currentValue.Index(index)
			continue
		}

		if currentValue.Kind() != reflect.Struct {
			return nil, fmt.Errorf("key part '%s' is not a struct in key '%s'", part, key)
		}

		structType := currentValue.Type()
		field := currentValue.FieldByNameFunc(func(fieldName string) bool {
			structField, ok := structType.FieldByName(fieldName)
			if !ok {
				return false
			}
			if strings.Split(structField.Tag.Get("json"), ",")[0] == part {
				return true
			}
			return strings.EqualFold(fieldName, part)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("key part '%s' not found in key '%s'", part, key)
		}
		currentValue = field
	}
	if !currentValue.CanInterface() {
		return nil, fmt.Errorf("cannot get interface for key %s", key)
	}

	return currentValue.Interface(), nil
}

// GetLoggingConfig retrieves the logging configuration section
func (c *Config) GetLoggingConfig() Logging {
	return c.Logging
}

// GetRabbitMQConfig retrieves the RabbitMQ configuration section
func (c *Config) GetRabbitMQConfig() RabbitMQ {
	return c.RabbitMQ
}
