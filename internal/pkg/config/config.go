package config

import (
	"fmt"

	"github.com/spf13/viper"
)

var GlobalConfig *Config

// Config top-level configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Flaky    FlakyConfig    `mapstructure:"flaky"`
	Sweeper  SweeperConfig  `mapstructure:"sweeper"`
	DB       interface{}    // database handle, injected at runtime
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

// DatabaseConfig database settings
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // seconds
	LogLevel        string `mapstructure:"log_level"`         // SQL log level: silent/error/warn/info
}

// LogConfig logging settings
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// IngestConfig ingestion settings
type IngestConfig struct {
	MaxUploadSizeMB int `mapstructure:"max_upload_size_mb"` // reject report files larger than this
}

// FlakyConfig flaky-test detector settings
type FlakyConfig struct {
	HistoryWindow int `mapstructure:"history_window"` // recent executions inspected per test, default 10
	MinHistory    int `mapstructure:"min_history"`    // minimum history size for a verdict, default 3
	QueueSize     int `mapstructure:"queue_size"`     // detection queue capacity, default 64
}

// SweeperConfig stale-upload sweeper settings
type SweeperConfig struct {
	Cron   string `mapstructure:"cron"`    // cron expression (with seconds field)
	MaxAge string `mapstructure:"max_age"` // processing uploads older than this are marked failed
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	GlobalConfig = config

	return config, nil
}

// GetDSN returns the database DSN
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// GetHistoryWindow returns the flaky history window with its default applied
func (c *FlakyConfig) GetHistoryWindow() int {
	if c.HistoryWindow < 1 {
		return 10
	}
	return c.HistoryWindow
}

// GetMinHistory returns the minimum flaky history size with its default applied
func (c *FlakyConfig) GetMinHistory() int {
	if c.MinHistory < 1 {
		return 3
	}
	return c.MinHistory
}

// GetQueueSize returns the detection queue capacity with its default applied
func (c *FlakyConfig) GetQueueSize() int {
	if c.QueueSize < 1 {
		return 64
	}
	return c.QueueSize
}
