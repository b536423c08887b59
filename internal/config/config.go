package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Git     GitConfig     `mapstructure:"git"`
	Logging LoggingConfig `mapstructure:"logging"`
	Worker  WorkerConfig  `mapstructure:"worker"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type StorageConfig struct {
	// путь к TOML-файлу данных
	Path string `mapstructure:"path"`
}

type GitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type WorkerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load читает config.yml и переменные окружения с префиксом GTD_.
// Переменные окружения важнее файла, отсутствующий файл не ошибка:
// работаем на значениях по умолчанию.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("storage.path", "gtd.toml")
	v.SetDefault("git.enabled", false)
	v.SetDefault("logging.development", true)
	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.interval", time.Hour)

	v.SetEnvPrefix("GTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
