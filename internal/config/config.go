package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	LeaderboardRedis  = "redis"
	LeaderboardSQLite = "sqlite"
)

var ErrUnknownStorage = errors.New("unknown leaderboard storage")

type Config struct {
	LogLevel    string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string      `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort  string      `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis       Redis       `yaml:"redis"`
	Leaderboard Leaderboard `yaml:"leaderboard"`
	Bot         Bot         `yaml:"bot"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Leaderboard struct {
	Storage    string `yaml:"storage" env:"LEADERBOARD_STORAGE" env-default:"redis"`
	SQLitePath string `yaml:"sqlite-path" env:"LEADERBOARD_SQLITE_PATH" env-default:"./leaderboard.db"`
	TopLimit   int    `yaml:"top-limit" env-default:"10"`
}

type Bot struct {
	// ThinkDelay - pause before the bot answers, purely cosmetic.
	ThinkDelay time.Duration `yaml:"think-delay" env:"BOT_THINK_DELAY" env-default:"0s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Leaderboard.Storage != LeaderboardRedis && config.Leaderboard.Storage != LeaderboardSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, config.Leaderboard.Storage)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
