package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	AppConfig     AppConfig     `yaml:"app"`
	DBConfig      DBConfig      `yaml:"db"`
	HTTPConfig    HTTPConfig    `yaml:"http"`
	DiscordConfig DiscordConfig `yaml:"discord"`
}

type AppConfig struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"debug"`
}

type DBConfig struct {
	Path    string `yaml:"path" env:"DB_PATH" env-default:"verify.db"`
	Verbose bool   `yaml:"verbose" env:"DB_VERBOSE" env-default:"false"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr" env:"HTTP_ADDR" env-default:":5000"`
	BaseURL      string        `yaml:"base_url" env:"BASE_URL" env-required:"true"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
}

type DiscordConfig struct {
	BotToken string `yaml:"bot_token" env:"BOT_TOKEN" env-required:"true"`
	GuildID  string `yaml:"guild_id" env:"GUILD_ID" env-required:"true"`
	RoleID   string `yaml:"role_id" env:"ROLE_ID" env-required:"true"`
	AdminID  string `yaml:"admin_id" env:"ADMIN_ID" env-required:"true"`
	Prefix   string `yaml:"prefix" env:"COMMAND_PREFIX" env-default:";"`
}

func FromFile(filepath string) (*Config, error) {
	var cfg Config

	err := cleanenv.ReadConfig(filepath, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds the config from environment variables alone, for deployments
// without a config file.
func FromEnv() (*Config, error) {
	var cfg Config

	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
