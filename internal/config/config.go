package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port" validate:"min=1,max=65535"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`

	Room        string `mapstructure:"room" validate:"required"`
	DisplayName string `mapstructure:"display_name"`
	Email       string `mapstructure:"email" validate:"omitempty,email"`

	SignalURL    string `mapstructure:"signal_url" validate:"required,uri"`
	AssistantURL string `mapstructure:"assistant_url" validate:"required,uri"`

	StunServers  []string      `mapstructure:"stun_servers"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	QuietWindow  time.Duration `mapstructure:"quiet_window"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("signal_url", "ws://localhost:3001/ws")
	v.SetDefault("assistant_url", "ws://localhost:3002/ws")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("quiet_window", "600ms")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
