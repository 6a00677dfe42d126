package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const EnvPrefix = "GUESSWHO"

type Config struct {
	Mode          string        `mapstructure:"mode"`
	Port          int           `mapstructure:"port"`
	ReadLimit     int64         `mapstructure:"read_limit"`
	PingPeriod    time.Duration `mapstructure:"ping_period"`
	SendBuffer    int           `mapstructure:"send_buffer"`
	RateLimit     int           `mapstructure:"rate_limit"`
	RateInterval  time.Duration `mapstructure:"rate_interval"`
	FanoutWorkers int           `mapstructure:"fanout_workers"`
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"`
	CodeWidth     int           `mapstructure:"code_width"`
}

// Default returns the configuration used when no file or env override exists.
func Default() *Config {
	return &Config{
		Mode:          "release",
		Port:          8080,
		ReadLimit:     4096,
		PingPeriod:    54 * time.Second,
		SendBuffer:    32,
		RateLimit:     10,
		RateInterval:  10 * time.Second,
		FanoutWorkers: 8,
		NotifyTimeout: 5 * time.Second,
		CodeWidth:     4,
	}
}

// Load reads .env, then config/config.<CONFIG_ENV>.yaml, then GUESSWHO_*
// environment variables; later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Info().Str("module", "config").Msg("loaded .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	d := Default()
	v.SetDefault("mode", d.Mode)
	v.SetDefault("port", d.Port)
	v.SetDefault("read_limit", d.ReadLimit)
	v.SetDefault("ping_period", d.PingPeriod.String())
	v.SetDefault("send_buffer", d.SendBuffer)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("rate_interval", d.RateInterval.String())
	v.SetDefault("fanout_workers", d.FanoutWorkers)
	v.SetDefault("notify_timeout", d.NotifyTimeout.String())
	v.SetDefault("code_width", d.CodeWidth)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Msg("config ready")
	return &cfg, nil
}
