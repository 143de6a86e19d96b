package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Form     FormConfig     `mapstructure:"form"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type FormConfig struct {
	SubmitDelay     time.Duration `mapstructure:"submit_delay"`
	SubmitTimeout   time.Duration `mapstructure:"submit_timeout"`
	SubmitAttempts  int           `mapstructure:"submit_attempts"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
	SimulateFailure bool          `mapstructure:"simulate_failure"`
}

type ChatConfig struct {
	ReplyDelay    time.Duration `mapstructure:"reply_delay"`
	ReplyTimeout  time.Duration `mapstructure:"reply_timeout"`
	ReplyAttempts int           `mapstructure:"reply_attempts"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
	MaxPending    int           `mapstructure:"max_pending"`
	Greeting      string        `mapstructure:"greeting"`
}

// SessionsConfig controls idle reaping. A zero TTL keeps sessions until
// they are deleted or the server stops.
type SessionsConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	ReapInterval time.Duration `mapstructure:"reap_interval"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	GELFAddr    string `mapstructure:"gelf_addr"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	form := service.DefaultFormConfig()
	chat := service.DefaultChatConfig()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("auth.jwt_secret", "oxiportal-dev-secret-change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("form.submit_delay", form.SubmitDelay)
	v.SetDefault("form.submit_timeout", form.Retry.Timeout)
	v.SetDefault("form.submit_attempts", form.Retry.Attempts)
	v.SetDefault("form.retry_backoff", form.Retry.Backoff)
	v.SetDefault("form.simulate_failure", false)
	v.SetDefault("chat.reply_delay", chat.ReplyDelay)
	v.SetDefault("chat.reply_timeout", chat.Retry.Timeout)
	v.SetDefault("chat.reply_attempts", chat.Retry.Attempts)
	v.SetDefault("chat.retry_backoff", chat.Retry.Backoff)
	v.SetDefault("chat.max_pending", chat.MaxPending)
	v.SetDefault("chat.greeting", chat.Greeting)
	v.SetDefault("sessions.ttl", 30*time.Minute)
	v.SetDefault("sessions.reap_interval", time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.gelf_addr", "")
	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration from defaults, an optional YAML file and
// PORTAL_ environment variables, in increasing order of precedence. The
// file is path, or PORTAL_CONFIG when path is empty.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv("PORTAL_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret must not be empty"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Form.SubmitAttempts < 1 {
		errs = append(errs, errors.New("form.submit_attempts must be at least 1"))
	}
	if c.Chat.ReplyAttempts < 1 {
		errs = append(errs, errors.New("chat.reply_attempts must be at least 1"))
	}
	if c.Chat.MaxPending < 1 {
		errs = append(errs, errors.New("chat.max_pending must be at least 1"))
	}
	if c.Sessions.TTL > 0 && c.Sessions.ReapInterval <= 0 {
		errs = append(errs, errors.New("sessions.reap_interval must be positive when sessions.ttl is set"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) FormSession() service.FormConfig {
	return service.FormConfig{
		SubmitDelay: c.Form.SubmitDelay,
		Retry: service.RetryPolicy{
			Attempts: c.Form.SubmitAttempts,
			Timeout:  c.Form.SubmitTimeout,
			Backoff:  c.Form.RetryBackoff,
		},
	}
}

func (c Config) ChatSession() service.ChatConfig {
	return service.ChatConfig{
		Greeting:   c.Chat.Greeting,
		ReplyDelay: c.Chat.ReplyDelay,
		MaxPending: c.Chat.MaxPending,
		Retry: service.RetryPolicy{
			Attempts: c.Chat.ReplyAttempts,
			Timeout:  c.Chat.ReplyTimeout,
			Backoff:  c.Chat.RetryBackoff,
		},
	}
}
