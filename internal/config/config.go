package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	LogLevel string `yaml:"log_level" default:"info" validate:"oneof=debug info warn error"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider          string  `yaml:"provider" default:"yahoo" validate:"oneof=yahoo rest mock"`
		BaseURL           string  `yaml:"base_url" validate:"required_if=Provider rest"`
		APIKey            string  `yaml:"api_key"`
		ExchangeSuffix    string  `yaml:"exchange_suffix" default:".NS"`
		Period            string  `yaml:"period" default:"1y" validate:"oneof=6mo 1y 2y 5y"`
		RequestsPerSecond float64 `yaml:"requests_per_second" default:"2" validate:"gte=0"`
	} `yaml:"data_source"`
	Watchlist []string `yaml:"watchlist" validate:"dive,required"`
	Schedule  struct {
		AnalysisCron string   `yaml:"analysis_cron" default:"0 45 15 * * 1-5" validate:"required"`
		SkipHolidays bool     `yaml:"skip_holidays" default:"true"`
		Holidays     []string `yaml:"holidays" validate:"dive,datetime=2006-01-02"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/stockpulse.db"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr" default:":8080" validate:"required"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

var validate = validator.New()

// Load applies defaults, then the YAML file, then environment variable
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = splitList(v)
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		cfg.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse REQUESTS_PER_SECOND: %w", err)
		}
		cfg.DataSource.RequestsPerSecond = rps
	}
	if v := os.Getenv("MARKET_HOLIDAYS"); v != "" {
		cfg.Schedule.Holidays = splitList(v)
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q check", fe.Namespace(), fe.Tag())
		}
		return err
	}
	return nil
}

// HolidayDates parses schedule.holidays. Call after Validate.
func (c *Config) HolidayDates() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(c.Schedule.Holidays))
	for _, h := range c.Schedule.Holidays {
		d, err := time.Parse(time.DateOnly, h)
		if err != nil {
			return nil, fmt.Errorf("parse holiday %q: %w", h, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// TelegramEnabled reports whether notifications can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
