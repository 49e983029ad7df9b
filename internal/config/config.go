package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"telegram-coach-bot/internal/utils"
)

const (
	DBName     = "bot.db"
	secretPath = "/run/secrets/telegram_bot_token"
)

// Config is the process-level configuration. It is read once at start;
// mutable business settings (evening time) live in the database.
type Config struct {
	TelegramToken string        `yaml:"telegram_token"`
	DBPath        string        `yaml:"db_path"`
	TimeZone      string        `yaml:"time_zone"`
	SuperAdmins   []string      `yaml:"super_admins"`
	MorningAt     string        `yaml:"morning_at"`
	TickInterval  time.Duration `yaml:"tick_interval"`
	LogLevel      string        `yaml:"log_level"`
	LogDev        bool          `yaml:"log_dev"`

	// secretFile is swapped in tests.
	secretFile string
}

func defaults() Config {
	return Config{
		DBPath:       DBName,
		TimeZone:     "Europe/Moscow",
		MorningAt:    "08:00",
		TickInterval: 20 * time.Second,
		LogLevel:     "info",
		secretFile:   secretPath,
	}
}

// Load reads .env, an optional YAML file named by CONFIG_FILE, then
// environment variables; later sources win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	if cfg.TelegramToken == "" {
		cfg.TelegramToken = cfg.botToken()
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBPath = envStr("DB_PATH", c.DBPath)
	c.TimeZone = envStr("TZ_NAME", c.TimeZone)
	c.MorningAt = envStr("MORNING_AT", c.MorningAt)
	c.TickInterval = envDur("TICK_INTERVAL", c.TickInterval)
	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.LogDev = envBool("LOG_DEV", c.LogDev)
	if v := os.Getenv("SUPERADMIN_IDS"); v != "" {
		c.SuperAdmins = splitList(v)
	}
}

// botToken prefers the docker secret over TELEGRAM_BOT_TOKEN.
func (c *Config) botToken() string {
	if data, err := os.ReadFile(c.secretFile); err == nil {
		if token := strings.TrimSpace(string(data)); token != "" {
			return token
		}
	}
	return strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
}

// ErrNoToken is returned by commands that talk to telegram without a token.
var ErrNoToken = errors.New("bot token not found: neither docker secret nor TELEGRAM_BOT_TOKEN is set")

// Validate checks the settings every command depends on and normalizes
// MorningAt to "HH:MM". The token is checked by the commands that need it.
func (c *Config) Validate() error {
	var errs []error
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("time zone %q: %w", c.TimeZone, err))
	}
	if hm, err := utils.ParseClock(c.MorningAt); err != nil {
		errs = append(errs, fmt.Errorf("morning_at: %w", err))
	} else {
		c.MorningAt = hm // "8:00" -> "08:00", как в Tick
	}
	// The dedup window relies on several ticks per matching minute.
	if c.TickInterval <= 0 || c.TickInterval >= time.Minute {
		errs = append(errs, fmt.Errorf("tick_interval %s must be between 0 and 1m", c.TickInterval))
	}
	return errors.Join(errs...)
}

// Location returns the configured time zone. Call after Validate.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(s string) []string {
	var res []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func envStr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
