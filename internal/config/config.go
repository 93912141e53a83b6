package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultServiceURL   = "https://team-sync-pro-nguyentrieu8.replit.app"
	DefaultExtractorURL = "https://literate-starfish-first.ngrok-free.app"

	BackendRemote = "remote"
	BackendOpenAI = "openai"
)

type Config struct {
	Service   ServiceConfig   `yaml:"service" mapstructure:"service"`
	Extractor ExtractorConfig `yaml:"extractor" mapstructure:"extractor"`
	Auth      AuthConfig      `yaml:"auth" mapstructure:"auth"`
	Focus     FocusConfig     `yaml:"focus" mapstructure:"focus"`
	Voice     VoiceConfig     `yaml:"voice" mapstructure:"voice"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	UI        UIConfig        `yaml:"ui" mapstructure:"ui"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

type ServiceConfig struct {
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	PageSize int           `yaml:"page_size" mapstructure:"page_size"`
}

type ExtractorConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key,omitempty" mapstructure:"api_key"`
}

type AuthConfig struct {
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	TokenFile       string `yaml:"token_file" mapstructure:"token_file"`
	CallbackPort    int    `yaml:"callback_port" mapstructure:"callback_port"`
}

type FocusConfig struct {
	WorkSeconds       int  `yaml:"work_seconds" mapstructure:"work_seconds"`
	ShortBreakSeconds int  `yaml:"short_break_seconds" mapstructure:"short_break_seconds"`
	LongBreakSeconds  int  `yaml:"long_break_seconds" mapstructure:"long_break_seconds"`
	LongBreakEvery    int  `yaml:"long_break_every" mapstructure:"long_break_every"`
	WakeLock          bool `yaml:"wake_lock" mapstructure:"wake_lock"`
}

type VoiceConfig struct {
	// Command is an external speech-to-text program that streams transcript lines on stdout.
	Command []string `yaml:"command" mapstructure:"command"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"`
}

type UIConfig struct {
	DesktopNotifications bool `yaml:"desktop_notifications" mapstructure:"desktop_notifications"`
	ReminderBuffer       int  `yaml:"reminder_buffer" mapstructure:"reminder_buffer"`
	FocusGoalMinutes     int  `yaml:"focus_goal_minutes" mapstructure:"focus_goal_minutes"`
	StreakGoalDays       int  `yaml:"streak_goal_days" mapstructure:"streak_goal_days"`
}

type LogConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// Dir is the per-user directory holding credentials, tokens, the focus log and logs.
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "zen")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zen")
}

// Path is the default config file location.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

func Default() Config {
	dir := Dir()
	return Config{
		Service: ServiceConfig{
			BaseURL:  DefaultServiceURL,
			Timeout:  15 * time.Second,
			PageSize: 10,
		},
		Extractor: ExtractorConfig{
			Backend: BackendRemote,
			BaseURL: DefaultExtractorURL,
			Model:   "gpt-4o-mini",
		},
		Auth: AuthConfig{
			CredentialsFile: filepath.Join(dir, "credentials.json"),
			TokenFile:       filepath.Join(dir, "token.json"),
			CallbackPort:    6789,
		},
		Focus: FocusConfig{
			WorkSeconds:       25 * 60,
			ShortBreakSeconds: 5 * 60,
			LongBreakSeconds:  15 * 60,
			LongBreakEvery:    4,
			WakeLock:          true,
		},
		Storage: StorageConfig{DBPath: filepath.Join(dir, "zen.db")},
		UI: UIConfig{
			ReminderBuffer:   64,
			FocusGoalMinutes: 120,
			StreakGoalDays:   7,
		},
		Log: LogConfig{File: filepath.Join(dir, "zen.log")},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Service.BaseURL) == "" {
		return errors.New("config: service.base_url is required")
	}
	if c.Service.PageSize <= 0 {
		return fmt.Errorf("config: service.page_size must be positive, got %d", c.Service.PageSize)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("config: service.timeout must not be negative, got %s", c.Service.Timeout)
	}
	switch c.Extractor.Backend {
	case BackendRemote:
		if strings.TrimSpace(c.Extractor.BaseURL) == "" {
			return errors.New("config: extractor.base_url is required for the remote backend")
		}
	case BackendOpenAI:
	default:
		return fmt.Errorf("config: unknown extractor backend %q", c.Extractor.Backend)
	}
	if c.Focus.WorkSeconds <= 0 || c.Focus.ShortBreakSeconds <= 0 || c.Focus.LongBreakSeconds <= 0 {
		return errors.New("config: focus durations must be positive")
	}
	if c.Focus.LongBreakEvery <= 0 {
		return errors.New("config: focus.long_break_every must be positive")
	}
	if c.Auth.CallbackPort <= 0 || c.Auth.CallbackPort > 65535 {
		return fmt.Errorf("config: auth.callback_port out of range: %d", c.Auth.CallbackPort)
	}
	return nil
}
