package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load merges the YAML file at path over Default and then applies ZEN_*
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("ZEN_SERVICE_URL"); ok {
		cfg.Service.BaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := getEnvDuration("ZEN_SERVICE_TIMEOUT"); ok && v > 0 {
		cfg.Service.Timeout = v
	}
	if v, ok := getEnvInt("ZEN_PAGE_SIZE"); ok && v > 0 {
		cfg.Service.PageSize = v
	}
	if v, ok := getEnvString("ZEN_EXTRACTOR_BACKEND"); ok {
		cfg.Extractor.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("ZEN_EXTRACTOR_URL"); ok {
		cfg.Extractor.BaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := getEnvString("ZEN_OPENAI_MODEL"); ok {
		cfg.Extractor.Model = v
	}
	if v, ok := getEnvString("OPENAI_API_KEY"); ok && cfg.Extractor.APIKey == "" {
		cfg.Extractor.APIKey = v
	}
	if v, ok := getEnvString("ZEN_OPENAI_API_KEY"); ok {
		cfg.Extractor.APIKey = v
	}
	if v, ok := getEnvString("ZEN_CREDENTIALS_FILE"); ok {
		cfg.Auth.CredentialsFile = v
	}
	if v, ok := getEnvInt("ZEN_CALLBACK_PORT"); ok && v > 0 {
		cfg.Auth.CallbackPort = v
	}
	if v, ok := getEnvInt("ZEN_FOCUS_WORK_SECONDS"); ok && v > 0 {
		cfg.Focus.WorkSeconds = v
	}
	if v, ok := getEnvInt("ZEN_FOCUS_SHORT_BREAK_SECONDS"); ok && v > 0 {
		cfg.Focus.ShortBreakSeconds = v
	}
	if v, ok := getEnvInt("ZEN_FOCUS_LONG_BREAK_SECONDS"); ok && v > 0 {
		cfg.Focus.LongBreakSeconds = v
	}
	if v, ok := getEnvBool("ZEN_WAKE_LOCK"); ok {
		cfg.Focus.WakeLock = v
	}
	if v, ok := getEnvString("ZEN_VOICE_COMMAND"); ok {
		cfg.Voice.Command = strings.Fields(v)
	}
	if v, ok := getEnvString("ZEN_DB_PATH"); ok {
		cfg.Storage.DBPath = v
	}
	if v, ok := getEnvBool("ZEN_DESKTOP_NOTIFICATIONS"); ok {
		cfg.UI.DesktopNotifications = v
	}
	if v, ok := getEnvInt("ZEN_REMINDER_BUFFER"); ok && v > 0 {
		cfg.UI.ReminderBuffer = v
	}
	if v, ok := getEnvString("ZEN_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
