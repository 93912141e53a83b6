package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sandeepkv93/zen/internal/config"
	"github.com/sandeepkv93/zen/internal/model"
)

var ErrEmptyScript = errors.New("extract: script is empty")

// Extractor turns a free-text task description into structured fields.
type Extractor interface {
	Extract(ctx context.Context, script string) (model.ExtractedTask, error)
}

// New builds the configured backend.
func New(cfg config.ExtractorConfig, timeout time.Duration) (Extractor, error) {
	hc := &http.Client{Timeout: timeout}
	switch cfg.Backend {
	case config.BackendRemote, "":
		return NewRemote(cfg.BaseURL, hc), nil
	case config.BackendOpenAI:
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("extract: openai backend needs an api key")
		}
		base := cfg.BaseURL
		if base == config.DefaultExtractorURL {
			base = ""
		}
		return NewOpenAI(OpenAIConfig{BaseURL: base, APIKey: cfg.APIKey, Model: cfg.Model}, hc), nil
	default:
		return nil, fmt.Errorf("extract: unknown backend %q", cfg.Backend)
	}
}

func checkScript(script string) (string, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return "", ErrEmptyScript
	}
	return script, nil
}

func finish(t model.ExtractedTask) (model.ExtractedTask, error) {
	t.Title = strings.TrimSpace(t.Title)
	t.Priority = strings.ToLower(strings.TrimSpace(t.Priority))
	if t.Priority == "" {
		t.Priority = string(model.PriorityMedium)
	}
	if err := t.Validate(); err != nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: %w", err)
	}
	return t, nil
}
