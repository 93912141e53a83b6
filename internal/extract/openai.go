package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sandeepkv93/zen/internal/model"
)

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// OpenAI extracts tasks with a chat completion constrained to JSON output.
type OpenAI struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func NewOpenAI(cfg OpenAIConfig, hc *http.Client) *OpenAI {
	config := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		config.BaseURL = base
	}
	if hc != nil {
		config.HTTPClient = hc
	}
	name := strings.TrimSpace(cfg.Model)
	if name == "" {
		name = openai.GPT4oMini
	}
	return &OpenAI{client: openai.NewClientWithConfig(config), model: name, now: time.Now}
}

const systemPrompt = `You turn a spoken or typed task description into JSON with exactly these keys:
"title" (short imperative), "description", "priority" (one of low, medium, high, urgent),
"start_date" and "due_date" (YYYY-MM-DD or empty string), "category" (one word or null).
Resolve relative dates against today's date. Reply with the JSON object only.`

func (o *OpenAI) Extract(ctx context.Context, script string) (model.ExtractedTask, error) {
	script, err := checkScript(script)
	if err != nil {
		return model.ExtractedTask{}, err
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Today is %s.\n\n%s", o.now().Format(time.DateOnly), script)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Temperature:    0,
	})
	if err != nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.ExtractedTask{}, errors.New("extract: chat response has no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```json"), "```")

	var out model.ExtractedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &out); err != nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: parse model output: %w", err)
	}
	return finish(out)
}
