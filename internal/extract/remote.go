package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sandeepkv93/zen/internal/model"
)

// Remote calls the hosted extraction endpoint.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemote(baseURL string, hc *http.Client) *Remote {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Remote{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

type remoteResponse struct {
	Data struct {
		ExtractedData *model.ExtractedTask `json:"extracted_data"`
	} `json:"data"`
}

func (r *Remote) Extract(ctx context.Context, script string) (model.ExtractedTask, error) {
	script, err := checkScript(script)
	if err != nil {
		return model.ExtractedTask{}, err
	}
	body, err := json.Marshal(map[string]string{"script": script})
	if err != nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/extract", bytes.NewReader(body))
	if err != nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.ExtractedTask{}, fmt.Errorf("extract: request failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out remoteResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: parse response: %w", err)
	}
	if out.Data.ExtractedData == nil {
		return model.ExtractedTask{}, fmt.Errorf("extract: response has no extracted_data")
	}
	return finish(*out.Data.ExtractedData)
}
