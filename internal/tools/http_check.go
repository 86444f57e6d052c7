package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/models"
)

const maxResponseBytes = 1 << 20

// HTTPCheck POSTs {"input": ...} to a URL. A 2xx answer of `true`, or of an
// object whose "success" is true, confirms.
type HTTPCheck struct {
	Client *http.Client
}

func (h *HTTPCheck) Name() string {
	return "http"
}

func (h *HTTPCheck) Description() string {
	return `POST {"input": ...} to a URL; a 2xx reply of true or {"success": true} confirms`
}

func (h *HTTPCheck) Build(spec config.CheckSpec) (models.Predicate, error) {
	url := strings.TrimSpace(spec.URL)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("url must be http or https: %s", url)
	}

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return func(ctx context.Context, input string) (models.Outcome, error) {
		return h.do(ctx, client, url, input)
	}, nil
}

func (h *HTTPCheck) do(ctx context.Context, client *http.Client, url, input string) (models.Outcome, error) {
	payload, err := json.Marshal(map[string]string{"input": input})
	if err != nil {
		return models.Outcome{}, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.Outcome{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "typedconfirm-http-check/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.Outcome{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Outcome{}, fmt.Errorf("check endpoint returned %s", resp.Status)
	}

	return ParseOutcome(body)
}

// ParseOutcome accepts a bare JSON boolean or an object with a boolean
// "success" field. Other object fields end up in Outcome.Data.
func ParseOutcome(body []byte) (models.Outcome, error) {
	if !gjson.ValidBytes(body) {
		return models.Outcome{}, fmt.Errorf("response is not valid JSON")
	}

	result := gjson.ParseBytes(body)
	switch {
	case result.Type == gjson.True || result.Type == gjson.False:
		return models.Outcome{Success: result.Bool()}, nil

	case result.IsObject():
		success := result.Get("success")
		if success.Type != gjson.True && success.Type != gjson.False {
			return models.Outcome{}, fmt.Errorf(`response has no boolean "success" field`)
		}
		data, _ := result.Value().(map[string]any)
		delete(data, "success")
		if len(data) == 0 {
			data = nil
		}
		return models.Outcome{Success: success.Bool(), Data: data}, nil
	}

	return models.Outcome{}, fmt.Errorf("unexpected response %s", strings.TrimSpace(result.Raw))
}
