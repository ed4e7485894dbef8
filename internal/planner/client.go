package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TextGenerator produces free-form text for a prompt. Implementations make a
// single attempt; the fallback generator is the retry strategy.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}

// InferenceClient calls a hosted text-generation inference endpoint over
// plain HTTP. Every failure mode (network error, non-200 status, malformed
// body) is returned as an error so the stage runner can substitute the
// fallback generator uniformly.
type InferenceClient struct {
	endpoint string
	client   *http.Client
}

// NewInferenceClient creates a client for the given endpoint. A zero timeout
// defaults to 15s so a hung endpoint cannot block a request forever.
func NewInferenceClient(endpoint string, timeout time.Duration) *InferenceClient {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &InferenceClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Generate posts the prompt and returns the generated text. One outbound
// call per invocation, no caching, no retries.
func (c *InferenceClient) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	type genReq struct {
		Inputs     string `json:"inputs"`
		Parameters struct {
			MaxLength int `json:"max_length"`
		} `json:"parameters"`
	}

	reqBody := genReq{Inputs: prompt}
	reqBody.Parameters.MaxLength = maxLength

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference status %d", resp.StatusCode)
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty inference response")
	}

	return out[0].GeneratedText, nil
}
