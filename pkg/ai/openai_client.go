// pkg/ai/openai_client.go

package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"animeplan/pkg/logging"
	"animeplan/pkg/metrics"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

func NewOpenAI(endpoint, key, model string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &openAI{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		httpc:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatReq struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResp struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *openAI) Describe(ctx context.Context, title string) string {
	text, err := c.complete(ctx, renderPrompt(title))
	if err != nil {
		metrics.DescriptionFallbacks.Inc()
		logging.Warn().Err(err).Str("title", title).Msg("description generation failed")
		return Placeholder(err)
	}
	return text
}

func (c *openAI) complete(ctx context.Context, prompt string) (string, error) {
	b, err := json.Marshal(chatReq{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var out chatResp
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("provider status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("provider status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("malformed provider response: %w", decodeErr)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("provider returned empty text")
	}
	return content, nil
}
