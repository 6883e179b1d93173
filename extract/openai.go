package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	openAIBaseURL   = "https://api.openai.com/v1"
	deepSeekBaseURL = "https://api.deepseek.com"

	defaultOpenAIModel   = "gpt-4o"
	defaultDeepSeekModel = "deepseek-chat"
)

// OpenAI speaks the chat-completions wire format. DeepSeek serves the
// same format, so both providers share this client and differ only in
// base URL, key and default model.
type OpenAI struct {
	name   string
	apiKey string
	clientConfig
}

// NewOpenAI returns a client for the OpenAI API.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	return &OpenAI{
		name:         "openai",
		apiKey:       apiKey,
		clientConfig: newClientConfig(openAIBaseURL, defaultOpenAIModel, opts...),
	}
}

// NewDeepSeek returns a client for the DeepSeek API.
func NewDeepSeek(apiKey string, opts ...Option) *OpenAI {
	return &OpenAI{
		name:         "deepseek",
		apiKey:       apiKey,
		clientConfig: newClientConfig(deepSeekBaseURL, defaultDeepSeekModel, opts...),
	}
}

func (p *OpenAI) Name() string {
	return p.name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete performs a non-streaming chat completion and returns the
// assistant text.
func (p *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.User})

	body, err := json.Marshal(chatRequest{
		Model:          p.model,
		Messages:       messages,
		MaxTokens:      req.MaxTokens,
		Temperature:    req.Temperature,
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%s API error (status %d): %s", p.name, resp.StatusCode, raw)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return out.Choices[0].Message.Content, nil
}
