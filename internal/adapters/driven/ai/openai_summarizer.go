package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// Ensure OpenAISummarizer implements Summarizer
var _ driven.Summarizer = (*OpenAISummarizer)(nil)

// OpenAISummarizer implements Summarizer against an OpenAI-compatible chat
// completions endpoint.
type OpenAISummarizer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const (
	defaultSummaryModel   = "meta-llama/Meta-Llama-3.1-70B-Instruct"
	defaultSummaryBaseURL = "https://api.deepinfra.com/v1/openai"

	summarySystemPrompt = "You are a helpful assistant that summarizes podcast and video transcripts."
)

// NewOpenAISummarizer creates a new chat completion summarizer client.
func NewOpenAISummarizer(apiKey, model, baseURL string) (driven.Summarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("summarizer API key is required")
	}

	if model == "" {
		model = defaultSummaryModel
	}

	if baseURL == "" {
		baseURL = defaultSummaryBaseURL
	}

	return &OpenAISummarizer{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Summarize sends the prompt to the chat completions endpoint and returns
// the model's reply.
func (s *OpenAISummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt is required")
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("chat API error: %s (type: %s)",
			chatResp.Error.Message, chatResp.Error.Type)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned status %d", resp.StatusCode)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Model returns the model name being used
func (s *OpenAISummarizer) Model() string {
	return s.model
}

// Close releases resources held by the summarizer
func (s *OpenAISummarizer) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
