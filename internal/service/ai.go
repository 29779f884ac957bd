package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"process-report/internal/config"
	"process-report/internal/logger"
	"process-report/internal/model"

	"google.golang.org/genai"
)

// Generator turns a process description into the raw JSON text of a report.
// Implementations make exactly one backend call and never retry.
type Generator interface {
	Generate(ctx context.Context, in model.ProcessInput) (string, error)
}

// NewGenerator builds the backend selected by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGeminiClient(ctx, cfg)
	case "openai":
		return NewCompatClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// generationTemperature is sent with every generation request.
const generationTemperature = 0.5

// GeminiClient calls the Gemini API with a response schema.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, in model.ProcessInput) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(in)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ReportSchema(),
		Temperature:      genai.Ptr[float32](generationTemperature),
	})
	if err != nil {
		logger.Error("ai.gemini.failed", "model", g.model, "err", err)
		return "", &GenerationError{Provider: "gemini", Cause: err}
	}
	return resp.Text(), nil
}

// CompatClient talks to an OpenAI-compatible chat-completions endpoint and
// constrains the answer with a strict json_schema response format.
type CompatClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewCompatClient(cfg config.AIConfig) *CompatClient {
	return &CompatClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *CompatClient) Generate(ctx context.Context, in model.ProcessInput) (string, error) {
	content, err := s.chat(ctx, BuildPrompt(in))
	if err != nil {
		logger.Error("ai.compat.failed", "model", s.model, "err", err)
		return "", &GenerationError{Provider: "openai", Cause: err}
	}
	return content, nil
}

func (s *CompatClient) chat(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model":       s.model,
		"temperature": generationTemperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   "process_report",
				"strict": true,
				"schema": ReportJSONSchema(),
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return result.Choices[0].Message.Content, nil
}
