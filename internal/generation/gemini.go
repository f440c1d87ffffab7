package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"philcali.me/nutrition/internal/exceptions"
)

const (
	DEFAULT_GEMINI_BASE_URL = "https://generativelanguage.googleapis.com/v1beta"
	DEFAULT_GEMINI_MODEL    = "gemini-2.0-flash"
	DEFAULT_TIMEOUT         = 60 * time.Second
)

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type GeminiOptions struct {
	ApiKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type GeminiGenerator struct {
	apiKey   string
	endpoint string
	timeout  time.Duration
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

func NewGeminiGenerator(options GeminiOptions) *GeminiGenerator {
	if options.BaseURL == "" {
		options.BaseURL = DEFAULT_GEMINI_BASE_URL
	}
	if options.Model == "" {
		options.Model = DEFAULT_GEMINI_MODEL
	}
	if options.Timeout <= 0 {
		options.Timeout = DEFAULT_TIMEOUT
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{}
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	logger := options.Logger
	return &GeminiGenerator{
		apiKey:   options.ApiKey,
		endpoint: fmt.Sprintf("%s/models/%s:generateContent", strings.TrimSuffix(options.BaseURL, "/"), options.Model),
		timeout:  options.Timeout,
		client:   options.HTTPClient,
		logger:   logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "gemini",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("Circuit breaker changed state",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
	}
}

// extractObject drops Markdown fences and any chatter around the first JSON
// object in a model answer.
func extractObject(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return strings.TrimSpace(text)
	}
	return text[start : end+1]
}

func (g *GeminiGenerator) call(ctx context.Context, prompt Prompt) (string, error) {
	parts := []geminiPart{{Text: prompt.Text}}
	if prompt.Image != nil {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: prompt.Image.MimeType,
				Data:     prompt.Image.Data,
			},
		})
	}
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}
	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("response had no candidates")
	}
	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt Prompt, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.call(ctx, prompt)
	})
	if err != nil {
		g.logger.Error("Generation request failed", zap.String("flow", prompt.Flow), zap.Error(err))
		return exceptions.Upstream("generation", err)
	}
	text := extractObject(result.(string))
	if err := json.Unmarshal([]byte(text), out); err != nil {
		g.logger.Error("Generation returned malformed JSON", zap.String("flow", prompt.Flow), zap.Error(err))
		return exceptions.Upstream("generation", err)
	}
	return nil
}
