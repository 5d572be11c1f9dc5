package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"symptom-triage-server/internal/config"
	"symptom-triage-server/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	// ErrAnalysisFailed covers transport and upstream-side failures of the
	// classifier call.
	ErrAnalysisFailed = errors.New("triage: symptom analysis failed")
	// ErrUpstreamContract is returned when the classifier answers with a
	// payload that does not fit the triage taxonomy. The value is never
	// coerced to a nearby bucket.
	ErrUpstreamContract = errors.New("triage: classifier response violates the triage contract")
)

// Analysis is the normalized classifier output for one symptom
// description.
type Analysis struct {
	RiskLevel          models.RiskLevel      `json:"riskLevel"`
	Priority           models.TriagePriority `json:"priority"`
	Recommendations    string                `json:"recommendations"`
	PossibleCauses     string                `json:"possibleCauses"`
	ExpectedConditions string                `json:"expectedConditions"`
	ActionRequired     string                `json:"actionRequired"`
}

// Classifier turns a plain-language symptom description into a triage
// analysis.
type Classifier interface {
	Analyze(ctx context.Context, description string) (*Analysis, error)
}

const systemPrompt = `You are a medical triage assistant. Given a plain-language
symptom description, respond with a single JSON object and nothing else:
{
  "riskLevel": "low" | "medium" | "high",
  "priority": "P1" | "P2" | "P3" | "P4",
  "recommendations": string,
  "possibleCauses": string,
  "expectedConditions": string,
  "actionRequired": string
}
P1 is the most urgent priority and P4 the least urgent. Do not invent
values outside the listed ones.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls an OpenAI-compatible chat completions endpoint. The call is
// a single synchronous request: no timeout, no retry, no circuit breaker.
type Client struct {
	http   *resty.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a classifier client from configuration.
func NewClient(cfg config.ClassifierConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:   httpClient,
		model:  cfg.Model,
		logger: logger,
	}
}

// Analyze sends the symptom description upstream and parses the structured
// answer.
func (c *Client) Analyze(ctx context.Context, description string) (*Analysis, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: description},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	if resp.IsError() {
		c.logger.Error("classifier returned an error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()))
		return nil, fmt.Errorf("%w: upstream status %d", ErrAnalysisFailed, resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%w: completion contained no choices", ErrUpstreamContract)
	}

	return ParseAnalysis(out.Choices[0].Message.Content)
}

// ParseAnalysis decodes a classifier answer and validates it against the
// fixed taxonomy.
func ParseAnalysis(content string) (*Analysis, error) {
	content = strings.TrimSpace(content)
	// Some models fence their JSON answer even when told not to.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var analysis Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamContract, err)
	}
	if !analysis.RiskLevel.Valid() {
		return nil, fmt.Errorf("%w: unknown risk level %q", ErrUpstreamContract, analysis.RiskLevel)
	}
	if !analysis.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrUpstreamContract, analysis.Priority)
	}
	return &analysis, nil
}
