// Package gemini implements the llm.Client boundary on the Google GenAI API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"careerlens-backend/internal/llm"
)

const defaultModel = "gemini-2.5-flash-lite"

// Client calls Gemini with JSON-typed responses.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	inner, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{client: inner, model: model}, nil
}

// AnalyzeResume requests a structured assessment of the resume text.
func (c *Client) AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*llm.Analysis, error) {
	raw, err := c.generateJSON(ctx, analyzePrompt(resumeText, jobDescription))
	if err != nil {
		return nil, err
	}

	var analysis llm.Analysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, fmt.Errorf("%w: parse analysis response: %v", llm.ErrUnavailable, err)
	}
	if analysis.ATSScore < 0 {
		analysis.ATSScore = 0
	}
	if analysis.ATSScore > 100 {
		analysis.ATSScore = 100
	}
	return &analysis, nil
}

// GenerateQuestions requests interview questions for the resume and job description.
func (c *Client) GenerateQuestions(ctx context.Context, resumeText, jobDescription string, count int) ([]llm.InterviewQuestion, error) {
	if count <= 0 {
		count = 10
	}

	raw, err := c.generateJSON(ctx, questionsPrompt(resumeText, jobDescription, count))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Questions []llm.InterviewQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: parse questions response: %v", llm.ErrUnavailable, err)
	}
	return payload.Questions, nil
}

// RecommendCompanies requests catalog drafts matching the given skills.
func (c *Client) RecommendCompanies(ctx context.Context, skills []string, experienceLevel, industry string) ([]llm.CompanyDraft, error) {
	raw, err := c.generateJSON(ctx, recommendPrompt(skills, experienceLevel, industry))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Companies []llm.CompanyDraft `json:"companies"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: parse recommendations response: %v", llm.ErrUnavailable, err)
	}
	return payload.Companies, nil
}

// generateJSON sends a prompt expecting an application/json reply and returns
// the raw bytes of the first textual candidate.
func (c *Client) generateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	if c == nil || c.client == nil {
		return nil, llm.ErrUnavailable
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", llm.ErrUnavailable, err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				builder.WriteString(text)
			}
		}
	}

	out := strings.TrimSpace(builder.String())
	if out == "" {
		return nil, fmt.Errorf("%w: empty response", llm.ErrUnavailable)
	}
	if !json.Valid([]byte(out)) {
		return nil, fmt.Errorf("%w: non-JSON response", llm.ErrUnavailable)
	}
	return json.RawMessage(out), nil
}

// Model reports the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

var _ llm.Client = (*Client)(nil)
