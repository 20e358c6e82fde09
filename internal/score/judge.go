package score

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/pkg/anthropic"
)

const judgeSystemPrompt = `You are a B2B sales qualification analyst. Given a lead ` +
	`snapshot with company details, contacts, and deterministic sub-scores, assess the ` +
	`lead qualitatively. Respond with a single JSON object only, no prose and no markdown ` +
	`fences: {"recommended_approach": string (one or two sentences on how to open the ` +
	`conversation), "strengths": [string], "weaknesses": [string]}.`

// Judger produces a qualitative judgment for a lead. The engine depends on
// this interface so tests can substitute a scripted implementation.
type Judger interface {
	Evaluate(ctx context.Context, lead *model.Lead, subScores SubScores) (*model.Judgment, error)
}

// SubScores carries the deterministic sub-scores into the judgment prompt.
type SubScores struct {
	CompanyFit          float64 `json:"company_fit"`
	ContactQuality      float64 `json:"contact_quality"`
	EngagementPotential float64 `json:"engagement_potential"`
	TechnologyFit       float64 `json:"technology_fit"`
}

// Judge implements Judger over the Anthropic API.
type Judge struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewJudge creates a judge. maxTokens of zero falls back to 1024. A nil
// temperature falls back to 0.2; an explicit zero is kept, so fully
// deterministic judgments stay configurable.
func NewJudge(client anthropic.Client, modelID string, maxTokens int64, temperature *float64) *Judge {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	temp := 0.2
	if temperature != nil {
		temp = *temperature
	}
	return &Judge{
		client:      client,
		model:       modelID,
		maxTokens:   maxTokens,
		temperature: temp,
	}
}

// leadSnapshot is the prompt payload describing one lead.
type leadSnapshot struct {
	Company   model.Company   `json:"company"`
	Contacts  []model.Contact `json:"contacts,omitempty"`
	Source    string          `json:"source,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	SubScores SubScores       `json:"sub_scores"`
}

// Evaluate implements Judger. A rate-limited call surfaces as RateLimitError;
// any other API failure or a malformed response surfaces as ProcessingError.
func (j *Judge) Evaluate(ctx context.Context, lead *model.Lead, subScores SubScores) (*model.Judgment, error) {
	snapshot, err := json.MarshalIndent(leadSnapshot{
		Company:   lead.Company,
		Contacts:  lead.Contacts,
		Source:    lead.Source,
		Tags:      lead.Tags,
		Notes:     lead.Notes,
		SubScores: subScores,
	}, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "score: marshal lead snapshot")
	}

	resp, err := j.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       j.model,
		MaxTokens:   j.maxTokens,
		System:      anthropic.BuildCachedSystemBlocks(judgeSystemPrompt),
		Temperature: &j.temperature,
		Messages: []anthropic.Message{
			{Role: "user", Content: "Assess this lead:\n\n" + string(snapshot)},
		},
	})
	if err != nil {
		if retryAfter, ok := anthropic.RetryAfter(err); ok {
			return nil, &model.RateLimitError{Service: "anthropic", RetryAfter: retryAfter}
		}
		return nil, &model.ProcessingError{Model: j.model, Msg: "judgment request failed", Err: err}
	}
	resp.Usage.LogCost(j.model, "scoring")

	judgment, err := parseJudgment(resp.Text())
	if err != nil {
		return nil, &model.ProcessingError{Model: j.model, Msg: "malformed judgment response", Err: err}
	}
	return judgment, nil
}

// parseJudgment decodes the model's JSON response. Required fields land in
// the typed struct; any additional fields are preserved in Extra.
func parseJudgment(content string) (*model.Judgment, error) {
	raw := extractJSON(content)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, eris.Wrap(err, "decode judgment object")
	}

	var j model.Judgment
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return nil, eris.Wrap(err, "decode judgment fields")
	}

	for key, val := range fields {
		switch key {
		case "recommended_approach", "strengths", "weaknesses":
			continue
		}
		var v any
		if err := json.Unmarshal(val, &v); err != nil {
			continue
		}
		if j.Extra == nil {
			j.Extra = make(map[string]any)
		}
		j.Extra[key] = v
	}

	return &j, nil
}

func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if after, ok := strings.CutPrefix(content, "```json"); ok {
		content = after
	} else if after, ok := strings.CutPrefix(content, "```"); ok {
		content = after
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
