package score

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/pkg/anthropic"
)

type mockAnthropicClient struct {
	create func(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return m.create(ctx, req)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

func TestEvaluate_ParsesJudgment(t *testing.T) {
	client := &mockAnthropicClient{
		create: func(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
			assert.Equal(t, "test-model", req.Model)
			require.NotEmpty(t, req.System)
			assert.Contains(t, req.Messages[0].Content, "Acme")
			return textResponse(`{"recommended_approach": "Email the CTO about infra costs.", "strengths": ["tech fit"], "weaknesses": ["small team"], "confidence": 0.8}`), nil
		},
	}

	j := NewJudge(client, "test-model", 0, nil)
	judgment, err := j.Evaluate(context.Background(), strongLead(), SubScores{})
	require.NoError(t, err)

	assert.Equal(t, "Email the CTO about infra costs.", judgment.Approach)
	assert.Equal(t, []string{"tech fit"}, judgment.Strengths)
	assert.Equal(t, []string{"small team"}, judgment.Weaknesses)
	assert.Equal(t, 0.8, judgment.Extra["confidence"])
}

func TestEvaluate_MalformedResponse(t *testing.T) {
	client := &mockAnthropicClient{
		create: func(context.Context, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
			return textResponse("This lead looks promising."), nil
		},
	}

	j := NewJudge(client, "test-model", 0, nil)
	_, err := j.Evaluate(context.Background(), strongLead(), SubScores{})

	var procErr *model.ProcessingError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "test-model", procErr.Model)
}

func TestEvaluate_APIFailure(t *testing.T) {
	client := &mockAnthropicClient{
		create: func(context.Context, anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
			return nil, errors.New("connection refused")
		},
	}

	j := NewJudge(client, "test-model", 0, nil)
	_, err := j.Evaluate(context.Background(), strongLead(), SubScores{})

	var procErr *model.ProcessingError
	require.True(t, errors.As(err, &procErr))
}

func TestNewJudge_TemperatureDefaults(t *testing.T) {
	var sent *float64
	client := &mockAnthropicClient{
		create: func(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
			sent = req.Temperature
			return textResponse(`{"recommended_approach": "call"}`), nil
		},
	}

	// An explicit zero is preserved, not coerced to the default.
	zero := 0.0
	j := NewJudge(client, "test-model", 0, &zero)
	_, err := j.Evaluate(context.Background(), strongLead(), SubScores{})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, 0.0, *sent)

	j = NewJudge(client, "test-model", 0, nil)
	_, err = j.Evaluate(context.Background(), strongLead(), SubScores{})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, 0.2, *sent)
}

func TestParseJudgment_CodeFences(t *testing.T) {
	judgment, err := parseJudgment("```json\n{\"recommended_approach\": \"call\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "call", judgment.Approach)
}

func TestLoadProfile_Defaults(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.NotEmpty(t, p.Industries)
	assert.NotEmpty(t, p.Technologies)
}

func TestLoadProfile_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("industries: [retail]\nmin_employees: 5\n"), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, []model.Industry{model.IndustryRetail}, p.Industries)
	assert.Equal(t, 5, p.MinEmployees)
	assert.NotEmpty(t, p.Technologies, "unset fields keep defaults")
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
