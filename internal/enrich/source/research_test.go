package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-sdk/internal/enrich"
	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/pkg/perplexity"
)

type mockPerplexity struct {
	chat func(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error)
}

func (m *mockPerplexity) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	return m.chat(ctx, req)
}

func chatResponse(content string) *perplexity.ChatCompletionResponse {
	return &perplexity.ChatCompletionResponse{
		Choices: []perplexity.Choice{
			{Message: perplexity.Message{Role: "assistant", Content: content}},
		},
	}
}

func TestResearchFetch_ParsesProfile(t *testing.T) {
	client := &mockPerplexity{
		chat: func(_ context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
			require.Len(t, req.Messages, 2)
			assert.Contains(t, req.Messages[1].Content, "Acme")
			return chatResponse(`{
				"industry": "technology",
				"size": "medium",
				"employee_count": 150,
				"founded_year": 2015,
				"headquarters": "Austin, TX",
				"description": "Developer tooling",
				"technologies": ["Go", "PostgreSQL"],
				"contacts": [{"name": "Sam Ortiz", "title": "CTO", "role": "cto", "email": "sam@acme.com"}]
			}`), nil
		},
	}

	src := NewResearch(client)
	res, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Name: "Acme", Domain: "acme.com"}, nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "technology", res.Data["industry"])
	assert.Equal(t, 150, res.Data["employee_count"])
	assert.Equal(t, []string{"Go", "PostgreSQL"}, res.Data["technologies"])

	contacts, ok := res.Data["contacts"].([]model.Contact)
	require.True(t, ok)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Sam Ortiz", contacts[0].FullName)
	assert.Equal(t, model.RoleCTO, contacts[0].Role)
	assert.NotEmpty(t, contacts[0].ID)
}

func TestResearchFetch_StripsCodeFences(t *testing.T) {
	client := &mockPerplexity{
		chat: func(context.Context, perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
			return chatResponse("```json\n{\"industry\": \"finance\"}\n```"), nil
		},
	}

	src := NewResearch(client)
	res, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Name: "Acme"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "finance", res.Data["industry"])
}

func TestResearchFetch_MalformedResponse(t *testing.T) {
	client := &mockPerplexity{
		chat: func(context.Context, perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
			return chatResponse("I could not find that company."), nil
		},
	}

	src := NewResearch(client)
	_, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Name: "Acme"}, nil)
	require.Error(t, err)
}

func TestResearchFetch_RequiresName(t *testing.T) {
	src := NewResearch(&mockPerplexity{})
	_, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Domain: "acme.com"}, nil)
	require.Error(t, err)
}

func TestResearchFetch_RateLimitConverted(t *testing.T) {
	client := &mockPerplexity{
		chat: func(context.Context, perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
			return nil, &perplexity.APIError{StatusCode: 429}
		},
	}

	src := NewResearch(client)
	_, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Name: "Acme"}, nil)

	var rlErr *model.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "perplexity", rlErr.Service)
}
