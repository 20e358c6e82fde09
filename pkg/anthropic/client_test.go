package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "hello "},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "world"},
		},
	}
	assert.Equal(t, "hello world", resp.Text())
}

func TestEstimateCost_KnownModel(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	cost := usage.EstimateCost("claude-sonnet-4-5-20250929")
	assert.InDelta(t, 18.0, cost, 0.001)
}

func TestEstimateCost_CacheTokens(t *testing.T) {
	usage := TokenUsage{CacheCreationInputTokens: 1_000_000, CacheReadInputTokens: 1_000_000}
	cost := usage.EstimateCost("claude-sonnet-4-5-20250929")
	// Cache writes bill at 1.25x input, cache reads at 0.1x.
	assert.InDelta(t, 3.0*1.25+3.0*0.1, cost, 0.001)
}

func TestEstimateCost_UnknownModel(t *testing.T) {
	usage := TokenUsage{InputTokens: 1000}
	assert.Equal(t, 0.0, usage.EstimateCost("mystery-model"))
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	blocks := BuildCachedSystemBlocks("system prompt")
	assert.Len(t, blocks, 1)
	assert.Equal(t, "system prompt", blocks[0].Text)
	assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
}

func TestRetryAfter_NonAPIError(t *testing.T) {
	_, ok := RetryAfter(assert.AnError)
	assert.False(t, ok)
}
