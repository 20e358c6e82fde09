package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-sdk/internal/enrich"
	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/pkg/firecrawl"
)

type mockFirecrawl struct {
	scrape func(ctx context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error)
}

func (m *mockFirecrawl) Scrape(ctx context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	return m.scrape(ctx, req)
}

func TestWebsiteFetch_ExtractsFields(t *testing.T) {
	client := &mockFirecrawl{
		scrape: func(_ context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
			assert.Equal(t, "https://acme.com", req.URL)
			return &firecrawl.ScrapeResponse{
				Success: true,
				Data: firecrawl.PageData{
					URL:      "https://www.acme.com",
					Markdown: "# Acme\n\nWe build with React and Kubernetes.",
					Metadata: firecrawl.PageMetadata{Description: "Rockets and anvils"},
				},
			}, nil
		},
	}

	src := NewWebsite(client)
	res, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Name: "Acme", Domain: "acme.com"}, nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "https://www.acme.com", res.Data["website"])
	assert.Equal(t, "acme.com", res.Data["domain"])
	assert.Equal(t, "Rockets and anvils", res.Data["description"])
	assert.Equal(t, []string{"Kubernetes", "React"}, res.Data["technologies"])
}

func TestWebsiteFetch_PrefersKnownWebsite(t *testing.T) {
	client := &mockFirecrawl{
		scrape: func(_ context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
			assert.Equal(t, "https://custom.example.org/about", req.URL)
			return &firecrawl.ScrapeResponse{Success: true}, nil
		},
	}

	src := NewWebsite(client)
	existing := &model.Company{Name: "Acme", Website: "https://custom.example.org/about"}
	_, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Name: "Acme", Domain: "acme.com"}, existing)
	require.NoError(t, err)
}

func TestWebsiteFetch_NoTarget(t *testing.T) {
	src := NewWebsite(&mockFirecrawl{})
	_, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Name: "Nameless"}, nil)
	require.Error(t, err)
}

func TestWebsiteFetch_RateLimitConverted(t *testing.T) {
	client := &mockFirecrawl{
		scrape: func(context.Context, firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
			return nil, &firecrawl.APIError{StatusCode: 429}
		},
	}

	src := NewWebsite(client)
	_, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Domain: "acme.com"}, nil)

	var rlErr *model.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "firecrawl", rlErr.Service)
}

func TestWebsiteFetch_RetriesTransientStatus(t *testing.T) {
	calls := 0
	client := &mockFirecrawl{
		scrape: func(context.Context, firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
			calls++
			if calls == 1 {
				return nil, &firecrawl.APIError{StatusCode: 503}
			}
			return &firecrawl.ScrapeResponse{Success: true}, nil
		},
	}

	src := NewWebsite(client)
	src.retry.InitialBackoff = time.Millisecond
	res, err := src.Fetch(context.Background(), enrich.CompanyIdentifier{Domain: "acme.com"}, nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, calls)
}
