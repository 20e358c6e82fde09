// Package source holds the built-in enrichment source adapters. Each adapter
// wraps an external API client, applies transient-error retry, and maps rate
// limit rejections onto the shared error vocabulary.
package source

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-sdk/internal/enrich"
	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/resilience"
	"github.com/sells-group/outreach-sdk/pkg/firecrawl"
)

// WebsiteName is the registry name of the website scrape source.
const WebsiteName = "website"

// knownTechnologies are stack markers scanned for in page content. Keys are
// lowercase match strings, values the canonical technology name.
var knownTechnologies = map[string]string{
	"react":      "React",
	"vue":        "Vue.js",
	"angular":    "Angular",
	"next.js":    "Next.js",
	"node.js":    "Node.js",
	"python":     "Python",
	"django":     "Django",
	"golang":     "Go",
	"kubernetes": "Kubernetes",
	"terraform":  "Terraform",
	"aws":        "AWS",
	"azure":      "Azure",
	"postgresql": "PostgreSQL",
	"mongodb":    "MongoDB",
	"redis":      "Redis",
	"kafka":      "Kafka",
	"snowflake":  "Snowflake",
	"salesforce": "Salesforce",
	"shopify":    "Shopify",
	"stripe":     "Stripe",
}

// Website enriches a lead by scraping the company's website.
type Website struct {
	client firecrawl.Client
	retry  resilience.RetryConfig
}

// NewWebsite creates the website source over a Firecrawl client.
func NewWebsite(client firecrawl.Client) *Website {
	cfg := resilience.DefaultRetryConfig()
	cfg.ShouldRetry = retryAPIError[*firecrawl.APIError](func(e *firecrawl.APIError) int { return e.StatusCode })
	cfg.OnRetry = resilience.RetryLogger("firecrawl", "scrape")
	return &Website{
		client: client,
		retry:  cfg,
	}
}

// Name implements enrich.Source.
func (w *Website) Name() string { return WebsiteName }

// Fetch implements enrich.Source. It scrapes the company website (or the
// guessed domain when no website is known) and extracts description,
// technology hints, and canonical URLs.
func (w *Website) Fetch(ctx context.Context, id enrich.CompanyIdentifier, existing *model.Company) (*model.EnrichmentResult, error) {
	target := scrapeTarget(id, existing)
	if target == "" {
		return nil, eris.New("website: no website or domain to scrape")
	}

	start := time.Now()
	resp, err := resilience.DoVal(ctx, w.retry, func(ctx context.Context) (*firecrawl.ScrapeResponse, error) {
		return w.client.Scrape(ctx, firecrawl.ScrapeRequest{
			URL:     target,
			Formats: []string{"markdown"},
		})
	})
	if err != nil {
		var apiErr *firecrawl.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return nil, &model.RateLimitError{Service: "firecrawl", RetryAfter: apiErr.RetryAfter}
		}
		return nil, eris.Wrap(err, "website: scrape")
	}

	data := make(map[string]any)
	page := resp.Data

	finalURL := page.URL
	if finalURL == "" {
		finalURL = target
	}
	data["website"] = finalURL
	if host := hostOf(finalURL); host != "" {
		data["domain"] = host
	}
	if desc := pageDescription(page); desc != "" {
		data["description"] = desc
	}
	if techs := detectTechnologies(page.Markdown); len(techs) > 0 {
		data["technologies"] = techs
	}

	return &model.EnrichmentResult{
		Source:         WebsiteName,
		Success:        true,
		Data:           data,
		EnrichedAt:     time.Now().UTC(),
		ProcessingTime: time.Since(start),
	}, nil
}

func scrapeTarget(id enrich.CompanyIdentifier, existing *model.Company) string {
	if existing != nil && existing.Website != "" {
		return existing.Website
	}
	if id.Website != "" {
		return id.Website
	}
	domain := id.Domain
	if domain == "" && existing != nil {
		domain = existing.Domain
	}
	if domain == "" {
		return ""
	}
	return "https://" + domain
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func pageDescription(page firecrawl.PageData) string {
	if page.Metadata.Description != "" {
		return page.Metadata.Description
	}
	// Fall back to the first non-heading paragraph of the page body.
	for _, para := range strings.Split(page.Markdown, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") || strings.HasPrefix(para, "!") {
			continue
		}
		if len(para) > 400 {
			para = para[:400]
		}
		return para
	}
	return ""
}

func detectTechnologies(markdown string) []string {
	if markdown == "" {
		return nil
	}
	lower := strings.ToLower(markdown)
	var techs []string
	for marker, canonical := range knownTechnologies {
		if strings.Contains(lower, marker) {
			techs = append(techs, canonical)
		}
	}
	sort.Strings(techs)
	return techs
}

// retryAPIError builds a ShouldRetry predicate that treats API errors with a
// retryable HTTP status as transient, except 429 which the caller converts to
// a rate limit error instead of retrying blind.
func retryAPIError[E error](status func(E) int) func(error) bool {
	return func(err error) bool {
		var apiErr E
		if errors.As(err, &apiErr) {
			code := status(apiErr)
			return code != http.StatusTooManyRequests && resilience.IsTransientHTTPStatus(code)
		}
		return resilience.IsTransient(err)
	}
}
