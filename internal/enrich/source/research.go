package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-sdk/internal/enrich"
	"github.com/sells-group/outreach-sdk/internal/model"
	"github.com/sells-group/outreach-sdk/internal/resilience"
	"github.com/sells-group/outreach-sdk/pkg/perplexity"
)

// ResearchName is the registry name of the web-research source.
const ResearchName = "research"

const researchSystemPrompt = `You are a B2B company research assistant. ` +
	`Research the company and respond with a single JSON object only, no prose ` +
	`and no markdown fences. Use null for unknown fields. Schema: ` +
	`{"industry": one of [technology, healthcare, finance, retail, manufacturing, education, real_estate, consulting, marketing, other], ` +
	`"size": one of [startup, small, medium, large, enterprise], ` +
	`"employee_count": integer, "founded_year": integer, ` +
	`"headquarters": string, "city": string, "state": string, "country": string, ` +
	`"description": string, "technologies": [string], ` +
	`"funding_info": object, "annual_revenue": string, "linkedin_url": string, ` +
	`"contacts": [{"name": string, "title": string, "role": one of [ceo, cto, developer, product_manager, marketing, sales, other], "email": string, "linkedin_url": string}]}`

// researchPayload mirrors the JSON schema the model is instructed to return.
type researchPayload struct {
	Industry      string           `json:"industry"`
	Size          string           `json:"size"`
	EmployeeCount *int             `json:"employee_count"`
	FoundedYear   *int             `json:"founded_year"`
	Headquarters  string           `json:"headquarters"`
	City          string           `json:"city"`
	State         string           `json:"state"`
	Country       string           `json:"country"`
	Description   string           `json:"description"`
	Technologies  []string         `json:"technologies"`
	FundingInfo   map[string]any   `json:"funding_info"`
	AnnualRevenue string           `json:"annual_revenue"`
	LinkedInURL   string           `json:"linkedin_url"`
	Contacts      []researchPerson `json:"contacts"`
}

type researchPerson struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	LinkedInURL string `json:"linkedin_url"`
}

// Research enriches a lead through an LLM web-research provider.
type Research struct {
	client perplexity.Client
	retry  resilience.RetryConfig
}

// NewResearch creates the research source over a Perplexity client.
func NewResearch(client perplexity.Client) *Research {
	cfg := resilience.DefaultRetryConfig()
	cfg.ShouldRetry = retryAPIError[*perplexity.APIError](func(e *perplexity.APIError) int { return e.StatusCode })
	cfg.OnRetry = resilience.RetryLogger("perplexity", "chat completion")
	return &Research{
		client: client,
		retry:  cfg,
	}
}

// Name implements enrich.Source.
func (r *Research) Name() string { return ResearchName }

// Fetch implements enrich.Source. It asks the research provider for a
// structured company profile and maps it onto enrichment data.
func (r *Research) Fetch(ctx context.Context, id enrich.CompanyIdentifier, existing *model.Company) (*model.EnrichmentResult, error) {
	if id.Name == "" {
		return nil, eris.New("research: company name is required")
	}

	query := fmt.Sprintf("Research the company %q", id.Name)
	if id.Domain != "" {
		query += fmt.Sprintf(" (domain %s)", id.Domain)
	}

	start := time.Now()
	resp, err := resilience.DoVal(ctx, r.retry, func(ctx context.Context) (*perplexity.ChatCompletionResponse, error) {
		return r.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
			Messages: []perplexity.Message{
				{Role: "system", Content: researchSystemPrompt},
				{Role: "user", Content: query},
			},
		})
	})
	if err != nil {
		var apiErr *perplexity.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return nil, &model.RateLimitError{Service: "perplexity", RetryAfter: apiErr.RetryAfter}
		}
		return nil, eris.Wrap(err, "research: chat completion")
	}

	var payload researchPayload
	if err := json.Unmarshal([]byte(extractJSON(resp.Content())), &payload); err != nil {
		return nil, eris.Wrap(err, "research: decode company profile")
	}

	return &model.EnrichmentResult{
		Source:         ResearchName,
		Success:        true,
		Data:           payload.toData(),
		EnrichedAt:     time.Now().UTC(),
		ProcessingTime: time.Since(start),
	}, nil
}

func (p *researchPayload) toData() map[string]any {
	data := make(map[string]any)
	setIfNotEmpty := func(key, val string) {
		if val != "" {
			data[key] = val
		}
	}
	setIfNotEmpty("industry", p.Industry)
	setIfNotEmpty("size", p.Size)
	setIfNotEmpty("headquarters", p.Headquarters)
	setIfNotEmpty("city", p.City)
	setIfNotEmpty("state", p.State)
	setIfNotEmpty("country", p.Country)
	setIfNotEmpty("description", p.Description)
	setIfNotEmpty("annual_revenue", p.AnnualRevenue)
	setIfNotEmpty("linkedin_url", p.LinkedInURL)

	if p.EmployeeCount != nil {
		data["employee_count"] = *p.EmployeeCount
	}
	if p.FoundedYear != nil {
		data["founded_year"] = *p.FoundedYear
	}
	if len(p.Technologies) > 0 {
		data["technologies"] = p.Technologies
	}
	if len(p.FundingInfo) > 0 {
		data["funding_info"] = p.FundingInfo
	}
	if contacts := p.toContacts(); len(contacts) > 0 {
		data["contacts"] = contacts
	}
	return data
}

func (p *researchPayload) toContacts() []model.Contact {
	contacts := make([]model.Contact, 0, len(p.Contacts))
	for _, person := range p.Contacts {
		if person.Name == "" && person.Email == "" {
			continue
		}
		c := model.NewContact()
		c.FullName = person.Name
		c.Title = person.Title
		c.Email = person.Email
		c.LinkedInURL = person.LinkedInURL
		c.Role = contactRole(person.Role)
		contacts = append(contacts, c)
	}
	return contacts
}

func contactRole(role string) model.ContactRole {
	switch model.ContactRole(strings.ToLower(role)) {
	case model.RoleCEO:
		return model.RoleCEO
	case model.RoleCTO:
		return model.RoleCTO
	case model.RoleDeveloper:
		return model.RoleDeveloper
	case model.RoleProductManager:
		return model.RoleProductManager
	case model.RoleMarketing:
		return model.RoleMarketing
	case model.RoleSales:
		return model.RoleSales
	default:
		return model.RoleOther
	}
}

// extractJSON trims markdown code fences and any prose surrounding the first
// top-level JSON object in a model response.
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
