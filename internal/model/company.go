package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Industry categorizes a company's primary vertical.
type Industry string

const (
	IndustryTechnology    Industry = "technology"
	IndustryHealthcare    Industry = "healthcare"
	IndustryFinance       Industry = "finance"
	IndustryRetail        Industry = "retail"
	IndustryManufacturing Industry = "manufacturing"
	IndustryEducation     Industry = "education"
	IndustryRealEstate    Industry = "real_estate"
	IndustryConsulting    Industry = "consulting"
	IndustryMarketing     Industry = "marketing"
	IndustryOther         Industry = "other"
)

// CompanySize buckets a company by headcount.
type CompanySize string

const (
	SizeStartup    CompanySize = "startup"    // 1-10 employees
	SizeSmall      CompanySize = "small"      // 11-50 employees
	SizeMedium     CompanySize = "medium"     // 51-200 employees
	SizeLarge      CompanySize = "large"      // 201-1000 employees
	SizeEnterprise CompanySize = "enterprise" // 1000+ employees
)

// SocialProfile is a social media presence attached to a company or contact.
type SocialProfile struct {
	Platform    string     `json:"platform"`
	URL         string     `json:"url" validate:"omitempty,url"`
	Followers   *int       `json:"followers,omitempty"`
	Verified    *bool      `json:"verified,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// Company holds everything known about a target company. Most fields are
// optional and get filled in by enrichment sources.
type Company struct {
	ID             string          `json:"id"`
	Name           string          `json:"name" validate:"required"`
	Domain         string          `json:"domain,omitempty"`
	Website        string          `json:"website,omitempty" validate:"omitempty,url"`
	Description    string          `json:"description,omitempty"`
	Industry       Industry        `json:"industry,omitempty"`
	Size           CompanySize     `json:"size,omitempty"`
	EmployeeCount  *int            `json:"employee_count,omitempty" validate:"omitempty,gte=0"`
	FoundedYear    *int            `json:"founded_year,omitempty" validate:"omitempty,gte=1800"`
	Headquarters   string          `json:"headquarters,omitempty"`
	City           string          `json:"city,omitempty"`
	State          string          `json:"state,omitempty"`
	Country        string          `json:"country,omitempty"`
	Phone          string          `json:"phone,omitempty" validate:"omitempty,phone"`
	LinkedInURL    string          `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	SocialProfiles []SocialProfile `json:"social_profiles,omitempty"`
	Technologies   []string        `json:"technologies,omitempty"`
	FundingInfo    map[string]any  `json:"funding_info,omitempty"`
	AnnualRevenue  string          `json:"annual_revenue,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewCompany creates a company with a fresh identity and timestamps.
func NewCompany(name string) Company {
	now := time.Now().UTC()
	return Company{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks company invariants. FoundedYear's upper bound depends on
// the current year, which struct tags cannot express, so it is checked here.
func (c *Company) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.FoundedYear != nil && *c.FoundedYear > time.Now().Year() {
		return &ValidationError{Field: "founded_year", Msg: "founded year is in the future"}
	}
	return nil
}

// HasTechnology reports whether the company's stack includes tech
// (case-insensitive exact match).
func (c *Company) HasTechnology(tech string) bool {
	for _, t := range c.Technologies {
		if strings.EqualFold(t, tech) {
			return true
		}
	}
	return false
}
