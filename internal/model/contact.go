package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactRole identifies a contact's function at the company.
type ContactRole string

const (
	RoleCEO            ContactRole = "ceo"
	RoleCTO            ContactRole = "cto"
	RoleDeveloper      ContactRole = "developer"
	RoleProductManager ContactRole = "product_manager"
	RoleMarketing      ContactRole = "marketing"
	RoleSales          ContactRole = "sales"
	RoleOther          ContactRole = "other"
)

// decisionMakerRoles are roles weighted as buying-decision makers by the
// scoring engine and preferred by Lead.PrimaryContact.
var decisionMakerRoles = []ContactRole{RoleCTO, RoleCEO, RoleDeveloper, RoleProductManager}

// Contact is a person attached to a lead.
type Contact struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"first_name,omitempty"`
	LastName       string          `json:"last_name,omitempty"`
	FullName       string          `json:"full_name,omitempty"`
	Email          string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string          `json:"phone,omitempty" validate:"omitempty,phone"`
	Role           ContactRole     `json:"role,omitempty"`
	Title          string          `json:"title,omitempty"`
	LinkedInURL    string          `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	SocialProfiles []SocialProfile `json:"social_profiles,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewContact creates a contact with a fresh identity and timestamps.
func NewContact() Contact {
	now := time.Now().UTC()
	return Contact{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks contact invariants.
func (c *Contact) Validate() error {
	return validateStruct(c)
}

// DisplayName returns the best available name for the contact.
func (c *Contact) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name != "" {
		return name
	}
	return c.Email
}

// IsDecisionMaker reports whether the contact's role carries buying authority.
func (c *Contact) IsDecisionMaker() bool {
	for _, r := range decisionMakerRoles {
		if c.Role == r {
			return true
		}
	}
	return false
}
