package model

import (
	"time"

	"github.com/google/uuid"
)

// CampaignType is the outreach channel for a campaign.
type CampaignType string

const (
	CampaignEmail        CampaignType = "email"
	CampaignLinkedIn     CampaignType = "linkedin"
	CampaignPhone        CampaignType = "phone"
	CampaignMultiChannel CampaignType = "multi_channel"
)

// CampaignStatus is the lifecycle state of a campaign record.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// MessageTemplate is a reusable outreach message with substitution variables.
type MessageTemplate struct {
	ID        string       `json:"id"`
	Name      string       `json:"name" validate:"required"`
	Subject   string       `json:"subject,omitempty"`
	Content   string       `json:"content" validate:"required"`
	Variables []string     `json:"variables,omitempty"`
	Channel   CampaignType `json:"channel"`
	CreatedAt time.Time    `json:"created_at"`
}

// Campaign groups leads for outreach. Delivery automation lives outside this
// module; Campaign is a data record only.
type Campaign struct {
	ID          string            `json:"id"`
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description,omitempty"`
	Type        CampaignType      `json:"type"`
	Status      CampaignStatus    `json:"status"`
	TargetLeads []string          `json:"target_leads,omitempty"` // lead IDs
	Templates   []MessageTemplate `json:"message_templates,omitempty"`
	Schedule    map[string]any    `json:"schedule,omitempty"`
	Settings    map[string]any    `json:"settings,omitempty"`
	Metrics     map[string]any    `json:"metrics,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// NewCampaign creates a draft campaign with a fresh identity.
func NewCampaign(name string, typ CampaignType) *Campaign {
	now := time.Now().UTC()
	return &Campaign{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      typ,
		Status:    CampaignDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
