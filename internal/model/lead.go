// internal/model/lead.go
package model

import "time"

// Lead statuses. The engine writes queued/successful/failed;
// processing, excluded, and processed are set by the lead management
// endpoints and imported CRM data, and filtered on during runs.
const (
	LeadStatusQueued     = "queued"
	LeadStatusProcessing = "processing"
	LeadStatusSuccessful = "successful"
	LeadStatusFailed     = "failed"
	LeadStatusExcluded   = "excluded"
	LeadStatusProcessed  = "processed"
)

// CRMProfile is the contact record a lead points at.
type CRMProfile struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Headline   string `db:"headline" json:"headline"`
	Location   string `db:"location" json:"location"`
	LinkedInID string `db:"lh_id" json:"lh_id"`
}

type Lead struct {
	ID              int64      `db:"id" json:"id"`
	CampaignID      int64      `db:"campaign_id" json:"campaign_id"`
	CRMProfileID    int64      `db:"crm_profile_id" json:"crm_profile_id"`
	LinkedInID      string     `db:"lh_id" json:"lh_id"`
	Status          string     `db:"status" json:"status"`
	FunnelStatus    string     `db:"funnel_status" json:"funnel_status"`
	CurrentActionID int64      `db:"current_action_id" json:"current_action_id"`
	LastActionDate  *time.Time `db:"last_action_date" json:"last_action_date,omitempty"`
	ErrorMessage    string     `db:"error_message" json:"error_message,omitempty"`

	// Embedded CRM fields, populated by the lead-fetch join.
	Profile CRMProfile `json:"profile"`
}

// ScrapedProfile is on-demand enrichment, fetched per lead per action
// when the action config asks for it. Never cached by the engine.
type ScrapedProfile struct {
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Headline  string            `json:"headline"`
	Positions []ScrapedPosition `json:"positions"`
}

// ScrapedPosition is one work-history entry, most recent first.
type ScrapedPosition struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// Post is a recent post on a lead's feed.
type Post struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
}
