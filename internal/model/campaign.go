// internal/model/campaign.go
package model

import "time"

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusRunning   = "running"
	CampaignStatusStopped   = "stopped"
	CampaignStatusCompleted = "completed"
	CampaignStatusFailed    = "failed"
)

type Campaign struct {
	ID              int64      `db:"id" json:"id"`
	AccountID       string     `db:"account_id" json:"account_id"`
	Name            string     `db:"name" json:"name"`
	Status          string     `db:"status" json:"status"`
	DailyLimit      int        `db:"daily_limit" json:"daily_limit"`
	RunFrom         string     `db:"run_from" json:"run_from"` // "HH:MM", empty means no window
	RunTo           string     `db:"run_to" json:"run_to"`
	AutoStopOnEmpty bool       `db:"auto_stop_on_empty" json:"auto_stop_on_empty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
