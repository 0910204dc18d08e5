// internal/model/action.go
package model

import "time"

// ActionType is one step kind in a campaign workflow.
type ActionType string

const (
	ActionSendInvitation ActionType = "SEND_INVITATION"
	ActionSendMessage    ActionType = "SEND_MESSAGE"
	ActionLikePost       ActionType = "LIKE_POST"
	ActionFollowUnfollow ActionType = "FOLLOW_UNFOLLOW"
	ActionVisitProfile   ActionType = "VISIT_PROFILE"
	ActionCommentPost    ActionType = "COMMENT_POST"
	ActionDelay          ActionType = "DELAY"

	// Synthetic types used only in execution log entries.
	ActionWorkflow ActionType = "WORKFLOW"
	ActionCampaign ActionType = "CAMPAIGN"
)

// Follow/unfollow modes
const (
	FollowModeFollow   = "follow"
	FollowModeUnfollow = "unfollow"
)

// ActionConfig is the per-type configuration stored as jsonb. Which
// fields are meaningful depends on the action type; validation happens
// at dispatch time.
type ActionConfig struct {
	Message           string `json:"message,omitempty"`
	Comment           string `json:"comment,omitempty"`
	PostCount         int    `json:"postCount,omitempty"`
	Mode              string `json:"mode,omitempty"`
	ScrapeProfile     bool   `json:"scrapeProfile,omitempty"`
	UseSalesNavigator bool   `json:"useSalesNavigator,omitempty"`
	Days              int    `json:"days,omitempty"`
	Hours             int    `json:"hours,omitempty"`
	Minutes           int    `json:"minutes,omitempty"`
}

type Action struct {
	ID         int64        `db:"id" json:"id"`
	CampaignID int64        `db:"campaign_id" json:"campaign_id"`
	Type       ActionType   `db:"type" json:"type"`
	Order      int          `db:"position" json:"order"` // 1-based, contiguous per campaign
	Config     ActionConfig `db:"config" json:"config"`
	Successful int          `db:"successful" json:"successful"`
	Failed     int          `db:"failed" json:"failed"`
	Queue      int          `db:"queue" json:"queue"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// ActionStats is the counter triple pushed to live observers.
type ActionStats struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Queue      int `json:"queue"`
}

// NeedsMessage reports whether the action type sends interpolated text.
func (t ActionType) NeedsMessage() bool {
	return t == ActionSendInvitation || t == ActionSendMessage || t == ActionCommentPost
}
