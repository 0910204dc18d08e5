// internal/model/execution_log.go
package model

import "time"

// Execution log statuses
const (
	ExecStatusRunning   = "running"
	ExecStatusCompleted = "completed"
	ExecStatusFailed    = "failed"
	ExecStatusStopped   = "stopped"
	ExecStatusDelaying  = "delaying"
)

// ExecutionLog is an append-only audit record of engine events.
type ExecutionLog struct {
	ID         int64      `db:"id" json:"id"`
	CampaignID int64      `db:"campaign_id" json:"campaign_id"`
	ActionType ActionType `db:"action_type" json:"action_type"`
	Status     string     `db:"status" json:"status"`
	Message    string     `db:"message" json:"message"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
