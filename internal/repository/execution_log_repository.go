package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

type ExecutionLogRepositoryInterface interface {
	Append(campaignID int64, actionType model.ActionType, status, message string) error
	ListByCampaign(campaignID int64, limit int) ([]model.ExecutionLog, error)
}

// ExecutionLogRepository is append-only: entries are never updated or
// deleted by the engine.
type ExecutionLogRepository struct {
	DB *sql.DB
}

func (r *ExecutionLogRepository) Append(campaignID int64, actionType model.ActionType, status, message string) error {
	query := `
        INSERT INTO execution_logs (campaign_id, action_type, status, message, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.DB.Exec(query, campaignID, actionType, status, message, time.Now())
	return err
}

func (r *ExecutionLogRepository) ListByCampaign(campaignID int64, limit int) ([]model.ExecutionLog, error) {
	if limit < 1 {
		limit = 100
	}
	query := `
        SELECT id, campaign_id, action_type, status, message, created_at
        FROM execution_logs
        WHERE campaign_id=$1
        ORDER BY id DESC
        LIMIT $2
    `
	rows, err := r.DB.Query(query, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.ExecutionLog{}
	for rows.Next() {
		var e model.ExecutionLog
		if err := rows.Scan(&e.ID, &e.CampaignID, &e.ActionType, &e.Status, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

var _ ExecutionLogRepositoryInterface = (*ExecutionLogRepository)(nil)
