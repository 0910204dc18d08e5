package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

type ActionRepositoryInterface interface {
	Create(a *model.Action) error
	GetByID(id int64) (*model.Action, error)
	ListByCampaign(campaignID int64) ([]model.Action, error)
	SwapOrder(campaignID, actionID int64, direction string) error
	Remove(campaignID, actionID int64) error

	// Counter bookkeeping. UpdateStats applies one atomic step per the
	// status: successful/failed also decrement queue, queued increments it.
	UpdateStats(actionID int64, status string) error
	GetStats(actionID int64) (model.ActionStats, error)
	ResetStats(campaignID int64) error
	AddToQueue(actionID int64, n int) error
}

type ActionRepository struct {
	DB *sql.DB
}

func (r *ActionRepository) Create(a *model.Action) error {
	cfg, err := json.Marshal(a.Config)
	if err != nil {
		return err
	}
	// New steps append at the end of the workflow.
	query := `
        INSERT INTO actions (campaign_id, type, position, config, successful, failed, queue, created_at)
        VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM actions WHERE campaign_id = $1), $3, 0, 0, 0, NOW())
        RETURNING id, position, created_at
    `
	return r.DB.QueryRow(query, a.CampaignID, a.Type, cfg).Scan(&a.ID, &a.Order, &a.CreatedAt)
}

func (r *ActionRepository) GetByID(id int64) (*model.Action, error) {
	query := `
        SELECT id, campaign_id, type, position, config, successful, failed, queue, created_at
        FROM actions WHERE id=$1
    `
	return scanAction(r.DB.QueryRow(query, id))
}

func (r *ActionRepository) ListByCampaign(campaignID int64) ([]model.Action, error) {
	query := `
        SELECT id, campaign_id, type, position, config, successful, failed, queue, created_at
        FROM actions
        WHERE campaign_id=$1
        ORDER BY position ASC
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := []model.Action{}
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *a)
	}
	return actions, rows.Err()
}

// SwapOrder exchanges an action's position with its neighbor. direction
// is "up" or "down". Swapping past either end is a no-op.
func (r *ActionRepository) SwapOrder(campaignID, actionID int64, direction string) error {
	offset := 1
	if direction == "up" {
		offset = -1
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pos int
	if err := tx.QueryRow(`SELECT position FROM actions WHERE id=$1 AND campaign_id=$2`, actionID, campaignID).Scan(&pos); err != nil {
		return err
	}

	var neighborID int64
	err = tx.QueryRow(`SELECT id FROM actions WHERE campaign_id=$1 AND position=$2`, campaignID, pos+offset).Scan(&neighborID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	// Park the action at a sentinel position first so the swap never
	// trips the (campaign_id, position) unique constraint.
	if _, err := tx.Exec(`UPDATE actions SET position=-1 WHERE id=$1`, actionID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE actions SET position=$1 WHERE id=$2`, pos, neighborID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE actions SET position=$1 WHERE id=$2`, pos+offset, actionID); err != nil {
		return err
	}
	return tx.Commit()
}

// Remove deletes a step and closes the position gap it leaves.
func (r *ActionRepository) Remove(campaignID, actionID int64) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var pos int
	if err := tx.QueryRow(`SELECT position FROM actions WHERE id=$1 AND campaign_id=$2`, actionID, campaignID).Scan(&pos); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM actions WHERE id=$1`, actionID); err != nil {
		return err
	}
	// Close the gap in two phases: row-by-row decrements would collide
	// with the (campaign_id, position) unique constraint.
	if _, err := tx.Exec(`UPDATE actions SET position = -position WHERE campaign_id=$1 AND position > $2`, campaignID, pos); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE actions SET position = -position - 1 WHERE campaign_id=$1 AND position < 0`, campaignID); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateStats uses single-statement increments so concurrent runs and
// manual edits cannot lose updates.
func (r *ActionRepository) UpdateStats(actionID int64, status string) error {
	var query string
	switch status {
	case model.LeadStatusSuccessful:
		query = `UPDATE actions SET successful = successful + 1, queue = queue - 1 WHERE id=$1`
	case model.LeadStatusFailed:
		query = `UPDATE actions SET failed = failed + 1, queue = queue - 1 WHERE id=$1`
	case model.LeadStatusQueued:
		query = `UPDATE actions SET queue = queue + 1 WHERE id=$1`
	default:
		return fmt.Errorf("unknown action stat status: %s", status)
	}
	_, err := r.DB.Exec(query, actionID)
	return err
}

func (r *ActionRepository) GetStats(actionID int64) (model.ActionStats, error) {
	var s model.ActionStats
	err := r.DB.QueryRow(`SELECT successful, failed, queue FROM actions WHERE id=$1`, actionID).
		Scan(&s.Successful, &s.Failed, &s.Queue)
	return s, err
}

// ResetStats zeroes the outcome counters for a new run and recomputes
// each queue from actual lead positions, so a previous run's drift
// cannot carry over.
func (r *ActionRepository) ResetStats(campaignID int64) error {
	query := `
        UPDATE actions SET
            successful = 0,
            failed = 0,
            queue = (
                SELECT COUNT(*) FROM leads
                WHERE leads.current_action_id = actions.id AND leads.status = 'queued'
            )
        WHERE campaign_id=$1
    `
	_, err := r.DB.Exec(query, campaignID)
	return err
}

func (r *ActionRepository) AddToQueue(actionID int64, n int) error {
	_, err := r.DB.Exec(`UPDATE actions SET queue = queue + $1 WHERE id=$2`, n, actionID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAction(row rowScanner) (*model.Action, error) {
	var a model.Action
	var cfg []byte
	if err := row.Scan(&a.ID, &a.CampaignID, &a.Type, &a.Order, &cfg, &a.Successful, &a.Failed, &a.Queue, &a.CreatedAt); err != nil {
		return nil, err
	}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &a.Config); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

var _ ActionRepositoryInterface = (*ActionRepository)(nil)
