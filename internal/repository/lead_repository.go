package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

type LeadRepositoryInterface interface {
	BulkInsert(campaignID, firstActionID int64, profileIDs []int64) (int, error)
	ListQueued(campaignID int64) ([]model.Lead, error)
	UpdateStatus(campaignID, leadID int64, status string, actionID int64, errMsg string) error
	GetCRMProfile(id int64) (*model.CRMProfile, error)
}

type LeadRepository struct {
	DB *sql.DB
}

// BulkInsert enrolls CRM profiles as queued leads positioned at the
// first workflow step. Profiles already enrolled are skipped. Returns
// the number of rows actually inserted.
func (r *LeadRepository) BulkInsert(campaignID, firstActionID int64, profileIDs []int64) (int, error) {
	query := `
        INSERT INTO leads (campaign_id, crm_profile_id, lh_id, status, funnel_status, current_action_id)
        SELECT $1, p.id, p.lh_id, 'queued', 'queued', $2
        FROM crm_profiles p
        WHERE p.id = ANY($3)
          AND NOT EXISTS (
              SELECT 1 FROM leads l WHERE l.campaign_id = $1 AND l.crm_profile_id = p.id
          )
    `
	res, err := r.DB.Exec(query, campaignID, firstActionID, pq.Array(profileIDs))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListQueued fetches the campaign's queued leads with their CRM profile
// embedded, in insertion order.
func (r *LeadRepository) ListQueued(campaignID int64) ([]model.Lead, error) {
	query := `
        SELECT l.id, l.campaign_id, l.crm_profile_id, l.lh_id, l.status, l.funnel_status,
               l.current_action_id, l.last_action_date, l.error_message,
               p.id, p.name, p.headline, p.location, p.lh_id
        FROM leads l
        JOIN crm_profiles p ON p.id = l.crm_profile_id
        WHERE l.campaign_id=$1 AND l.status='queued'
        ORDER BY l.id ASC
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		var l model.Lead
		var errMsg sql.NullString
		if err := rows.Scan(
			&l.ID, &l.CampaignID, &l.CRMProfileID, &l.LinkedInID, &l.Status, &l.FunnelStatus,
			&l.CurrentActionID, &l.LastActionDate, &errMsg,
			&l.Profile.ID, &l.Profile.Name, &l.Profile.Headline, &l.Profile.Location, &l.Profile.LinkedInID,
		); err != nil {
			return nil, err
		}
		l.ErrorMessage = errMsg.String
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// UpdateStatus records a lead's outcome for an action. funnel_status
// mirrors status; "queued" repositions the lead at actionID.
func (r *LeadRepository) UpdateStatus(campaignID, leadID int64, status string, actionID int64, errMsg string) error {
	query := `
        UPDATE leads
        SET status=$1, funnel_status=$1, current_action_id=$2, error_message=NULLIF($3, ''), last_action_date=$4
        WHERE id=$5 AND campaign_id=$6
    `
	_, err := r.DB.Exec(query, status, actionID, errMsg, time.Now(), leadID, campaignID)
	return err
}

func (r *LeadRepository) GetCRMProfile(id int64) (*model.CRMProfile, error) {
	query := `SELECT id, name, headline, location, lh_id FROM crm_profiles WHERE id=$1`
	var p model.CRMProfile
	err := r.DB.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Headline, &p.Location, &p.LinkedInID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &p, nil
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
