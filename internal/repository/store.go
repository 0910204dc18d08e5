package repository

import (
	"context"

	"github.com/unclebandit/linkleopard-backend/internal/engine"
	"github.com/unclebandit/linkleopard-backend/internal/model"
	"github.com/unclebandit/linkleopard-backend/internal/retry"
)

// Store adapts the repositories to the engine's persistence collaborator
// and applies the retry policy uniformly at this boundary, keeping retry
// concerns out of the engine's business logic.
type Store struct {
	Campaigns CampaignRepositoryInterface
	Actions   ActionRepositoryInterface
	Leads     LeadRepositoryInterface
	Logs      ExecutionLogRepositoryInterface
	Retry     retry.Policy
}

func NewStore(db DBDeps) *Store {
	return &Store{
		Campaigns: db.Campaigns,
		Actions:   db.Actions,
		Leads:     db.Leads,
		Logs:      db.Logs,
		Retry:     retry.Default(),
	}
}

// DBDeps groups the concrete repositories for wiring in main.
type DBDeps struct {
	Campaigns *CampaignRepository
	Actions   *ActionRepository
	Leads     *LeadRepository
	Logs      *ExecutionLogRepository
}

func (s *Store) ActionsForCampaign(ctx context.Context, campaignID int64) ([]model.Action, error) {
	var actions []model.Action
	err := s.Retry.Do(ctx, func() error {
		var err error
		actions, err = s.Actions.ListByCampaign(campaignID)
		return err
	})
	return actions, err
}

func (s *Store) LeadsForCampaign(ctx context.Context, campaignID int64) ([]model.Lead, error) {
	var leads []model.Lead
	err := s.Retry.Do(ctx, func() error {
		var err error
		leads, err = s.Leads.ListQueued(campaignID)
		return err
	})
	return leads, err
}

func (s *Store) CRMProfile(ctx context.Context, profileID int64) (*model.CRMProfile, error) {
	var p *model.CRMProfile
	err := s.Retry.Do(ctx, func() error {
		var err error
		p, err = s.Leads.GetCRMProfile(profileID)
		return err
	})
	return p, err
}

func (s *Store) UpdateLeadStatus(ctx context.Context, campaignID, leadID int64, status string, actionID int64, errMsg string) error {
	return s.Retry.Do(ctx, func() error {
		return s.Leads.UpdateStatus(campaignID, leadID, status, actionID, errMsg)
	})
}

func (s *Store) UpdateActionStats(ctx context.Context, actionID int64, status string) error {
	return s.Retry.Do(ctx, func() error {
		return s.Actions.UpdateStats(actionID, status)
	})
}

func (s *Store) ActionStats(ctx context.Context, actionID int64) (model.ActionStats, error) {
	var stats model.ActionStats
	err := s.Retry.Do(ctx, func() error {
		var err error
		stats, err = s.Actions.GetStats(actionID)
		return err
	})
	return stats, err
}

func (s *Store) ResetActionStats(ctx context.Context, campaignID int64) error {
	return s.Retry.Do(ctx, func() error {
		return s.Actions.ResetStats(campaignID)
	})
}

func (s *Store) LogExecution(ctx context.Context, campaignID int64, actionType model.ActionType, status, message string) error {
	return s.Retry.Do(ctx, func() error {
		return s.Logs.Append(campaignID, actionType, status, message)
	})
}

func (s *Store) UpdateCampaignStatus(ctx context.Context, campaignID int64, status string) error {
	return s.Retry.Do(ctx, func() error {
		return s.Campaigns.UpdateStatus(campaignID, status)
	})
}

var _ engine.Store = (*Store)(nil)
