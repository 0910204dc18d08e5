package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/linkleopard-backend/internal/engine"
	"github.com/unclebandit/linkleopard-backend/internal/model"
	"github.com/unclebandit/linkleopard-backend/internal/queue"
	"github.com/unclebandit/linkleopard-backend/internal/service"
)

// workerStore is the minimal engine.Store a controller needs for runs
// that never reach an executor: no workflow, no leads.
type workerStore struct {
	statuses []string
	logs     []string
}

func (s *workerStore) ActionsForCampaign(ctx context.Context, campaignID int64) ([]model.Action, error) {
	return nil, nil
}
func (s *workerStore) LeadsForCampaign(ctx context.Context, campaignID int64) ([]model.Lead, error) {
	return nil, nil
}
func (s *workerStore) CRMProfile(ctx context.Context, profileID int64) (*model.CRMProfile, error) {
	return nil, nil
}
func (s *workerStore) UpdateLeadStatus(ctx context.Context, campaignID, leadID int64, status string, actionID int64, errMsg string) error {
	return nil
}
func (s *workerStore) UpdateActionStats(ctx context.Context, actionID int64, status string) error {
	return nil
}
func (s *workerStore) ActionStats(ctx context.Context, actionID int64) (model.ActionStats, error) {
	return model.ActionStats{}, nil
}
func (s *workerStore) ResetActionStats(ctx context.Context, campaignID int64) error { return nil }
func (s *workerStore) LogExecution(ctx context.Context, campaignID int64, actionType model.ActionType, status, message string) error {
	s.logs = append(s.logs, status)
	return nil
}
func (s *workerStore) UpdateCampaignStatus(ctx context.Context, campaignID int64, status string) error {
	s.statuses = append(s.statuses, status)
	return nil
}

type failingCampaignRepo struct{}

func (failingCampaignRepo) Create(c *model.Campaign) error { return nil }
func (failingCampaignRepo) GetByID(id int64) (*model.Campaign, error) {
	return nil, fmt.Errorf("connection refused")
}
func (failingCampaignRepo) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	return nil, 0, nil
}
func (failingCampaignRepo) UpdateStatus(campaignID int64, status string) error { return nil }
func (failingCampaignRepo) Update(c *model.Campaign) error                     { return nil }

func newWorker(campaign *model.Campaign) (*service.RunWorker, *workerStore) {
	store := &workerStore{}
	log := zap.NewNop()
	runner := engine.NewRunner(store, nil, nil, log)
	controller := engine.NewController(store, engine.NewStepper(store, runner, log), log)
	worker := service.NewRunWorker(&mockCampaignRepo{campaign: campaign}, controller, log)
	return worker, store
}

func TestRegistryRefusesDuplicateRun(t *testing.T) {
	reg := service.NewRunRegistry()

	_, err := reg.Begin(context.Background(), 1)
	require.NoError(t, err)

	_, err = reg.Begin(context.Background(), 1)
	assert.Error(t, err, "one run in flight per campaign")

	// A different campaign is unaffected.
	_, err = reg.Begin(context.Background(), 2)
	assert.NoError(t, err)

	reg.End(1)
	_, err = reg.Begin(context.Background(), 1)
	assert.NoError(t, err, "ended runs free the slot")
}

func TestRegistryCancelInterruptsRunContext(t *testing.T) {
	reg := service.NewRunRegistry()

	runCtx, err := reg.Begin(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, reg.Cancel(1))
	assert.ErrorIs(t, runCtx.Err(), context.Canceled)

	assert.False(t, reg.Cancel(99), "nothing in flight for campaign 99")
}

func TestHandleStartRunsWorkflowToCompletion(t *testing.T) {
	campaign := &model.Campaign{ID: 1, Status: model.CampaignStatusDraft}
	worker, store := newWorker(campaign)

	err := worker.Handle(context.Background(), queue.RunJob{CampaignID: 1, Op: "start"})

	require.NoError(t, err)
	// Empty workflow: running then completed, no lead ever touched.
	assert.Equal(t, []string{model.CampaignStatusRunning, model.CampaignStatusCompleted}, store.statuses)
}

func TestHandleStopCancelsAndMarksStopped(t *testing.T) {
	campaign := &model.Campaign{ID: 1, Status: model.CampaignStatusRunning}
	worker, store := newWorker(campaign)

	err := worker.Handle(context.Background(), queue.RunJob{CampaignID: 1, Op: "stop"})

	require.NoError(t, err)
	assert.Equal(t, []string{model.CampaignStatusStopped}, store.statuses)
	assert.Contains(t, store.logs, model.ExecStatusStopped)
}

func TestHandleUnknownOp(t *testing.T) {
	campaign := &model.Campaign{ID: 1, Status: model.CampaignStatusDraft}
	worker, _ := newWorker(campaign)

	err := worker.Handle(context.Background(), queue.RunJob{CampaignID: 1, Op: "pause"})

	assert.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrJobNotStarted), "the job did reach the worker")
}

func TestHandleMarksUnstartedJobsRedeliverable(t *testing.T) {
	store := &workerStore{}
	log := zap.NewNop()
	runner := engine.NewRunner(store, nil, nil, log)
	controller := engine.NewController(store, engine.NewStepper(store, runner, log), log)
	worker := service.NewRunWorker(failingCampaignRepo{}, controller, log)

	err := worker.Handle(context.Background(), queue.RunJob{CampaignID: 1, Op: "start"})

	assert.ErrorIs(t, err, service.ErrJobNotStarted)
	assert.Empty(t, store.statuses, "the engine was never reached")
}
