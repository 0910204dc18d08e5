// internal/service/run_worker.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/unclebandit/linkleopard-backend/internal/engine"
	"github.com/unclebandit/linkleopard-backend/internal/queue"
	"github.com/unclebandit/linkleopard-backend/internal/repository"
)

// RunRegistry tracks in-flight workflow runs so a campaign can only
// run once at a time and a stop request can cancel the live context.
type RunRegistry struct {
	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
}

func NewRunRegistry() *RunRegistry {
	return &RunRegistry{cancels: make(map[int64]context.CancelFunc)}
}

// Begin registers a run and returns its cancellable context. Fails when
// the campaign already has a run in flight.
func (r *RunRegistry) Begin(ctx context.Context, campaignID int64) (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, running := r.cancels[campaignID]; running {
		return nil, fmt.Errorf("campaign %d already has a run in flight", campaignID)
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancels[campaignID] = cancel
	return runCtx, nil
}

func (r *RunRegistry) End(campaignID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[campaignID]; ok {
		cancel()
		delete(r.cancels, campaignID)
	}
}

// Cancel interrupts the in-flight run, if any. Returns whether one was
// found. Stop latency is bounded: the context is checked before each
// lead and interrupts any delay wait.
func (r *RunRegistry) Cancel(campaignID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cancel, ok := r.cancels[campaignID]
	if ok {
		cancel()
	}
	return ok
}

// ErrJobNotStarted marks a run job that failed before reaching the
// engine; such jobs are safe to redeliver.
var ErrJobNotStarted = errors.New("run job not started")

// RunWorker consumes run jobs and drives the engine.
type RunWorker struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Controller   *engine.Controller
	Registry     *RunRegistry
	Log          *zap.Logger
}

func NewRunWorker(campaigns repository.CampaignRepositoryInterface, controller *engine.Controller, log *zap.Logger) *RunWorker {
	return &RunWorker{
		CampaignRepo: campaigns,
		Controller:   controller,
		Registry:     NewRunRegistry(),
		Log:          log,
	}
}

// Handle processes one run job. Start jobs block until the workflow run
// finishes; stop jobs return immediately after cancelling.
func (w *RunWorker) Handle(ctx context.Context, job queue.RunJob) error {
	campaign, err := w.CampaignRepo.GetByID(job.CampaignID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJobNotStarted, err)
	}

	switch job.Op {
	case "start":
		runCtx, err := w.Registry.Begin(ctx, campaign.ID)
		if err != nil {
			w.Log.Warn("refusing duplicate run", zap.Int64("campaign_id", campaign.ID))
			return nil
		}
		defer w.Registry.End(campaign.ID)
		return w.Controller.Start(runCtx, campaign)
	case "stop":
		if !w.Registry.Cancel(campaign.ID) {
			w.Log.Info("stop requested with no run in flight", zap.Int64("campaign_id", campaign.ID))
		}
		return w.Controller.Stop(ctx, campaign)
	default:
		return fmt.Errorf("unknown run op: %s", job.Op)
	}
}
