// internal/engine/stepper.go
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/linkleopard-backend/internal/errors"
	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// Stepper walks a campaign's workflow strictly in order. Each action is
// run for every currently-queued lead, one lead at a time; DELAY actions
// then suspend the whole campaign for the configured duration. Per-lead
// failures never abort the loop; everything else does.
type Stepper struct {
	Store  Store
	Runner *Runner
	Log    *zap.Logger

	// wait is injectable so tests can observe delays without sleeping.
	wait func(ctx context.Context, d time.Duration) error
}

func NewStepper(store Store, runner *Runner, log *zap.Logger) *Stepper {
	return &Stepper{
		Store:  store,
		Runner: runner,
		Log:    log,
		wait:   ctxWait,
	}
}

// ctxWait sleeps for d or until the context ends, whichever is first.
// Cancellation interrupts a delay immediately instead of letting the
// full wait elapse.
func ctxWait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes every action of the workflow in ascending order.
func (s *Stepper) Run(ctx context.Context, campaign *model.Campaign, actions []model.Action) error {
	for i := range actions {
		action := &actions[i]
		if err := ctx.Err(); err != nil {
			return err
		}

		var nextActionID int64
		if i+1 < len(actions) {
			nextActionID = actions[i+1].ID
		}

		if err := s.runBatch(ctx, campaign, action, nextActionID); err != nil {
			return err
		}

		if action.Type == model.ActionDelay {
			if err := s.suspend(ctx, campaign, action); err != nil {
				return err
			}
		}
	}
	return nil
}

// runBatch runs one action for every lead currently queued at it.
func (s *Stepper) runBatch(ctx context.Context, campaign *model.Campaign, action *model.Action, nextActionID int64) error {
	leads, err := s.Store.LeadsForCampaign(ctx, campaign.ID)
	if err != nil {
		return appErrors.NewWorkflowStepFailure("fetch leads", err)
	}

	for _, lead := range leads {
		if lead.CurrentActionID != action.ID || lead.Status != model.LeadStatusQueued {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Runner.Run(ctx, campaign, action, lead, nextActionID); err != nil {
			return appErrors.NewWorkflowStepFailure("record lead outcome", err)
		}
	}
	return nil
}

func (s *Stepper) suspend(ctx context.Context, campaign *model.Campaign, action *model.Action) error {
	delay := DelayDuration(&action.Config)
	msg := fmt.Sprintf("delaying workflow for %dms", CalculateDelayMs(&action.Config))
	if err := s.Store.LogExecution(ctx, campaign.ID, action.Type, model.ExecStatusDelaying, msg); err != nil {
		return appErrors.NewWorkflowStepFailure("log delay", err)
	}

	s.Log.Info("workflow delaying",
		zap.Int64("campaign_id", campaign.ID),
		zap.Duration("delay", delay))
	return s.wait(ctx, delay)
}
