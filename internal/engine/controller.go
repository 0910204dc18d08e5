// internal/engine/controller.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// Controller owns campaign lifecycle: it loads the workflow and lead
// set, resets counters, drives the stepper, and records the terminal
// campaign status. Status transitions during a run happen only here.
type Controller struct {
	Store   Store
	Stepper *Stepper
	Log     *zap.Logger
}

func NewController(store Store, stepper *Stepper, log *zap.Logger) *Controller {
	return &Controller{Store: store, Stepper: stepper, Log: log}
}

// Start executes the campaign's workflow end to end. A campaign with no
// queued leads (or no workflow) is marked completed without touching any
// executor. A cancelled run is left alone: Stop already set the status.
func (c *Controller) Start(ctx context.Context, campaign *model.Campaign) error {
	runID := uuid.NewString()

	if err := c.Store.UpdateCampaignStatus(ctx, campaign.ID, model.CampaignStatusRunning); err != nil {
		return err
	}
	if err := c.Store.LogExecution(ctx, campaign.ID, model.ActionCampaign, model.ExecStatusRunning,
		fmt.Sprintf("workflow run %s started", runID)); err != nil {
		return err
	}

	actions, err := c.Store.ActionsForCampaign(ctx, campaign.ID)
	if err != nil {
		return c.fail(ctx, campaign, err)
	}
	leads, err := c.Store.LeadsForCampaign(ctx, campaign.ID)
	if err != nil {
		return c.fail(ctx, campaign, err)
	}

	if len(actions) == 0 || len(leads) == 0 {
		if err := c.Store.UpdateCampaignStatus(ctx, campaign.ID, model.CampaignStatusCompleted); err != nil {
			return err
		}
		return c.Store.LogExecution(ctx, campaign.ID, model.ActionCampaign, model.ExecStatusCompleted,
			"nothing to execute, campaign completed")
	}

	if err := c.Store.ResetActionStats(ctx, campaign.ID); err != nil {
		return c.fail(ctx, campaign, err)
	}

	c.Log.Info("campaign run starting",
		zap.Int64("campaign_id", campaign.ID),
		zap.String("run_id", runID),
		zap.Int("actions", len(actions)),
		zap.Int("leads", len(leads)))

	if err := c.Stepper.Run(ctx, campaign, actions); err != nil {
		if errors.Is(err, context.Canceled) {
			// Stop() already set the campaign status. The log write must
			// outlive the cancelled run context.
			c.Log.Info("campaign run cancelled", zap.Int64("campaign_id", campaign.ID), zap.String("run_id", runID))
			return c.Store.LogExecution(context.WithoutCancel(ctx), campaign.ID, model.ActionWorkflow, model.ExecStatusStopped,
				fmt.Sprintf("workflow run %s interrupted by stop", runID))
		}
		return c.fail(ctx, campaign, err)
	}

	if err := c.Store.UpdateCampaignStatus(ctx, campaign.ID, model.CampaignStatusCompleted); err != nil {
		return err
	}
	return c.Store.LogExecution(ctx, campaign.ID, model.ActionCampaign, model.ExecStatusCompleted,
		fmt.Sprintf("workflow run %s completed", runID))
}

// Stop marks the campaign stopped. The in-flight run, if any, is
// interrupted by the caller cancelling its context.
func (c *Controller) Stop(ctx context.Context, campaign *model.Campaign) error {
	if err := c.Store.UpdateCampaignStatus(ctx, campaign.ID, model.CampaignStatusStopped); err != nil {
		return err
	}
	return c.Store.LogExecution(ctx, campaign.ID, model.ActionCampaign, model.ExecStatusStopped, "campaign stopped")
}

func (c *Controller) fail(ctx context.Context, campaign *model.Campaign, runErr error) error {
	c.Log.Error("campaign run failed", zap.Int64("campaign_id", campaign.ID), zap.Error(runErr))

	// Best effort: the failure itself is what we report to the caller.
	if err := c.Store.UpdateCampaignStatus(ctx, campaign.ID, model.CampaignStatusFailed); err != nil {
		c.Log.Error("could not mark campaign failed", zap.Int64("campaign_id", campaign.ID), zap.Error(err))
	}
	if err := c.Store.LogExecution(ctx, campaign.ID, model.ActionWorkflow, model.ExecStatusFailed, runErr.Error()); err != nil {
		c.Log.Error("could not log campaign failure", zap.Int64("campaign_id", campaign.ID), zap.Error(err))
	}
	return runErr
}
