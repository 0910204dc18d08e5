// internal/engine/runner.go
package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/linkleopard-backend/internal/errors"
	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// Runner executes one action for one lead and records exactly one
// terminal outcome. Errors inside the lead's action are absorbed here;
// only bookkeeping (store) failures propagate, since those abort the
// whole run.
type Runner struct {
	Store    Store
	Platform Platform
	Executor *Executor
	Notifier Notifier
	Log      *zap.Logger
}

func NewRunner(store Store, platform Platform, notifier Notifier, log *zap.Logger) *Runner {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Runner{
		Store:    store,
		Platform: platform,
		Executor: &Executor{Platform: platform},
		Notifier: notifier,
		Log:      log,
	}
}

// Run performs the action for the lead. nextActionID is the identifier
// of the following workflow step, 0 when this is the last one. The
// returned error is non-nil only for store failures.
func (r *Runner) Run(ctx context.Context, campaign *model.Campaign, action *model.Action, lead model.Lead, nextActionID int64) error {
	actionErr := r.perform(ctx, campaign, action, &lead)
	if actionErr != nil {
		return r.recordFailure(ctx, campaign, action, &lead, actionErr)
	}
	return r.recordSuccess(ctx, campaign, action, &lead, nextActionID)
}

// perform runs the action steps. Any panic is converted to a failure
// outcome so one lead cannot take down the batch.
func (r *Runner) perform(ctx context.Context, campaign *model.Campaign, action *model.Action, lead *model.Lead) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("action panicked: %v", rec)
		}
	}()

	profile, err := r.resolveProfile(ctx, lead)
	if err != nil {
		return err
	}

	var scraped *model.ScrapedProfile
	if action.Config.ScrapeProfile {
		scraped, err = r.Platform.ScrapeProfile(ctx, campaign.AccountID, lead.LinkedInID, action.Config.UseSalesNavigator)
		if err != nil {
			// Enrichment only: degrade instead of failing the action.
			r.Log.Warn("profile scrape failed, continuing without enrichment",
				zap.Int64("campaign_id", campaign.ID),
				zap.Int64("lead_id", lead.ID),
				zap.Error(err))
			scraped = nil
		}
	}

	var message string
	if action.Type.NeedsMessage() {
		template := action.Config.Message
		if action.Type == model.ActionCommentPost {
			template = action.Config.Comment
		}
		message = Interpolate(template, profile, scraped)
		if strings.TrimSpace(message) == "" {
			return appErrors.NewEmptyInterpolatedMessage(string(action.Type))
		}
	}

	return r.Executor.Execute(ctx, campaign, action, lead, message)
}

func (r *Runner) resolveProfile(ctx context.Context, lead *model.Lead) (*model.CRMProfile, error) {
	if lead.Profile.ID != 0 || lead.Profile.Name != "" {
		return &lead.Profile, nil
	}
	return r.Store.CRMProfile(ctx, lead.CRMProfileID)
}

func (r *Runner) recordSuccess(ctx context.Context, campaign *model.Campaign, action *model.Action, lead *model.Lead, nextActionID int64) error {
	// Outcome is durably recorded before the lead enters the next queue.
	if err := r.Store.UpdateActionStats(ctx, action.ID, model.LeadStatusSuccessful); err != nil {
		return err
	}
	if nextActionID != 0 {
		if err := r.Store.UpdateLeadStatus(ctx, campaign.ID, lead.ID, model.LeadStatusQueued, nextActionID, ""); err != nil {
			return err
		}
		if err := r.Store.UpdateActionStats(ctx, nextActionID, model.LeadStatusQueued); err != nil {
			return err
		}
	} else {
		if err := r.Store.UpdateLeadStatus(ctx, campaign.ID, lead.ID, model.LeadStatusSuccessful, action.ID, ""); err != nil {
			return err
		}
	}

	msg := fmt.Sprintf("lead %d completed %s", lead.ID, action.Type)
	if err := r.Store.LogExecution(ctx, campaign.ID, action.Type, model.ExecStatusCompleted, msg); err != nil {
		return err
	}

	r.notify(ctx, campaign.ID, action.ID)
	return nil
}

func (r *Runner) recordFailure(ctx context.Context, campaign *model.Campaign, action *model.Action, lead *model.Lead, actionErr error) error {
	r.Log.Warn("lead action failed",
		zap.Int64("campaign_id", campaign.ID),
		zap.Int64("lead_id", lead.ID),
		zap.String("action_type", string(action.Type)),
		zap.Error(actionErr))

	if err := r.Store.UpdateActionStats(ctx, action.ID, model.LeadStatusFailed); err != nil {
		return err
	}
	if err := r.Store.UpdateLeadStatus(ctx, campaign.ID, lead.ID, model.LeadStatusFailed, action.ID, actionErr.Error()); err != nil {
		return err
	}

	msg := fmt.Sprintf("lead %d failed %s: %v", lead.ID, action.Type, actionErr)
	if err := r.Store.LogExecution(ctx, campaign.ID, action.Type, model.ExecStatusFailed, msg); err != nil {
		return err
	}

	r.notify(ctx, campaign.ID, action.ID)
	return nil
}

// notify is best-effort: observers missing an update never fails a run.
func (r *Runner) notify(ctx context.Context, campaignID, actionID int64) {
	stats, err := r.Store.ActionStats(ctx, actionID)
	if err != nil {
		r.Log.Warn("could not fetch action stats for push update", zap.Int64("action_id", actionID), zap.Error(err))
		return
	}
	r.Notifier.ActionCompleted(campaignID, actionID, stats)
}
