// internal/engine/collaborators.go
package engine

import (
	"context"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// Store is the persistence collaborator. Counter updates must be atomic
// single-row increments so concurrent campaign runs cannot lose updates.
type Store interface {
	ActionsForCampaign(ctx context.Context, campaignID int64) ([]model.Action, error)
	LeadsForCampaign(ctx context.Context, campaignID int64) ([]model.Lead, error)
	CRMProfile(ctx context.Context, profileID int64) (*model.CRMProfile, error)

	// UpdateLeadStatus records a lead's outcome for an action and, when
	// status is "queued", repositions it at actionID.
	UpdateLeadStatus(ctx context.Context, campaignID, leadID int64, status string, actionID int64, errMsg string) error

	// UpdateActionStats applies one counter step: "successful" and
	// "failed" also decrement the queue; "queued" increments it.
	UpdateActionStats(ctx context.Context, actionID int64, status string) error
	ActionStats(ctx context.Context, actionID int64) (model.ActionStats, error)
	ResetActionStats(ctx context.Context, campaignID int64) error

	LogExecution(ctx context.Context, campaignID int64, actionType model.ActionType, status, message string) error
	UpdateCampaignStatus(ctx context.Context, campaignID int64, status string) error
}

// Platform performs the real-world side effects against the social
// platform. Every call is opaque async I/O; a non-2xx response surfaces
// as a generic transport error.
type Platform interface {
	SendInvitation(ctx context.Context, accountID, leadLinkedInID, message string) error
	StartConversation(ctx context.Context, accountID, leadLinkedInID, text string) error
	FetchProfile(ctx context.Context, accountID, leadLinkedInID string) error
	FetchRecentPosts(ctx context.Context, accountID, leadLinkedInID string) ([]model.Post, error)
	ReactToPost(ctx context.Context, accountID, postID string) error
	CommentOnPost(ctx context.Context, accountID, postID, text string) error
	FollowOrUnfollow(ctx context.Context, accountID, leadLinkedInID, mode string) error
	ScrapeProfile(ctx context.Context, accountID, leadLinkedInID string, useSalesNavigator bool) (*model.ScrapedProfile, error)
}

// Notifier pushes live counter updates to observers. Best-effort:
// implementations must not fail the action on delivery problems.
type Notifier interface {
	ActionCompleted(campaignID, actionID int64, stats model.ActionStats)
}

// NoopNotifier discards all events.
type NoopNotifier struct{}

func (NoopNotifier) ActionCompleted(int64, int64, model.ActionStats) {}
