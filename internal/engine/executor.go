// internal/engine/executor.go
package engine

import (
	"context"

	appErrors "github.com/unclebandit/linkleopard-backend/internal/errors"
	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// Executor dispatches an action to the platform capability that
// performs it. Config validation happens before any external call.
type Executor struct {
	Platform Platform
}

// ValidateConfig checks the fields the action's type requires.
func ValidateConfig(action *model.Action) error {
	cfg := action.Config
	switch action.Type {
	case model.ActionSendInvitation, model.ActionSendMessage:
		if cfg.Message == "" {
			return appErrors.NewInvalidActionConfig(string(action.Type), "message")
		}
	case model.ActionLikePost:
		if cfg.PostCount < 0 {
			return appErrors.NewInvalidActionConfig(string(action.Type), "postCount")
		}
	case model.ActionCommentPost:
		if cfg.Comment == "" {
			return appErrors.NewInvalidActionConfig(string(action.Type), "comment")
		}
		if cfg.PostCount < 0 {
			return appErrors.NewInvalidActionConfig(string(action.Type), "postCount")
		}
	case model.ActionFollowUnfollow:
		if cfg.Mode != model.FollowModeFollow && cfg.Mode != model.FollowModeUnfollow {
			return appErrors.NewInvalidActionConfig(string(action.Type), "mode")
		}
	case model.ActionVisitProfile, model.ActionDelay:
		// no required fields
	default:
		return appErrors.NewUnsupportedActionType(string(action.Type))
	}
	return nil
}

// Execute performs one action for one lead. The message is the already
// interpolated text for message-bearing types, empty otherwise.
func (e *Executor) Execute(ctx context.Context, campaign *model.Campaign, action *model.Action, lead *model.Lead, message string) error {
	if err := ValidateConfig(action); err != nil {
		return err
	}
	if action.Type != model.ActionDelay && lead.LinkedInID == "" {
		return appErrors.NewMissingExternalIdentity(lead.ID)
	}

	switch action.Type {
	case model.ActionSendInvitation:
		if err := e.Platform.SendInvitation(ctx, campaign.AccountID, lead.LinkedInID, message); err != nil {
			return appErrors.NewExternalCallFailure("sendInvitation", err)
		}
	case model.ActionSendMessage:
		if err := e.Platform.StartConversation(ctx, campaign.AccountID, lead.LinkedInID, message); err != nil {
			return appErrors.NewExternalCallFailure("startConversation", err)
		}
	case model.ActionLikePost:
		return e.forEachRecentPost(ctx, campaign, lead, action.Config.PostCount, func(post model.Post) error {
			if err := e.Platform.ReactToPost(ctx, campaign.AccountID, post.ID); err != nil {
				return appErrors.NewExternalCallFailure("reactToPost", err)
			}
			return nil
		})
	case model.ActionCommentPost:
		return e.forEachRecentPost(ctx, campaign, lead, action.Config.PostCount, func(post model.Post) error {
			if err := e.Platform.CommentOnPost(ctx, campaign.AccountID, post.ID, message); err != nil {
				return appErrors.NewExternalCallFailure("commentOnPost", err)
			}
			return nil
		})
	case model.ActionFollowUnfollow:
		if err := e.Platform.FollowOrUnfollow(ctx, campaign.AccountID, lead.LinkedInID, action.Config.Mode); err != nil {
			return appErrors.NewExternalCallFailure("followOrUnfollow", err)
		}
	case model.ActionVisitProfile:
		// the fetch itself is the visit
		if err := e.Platform.FetchProfile(ctx, campaign.AccountID, lead.LinkedInID); err != nil {
			return appErrors.NewExternalCallFailure("fetchProfile", err)
		}
	case model.ActionDelay:
		// no per-lead effect; the stepper suspends the whole campaign
	}
	return nil
}

func (e *Executor) forEachRecentPost(ctx context.Context, campaign *model.Campaign, lead *model.Lead, want int, fn func(model.Post) error) error {
	posts, err := e.Platform.FetchRecentPosts(ctx, campaign.AccountID, lead.LinkedInID)
	if err != nil {
		return appErrors.NewExternalCallFailure("fetchRecentPosts", err)
	}
	n := want
	if len(posts) < n {
		n = len(posts)
	}
	for i := 0; i < n; i++ {
		if err := fn(posts[i]); err != nil {
			return err
		}
	}
	return nil
}
