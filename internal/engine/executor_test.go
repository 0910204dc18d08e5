package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/linkleopard-backend/internal/errors"
	"github.com/unclebandit/linkleopard-backend/internal/model"
)

func TestExecuteUnsupportedActionType(t *testing.T) {
	e := &Executor{Platform: newFakePlatform()}
	action := &model.Action{Type: "TELEPORT"}
	lead := &model.Lead{ID: 1, LinkedInID: "lh-1"}

	err := e.Execute(context.Background(), &model.Campaign{}, action, lead, "")

	var unsupported *appErrors.ErrUnsupportedActionType
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "TELEPORT", unsupported.Type)
}

func TestExecuteInvalidConfigBeforeAnyCall(t *testing.T) {
	platform := newFakePlatform()
	e := &Executor{Platform: platform}
	lead := &model.Lead{ID: 1, LinkedInID: "lh-1"}

	tests := []struct {
		name   string
		action *model.Action
		field  string
	}{
		{"invitation without message", &model.Action{Type: model.ActionSendInvitation}, "message"},
		{"message without message", &model.Action{Type: model.ActionSendMessage}, "message"},
		{"comment without comment", &model.Action{Type: model.ActionCommentPost, Config: model.ActionConfig{PostCount: 1}}, "comment"},
		{"follow with bad mode", &model.Action{Type: model.ActionFollowUnfollow, Config: model.ActionConfig{Mode: "poke"}}, "mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Execute(context.Background(), &model.Campaign{}, tt.action, lead, "hi")

			var invalid *appErrors.ErrInvalidActionConfig
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}

	assert.Zero(t, platform.callCount(), "no platform call may happen on invalid config")
}

func TestExecuteMissingExternalIdentity(t *testing.T) {
	platform := newFakePlatform()
	e := &Executor{Platform: platform}
	action := &model.Action{Type: model.ActionVisitProfile}
	lead := &model.Lead{ID: 7} // no lh_id

	err := e.Execute(context.Background(), &model.Campaign{}, action, lead, "")

	var missing *appErrors.ErrMissingExternalIdentity
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, int64(7), missing.LeadID)
	assert.Zero(t, platform.callCount())
}

func TestExecuteLikePostCapsAtAvailablePosts(t *testing.T) {
	platform := newFakePlatform()
	platform.posts = []model.Post{{ID: "p1"}, {ID: "p2"}}
	e := &Executor{Platform: platform}
	action := &model.Action{Type: model.ActionLikePost, Config: model.ActionConfig{PostCount: 5}}
	lead := &model.Lead{ID: 1, LinkedInID: "lh-1"}

	err := e.Execute(context.Background(), &model.Campaign{}, action, lead, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, platform.reactions)
}

func TestExecuteCommentPostUsesInterpolatedText(t *testing.T) {
	platform := newFakePlatform()
	platform.posts = []model.Post{{ID: "p1"}}
	e := &Executor{Platform: platform}
	action := &model.Action{Type: model.ActionCommentPost, Config: model.ActionConfig{Comment: "Nice one {fullName}", PostCount: 1}}
	lead := &model.Lead{ID: 1, LinkedInID: "lh-1"}

	err := e.Execute(context.Background(), &model.Campaign{}, action, lead, "Nice one Jane Doe")

	require.NoError(t, err)
	assert.Equal(t, []string{"p1:Nice one Jane Doe"}, platform.comments)
}

func TestExecuteWrapsTransportErrors(t *testing.T) {
	platform := newFakePlatform()
	platform.failInvite["lh-1"] = errors.New("HTTP 429")
	e := &Executor{Platform: platform}
	action := &model.Action{Type: model.ActionSendInvitation, Config: model.ActionConfig{Message: "hi"}}
	lead := &model.Lead{ID: 1, LinkedInID: "lh-1"}

	err := e.Execute(context.Background(), &model.Campaign{}, action, lead, "hi")

	var external *appErrors.ErrExternalCallFailure
	require.ErrorAs(t, err, &external)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestExecuteDelayIsNoOp(t *testing.T) {
	platform := newFakePlatform()
	e := &Executor{Platform: platform}
	action := &model.Action{Type: model.ActionDelay, Config: model.ActionConfig{Minutes: 5}}

	// Delay actions pass even for leads without an external identity.
	err := e.Execute(context.Background(), &model.Campaign{}, action, &model.Lead{ID: 1}, "")

	require.NoError(t, err)
	assert.Zero(t, platform.callCount())
}
