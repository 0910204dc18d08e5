package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/unclebandit/linkleopard-backend/internal/model"
)

// fakeStore is an in-memory Store that records call order so tests can
// assert bookkeeping sequence.
type fakeStore struct {
	mu       sync.Mutex
	campaign model.Campaign
	actions  []model.Action
	leads    []model.Lead
	profiles map[int64]*model.CRMProfile
	logs     []model.ExecutionLog
	calls    []string
	failOn   map[string]error
}

func newFakeStore(campaign model.Campaign, actions []model.Action, leads []model.Lead) *fakeStore {
	return &fakeStore{
		campaign: campaign,
		actions:  actions,
		leads:    leads,
		profiles: map[int64]*model.CRMProfile{},
		failOn:   map[string]error{},
	}
}

func (s *fakeStore) record(call string) error {
	s.calls = append(s.calls, call)
	return s.failOn[call]
}

func (s *fakeStore) ActionsForCampaign(ctx context.Context, campaignID int64) ([]model.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ActionsForCampaign"); err != nil {
		return nil, err
	}
	out := make([]model.Action, len(s.actions))
	copy(out, s.actions)
	return out, nil
}

func (s *fakeStore) LeadsForCampaign(ctx context.Context, campaignID int64) ([]model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("LeadsForCampaign"); err != nil {
		return nil, err
	}
	out := []model.Lead{}
	for _, l := range s.leads {
		if l.Status == model.LeadStatusQueued {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) CRMProfile(ctx context.Context, profileID int64) (*model.CRMProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CRMProfile"); err != nil {
		return nil, err
	}
	return s.profiles[profileID], nil
}

func (s *fakeStore) UpdateLeadStatus(ctx context.Context, campaignID, leadID int64, status string, actionID int64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateLeadStatus:" + status); err != nil {
		return err
	}
	for i := range s.leads {
		if s.leads[i].ID == leadID {
			s.leads[i].Status = status
			s.leads[i].FunnelStatus = status
			s.leads[i].CurrentActionID = actionID
			s.leads[i].ErrorMessage = errMsg
		}
	}
	return nil
}

func (s *fakeStore) UpdateActionStats(ctx context.Context, actionID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateActionStats:" + status); err != nil {
		return err
	}
	for i := range s.actions {
		if s.actions[i].ID != actionID {
			continue
		}
		switch status {
		case model.LeadStatusSuccessful:
			s.actions[i].Successful++
			s.actions[i].Queue--
		case model.LeadStatusFailed:
			s.actions[i].Failed++
			s.actions[i].Queue--
		case model.LeadStatusQueued:
			s.actions[i].Queue++
		}
	}
	return nil
}

func (s *fakeStore) ActionStats(ctx context.Context, actionID int64) (model.ActionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.actions {
		if a.ID == actionID {
			return model.ActionStats{Successful: a.Successful, Failed: a.Failed, Queue: a.Queue}, nil
		}
	}
	return model.ActionStats{}, fmt.Errorf("action %d not found", actionID)
}

func (s *fakeStore) ResetActionStats(ctx context.Context, campaignID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ResetActionStats"); err != nil {
		return err
	}
	for i := range s.actions {
		s.actions[i].Successful = 0
		s.actions[i].Failed = 0
		queued := 0
		for _, l := range s.leads {
			if l.CurrentActionID == s.actions[i].ID && l.Status == model.LeadStatusQueued {
				queued++
			}
		}
		s.actions[i].Queue = queued
	}
	return nil
}

func (s *fakeStore) LogExecution(ctx context.Context, campaignID int64, actionType model.ActionType, status, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("LogExecution:" + status); err != nil {
		return err
	}
	s.logs = append(s.logs, model.ExecutionLog{
		CampaignID: campaignID,
		ActionType: actionType,
		Status:     status,
		Message:    message,
	})
	return nil
}

func (s *fakeStore) UpdateCampaignStatus(ctx context.Context, campaignID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateCampaignStatus:" + status); err != nil {
		return err
	}
	s.campaign.Status = status
	return nil
}

func (s *fakeStore) action(id int64) model.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.actions {
		if a.ID == id {
			return a
		}
	}
	return model.Action{}
}

func (s *fakeStore) lead(id int64) model.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.ID == id {
			return l
		}
	}
	return model.Lead{}
}

func (s *fakeStore) logsWithStatus(status string) []model.ExecutionLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.ExecutionLog{}
	for _, e := range s.logs {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// fakePlatform records every capability call and can be scripted to
// fail per lead.
type fakePlatform struct {
	mu          sync.Mutex
	invitations []string
	messages    []string
	visits      []string
	follows     []string
	reactions   []string
	comments    []string

	posts      []model.Post
	scraped    *model.ScrapedProfile
	scrapeErr  error
	failInvite map[string]error // keyed by lead lh_id
	failSend   map[string]error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		failInvite: map[string]error{},
		failSend:   map[string]error{},
	}
}

func (p *fakePlatform) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.invitations) + len(p.messages) + len(p.visits) + len(p.follows) + len(p.reactions) + len(p.comments)
}

func (p *fakePlatform) SendInvitation(ctx context.Context, accountID, leadLinkedInID, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failInvite[leadLinkedInID]; err != nil {
		return err
	}
	p.invitations = append(p.invitations, message)
	return nil
}

func (p *fakePlatform) StartConversation(ctx context.Context, accountID, leadLinkedInID, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failSend[leadLinkedInID]; err != nil {
		return err
	}
	p.messages = append(p.messages, text)
	return nil
}

func (p *fakePlatform) FetchProfile(ctx context.Context, accountID, leadLinkedInID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visits = append(p.visits, leadLinkedInID)
	return nil
}

func (p *fakePlatform) FetchRecentPosts(ctx context.Context, accountID, leadLinkedInID string) ([]model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.posts, nil
}

func (p *fakePlatform) ReactToPost(ctx context.Context, accountID, postID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reactions = append(p.reactions, postID)
	return nil
}

func (p *fakePlatform) CommentOnPost(ctx context.Context, accountID, postID, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comments = append(p.comments, postID+":"+text)
	return nil
}

func (p *fakePlatform) FollowOrUnfollow(ctx context.Context, accountID, leadLinkedInID, mode string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.follows = append(p.follows, leadLinkedInID+":"+mode)
	return nil
}

func (p *fakePlatform) ScrapeProfile(ctx context.Context, accountID, leadLinkedInID string, useSalesNavigator bool) (*model.ScrapedProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scrapeErr != nil {
		return nil, p.scrapeErr
	}
	return p.scraped, nil
}

// fakeNotifier collects push updates.
type fakeNotifier struct {
	mu     sync.Mutex
	events []model.ActionStats
}

func (n *fakeNotifier) ActionCompleted(campaignID, actionID int64, stats model.ActionStats) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, stats)
}
