// internal/service/campaign_service.go
package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/unclebandit/linkleopard-backend/internal/engine"
	"github.com/unclebandit/linkleopard-backend/internal/model"
	"github.com/unclebandit/linkleopard-backend/internal/queue"
	"github.com/unclebandit/linkleopard-backend/internal/repository"
)

// RunPublisher hands run jobs to whichever worker executes them.
type RunPublisher interface {
	PublishRun(job queue.RunJob) error
}

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ActionRepo   repository.ActionRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	LogRepo      repository.ExecutionLogRepositoryInterface
	Publisher    RunPublisher
	Log          *zap.Logger
}

// CampaignDetails is the single-campaign read model: the campaign plus
// its ordered workflow with live counters.
type CampaignDetails struct {
	Campaign model.Campaign `json:"campaign"`
	Workflow []model.Action `json:"workflow"`
	Stats    map[string]int `json:"stats"`
}

func (s *CampaignService) CreateCampaign(accountID, name string, dailyLimit int, runFrom, runTo string, autoStop bool) (*model.Campaign, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("campaign name cannot be empty")
	}
	c := &model.Campaign{
		AccountID:       accountID,
		Name:            name,
		Status:          model.CampaignStatusDraft,
		DailyLimit:      dailyLimit,
		RunFrom:         runFrom,
		RunTo:           runTo,
		AutoStopOnEmpty: autoStop,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

func (s *CampaignService) GetCampaignDetails(campaignID int64) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	workflow, err := s.ActionRepo.ListByCampaign(campaignID)
	if err != nil {
		return nil, err
	}

	stats := map[string]int{"successful": 0, "failed": 0, "queue": 0}
	for _, a := range workflow {
		stats["successful"] += a.Successful
		stats["failed"] += a.Failed
		stats["queue"] += a.Queue
	}

	return &CampaignDetails{
		Campaign: *campaign,
		Workflow: workflow,
		Stats:    stats,
	}, nil
}

// AddAction appends a workflow step. Order is assigned by the
// repository (next position in the campaign).
func (s *CampaignService) AddAction(campaignID int64, actionType model.ActionType, cfg model.ActionConfig) (*model.Action, error) {
	a := &model.Action{
		CampaignID: campaignID,
		Type:       actionType,
		Config:     cfg,
	}
	if err := engine.ValidateConfig(a); err != nil {
		return nil, err
	}
	if err := s.ActionRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// ReorderAction swaps a step with its neighbor, "up" or "down".
func (s *CampaignService) ReorderAction(campaignID, actionID int64, direction string) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down")
	}
	return s.ActionRepo.SwapOrder(campaignID, actionID, direction)
}

func (s *CampaignService) RemoveAction(campaignID, actionID int64) error {
	return s.ActionRepo.Remove(campaignID, actionID)
}

// QueueLeads enrolls CRM profiles at the first workflow step and bumps
// that step's queue counter by the number actually inserted.
func (s *CampaignService) QueueLeads(campaignID int64, profileIDs []int64) (int, error) {
	workflow, err := s.ActionRepo.ListByCampaign(campaignID)
	if err != nil {
		return 0, err
	}
	if len(workflow) == 0 {
		return 0, fmt.Errorf("campaign %d has no workflow to queue leads into", campaignID)
	}

	n, err := s.LeadRepo.BulkInsert(campaignID, workflow[0].ID, profileIDs)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := s.ActionRepo.AddToQueue(workflow[0].ID, n); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Start asks the worker to begin a workflow run. A campaign that is
// already running is refused here; the worker's run registry is the
// second line of defense against concurrent runs.
func (s *CampaignService) Start(campaignID int64) error {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}
	if campaign.Status == model.CampaignStatusRunning {
		return fmt.Errorf("campaign %d is already running", campaignID)
	}

	workflow, err := s.ActionRepo.ListByCampaign(campaignID)
	if err != nil {
		return err
	}
	if len(workflow) == 0 {
		return fmt.Errorf("campaign %d has an empty workflow", campaignID)
	}

	return s.Publisher.PublishRun(queue.RunJob{CampaignID: campaignID, Op: "start"})
}

// Stop asks the worker to cancel the in-flight run.
func (s *CampaignService) Stop(campaignID int64) error {
	if _, err := s.CampaignRepo.GetByID(campaignID); err != nil {
		return err
	}
	return s.Publisher.PublishRun(queue.RunJob{CampaignID: campaignID, Op: "stop"})
}

// RenderPreview interpolates a message template against a CRM profile,
// for the compose UI.
func (s *CampaignService) RenderPreview(profileID int64, template string) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("template cannot be empty")
	}

	profile, err := s.LeadRepo.GetCRMProfile(profileID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", fmt.Errorf("profile not found")
	}

	return engine.Interpolate(template, profile, nil), nil
}

func (s *CampaignService) ExecutionLogs(campaignID int64, limit int) ([]model.ExecutionLog, error) {
	return s.LogRepo.ListByCampaign(campaignID, limit)
}
