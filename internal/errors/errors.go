// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int64
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int64) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrUnsupportedActionType means the executor registry has no capability
// for the action's type.
type ErrUnsupportedActionType struct {
	Type string
}

func (e *ErrUnsupportedActionType) Error() string {
	return fmt.Sprintf("unsupported action type: %s", e.Type)
}

func NewUnsupportedActionType(actionType string) error {
	return &ErrUnsupportedActionType{Type: actionType}
}

// ErrInvalidActionConfig means a required config field is missing or
// malformed for the action type. Raised before any external call.
type ErrInvalidActionConfig struct {
	Type  string
	Field string
}

func (e *ErrInvalidActionConfig) Error() string {
	return fmt.Sprintf("invalid config for action %s: field %q missing or malformed", e.Type, e.Field)
}

func NewInvalidActionConfig(actionType, field string) error {
	return &ErrInvalidActionConfig{Type: actionType, Field: field}
}

// ErrMissingExternalIdentity means the lead has no platform identifier
// to act against.
type ErrMissingExternalIdentity struct {
	LeadID int64
}

func (e *ErrMissingExternalIdentity) Error() string {
	return fmt.Sprintf("lead %d has no external platform identifier", e.LeadID)
}

func NewMissingExternalIdentity(leadID int64) error {
	return &ErrMissingExternalIdentity{LeadID: leadID}
}

// ErrExternalCallFailure wraps a failed platform executor call.
type ErrExternalCallFailure struct {
	Op  string
	Err error
}

func (e *ErrExternalCallFailure) Error() string {
	return fmt.Sprintf("platform call %s failed: %v", e.Op, e.Err)
}

func (e *ErrExternalCallFailure) Unwrap() error { return e.Err }

func NewExternalCallFailure(op string, err error) error {
	return &ErrExternalCallFailure{Op: op, Err: err}
}

// ErrEmptyInterpolatedMessage means a message-bearing action rendered to
// an empty or whitespace-only string.
type ErrEmptyInterpolatedMessage struct {
	Type string
}

func (e *ErrEmptyInterpolatedMessage) Error() string {
	return fmt.Sprintf("action %s interpolated to an empty message", e.Type)
}

func NewEmptyInterpolatedMessage(actionType string) error {
	return &ErrEmptyInterpolatedMessage{Type: actionType}
}

// ErrWorkflowStepFailure wraps an error outside the per-lead containment
// boundary. It aborts the whole campaign run.
type ErrWorkflowStepFailure struct {
	Step string
	Err  error
}

func (e *ErrWorkflowStepFailure) Error() string {
	return fmt.Sprintf("workflow step %s failed: %v", e.Step, e.Err)
}

func (e *ErrWorkflowStepFailure) Unwrap() error { return e.Err }

func NewWorkflowStepFailure(step string, err error) error {
	return &ErrWorkflowStepFailure{Step: step, Err: err}
}
