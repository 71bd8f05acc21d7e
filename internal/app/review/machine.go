// Package review holds the business-registration review rules: which statuses may be
// reviewed, the transition function and the per-action guards applied before a
// decision is sent upstream.
package review

import (
	"fmt"
	"strings"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
)

// Action is an admin's review outcome.
type Action string

const (
	ActionApprove             Action = Action(model.RegistrationStatusApproved)
	ActionReject              Action = Action(model.RegistrationStatusRejected)
	ActionRequestResubmission Action = Action(model.RegistrationStatusResubmissionRequired)
)

var actions = []Action{ActionApprove, ActionReject, ActionRequestResubmission}

func (a Action) IsValid() bool {
	for _, known := range actions {
		if a == known {
			return true
		}
	}
	return false
}

// RequiresReason reports whether the action needs a non-blank rejection reason.
func (a Action) RequiresReason() bool {
	return a == ActionReject || a == ActionRequestResubmission
}

// Decision is an admin's proposed review, as entered.
type Decision struct {
	RegistrationID  string `json:"registrationId"`
	Action          Action `json:"status"`
	RejectionReason string `json:"rejectionReason"`
	AdminNotes      string `json:"adminNotes"`
}

// ReviewPayload is the request body for the review endpoint. Absent fields are
// omitted entirely.
type ReviewPayload struct {
	Status          model.RegistrationStatus `json:"status"`
	RejectionReason string                   `json:"rejectionReason,omitempty"`
	AdminNotes      string                   `json:"adminNotes,omitempty"`
}

// ValidatedDecision is a decision that passed every local guard.
type ValidatedDecision struct {
	RegistrationID string
	Payload        ReviewPayload
}

// CanReview is true only for pending registrations.
func CanReview(status model.RegistrationStatus) bool {
	return status == model.RegistrationStatusPending
}

// AllowedActions lists the actions the console may offer for status.
func AllowedActions(status model.RegistrationStatus) []Action {
	if !CanReview(status) {
		return []Action{}
	}
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// Next is the transition function.
func Next(current model.RegistrationStatus, action Action) (model.RegistrationStatus, error) {
	if !action.IsValid() {
		return current, apperrors.NewValidation("status", apperrors.ReviewInvalidAction,
			fmt.Sprintf("Unknown review action %q.", action))
	}
	if !CanReview(current) {
		return current, apperrors.NewValidation("status", apperrors.ReviewNotPending,
			fmt.Sprintf("Only pending registrations can be reviewed (current status: %s).", current))
	}
	return model.RegistrationStatus(action), nil
}

// Validate applies the per-action guard and shapes the outgoing payload. The
// reason is dropped for approvals, and blank notes are omitted.
func Validate(d Decision) (*ValidatedDecision, error) {
	if strings.TrimSpace(d.RegistrationID) == "" {
		return nil, apperrors.NewValidation("registrationId", apperrors.ValidationRequired, "Registration id is required.")
	}
	if !d.Action.IsValid() {
		return nil, apperrors.NewValidation("status", apperrors.ReviewInvalidAction,
			fmt.Sprintf("Unknown review action %q.", d.Action))
	}

	payload := ReviewPayload{
		Status:     model.RegistrationStatus(d.Action),
		AdminNotes: strings.TrimSpace(d.AdminNotes),
	}

	if d.Action.RequiresReason() {
		reason := strings.TrimSpace(d.RejectionReason)
		if reason == "" {
			return nil, apperrors.NewValidation("rejectionReason", apperrors.ReviewReasonRequired,
				"A reason is required to reject or request resubmission.")
		}
		payload.RejectionReason = reason
	}

	return &ValidatedDecision{
		RegistrationID: strings.TrimSpace(d.RegistrationID),
		Payload:        payload,
	}, nil
}

// ValidateTransition checks the decision against the registration's current
// status before validating the decision itself.
func ValidateTransition(current model.RegistrationStatus, d Decision) (*ValidatedDecision, error) {
	if _, err := Next(current, d.Action); err != nil {
		return nil, err
	}
	return Validate(d)
}
