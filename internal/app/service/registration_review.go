package service

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	"github.com/caterbazar/caterbazar-console/internal/app/review"
	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/export"
	"github.com/caterbazar/caterbazar-console/internal/inflight"
	"github.com/caterbazar/caterbazar-console/internal/metrics"
	"github.com/caterbazar/caterbazar-console/internal/storage"
	"github.com/caterbazar/caterbazar-console/pkg/logger"
)

// RegistrationAPI is the set of upstream calls RegistrationReview depends on.
type RegistrationAPI interface {
	ListRegistrations(ctx context.Context, token string, q caterbazar.RegistrationListQuery) (*caterbazar.RegistrationList, error)
	GetRegistrationStats(ctx context.Context, token string) (*model.RegistrationStats, error)
	GetRegistration(ctx context.Context, token, id string) (*model.BusinessRegistration, error)
	ReviewRegistration(ctx context.Context, token, id string, payload review.ReviewPayload) (*model.BusinessRegistration, error)
	UpdateRegistration(ctx context.Context, token, id string, payload review.EditPayload) (*model.BusinessRegistration, error)
}

// ReviewSnapshot is a copy of the registration review view.
type ReviewSnapshot struct {
	Query         caterbazar.RegistrationListQuery `json:"query"`
	Registrations []model.BusinessRegistration     `json:"registrations"`
	Pagination    model.Pagination                 `json:"pagination"`
	Stats         model.RegistrationStats          `json:"stats"`
}

// RegistrationDetail is one registration with the actions the console may offer.
type RegistrationDetail struct {
	Registration   model.BusinessRegistration `json:"registration"`
	CanReview      bool                       `json:"canReview"`
	AllowedActions []review.Action            `json:"allowedActions"`
}

// SubmitResult is returned after a review decision was accepted upstream.
type SubmitResult struct {
	Registration model.BusinessRegistration `json:"registration"`
	View         ReviewSnapshot             `json:"view"`
	Refreshed    bool                       `json:"refreshed"` // list and stats were re-fetched
}

// RegistrationReview holds one admin's registration queue view and runs review
// and edit commands against it.
type RegistrationReview struct {
	api    RegistrationAPI
	guard  inflight.Guard
	signer storage.DocumentSigner // nil disables presigned links

	mu            sync.Mutex
	listQuery     caterbazar.RegistrationListQuery
	registrations []model.BusinessRegistration
	pagination    model.Pagination
	stats         model.RegistrationStats
}

func NewRegistrationReview(api RegistrationAPI, guard inflight.Guard, signer storage.DocumentSigner) *RegistrationReview {
	if guard == nil {
		guard = inflight.NewMemoryGuard()
	}
	return &RegistrationReview{
		api:           api,
		guard:         guard,
		signer:        signer,
		registrations: []model.BusinessRegistration{},
	}
}

// Load fetches a page of the queue plus the status counters. On failure the view
// keeps its previous contents.
func (r *RegistrationReview) Load(ctx context.Context, token string, q caterbazar.RegistrationListQuery) (ReviewSnapshot, error) {
	if q.Status != "" && !q.Status.IsValid() {
		return ReviewSnapshot{}, apperrors.NewValidation("status", apperrors.ValidationInvalidValue, "Unknown registration status.")
	}

	list, stats, err := r.fetch(ctx, token, q)
	if err != nil {
		return ReviewSnapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.listQuery = q
	r.registrations = list.Registrations
	r.pagination = list.Pagination
	r.stats = *stats
	return r.snapshotLocked(), nil
}

// Snapshot returns a copy of the current view.
func (r *RegistrationReview) Snapshot() ReviewSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Detail fetches the latest server state of one registration and signs its
// document links.
func (r *RegistrationReview) Detail(ctx context.Context, token, id string) (RegistrationDetail, error) {
	if strings.TrimSpace(id) == "" {
		return RegistrationDetail{}, apperrors.NewValidation("id", apperrors.ValidationInvalidID, "Registration id is required.")
	}

	reg, err := r.api.GetRegistration(ctx, token, id)
	if err != nil {
		return RegistrationDetail{}, err
	}

	if r.signer != nil && len(reg.Documents) > 0 {
		docs, err := r.signer.SignDocuments(ctx, reg.Documents)
		if err != nil {
			logger.Warn("Failed to presign registration documents", map[string]interface{}{
				"registration_id": reg.ID,
				"error":           err.Error(),
			})
		} else {
			reg.Documents = docs
		}
	}

	r.mu.Lock()
	r.replaceLocked(*reg)
	r.mu.Unlock()

	return RegistrationDetail{
		Registration:   *reg,
		CanReview:      review.CanReview(reg.Status),
		AllowedActions: review.AllowedActions(reg.Status),
	}, nil
}

// Submit sends a review decision. The registration must be pending, the decision
// must pass its guard and no other submission for the same registration may be in
// flight. After success the entry is replaced with the server's copy and the list
// and counters are re-fetched. On any failure the view is left untouched.
func (r *RegistrationReview) Submit(ctx context.Context, token string, decision review.Decision) (*SubmitResult, error) {
	id := strings.TrimSpace(decision.RegistrationID)
	if id == "" {
		return nil, apperrors.NewValidation("registrationId", apperrors.ValidationRequired, "Registration id is required.")
	}

	current, err := r.currentStatus(ctx, token, id)
	if err != nil {
		return nil, err
	}

	validated, err := review.ValidateTransition(current, decision)
	if err != nil {
		metrics.ReviewDecisions.WithLabelValues(string(decision.Action), "rejected_locally").Inc()
		return nil, err
	}

	release, err := r.guard.TryAcquire(ctx, "review:"+id)
	if err != nil {
		if stderrors.Is(err, inflight.ErrInFlight) {
			return nil, &apperrors.BusinessRuleError{
				Status:  http.StatusConflict,
				Code:    apperrors.ReviewSubmissionInFlight,
				Message: "A review for this registration is already being submitted.",
			}
		}
		return nil, err
	}
	defer release()

	// A submission that completed between the status read and the guard has
	// already moved the entry out of pending.
	if status, ok := r.localStatus(id); ok && status != current {
		if validated, err = review.ValidateTransition(status, decision); err != nil {
			metrics.ReviewDecisions.WithLabelValues(string(decision.Action), "rejected_locally").Inc()
			return nil, err
		}
	}

	updated, err := r.api.ReviewRegistration(ctx, token, validated.RegistrationID, validated.Payload)
	if err != nil {
		metrics.ReviewDecisions.WithLabelValues(string(decision.Action), "failed").Inc()
		return nil, err
	}
	metrics.ReviewDecisions.WithLabelValues(string(decision.Action), "success").Inc()

	r.mu.Lock()
	r.replaceLocked(*updated)
	q := r.listQuery
	r.mu.Unlock()

	result := &SubmitResult{Registration: *updated}

	list, stats, err := r.fetch(ctx, token, q)
	if err != nil {
		// The decision is committed upstream; the view keeps the server's copy of
		// the entry and the caller still gets success.
		logger.Warn("Failed to refresh registrations after review", map[string]interface{}{
			"registration_id": id,
			"error":           err.Error(),
		})
	} else {
		r.mu.Lock()
		if r.listQuery == q {
			r.registrations = list.Registrations
			r.pagination = list.Pagination
			r.stats = *stats
		}
		r.mu.Unlock()
		result.Refreshed = true
	}

	result.View = r.Snapshot()
	return result, nil
}

// Edit validates and sends corrected registration fields. Edits are not gated by
// status.
func (r *RegistrationReview) Edit(ctx context.Context, token, id string, edit review.RegistrationEdit) (*model.BusinessRegistration, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewValidation("id", apperrors.ValidationInvalidID, "Registration id is required.")
	}

	payload, err := review.ValidateEdit(edit)
	if err != nil {
		return nil, err
	}

	updated, err := r.api.UpdateRegistration(ctx, token, id, *payload)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.replaceLocked(*updated)
	r.mu.Unlock()
	return updated, nil
}

// Export writes every registration matching the current list's status and search
// to w as a workbook.
func (r *RegistrationReview) Export(ctx context.Context, token string, w io.Writer) error {
	r.mu.Lock()
	q := caterbazar.RegistrationListQuery{Status: r.listQuery.Status, Search: r.listQuery.Search}
	r.mu.Unlock()

	regs, err := export.Collect(ctx, r.api, token, q)
	if err != nil {
		return err
	}
	return export.WriteRegistrations(w, regs)
}

func (r *RegistrationReview) fetch(ctx context.Context, token string, q caterbazar.RegistrationListQuery) (*caterbazar.RegistrationList, *model.RegistrationStats, error) {
	list, err := r.api.ListRegistrations(ctx, token, q)
	if err != nil {
		return nil, nil, err
	}
	stats, err := r.api.GetRegistrationStats(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	return list, stats, nil
}

// currentStatus uses the loaded list when it holds id, otherwise asks upstream.
func (r *RegistrationReview) currentStatus(ctx context.Context, token, id string) (model.RegistrationStatus, error) {
	if status, ok := r.localStatus(id); ok {
		return status, nil
	}

	reg, err := r.api.GetRegistration(ctx, token, id)
	if err != nil {
		return "", err
	}
	return reg.Status, nil
}

func (r *RegistrationReview) localStatus(id string) (model.RegistrationStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.registrations {
		if reg.ID == id {
			return reg.Status, true
		}
	}
	return "", false
}

func (r *RegistrationReview) replaceLocked(reg model.BusinessRegistration) {
	for i := range r.registrations {
		if r.registrations[i].ID == reg.ID {
			r.registrations[i] = reg
			return
		}
	}
}

func (r *RegistrationReview) snapshotLocked() ReviewSnapshot {
	regs := make([]model.BusinessRegistration, len(r.registrations))
	copy(regs, r.registrations)
	return ReviewSnapshot{
		Query:         r.listQuery,
		Registrations: regs,
		Pagination:    r.pagination,
		Stats:         r.stats,
	}
}
