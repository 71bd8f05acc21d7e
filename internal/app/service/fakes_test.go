package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	"github.com/caterbazar/caterbazar-console/internal/app/query"
	"github.com/caterbazar/caterbazar-console/internal/app/review"
	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
)

var errNotFound = &apperrors.BusinessRuleError{
	Status:  http.StatusNotFound,
	Code:    apperrors.RegistrationNotFound,
	Message: "Registration not found",
}

// fakeUpstream implements VendorSearcher and RegistrationAPI in memory.
type fakeUpstream struct {
	mu sync.Mutex

	searches   []query.ParamSet
	searchFunc func(params query.ParamSet) (*caterbazar.VendorSearchResult, error)

	registrations map[string]model.BusinessRegistration
	order         []string
	listCalls     int
	statsCalls    int
	getCalls      int
	reviewCalls   int
	updateCalls   int
	reviewed      []review.ReviewPayload
	updated       []review.EditPayload

	listErr    error
	statsErr   error
	reviewErr  error
	updateErr  error
	reviewHook func()
}

func newFakeUpstream(regs ...model.BusinessRegistration) *fakeUpstream {
	f := &fakeUpstream{registrations: make(map[string]model.BusinessRegistration)}
	for _, r := range regs {
		f.registrations[r.ID] = r
		f.order = append(f.order, r.ID)
	}
	return f
}

func (f *fakeUpstream) SearchVendors(_ context.Context, _ string, params query.ParamSet) (*caterbazar.VendorSearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, params)
	fn := f.searchFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(params)
	}
	return &caterbazar.VendorSearchResult{
		Vendors:    []model.Vendor{{ID: "v-" + params.Encode()}},
		Pagination: model.Pagination{Total: 1, Page: 1, Limit: 10, Pages: 1},
	}, nil
}

func (f *fakeUpstream) ListRegistrations(_ context.Context, _ string, q caterbazar.RegistrationListQuery) (*caterbazar.RegistrationList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := []model.BusinessRegistration{}
	for _, id := range f.order {
		r := f.registrations[id]
		if q.Status == "" || r.Status == q.Status {
			out = append(out, r)
		}
	}
	return &caterbazar.RegistrationList{
		Registrations: out,
		Pagination:    model.Pagination{Total: len(out), Page: 1, Limit: 20, Pages: 1},
	}, nil
}

func (f *fakeUpstream) GetRegistrationStats(context.Context, string) (*model.RegistrationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	if f.statsErr != nil {
		return nil, f.statsErr
	}

	stats := &model.RegistrationStats{Total: len(f.registrations)}
	for _, r := range f.registrations {
		switch r.Status {
		case model.RegistrationStatusPending:
			stats.Pending++
		case model.RegistrationStatusApproved:
			stats.Approved++
		case model.RegistrationStatusRejected:
			stats.Rejected++
		case model.RegistrationStatusResubmissionRequired:
			stats.ResubmissionRequired++
		}
	}
	return stats, nil
}

func (f *fakeUpstream) GetRegistration(_ context.Context, _ string, id string) (*model.BusinessRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	r, ok := f.registrations[id]
	if !ok {
		return nil, errNotFound
	}
	return &r, nil
}

func (f *fakeUpstream) ReviewRegistration(_ context.Context, _ string, id string, payload review.ReviewPayload) (*model.BusinessRegistration, error) {
	if f.reviewHook != nil {
		f.reviewHook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewCalls++
	f.reviewed = append(f.reviewed, payload)
	if f.reviewErr != nil {
		return nil, f.reviewErr
	}

	r := f.registrations[id]
	r.Status = payload.Status
	r.RejectionReason = payload.RejectionReason
	r.AdminNotes = payload.AdminNotes
	f.registrations[id] = r
	return &r, nil
}

func (f *fakeUpstream) UpdateRegistration(_ context.Context, _ string, id string, payload review.EditPayload) (*model.BusinessRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.updated = append(f.updated, payload)
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	r := f.registrations[id]
	r.BrandName = payload.BrandName
	r.BusinessEmail = payload.BusinessEmail
	r.BusinessMobile = payload.BusinessMobile
	r.Location = payload.Location
	r.VendorCategory = payload.VendorCategory
	r.ReferID = payload.ReferID
	f.registrations[id] = r
	return &r, nil
}
