package controller

import (
	"context"
	"net/http"
	"sync"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	"github.com/caterbazar/caterbazar-console/internal/app/query"
	"github.com/caterbazar/caterbazar-console/internal/app/review"
	"github.com/caterbazar/caterbazar-console/internal/app/service"
	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/inflight"
	"github.com/caterbazar/caterbazar-console/internal/middleware"
	"github.com/gin-gonic/gin"
)

const testToken = "admin-token"

type fakeUpstream struct {
	mu            sync.Mutex
	searches      []query.ParamSet
	searchErr     error
	registrations map[string]model.BusinessRegistration
	reviewed      []review.ReviewPayload
}

func newFakeUpstream(regs ...model.BusinessRegistration) *fakeUpstream {
	f := &fakeUpstream{registrations: make(map[string]model.BusinessRegistration)}
	for _, r := range regs {
		f.registrations[r.ID] = r
	}
	return f
}

func (f *fakeUpstream) SearchVendors(_ context.Context, _ string, params query.ParamSet) (*caterbazar.VendorSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, params)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &caterbazar.VendorSearchResult{
		Vendors:    []model.Vendor{{ID: "v1"}},
		Pagination: model.Pagination{Total: 1, Page: 1, Limit: 10, Pages: 1},
	}, nil
}

func (f *fakeUpstream) lastSearch() query.ParamSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches[len(f.searches)-1]
}

func (f *fakeUpstream) ListRegistrations(_ context.Context, _ string, q caterbazar.RegistrationListQuery) (*caterbazar.RegistrationList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.BusinessRegistration{}
	for _, r := range f.registrations {
		if q.Status == "" || r.Status == q.Status {
			out = append(out, r)
		}
	}
	return &caterbazar.RegistrationList{
		Registrations: out,
		Pagination:    model.Pagination{Total: len(out), Page: 1, Limit: 100, Pages: 1},
	}, nil
}

func (f *fakeUpstream) GetRegistrationStats(context.Context, string) (*model.RegistrationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.RegistrationStats{Total: len(f.registrations)}, nil
}

func (f *fakeUpstream) GetRegistration(_ context.Context, _ string, id string) (*model.BusinessRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.registrations[id]
	if !ok {
		return nil, &apperrors.BusinessRuleError{Status: http.StatusNotFound, Code: apperrors.RegistrationNotFound, Message: "Registration not found"}
	}
	return &r, nil
}

func (f *fakeUpstream) ReviewRegistration(_ context.Context, _ string, id string, payload review.ReviewPayload) (*model.BusinessRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviewed = append(f.reviewed, payload)
	r := f.registrations[id]
	r.Status = payload.Status
	r.RejectionReason = payload.RejectionReason
	f.registrations[id] = r
	return &r, nil
}

func (f *fakeUpstream) UpdateRegistration(_ context.Context, _ string, id string, payload review.EditPayload) (*model.BusinessRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.registrations[id]
	r.BrandName = payload.BrandName
	r.BusinessEmail = payload.BusinessEmail
	r.BusinessMobile = payload.BusinessMobile
	r.Location = payload.Location
	r.VendorCategory = payload.VendorCategory
	f.registrations[id] = r
	return &r, nil
}

// setupConsoleRouter returns a router whose requests are already authenticated
// and bound to a console session.
func setupConsoleRouter(api *fakeUpstream) (*gin.Engine, *service.ConsoleRegistry) {
	gin.SetMode(gin.TestMode)
	registry := service.NewConsoleRegistry(
		service.NewConsoleFactory(api, api, service.ReviewDeps{Guard: inflight.NewMemoryGuard()}),
		0,
		0,
	)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.BearerTokenKey, testToken)
		c.Next()
	})
	router.Use(middleware.ConsoleMiddleware(registry))
	return router, registry
}
