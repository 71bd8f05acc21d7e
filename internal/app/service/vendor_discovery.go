package service

import (
	"context"
	"sync"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	"github.com/caterbazar/caterbazar-console/internal/app/query"
	"github.com/caterbazar/caterbazar-console/internal/caterbazar"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/caterbazar/caterbazar-console/internal/metrics"
	"github.com/caterbazar/caterbazar-console/pkg/logger"
)

// VendorSearcher is the upstream call VendorDiscovery depends on.
type VendorSearcher interface {
	SearchVendors(ctx context.Context, token string, params query.ParamSet) (*caterbazar.VendorSearchResult, error)
}

// DiscoverySnapshot is a copy of the vendor discovery view.
type DiscoverySnapshot struct {
	Filter     query.VendorSearchFilter `json:"filter"`
	Params     map[string]string        `json:"params"`
	Seeded     bool                     `json:"seeded"`
	Vendors    []model.Vendor           `json:"vendors"`
	Pagination model.Pagination         `json:"pagination"`
	Loading    bool                     `json:"loading"`
	Generation uint64                   `json:"generation"`
	Superseded bool                     `json:"superseded,omitempty"` // this call's response was discarded
}

// VendorDiscovery holds one admin's vendor search view. Every search-triggering
// call builds a new filter value, issues a search and applies the result only if no
// newer search was issued in the meantime.
type VendorDiscovery struct {
	api VendorSearcher

	mu         sync.Mutex
	selection  query.Selection
	vendors    []model.Vendor
	pagination model.Pagination
	issued     uint64 // newest generation handed out
	applied    uint64 // generation the current results came from
	inFlight   int
}

func NewVendorDiscovery(api VendorSearcher) *VendorDiscovery {
	return &VendorDiscovery{api: api, vendors: []model.Vendor{}}
}

// Open installs the landing URL's seed and runs the first search.
func (d *VendorDiscovery) Open(ctx context.Context, token string, seed *query.URLSeed) (DiscoverySnapshot, error) {
	return d.search(ctx, token, query.NewSelection(seed))
}

// ApplyFilter replaces the user's filter. A still-pending URL seed keeps filling
// dimensions the new filter leaves unset.
func (d *VendorDiscovery) ApplyFilter(ctx context.Context, token string, filter query.VendorSearchFilter) (DiscoverySnapshot, error) {
	d.mu.Lock()
	next := d.selection.WithUser(filter)
	d.mu.Unlock()
	return d.search(ctx, token, next)
}

// ChangePage searches the current filter at another page.
func (d *VendorDiscovery) ChangePage(ctx context.Context, token string, page int) (DiscoverySnapshot, error) {
	if page < 1 {
		return DiscoverySnapshot{}, apperrors.NewValidation("page", apperrors.ValidationInvalidValue, "Page must be 1 or greater.")
	}
	d.mu.Lock()
	next := d.selection.WithUser(d.selection.User.WithPage(page))
	d.mu.Unlock()
	return d.search(ctx, token, next)
}

// Reset clears every filter, drops any URL seed and returns to page 1.
func (d *VendorDiscovery) Reset(ctx context.Context, token string) (DiscoverySnapshot, error) {
	return d.search(ctx, token, query.Selection{})
}

// Snapshot returns a copy of the current view.
func (d *VendorDiscovery) Snapshot() DiscoverySnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *VendorDiscovery) search(ctx context.Context, token string, next query.Selection) (DiscoverySnapshot, error) {
	filter := next.Effective()
	params := query.BuildParams(filter)

	d.mu.Lock()
	d.issued++
	generation := d.issued
	d.inFlight++
	d.mu.Unlock()

	result, err := d.api.SearchVendors(ctx, token, params)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight--

	if generation < d.issued {
		metrics.StaleSearchResponses.Inc()
		logger.Debug("Discarding superseded vendor search response", map[string]interface{}{
			"generation": generation,
			"latest":     d.issued,
		})
		snap := d.snapshotLocked()
		snap.Superseded = true
		return snap, nil
	}

	if err != nil {
		return DiscoverySnapshot{}, err
	}

	d.selection = next.Reconcile()
	d.vendors = append([]model.Vendor(nil), result.Vendors...)
	d.pagination = result.Pagination
	d.applied = generation

	return d.snapshotLocked(), nil
}

func (d *VendorDiscovery) snapshotLocked() DiscoverySnapshot {
	filter := d.selection.Effective()
	vendors := make([]model.Vendor, len(d.vendors))
	copy(vendors, d.vendors)

	return DiscoverySnapshot{
		Filter:     filter,
		Params:     query.BuildParams(filter).Map(),
		Seeded:     d.selection.Seeded(),
		Vendors:    vendors,
		Pagination: d.pagination,
		Loading:    d.inFlight > 0,
		Generation: d.applied,
	}
}
