// Package query turns a vendor search selection into the parameter set understood by
// the upstream vendor-search endpoint. Nothing here touches the network.
package query

import (
	"strings"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
)

// VendorSearchFilter is one immutable search selection. Every dimension is optional;
// a nil pointer or blank string means "no filter". Use the With* methods to derive a
// new filter instead of mutating a shared one.
type VendorSearchFilter struct {
	VendorCategory model.VendorCategory `json:"vendorCategory,omitempty"`
	Locality       string               `json:"locality,omitempty"`
	FoodPreference model.FoodPreference `json:"foodPreference,omitempty"`
	MinGuests      *int                 `json:"minGuests,omitempty"`
	MaxGuests      *int                 `json:"maxGuests,omitempty"`
	VegPriceMin    *int                 `json:"vegPriceMin,omitempty"`
	VegPriceMax    *int                 `json:"vegPriceMax,omitempty"`
	NonVegPriceMin *int                 `json:"nonVegPriceMin,omitempty"`
	NonVegPriceMax *int                 `json:"nonVegPriceMax,omitempty"`
	MinRating      *int                 `json:"minRating,omitempty"`
	CuratedOnly    bool                 `json:"caterbazarChoice,omitempty"`
	SearchQuery    string               `json:"search,omitempty"`
	SortKey        model.SortKey        `json:"sortBy,omitempty"`
	Page           int                  `json:"page,omitempty"`
}

// IntPtr is a convenience for building filters.
func IntPtr(v int) *int {
	return &v
}

// CurrentPage returns the 1-based page, defaulting to 1.
func (f VendorSearchFilter) CurrentPage() int {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

// Sort returns the effective sort key, defaulting to popularity.
func (f VendorSearchFilter) Sort() model.SortKey {
	if f.SortKey == "" || !f.SortKey.IsValid() {
		return model.SortPopularity
	}
	return f.SortKey
}

// IsEmpty reports whether no dimension is active.
func (f VendorSearchFilter) IsEmpty() bool {
	return BuildParams(f.WithPage(1)).Len() == 0
}

func (f VendorSearchFilter) WithVendorCategory(c model.VendorCategory) VendorSearchFilter {
	f.VendorCategory = c
	return f
}

func (f VendorSearchFilter) WithLocality(locality string) VendorSearchFilter {
	f.Locality = locality
	return f
}

func (f VendorSearchFilter) WithFoodPreference(p model.FoodPreference) VendorSearchFilter {
	f.FoodPreference = p
	return f
}

func (f VendorSearchFilter) WithGuests(min, max *int) VendorSearchFilter {
	f.MinGuests = copyInt(min)
	f.MaxGuests = copyInt(max)
	return f
}

func (f VendorSearchFilter) WithVegPrice(min, max *int) VendorSearchFilter {
	f.VegPriceMin = copyInt(min)
	f.VegPriceMax = copyInt(max)
	return f
}

func (f VendorSearchFilter) WithNonVegPrice(min, max *int) VendorSearchFilter {
	f.NonVegPriceMin = copyInt(min)
	f.NonVegPriceMax = copyInt(max)
	return f
}

func (f VendorSearchFilter) WithMinRating(rating *int) VendorSearchFilter {
	f.MinRating = copyInt(rating)
	return f
}

func (f VendorSearchFilter) WithCuratedOnly(curated bool) VendorSearchFilter {
	f.CuratedOnly = curated
	return f
}

func (f VendorSearchFilter) WithSearchQuery(q string) VendorSearchFilter {
	f.SearchQuery = q
	return f
}

func (f VendorSearchFilter) WithSortKey(k model.SortKey) VendorSearchFilter {
	f.SortKey = k
	return f
}

func (f VendorSearchFilter) WithPage(page int) VendorSearchFilter {
	f.Page = page
	return f
}

// Clone returns a deep copy so the result shares no pointers with f.
func (f VendorSearchFilter) Clone() VendorSearchFilter {
	f.MinGuests = copyInt(f.MinGuests)
	f.MaxGuests = copyInt(f.MaxGuests)
	f.VegPriceMin = copyInt(f.VegPriceMin)
	f.VegPriceMax = copyInt(f.VegPriceMax)
	f.NonVegPriceMin = copyInt(f.NonVegPriceMin)
	f.NonVegPriceMax = copyInt(f.NonVegPriceMax)
	f.MinRating = copyInt(f.MinRating)
	return f
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
