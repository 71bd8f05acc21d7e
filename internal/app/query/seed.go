package query

import (
	"net/url"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
)

// URLSeed holds the values a landing URL may preselect. They act as defaults for
// the first search only.
type URLSeed struct {
	VendorCategory model.VendorCategory
	Locality       string
	CuratedOnly    bool
}

// ParseSeed extracts the seedable values from a page URL's query. A category
// outside the catalog is dropped.
func ParseSeed(values url.Values) *URLSeed {
	seed := &URLSeed{
		Locality:    values.Get(ParamLocality),
		CuratedOnly: parseBool(values.Get(ParamCaterbazarChoice)),
	}
	if category := model.VendorCategory(values.Get(ParamVendorCategory)); category.IsValid() {
		seed.VendorCategory = category
	}
	if seed.IsEmpty() {
		return nil
	}
	return seed
}

func (s *URLSeed) IsEmpty() bool {
	return s == nil || (s.VendorCategory == "" && !present(s.Locality) && !s.CuratedOnly)
}

// Merge resolves a user filter against a seed: a value the user already set wins,
// otherwise the seed value is used.
func Merge(user VendorSearchFilter, seed *URLSeed) VendorSearchFilter {
	merged := user.Clone()
	if seed == nil {
		return merged
	}
	if merged.VendorCategory == "" {
		merged.VendorCategory = seed.VendorCategory
	}
	if !present(merged.Locality) {
		merged.Locality = seed.Locality
	}
	if !merged.CuratedOnly {
		merged.CuratedOnly = seed.CuratedOnly
	}
	return merged
}

// Selection is the user's filter plus a not-yet-consumed URL seed.
// It is a value type; every method returns a new Selection.
type Selection struct {
	User VendorSearchFilter
	Seed *URLSeed
}

// NewSelection starts a selection with an optional seed.
func NewSelection(seed *URLSeed) Selection {
	if seed.IsEmpty() {
		seed = nil
	} else {
		c := *seed
		seed = &c
	}
	return Selection{Seed: seed}
}

// Effective is the filter to send.
func (s Selection) Effective() VendorSearchFilter {
	return Merge(s.User, s.Seed)
}

// WithUser replaces the user filter and keeps the pending seed.
func (s Selection) WithUser(f VendorSearchFilter) Selection {
	return Selection{User: f.Clone(), Seed: s.Seed}
}

// Reconcile promotes the seeded values into the user filter and drops the seed,
// so later requests are not silently re-seeded.
func (s Selection) Reconcile() Selection {
	return Selection{User: s.Effective()}
}

// Seeded reports whether a seed is still pending.
func (s Selection) Seeded() bool {
	return s.Seed != nil
}
