package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
)

// Parameter names understood by the vendor-search endpoint.
const (
	ParamVendorCategory   = "vendorCategory"
	ParamLocality         = "locality"
	ParamFoodPreference   = "foodPreference"
	ParamMinGuests        = "minGuests"
	ParamMaxGuests        = "maxGuests"
	ParamVegPriceMin      = "vegPriceMin"
	ParamVegPriceMax      = "vegPriceMax"
	ParamNonVegPriceMin   = "nonVegPriceMin"
	ParamNonVegPriceMax   = "nonVegPriceMax"
	ParamMinRating        = "minRating"
	ParamCaterbazarChoice = "caterbazarChoice"
	ParamSearch           = "search"
	ParamSortBy           = "sortBy"
	ParamPage             = "page"
)

// ParamSet is an ordered name -> value mapping. The zero value is empty and usable.
type ParamSet struct {
	keys   []string
	values map[string]string
}

// Set appends name, or replaces its value while keeping the original position.
func (p *ParamSet) Set(name, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

func (p ParamSet) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

func (p ParamSet) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Keys returns parameter names in insertion order.
func (p ParamSet) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

func (p ParamSet) Len() int {
	return len(p.keys)
}

// Map returns an unordered copy.
func (p ParamSet) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Values converts to url.Values.
func (p ParamSet) Values() url.Values {
	out := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// Encode percent-encodes the set in insertion order.
func (p ParamSet) Encode() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}

// Equal reports whether both sets hold the same pairs in the same order.
func (p ParamSet) Equal(other ParamSet) bool {
	if len(p.keys) != len(other.keys) {
		return false
	}
	for i, k := range p.keys {
		if other.keys[i] != k || other.values[k] != p.values[k] {
			return false
		}
	}
	return true
}

// BuildParams maps a filter to the vendor-search parameters. Each dimension is
// tested and appended on its own, so only active dimensions appear and none depends
// on another. Defaults (popularity sort, page 1) are not sent.
func BuildParams(f VendorSearchFilter) ParamSet {
	var p ParamSet

	if f.VendorCategory != "" && f.VendorCategory.IsValid() {
		p.Set(ParamVendorCategory, string(f.VendorCategory))
	}
	if present(f.Locality) {
		p.Set(ParamLocality, f.Locality)
	}
	if f.FoodPreference.IsValid() {
		p.Set(ParamFoodPreference, string(f.FoodPreference))
	}
	setNonNegative(&p, ParamMinGuests, f.MinGuests)
	setNonNegative(&p, ParamMaxGuests, f.MaxGuests)
	setNonNegative(&p, ParamVegPriceMin, f.VegPriceMin)
	setNonNegative(&p, ParamVegPriceMax, f.VegPriceMax)
	setNonNegative(&p, ParamNonVegPriceMin, f.NonVegPriceMin)
	setNonNegative(&p, ParamNonVegPriceMax, f.NonVegPriceMax)
	if f.MinRating != nil && *f.MinRating >= 1 && *f.MinRating <= 5 {
		p.Set(ParamMinRating, strconv.Itoa(*f.MinRating))
	}
	if f.CuratedOnly {
		p.Set(ParamCaterbazarChoice, "true")
	}
	if present(f.SearchQuery) {
		p.Set(ParamSearch, f.SearchQuery)
	}
	if sort := f.Sort(); sort != model.SortPopularity {
		p.Set(ParamSortBy, string(sort))
	}
	if page := f.CurrentPage(); page > 1 {
		p.Set(ParamPage, strconv.Itoa(page))
	}

	return p
}

func setNonNegative(p *ParamSet, name string, v *int) {
	if v != nil && *v >= 0 {
		p.Set(name, strconv.Itoa(*v))
	}
}

// ParseFilter reads a filter from query-string values using the same names
// BuildParams emits. Unparseable numbers are ignored.
func ParseFilter(values url.Values) VendorSearchFilter {
	f := VendorSearchFilter{
		VendorCategory: model.VendorCategory(values.Get(ParamVendorCategory)),
		Locality:       values.Get(ParamLocality),
		FoodPreference: model.FoodPreference(values.Get(ParamFoodPreference)),
		MinGuests:      parseInt(values.Get(ParamMinGuests)),
		MaxGuests:      parseInt(values.Get(ParamMaxGuests)),
		VegPriceMin:    parseInt(values.Get(ParamVegPriceMin)),
		VegPriceMax:    parseInt(values.Get(ParamVegPriceMax)),
		NonVegPriceMin: parseInt(values.Get(ParamNonVegPriceMin)),
		NonVegPriceMax: parseInt(values.Get(ParamNonVegPriceMax)),
		MinRating:      parseInt(values.Get(ParamMinRating)),
		CuratedOnly:    parseBool(values.Get(ParamCaterbazarChoice)),
		SearchQuery:    values.Get(ParamSearch),
		SortKey:        model.SortKey(values.Get(ParamSortBy)),
	}
	if page := parseInt(values.Get(ParamPage)); page != nil {
		f.Page = *page
	}
	return f
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}
