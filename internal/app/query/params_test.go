package query

import (
	"net/url"
	"testing"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParams_CategoryRatingPage(t *testing.T) {
	f := VendorSearchFilter{
		VendorCategory: model.CategoryFullCatering,
		MinRating:      IntPtr(4),
		Page:           2,
	}

	params := BuildParams(f)

	assert.Equal(t, []string{ParamVendorCategory, ParamMinRating, ParamPage}, params.Keys())
	assert.Equal(t, map[string]string{
		"vendorCategory": "full_catering",
		"minRating":      "4",
		"page":           "2",
	}, params.Map())
	assert.False(t, params.Has(ParamSortBy))
	assert.Equal(t, model.SortPopularity, f.Sort())
}

func TestBuildParams_EmptyFilter(t *testing.T) {
	params := BuildParams(VendorSearchFilter{})

	assert.Equal(t, 0, params.Len())
	assert.Equal(t, "", params.Encode())
	assert.True(t, VendorSearchFilter{}.IsEmpty())
}

func TestBuildParams_OmitsAbsentAndDefaultValues(t *testing.T) {
	tests := []struct {
		name   string
		filter VendorSearchFilter
	}{
		{"blank locality", VendorSearchFilter{Locality: "   "}},
		{"blank search", VendorSearchFilter{SearchQuery: "\t"}},
		{"unknown category", VendorSearchFilter{VendorCategory: "pizza"}},
		{"unknown food preference", VendorSearchFilter{FoodPreference: "vegan"}},
		{"rating below range", VendorSearchFilter{MinRating: IntPtr(0)}},
		{"rating above range", VendorSearchFilter{MinRating: IntPtr(6)}},
		{"negative guests", VendorSearchFilter{MinGuests: IntPtr(-1)}},
		{"negative price", VendorSearchFilter{VegPriceMax: IntPtr(-50)}},
		{"curated false", VendorSearchFilter{CuratedOnly: false}},
		{"popularity sort", VendorSearchFilter{SortKey: model.SortPopularity}},
		{"unknown sort", VendorSearchFilter{SortKey: "cheapest"}},
		{"first page", VendorSearchFilter{Page: 1}},
		{"zero page", VendorSearchFilter{Page: 0}},
		{"negative page", VendorSearchFilter{Page: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := BuildParams(tt.filter)
			assert.Equal(t, 0, params.Len(), "unexpected keys %v", params.Keys())
		})
	}
}

func TestBuildParams_AllDimensionsInCanonicalOrder(t *testing.T) {
	f := VendorSearchFilter{
		Page:           3,
		SortKey:        model.SortPriceAsc,
		SearchQuery:    "paneer tikka",
		CuratedOnly:    true,
		MinRating:      IntPtr(5),
		NonVegPriceMax: IntPtr(900),
		NonVegPriceMin: IntPtr(400),
		VegPriceMax:    IntPtr(600),
		VegPriceMin:    IntPtr(0),
		MaxGuests:      IntPtr(500),
		MinGuests:      IntPtr(50),
		FoodPreference: model.FoodPreferenceBoth,
		Locality:       "Koramangala",
		VendorCategory: model.CategoryLiveCounters,
	}

	params := BuildParams(f)

	assert.Equal(t, []string{
		"vendorCategory", "locality", "foodPreference", "minGuests", "maxGuests",
		"vegPriceMin", "vegPriceMax", "nonVegPriceMin", "nonVegPriceMax",
		"minRating", "caterbazarChoice", "search", "sortBy", "page",
	}, params.Keys())

	v, _ := params.Get(ParamVegPriceMin)
	assert.Equal(t, "0", v, "zero is a present bound")
	v, _ = params.Get(ParamSearch)
	assert.Equal(t, "paneer tikka", v)
	assert.Equal(t,
		"vendorCategory=live_counters&locality=Koramangala&foodPreference=both&minGuests=50&maxGuests=500"+
			"&vegPriceMin=0&vegPriceMax=600&nonVegPriceMin=400&nonVegPriceMax=900&minRating=5"+
			"&caterbazarChoice=true&search=paneer+tikka&sortBy=price-asc&page=3",
		params.Encode())
}

func TestBuildParams_CuratedFlag(t *testing.T) {
	on := BuildParams(VendorSearchFilter{CuratedOnly: true})
	v, ok := on.Get(ParamCaterbazarChoice)
	require.True(t, ok)
	assert.Equal(t, "true", v)

	off := BuildParams(VendorSearchFilter{CuratedOnly: false, Locality: "Andheri"})
	assert.False(t, off.Has(ParamCaterbazarChoice))
	for _, val := range off.Map() {
		assert.NotEqual(t, "false", val)
	}
}

func TestBuildParams_Idempotent(t *testing.T) {
	f := VendorSearchFilter{
		Locality:    "Baner",
		MinGuests:   IntPtr(20),
		SearchQuery: "biryani & kebabs",
		SortKey:     model.SortRating,
	}

	first := BuildParams(f)
	second := BuildParams(f)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Encode(), second.Encode())
}

func TestBuildParams_SearchSentUntrimmed(t *testing.T) {
	params := BuildParams(VendorSearchFilter{SearchQuery: "  dosa "})
	v, ok := params.Get(ParamSearch)
	require.True(t, ok)
	assert.Equal(t, "  dosa ", v)
}

func TestBuildParams_IncrementalChangesAreIndependent(t *testing.T) {
	base := VendorSearchFilter{VendorCategory: model.CategoryBeverages}
	withLocality := base.WithLocality("Indiranagar")
	withRating := withLocality.WithMinRating(IntPtr(3))

	assert.Equal(t, []string{ParamVendorCategory}, BuildParams(base).Keys())
	assert.Equal(t, []string{ParamVendorCategory, ParamLocality}, BuildParams(withLocality).Keys())
	assert.Equal(t, []string{ParamVendorCategory, ParamLocality, ParamMinRating}, BuildParams(withRating).Keys())
	assert.Equal(t, "", base.Locality, "With* must not mutate the receiver")
}

func TestParamSet_SetKeepsPosition(t *testing.T) {
	var p ParamSet
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, p.Keys())
	v, _ := p.Get("a")
	assert.Equal(t, "3", v)
	assert.Equal(t, url.Values{"a": {"3"}, "b": {"2"}}, p.Values())
}

func TestParseFilter_RoundTrip(t *testing.T) {
	f := VendorSearchFilter{
		VendorCategory: model.CategoryHomeChefs,
		Locality:       "Salt Lake",
		FoodPreference: model.FoodPreferenceVeg,
		MaxGuests:      IntPtr(80),
		NonVegPriceMin: IntPtr(250),
		CuratedOnly:    true,
		SearchQuery:    "thali",
		SortKey:        model.SortNewest,
		Page:           4,
	}

	parsed := ParseFilter(BuildParams(f).Values())

	assert.True(t, BuildParams(f).Equal(BuildParams(parsed)))
}

func TestParseFilter_IgnoresGarbageNumbers(t *testing.T) {
	parsed := ParseFilter(url.Values{
		ParamMinGuests:        {"many"},
		ParamPage:             {"two"},
		ParamCaterbazarChoice: {"yes"},
	})

	assert.Nil(t, parsed.MinGuests)
	assert.Equal(t, 1, parsed.CurrentPage())
	assert.False(t, parsed.CuratedOnly)
}
