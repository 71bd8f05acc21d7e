package model

import "time"

type VendorCategory string // catering category
type FoodPreference string // veg / non-veg offering
type SortKey string        // vendor search ordering

const (
	CategoryFullCatering       VendorCategory = "full_catering"
	CategorySnacksAndStarters  VendorCategory = "snacks_and_starters"
	CategorySweetsAndDesserts  VendorCategory = "sweets_and_desserts"
	CategoryBeverages          VendorCategory = "beverages"
	CategoryLiveCounters       VendorCategory = "live_counters"
	CategoryBakeryAndCakes     VendorCategory = "bakery_and_cakes"
	CategoryHomeChefs          VendorCategory = "home_chefs"
	CategoryTiffinServices     VendorCategory = "tiffin_services"
	CategoryChaatAndStreetFood VendorCategory = "chaat_and_street_food"

	FoodPreferenceVeg    FoodPreference = "veg"
	FoodPreferenceNonVeg FoodPreference = "non-veg"
	FoodPreferenceBoth   FoodPreference = "both"

	SortPopularity SortKey = "popularity" // default
	SortRating     SortKey = "rating"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortNewest     SortKey = "newest"
)

// VendorCategories is the fixed catalog, in display order.
var VendorCategories = []VendorCategory{
	CategoryFullCatering,
	CategorySnacksAndStarters,
	CategorySweetsAndDesserts,
	CategoryBeverages,
	CategoryLiveCounters,
	CategoryBakeryAndCakes,
	CategoryHomeChefs,
	CategoryTiffinServices,
	CategoryChaatAndStreetFood,
}

// IsValid reports whether c belongs to the catalog.
func (c VendorCategory) IsValid() bool {
	for _, known := range VendorCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (p FoodPreference) IsValid() bool {
	switch p {
	case FoodPreferenceVeg, FoodPreferenceNonVeg, FoodPreferenceBoth:
		return true
	}
	return false
}

func (s SortKey) IsValid() bool {
	switch s {
	case SortPopularity, SortRating, SortPriceAsc, SortPriceDesc, SortNewest:
		return true
	}
	return false
}

type Vendor struct {
	ID               string         `json:"id"`                 // vendor ID
	BrandName        string         `json:"brandName"`          // brand shown in listings
	VendorCategory   VendorCategory `json:"vendorCategory"`     // catalog category
	Locality         string         `json:"locality"`           // service locality
	FoodPreference   FoodPreference `json:"foodPreference"`     // veg / non-veg / both
	MinGuests        int            `json:"minGuests"`          // smallest event served
	MaxGuests        int            `json:"maxGuests"`          // largest event served
	VegPrice         int            `json:"vegPrice"`           // per plate, veg
	NonVegPrice      int            `json:"nonVegPrice"`        // per plate, non-veg
	Rating           float64        `json:"rating"`             // average rating
	ReviewCount      int            `json:"reviewCount"`        // number of ratings
	CaterbazarChoice bool           `json:"caterbazarChoice"`   // curated flag
	ImageURL         string         `json:"imageUrl,omitempty"` // cover image
	CreatedAt        *time.Time     `json:"createdAt,omitempty"`
}
