package recipe

import "github.com/AnyUserName/photoedit/internal/filters"

// SupportedVersion is the recipe format version this build reads and writes.
const SupportedVersion = 1

// Recipe is a saved edit that can be replayed on any image.
type Recipe struct {
	Version            int                `json:"version"`
	Filters            filters.Parameters `json:"filters"`
	Crop               *Crop              `json:"crop,omitempty"`
	Export             Export             `json:"export"`
	ResetFiltersOnLoad bool               `json:"reset_filters_on_load,omitempty"`
}

// Crop is the crop part of a recipe. With an aspect and no size, the
// largest centered region of that aspect is used for each image.
type Crop struct {
	X      float64 `json:"x"`      // percent of image width
	Y      float64 `json:"y"`      // percent of image height
	Width  float64 `json:"width"`  // percent of image width
	Height float64 `json:"height"` // percent of image height

	// Aspect locks the ratio: "16/9", "1:1" or "free".
	Aspect string `json:"aspect,omitempty"`
}

// Export selects the output encoding.
type Export struct {
	Profile string  `json:"profile,omitempty"`
	Format  string  `json:"format,omitempty"`  // overrides the profile format
	Quality float64 `json:"quality,omitempty"` // percent 1-100, 0 = profile default
}
