package manifest

// Manifest is the record of a batch run: which images were edited, with
// which settings, and where the results went. RunID is a UUIDv7, so run ids
// sort by start time.
type Manifest struct {
	Version     int              `json:"version"`
	RunID       string           `json:"run_id,omitempty"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	Format      string           `json:"format"`
	Quality     int              `json:"quality"`
	Recipe      string           `json:"recipe,omitempty"`
	BasePath    string           `json:"base_path"`
	RunInfo     *RunInfo         `json:"run_info,omitempty"`
	Images      map[string]Entry `json:"images"`
	Stats       Stats            `json:"stats"`
}

// RunInfo captures run-time parameters for diagnostics.
type RunInfo struct {
	Workers int `json:"workers"`
}

// Entry describes one source image and its edited output.
type Entry struct {
	Source      SourceInfo `json:"source"`
	AspectRatio float64    `json:"aspect_ratio"`        // width / height
	AvgColor    *[3]uint8  `json:"avg_color,omitempty"` // [R,G,B] 0-255 of the source
	Output      *Output    `json:"output,omitempty"`    // nil when skipped
}

// SourceInfo holds metadata about the source image.
type SourceInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	HasAlpha bool   `json:"has_alpha"`
	Hash     string `json:"hash"` // xxhash64 of the file bytes
}

// Output is one edited, encoded file.
type Output struct {
	Format         string `json:"format"` // "jpeg", "png", "webp", "avif"
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Size           int64  `json:"size"`       // bytes on disk
	Hash           string `json:"hash"`       // first 16 hex chars of xxhash64
	PixelHash      string `json:"pixel_hash"` // fingerprint of the rendered pixels
	Path           string `json:"path"`       // relative to base_path
	FlattenedAlpha bool   `json:"flattened_alpha,omitempty"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalImages      int   `json:"total_images"`
	TotalOutputs     int   `json:"total_outputs"`
	SkippedRegress   int   `json:"skipped_regress,omitempty"` // outputs dropped for being larger than the source
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside the output directory.
const FileName = "photoedit.manifest.json"
