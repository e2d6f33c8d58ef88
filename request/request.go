// Package request models a Harmony processing request.
//
// A Request captures everything a job submission needs: the target
// collection, optional variable subset, spatial and temporal constraints,
// and output options. Validation collects every problem at once rather
// than stopping at the first, so callers can show users the full list
// before submitting anything.
package request

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// BBox is a spatial bounding box in decimal degrees.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// String renders the box as west,south,east,north.
func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.West, b.South, b.East, b.North)
}

// TemporalRange bounds a request in time. A zero Start or Stop leaves
// that end open.
type TemporalRange struct {
	Start time.Time
	Stop  time.Time
}

// Dimension subsets an arbitrary named dimension of the data.
type Dimension struct {
	Name string
	Min  float64
	Max  float64
}

// ScaleExtent is the output grid extent as xmin, ymin, xmax, ymax.
type ScaleExtent struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// ScaleSize is the output pixel size in CRS units.
type ScaleSize struct {
	X float64
	Y float64
}

// Request describes the output a processing job should produce.
type Request struct {
	// Collection is the id of the dataset to process, e.g. "C1234-PROV".
	Collection string

	// Variables limits processing to the named variables. Empty means
	// all variables.
	Variables []string

	Spatial  *BBox
	Temporal *TemporalRange

	// ShapeFile is a path to a GeoJSON, KML, or zipped shapefile used as
	// the area of interest. Setting it switches submission to a
	// multipart POST.
	ShapeFile string

	// Format is the desired output MIME type, e.g. "image/tiff".
	Format string

	// CRS reprojects output to the named coordinate reference system.
	CRS string

	Height int
	Width  int

	ScaleExtent *ScaleExtent
	ScaleSize   *ScaleSize

	// Interpolation names the resampling method for reprojection.
	Interpolation string

	GranuleIDs   []string
	GranuleNames []string

	// MaxResults caps the number of granules processed.
	MaxResults int

	// Concatenate asks the service to merge outputs into one file.
	Concatenate bool

	// SkipPreview starts the full job immediately instead of the
	// preview phase.
	SkipPreview bool

	// IgnoreErrors lets the job continue past individual granule
	// failures.
	IgnoreErrors bool

	// DestinationURL is an s3:// prefix the service writes results to
	// instead of its own staging bucket.
	DestinationURL string

	// Labels are attached to the job for later lookup.
	Labels []string

	Dimensions []Dimension
}

var shapeContentTypes = map[string]string{
	".geojson": "application/geo+json",
	".json":    "application/geo+json",
	".kml":     "application/vnd.google-earth.kml+xml",
	".shz":     "application/shapefile+zip",
	".zip":     "application/shapefile+zip",
}

// ShapeContentType returns the MIME type for the request's shape file.
func (r *Request) ShapeContentType() (string, error) {
	ext := strings.ToLower(filepath.Ext(r.ShapeFile))
	ct, ok := shapeContentTypes[ext]
	if !ok {
		return "", fmt.Errorf("request: unrecognized shape file extension %q", ext)
	}
	return ct, nil
}

// Validate returns every constraint violation in the request. An empty
// slice means the request may be submitted.
func (r *Request) Validate() []string {
	var msgs []string

	if r.Collection == "" {
		msgs = append(msgs, "a collection id is required")
	}
	if r.Spatial != nil {
		if r.Spatial.South < -90 || r.Spatial.South > 90 {
			msgs = append(msgs, "southern latitude must be between -90 and 90")
		}
		if r.Spatial.North < -90 || r.Spatial.North > 90 {
			msgs = append(msgs, "northern latitude must be between -90 and 90")
		}
		if r.Spatial.South > r.Spatial.North {
			msgs = append(msgs, "southern latitude must not exceed northern latitude")
		}
	}
	if r.Temporal != nil && !r.Temporal.Start.IsZero() && !r.Temporal.Stop.IsZero() {
		if r.Temporal.Start.After(r.Temporal.Stop) {
			msgs = append(msgs, "temporal range start must not be after stop")
		}
	}
	if r.ShapeFile != "" {
		if _, err := r.ShapeContentType(); err != nil {
			msgs = append(msgs, fmt.Sprintf("shape file must be geojson, json, kml, shz, or zip: %s", r.ShapeFile))
		}
	}
	if r.Height < 0 {
		msgs = append(msgs, "height must be positive")
	}
	if r.Width < 0 {
		msgs = append(msgs, "width must be positive")
	}
	if r.MaxResults < 0 {
		msgs = append(msgs, "max results must not be negative")
	}
	if r.ScaleExtent != nil {
		if r.ScaleExtent.XMin >= r.ScaleExtent.XMax {
			msgs = append(msgs, "scale extent xmin must be less than xmax")
		}
		if r.ScaleExtent.YMin >= r.ScaleExtent.YMax {
			msgs = append(msgs, "scale extent ymin must be less than ymax")
		}
	}
	if r.ScaleSize != nil && (r.ScaleSize.X <= 0 || r.ScaleSize.Y <= 0) {
		msgs = append(msgs, "scale sizes must be positive")
	}
	for _, dim := range r.Dimensions {
		if dim.Name == "" {
			msgs = append(msgs, "dimension subsets require a name")
		}
		if dim.Min > dim.Max {
			msgs = append(msgs, fmt.Sprintf("dimension %q min must not exceed max", dim.Name))
		}
	}

	return msgs
}

// IsValid reports whether Validate finds no problems.
func (r *Request) IsValid() bool {
	return len(r.Validate()) == 0
}
