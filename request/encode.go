package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// timeFormat is the instant format the coverages API accepts.
const timeFormat = "2006-01-02T15:04:05Z"

// VariablePath returns the path segment naming the requested variables.
// The coverages API expects "all" when no subset is given.
func (r *Request) VariablePath() string {
	if len(r.Variables) == 0 {
		return "all"
	}
	escaped := make([]string, len(r.Variables))
	for i, v := range r.Variables {
		escaped[i] = url.PathEscape(v)
	}
	return strings.Join(escaped, ",")
}

// QueryValues encodes the request as coverages API query parameters.
// Encoding a given request is deterministic: url.Values.Encode sorts by
// key, and multi-valued keys keep insertion order.
func (r *Request) QueryValues() url.Values {
	query := make(url.Values)
	query.Set("forceAsync", "true")

	if r.Spatial != nil {
		query.Add("subset", fmt.Sprintf("lat(%g:%g)", r.Spatial.South, r.Spatial.North))
		query.Add("subset", fmt.Sprintf("lon(%g:%g)", r.Spatial.West, r.Spatial.East))
	}
	if r.Temporal != nil {
		start, stop := "*", "*"
		if !r.Temporal.Start.IsZero() {
			start = `"` + r.Temporal.Start.UTC().Format(timeFormat) + `"`
		}
		if !r.Temporal.Stop.IsZero() {
			stop = `"` + r.Temporal.Stop.UTC().Format(timeFormat) + `"`
		}
		query.Add("subset", fmt.Sprintf("time(%s:%s)", start, stop))
	}
	for _, dim := range r.Dimensions {
		query.Add("subset", fmt.Sprintf("%s(%g:%g)", dim.Name, dim.Min, dim.Max))
	}

	if r.Format != "" {
		query.Set("format", r.Format)
	}
	if r.CRS != "" {
		query.Set("outputCrs", r.CRS)
	}
	if r.Height > 0 {
		query.Set("height", strconv.Itoa(r.Height))
	}
	if r.Width > 0 {
		query.Set("width", strconv.Itoa(r.Width))
	}
	if r.ScaleExtent != nil {
		query.Set("scaleExtent", fmt.Sprintf("%g,%g,%g,%g",
			r.ScaleExtent.XMin, r.ScaleExtent.YMin, r.ScaleExtent.XMax, r.ScaleExtent.YMax))
	}
	if r.ScaleSize != nil {
		query.Set("scaleSize", fmt.Sprintf("%g,%g", r.ScaleSize.X, r.ScaleSize.Y))
	}
	if r.Interpolation != "" {
		query.Set("interpolation", r.Interpolation)
	}
	for _, id := range r.GranuleIDs {
		query.Add("granuleId", id)
	}
	for _, name := range r.GranuleNames {
		query.Add("granuleName", name)
	}
	if r.MaxResults > 0 {
		query.Set("maxResults", strconv.Itoa(r.MaxResults))
	}
	if r.Concatenate {
		query.Set("concatenate", "true")
	}
	if r.SkipPreview {
		query.Set("skipPreview", "true")
	}
	if r.IgnoreErrors {
		query.Set("ignoreErrors", "true")
	}
	if r.DestinationURL != "" {
		query.Set("destinationUrl", r.DestinationURL)
	}
	for _, label := range r.Labels {
		query.Add("label", label)
	}

	return query
}

// FormatTime renders an instant the way QueryValues does. Exposed for
// callers building temporal parameters by hand.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}
