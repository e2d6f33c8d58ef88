package request_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthdata-go/harmony/request"
)

func validRequest() *request.Request {
	return &request.Request{
		Collection: "C1940468263-POCLOUD",
		Spatial:    &request.BBox{West: -140, South: 20, East: -50, North: 60},
		Temporal: &request.TemporalRange{
			Start: time.Date(2021, 8, 1, 0, 0, 0, 0, time.UTC),
			Stop:  time.Date(2021, 8, 2, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestValidRequest(t *testing.T) {
	req := validRequest()
	assert.True(t, req.IsValid())
	assert.Empty(t, req.Validate())
}

func TestValidateCollectsAllMessages(t *testing.T) {
	req := &request.Request{
		Spatial:    &request.BBox{West: 0, South: 95, East: 10, North: -95},
		Height:     -1,
		MaxResults: -5,
	}

	msgs := req.Validate()
	assert.False(t, req.IsValid())
	// Missing collection, both latitudes out of range, south > north,
	// negative height, negative max results.
	assert.Len(t, msgs, 6)
}

func TestValidateTemporal(t *testing.T) {
	req := validRequest()
	req.Temporal = &request.TemporalRange{
		Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Stop:  time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	msgs := req.Validate()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "temporal range")
}

func TestValidateShapeFile(t *testing.T) {
	req := validRequest()
	req.ShapeFile = "aoi.geojson"
	assert.True(t, req.IsValid())

	ct, err := req.ShapeContentType()
	require.NoError(t, err)
	assert.Equal(t, "application/geo+json", ct)

	req.ShapeFile = "aoi.csv"
	assert.False(t, req.IsValid())
}

func TestValidateScaleExtent(t *testing.T) {
	req := validRequest()
	req.ScaleExtent = &request.ScaleExtent{XMin: 10, YMin: 0, XMax: 5, YMax: 20}
	msgs := req.Validate()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "xmin")
}

func TestQueryValuesSubsets(t *testing.T) {
	req := validRequest()
	req.Dimensions = []request.Dimension{{Name: "lev", Min: 10, Max: 20}}

	query := req.QueryValues()
	assert.Equal(t, "true", query.Get("forceAsync"))
	assert.Equal(t, []string{
		"lat(20:60)",
		"lon(-140:-50)",
		`time("2021-08-01T00:00:00Z":"2021-08-02T00:00:00Z")`,
		"lev(10:20)",
	}, query["subset"])
}

func TestQueryValuesOpenEndedTemporal(t *testing.T) {
	req := &request.Request{
		Collection: "C1-PROV",
		Temporal:   &request.TemporalRange{Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	query := req.QueryValues()
	assert.Equal(t, []string{`time("2020-01-01T00:00:00Z":*)`}, query["subset"])
}

func TestQueryValuesOutputOptions(t *testing.T) {
	req := &request.Request{
		Collection:     "C1-PROV",
		Format:         "image/tiff",
		CRS:            "EPSG:3857",
		Height:         512,
		Width:          1024,
		Interpolation:  "near",
		GranuleIDs:     []string{"G1-PROV", "G2-PROV"},
		MaxResults:     10,
		Concatenate:    true,
		SkipPreview:    true,
		DestinationURL: "s3://my-bucket/results/",
		Labels:         []string{"demo", "august"},
		ScaleExtent:    &request.ScaleExtent{XMin: -180, YMin: -90, XMax: 180, YMax: 90},
		ScaleSize:      &request.ScaleSize{X: 0.5, Y: 0.5},
	}

	query := req.QueryValues()
	assert.Equal(t, "image/tiff", query.Get("format"))
	assert.Equal(t, "EPSG:3857", query.Get("outputCrs"))
	assert.Equal(t, "512", query.Get("height"))
	assert.Equal(t, "1024", query.Get("width"))
	assert.Equal(t, "near", query.Get("interpolation"))
	assert.Equal(t, []string{"G1-PROV", "G2-PROV"}, query["granuleId"])
	assert.Equal(t, "10", query.Get("maxResults"))
	assert.Equal(t, "true", query.Get("concatenate"))
	assert.Equal(t, "true", query.Get("skipPreview"))
	assert.Equal(t, "s3://my-bucket/results/", query.Get("destinationUrl"))
	assert.Equal(t, []string{"demo", "august"}, query["label"])
	assert.Equal(t, "-180,-90,180,90", query.Get("scaleExtent"))
	assert.Equal(t, "0.5,0.5", query.Get("scaleSize"))
}

func TestQueryValuesDeterministic(t *testing.T) {
	req := validRequest()
	assert.Equal(t, req.QueryValues().Encode(), req.QueryValues().Encode())
}

func TestVariablePath(t *testing.T) {
	req := validRequest()
	assert.Equal(t, "all", req.VariablePath())

	req.Variables = []string{"sea_surface_temperature", "wind/speed"}
	assert.Equal(t, "sea_surface_temperature,wind%2Fspeed", req.VariablePath())
}
