package harmonyclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	harmonyclient "github.com/earthdata-go/harmony/client"
	"github.com/earthdata-go/harmony/request"
)

func submitRequest() *request.Request {
	return &request.Request{
		Collection: "C1940468263-POCLOUD",
		Spatial:    &request.BBox{West: -140, South: 20, East: -50, North: 60},
		Temporal: &request.TemporalRange{
			Start: time.Date(2021, 8, 1, 0, 0, 0, 0, time.UTC),
			Stop:  time.Date(2021, 8, 2, 0, 0, 0, 0, time.UTC),
		},
		Format: "application/x-netcdf4",
	}
}

func TestSubmit(t *testing.T) {
	const wantPath = "/C1940468263-POCLOUD/ogc-api-coverages/1.0.0/collections/all/coverage/rangeset"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != wantPath {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("forceAsync") != "true" {
			t.Fatal("submissions must force async processing")
		}
		if query.Get("format") != "application/x-netcdf4" {
			t.Fatalf("unexpected format %q", query.Get("format"))
		}
		if len(query["subset"]) != 3 {
			t.Fatalf("unexpected subsets: %#v", query["subset"])
		}
		writeJSON(t, w, jobPayload("job-1", harmonyclient.StatusAccepted))
	})

	job, err := client.Submit(context.Background(), submitRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.JobID != "job-1" || job.Status != harmonyclient.StatusAccepted {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestSubmitVariableSubset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		const want = "/C1-PROV/ogc-api-coverages/1.0.0/collections/sea_surface_temperature/coverage/rangeset"
		if r.URL.Path != want {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		writeJSON(t, w, jobPayload("job-2", harmonyclient.StatusAccepted))
	})

	req := &request.Request{Collection: "C1-PROV", Variables: []string{"sea_surface_temperature"}}
	if _, err := client.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmitInvalidRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid requests must not reach the server")
	})

	_, err := client.Submit(context.Background(), &request.Request{})
	var invalid *harmonyclient.InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
	if len(invalid.Messages) == 0 {
		t.Fatal("expected validation messages")
	}
}

func TestSubmitShapeFile(t *testing.T) {
	dir := t.TempDir()
	shapePath := filepath.Join(dir, "aoi.geojson")
	shapeBody := `{"type":"FeatureCollection","features":[]}`
	if err := os.WriteFile(shapePath, []byte(shapeBody), 0o644); err != nil {
		t.Fatalf("write shape: %v", err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("forceAsync"); got != "true" {
			t.Fatalf("unexpected forceAsync %q", got)
		}
		file, header, err := r.FormFile("shapefile")
		if err != nil {
			t.Fatalf("shapefile part: %v", err)
		}
		defer file.Close()
		if header.Filename != "aoi.geojson" {
			t.Fatalf("unexpected filename %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "application/geo+json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		data, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("read shapefile part: %v", err)
		}
		if string(data) != shapeBody {
			t.Fatalf("unexpected shape body %q", data)
		}
		writeJSON(t, w, jobPayload("job-3", harmonyclient.StatusAccepted))
	})

	req := submitRequest()
	req.ShapeFile = shapePath
	job, err := client.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.JobID != "job-3" {
		t.Fatalf("unexpected job: %+v", job)
	}
}
