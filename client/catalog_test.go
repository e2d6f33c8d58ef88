package harmonyclient_test

import (
	"context"
	"net/http"
	"testing"

	stac "github.com/planetlabs/go-stac"

	harmonyclient "github.com/earthdata-go/harmony/client"
)

func minimalItem(id string, assets map[string]any) map[string]any {
	if assets == nil {
		assets = map[string]any{}
	}
	return map[string]any{
		"type":         "Feature",
		"stac_version": "1.0.0",
		"id":           id,
		"geometry":     nil,
		"properties":   map[string]any{},
		"assets":       assets,
		"links":        []any{},
	}
}

func catalogPayload(id string, links []map[string]any) map[string]any {
	return map[string]any{
		"type":         "Catalog",
		"stac_version": "1.0.0",
		"id":           id,
		"description":  "job output",
		"links":        links,
	}
}

func TestCatalogGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stac/j1/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, catalogPayload("j1-root", []map[string]any{
			{"rel": "item", "href": "./0"},
		}))
	})

	catalog, err := client.Catalog().Get(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if catalog.Id != "j1-root" {
		t.Fatalf("unexpected catalog: %+v", catalog)
	}
}

func TestCatalogItemsWalksChildrenAndPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stac/j1/":
			writeJSON(t, w, catalogPayload("root", []map[string]any{
				{"rel": "item", "href": "./0"},
				{"rel": "child", "href": "part2/"},
				{"rel": "root", "href": "./"},
			}))
		case "/stac/j1/0":
			writeJSON(t, w, minimalItem("item-0", nil))
		case "/stac/j1/part2/":
			writeJSON(t, w, catalogPayload("part2", []map[string]any{
				{"rel": "item", "href": "./1"},
				{"rel": "next", "href": "../part3/"},
			}))
		case "/stac/j1/part2/1":
			writeJSON(t, w, minimalItem("item-1", nil))
		case "/stac/j1/part3/":
			writeJSON(t, w, catalogPayload("part3", []map[string]any{
				{"rel": "item", "href": "./2"},
				// Cycle back to the root; traversal must not loop.
				{"rel": "child", "href": "../"},
			}))
		case "/stac/j1/part3/2":
			writeJSON(t, w, minimalItem("item-2", nil))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	var ids []string
	for item, err := range client.Catalog().Items(context.Background(), "j1") {
		if err != nil {
			t.Fatalf("iterator error: %v", err)
		}
		ids = append(ids, item.Id)
	}

	want := []string{"item-0", "item-1", "item-2"}
	if len(ids) != len(want) {
		t.Fatalf("unexpected ids: %#v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("unexpected ids: %#v", ids)
		}
	}
}

func TestCatalogItemsEarlyStop(t *testing.T) {
	var itemFetches int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stac/j1/":
			writeJSON(t, w, catalogPayload("root", []map[string]any{
				{"rel": "item", "href": "./0"},
				{"rel": "item", "href": "./1"},
			}))
		default:
			itemFetches++
			writeJSON(t, w, minimalItem("item", nil))
		}
	})

	for _, err := range client.Catalog().Items(context.Background(), "j1") {
		if err != nil {
			t.Fatalf("iterator error: %v", err)
		}
		break
	}
	if itemFetches != 1 {
		t.Fatalf("expected a single item fetch, got %d", itemFetches)
	}
}

func TestAssetURLs(t *testing.T) {
	item := &stac.Item{
		Id: "item-0",
		Assets: map[string]*stac.Asset{
			"data":      {Href: "./granule.nc"},
			"thumbnail": {Href: "https://cdn.example/thumb.png"},
		},
	}

	urls, err := harmonyclient.AssetURLs("https://h.example/stac/j1/0", item)
	if err != nil {
		t.Fatalf("AssetURLs: %v", err)
	}
	want := []string{"https://h.example/stac/j1/granule.nc", "https://cdn.example/thumb.png"}
	if len(urls) != 2 || urls[0] != want[0] || urls[1] != want[1] {
		t.Fatalf("unexpected urls: %#v", urls)
	}
}
