package harmonyclient

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"sort"
	"strings"

	stac "github.com/planetlabs/go-stac"
)

// CatalogService reads the STAC catalogs a job publishes over its
// results. Harmony catalogs are static documents with relative links, so
// traversal resolves every href against the document it came from.
type CatalogService struct {
	client *Client
}

// Get fetches the root catalog for a job.
func (s *CatalogService) Get(ctx context.Context, jobID string, opts ...RequestOption) (*stac.Catalog, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	return s.GetURL(ctx, s.client.StacCatalogURL(jobID), opts...)
}

// GetURL fetches the catalog document at an absolute URL.
func (s *CatalogService) GetURL(ctx context.Context, catalogURL string, opts ...RequestOption) (*stac.Catalog, error) {
	var catalog stac.Catalog
	if err := s.client.doJSONURL(ctx, http.MethodGet, catalogURL, nil, &catalog, opts); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Items streams every item reachable from a job's catalog, walking
// rel="item" links and descending into rel="child" and rel="next"
// catalogs. Each document is visited at most once.
func (s *CatalogService) Items(ctx context.Context, jobID string, opts ...RequestOption) iter.Seq2[*stac.Item, error] {
	return func(yield func(*stac.Item, error) bool) {
		if jobID == "" {
			yield(nil, fmt.Errorf("job id is required"))
			return
		}
		queue := []string{s.client.StacCatalogURL(jobID)}
		visited := make(map[string]bool)

		for len(queue) > 0 {
			catalogURL := queue[0]
			queue = queue[1:]
			if visited[catalogURL] {
				continue
			}
			visited[catalogURL] = true

			catalog, err := s.GetURL(ctx, catalogURL, opts...)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, link := range catalog.Links {
				if link == nil || link.Href == "" {
					continue
				}
				href, err := resolveHref(catalogURL, link.Href)
				if err != nil {
					yield(nil, err)
					return
				}
				switch strings.ToLower(link.Rel) {
				case "item":
					if visited[href] {
						continue
					}
					visited[href] = true
					var item stac.Item
					if err := s.client.doJSONURL(ctx, http.MethodGet, href, nil, &item, opts); err != nil {
						yield(nil, err)
						return
					}
					if !yield(&item, nil) {
						return
					}
				case "child", "next":
					queue = append(queue, href)
				}
			}
		}
	}
}

// AssetURLs returns an item's asset hrefs resolved against the item's
// own URL, ordered by asset key for determinism.
func AssetURLs(itemURL string, item *stac.Item) ([]string, error) {
	if item == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(item.Assets))
	for key := range item.Assets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		asset := item.Assets[key]
		if asset == nil || asset.Href == "" {
			continue
		}
		href, err := resolveHref(itemURL, asset.Href)
		if err != nil {
			return nil, err
		}
		urls = append(urls, href)
	}
	return urls, nil
}

func resolveHref(base, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("harmonyclient: invalid link href %q: %w", href, err)
	}
	if ref.IsAbs() {
		return href, nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("harmonyclient: invalid base url %q: %w", base, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
