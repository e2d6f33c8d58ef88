package harmonyclient

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
)

// Results streams a job's result links lazily, paging through the job
// document's rel="next" links. Results become available incrementally
// while a job is still running; iterating a running job yields whatever
// has been staged so far.
func (s *JobService) Results(ctx context.Context, jobID string, opts ...RequestOption) iter.Seq2[Link, error] {
	return func(yield func(Link, error) bool) {
		if jobID == "" {
			yield(Link{}, fmt.Errorf("job id is required"))
			return
		}
		next := ""
		for {
			var job Job
			var err error
			if next == "" {
				endpoint := fmt.Sprintf("/jobs/%s", url.PathEscape(jobID))
				err = s.client.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &job, opts)
			} else {
				err = s.client.doJSONURL(ctx, http.MethodGet, next, nil, &job, opts)
			}
			if err != nil {
				yield(Link{}, err)
				return
			}
			for _, link := range job.DataLinks() {
				if !yield(link, nil) {
					return
				}
			}
			nextLink := job.NextLink()
			if nextLink == nil || nextLink.Href == "" {
				return
			}
			next = nextLink.Href
		}
	}
}

// ResultURLs collects every result URL for a job.
func (s *JobService) ResultURLs(ctx context.Context, jobID string, opts ...RequestOption) ([]string, error) {
	var urls []string
	for link, err := range s.Results(ctx, jobID, opts...) {
		if err != nil {
			return nil, err
		}
		urls = append(urls, link.Href)
	}
	return urls, nil
}

// StacCatalogURL returns the URL of the STAC catalog the service
// publishes for a job's output.
func (c *Client) StacCatalogURL(jobID string) string {
	u := *c.baseURL
	u.Path = fmt.Sprintf("/stac/%s/", url.PathEscape(jobID))
	return u.String()
}
