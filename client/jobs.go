package harmonyclient

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"time"
)

// JobService provides job lifecycle operations.
type JobService struct {
	client *Client
}

// Get retrieves the current state of a job.
func (s *JobService) Get(ctx context.Context, jobID string, opts ...RequestOption) (*Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	endpoint := fmt.Sprintf("/jobs/%s", url.PathEscape(jobID))
	var job Job
	if err := s.client.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &job, opts); err != nil {
		return nil, err
	}
	return &job, nil
}

// List streams the caller's jobs lazily, following pagination links.
func (s *JobService) List(ctx context.Context, opts ...RequestOption) iter.Seq2[*Job, error] {
	return func(yield func(*Job, error) bool) {
		next := ""
		for {
			var page JobList
			var err error
			if next == "" {
				err = s.client.doJSON(ctx, http.MethodGet, "/jobs", nil, nil, &page, opts)
			} else {
				err = s.client.doJSONURL(ctx, http.MethodGet, next, nil, &page, opts)
			}
			if err != nil {
				yield(nil, err)
				return
			}
			for _, job := range page.Jobs {
				if job == nil {
					continue
				}
				if !yield(job, nil) {
					return
				}
			}
			link := page.NextLink()
			if link == nil || link.Href == "" {
				return
			}
			next = link.Href
		}
	}
}

func (s *JobService) transition(ctx context.Context, jobID, action string, opts []RequestOption) (*Job, error) {
	if jobID == "" {
		return nil, fmt.Errorf("job id is required")
	}
	endpoint := fmt.Sprintf("/jobs/%s/%s", url.PathEscape(jobID), action)
	var job Job
	if err := s.client.doJSON(ctx, http.MethodPost, endpoint, nil, nil, &job, opts); err != nil {
		return nil, err
	}
	return &job, nil
}

// Pause suspends a running job. Paused jobs keep their completed output.
func (s *JobService) Pause(ctx context.Context, jobID string, opts ...RequestOption) (*Job, error) {
	return s.transition(ctx, jobID, "pause", opts)
}

// Resume restarts a paused job.
func (s *JobService) Resume(ctx context.Context, jobID string, opts ...RequestOption) (*Job, error) {
	return s.transition(ctx, jobID, "resume", opts)
}

// Cancel aborts a job. Canceling a terminal job is a server-side error
// surfaced as an APIError.
func (s *JobService) Cancel(ctx context.Context, jobID string, opts ...RequestOption) (*Job, error) {
	return s.transition(ctx, jobID, "cancel", opts)
}

// SkipPreview moves a previewing job straight into its running phase.
func (s *JobService) SkipPreview(ctx context.Context, jobID string, opts ...RequestOption) (*Job, error) {
	return s.transition(ctx, jobID, "skip-preview", opts)
}

// WaitOptions tunes polling in Wait.
type WaitOptions struct {
	// Interval between polls. Defaults to 3 seconds.
	Interval time.Duration
	// Progress, when set, is invoked with each polled job state.
	Progress func(*Job)
}

// Wait polls a job until it reaches a terminal status. It returns the
// final job state. Jobs that end failed or canceled return the final
// state together with ErrJobFailed or ErrJobCanceled; a job finishing
// with per-granule errors still counts as success.
func (s *JobService) Wait(ctx context.Context, jobID string, opts *WaitOptions) (*Job, error) {
	interval := 3 * time.Second
	var progress func(*Job)
	if opts != nil {
		if opts.Interval > 0 {
			interval = opts.Interval
		}
		progress = opts.Progress
	}

	for {
		job, err := s.Get(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			progress(job)
		}
		if job.Status.Terminal() {
			switch job.Status {
			case StatusFailed:
				return job, fmt.Errorf("%w: %s", ErrJobFailed, job.Message)
			case StatusCanceled:
				return job, fmt.Errorf("%w: %s", ErrJobCanceled, job.Message)
			}
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-time.After(interval):
		}
	}
}
