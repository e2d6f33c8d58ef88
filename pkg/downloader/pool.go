package downloader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// DefaultWorkers is the pool size when the caller does not specify one.
const DefaultWorkers = 3

// Result is the future for one scheduled download. It resolves exactly
// once, when the file has finished or failed.
type Result struct {
	url  string
	path string

	once sync.Once
	done chan struct{}
	err  error
}

// URL returns the source URL.
func (r *Result) URL() string {
	return r.url
}

// Path returns the destination path the file is written to.
func (r *Result) Path() string {
	return r.path
}

// Done returns a channel closed when the download resolves.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the download resolves or ctx ends, and returns the
// local path of the finished file.
func (r *Result) Wait(ctx context.Context) (string, error) {
	select {
	case <-r.done:
		return r.path, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Err returns the download error after the result resolves. Before
// resolution it returns nil; use Wait or Done to synchronize.
func (r *Result) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

func (r *Result) resolve(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
	})
}

// Batch is a set of downloads running on a shared worker pool.
type Batch struct {
	// ID correlates the batch in logs.
	ID      string
	results []*Result
}

// Results returns one future per scheduled URL, in input order.
func (b *Batch) Results() []*Result {
	return b.results
}

// Wait blocks until every download resolves and returns the local paths
// of all successful files. Failures are joined into one error; the
// returned paths still include every file that succeeded.
func (b *Batch) Wait(ctx context.Context) ([]string, error) {
	var paths []string
	var errs []error
	for _, result := range b.results {
		path, err := result.Wait(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", result.URL(), err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

// DownloadAll schedules every URL for download into destDir on a pool of
// workers and returns immediately. Files keep their URL base name;
// duplicate names get a numeric prefix so nothing is overwritten.
// Canceling ctx fails all unfinished downloads with the context error.
func DownloadAll(ctx context.Context, urls []string, destDir string, workers int, opts ...Option) *Batch {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	batch := &Batch{ID: uuid.NewString()}
	seen := make(map[string]int)
	for _, rawURL := range urls {
		result := &Result{url: rawURL, done: make(chan struct{})}
		name, err := Filename(rawURL)
		if err != nil {
			result.resolve(err)
			batch.results = append(batch.results, result)
			continue
		}
		n := seen[name]
		seen[name] = n + 1
		if n > 0 {
			name = fmt.Sprintf("%d-%s", n, name)
		}
		result.path = filepath.Join(destDir, name)
		batch.results = append(batch.results, result)
	}

	queue := make(chan *Result)
	for range workers {
		go func() {
			for result := range queue {
				if err := ctx.Err(); err != nil {
					result.resolve(err)
					continue
				}
				result.resolve(Download(ctx, result.url, result.path, opts...))
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, result := range batch.results {
			select {
			case <-result.done:
				// Already resolved, nothing to schedule.
			case queue <- result:
			case <-ctx.Done():
				result.resolve(ctx.Err())
			}
		}
	}()

	return batch
}
