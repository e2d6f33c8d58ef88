// Package downloader fetches job results to local files.
//
// Single downloads handle http(s) and s3 URLs with progress reporting.
// DownloadAll schedules a whole result set on a fixed worker pool and
// hands back one future per file; each future blocks independently, so
// callers can process results as they land.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultChunkSize is the copy buffer size. Larger chunks help on
// server-class links.
const DefaultChunkSize = 4 * 1024 * 1024

// ProgressFunc receives running byte counts during a download. total is
// -1 when the source does not report a length.
type ProgressFunc func(downloaded, total int64)

// Option adjusts download behavior.
type Option func(*settings)

type settings struct {
	chunkSize  int64
	httpClient *http.Client
	s3Client   *s3.Client
	progress   ProgressFunc
}

func newSettings(opts []Option) settings {
	s := settings{chunkSize: DefaultChunkSize, httpClient: http.DefaultClient}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.chunkSize <= 0 {
		s.chunkSize = DefaultChunkSize
	}
	if s.httpClient == nil {
		s.httpClient = http.DefaultClient
	}
	return s
}

// WithChunkSize sets the copy buffer size in bytes.
func WithChunkSize(size int64) Option {
	return func(s *settings) {
		s.chunkSize = size
	}
}

// WithHTTPClient sets the client used for http(s) URLs. Authenticated
// result links need the same credentialed client the API calls use.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

// WithS3Client sets the client used for s3 URLs, typically built from
// the service's cloud-access credentials.
func WithS3Client(client *s3.Client) Option {
	return func(s *settings) {
		s.s3Client = client
	}
}

// WithProgress registers a progress callback.
func WithProgress(progress ProgressFunc) Option {
	return func(s *settings) {
		s.progress = progress
	}
}

// Download fetches a single URL to destPath.
func Download(ctx context.Context, rawURL, destPath string, opts ...Option) error {
	cfg := newSettings(opts)

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse result URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return downloadHTTP(ctx, cfg, rawURL, destPath)
	case "s3":
		return downloadS3(ctx, cfg, u, destPath)
	default:
		return fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}
}

// Filename derives a local file name from a result URL.
func Filename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse result URL: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("result URL has no file name: %s", rawURL)
	}
	return name, nil
}

func downloadHTTP(ctx context.Context, cfg settings, rawURL, destPath string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	resp, err := cfg.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download result: unexpected status code %d", resp.StatusCode)
	}

	return writeFile(ctx, cfg, resp.Body, resp.ContentLength, destPath)
}

func downloadS3(ctx context.Context, cfg settings, u *url.URL, destPath string) (err error) {
	client := cfg.s3Client
	if client == nil {
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to download from S3: %w", err)
	}
	defer result.Body.Close()

	total := int64(-1)
	if result.ContentLength != nil {
		total = *result.ContentLength
	}
	return writeFile(ctx, cfg, result.Body, total, destPath)
}

func writeFile(ctx context.Context, cfg settings, src io.Reader, total int64, destPath string) (err error) {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		out.Close()
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	if cfg.progress != nil {
		cfg.progress(0, total)
	}

	if _, err = copyWithProgress(ctx, out, src, total, cfg.chunkSize, cfg.progress); err != nil {
		return fmt.Errorf("failed to write result to file: %w", err)
	}
	return nil
}

func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total, chunkSize int64, progress ProgressFunc) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64

	for {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return written, err
			}
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			w, writeErr := dst.Write(buf[:n])
			if writeErr != nil {
				return written, writeErr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
			written += int64(w)
			if progress != nil {
				progress(written, total)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return written, nil
			}
			return written, readErr
		}
	}
}
