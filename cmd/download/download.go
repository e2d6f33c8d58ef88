package download

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earthdata-go/harmony/cmd/cmdutil"
	"github.com/earthdata-go/harmony/config"
	"github.com/earthdata-go/harmony/pkg/downloader"
)

var (
	destDir string
	workers int
)

// NewDownloadCmd returns the download command.
func NewDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [job-id]",
		Short: "Download all results of a job",
		Long: `Download every result file of a job into a directory. Files are
fetched in parallel on a fixed worker pool; each file is reported as it
finishes.`,
		Args: cobra.ExactArgs(1),
		RunE: runDownload,
	}

	cmd.Flags().StringVarP(&destDir, "dir", "d", ".", "Destination directory")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel downloads (default from config)")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	logger := cmdutil.LoggerFromContext(cmd.Context())

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	poolWorkers := workers
	if poolWorkers <= 0 {
		poolWorkers = cfg.DownloadWorkers
	}

	client, err := cmdutil.NewClient(cmd)
	if err != nil {
		return err
	}

	urls, err := client.Jobs().ResultURLs(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("error listing results: %w", err)
	}
	if len(urls) == 0 {
		logger.Warn("Job has no results to download", "jobID", args[0])
		return nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}

	logger.Info("Downloading results", "jobID", args[0], "files", len(urls), "workers", poolWorkers, "dir", destDir)
	batch := downloader.DownloadAll(cmd.Context(), urls, destDir, poolWorkers,
		downloader.WithHTTPClient(client.HTTPClient()),
		downloader.WithChunkSize(cfg.DownloadChunkSize),
	)

	var failed int
	for _, result := range batch.Results() {
		path, err := result.Wait(cmd.Context())
		if err != nil {
			failed++
			logger.Error("Download failed", "url", result.URL(), "err", err)
			continue
		}
		logger.Info("Downloaded", "file", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(urls))
	}
	logger.Info("All downloads finished", "batch", batch.ID)
	return nil
}
