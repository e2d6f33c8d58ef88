package submit

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	harmonyclient "github.com/earthdata-go/harmony/client"
	"github.com/earthdata-go/harmony/cmd/cmdutil"
	"github.com/earthdata-go/harmony/request"
)

var (
	collection     string
	variables      []string
	bbox           []float64
	start          string
	stop           string
	shapeFile      string
	format         string
	crs            string
	width          int
	height         int
	interpolation  string
	granuleIDs     []string
	granuleNames   []string
	maxResults     int
	concatenate    bool
	skipPreview    bool
	ignoreErrors   bool
	destinationURL string
	labels         []string
	validateOnly   bool
	wait           bool
)

// NewSubmitCmd returns the submit command.
func NewSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a processing request",
		Long: `Build a processing request against a collection and submit it as an
asynchronous job. The job id is printed on success; use "harmony jobs wait"
or --wait to block until processing finishes.`,
		RunE: runSubmit,
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Collection concept id (required)")
	cmd.Flags().StringSliceVar(&variables, "variable", nil, "Variable to subset (repeatable)")
	cmd.Flags().Float64SliceVar(&bbox, "bbox", nil, "Spatial bounding box: west,south,east,north")
	cmd.Flags().StringVar(&start, "start", "", "Temporal range start (RFC 3339)")
	cmd.Flags().StringVar(&stop, "stop", "", "Temporal range stop (RFC 3339)")
	cmd.Flags().StringVar(&shapeFile, "shape", "", "GeoJSON, KML, or zipped shapefile area of interest")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output MIME type, e.g. image/tiff")
	cmd.Flags().StringVar(&crs, "crs", "", "Output coordinate reference system")
	cmd.Flags().IntVar(&width, "width", 0, "Output width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Output height in pixels")
	cmd.Flags().StringVar(&interpolation, "interpolation", "", "Resampling method for reprojection")
	cmd.Flags().StringSliceVar(&granuleIDs, "granule-id", nil, "Granule concept id (repeatable)")
	cmd.Flags().StringSliceVar(&granuleNames, "granule-name", nil, "Granule name pattern (repeatable)")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Maximum number of granules to process")
	cmd.Flags().BoolVar(&concatenate, "concatenate", false, "Merge outputs into a single file")
	cmd.Flags().BoolVar(&skipPreview, "skip-preview", false, "Skip the preview phase")
	cmd.Flags().BoolVar(&ignoreErrors, "ignore-errors", false, "Continue past individual granule failures")
	cmd.Flags().StringVar(&destinationURL, "destination-url", "", "s3:// prefix to write results to")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "Label to attach to the job (repeatable)")
	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "Validate the request without submitting")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the job to finish")
	cmd.MarkFlagRequired("collection")

	return cmd
}

func buildRequest() (*request.Request, error) {
	req := &request.Request{
		Collection:     collection,
		Variables:      variables,
		ShapeFile:      shapeFile,
		Format:         format,
		CRS:            crs,
		Width:          width,
		Height:         height,
		Interpolation:  interpolation,
		GranuleIDs:     granuleIDs,
		GranuleNames:   granuleNames,
		MaxResults:     maxResults,
		Concatenate:    concatenate,
		SkipPreview:    skipPreview,
		IgnoreErrors:   ignoreErrors,
		DestinationURL: destinationURL,
		Labels:         labels,
	}

	if len(bbox) > 0 {
		if len(bbox) != 4 {
			return nil, fmt.Errorf("--bbox needs west,south,east,north")
		}
		req.Spatial = &request.BBox{West: bbox[0], South: bbox[1], East: bbox[2], North: bbox[3]}
	}

	if start != "" || stop != "" {
		temporal := &request.TemporalRange{}
		if start != "" {
			t, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return nil, fmt.Errorf("parsing --start: %w", err)
			}
			temporal.Start = t
		}
		if stop != "" {
			t, err := time.Parse(time.RFC3339, stop)
			if err != nil {
				return nil, fmt.Errorf("parsing --stop: %w", err)
			}
			temporal.Stop = t
		}
		req.Temporal = temporal
	}

	return req, nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	logger := cmdutil.LoggerFromContext(cmd.Context())

	req, err := buildRequest()
	if err != nil {
		return err
	}

	if msgs := req.Validate(); len(msgs) > 0 {
		for _, msg := range msgs {
			logger.Error("Invalid request", "problem", msg)
		}
		return fmt.Errorf("request has %d problem(s)", len(msgs))
	}
	if validateOnly {
		logger.Info("Request is valid")
		return nil
	}

	client, err := cmdutil.NewClient(cmd)
	if err != nil {
		return err
	}

	job, err := client.Submit(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("error submitting request: %w", err)
	}
	logger.Info("Job submitted", "jobID", job.JobID, "status", job.Status)

	if !wait {
		fmt.Println(job.JobID)
		return nil
	}

	lastProgress := -1
	final, err := client.Jobs().Wait(cmd.Context(), job.JobID, &harmonyclient.WaitOptions{
		Progress: func(j *harmonyclient.Job) {
			if j.Progress != lastProgress {
				lastProgress = j.Progress
				logger.Info("Job progress", "status", j.Status, "progress", fmt.Sprintf("%d%%", j.Progress))
			}
		},
	})
	if err != nil {
		return err
	}
	logger.Info("Job finished", "jobID", final.JobID, "status", final.Status)
	fmt.Println(final.JobID)
	return nil
}
