package jobs

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	harmonyclient "github.com/earthdata-go/harmony/client"
	"github.com/earthdata-go/harmony/cmd/cmdutil"
)

var (
	limit    int
	interval time.Duration
)

// NewJobsCmd returns the jobs command.
func NewJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and control processing jobs",
		Long:  `List jobs, show a job's status, wait for completion, and pause, resume, or cancel processing.`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newWaitCmd())
	cmd.AddCommand(newResultsCmd())
	cmd.AddCommand(newTransitionCmd("pause", "Pause a running job",
		func(c *harmonyclient.Client) transitionFunc { return c.Jobs().Pause }))
	cmd.AddCommand(newTransitionCmd("resume", "Resume a paused job",
		func(c *harmonyclient.Client) transitionFunc { return c.Jobs().Resume }))
	cmd.AddCommand(newTransitionCmd("cancel", "Cancel a job",
		func(c *harmonyclient.Client) transitionFunc { return c.Jobs().Cancel }))
	cmd.AddCommand(newTransitionCmd("skip-preview", "Skip a job's preview phase",
		func(c *harmonyclient.Client) transitionFunc { return c.Jobs().SkipPreview }))

	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.NewClient(cmd)
			if err != nil {
				return err
			}

			var jobs []*harmonyclient.Job
			for job, err := range client.Jobs().List(cmd.Context()) {
				if err != nil {
					return fmt.Errorf("error listing jobs: %w", err)
				}
				jobs = append(jobs, job)
				if limit > 0 && len(jobs) >= limit {
					break
				}
			}

			return outputJobs(cmd, jobs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many jobs (0 for all)")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show a job's current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.NewClient(cmd)
			if err != nil {
				return err
			}
			job, err := client.Jobs().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error getting job: %w", err)
			}
			return outputJob(cmd, job)
		},
	}
}

func newWaitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait [job-id]",
		Short: "Block until a job reaches a terminal state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.NewClient(cmd)
			if err != nil {
				return err
			}
			logger := cmdutil.LoggerFromContext(cmd.Context())

			lastProgress := -1
			job, err := client.Jobs().Wait(cmd.Context(), args[0], &harmonyclient.WaitOptions{
				Interval: interval,
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
			return outputJob(cmd, job)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 3*time.Second, "Polling interval")
	return cmd
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results [job-id]",
		Short: "List a job's result URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.NewClient(cmd)
			if err != nil {
				return err
			}
			urls, err := client.Jobs().ResultURLs(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error listing results: %w", err)
			}
			for _, url := range urls {
				fmt.Println(url)
			}
			return nil
		},
	}
}

type transitionFunc func(ctx context.Context, jobID string, opts ...harmonyclient.RequestOption) (*harmonyclient.Job, error)

func newTransitionCmd(name, short string, pick func(*harmonyclient.Client) transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [job-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.NewClient(cmd)
			if err != nil {
				return err
			}
			job, err := pick(client)(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error on %s: %w", name, err)
			}
			return outputJob(cmd, job)
		},
	}
}

func outputJobs(cmd *cobra.Command, jobs []*harmonyclient.Job) error {
	format, _ := cmd.Flags().GetString("output")
	if format != "table" {
		return cmdutil.WriteJSON(jobs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB ID\tSTATUS\tPROGRESS\tCREATED\tMESSAGE")
	for _, job := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\n",
			job.JobID, job.Status, job.Progress,
			job.CreatedAt.Format(time.RFC3339), truncate(job.Message, 60))
	}
	return w.Flush()
}

func outputJob(cmd *cobra.Command, job *harmonyclient.Job) error {
	format, _ := cmd.Flags().GetString("output")
	if format != "table" {
		return cmdutil.WriteJSON(job)
	}

	fmt.Printf("Job ID: %s\n", job.JobID)
	fmt.Printf("Status: %s\n", job.Status)
	fmt.Printf("Progress: %d%%\n", job.Progress)
	fmt.Printf("Created: %s\n", job.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated: %s\n", job.UpdatedAt.Format(time.RFC3339))
	if job.Message != "" {
		fmt.Printf("Message: %s\n", job.Message)
	}
	if job.NumInputGranules > 0 {
		fmt.Printf("Input granules: %d\n", job.NumInputGranules)
	}
	if len(job.Labels) > 0 {
		fmt.Printf("Labels: %s\n", strings.Join(job.Labels, ", "))
	}
	if data := job.DataLinks(); len(data) > 0 {
		fmt.Printf("Results: %d\n", len(data))
	}
	return nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
