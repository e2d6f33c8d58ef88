package cmd

import (
	"github.com/earthdata-go/harmony/cmd/capabilities"
	"github.com/earthdata-go/harmony/cmd/download"
	"github.com/earthdata-go/harmony/cmd/jobs"
	"github.com/earthdata-go/harmony/cmd/submit"
)

func init() {
	rootCmd.AddCommand(jobs.NewJobsCmd())
	rootCmd.AddCommand(submit.NewSubmitCmd())
	rootCmd.AddCommand(download.NewDownloadCmd())
	rootCmd.AddCommand(capabilities.NewCapabilitiesCmd())
	rootCmd.AddCommand(newAuthCmd())
}
