package cmd

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/earthdata-go/harmony/cmd/cmdutil"
)

var (
	environment string
	baseURL     string
	token       string
	output      string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "harmony",
	Short: "A CLI for the Harmony data-processing service",
	Long: `A command line interface for the Harmony data-processing service.
Submit processing requests against collections, follow job progress,
download results in parallel, and inspect job output catalogs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := charmlog.InfoLevel
		if verbose {
			level = charmlog.DebugLevel
		}
		ctx := cmdutil.WithLogger(cmd.Context(), cmdutil.NewLogger(os.Stderr, level))
		cmd.SetContext(ctx)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&environment, "environment", "e", "", "Harmony environment (sbx, sit, uat, prod)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "Service base URL, overriding the environment")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Earthdata Login bearer token")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "Output format (json or table)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
