package capabilities

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	harmonyclient "github.com/earthdata-go/harmony/client"
	"github.com/earthdata-go/harmony/cmd/cmdutil"
)

var (
	collectionID string
	shortName    string
)

// NewCapabilitiesCmd returns the capabilities command.
func NewCapabilitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Show what the service can do with a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cmdutil.NewClient(cmd)
			if err != nil {
				return err
			}

			caps, err := client.Capabilities(cmd.Context(), harmonyclient.CapabilitiesParams{
				CollectionID: collectionID,
				ShortName:    shortName,
			})
			if err != nil {
				return fmt.Errorf("error getting capabilities: %w", err)
			}

			format, _ := cmd.Flags().GetString("output")
			if format != "table" {
				return cmdutil.WriteJSON(caps)
			}
			printCapabilities(caps)
			return nil
		},
	}

	cmd.Flags().StringVarP(&collectionID, "collection-id", "c", "", "Collection concept id")
	cmd.Flags().StringVar(&shortName, "short-name", "", "Collection short name")
	cmd.MarkFlagsOneRequired("collection-id", "short-name")
	cmd.MarkFlagsMutuallyExclusive("collection-id", "short-name")

	return cmd
}

func printCapabilities(caps *harmonyclient.Capabilities) {
	fmt.Printf("Collection: %s (%s)\n", caps.ShortName, caps.ConceptID)
	fmt.Printf("Variable subsetting: %t\n", caps.VariableSubset)
	fmt.Printf("Bounding box subsetting: %t\n", caps.BBoxSubset)
	fmt.Printf("Shape subsetting: %t\n", caps.ShapeSubset)
	fmt.Printf("Concatenation: %t\n", caps.Concatenate)
	fmt.Printf("Reprojection: %t\n", caps.Reproject)
	if len(caps.OutputFormats) > 0 {
		fmt.Printf("Output formats: %s\n", strings.Join(caps.OutputFormats, ", "))
	}
	if len(caps.Services) > 0 {
		names := make([]string, len(caps.Services))
		for i, service := range caps.Services {
			names[i] = service.Name
		}
		fmt.Printf("Services: %s\n", strings.Join(names, ", "))
	}
	if len(caps.Variables) > 0 {
		fmt.Printf("Variables: %d\n", len(caps.Variables))
	}
}
