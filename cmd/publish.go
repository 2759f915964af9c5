package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EsriDevEvents/publish-webtool/pkg/controller"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Run the tool once and publish its execution history as a web tool",
	Long: `Runs the named script tool once with the sample inputs, then publishes
the execution history as a geoprocessing service on the federated server.
Re-running with the same service name overwrites the existing service unless
--no-overwrite is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(cmd, true)
		if err != nil {
			return err
		}

		ref, err := controller.NewController().Publish(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Println(ref.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
	addRequestFlags(publishCmd)
}
