package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EsriDevEvents/publish-webtool/pkg/controller"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tool once without publishing (trial run)",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(cmd, true)
		if err != nil {
			return err
		}

		history, err := controller.NewController().Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		for _, m := range history.Messages {
			utils.Log.Info(m.Description)
		}
		fmt.Println(history.JobID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRequestFlags(runCmd)
}
