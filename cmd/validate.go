package cmd

import (
	"github.com/spf13/cobra"

	"github.com/EsriDevEvents/publish-webtool/pkg/controller"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a publish request offline, without touching the network",
	Long: `Checks flag presence, url shapes, the tool inputs file and that the
toolbox resolves to the named tool. Exits zero when the request would be
accepted by the publish command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(cmd, false)
		if err != nil {
			return err
		}

		if err := controller.NewController().Validate(req); err != nil {
			return err
		}

		utils.Log.Info("Request is valid: tool ", req.ToolName, " resolved in ", req.ToolboxPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addRequestFlags(validateCmd)
}
