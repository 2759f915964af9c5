package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/EsriDevEvents/publish-webtool/pkg/models"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "publish-webtool config setup",
	Long:  "publish-webtool config setup",
}

var configInit = &cobra.Command{
	Use:   "init",
	Short: "Write a sample config file",
	Long:  "Write a sample config file to the publish-webtool config folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		configDir, err := utils.GetConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return err
		}

		configPath := filepath.Join(configDir, "config.yaml")
		if utils.FileExists(configPath) && !overwrite {
			utils.Log.Fatal("Config file already exists, if you want to overwrite it use the --overwrite flag")
		}

		sample := models.Config{
			PortalURL: "https://gis.example.com/portal",
			ServerURL: "https://gis.example.com/server",
			Username:  "publisher",
			LogLevel:  "info",
		}
		data, err := yaml.Marshal(sample)
		if err != nil {
			return err
		}
		if err := utils.StringToFile(configPath, string(data)); err != nil {
			return err
		}

		utils.Log.Info("Config written to ", configPath)
		return nil
	},
}

var configGet = &cobra.Command{
	Use:   "get",
	Short: "Get data from the config file",
	Long:  "Get data from the config file",
	Run: func(cmd *cobra.Command, args []string) {
		fieldFlag, _ := cmd.Flags().GetString("field")

		if strings.Contains(fieldFlag, ",") {
			fields := strings.Split(fieldFlag, ",")
			for _, singleField := range fields {
				fmt.Println("-", singleField, ":", viper.Get(singleField))
			}
		} else {
			fmt.Println("-", fieldFlag, ":", viper.Get(fieldFlag))
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInit)
	configCmd.AddCommand(configGet)

	configInit.Flags().BoolP("overwrite", "o", false, "If the config file exists overwrite it")
	configGet.Flags().StringP("field", "f", "", "field to retrieve, comma separated")
}
