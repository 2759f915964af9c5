package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/EsriDevEvents/publish-webtool/pkg/httpclient"
	"github.com/EsriDevEvents/publish-webtool/pkg/models"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
)

// Exit codes by failing phase.
const (
	ExitUsage   = 1
	ExitTool    = 2
	ExitPublish = 3
)

var cfgFile string
var globalConfig = &models.Config{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "publish-webtool",
	Short: "Run a geoprocessing script tool and publish it as a web tool",
	Long: `publish-webtool runs a script tool from a toolbox once against an
ArcGIS Enterprise federated server and publishes the resulting execution
history as a hosted web tool.

Any argument of the form @filename is replaced by the arguments listed in
that file, one flag or value per line.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	args, err := ExpandArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "usage error:", err)
		os.Exit(ExitUsage)
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps the failing phase onto the process exit status: 1 for usage,
// 2 for a failed tool run, 3 for a failed sign-in or publish.
func ExitCode(err error) int {
	var toolErr *models.ToolExecutionError
	var pubErr *models.PublishError
	switch {
	case errors.As(err, &toolErr):
		return ExitTool
	case errors.As(err, &pubErr):
		return ExitPublish
	}
	return ExitUsage
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetGlobalNormalizationFunc(normalizeFlags)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.publish-webtool/config.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warning, error, fatal")
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
}

// normalizeFlags lets underscore spellings (--service_name, --reuse_job_dir)
// work alongside the dashed flag names.
func normalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		if !utils.FileExists(cfgFile) {
			utils.Log.Fatal("Invalid config file path")
		}
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := utils.GetConfigDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(ExitUsage)
		}
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PUBLISH_WEBTOOL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if err := viper.Unmarshal(globalConfig); err != nil {
			utils.Log.Fatal("Invalid config file: ", err)
		}
	}

	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	if levelString == "info" && globalConfig.LogLevel != "" {
		levelString = globalConfig.LogLevel
	}
	utils.SetLogLevel(levelString)

	proxy, _ := rootCmd.PersistentFlags().GetString("proxy")
	if proxy == "" {
		proxy = globalConfig.Proxy
	}
	httpclient.SetProxy(proxy)
}
