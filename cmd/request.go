package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/EsriDevEvents/publish-webtool/pkg/models"
)

// addRequestFlags registers the Publish Request flags shared by the publish,
// run and validate commands.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("portal", "P", "", "The url of the portal to publish the web tool to")
	cmd.Flags().StringP("server", "S", "", "The url of the federated server on the portal to host the web tool")
	cmd.Flags().StringP("username", "u", "", "The portal user with administrative or publisher privilege")
	cmd.Flags().StringP("password", "p", "", "The password of the user specified with -u (prompted when omitted)")
	cmd.Flags().String("client-id", "", "OAuth2 application client id (alternative to -u/-p)")
	cmd.Flags().String("client-secret", "", "OAuth2 application client secret")
	cmd.Flags().StringP("service-name", "s", "", "The name of the service to publish the tool as")
	cmd.Flags().String("folder", "", "Server folder to publish the service into")
	cmd.Flags().String("toolbox", "", "Path to the toolbox (.atbx, .tbx or .pyt)")
	cmd.Flags().StringP("tool", "t", "", "Name of the tool in the toolbox")
	cmd.Flags().StringP("inputs", "f", "", "JSON file mapping tool parameter names to the values for the trial run")
	cmd.Flags().String("summary", "", "Summary shown on the service item")
	cmd.Flags().String("tags", "", "Comma separated tags for the service item")
	cmd.Flags().Bool("sync", true, "Publish as a synchronous service (use --sync=false for asynchronous)")
	cmd.Flags().String("reuse-job-dir", "true", "Reuse one job directory on the server instead of allocating one per job")
	cmd.Flags().Bool("no-overwrite", false, "Fail instead of overwriting an existing service with the same name")
}

// buildRequest assembles the immutable Publish Request from flags, falling
// back to the config file values for the connection fields. When interactive
// is set, a missing password is prompted for on the terminal; the validate
// command passes false so the offline check never blocks on input.
func buildRequest(cmd *cobra.Command, interactive bool) (*models.PublishRequest, error) {
	flags := cmd.Flags()
	str := func(name, fallback string) string {
		value, _ := flags.GetString(name)
		if value == "" {
			return fallback
		}
		return value
	}

	req := &models.PublishRequest{
		PortalURL:   str("portal", globalConfig.PortalURL),
		ServerURL:   str("server", globalConfig.ServerURL),
		ServiceName: str("service-name", ""),
		Folder:      str("folder", ""),
		ToolboxPath: str("toolbox", ""),
		ToolName:    str("tool", ""),
		Summary:     str("summary", ""),
		Credentials: models.Credentials{
			Username:     str("username", globalConfig.Username),
			Password:     str("password", globalConfig.Password),
			ClientID:     str("client-id", globalConfig.ClientID),
			ClientSecret: str("client-secret", globalConfig.ClientSecret),
		},
	}

	if tags := str("tags", ""); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				req.Tags = append(req.Tags, tag)
			}
		}
	}

	req.ExecutionMode = models.ExecutionSynchronous
	if sync, _ := flags.GetBool("sync"); !sync {
		req.ExecutionMode = models.ExecutionAsynchronous
	}

	reuse := str("reuse-job-dir", "true")
	reuseJobDir, err := strconv.ParseBool(reuse)
	if err != nil {
		return nil, &models.UsageError{Err: fmt.Errorf("invalid --reuse-job-dir value %q, expected true or false", reuse)}
	}
	req.ReuseJobDir = reuseJobDir

	noOverwrite, _ := flags.GetBool("no-overwrite")
	req.Overwrite = !noOverwrite

	inputsFile := str("inputs", "")
	if inputsFile == "" {
		return nil, &models.UsageError{Err: models.ErrMissingToolInputs}
	}
	inputs, err := models.LoadToolInputs(inputsFile)
	if err != nil {
		return nil, &models.UsageError{Err: fmt.Errorf("tool inputs file: %w", err)}
	}
	req.ToolInputs = inputs

	if interactive && !req.Credentials.OAuth() && req.Credentials.Password == "" {
		req.Credentials.Password = promptPassword(req.Credentials.Username)
	}

	return req, nil
}

// promptPassword asks for the portal password on the terminal. Returns ""
// when stdin is not a terminal; validation rejects the request then.
func promptPassword(username string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ""
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return string(password)
}
