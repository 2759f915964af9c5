package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandArgsPassesPlainArgsThrough(t *testing.T) {
	args := []string{"publish", "--tool", "GetDirections"}

	expanded, err := ExpandArgs(args)
	require.NoError(t, err)
	assert.Equal(t, args, expanded)
}

func TestExpandArgsSubstitutesFileContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args.txt")
	require.NoError(t, os.WriteFile(path, []byte("--tool\nGetDirections\n--sync\n"), 0600))

	expanded, err := ExpandArgs([]string{"publish", "@" + path, "--summary", "demo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"publish", "--tool", "GetDirections", "--sync", "--summary", "demo"}, expanded)
}

// One line is one argument: interior spaces survive expansion.
func TestExpandArgsKeepsSpacesWithinLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args.txt")
	require.NoError(t, os.WriteFile(path, []byte("--summary\nTravel directions sample\n--toolbox\nC:\\My Tools\\tb.atbx\n"), 0600))

	expanded, err := ExpandArgs([]string{"@" + path})
	require.NoError(t, err)
	assert.Equal(t, []string{"--summary", "Travel directions sample", "--toolbox", `C:\My Tools\tb.atbx`}, expanded)
}

func TestExpandArgsHandlesWindowsLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args.txt")
	require.NoError(t, os.WriteFile(path, []byte("--tool\r\nGetDirections\r\n"), 0600))

	expanded, err := ExpandArgs([]string{"@" + path})
	require.NoError(t, err)
	assert.Equal(t, []string{"--tool", "GetDirections"}, expanded)
}

// An @filename line inside an argument file is itself expanded.
func TestExpandArgsExpandsNestedFiles(t *testing.T) {
	dir := t.TempDir()
	inner := filepath.Join(dir, "inner.args")
	require.NoError(t, os.WriteFile(inner, []byte("--tool\nGetDirections\n"), 0600))

	outer := filepath.Join(dir, "outer.args")
	require.NoError(t, os.WriteFile(outer, []byte("--sync\n@"+inner+"\n"), 0600))

	expanded, err := ExpandArgs([]string{"@" + outer})
	require.NoError(t, err)
	assert.Equal(t, []string{"--sync", "--tool", "GetDirections"}, expanded)
}

func TestExpandArgsRejectsSelfReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.args")
	require.NoError(t, os.WriteFile(path, []byte("@"+path+"\n"), 0600))

	_, err := ExpandArgs([]string{"@" + path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested too deeply")
}

func TestExpandArgsRejectsMissingFile(t *testing.T) {
	_, err := ExpandArgs([]string{"@" + filepath.Join(t.TempDir(), "nope.txt")})
	assert.Error(t, err)
}

func TestExpandArgsKeepsBareAtSign(t *testing.T) {
	expanded, err := ExpandArgs([]string{"@"})
	require.NoError(t, err)
	assert.Equal(t, []string{"@"}, expanded)
}

func newRequestCommand() *cobra.Command {
	command := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	command.SetGlobalNormalizationFunc(normalizeFlags)
	addRequestFlags(command)
	return command
}

func requestArgs(t *testing.T) []string {
	t.Helper()

	inputs := filepath.Join(t.TempDir(), "tool_inputs.json")
	require.NoError(t, os.WriteFile(inputs, []byte(`{"travel_mode":"Driving Time"}`), 0600))

	return []string{
		"--portal", "https://gis.example.com/portal",
		"--server", "https://gis.example.com/server",
		"--username", "publisher",
		"--password", "secret",
		"--service-name", "Routing_WebTool",
		"--toolbox", "TravelDirections.atbx",
		"--tool", "GetTravelDirections",
		"--inputs", inputs,
		"--summary", "Travel directions sample",
		"--tags", "routing,webtool",
		"--reuse-job-dir", "true",
	}
}

// An argument file and the equivalent flags typed individually must build
// the same Publish Request: the indirection is a pure substitution.
func TestArgumentFileBuildsIdenticalRequest(t *testing.T) {
	args := requestArgs(t)

	inlineCmd := newRequestCommand()
	require.NoError(t, inlineCmd.ParseFlags(args))
	fromInline, err := buildRequest(inlineCmd, false)
	require.NoError(t, err)

	argFile := filepath.Join(t.TempDir(), "publish.args")
	require.NoError(t, os.WriteFile(argFile, []byte(strings.Join(args, "\n")), 0600))
	expanded, err := ExpandArgs([]string{"@" + argFile})
	require.NoError(t, err)

	fileCmd := newRequestCommand()
	require.NoError(t, fileCmd.ParseFlags(expanded))
	fromFile, err := buildRequest(fileCmd, false)
	require.NoError(t, err)

	assert.Equal(t, fromInline, fromFile)
	assert.Equal(t, "Travel directions sample", fromFile.Summary)
}

func TestBuildRequestParsesFields(t *testing.T) {
	command := newRequestCommand()
	require.NoError(t, command.ParseFlags(requestArgs(t)))

	req, err := buildRequest(command, false)
	require.NoError(t, err)

	assert.Equal(t, "Routing_WebTool", req.ServiceName)
	assert.Equal(t, "GetTravelDirections", req.ToolName)
	assert.Equal(t, []string{"routing", "webtool"}, req.Tags)
	assert.Equal(t, "Driving Time", req.ToolInputs["travel_mode"])
	assert.True(t, req.ReuseJobDir)
	assert.True(t, req.Overwrite)
	assert.Equal(t, "Synchronous", string(req.ExecutionMode))
}

// Without the interactive flag a missing password stays empty so that
// validation reports it instead of the terminal blocking on a prompt.
func TestBuildRequestSkipsPromptWhenNotInteractive(t *testing.T) {
	args := requestArgs(t)
	for i, arg := range args {
		if arg == "--password" {
			args = append(args[:i], args[i+2:]...)
			break
		}
	}

	command := newRequestCommand()
	require.NoError(t, command.ParseFlags(args))

	req, err := buildRequest(command, false)
	require.NoError(t, err)
	assert.Empty(t, req.Credentials.Password)
	assert.Error(t, req.Validate())
}

// Underscore spellings are normalized to the dashed flag names.
func TestUnderscoreFlagSpellingsAccepted(t *testing.T) {
	args := append(requestArgs(t), "--service_name", "Renamed_WebTool", "--reuse_job_dir", "false")

	command := newRequestCommand()
	require.NoError(t, command.ParseFlags(args))

	req, err := buildRequest(command, false)
	require.NoError(t, err)
	assert.Equal(t, "Renamed_WebTool", req.ServiceName)
	assert.False(t, req.ReuseJobDir)
}

func TestBuildRequestRejectsBadReuseJobDir(t *testing.T) {
	args := append(requestArgs(t), "--reuse-job-dir", "maybe")

	command := newRequestCommand()
	require.NoError(t, command.ParseFlags(args))

	_, err := buildRequest(command, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reuse-job-dir")
}

func TestBuildRequestAsyncMode(t *testing.T) {
	args := append(requestArgs(t), "--sync=false")

	command := newRequestCommand()
	require.NoError(t, command.ParseFlags(args))

	req, err := buildRequest(command, false)
	require.NoError(t, err)
	assert.Equal(t, "Asynchronous", string(req.ExecutionMode))
}
