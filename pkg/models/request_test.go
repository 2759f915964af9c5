package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *PublishRequest {
	return &PublishRequest{
		ToolboxPath:   `C:\TravelDirections\TravelDirections.atbx`,
		ToolName:      "GetTravelDirections",
		ServiceName:   "Routing_WebTool",
		PortalURL:     "https://gis.example.com/portal",
		ServerURL:     "https://gis.example.com/server",
		Credentials:   Credentials{Username: "publisher", Password: "secret"},
		ExecutionMode: ExecutionSynchronous,
		ReuseJobDir:   true,
		Overwrite:     true,
	}
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	assert.NoError(t, validRequest().Validate())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PublishRequest)
		want   error
	}{
		{"portal url", func(r *PublishRequest) { r.PortalURL = "" }, ErrMissingPortalURL},
		{"server url", func(r *PublishRequest) { r.ServerURL = "" }, ErrMissingServerURL},
		{"service name", func(r *PublishRequest) { r.ServiceName = "" }, ErrMissingService},
		{"toolbox", func(r *PublishRequest) { r.ToolboxPath = "" }, ErrMissingToolbox},
		{"tool", func(r *PublishRequest) { r.ToolName = "" }, ErrMissingTool},
		{"username", func(r *PublishRequest) { r.Credentials.Username = "" }, ErrMissingUsername},
		{"password", func(r *PublishRequest) { r.Credentials.Password = "" }, ErrMissingPassword},
		{"bad portal url", func(r *PublishRequest) { r.PortalURL = "gis.example.com" }, ErrInvalidURL},
		{"bad scheme", func(r *PublishRequest) { r.ServerURL = "ftp://gis.example.com" }, ErrInvalidURL},
		{"bad service name", func(r *PublishRequest) { r.ServiceName = "Routing WebTool" }, ErrInvalidService},
		{"bad toolbox extension", func(r *PublishRequest) { r.ToolboxPath = "tools.zip" }, ErrInvalidToolbox},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			err := req.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var usageErr *UsageError
			assert.ErrorAs(t, err, &usageErr)
		})
	}
}

func TestValidateAcceptsOAuthWithoutUserPassword(t *testing.T) {
	req := validRequest()
	req.Credentials = Credentials{ClientID: "app", ClientSecret: "shh"}
	assert.NoError(t, req.Validate())
}

func TestLoadToolInputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool_inputs.json")
	content := `{
		"stops": "C:\\TravelDirections\\SampleInput\\SampleInput.gdb\\Stops",
		"travel_mode": "Driving Time",
		"max_routes": 5
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	inputs, err := LoadToolInputs(path)
	require.NoError(t, err)
	assert.Equal(t, "Driving Time", inputs["travel_mode"])
	assert.Equal(t, float64(5), inputs["max_routes"])
}

func TestLoadToolInputsRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool_inputs.json")
	require.NoError(t, os.WriteFile(path, []byte(`["not", "an", "object"]`), 0600))

	_, err := LoadToolInputs(path)
	assert.Error(t, err)
}

func TestErrorTypesUnwrap(t *testing.T) {
	inner := errors.New("boom")

	assert.ErrorIs(t, &UsageError{Err: inner}, inner)
	assert.ErrorIs(t, &ToolExecutionError{Tool: "T", Err: inner}, inner)
	assert.ErrorIs(t, &PublishError{Service: "S", Err: inner}, inner)
}
