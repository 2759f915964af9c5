package models

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type ExecutionMode string

const (
	ExecutionSynchronous  ExecutionMode = "Synchronous"
	ExecutionAsynchronous ExecutionMode = "Asynchronous"
)

type Credentials struct {
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
}

// OAuth reports whether the credentials are an OAuth2 application pair
// instead of a named portal user.
func (c Credentials) OAuth() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// PublishRequest is the immutable value describing one run→publish
// invocation. It is built once from flags/config and never mutated.
type PublishRequest struct {
	ToolboxPath string
	ToolName    string
	ToolInputs  map[string]interface{}

	ServiceName string
	Folder      string
	Summary     string
	Tags        []string

	PortalURL   string
	ServerURL   string
	Credentials Credentials

	ExecutionMode ExecutionMode
	ReuseJobDir   bool
	Overwrite     bool
}

// Validate checks presence and shape of every required field. It performs no
// network or toolbox I/O; toolbox resolution happens separately so that this
// stays a pure check.
func (r *PublishRequest) Validate() error {
	checks := []struct {
		bad bool
		err error
	}{
		{r.PortalURL == "", ErrMissingPortalURL},
		{r.ServerURL == "", ErrMissingServerURL},
		{r.ServiceName == "", ErrMissingService},
		{r.ToolboxPath == "", ErrMissingToolbox},
		{r.ToolName == "", ErrMissingTool},
	}
	for _, c := range checks {
		if c.bad {
			return &UsageError{Err: c.err}
		}
	}

	if !r.Credentials.OAuth() {
		if r.Credentials.Username == "" {
			return &UsageError{Err: ErrMissingUsername}
		}
		if r.Credentials.Password == "" {
			return &UsageError{Err: ErrMissingPassword}
		}
	}

	for _, raw := range []string{r.PortalURL, r.ServerURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &UsageError{Err: ErrInvalidURL}
		}
	}

	if !validServiceName(r.ServiceName) {
		return &UsageError{Err: ErrInvalidService}
	}

	switch strings.ToLower(filepath.Ext(r.ToolboxPath)) {
	case ".atbx", ".tbx", ".pyt":
	default:
		return &UsageError{Err: ErrInvalidToolbox}
	}

	return nil
}

// validServiceName follows the server naming rule: letters, digits and
// underscores only.
func validServiceName(name string) bool {
	for _, c := range name {
		ok := c == '_' ||
			(c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9')
		if !ok {
			return false
		}
	}
	return len(name) > 0
}

// LoadToolInputs reads the tool_inputs.json file: a flat object mapping each
// tool parameter name to the sample value used for the trial run.
func LoadToolInputs(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	inputs := map[string]interface{}{}
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}
