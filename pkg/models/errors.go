package models

import "errors"

var (
	ErrMissingPortalURL  = errors.New("missing portal url")
	ErrMissingServerURL  = errors.New("missing federated server url")
	ErrMissingUsername   = errors.New("missing portal username")
	ErrMissingPassword   = errors.New("missing portal password")
	ErrMissingService    = errors.New("missing service name")
	ErrMissingToolbox    = errors.New("missing toolbox path")
	ErrMissingTool       = errors.New("missing tool name")
	ErrMissingToolInputs = errors.New("missing tool inputs file")
	ErrInvalidURL        = errors.New("invalid url, must start with http:// or https://")
	ErrInvalidService    = errors.New("invalid service name, only letters, digits and underscores are allowed")
	ErrInvalidToolbox    = errors.New("invalid toolbox, expected a .atbx, .tbx or .pyt file")
	ErrToolNotFound      = errors.New("tool not found in toolbox")
	ErrServiceExists     = errors.New("a service with this name already exists and overwrite is disabled")
)

// UsageError means the request never left the machine: a flag was missing or
// malformed, or the toolbox/tool reference did not resolve.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return "usage error: " + e.Err.Error()
}

func (e *UsageError) Unwrap() error { return e.Err }

// ToolExecutionError wraps a failure reported by the geoprocessing
// environment while running the tool. The vendor message is kept verbatim.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return "tool " + e.Tool + " failed: " + e.Err.Error()
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// PublishError wraps a failure of the sign-in or publish round-trip:
// rejected credentials, a name collision, or an unreachable server.
type PublishError struct {
	Service string
	Err     error
}

func (e *PublishError) Error() string {
	return "publishing " + e.Service + " failed: " + e.Err.Error()
}

func (e *PublishError) Unwrap() error { return e.Err }
