package provider

import (
	"context"
	"time"

	"github.com/EsriDevEvents/publish-webtool/pkg/models"
)

// Session is an authenticated portal identity shared by the tool runner and
// the publisher.
type Session struct {
	PortalURL string
	Username  string
	Token     string
	Expires   time.Time
}

// Message is one entry of the job message log, kept verbatim from the
// execution environment.
type Message struct {
	Type        string
	Description string
}

// History is the execution-history handle returned by a completed tool run.
// The JobID is the opaque identifier the server uses to refer to this run.
type History struct {
	JobID    string
	Elapsed  time.Duration
	Messages []Message
}

// ServiceRef points at a published web tool.
type ServiceRef struct {
	URL    string
	ItemID string
}

type Authenticator interface {
	SignIn(ctx context.Context, portalURL string, creds models.Credentials) (Session, error)
}

type ToolRunner interface {
	// RunTool blocks until the vendor job reaches a terminal state.
	RunTool(ctx context.Context, session Session, req *models.PublishRequest) (History, error)
}

type Publisher interface {
	// PublishHistory registers (or overwrites) a web tool backed by the
	// given execution history.
	PublishHistory(ctx context.Context, session Session, history History, req *models.PublishRequest) (ServiceRef, error)
}
