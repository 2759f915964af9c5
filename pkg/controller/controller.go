package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/EsriDevEvents/publish-webtool/pkg/models"
	"github.com/EsriDevEvents/publish-webtool/pkg/toolbox"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
	"github.com/EsriDevEvents/publish-webtool/provider"
	"github.com/EsriDevEvents/publish-webtool/provider/services"
)

// Controller walks a Publish Request through the pipeline:
// validate → sign in → run tool → publish history. The first error is
// terminal; the publisher is never invoked after a failed run and nothing is
// rolled back after a failed publish.
type Controller struct {
	Auth      provider.Authenticator
	Runner    provider.ToolRunner
	Publisher provider.Publisher
}

func NewController() *Controller {
	return &Controller{
		Auth:      services.NewPortalService(),
		Runner:    services.NewGPServerService(),
		Publisher: services.NewPublisherService(),
	}
}

// Validate performs every offline check: field presence/shape plus local
// toolbox and tool resolution. No network traffic happens here.
func (c *Controller) Validate(req *models.PublishRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return toolbox.Resolve(req.ToolboxPath, req.ToolName)
}

// Run executes the trial run only: validate, sign in, run the tool. Used by
// the run command and as the front half of Publish.
func (c *Controller) Run(ctx context.Context, req *models.PublishRequest) (provider.History, error) {
	history, _, err := c.runPipeline(ctx, req)
	return history, err
}

// Publish drives the full pipeline and returns the published service
// reference.
func (c *Controller) Publish(ctx context.Context, req *models.PublishRequest) (provider.ServiceRef, error) {
	history, session, err := c.runPipeline(ctx, req)
	if err != nil {
		return provider.ServiceRef{}, err
	}

	log := utils.Log.WithField("service", req.ServiceName)
	log.Info("Publishing web tool ", req.ServiceName)
	ref, err := c.Publisher.PublishHistory(ctx, session, history, req)
	if err != nil {
		return provider.ServiceRef{}, &models.PublishError{Service: req.ServiceName, Err: err}
	}

	log.Info("REST Url: ", ref.URL)
	return ref, nil
}

func (c *Controller) runPipeline(ctx context.Context, req *models.PublishRequest) (provider.History, provider.Session, error) {
	log := utils.Log.WithField("invocation", uuid.NewString())

	if err := c.Validate(req); err != nil {
		return provider.History{}, provider.Session{}, err
	}
	log.Debug("Request validated, toolbox ", req.ToolboxPath, " resolved")

	log.Info("Signing into portal ", req.PortalURL)
	session, err := c.Auth.SignIn(ctx, req.PortalURL, req.Credentials)
	if err != nil {
		return provider.History{}, provider.Session{},
			&models.PublishError{Service: req.ServiceName, Err: fmt.Errorf("portal sign-in: %w", err)}
	}

	log.Info("Running tool ", req.ToolName, " from ", req.ToolboxPath)
	history, err := c.Runner.RunTool(ctx, session, req)
	if err != nil {
		return provider.History{}, provider.Session{},
			&models.ToolExecutionError{Tool: req.ToolName, Err: err}
	}

	logJobMessages(log, history)
	log.Info("Tool completed in ", history.Elapsed.Round(time.Second), ", history ", history.JobID)
	return history, session, nil
}

func logJobMessages(log *logrus.Entry, history provider.History) {
	for _, m := range history.Messages {
		log.Debug(m.Type, ": ", m.Description)
	}
}
