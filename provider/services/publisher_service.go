package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"

	"github.com/EsriDevEvents/publish-webtool/pkg/httpclient"
	"github.com/EsriDevEvents/publish-webtool/pkg/models"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
	"github.com/EsriDevEvents/publish-webtool/provider"
)

// maximumRecords matches the vendor default applied when sharing a web tool.
const maximumRecords = 1000

// PublisherService registers a geoprocessing service backed by an execution
// history on the federated server's admin endpoint, then pushes the item
// metadata (summary, tags) to the portal.
//
// Only the createService round-trip is retried, and only on transport errors
// and 5xx responses. Vendor errors delivered inside a 200 body (auth, name
// collision) are permanent and surface immediately.
type PublisherService struct {
	Client     *http.Client
	MaxRetries uint64
}

func NewPublisherService() *PublisherService {
	return &PublisherService{
		Client:     httpclient.New(),
		MaxRetries: 2,
	}
}

func (p *PublisherService) PublishHistory(ctx context.Context, session provider.Session, history provider.History, req *models.PublishRequest) (provider.ServiceRef, error) {
	itemID, err := p.createService(ctx, session, history, req)
	if err != nil {
		return provider.ServiceRef{}, err
	}

	if err := p.updateItem(ctx, session, itemID, req); err != nil {
		return provider.ServiceRef{}, err
	}

	return provider.ServiceRef{
		URL:    serviceURL(req),
		ItemID: itemID,
	}, nil
}

func (p *PublisherService) createService(ctx context.Context, session provider.Session, history provider.History, req *models.PublishRequest) (string, error) {
	definition, err := serviceDefinition(history, req)
	if err != nil {
		return "", err
	}

	endpoint := baseURL(req.ServerURL) + "/admin/services/createService"
	form := url.Values{
		"token":     {session.Token},
		"service":   {definition},
		"overwrite": {strconv.FormatBool(req.Overwrite)},
	}

	operation := func() ([]byte, error) {
		body, status, err := postForm(ctx, p.Client, endpoint, form)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusInternalServerError {
			return nil, fmt.Errorf("HTTP status code %d from %s", status, endpoint)
		}
		if status != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("HTTP status code %d from %s", status, endpoint))
		}
		if apiErr := restError(body); apiErr != nil {
			if strings.Contains(apiErr.Error(), "already exists") {
				apiErr = fmt.Errorf("%w: %v", models.ErrServiceExists, apiErr)
			}
			return nil, backoff.Permanent(apiErr)
		}
		return body, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.MaxRetries), ctx)
	body, err := backoff.RetryNotifyWithData(operation, policy, func(err error, next time.Duration) {
		utils.Log.Warn("Publish attempt failed, retrying in ", next.Round(time.Second), ": ", err)
	})
	if err != nil {
		return "", err
	}

	itemID := gjson.GetBytes(body, "itemId").String()
	if itemID == "" {
		return "", errors.New("publish succeeded but no item id was returned")
	}
	return itemID, nil
}

// serviceDefinition builds the createService payload. The reusejobdir
// provider property is what makes synchronous services fast: the server
// keeps one working directory instead of allocating one per job.
func serviceDefinition(history provider.History, req *models.PublishRequest) (string, error) {
	definition := map[string]interface{}{
		"serviceName":  req.ServiceName,
		"type":         "GPServer",
		"description":  req.Summary,
		"capabilities": "Execute",
		"properties": map[string]string{
			"jobId":          history.JobID,
			"executionType":  executionType(req.ExecutionMode),
			"reusejobdir":    strconv.FormatBool(req.ReuseJobDir),
			"maximumRecords": strconv.Itoa(maximumRecords),
		},
	}
	if req.Folder != "" {
		definition["folderName"] = req.Folder
	}

	payload, err := json.Marshal(definition)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func executionType(mode models.ExecutionMode) string {
	if mode == models.ExecutionAsynchronous {
		return "esriExecutionTypeAsynchronous"
	}
	return "esriExecutionTypeSynchronous"
}

// updateItem sets summary and tags on the portal item backing the service.
func (p *PublisherService) updateItem(ctx context.Context, session provider.Session, itemID string, req *models.PublishRequest) error {
	if req.Summary == "" && len(req.Tags) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/sharing/rest/content/users/%s/items/%s/update",
		baseURL(session.PortalURL), session.Username, itemID)

	form := url.Values{
		"token":   {session.Token},
		"snippet": {req.Summary},
		"tags":    {strings.Join(req.Tags, ",")},
	}

	_, err := call(ctx, p.Client, endpoint, form)
	return err
}

func serviceURL(req *models.PublishRequest) string {
	parts := []string{baseURL(req.ServerURL), "rest", "services"}
	if req.Folder != "" {
		parts = append(parts, req.Folder)
	}
	parts = append(parts, req.ServiceName, "GPServer", req.ToolName)
	return strings.Join(parts, "/")
}
