package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/EsriDevEvents/publish-webtool/pkg/httpclient"
	"github.com/EsriDevEvents/publish-webtool/pkg/models"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
	"github.com/EsriDevEvents/publish-webtool/provider"
)

// Terminal job states of the server's job model.
const (
	jobSucceeded = "esriJobSucceeded"
	jobFailed    = "esriJobFailed"
	jobCancelled = "esriJobCancelled"
	jobTimedOut  = "esriJobTimedOut"
)

// GPServerService runs a script tool on the federated server's
// geoprocessing endpoint: upload the toolbox, submit a job for the named
// tool, then poll the job until it reaches a terminal state. The returned
// job id is the execution-history handle the publisher consumes.
type GPServerService struct {
	Client       *http.Client
	PollInterval time.Duration
}

func NewGPServerService() *GPServerService {
	return &GPServerService{
		Client:       httpclient.New(),
		PollInterval: 3 * time.Second,
	}
}

func (s *GPServerService) RunTool(ctx context.Context, session provider.Session, req *models.PublishRequest) (provider.History, error) {
	start := time.Now()

	itemID, err := s.uploadToolbox(ctx, session, req)
	if err != nil {
		return provider.History{}, err
	}
	utils.Log.Debug("Toolbox uploaded as item ", itemID)

	jobID, err := s.submitJob(ctx, session, req, itemID)
	if err != nil {
		return provider.History{}, err
	}
	utils.Log.Info("Running tool ", req.ToolName, " (job ", jobID, ")")

	messages, err := s.waitForJob(ctx, session, req, jobID)
	if err != nil {
		return provider.History{}, err
	}

	return provider.History{
		JobID:    jobID,
		Elapsed:  time.Since(start),
		Messages: messages,
	}, nil
}

func (s *GPServerService) gpEndpoint(req *models.PublishRequest) string {
	return baseURL(req.ServerURL) + "/rest/services/System/Geoprocessing/GPServer"
}

// uploadToolbox pushes the toolbox file to the server's uploads endpoint and
// returns the upload item id.
func (s *GPServerService) uploadToolbox(ctx context.Context, session provider.Session, req *models.PublishRequest) (string, error) {
	file, err := os.Open(req.ToolboxPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(req.ToolboxPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.WriteField("f", "json"); err != nil {
		return "", err
	}
	if err := writer.WriteField("token", session.Token); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gpEndpoint(req)+"/uploads/upload", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP status code %d uploading toolbox", resp.StatusCode)
	}
	if err := restError(body); err != nil {
		return "", err
	}

	itemID := gjson.GetBytes(body, "item.itemID").String()
	if itemID == "" {
		return "", errors.New("upload succeeded but no item id was returned")
	}
	return itemID, nil
}

func (s *GPServerService) submitJob(ctx context.Context, session provider.Session, req *models.PublishRequest, itemID string) (string, error) {
	inputs, err := json.Marshal(req.ToolInputs)
	if err != nil {
		return "", err
	}

	form := url.Values{
		"token":   {session.Token},
		"toolbox": {itemID},
		"tool":    {req.ToolName},
		"inputs":  {string(inputs)},
	}

	body, err := call(ctx, s.Client, s.gpEndpoint(req)+"/submitJob", form)
	if err != nil {
		return "", err
	}

	jobID := gjson.GetBytes(body, "jobId").String()
	if jobID == "" {
		return "", errors.New("server did not return a job id")
	}
	return jobID, nil
}

// waitForJob blocks until the job reaches a terminal state. On failure the
// job's error messages are returned verbatim as the error text.
func (s *GPServerService) waitForJob(ctx context.Context, session provider.Session, req *models.PublishRequest, jobID string) ([]provider.Message, error) {
	endpoint := s.gpEndpoint(req) + "/jobs/" + jobID
	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()

	for {
		form := url.Values{"token": {session.Token}}
		body, err := call(ctx, s.Client, endpoint, form)
		if err != nil {
			return nil, err
		}

		status := gjson.GetBytes(body, "jobStatus").String()
		messages := jobMessages(body)

		switch status {
		case jobSucceeded:
			return messages, nil
		case jobFailed, jobCancelled, jobTimedOut:
			return nil, fmt.Errorf("job %s ended with status %s: %s", jobID, status, errorText(messages))
		}
		utils.Log.Debug("Job ", jobID, " status: ", status)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func jobMessages(body []byte) []provider.Message {
	var messages []provider.Message
	for _, m := range gjson.GetBytes(body, "messages").Array() {
		messages = append(messages, provider.Message{
			Type:        m.Get("type").String(),
			Description: m.Get("description").String(),
		})
	}
	return messages
}

// errorText joins the error-severity job messages, falling back to all
// messages when the server tagged none as errors.
func errorText(messages []provider.Message) string {
	var errs, all []string
	for _, m := range messages {
		all = append(all, m.Description)
		if strings.Contains(m.Type, "Error") {
			errs = append(errs, m.Description)
		}
	}
	if len(errs) > 0 {
		return strings.Join(errs, "; ")
	}
	if len(all) > 0 {
		return strings.Join(all, "; ")
	}
	return "no messages returned"
}
