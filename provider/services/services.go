// Package services contains the REST-backed implementations of the three
// vendor collaborators: portal authentication, geoprocessing job execution
// and service publishing. All responses are ArcGIS-style JSON; errors can
// arrive either as non-200 statuses or as an "error" object inside a 200
// body, and both are surfaced verbatim.
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// postForm sends a form-encoded POST and returns the raw body and status.
// Callers decide how to treat non-200 statuses; restError handles the
// error-in-200 convention.
func postForm(ctx context.Context, client *http.Client, endpoint string, form url.Values) ([]byte, int, error) {
	form.Set("f", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// call is postForm plus the common checks: the status must be 200 and the
// body must not carry a vendor error object.
func call(ctx context.Context, client *http.Client, endpoint string, form url.Values) ([]byte, error) {
	body, status, err := postForm(ctx, client, endpoint, form)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("HTTP status code %d from %s", status, endpoint)
	}
	if err := restError(body); err != nil {
		return nil, err
	}
	return body, nil
}

// restError decodes the vendor convention of returning errors inside a 200
// response: {"error": {"code": ..., "message": ..., "details": [...]}}.
func restError(body []byte) error {
	errObj := gjson.GetBytes(body, "error")
	if !errObj.Exists() {
		return nil
	}

	msg := errObj.Get("message").String()
	if details := errObj.Get("details").Array(); len(details) > 0 {
		parts := make([]string, 0, len(details))
		for _, d := range details {
			parts = append(parts, d.String())
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return fmt.Errorf("error %d: %s", errObj.Get("code").Int(), msg)
}

func baseURL(raw string) string {
	return strings.TrimRight(raw, "/")
}
