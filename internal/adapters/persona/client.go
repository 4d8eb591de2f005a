// Package persona fetches role and permission attributes from the persona
// service for a given user identifier.
package persona

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/pennmutual/chatquote-ui-api/internal/errors"
	"github.com/pennmutual/chatquote-ui-api/internal/ports"
)

// userIDPlaceholder is substituted with the user identifier in the URL template.
const userIDPlaceholder = "{{USERID}}"

// Client implements ports.PersonaClient over HTTP.
type Client struct {
	urlTemplate string
	httpClient  *http.Client
}

var _ ports.PersonaClient = (*Client)(nil)

// NewClient creates a persona client from a URL template containing a
// {{USERID}} placeholder.
func NewClient(urlTemplate string, httpClient *http.Client) (*Client, error) {
	if !strings.Contains(urlTemplate, userIDPlaceholder) {
		return nil, fmt.Errorf("persona URL template must contain %s", userIDPlaceholder)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{urlTemplate: urlTemplate, httpClient: httpClient}, nil
}

// Fetch retrieves the persona attributes for a user. The _request and
// backends fields carry persona-service internals and are stripped before
// the payload is merged into a profile.
func (c *Client) Fetch(ctx context.Context, userID string) (map[string]any, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	url := strings.ReplaceAll(c.urlTemplate, userIDPlaceholder, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build persona request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Upstream(err, "persona request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.Upstreamf(nil, "persona service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Upstream(err, "read persona response")
	}

	attrs := map[string]any{}
	if unmarshalErr := json.Unmarshal(body, &attrs); unmarshalErr != nil {
		return nil, apperrors.Upstream(unmarshalErr, "decode persona response")
	}

	delete(attrs, "_request")
	delete(attrs, "backends")
	return attrs, nil
}
