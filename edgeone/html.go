package edgeone

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/stvlynn/edgeone-dify-plugin/models"
)

// The public HTML-deploy endpoint accepts anonymous single-page uploads and
// hands back a shareable edgeone.app URL.
const defaultHTMLDeployEndpoint = "https://mcp.edgeone.app/kv/set"

type HTMLDeployer struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewHTMLDeployer() *HTMLDeployer {
	return &HTMLDeployer{
		Endpoint: defaultHTMLDeployEndpoint,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Deploy publishes the HTML text and returns its public URL.
func (h *HTMLDeployer) Deploy(ctx context.Context, html string) (string, error) {
	payload, err := json.Marshal(map[string]string{"value": html})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return "", &models.UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &models.UpstreamError{Message: resp.Status + ": " + string(body)}
	}

	var out struct {
		URL string `json:"url"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &models.UpstreamError{Message: err.Error()}
	}

	if out.URL == "" {
		return "", &models.UpstreamError{Message: "no deployment URL in response"}
	}

	return out.URL, nil
}
