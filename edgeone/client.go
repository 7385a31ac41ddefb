package edgeone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stvlynn/edgeone-dify-plugin/models"
)

// The Pages API is served from two bases depending on where the account
// lives; the right one is found by probing with the configured token.
var apiProbeURLs = []string{
	"https://pages-api.cloud.tencent.com/v1",
	"https://pages-api.edgeone.ai/v1",
}

const (
	probeTimeout   = 10 * time.Second
	requestTimeout = 30 * time.Second
)

// Client calls the EdgeOne Pages API with bearer-token auth. BaseURL is
// resolved lazily on first use when left empty.
type Client struct {
	APIToken   string
	BaseURL    string
	ProbeURLs  []string
	HTTPClient *http.Client
}

func NewClient(apiToken string) *Client {
	return &Client{
		APIToken:  apiToken,
		ProbeURLs: apiProbeURLs,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// ValidateToken checks the configured token by resolving a base URL with it.
func (c *Client) ValidateToken(ctx context.Context) error {
	return c.resolveBaseURL(ctx)
}

func (c *Client) resolveBaseURL(ctx context.Context) error {
	if c.BaseURL != "" {
		return nil
	}

	probe := map[string]any{
		"Action":     "DescribePagesProjects",
		"PageNumber": 1,
		"PageSize":   10,
	}

	for _, base := range c.ProbeURLs {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		resp, err := c.post(probeCtx, base, probe)
		cancel()

		if err != nil || resp.Code != 0 {
			continue
		}

		c.BaseURL = base
		return nil
	}

	return models.ErrInvalidToken
}

func (c *Client) do(ctx context.Context, body map[string]any, out any) error {
	if err := c.resolveBaseURL(ctx); err != nil {
		return err
	}

	resp, err := c.post(ctx, c.BaseURL, body)
	if err != nil {
		return &models.UpstreamError{Message: err.Error()}
	}

	if resp.Code != 0 {
		return &models.UpstreamError{Message: resp.Message}
	}

	if out != nil && len(resp.Data.Response) > 0 {
		if err := json.Unmarshal(resp.Data.Response, out); err != nil {
			return &models.UpstreamError{Message: err.Error()}
		}
	}

	return nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) (*apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DescribeProjects lists projects, optionally filtered by id or name.
func (c *Client) DescribeProjects(ctx context.Context, projectID, projectName string) ([]Project, error) {
	filters := []map[string]any{}
	if projectID != "" {
		filters = append(filters, map[string]any{"Name": "ProjectId", "Values": []string{projectID}})
	}
	if projectName != "" {
		filters = append(filters, map[string]any{"Name": "Name", "Values": []string{projectName}})
	}

	body := map[string]any{
		"Action":  "DescribePagesProjects",
		"Filters": filters,
		"Offset":  0,
		"Limit":   10,
		"OrderBy": "CreatedOn",
	}

	var out struct {
		Projects []Project `json:"Projects"`
	}

	if err := c.do(ctx, body, &out); err != nil {
		return nil, err
	}

	return out.Projects, nil
}

// CreateProject creates an upload-provider project and returns its id.
func (c *Client) CreateProject(ctx context.Context, name string) (string, error) {
	body := map[string]any{
		"Action":   "CreatePagesProject",
		"Name":     name,
		"Provider": "Upload",
		"Channel":  "Custom",
		"Area":     "global",
	}

	var out struct {
		ProjectID string `json:"ProjectId"`
	}

	if err := c.do(ctx, body, &out); err != nil {
		return "", err
	}

	if out.ProjectID == "" {
		return "", &models.UpstreamError{Message: "failed to create project"}
	}

	return out.ProjectID, nil
}

// CosTempToken fetches temporary upload credentials, scoped either to an
// existing project or to a project name that will be created afterwards.
func (c *Client) CosTempToken(ctx context.Context, projectID, projectName string) (*CosTempToken, error) {
	body := map[string]any{
		"Action": "DescribePagesCosTempToken",
	}
	if projectID != "" {
		body["ProjectId"] = projectID
	} else {
		body["ProjectName"] = projectName
	}

	out := &CosTempToken{}
	if err := c.do(ctx, body, out); err != nil {
		return nil, err
	}

	return out, nil
}

// CreateDeployment starts a deployment of the uploaded archive and returns
// the deployment id.
func (c *Client) CreateDeployment(ctx context.Context, projectID, targetPath, environment string) (string, error) {
	body := map[string]any{
		"Action":         "CreatePagesDeployment",
		"ProjectId":      projectID,
		"ViaMeta":        "Upload",
		"Provider":       "Upload",
		"Env":            environment,
		"DistType":       "Zip",
		"TempBucketPath": targetPath,
	}

	var out struct {
		DeploymentID string `json:"DeploymentId"`
	}

	if err := c.do(ctx, body, &out); err != nil {
		return "", err
	}

	if out.DeploymentID == "" {
		return "", &models.UpstreamError{Message: "failed to create deployment"}
	}

	return out.DeploymentID, nil
}

// DescribeDeployments lists the most recent deployments of a project.
func (c *Client) DescribeDeployments(ctx context.Context, projectID string) ([]Deployment, error) {
	body := map[string]any{
		"Action":    "DescribePagesDeployments",
		"ProjectId": projectID,
		"Offset":    0,
		"Limit":     50,
		"OrderBy":   "CreatedOn",
		"Order":     "Desc",
	}

	var out struct {
		Deployments []Deployment `json:"Deployments"`
	}

	if err := c.do(ctx, body, &out); err != nil {
		return nil, err
	}

	return out.Deployments, nil
}

// EncipherToken fetches the access token pair for a preview domain.
func (c *Client) EncipherToken(ctx context.Context, domain string) (*EncipherToken, error) {
	body := map[string]any{
		"Action": "DescribePagesEncipherToken",
		"Text":   domain,
	}

	out := &EncipherToken{}
	if err := c.do(ctx, body, out); err != nil {
		return nil, err
	}

	return out, nil
}
