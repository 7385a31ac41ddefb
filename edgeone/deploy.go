package edgeone

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/stvlynn/edgeone-dify-plugin/models"
)

const (
	defaultPollInterval    = 5 * time.Second
	defaultMaxPollAttempts = 60
)

// Deployer runs the full ZIP deployment flow against EdgeOne Pages: stage
// the archive in COS, resolve or create the target project, start a
// deployment, wait for it to settle, and resolve the public URL.
type Deployer struct {
	Client      *Client
	ProjectName string

	PollInterval    time.Duration
	MaxPollAttempts int

	// COSEndpoint/COSInsecure override the regional COS endpoint, for tests.
	COSEndpoint string
	COSInsecure bool
}

func NewDeployer(apiToken, projectName string) *Deployer {
	return &Deployer{
		Client:          NewClient(apiToken),
		ProjectName:     projectName,
		PollInterval:    defaultPollInterval,
		MaxPollAttempts: defaultMaxPollAttempts,
	}
}

// Deploy uploads the archive and returns the public URL of the deployment.
// A configured project name must already exist; without one a new project
// with a generated name is created. One attempt, no retries.
func (d *Deployer) Deploy(ctx context.Context, filename string, archive io.Reader, size int64, environment string) (string, error) {
	var projectID string

	if d.ProjectName != "" {
		projects, err := d.Client.DescribeProjects(ctx, "", d.ProjectName)
		if err != nil {
			return "", err
		}

		if len(projects) == 0 {
			return "", &models.ProjectNotFoundError{Name: d.ProjectName}
		}

		projectID = projects[0].ProjectID
	}

	tempName := fmt.Sprintf("dify-upload-%s", uuid.NewV4().String()[:8])

	token, err := d.Client.CosTempToken(ctx, projectID, tempName)
	if err != nil {
		return "", err
	}

	key, err := d.uploadArchive(ctx, token, filepath.Base(filename), archive, size)
	if err != nil {
		return "", err
	}

	if projectID == "" {
		projectID, err = d.Client.CreateProject(ctx, tempName)
		if err != nil {
			return "", err
		}
	}

	deploymentID, err := d.Client.CreateDeployment(ctx, projectID, key, environment)
	if err != nil {
		return "", err
	}

	deployment, err := d.awaitDeployment(ctx, projectID, deploymentID)
	if err != nil {
		return "", err
	}

	return d.deploymentURL(ctx, deployment, projectID, environment)
}

func (d *Deployer) awaitDeployment(ctx context.Context, projectID, deploymentID string) (*Deployment, error) {
	for attempt := 0; attempt < d.MaxPollAttempts; attempt++ {
		deployments, err := d.Client.DescribeDeployments(ctx, projectID)
		if err != nil {
			return nil, err
		}

		var found *Deployment
		for i := range deployments {
			if deployments[i].DeploymentID == deploymentID {
				found = &deployments[i]
				break
			}
		}

		if found == nil {
			return nil, &models.UpstreamError{Message: fmt.Sprintf("deployment %s not found", deploymentID)}
		}

		if found.Status != StatusProcessing {
			return found, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.PollInterval):
		}
	}

	return nil, models.ErrDeploymentTimeout
}

func (d *Deployer) deploymentURL(ctx context.Context, deployment *Deployment, projectID, environment string) (string, error) {
	if deployment.Status != StatusSuccess {
		return "", &models.UpstreamError{Message: "deployment finished with status " + deployment.Status}
	}

	projects, err := d.Client.DescribeProjects(ctx, projectID, "")
	if err != nil {
		return "", err
	}

	if len(projects) == 0 {
		return "", &models.UpstreamError{Message: "failed to get project details"}
	}

	project := projects[0]

	// A verified custom domain serves production traffic directly.
	if environment == models.EnvironmentProduction {
		for _, domain := range project.CustomDomains {
			if domain.Status == "Pass" {
				return "https://" + domain.Domain, nil
			}
		}
	}

	domain := strings.TrimPrefix(deployment.PreviewURL, "https://")
	if domain == "" {
		domain = project.PresetDomain
	}

	if domain == "" {
		return "", &models.UpstreamError{Message: "failed to get deployment domain"}
	}

	// Preset and preview domains are gated behind a short-lived access token.
	token, err := d.Client.EncipherToken(ctx, domain)
	if err != nil {
		return "", err
	}

	if token.Token == "" || token.Timestamp.String() == "" {
		return "", &models.UpstreamError{Message: "failed to get access token"}
	}

	return fmt.Sprintf("https://%s?eo_token=%s&eo_time=%s", domain, token.Token, token.Timestamp.String()), nil
}
