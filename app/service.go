package app

import (
	"bytes"
	"context"
	"strings"

	"github.com/stvlynn/edgeone-dify-plugin/models"
)

type DeployService interface {
	DeployHTML(ctx context.Context, htmlContent string) (string, error)
	DeployZip(ctx context.Context, req ZipDeployRequest) (string, error)
	ValidateCredentials(ctx context.Context) error
}

type deployService struct {
	app *Application
}

func NewDeployService(app *Application) DeployService {
	return &deployService{
		app: app,
	}
}

func (svc *deployService) DeployHTML(ctx context.Context, htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", models.ErrHTMLContentRequired
	}

	return svc.app.HTMLDeployer.Deploy(ctx, htmlContent)
}

// DeployZip validates the request and runs a single deployment attempt.
// Validation order: credential, file type, size; nothing goes over the wire
// until all three pass.
func (svc *deployService) DeployZip(ctx context.Context, req ZipDeployRequest) (string, error) {
	settings, err := svc.app.SettingsStore.Load()
	if err != nil {
		return "", err
	}

	if settings.APIToken == "" {
		return "", models.ErrMissingCredential
	}

	if err := validateArchive(req.Filename, req.Content); err != nil {
		return "", err
	}

	environment := req.Environment
	if environment == "" {
		environment = models.EnvironmentProduction
	}

	if !models.ValidEnvironment(environment) {
		return "", models.ErrInvalidEnvironment
	}

	deployer := svc.app.NewDeployer(settings.APIToken, settings.ProjectName)

	return deployer.Deploy(ctx, req.Filename, bytes.NewReader(req.Content), int64(len(req.Content)), environment)
}

func (svc *deployService) ValidateCredentials(ctx context.Context) error {
	settings, err := svc.app.SettingsStore.Load()
	if err != nil {
		return err
	}

	if settings.APIToken == "" {
		return models.ErrMissingCredential
	}

	return svc.app.ValidateToken(ctx, settings.APIToken)
}
