package app

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stvlynn/edgeone-dify-plugin/edgeone"
	"github.com/stvlynn/edgeone-dify-plugin/models"
	"github.com/stvlynn/edgeone-dify-plugin/store"
)

// Size limits enforced by EdgeOne Pages; checked here so oversized archives
// never leave the plugin.
const (
	maxArchiveSize = 50 << 20
	maxMemberSize  = 25 << 20
)

// ZipDeployer runs one ZIP deployment and returns the public URL.
type ZipDeployer interface {
	Deploy(ctx context.Context, filename string, archive io.Reader, size int64, environment string) (string, error)
}

type Application struct {
	Addr          string
	SettingsStore store.SettingsStore
	HTMLDeployer  *edgeone.HTMLDeployer
	NewDeployer   func(apiToken, projectName string) ZipDeployer
	ValidateToken func(ctx context.Context, apiToken string) error

	DeployService DeployService
}

func NewApplication() (*Application, error) {
	htmlDeployer := edgeone.NewHTMLDeployer()
	if endpoint := os.Getenv("EDGEONE_HTML_DEPLOY_ENDPOINT"); endpoint != "" {
		htmlDeployer.Endpoint = endpoint
	}

	app := &Application{
		Addr:          os.Getenv("ADDR"),
		SettingsStore: store.NewSettingsStore(os.Getenv("SETTINGS_FILE")),
		HTMLDeployer:  htmlDeployer,
		NewDeployer: func(apiToken, projectName string) ZipDeployer {
			return edgeone.NewDeployer(apiToken, projectName)
		},
		ValidateToken: func(ctx context.Context, apiToken string) error {
			return edgeone.NewClient(apiToken).ValidateToken(ctx)
		},
	}

	app.DeployService = NewDeployService(app)

	return app, nil
}

// validateArchive enforces the ZIP invariants before anything is uploaded:
// .zip extension, size limits, readable archive structure.
func validateArchive(filename string, content []byte) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return models.ErrInvalidFile
	}

	if int64(len(content)) > maxArchiveSize {
		return models.ErrSizeLimitExceeded
	}

	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return models.ErrInvalidFile
	}

	for _, member := range reader.File {
		if member.UncompressedSize64 > maxMemberSize {
			return models.ErrSizeLimitExceeded
		}
	}

	return nil
}

func httpError(err error) *echo.HTTPError {
	var projectNotFound *models.ProjectNotFoundError
	var upstream *models.UpstreamError

	switch {
	case errors.Is(err, models.ErrMissingCredential), errors.Is(err, models.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrInvalidFile),
		errors.Is(err, models.ErrHTMLContentRequired),
		errors.Is(err, models.ErrZipFileRequired),
		errors.Is(err, models.ErrInvalidEnvironment):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrSizeLimitExceeded):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &projectNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrDeploymentTimeout):
		return echo.NewHTTPError(http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &upstream):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
