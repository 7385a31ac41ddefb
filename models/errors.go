package models

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential   = errors.New("API token is required for ZIP deployment")
	ErrInvalidFile         = errors.New("Only ZIP files are supported for deployment")
	ErrSizeLimitExceeded   = errors.New("ZIP file exceeds the deployment size limit")
	ErrInvalidToken        = errors.New("Invalid EdgeOne Pages API token")
	ErrDeploymentTimeout   = errors.New("Deployment timeout")
	ErrHTMLContentRequired = errors.New("HTML content is required")
	ErrZipFileRequired     = errors.New("ZIP file is required")
	ErrInvalidEnvironment  = errors.New("invalid environment, must be Production or Preview")
)

// ProjectNotFoundError is returned when a configured project name does not
// match any project on EdgeOne Pages.
type ProjectNotFoundError struct {
	Name string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("Project %s not found", e.Name)
}

// UpstreamError carries a message from the EdgeOne Pages API back to the caller.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "EdgeOne Pages API error: " + e.Message
}
