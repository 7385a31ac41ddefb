package models

// Settings holds the plugin configuration persisted by the host platform.
// Handlers treat it as read-only; a fresh snapshot is loaded per invocation.
type Settings struct {
	APIToken    string `yaml:"api_token"`
	ProjectName string `yaml:"project_name"`
}

const (
	EnvironmentProduction = "Production"
	EnvironmentPreview    = "Preview"
)

// ValidEnvironment reports whether s names a deployable environment tier.
func ValidEnvironment(s string) bool {
	return s == EnvironmentProduction || s == EnvironmentPreview
}
