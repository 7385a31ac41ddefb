package store

import (
	"os"

	"github.com/stvlynn/edgeone-dify-plugin/models"
	"gopkg.in/yaml.v3"
)

// SettingsStore reads the credentials the host platform persists for the
// plugin. The store never writes; the settings UI owns the file.
type SettingsStore interface {
	Load() (models.Settings, error)
}

type settingsStore struct {
	path string
}

// NewSettingsStore returns a store backed by the YAML settings file at path.
// An empty path or a missing file yields empty settings rather than an error,
// since the host may not have configured the plugin yet. The environment
// variables EDGEONE_API_TOKEN and EDGEONE_PROJECT_NAME override file values.
func NewSettingsStore(path string) SettingsStore {
	return &settingsStore{
		path: path,
	}
}

func (ss *settingsStore) Load() (models.Settings, error) {
	var settings models.Settings

	if ss.path != "" {
		data, err := os.ReadFile(ss.path)
		if err != nil && !os.IsNotExist(err) {
			return settings, err
		}

		if err == nil {
			if err := yaml.Unmarshal(data, &settings); err != nil {
				return settings, err
			}
		}
	}

	if token := os.Getenv("EDGEONE_API_TOKEN"); token != "" {
		settings.APIToken = token
	}

	if name := os.Getenv("EDGEONE_PROJECT_NAME"); name != "" {
		settings.ProjectName = name
	}

	return settings, nil
}
