package edgeone

import "encoding/json"

// Every Pages API call is a POST of an Action body to the base URL and
// answers with this envelope; Code != 0 means the action failed.
type apiResponse struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
	Data    struct {
		Response json.RawMessage `json:"Response"`
	} `json:"Data"`
}

type Project struct {
	ProjectID     string         `json:"ProjectId"`
	Name          string         `json:"Name"`
	PresetDomain  string         `json:"PresetDomain"`
	CustomDomains []CustomDomain `json:"CustomDomains"`
}

type CustomDomain struct {
	Domain string `json:"Domain"`
	Status string `json:"Status"`
}

type Deployment struct {
	DeploymentID string `json:"DeploymentId"`
	Status       string `json:"Status"`
	PreviewURL   string `json:"PreviewUrl"`
}

// Deployment status values reported by DescribePagesDeployments.
const (
	StatusProcessing = "Process"
	StatusSuccess    = "Success"
)

// CosTempToken holds the temporary object-storage credentials handed out by
// DescribePagesCosTempToken for uploading one archive.
type CosTempToken struct {
	Bucket      string `json:"Bucket"`
	Region      string `json:"Region"`
	TargetPath  string `json:"TargetPath"`
	Credentials struct {
		TmpSecretID  string `json:"TmpSecretId"`
		TmpSecretKey string `json:"TmpSecretKey"`
		Token        string `json:"Token"`
	} `json:"Credentials"`
}

// EncipherToken grants temporary access to a freshly deployed preview domain.
type EncipherToken struct {
	Token     string      `json:"Token"`
	Timestamp json.Number `json:"Timestamp"`
}
