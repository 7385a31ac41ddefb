package app

// HTMLDeployRequest is the body of the deploy-html tool call.
type HTMLDeployRequest struct {
	HTMLContent string `json:"html_content"`
}

// ZipDeployRequest carries the uploaded archive through the deploy service.
type ZipDeployRequest struct {
	Filename    string
	Content     []byte
	Environment string
}

type DeployResponse struct {
	Success     bool   `json:"success"`
	URL         string `json:"url,omitempty"`
	Environment string `json:"environment,omitempty"`
	Type        string `json:"type"`
	Message     string `json:"message,omitempty"`
}
