package ghactions

// DispatchRequest is the workflow_dispatch payload for the extraction workflow
type DispatchRequest struct {
	Ref    string         `json:"ref"`
	Inputs DispatchInputs `json:"inputs"`
}

// DispatchInputs are the inputs the extraction workflow accepts
type DispatchInputs struct {
	RunAll             string `json:"runAll"`
	PbixPath           string `json:"pbixPath"`
	ModelSerialization string `json:"modelSerialization"`
}

// WorkflowRun is one run of the extraction workflow
type WorkflowRun struct {
	ID         int64  `json:"id"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	HTMLURL    string `json:"html_url"`
}

// runsResponse is the workflow runs listing payload
type runsResponse struct {
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// Artifact is one uploaded artifact of a workflow run
type Artifact struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	SizeInBytes        int64  `json:"size_in_bytes"`
	ArchiveDownloadURL string `json:"archive_download_url"`
	Expired            bool   `json:"expired"`
}

// artifactsResponse is the run artifacts listing payload
type artifactsResponse struct {
	TotalCount int        `json:"total_count"`
	Artifacts  []Artifact `json:"artifacts"`
}
