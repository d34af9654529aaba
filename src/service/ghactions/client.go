// Package ghactions talks to the GitHub Actions API to trigger the Windows
// extraction workflow and retrieve its runs and artifacts. Full .dax/.bim
// extraction needs Windows tooling, so it is handed off to CI rather than
// run locally.
package ghactions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pbix-insight/src/config"
	"pbix-insight/src/util"
)

// Client provides access to the GitHub Actions API for one repository
type Client struct {
	apiBase      string
	repo         string
	workflowFile string
	token        string
	httpClient   *http.Client
	retryConf    config.RetryConfig
}

// NewClient creates a new workflow client from config
func NewClient(cfg config.GitHubConfig) *Client {
	return &Client{
		apiBase:      cfg.APIBase,
		repo:         cfg.Repo,
		workflowFile: cfg.WorkflowFile,
		token:        cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retryConf: cfg.Retry,
	}
}

// TriggerExtract dispatches the extraction workflow. The workflow only sees
// PBIX files committed to the repository.
func (c *Client) TriggerExtract(ctx context.Context, ref string, runAll bool, pbixPath, modelSerialization string) error {
	util.Debug("Dispatching workflow %s on %s@%s", c.workflowFile, c.repo, ref)

	req := DispatchRequest{
		Ref: ref,
		Inputs: DispatchInputs{
			RunAll:             fmt.Sprintf("%t", runAll),
			PbixPath:           pbixPath,
			ModelSerialization: modelSerialization,
		},
	}

	path := fmt.Sprintf("/repos/%s/actions/workflows/%s/dispatches", c.repo, c.workflowFile)
	return c.do(ctx, http.MethodPost, path, req, nil)
}

// LatestRun returns the most recent run of the extraction workflow, or nil
// when the workflow has never run
func (c *Client) LatestRun(ctx context.Context) (*WorkflowRun, error) {
	path := fmt.Sprintf("/repos/%s/actions/workflows/%s/runs?per_page=1", c.repo, c.workflowFile)

	var resp runsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		util.Error("Fetching workflow runs failed: %v", err)
		return nil, err
	}

	if len(resp.WorkflowRuns) == 0 {
		return nil, nil
	}
	return &resp.WorkflowRuns[0], nil
}

// ArtifactsForRun lists the artifacts uploaded by a workflow run
func (c *Client) ArtifactsForRun(ctx context.Context, runID int64) ([]Artifact, error) {
	path := fmt.Sprintf("/repos/%s/actions/runs/%d/artifacts", c.repo, runID)

	var resp artifactsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		util.Error("Fetching run artifacts failed: %v", err)
		return nil, err
	}

	util.Debug("Run %d has %d artifacts", runID, len(resp.Artifacts))
	return resp.Artifacts, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var lastErr error

	for attempt := 0; attempt <= c.retryConf.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			util.Warn("Retrying request to %s (attempt %d/%d) after %v", path, attempt+1, c.retryConf.MaxAttempts, delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doOnce(ctx, method, path, body, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if !c.shouldRetry(err) {
			break
		}
	}

	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := float64(c.retryConf.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= c.retryConf.BackoffFactor
	}
	if delay > float64(c.retryConf.MaxDelay) {
		delay = float64(c.retryConf.MaxDelay)
	}
	return time.Duration(delay)
}

func (c *Client) shouldRetry(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		for _, code := range c.retryConf.RetryOnStatus {
			if apiErr.StatusCode == code {
				return true
			}
		}
	}
	return false
}

// APIError represents an error response from the GitHub API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Body)
}
