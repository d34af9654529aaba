package config

import "time"

// Config is the root configuration structure
type Config struct {
	App        AppConfig        `yaml:"app"`
	GitHub     GitHubConfig     `yaml:"github"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Artifacts  ArtifactsConfig  `yaml:"artifacts"`
	Demo       DemoConfig       `yaml:"demo"`
	Exclusions ExclusionsConfig `yaml:"exclusions"`
	Output     OutputConfig     `yaml:"output"`
	Batch      BatchConfig      `yaml:"batch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AppConfig contains application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// GitHubConfig contains settings for the Windows extraction workflow hand-off
type GitHubConfig struct {
	APIBase      string        `yaml:"api_base"`
	Repo         string        `yaml:"repo"`
	WorkflowFile string        `yaml:"workflow_file"`
	Ref          string        `yaml:"ref"`
	Token        string        `yaml:"token"`
	Timeout      time.Duration `yaml:"timeout"`
	Retry        RetryConfig   `yaml:"retry"`
}

// RetryConfig contains retry settings for API calls
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	RetryOnStatus []int         `yaml:"retry_on_status"`
}

// ScoringConfig holds the complexity heuristic vocabulary. Both lists are
// configuration data, not constants buried in code, so tests and deployments
// can exercise them explicitly.
type ScoringConfig struct {
	ComplexityTokens    []string `yaml:"complexity_tokens"`
	AggregationPrefixes []string `yaml:"aggregation_prefixes"`
}

// ArtifactsConfig contains settings for the .dax/.bim artifact scanner
type ArtifactsConfig struct {
	DaxExtension string `yaml:"dax_extension"`
	BimExtension string `yaml:"bim_extension"`
}

// DemoConfig contains settings for precomputed demo reports
type DemoConfig struct {
	Dir string `yaml:"dir"`
}

// ExclusionsConfig contains exclusion patterns applied during aggregation
// and artifact scanning
type ExclusionsConfig struct {
	RefPatterns  []string `yaml:"ref_patterns"`
	FilePatterns []string `yaml:"file_patterns"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats     []string `yaml:"formats"`
	OutputDir   string   `yaml:"output_dir"`
	TopMeasures int      `yaml:"top_measures"`
	TopSections int      `yaml:"top_sections"`
}

// BatchConfig contains concurrency settings for multi-report analysis
type BatchConfig struct {
	MaxParallelReports int `yaml:"max_parallel_reports"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level"`
	File             string `yaml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp"`
}
