package config

import "time"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "pbix-insight",
			Version:     "1.0.0",
			Description: "PBIX report logic analyzer",
		},
		GitHub: GitHubConfig{
			APIBase:      "https://api.github.com",
			Repo:         "pbi-tools/pbi-tools",
			WorkflowFile: "extract-pbix-model.yml",
			Ref:          "main",
			Token:        "",
			Timeout:      30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:   3,
				BackoffFactor: 1.5,
				InitialDelay:  100 * time.Millisecond,
				MaxDelay:      5 * time.Second,
				RetryOnStatus: []int{502, 503, 504},
			},
		},
		Scoring: ScoringConfig{
			ComplexityTokens: []string{
				"calc", "budget", "mtd", "ytd", "qtd", "%",
				"index", "ly", "last year", "variance",
				"growth", "ratio", "margin",
			},
			AggregationPrefixes: []string{
				"sum(", "min(", "max(", "average(", "count(", "distinctcount(",
			},
		},
		Artifacts: ArtifactsConfig{
			DaxExtension: ".dax",
			BimExtension: ".bim",
		},
		Demo: DemoConfig{
			Dir: "out/powerbi-examples-all/report-query-logic",
		},
		Exclusions: ExclusionsConfig{},
		Output: OutputConfig{
			Formats:     []string{"json"},
			OutputDir:   ".",
			TopMeasures: 25,
			TopSections: 20,
		},
		Batch: BatchConfig{
			MaxParallelReports: 4,
		},
		Logging: LoggingConfig{
			Level:            "info",
			IncludeTimestamp: true,
		},
	}
}
