package controller

import (
	"sort"
	"sync"
	"time"

	"pbix-insight/src/model"
	"pbix-insight/src/util"
)

// AnalyzeBatch analyzes several PBIX files concurrently. Reports are fully
// independent, so the only coordination is a semaphore bounding parallelism
// and a mutex on the result map. Individual failures are logged and skipped;
// the batch returns whatever was recoverable.
func (c *AnalysisController) AnalyzeBatch(requests []AnalyzeRequest) map[string]*model.ReportAnalysis {
	startTime := time.Now()

	maxParallel := c.cfg.Batch.MaxParallelReports
	if maxParallel < 1 {
		maxParallel = 1
	}
	util.Info("Analyzing %d reports (max parallel: %d)", len(requests), maxParallel)

	var (
		results = make(map[string]*model.ReportAnalysis)
		mu      sync.Mutex
		wg      sync.WaitGroup
		sem     = make(chan struct{}, maxParallel)
	)

	for _, req := range requests {
		wg.Add(1)
		go func(req AnalyzeRequest) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			analysis, err := c.Analyze(req)
			if err != nil {
				util.Error("Skipping %s: %v", req.PbixPath, err)
				return
			}

			mu.Lock()
			results[analysis.ReportName] = analysis
			mu.Unlock()
		}(req)
	}

	wg.Wait()
	util.Info("Batch complete: %d/%d reports analyzed (took %v)", len(results), len(requests), time.Since(startTime))
	return results
}

// SortedReportNames returns batch result keys in stable display order
func SortedReportNames(results map[string]*model.ReportAnalysis) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
