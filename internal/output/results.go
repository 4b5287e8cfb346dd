package output

import (
	"time"
)

// CaseResult records the outcome of a single case within a suite file.
// Failures holds the human readable messages produced by the checks, in
// document order; an empty slice means the case passed.
type CaseResult struct {
	Name     string
	Failures []string
}

// FileResult records the outcome of executing one suite file.
type FileResult struct {
	Filename    string
	CaseCount   int
	Duration    time.Duration
	Error       error
	CaseResults []CaseResult
}

// Failed reports whether the file hit an execution error or any check failure.
func (r FileResult) Failed() bool {
	if r.Error != nil {
		return true
	}
	for _, caseResult := range r.CaseResults {
		if len(caseResult.Failures) > 0 {
			return true
		}
	}
	return false
}

// FailureCount returns the number of individual check failures in the file.
func (r FileResult) FailureCount() int {
	var count int
	for _, caseResult := range r.CaseResults {
		count += len(caseResult.Failures)
	}
	return count
}

// Summary aggregates the results of one run over a set of suite files.
type Summary struct {
	FileResults    []FileResult
	ExecutedFiles  int
	ExecutedCases  int
	SucceededFiles int
	FailedFiles    int
	TotalDuration  time.Duration
}

func NewSummary(expectedFiles int) *Summary {
	return &Summary{
		FileResults: make([]FileResult, 0, expectedFiles),
	}
}

// Add appends a file result and updates the aggregate counters.
func (s *Summary) Add(result FileResult) {
	s.FileResults = append(s.FileResults, result)
	s.ExecutedFiles++
	s.ExecutedCases += result.CaseCount

	if result.Failed() {
		s.FailedFiles++
	} else {
		s.SucceededFiles++
	}
}

func (s *Summary) SetTotalDuration(duration time.Duration) {
	s.TotalDuration = duration
}

func (s *Summary) CasesPerSecond() float64 {
	if s.TotalDuration == 0 {
		return 0
	}
	return float64(s.ExecutedCases) / s.TotalDuration.Seconds()
}

func (s *Summary) SuccessPercentage() float64 {
	if s.ExecutedFiles == 0 {
		return 0
	}
	return (float64(s.SucceededFiles) / float64(s.ExecutedFiles)) * 100
}

func (s *Summary) FailurePercentage() float64 {
	if s.ExecutedFiles == 0 {
		return 0
	}
	return (float64(s.FailedFiles) / float64(s.ExecutedFiles)) * 100
}

// AggregatedStats holds totals across repeated iterations of the same run.
type AggregatedStats struct {
	TotalExecutedFiles   int
	TotalExecutedCases   int
	TotalSucceededFiles  int
	TotalFailedFiles     int
	TotalDuration        time.Duration
	SuccessfulIterations int
	IterationCount       int
}

// CalculateAggregatedStats computes totals across all iteration summaries.
func CalculateAggregatedStats(summaries []*Summary) AggregatedStats {
	stats := AggregatedStats{
		IterationCount: len(summaries),
	}

	for _, summary := range summaries {
		stats.TotalExecutedFiles += summary.ExecutedFiles
		stats.TotalExecutedCases += summary.ExecutedCases
		stats.TotalSucceededFiles += summary.SucceededFiles
		stats.TotalFailedFiles += summary.FailedFiles
		stats.TotalDuration += summary.TotalDuration

		if summary.FailedFiles == 0 {
			stats.SuccessfulIterations++
		}
	}

	return stats
}

func (a AggregatedStats) FailedIterations() int {
	return a.IterationCount - a.SuccessfulIterations
}

func (a AggregatedStats) IterationSuccessRate() float64 {
	if a.IterationCount == 0 {
		return 0
	}
	return (float64(a.SuccessfulIterations) / float64(a.IterationCount)) * 100
}

func (a AggregatedStats) OverallCasesPerSecond() float64 {
	if a.TotalDuration == 0 {
		return 0
	}
	return float64(a.TotalExecutedCases) / a.TotalDuration.Seconds()
}

func (a AggregatedStats) AvgFilesPerIteration() float64 {
	if a.IterationCount == 0 {
		return 0
	}
	return float64(a.TotalExecutedFiles) / float64(a.IterationCount)
}

func (a AggregatedStats) AvgCasesPerIteration() float64 {
	if a.IterationCount == 0 {
		return 0
	}
	return float64(a.TotalExecutedCases) / float64(a.IterationCount)
}

func (a AggregatedStats) AvgDurationPerIteration() time.Duration {
	if a.IterationCount == 0 {
		return 0
	}
	return a.TotalDuration / time.Duration(a.IterationCount)
}
