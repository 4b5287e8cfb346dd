package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the rendering format for run results.
type OutputFormat int

const (
	FormatText OutputFormat = iota
	FormatJSON
)

// ParseFormat converts a user supplied format name into an OutputFormat.
func ParseFormat(value string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unsupported output format: %q", value)
	}
}

// Format formats the summary in the specified format to the given writer.
func (s *Summary) Format(format OutputFormat, w io.Writer) error {
	switch format {
	case FormatJSON:
		return s.formatJSON(w)
	case FormatText:
		fallthrough
	default:
		return s.formatText(w)
	}
}

// FormatAggregated formats results from multiple iterations.
func FormatAggregated(format OutputFormat, w io.Writer, summaries []*Summary) error {
	switch format {
	case FormatJSON:
		return formatAggregatedJSON(w, summaries)
	case FormatText:
		fallthrough
	default:
		return formatAggregatedText(w, summaries)
	}
}

// formatText formats a single iteration summary in text format.
func (s *Summary) formatText(w io.Writer) error {
	for _, fileResult := range s.FileResults {
		status := "Success"
		switch {
		case fileResult.Error != nil:
			status = fmt.Sprintf("Failed: %v", fileResult.Error)
		case fileResult.Failed():
			status = fmt.Sprintf("Failed (%d check failure(s))", fileResult.FailureCount())
		}
		_, err := fmt.Fprintf(w, "%s: %s (%d case(s) in %d ms)\n",
			fileResult.Filename, status, fileResult.CaseCount, fileResult.Duration.Milliseconds())
		if err != nil {
			return err
		}

		for _, caseResult := range fileResult.CaseResults {
			for _, failure := range caseResult.Failures {
				if err := printCaseFailure(w, caseResult.Name, failure); err != nil {
					return err
				}
			}
		}
	}

	if _, err := fmt.Fprintln(w, "--------------------------------------------------------------------------------"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Executed files:  %d\n", s.ExecutedFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Executed cases:  %d (%.2f/s)\n", s.ExecutedCases, s.CasesPerSecond()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Succeeded files: %d (%.1f%%)\n", s.SucceededFiles, s.SuccessPercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Failed files:    %d (%.1f%%)\n", s.FailedFiles, s.FailurePercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Duration:        %d ms\n", s.TotalDuration.Milliseconds()); err != nil {
		return err
	}

	return nil
}

// printCaseFailure renders one failure message under its case name. Failure
// messages can span multiple lines; continuation lines are indented so the
// diagnostic stays visually attached to its first line.
func printCaseFailure(w io.Writer, name, failure string) error {
	lines := strings.Split(failure, "\n")
	if _, err := fmt.Fprintf(w, "  [%s] %s\n", name, lines[0]); err != nil {
		return err
	}
	for _, line := range lines[1:] {
		if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

type jsonCaseResult struct {
	Name     string   `json:"name"`
	Failures []string `json:"failures,omitempty"`
}

type jsonFileResult struct {
	Filename             string           `json:"filename"`
	CaseCount            int              `json:"case_count"`
	DurationMilliseconds int64            `json:"duration_ms"`
	Success              bool             `json:"success"`
	Error                string           `json:"error,omitempty"`
	Cases                []jsonCaseResult `json:"cases,omitempty"`
}

type jsonSummary struct {
	FileResults          []jsonFileResult `json:"file_results"`
	ExecutedFiles        int              `json:"executed_files"`
	ExecutedCases        int              `json:"executed_cases"`
	SucceededFiles       int              `json:"succeeded_files"`
	FailedFiles          int              `json:"failed_files"`
	DurationMilliseconds int64            `json:"duration_ms"`
	CasesPerSecond       float64          `json:"cases_per_second"`
	SuccessPercentage    float64          `json:"success_percentage"`
	FailurePercentage    float64          `json:"failure_percentage"`
}

func (s *Summary) toJSONSummary() jsonSummary {
	fileResults := make([]jsonFileResult, 0, len(s.FileResults))
	for _, result := range s.FileResults {
		item := jsonFileResult{
			Filename:             result.Filename,
			CaseCount:            result.CaseCount,
			DurationMilliseconds: result.Duration.Milliseconds(),
			Success:              !result.Failed(),
		}
		if result.Error != nil {
			item.Error = result.Error.Error()
		}
		for _, caseResult := range result.CaseResults {
			item.Cases = append(item.Cases, jsonCaseResult{
				Name:     caseResult.Name,
				Failures: caseResult.Failures,
			})
		}
		fileResults = append(fileResults, item)
	}

	return jsonSummary{
		FileResults:          fileResults,
		ExecutedFiles:        s.ExecutedFiles,
		ExecutedCases:        s.ExecutedCases,
		SucceededFiles:       s.SucceededFiles,
		FailedFiles:          s.FailedFiles,
		DurationMilliseconds: s.TotalDuration.Milliseconds(),
		CasesPerSecond:       s.CasesPerSecond(),
		SuccessPercentage:    s.SuccessPercentage(),
		FailurePercentage:    s.FailurePercentage(),
	}
}

func (s *Summary) formatJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s.toJSONSummary())
}

// formatAggregatedText formats results from multiple iterations in text format.
func formatAggregatedText(w io.Writer, allResults []*Summary) error {
	if len(allResults) == 0 {
		return nil
	}

	if len(allResults) == 1 {
		return allResults[0].formatText(w)
	}

	stats := CalculateAggregatedStats(allResults)

	if err := printIterationSummary(w, allResults); err != nil {
		return err
	}

	return printAggregatedSummary(w, stats)
}

type jsonAggregatedStats struct {
	TotalIterations           int     `json:"total_iterations"`
	SuccessfulIterations      int     `json:"successful_iterations"`
	FailedIterations          int     `json:"failed_iterations"`
	IterationSuccessRate      float64 `json:"iteration_success_rate"`
	TotalExecutedFiles        int     `json:"total_executed_files"`
	TotalExecutedCases        int     `json:"total_executed_cases"`
	TotalSucceededFiles       int     `json:"total_succeeded_files"`
	TotalFailedFiles          int     `json:"total_failed_files"`
	TotalDurationMilliseconds int64   `json:"total_duration_ms"`
	OverallCasesPerSecond     float64 `json:"overall_cases_per_second"`
	AvgFilesPerIteration      float64 `json:"avg_files_per_iteration"`
	AvgCasesPerIteration      float64 `json:"avg_cases_per_iteration"`
	AvgDurationMilliseconds   int64   `json:"avg_duration_ms"`
}

type jsonAggregatedResults struct {
	Iterations []jsonSummary       `json:"iterations"`
	Aggregated jsonAggregatedStats `json:"aggregated"`
}

func formatAggregatedJSON(w io.Writer, allResults []*Summary) error {
	if len(allResults) == 0 {
		return nil
	}

	if len(allResults) == 1 {
		return allResults[0].formatJSON(w)
	}

	stats := CalculateAggregatedStats(allResults)
	iterationResults := make([]jsonSummary, 0, len(allResults))
	for _, summary := range allResults {
		iterationResults = append(iterationResults, summary.toJSONSummary())
	}

	payload := jsonAggregatedResults{
		Iterations: iterationResults,
		Aggregated: jsonAggregatedStats{
			TotalIterations:           stats.IterationCount,
			SuccessfulIterations:      stats.SuccessfulIterations,
			FailedIterations:          stats.FailedIterations(),
			IterationSuccessRate:      stats.IterationSuccessRate(),
			TotalExecutedFiles:        stats.TotalExecutedFiles,
			TotalExecutedCases:        stats.TotalExecutedCases,
			TotalSucceededFiles:       stats.TotalSucceededFiles,
			TotalFailedFiles:          stats.TotalFailedFiles,
			TotalDurationMilliseconds: stats.TotalDuration.Milliseconds(),
			OverallCasesPerSecond:     stats.OverallCasesPerSecond(),
			AvgFilesPerIteration:      stats.AvgFilesPerIteration(),
			AvgCasesPerIteration:      stats.AvgCasesPerIteration(),
			AvgDurationMilliseconds:   stats.AvgDurationPerIteration().Milliseconds(),
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

// printIterationSummary prints per-iteration output.
func printIterationSummary(w io.Writer, allResults []*Summary) error {
	if _, err := fmt.Fprintln(w, "================================================================================"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "ITERATION RESULTS:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "================================================================================"); err != nil {
		return err
	}

	for i, results := range allResults {
		status := "SUCCESS"
		if results.FailedFiles > 0 {
			status = "FAILED"
		}

		_, err := fmt.Fprintf(w, "Iteration %d: %s (%d files, %d cases, %d ms)\n",
			i+1, status, results.ExecutedFiles, results.ExecutedCases,
			results.TotalDuration.Milliseconds())
		if err != nil {
			return err
		}
	}

	return nil
}

// printAggregatedSummary prints overall statistics and averages.
func printAggregatedSummary(w io.Writer, stats AggregatedStats) error {
	if _, err := fmt.Fprintln(w, "================================================================================"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "AGGREGATED RESULTS:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "================================================================================"); err != nil {
		return err
	}

	successRate := stats.IterationSuccessRate()
	failureRate := 100 - successRate

	if _, err := fmt.Fprintf(w, "Total iterations:    %d\n", stats.IterationCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Successful iterations: %d (%.1f%%)\n", stats.SuccessfulIterations, successRate); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Failed iterations:   %d (%.1f%%)\n", stats.FailedIterations(), failureRate); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total executed files: %d\n", stats.TotalExecutedFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total executed cases: %d (%.2f/s)\n", stats.TotalExecutedCases, stats.OverallCasesPerSecond()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total succeeded files: %d\n", stats.TotalSucceededFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total failed files:  %d\n", stats.TotalFailedFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total duration:      %d ms\n", stats.TotalDuration.Milliseconds()); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "--------------------------------------------------------------------------------"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg files per iteration: %.1f\n", stats.AvgFilesPerIteration()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg cases per iteration: %.1f\n", stats.AvgCasesPerIteration()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg duration per iteration: %d ms\n", stats.AvgDurationPerIteration().Milliseconds()); err != nil {
		return err
	}

	return nil
}
