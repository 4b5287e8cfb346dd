package execute

import (
	"context"
	"fmt"
	"os"

	"github.com/jacoelho/jsonwalk"
	"github.com/jacoelho/jsonwalk/internal/clock"
	"github.com/jacoelho/jsonwalk/internal/document"
	"github.com/jacoelho/jsonwalk/internal/output"
	"github.com/jacoelho/jsonwalk/internal/pathing"
	"github.com/jacoelho/jsonwalk/internal/query"
	"github.com/jacoelho/jsonwalk/internal/suite"
)

// executeCompiledFiles runs every compiled file once and collects a summary.
// The returned error is non-nil only when the run was interrupted; per-file
// problems are recorded on the file results instead.
func (r *Runner) executeCompiledFiles(ctx context.Context, files []CompiledFile) (*output.Summary, error) {
	s := output.NewSummary(len(files))

	overallStart := clock.Now()

	for _, file := range files {
		select {
		case <-ctx.Done():
			return s, ctx.Err()
		default:
		}

		start := clock.Now()
		result, err := r.executeFile(ctx, file)
		if err != nil {
			return s, err
		}
		result.Duration = clock.Since(start)
		s.Add(result)
	}

	s.SetTotalDuration(clock.Since(overallStart))
	return s, nil
}

// executeFile runs every case in the file. A case that cannot obtain its
// document aborts the remaining cases and marks the whole file as failed.
func (r *Runner) executeFile(ctx context.Context, file CompiledFile) (output.FileResult, error) {
	result := output.FileResult{
		Filename: file.Filename,
	}

	for i, compiledCase := range file.Cases {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.rateLimiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("rate limiting interrupted: %w", err)
		}

		result.CaseCount++

		caseResult, err := executeCase(compiledCase, file.BaseDir)
		if err != nil {
			result.Error = fmt.Errorf("case %d (%s): %w", i+1, compiledCase.Name, err)
			return result, nil
		}

		result.CaseResults = append(result.CaseResults, caseResult)
	}

	return result, nil
}

// executeCase evaluates one case's program and query checks against its
// document. Check failures land in the case result; the error return is
// reserved for problems obtaining the document.
func executeCase(compiledCase suite.CompiledCase, baseDir string) (output.CaseResult, error) {
	caseResult := output.CaseResult{Name: compiledCase.Name}

	doc, err := caseDocument(compiledCase, baseDir)
	if err != nil {
		return caseResult, err
	}

	caseResult.Failures = jsonwalk.Eval(compiledCase.Program, doc, doc)

	for _, compiledQuery := range compiledCase.Queries {
		value, err := compiledQuery.Path.First(doc)
		if err != nil {
			if query.IsNotFound(err) {
				caseResult.Failures = append(caseResult.Failures,
					fmt.Sprintf("%s failed to match any targets", compiledQuery.Path.Expression()))
				continue
			}
			return caseResult, err
		}

		if err := compiledQuery.Check(value); err != nil {
			caseResult.Failures = append(caseResult.Failures,
				fmt.Sprintf("%s failed assertion\n%v", compiledQuery.Path.Expression(), err))
		}
	}

	return caseResult, nil
}

// caseDocument returns the case's decoded document, reading document_file
// relative to the suite file's directory when inline document is absent.
func caseDocument(compiledCase suite.CompiledCase, baseDir string) (any, error) {
	if compiledCase.DocumentFile == "" {
		return compiledCase.Document, nil
	}

	path := pathing.ResolveDocumentFilePath(compiledCase.DocumentFile, baseDir)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file %s: %w", compiledCase.DocumentFile, err)
	}

	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document file %s: %w", compiledCase.DocumentFile, err)
	}

	return doc, nil
}
