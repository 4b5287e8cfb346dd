package execute

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/jacoelho/jsonwalk/internal/config"
	"github.com/jacoelho/jsonwalk/internal/exit"
	"github.com/jacoelho/jsonwalk/internal/output"
	"github.com/jacoelho/jsonwalk/internal/suite"
)

// CompiledFile holds a suite file compiled into executable cases.
type CompiledFile struct {
	Filename string
	BaseDir  string
	Cases    []suite.CompiledCase
}

type Runner struct {
	config      *config.Config
	compiled    []CompiledFile
	rateLimiter *rate.Limiter
	output      io.Writer
	errOutput   io.Writer
}

// New compiles the configured suite files and returns a runner ready to
// execute them. Compilation happens once; repeated iterations reuse the
// compiled programs, so template expansion is stable across iterations.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	compiled, err := compileFiles(cfg.SuiteFiles, cfg.Variables)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	return &Runner{
		config:      cfg,
		compiled:    compiled,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		output:      os.Stdout,
		errOutput:   os.Stderr,
	}, nil
}

func newRateLimiter(casesPerSecond float64) *rate.Limiter {
	if casesPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Limit(casesPerSecond), 1)
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

// Run executes the compiled suites and returns the process exit code.
// Zero means every case in every iteration passed.
func (r *Runner) Run(ctx context.Context) int {
	if r.config.Repeat < 0 {
		return r.runInfiniteLoop(ctx)
	}
	return r.runFiniteLoop(ctx)
}

func (r *Runner) runInfiniteLoop(ctx context.Context) int {
	return r.runLoop(
		ctx,
		0,
		func(completed int) string {
			return fmt.Sprintf("Interrupted after %d iterations", completed)
		},
		func(iteration int) string {
			if !r.config.Quiet {
				return fmt.Sprintf("--- Iteration %d ---", iteration)
			}
			return ""
		},
		func(result *output.Summary) error {
			return result.Format(r.config.Format, r.payloadWriter())
		},
		nil,
	)
}

func (r *Runner) runFiniteLoop(ctx context.Context) int {
	totalIterations := r.config.Repeat + 1
	allResults := make([]*output.Summary, 0, totalIterations)

	return r.runLoop(
		ctx,
		totalIterations,
		func(completed int) string {
			return fmt.Sprintf("Interrupted after %d of %d iterations", completed, totalIterations)
		},
		func(iteration int) string {
			if !r.config.Quiet && totalIterations > 1 {
				return fmt.Sprintf("--- Iteration %d of %d ---", iteration, totalIterations)
			}
			return ""
		},
		func(result *output.Summary) error {
			allResults = append(allResults, result)
			return nil
		},
		func() error {
			return output.FormatAggregated(r.config.Format, r.payloadWriter(), allResults)
		},
	)
}

func (r *Runner) runLoop(
	ctx context.Context,
	totalIterations int,
	interruptMessage func(completed int) string,
	iterationHeader func(iteration int) string,
	handleResult func(*output.Summary) error,
	finish func() error,
) int {
	failed := false
	var baseline []string

	for iteration := 1; totalIterations <= 0 || iteration <= totalIterations; iteration++ {
		select {
		case <-ctx.Done():
			r.logf("\n%s\n", interruptMessage(iteration-1))
			return 1
		default:
		}

		if header := iterationHeader(iteration); header != "" {
			r.logf("%s\n", header)
		}

		result, err := r.executeCompiledFiles(ctx, r.compiled)
		if err != nil {
			r.logf("\nError in iteration %d: %v\n", iteration, err)
			return 1
		}

		if result.FailedFiles > 0 {
			failed = true
		}

		signatures := failureSignatures(result)
		if iteration == 1 {
			baseline = signatures
		} else {
			r.reportFailureDrift(baseline, signatures, iteration)
		}

		if handleResult != nil {
			if err := handleResult(result); err != nil {
				r.logf("Error formatting results: %v\n", err)
			}
		}
	}

	if finish != nil {
		if err := finish(); err != nil {
			r.logf("Error formatting results: %v\n", err)
		}
	}

	if failed {
		return 1
	}
	return 0
}

// failureSignatures flattens each file's outcome into one comparable
// string, in compiled-file order.
func failureSignatures(s *output.Summary) []string {
	signatures := make([]string, 0, len(s.FileResults))
	for _, fileResult := range s.FileResults {
		var b strings.Builder
		if fileResult.Error != nil {
			b.WriteString(fileResult.Error.Error())
			b.WriteByte('\n')
		}
		for _, caseResult := range fileResult.CaseResults {
			for _, failure := range caseResult.Failures {
				b.WriteString(caseResult.Name)
				b.WriteByte(':')
				b.WriteString(failure)
				b.WriteByte('\n')
			}
		}
		signatures = append(signatures, b.String())
	}

	return signatures
}

// reportFailureDrift warns when an iteration's failures differ from the
// first iteration's. Compiled programs are deterministic, so drift points
// at the documents changing under the run.
func (r *Runner) reportFailureDrift(baseline, current []string, iteration int) {
	for i := range current {
		if i >= len(baseline) {
			return
		}
		if current[i] != baseline[i] {
			r.logf("Nondeterministic failures for %s between iteration 1 and iteration %d\n", r.compiled[i].Filename, iteration)
		}
	}
}

// ExecuteFiles compiles and runs the given suite files once, independent of
// the runner's configured files.
func (r *Runner) ExecuteFiles(ctx context.Context, files []string) (*output.Summary, error) {
	compiled, err := compileFiles(files, r.config.Variables)
	if err != nil {
		return nil, err
	}

	return r.executeCompiledFiles(ctx, compiled)
}

func compileFiles(files []string, variables map[string]string) ([]CompiledFile, error) {
	compiled := make([]CompiledFile, 0, len(files))
	for _, filename := range files {
		file, err := compileFile(filename, variables)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, file)
	}

	return compiled, nil
}

func compileFile(filename string, variables map[string]string) (CompiledFile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return CompiledFile{}, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	cases, err := suite.Parse(f)
	if err != nil {
		return CompiledFile{}, fmt.Errorf("failed to parse file %s: %w", filename, err)
	}

	compiledCases, err := suite.Compile(cases, variables)
	if err != nil {
		return CompiledFile{}, fmt.Errorf("failed to compile file %s: %w", filename, err)
	}

	return CompiledFile{
		Filename: filename,
		BaseDir:  filepath.Dir(filename),
		Cases:    compiledCases,
	}, nil
}
