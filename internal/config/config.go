package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jacoelho/jsonwalk/internal/exit"
	"github.com/jacoelho/jsonwalk/internal/output"
)

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrNoSuiteFiles          = errors.New("no suite files specified")
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

// Config represents the complete configuration for the jsonwalk tool.
type Config struct {
	// Suite execution
	SuiteFiles []string
	Quiet      bool
	Repeat     int     // Additional iterations after first run (negative = infinite)
	RateLimit  float64 // Cases per second (0 = unlimited)
	Format     output.OutputFormat

	// Template variables
	Variables    map[string]string
	VariableFile string
	ConfigFile   string
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.SuiteFiles) == 0 {
		return ErrNoSuiteFiles
	}

	for _, suiteFile := range c.SuiteFiles {
		if _, err := os.Stat(suiteFile); err != nil {
			return fmt.Errorf("suite file %s not found: %w", suiteFile, err)
		}
	}

	return nil
}

// variablesFlag implements flag.Value for parsing multiple -variable flags.
type variablesFlag map[string]string

// String returns a string representation of the variables flag for flag.Value interface.
func (v variablesFlag) String() string {
	var pairs []string
	for k, val := range v {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, val))
	}
	return strings.Join(pairs, ",")
}

// Set parses and stores a variable in name=value format for flag.Value interface.
func (v variablesFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("%w, got: %s", ErrInvalidVariableFormat, value)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return ErrEmptyVariableName
	}

	v[name] = parts[1]
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		configFile   = fs.String("config", "", "Path to TOML config file with defaults for these options")
		repeat       = fs.Int("repeat", 0, "Number of additional times to repeat suite execution after the first run (negative for infinite loop)")
		rateLimit    = fs.Float64("rate-limit", 0, "Rate limit in cases per second (0 for unlimited)")
		formatName   = fs.String("output", "text", "Output format: text or json")
		quiet        = fs.Bool("quiet", false, "Suppress per-iteration progress output")
		variables    = make(variablesFlag)
		variableFile = fs.String("variable-file", "", "Path to key=value file containing template variables")
	)

	fs.Var(variables, "variable", "Variable in format name=value (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	// Get remaining positional arguments as suite files
	files := fs.Args()
	if len(files) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoSuiteFiles, Usage())
	}

	// Flags set on the command line win over config file values.
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	var configVariables map[string]string
	if *configFile != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(*configFile), toml.Parser()); err != nil {
			return nil, exit.Errorf("Error: failed to load config file: %v\n\n%s", err, Usage())
		}

		if !explicit["repeat"] && k.Exists("repeat") {
			*repeat = k.Int("repeat")
		}
		if !explicit["rate-limit"] && k.Exists("rate_limit") {
			*rateLimit = k.Float64("rate_limit")
		}
		if !explicit["output"] && k.Exists("output") {
			*formatName = k.String("output")
		}
		if !explicit["quiet"] && k.Exists("quiet") {
			*quiet = k.Bool("quiet")
		}
		if !explicit["variable-file"] && k.Exists("variable_file") {
			*variableFile = k.String("variable_file")
		}
		if k.Exists("variables") {
			configVariables = k.StringMap("variables")
		}
	}

	format, err := output.ParseFormat(*formatName)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	// Variable precedence: config file variables first, then the variable
	// file, then command-line variables.
	finalVariables := make(map[string]string)
	maps.Copy(finalVariables, configVariables)

	if *variableFile != "" {
		fileVariables, err := loadVariableFile(*variableFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load variable file: %v\n\n%s", err, Usage())
		}
		maps.Copy(finalVariables, fileVariables)
	}

	maps.Copy(finalVariables, variables)

	config := &Config{
		SuiteFiles:   files,
		Quiet:        *quiet,
		Repeat:       *repeat,
		RateLimit:    *rateLimit,
		Format:       format,
		Variables:    finalVariables,
		VariableFile: *variableFile,
		ConfigFile:   *configFile,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// loadVariableFile loads variables from a key=value format file.
// It supports comments (lines starting with #) and empty lines.
// Returns an error if the file format is invalid or the file cannot be read.
func loadVariableFile(filename string) (map[string]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	variables := make(map[string]string)
	lines := strings.Split(string(data), "\n")

	for lineNum, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid format at line %d: %s (expected key=value)", lineNum+1, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key == "" {
			return nil, fmt.Errorf("empty key at line %d: %s", lineNum+1, line)
		}

		variables[key] = value
	}

	return variables, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jsonwalk - declarative JSON assertion tool

Usage: jsonwalk [options] <file1> [file2] ...

Options:
  --config FILE           Path to TOML config file with defaults for these options
  --repeat N              Number of additional times to repeat after first run (negative for infinite)
  --rate-limit N          Rate limit in cases per second (0 for unlimited)
  --output FORMAT         Output format: text or json (default: text)
  --quiet                 Suppress per-iteration progress output
  --variable NAME=VALUE   Variable in format name=value (can be used multiple times)
  --variable-file FILE    Path to key=value file containing template variables
  -h, --help              Show this help message

Examples:
  jsonwalk suite.yaml                            # Run suite file once
  jsonwalk suite.yaml --output json              # Machine readable results
  jsonwalk suite.yaml --repeat 1                 # Run suite file twice (1 + 1 additional)
  jsonwalk suite.yaml --repeat -1                # Run suite file infinitely
  jsonwalk one.yaml two.yaml                     # Run multiple suite files in sequence
  jsonwalk suite.yaml --variable HOST=localhost  # Pass variable to templates
  jsonwalk suite.yaml --config jsonwalk.toml     # Load option defaults from TOML`
}
