// Package config builds the immutable per-invocation settings for tidyfiles.
// Settings come from three layers: CLI flags (highest priority), the TOML
// settings file, and built-in defaults. The merged result is resolved into
// absolute paths once and passed to every component; nothing reads ambient
// global state afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"tidyfiles/internal/classifier"
	"tidyfiles/internal/safety"
)

// ErrorType represents the type of configuration error.
type ErrorType string

const (
	SourceNotFound     ErrorType = "SOURCE_NOT_FOUND"
	SourceNotDirectory ErrorType = "SOURCE_NOT_DIRECTORY"
	DestinationInvalid ErrorType = "DESTINATION_INVALID"
	SettingsInvalid    ErrorType = "SETTINGS_INVALID"
)

// Error represents a fatal configuration problem, reported before any plan
// executes.
type Error struct {
	Type ErrorType
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options carries the values supplied on the command line. Empty fields fall
// through to the settings file and then to defaults.
type Options struct {
	SourceDir      string
	DestinationDir string
	SettingsFile   string
	HistoryFile    string
	LogFile        string
	LogLevel       string
	Excludes       []string
}

// Settings is the fully resolved configuration for one invocation. All paths
// are absolute. The value is never mutated after Load returns.
type Settings struct {
	SourceDir      string
	DestinationDir string
	Rules          []classifier.Rule
	Unrecognized   string   // Fallback folder for unmatched extensions
	Excludes       []string // Paths omitted from planning, own state included
	SettingsFile   string
	HistoryFile    string
	LogFile        string
	LogLevel       string
}

// ExcludingDestinations returns a copy of the settings whose exclusion list
// also covers every rule destination and the unrecognized folder. Repeated
// runs over the same tree, such as the ones watch mode triggers, plan with
// this copy so the folders a previous run populated are never re-planned
// or deleted.
func (s *Settings) ExcludingDestinations() *Settings {
	out := *s
	excludes := make([]string, 0, len(s.Excludes)+len(s.Rules)+1)
	excludes = append(excludes, s.Excludes...)
	for _, rule := range s.Rules {
		excludes = append(excludes, rule.Destination)
	}
	excludes = append(excludes, s.Unrecognized)
	out.Excludes = excludes
	return &out
}

// ruleSpec is the settings-file shape of one classification rule. An array
// of tables is used rather than a map so rule order survives parsing.
type ruleSpec struct {
	Folder     string   `mapstructure:"folder"`
	Extensions []string `mapstructure:"extensions"`
}

// Load merges CLI options, the settings file, and defaults into Settings.
// A missing settings file is created with defaults first. The source
// directory must exist; the destination is created when missing and must
// pass the path safety check.
func Load(opts Options) (*Settings, error) {
	settingsFile, err := resolveSettingsFile(opts.SettingsFile)
	if err != nil {
		return nil, err
	}

	if err := ensureSettingsFile(settingsFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(settingsFile)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, &Error{Type: SettingsInvalid, Path: settingsFile, Err: err}
	}

	sourceDir, err := validateSource(opts.SourceDir)
	if err != nil {
		return nil, err
	}

	destDir, err := prepareDestination(opts.DestinationDir, sourceDir)
	if err != nil {
		return nil, err
	}

	var specs []ruleSpec
	if err := v.UnmarshalKey("rules", &specs); err != nil {
		return nil, &Error{Type: SettingsInvalid, Path: settingsFile, Err: err}
	}
	if len(specs) == 0 {
		specs = defaultCleaningPlan()
	}

	rules := make([]classifier.Rule, 0, len(specs))
	for _, spec := range specs {
		rules = append(rules, classifier.Rule{
			Destination: filepath.Join(destDir, spec.Folder),
			Extensions:  spec.Extensions,
		})
	}

	s := &Settings{
		SourceDir:      sourceDir,
		DestinationDir: destDir,
		Rules:          rules,
		Unrecognized:   filepath.Join(destDir, v.GetString("unrecognized_dir")),
		SettingsFile:   settingsFile,
		HistoryFile:    firstNonEmpty(opts.HistoryFile, v.GetString("history_file")),
		LogFile:        firstNonEmpty(opts.LogFile, v.GetString("log_file")),
		LogLevel:       firstNonEmpty(opts.LogLevel, v.GetString("log_level")),
	}

	s.HistoryFile, err = absPath(s.HistoryFile)
	if err != nil {
		return nil, &Error{Type: SettingsInvalid, Path: s.HistoryFile, Err: err}
	}
	s.LogFile, err = absPath(s.LogFile)
	if err != nil {
		return nil, &Error{Type: SettingsInvalid, Path: s.LogFile, Err: err}
	}

	s.Excludes = buildExcludes(append(opts.Excludes, v.GetStringSlice("excludes")...), s)

	return s, nil
}

// JournalPath resolves the history file location without requiring a source
// directory. The history and undo commands use it: they read the journal but
// never plan against a source tree.
func JournalPath(opts Options) (string, error) {
	if opts.HistoryFile != "" {
		return absPath(opts.HistoryFile)
	}

	settingsFile, err := resolveSettingsFile(opts.SettingsFile)
	if err != nil {
		return "", err
	}
	if err := ensureSettingsFile(settingsFile); err != nil {
		return "", err
	}

	v := viper.New()
	v.SetConfigFile(settingsFile)
	v.SetConfigType("toml")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return "", &Error{Type: SettingsInvalid, Path: settingsFile, Err: err}
	}

	return absPath(v.GetString("history_file"))
}

// buildExcludes resolves the user-supplied exclusions to absolute paths and
// always adds the tool's own state files so a run can never move or delete
// its settings, log, or journal.
func buildExcludes(userExcludes []string, s *Settings) []string {
	excludes := make([]string, 0, len(userExcludes)+3)
	seen := make(map[string]bool)

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			excludes = append(excludes, abs)
		}
	}

	for _, p := range userExcludes {
		add(p)
	}
	add(s.SettingsFile)
	add(s.HistoryFile)
	add(s.LogFile)

	return excludes
}

// validateSource checks that the source directory exists and is a directory.
func validateSource(sourceDir string) (string, error) {
	if sourceDir == "" {
		return "", &Error{Type: SourceNotFound, Path: "", Err: fmt.Errorf("source directory must be specified")}
	}

	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", &Error{Type: SourceNotFound, Path: sourceDir, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &Error{Type: SourceNotFound, Path: sourceDir, Err: err}
	}
	if !info.IsDir() {
		return "", &Error{Type: SourceNotDirectory, Path: sourceDir}
	}

	return abs, nil
}

// prepareDestination resolves the destination root, refusing unsafe paths
// and creating the directory when missing. An empty destination defaults to
// the source directory itself. The safety check runs on every branch:
// an existing destination is just as much a plan root as a created one.
func prepareDestination(destDir, sourceDir string) (string, error) {
	if destDir == "" {
		if err := safety.ValidatePath(sourceDir, true); err != nil {
			return "", &Error{Type: DestinationInvalid, Path: sourceDir, Err: err}
		}
		return sourceDir, nil
	}

	abs, err := filepath.Abs(destDir)
	if err != nil {
		return "", &Error{Type: DestinationInvalid, Path: destDir, Err: err}
	}

	if err := safety.ValidatePath(abs, true); err != nil {
		return "", &Error{Type: DestinationInvalid, Path: destDir, Err: err}
	}

	if info, err := os.Stat(abs); err == nil {
		if !info.IsDir() {
			return "", &Error{Type: DestinationInvalid, Path: destDir, Err: fmt.Errorf("destination path is not a directory")}
		}
		return abs, nil
	} else if !os.IsNotExist(err) {
		return "", &Error{Type: DestinationInvalid, Path: destDir, Err: err}
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", &Error{Type: DestinationInvalid, Path: destDir, Err: err}
	}

	return abs, nil
}

// resolveSettingsFile returns the settings file path, defaulting to
// ~/.tidyfiles/settings.toml.
func resolveSettingsFile(flagValue string) (string, error) {
	if flagValue != "" {
		return absPath(flagValue)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", &Error{Type: SettingsInvalid, Path: "", Err: err}
	}
	return filepath.Join(home, ".tidyfiles", "settings.toml"), nil
}

// ensureSettingsFile writes the default settings file when none exists yet.
func ensureSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &Error{Type: SettingsInvalid, Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Type: SettingsInvalid, Path: path, Err: err}
	}
	if err := os.WriteFile(path, []byte(defaultSettingsTOML), 0o644); err != nil {
		return &Error{Type: SettingsInvalid, Path: path, Err: err}
	}
	return nil
}

func absPath(path string) (string, error) {
	expanded := path
	if len(path) >= 2 && path[0] == '~' && os.IsPathSeparator(path[1]) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		expanded = filepath.Join(home, path[2:])
	}
	return filepath.Abs(expanded)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
