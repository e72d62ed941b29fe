// Package config resolves run settings for the tag2pack commands.
//
// Each setting has a built-in default, an environment variable with the
// TAG2PACK_ prefix and a command line flag. Flags win over the environment,
// the environment wins over defaults. An optional .env file is read into the
// environment before anything else.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment variable read by this package.
const EnvPrefix = "TAG2PACK_"

// DefaultTemplates is the template dictionary path, relative to the executable.
var DefaultTemplates = filepath.Join("Res", "Ds3HavokClasses.xml")

// DefaultLogLevel is used when neither flag nor environment set one.
const DefaultLogLevel = "info"

// Common holds settings shared by every command.
type Common struct {
	LogLevel string
}

// Level parses the configured log level.
func (c Common) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return lvl, nil
}

// Convert holds settings of the convert command.
type Convert struct {
	Common

	Input          string
	Templates      string
	Profile        string
	Output         string
	Report         string
	NoBackup       bool
	CompressBackup bool
	Strict         bool
	Pause          bool
}

// OutputPath returns where the packfile is written.
func (c *Convert) OutputPath() string {
	return firstNonEmpty(c.Output, c.Input)
}

// InPlace reports whether the output replaces the input file.
func (c *Convert) InPlace() bool {
	return filepath.Clean(c.OutputPath()) == filepath.Clean(c.Input)
}

// BackupPath returns the backup file name, or "" when no backup is made.
func (c *Convert) BackupPath() string {
	if c.NoBackup || !c.InPlace() {
		return ""
	}

	if c.CompressBackup {
		return c.Input + ".bak.zst"
	}

	return c.Input + ".bak"
}

// DumpClasses holds settings of the dump-classes command.
type DumpClasses struct {
	Common

	Packfile  string
	Templates string
}

// Inspect holds settings of the inspect command. With Field set, the
// object is also mapped onto its template and that field is explained.
type Inspect struct {
	Common

	Input     string
	ObjectID  string
	Field     string
	Templates string
	Profile   string
}

// DumpProfile holds settings of the dump-profile command.
type DumpProfile struct {
	Common

	// Profile is an optional YAML overlay applied before writing.
	Profile string
	// Output is the destination file; empty writes to standard output.
	Output string
}

// LoadEnv reads .env style files into the process environment. Missing
// files are ignored; variables already set are kept.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	return nil
}

// ParseConvert resolves convert settings from args and the environment.
// The first positional argument is the input tagfile.
func ParseConvert(args []string) (*Convert, error) {
	c := &Convert{
		Common:    Common{LogLevel: envString("LOG_LEVEL", DefaultLogLevel)},
		Input:     envString("INPUT", ""),
		Templates: envString("TEMPLATES", DefaultTemplates),
		Profile:   envString("PROFILE", ""),
		Output:    envString("OUTPUT", ""),
		Report:    envString("REPORT", ""),
	}

	var err error
	for _, b := range []struct {
		dst *bool
		key string
	}{
		{&c.NoBackup, "NO_BACKUP"},
		{&c.CompressBackup, "COMPRESS_BACKUP"},
		{&c.Strict, "STRICT"},
		{&c.Pause, "PAUSE"},
	} {
		if *b.dst, err = envBool(b.key, false); err != nil {
			return nil, err
		}
	}

	set := newFlagSet("convert")
	set.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (trace, debug, info, warn, error)")
	set.StringVar(&c.Templates, "templates", c.Templates, "template dictionary (Classes XML)")
	set.StringVar(&c.Profile, "profile", c.Profile, "conversion profile (YAML)")
	set.StringVar(&c.Output, "output", c.Output, "output packfile (default: replace the input)")
	set.StringVar(&c.Report, "report", c.Report, "write a JSON run report to this path")
	set.BoolVar(&c.NoBackup, "no-backup", c.NoBackup, "do not keep a backup of the input")
	set.BoolVar(&c.CompressBackup, "compress-backup", c.CompressBackup, "write the backup zstd compressed")
	set.BoolVar(&c.Strict, "strict", c.Strict, "fail on classes without a template")
	set.BoolVar(&c.Pause, "pause", c.Pause, "wait for Enter before exiting")

	if err := set.Parse(args); err != nil {
		return nil, err
	}

	c.Input = firstNonEmpty(set.Arg(0), c.Input)
	if c.Input == "" {
		return nil, errors.New("convert: input tagfile required")
	}

	if set.NArg() > 1 {
		return nil, fmt.Errorf("convert: unexpected arguments %v", set.Args()[1:])
	}

	return c, nil
}

// ParseDumpClasses resolves dump-classes settings. Positional arguments are
// the reference packfile and the dictionary to extend.
func ParseDumpClasses(args []string) (*DumpClasses, error) {
	c := &DumpClasses{
		Common:    Common{LogLevel: envString("LOG_LEVEL", DefaultLogLevel)},
		Templates: envString("TEMPLATES", DefaultTemplates),
	}

	set := newFlagSet("dump-classes")
	set.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	set.StringVar(&c.Templates, "templates", c.Templates, "template dictionary to create or extend")

	if err := set.Parse(args); err != nil {
		return nil, err
	}

	c.Packfile = set.Arg(0)
	if c.Packfile == "" {
		return nil, errors.New("dump-classes: reference packfile required")
	}

	if set.NArg() > 1 {
		c.Templates = set.Arg(1)
	}

	return c, nil
}

// ParseInspect resolves inspect settings: input tagfile and object id.
func ParseInspect(args []string) (*Inspect, error) {
	c := &Inspect{
		Common:    Common{LogLevel: envString("LOG_LEVEL", DefaultLogLevel)},
		Input:     envString("INPUT", ""),
		Templates: envString("TEMPLATES", DefaultTemplates),
		Profile:   envString("PROFILE", ""),
	}

	set := newFlagSet("inspect")
	set.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	set.StringVar(&c.Field, "field", "", "explain how this template field is filled")
	set.StringVar(&c.Templates, "templates", c.Templates, "template dictionary (Classes XML)")
	set.StringVar(&c.Profile, "profile", c.Profile, "conversion profile (YAML)")

	if err := set.Parse(args); err != nil {
		return nil, err
	}

	switch set.NArg() {
	case 1:
		c.ObjectID = set.Arg(0)
	case 2:
		c.Input, c.ObjectID = set.Arg(0), set.Arg(1)
	default:
		return nil, errors.New("inspect: usage: inspect [input] object-id")
	}

	if c.Input == "" {
		return nil, errors.New("inspect: input tagfile required")
	}

	if !strings.HasPrefix(c.ObjectID, "object") {
		c.ObjectID = "object" + c.ObjectID
	}

	return c, nil
}

// ParseDumpProfile resolves dump-profile settings. The optional positional
// argument is the output file.
func ParseDumpProfile(args []string) (*DumpProfile, error) {
	c := &DumpProfile{
		Common:  Common{LogLevel: envString("LOG_LEVEL", DefaultLogLevel)},
		Profile: envString("PROFILE", ""),
	}

	set := newFlagSet("dump-profile")
	set.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	set.StringVar(&c.Profile, "profile", c.Profile, "YAML overlay to merge before writing")

	if err := set.Parse(args); err != nil {
		return nil, err
	}

	if set.NArg() > 1 {
		return nil, fmt.Errorf("dump-profile: unexpected arguments %v", set.Args()[1:])
	}

	c.Output = set.Arg(0)

	return c, nil
}

// ResolveTemplates returns path unchanged when it exists or is absolute,
// otherwise the path joined to baseDir.
func ResolveTemplates(path, baseDir string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}

	if _, err := os.Stat(path); err == nil {
		return path
	}

	return filepath.Join(baseDir, path)
}

func newFlagSet(name string) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.Usage = func() {
		fmt.Fprintf(set.Output(), "Usage of %s:\n", name)
		set.PrintDefaults()
	}

	return set
}

func envString(key, def string) string {
	return firstNonEmpty(strings.TrimSpace(os.Getenv(EnvPrefix+key)), def)
}

func envBool(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}

	return v, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
