// Package main provides the CLI entrypoint for tag2pack.
//
// tag2pack converts a Havok XML tagfile into an hk_2014.1.0-r1 XML packfile:
//   - Loads the tagfile (plain or zstd compressed) and the class templates
//   - Maps every template field from the source object, patching the
//     fields whose layout changed between revisions
//   - Backs up the input and writes the packfile in its place
//
// Commands:
//
//	tag2pack [convert] [flags] input.xml
//	tag2pack dump-classes [flags] reference.xml [classes.xml]
//	tag2pack inspect [flags] [input.xml] object-id
//	tag2pack dump-profile [flags] [profile.yaml]
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tag2pack/internal/config"
	"tag2pack/internal/patch"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cmd := "convert"
	if len(args) > 0 {
		switch args[0] {
		case "convert", "dump-classes", "inspect", "dump-profile":
			cmd, args = args[0], args[1:]
		case "help", "-h", "-help", "--help":
			usage(stdout)
			return exitOK
		}
	}

	var (
		runCmd func() error
		common config.Common
		paused bool
		err    error
	)

	switch cmd {
	case "convert":
		var c *config.Convert
		if c, err = config.ParseConvert(args); err == nil {
			common, paused = c.Common, c.Pause
			runCmd = func() error { return runConvert(c, executableDir()) }
		}
	case "dump-classes":
		var c *config.DumpClasses
		if c, err = config.ParseDumpClasses(args); err == nil {
			common = c.Common
			runCmd = func() error { return runDumpClasses(c) }
		}
	case "inspect":
		var c *config.Inspect
		if c, err = config.ParseInspect(args); err == nil {
			common = c.Common
			runCmd = func() error { return runInspect(c, stdout, executableDir()) }
		}
	case "dump-profile":
		var c *config.DumpProfile
		if c, err = config.ParseDumpProfile(args); err == nil {
			common = c.Common
			runCmd = func() error { return runDumpProfile(c, stdout) }
		}
	}

	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}

	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	setupLogger(common, stderr)

	code := exitOK
	if err := runCmd(); err != nil {
		log.Error().Err(err).Msg(cmd + " failed")
		code = exitFail
	}

	if paused {
		pause(stdin, stdout)
	}

	return code
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "tag2pack - Havok tagfile to packfile converter")
	fmt.Fprintln(w, "Commands: convert (default) | dump-classes | inspect | dump-profile")
	fmt.Fprintln(w, "Patched fields: "+strings.Join(patch.Default().Names(), ", "))
	fmt.Fprintln(w, "Run a command with -help for its flags")
}

func setupLogger(c config.Common, stderr io.Writer) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	lvl, err := c.Level()
	if err != nil {
		log.Warn().Err(err).Msg("falling back to info")
	}

	zerolog.SetGlobalLevel(lvl)
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}

	return filepath.Dir(exe)
}

func pause(stdin io.Reader, stdout io.Writer) {
	fmt.Fprint(stdout, "Press Enter to exit...")
	_, _ = bufio.NewReader(stdin).ReadString('\n')
}
