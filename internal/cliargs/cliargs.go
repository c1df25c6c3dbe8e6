// Package cliargs parses the small, fixed set of command-line flags a
// host uses to drive gmtrace from outside its own configuration system:
// which test file to use, which mode to run in, and whether to run
// headless. It is deliberately a thin flag.FlagSet wrapper rather than a
// dependency on the richer cobra-based CLI framework gmtreplay uses — see
// DESIGN.md for why a four-flag, no-subcommand surface stays on the
// standard library.
package cliargs

import (
	"flag"
	"fmt"
	"strings"
)

// Options holds the parsed command-line flags.
type Options struct {
	TestPath string
	TestMode string
	Headless bool
	WorkDir  string
}

// knownFlags lists the flags this package defines and whether each expects
// a separate value token (a bool flag like --headless does not).
var knownFlags = map[string]bool{
	"test":      true,
	"test-mode": true,
	"headless":  false,
	"work-dir":  true,
}

// filterKnownArgs drops any flag this package does not define, and the
// value token that follows it when one is expected. A host game binary
// passes its own, unrelated flags through the same os.Args a game engine
// hands to gmtrace; §6 of the command-line contract requires those to be
// ignored rather than rejected, but flag.FlagSet.Parse errors out on the
// first flag it doesn't recognize, so unknown ones never reach it.
func filterKnownArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var name string
		switch {
		case strings.HasPrefix(arg, "--"):
			name = arg[2:]
		case strings.HasPrefix(arg, "-"):
			name = arg[1:]
		default:
			continue // positional leftover; this flag set takes none
		}

		hasInlineValue := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, hasInlineValue = name[:eq], true
		}

		takesValue, known := knownFlags[name]
		if !known {
			continue
		}
		out = append(out, arg)
		if takesValue && !hasInlineValue && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

// Parse parses args (typically os.Args[1:]) into Options, silently ignoring
// any flag this package does not define. A malformed value for a
// recognized flag still returns an error describing it; Parse never calls
// os.Exit itself, so a host embedding gmtrace keeps control of its own
// process lifecycle.
func Parse(args []string) (Options, error) {
	fs := flag.NewFlagSet("gmtrace", flag.ContinueOnError)
	fs.Usage = func() {}

	var opts Options
	fs.StringVar(&opts.TestPath, "test", "", "path to the test file to record or replay")
	fs.StringVar(&opts.TestMode, "test-mode", "", "record, replay, or disabled")
	fs.BoolVar(&opts.Headless, "headless", false, "run without presenting any window/output surface")
	fs.StringVar(&opts.WorkDir, "work-dir", "", "working directory for relative test-file paths")

	if err := fs.Parse(filterKnownArgs(args)); err != nil {
		return Options{}, fmt.Errorf("cliargs: %w", err)
	}

	switch opts.TestMode {
	case "", "record", "replay", "disabled":
	default:
		return Options{}, fmt.Errorf("cliargs: --test-mode must be one of record, replay, disabled, got %q", opts.TestMode)
	}
	if opts.TestMode != "" && opts.TestMode != "disabled" && opts.TestPath == "" {
		return Options{}, fmt.Errorf("cliargs: --test is required when --test-mode=%s", opts.TestMode)
	}

	return opts, nil
}
