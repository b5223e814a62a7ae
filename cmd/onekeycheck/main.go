// cmd/onekeycheck/main.go

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/windowsadmins/onekeycheck/pkg/config"
	"github.com/windowsadmins/onekeycheck/pkg/console"
	"github.com/windowsadmins/onekeycheck/pkg/host"
	"github.com/windowsadmins/onekeycheck/pkg/logging"
	"github.com/windowsadmins/onekeycheck/pkg/preflight"
	"github.com/windowsadmins/onekeycheck/pkg/steampath"
	"github.com/windowsadmins/onekeycheck/pkg/version"
)

const releasesURL = "https://github.com/ikunshare/Onekey/releases"

// options collects the command line plus the collaborators tests replace.
type options struct {
	dir        string
	noPause    bool
	noColor    bool
	eventsFile string
	showConfig bool
	verbosity  int

	prober host.Prober
	lookup func() steampath.PathLookup
}

func main() {
	enableANSIConsole()
	// Define command-line flags.
	var opts options
	pflag.StringVar(&opts.dir, "dir", ".", "Directory holding the Onekey executable, config.json and md5.md5.")
	pflag.BoolVar(&opts.noPause, "no-pause", false, "Do not wait for Enter at the start and end of the run.")
	pflag.BoolVar(&opts.noColor, "no-color", false, "Disable colored console output.")
	pflag.StringVar(&opts.eventsFile, "events-file", "", "Write every check event to this file (.jsonl or .yaml).")
	pflag.BoolVar(&opts.showConfig, "show-config", false, "Display the validated config.json and exit.")
	versionFlag := pflag.Bool("version", false, "Print the version and exit.")

	// Count the number of -v flags.
	pflag.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (e.g. -v)")
	pflag.Parse()

	// Handle --version flag.
	if *versionFlag {
		if opts.verbosity > 0 {
			version.PrintFull(os.Stdout)
		} else {
			version.Print(os.Stdout)
		}
		return
	}

	if opts.showConfig {
		showConfig(opts.dir, os.Stdout)
		return
	}

	// Check outcomes never change the exit status.
	run(context.Background(), opts, os.Stdin, os.Stdout)
}

// run performs one verification pass with the opening and closing prompts.
func run(ctx context.Context, opts options, in io.Reader, out io.Writer) preflight.Report {
	term := logging.NewConsole(out, logging.LevelFromVerbosity(opts.verbosity))
	term.SetColor(!opts.noColor)
	sinks := logging.Multi{term}

	if opts.eventsFile != "" {
		transcript, err := logging.OpenTranscript(opts.eventsFile)
		if err != nil {
			fmt.Fprintf(out, "Failed to open events file: %v\n", err)
		} else {
			defer transcript.Close()
			sinks = append(sinks, transcript)
		}
	}

	prompter := console.NewPrompter(in, out, opts.noPause)
	logging.New(sinks).Warn("start",
		"Onekey is updated frequently. Before testing, download the latest release and launch it once. Press Enter to continue...",
		"releases", releasesURL)
	prompter.Pause("")

	runner := &preflight.Runner{
		Dir:    opts.dir,
		Prober: opts.prober,
		Lookup: opts.lookup,
		Sink:   sinks,
	}
	report := runner.Run(ctx)

	// Halted runs return straight away; only the failure is shown.
	if report.Completed() {
		prompter.Pause("Press Enter to exit...")
	}
	return report
}

// showConfig prints the validated configuration as YAML.
func showConfig(dir string, out io.Writer) {
	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(out, "Failed to load configuration: %v\n", err)
		return
	}
	data, err := cfg.YAML()
	if err != nil {
		fmt.Fprintf(out, "Failed to render configuration: %v\n", err)
		return
	}
	fmt.Fprint(out, string(data))
}
