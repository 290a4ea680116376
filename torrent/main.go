package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"torrent-inspect/internal/config"
	"torrent-inspect/internal/logging"
	"torrent-inspect/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// usageError marks bad invocations; they exit with status 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type command struct {
	name    string
	args    string
	summary string
	// format is used when neither --output nor the config file picks one.
	format render.Format
	flags  func(*pflag.FlagSet, *options)
	run    func(*env, []string) error
}

var commands = []*command{
	decodeCommand,
	infoCommand,
	hashCommand,
	encodeCommand,
}

func findCommand(name string) *command {
	for _, c := range commands {
		if c.name == name {
			return c
		}
	}
	return nil
}

// options holds flag values; only flags the user set override the config.
type options struct {
	configPath string
	logLevel   string
	output     string
	hash       string
	maxDepth   int

	file  string
	input string
	out   string
}

type env struct {
	cfg    *config.Config
	logger *slog.Logger
	format render.Format
	opts   options

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}
	switch args[0] {
	case "-h", "--help", "help":
		printUsage(stdout)
		return 0
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "error: unknown command %q\n", args[0])
		printUsage(stderr)
		return 2
	}

	flagSet := pflag.NewFlagSet("torrent "+cmd.name, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	var opts options
	flagSet.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.StringVarP(&opts.output, "output", "o", "", "output format: text, json, yaml, cbor, cbor-diag")
	flagSet.StringVar(&opts.hash, "hash", "", "info-hash algorithm: sha1, sha256, md5, blake3")
	flagSet.IntVar(&opts.maxDepth, "max-depth", 0, "maximum list/dictionary nesting")
	if cmd.flags != nil {
		cmd.flags(flagSet, &opts)
	}
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: torrent %s [flags] %s\n\n%s\n\nFlags:\n", cmd.name, cmd.args, cmd.summary)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	e, err := newEnv(cmd, flagSet, opts, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if err := cmd.run(e, flagSet.Args()); err != nil {
		var usage *usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(stderr, "error: %v\n", err)
			flagSet.Usage()
			return 2
		}
		e.logger.Error("command failed", "command", cmd.name, "error", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newEnv(cmd *command, flagSet *pflag.FlagSet, opts options, stdin io.Reader, stdout, stderr io.Writer) (*env, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagSet.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flagSet.Changed("output") {
		cfg.Output = opts.output
	}
	if flagSet.Changed("hash") {
		cfg.HashAlgorithm = opts.hash
	}
	if flagSet.Changed("max-depth") {
		cfg.MaxDepth = opts.maxDepth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format := cmd.format
	if cfg.Output != "" {
		f, err := render.ParseFormat(cfg.Output)
		if err != nil {
			return nil, err
		}
		format = f
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		logger: logging.New(stderr, level).With("command", cmd.name),
		format: format,
		opts:   opts,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: torrent <command> [flags] [arguments]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun 'torrent <command> --help' for the flags of one command.\n")
}
