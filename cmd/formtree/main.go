package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var errUsage = errors.New("formtree: usage")

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"flatten":      {"print the flattened element list of a definition", runFlatten},
	"classify":     {"report whether a definition only displays information", runClassify},
	"placeholders": {"list {ELEMENT:name} references found in element text", runPlaceholders},
	"sanitize":     {"sanitize an HTML fragment from a file or stdin", runSanitize},
	"validate":     {"validate definition files or directories", runValidate},
	"import":       {"build a definition from an OpenAPI operation", runImport},
	"schema":       {"print the JSON Schema of the definition format", runSchema},
	"confirmation": {"encode or decode a confirmation element name", runConfirmation},
}

type app struct {
	cfg    Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *logrus.Logger
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	err = run(context.Background(), os.Args[1:], cfg, os.Stdin, os.Stdout, os.Stderr)
	if code := exitCode(os.Stderr, err); code != 0 {
		os.Exit(code)
	}
}

// exitCode prints err to w and maps it to a process status: 2 for usage
// errors, 1 otherwise. A bare usage request has already listed the commands
// and flag.ErrHelp has already printed the flag defaults.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case err == errUsage, errors.Is(err, flag.ErrHelp):
		return 2
	case errors.Is(err, errUsage):
		fmt.Fprintln(w, err)
		return 2
	default:
		fmt.Fprintln(w, err)
		return 1
	}
}

func run(ctx context.Context, args []string, cfg Config, stdin io.Reader, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	a := &app{cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr, log: logger}

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		return errUsage
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	a.log.WithField("command", args[0]).Debug("running command")
	return cmd.run(ctx, a, args[1:])
}

func (a *app) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(a.stderr, "usage: formtree <command> [flags] [args]")
	fmt.Fprintln(a.stderr)
	for _, name := range names {
		fmt.Fprintf(a.stderr, "  %-13s %s\n", name, commands[name].summary)
	}
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// write encodes v to stdout as json or yaml.
func (a *app) write(format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("formtree: unsupported output format %q", format)
	}
}
