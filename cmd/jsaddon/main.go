package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/jsaddon/deferral"
	"github.com/wippyai/jsaddon/errctx"
	"github.com/wippyai/jsaddon/host"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to YAML config file")
		script      = flag.String("script", "", "Path to JavaScript file to run")
		expr        = flag.String("e", "", "JavaScript expression to evaluate")
		workers     = flag.Int64("workers", 0, "Deferred work concurrency (overrides config)")
		maxPairs    = flag.Int("max-pairs", 0, "Container capacity, 0 for unbounded (overrides config)")
		logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		list        = flag.Bool("list", false, "List addon methods and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = *workers
		case "max-pairs":
			cfg.MaxPairs = *maxPairs
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	errctx.SetLogger(logger.Named("errctx"))
	deferral.SetLogger(logger.Named("deferral"))
	host.SetLogger(logger.Named("host"))

	s := newSession(cfg)

	if *list {
		for _, name := range s.addon.Methods() {
			fmt.Println(name)
		}
		return
	}

	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))
	if *interactive || (*script == "" && *expr == "" && stdinTTY) {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	name, src, err := source(*script, *expr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("running script", zap.String("name", name), zap.Int64("workers", cfg.Workers))
	out, err := s.runScript(name, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *expr != "" {
		fmt.Println(out)
	}
}

// source picks the program to run: -e, then -script, then stdin.
func source(script, expr string) (name, src string, err error) {
	switch {
	case expr != "":
		return "<expr>", expr, nil
	case script != "":
		data, err := os.ReadFile(script)
		if err != nil {
			return "", "", fmt.Errorf("read script: %w", err)
		}
		return script, string(data), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}
}
