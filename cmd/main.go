package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"faultsim/config"
	"faultsim/daemon"
	"faultsim/fault"
	"faultsim/monitor"
	"faultsim/ui"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		usage()
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {

	case "tui":
		err = runTUI(ctx, cfg)

	case "daemon":
		err = runDaemon(ctx, cfg)

	case "compare":
		err = runCompare(cfg)

	case "analyze":
		err = runAnalyze(cfg)

	case "inject":
		if len(os.Args) < 3 {
			usage()
			os.Exit(2)
		}
		err = runInject(cfg, os.Args[2])

	default:
		fmt.Println("unknown command:", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`
        faultsim commands:
        faultsim tui             → interactive simulator
        faultsim daemon          → inject and recover faults on an interval
        faultsim compare         → compare scheduling and page replacement
        faultsim analyze         → full system analysis
        faultsim inject <kind>   → inject one fault and recover (deadlock, cpu_overload, thrashing)
        faultsim help            → show help
    `)
}

// newLogger writes to w at the configured level, falling back to info.
func newLogger(cfg *config.SimConfig, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func newEngine(cfg *config.SimConfig, w io.Writer) (*monitor.Engine, error) {
	engine := monitor.NewEngine(cfg, newLogger(cfg, w))
	if err := engine.Init(); err != nil {
		return nil, err
	}
	return engine, nil
}

func runTUI(ctx context.Context, cfg *config.SimConfig) error {
	// The alternate screen owns stdout, so log to a file.
	f, err := os.OpenFile(config.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	engine, err := newEngine(cfg, f)
	if err != nil {
		return err
	}
	return ui.Run(ctx, engine, cfg.Interval())
}

func runDaemon(ctx context.Context, cfg *config.SimConfig) error {
	logger := newLogger(cfg, os.Stderr).WithField("component", "daemon")
	engine := monitor.NewEngine(cfg, logger)

	d := daemon.New(engine, cfg, config.ConfigPath(), logger)
	return d.Run(ctx)
}

func runCompare(cfg *config.SimConfig) error {
	engine, err := newEngine(cfg, os.Stderr)
	if err != nil {
		return err
	}
	c, err := engine.Compare()
	if err != nil {
		return err
	}
	fmt.Print(ui.RenderProcessTable(engine.Records()))
	fmt.Println()
	fmt.Print(ui.RenderComparison(c))
	return nil
}

func runAnalyze(cfg *config.SimConfig) error {
	engine, err := newEngine(cfg, os.Stderr)
	if err != nil {
		return err
	}
	a, err := engine.Analyze()
	if err != nil {
		return err
	}
	fmt.Print(ui.RenderProcessTable(engine.Records()))
	fmt.Println()
	fmt.Print(ui.RenderAnalysis(a))
	return nil
}

func runInject(cfg *config.SimConfig, arg string) error {
	kind, err := fault.ParseKind(arg)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, os.Stderr)
	if err != nil {
		return err
	}
	out, err := engine.InjectAndRecover(kind)
	fmt.Print(ui.RenderOutcome(out))
	fmt.Println()
	fmt.Print(ui.RenderProcessTable(engine.Records()))
	return err
}
