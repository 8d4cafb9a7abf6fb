package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"icsvalidate/internal/config"
	appLog "icsvalidate/internal/log"
	"icsvalidate/internal/pipeline"
	"icsvalidate/internal/report"
	"icsvalidate/internal/watch"
	"icsvalidate/internal/web"
)

const version = "0.1.0"

// flagConfig holds CLI flag values; non-zero values override the config file.
type flagConfig struct {
	configPath string
	out        string
	format     string
	logLevel   string
	listen     string
	crossCheck bool
	watch      bool
	serve      bool

	// location is the first positional argument.
	location string
}

func main() {
	flags := parseFlags(flag.CommandLine, os.Args[1:])

	// .env is optional.
	if err := godotenv.Load(); err != nil {
		appLog.Debug("no .env loaded", "reason", err.Error())
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	conf.ApplyEnv(os.LookupEnv)
	flags.applyTo(conf)
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	location := flags.location
	if location == "" && !flags.serve {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <calendar file or URL>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	appLog.Debug("effective config",
		"version", version,
		"report_path", conf.ReportPath,
		"format", conf.Format,
		"console", conf.Console,
		"cross_check", conf.CrossCheck,
		"suggestions", conf.Suggestions,
		"watch", flags.watch,
		"serve", flags.serve,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	runner := pipeline.NewRunner(conf, nil)

	if !flags.watch && !flags.serve {
		if err := validateOnce(ctx, runner, conf, location); err != nil {
			appLog.Error("validation failed", err, "source", location)
			os.Exit(1)
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	if flags.serve {
		g.Go(func() error {
			return web.NewServer(conf, runner).ListenAndServe(gctx, conf.Listen)
		})
	}
	if location != "" {
		g.Go(func() error {
			if !flags.watch {
				return validateOnce(gctx, runner, conf, location)
			}
			return watch.Run(gctx, location, conf.RefreshCron, func(ctx context.Context) {
				if err := validateOnce(ctx, runner, conf, location); err != nil {
					appLog.Error("validation failed", err, "source", location)
				}
			})
		})
	}

	if err := g.Wait(); err != nil {
		appLog.Error("icsvalidate stopped with error", err)
		os.Exit(1)
	}
	appLog.Info("icsvalidate exiting")
}

// validateOnce validates location, writes the report file and mirrors it to
// stdout when enabled.
func validateOnce(ctx context.Context, runner *pipeline.Runner, conf *config.Config, location string) error {
	rep, err := runner.Run(ctx, location)
	if err != nil {
		return err
	}

	if err := report.WriteFile(conf.ReportPath, rep, conf.Format); err != nil {
		return err
	}
	appLog.Info("report written", "path", conf.ReportPath, "run_id", rep.RunID)

	if conf.Console {
		if err := report.Render(os.Stdout, rep, conf.Format); err != nil {
			return fmt.Errorf("print report: %w", err)
		}
	}
	return nil
}

// parseFlags parses args into fs. fs is normally flag.CommandLine, which
// exits on a parse error.
func parseFlags(fs *flag.FlagSet, args []string) flagConfig {
	var cfg flagConfig

	fs.StringVar(&cfg.configPath, "config", "", "Path to YAML config file (created with defaults if missing)")
	fs.StringVar(&cfg.out, "out", "", "Report output path (overrides config)")
	fs.StringVar(&cfg.format, "format", "", "Report format: text, json or yaml (overrides config)")
	fs.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	fs.StringVar(&cfg.listen, "listen", "", "HTTP listen address for -serve (overrides config)")
	fs.BoolVar(&cfg.crossCheck, "cross-check", false, "Also parse the document with a full iCalendar library")
	fs.BoolVar(&cfg.watch, "watch", false, "Re-validate whenever the source changes")
	fs.BoolVar(&cfg.serve, "serve", false, "Serve the validation HTTP API")

	_ = fs.Parse(args)
	cfg.location = fs.Arg(0)

	return cfg
}

func (f flagConfig) applyTo(conf *config.Config) {
	if f.out != "" {
		conf.ReportPath = f.out
	}
	if f.format != "" {
		conf.Format = f.format
	}
	if f.logLevel != "" {
		conf.LogLevel = f.logLevel
	}
	if f.listen != "" {
		conf.Listen = f.listen
	}
	if f.crossCheck {
		conf.CrossCheck = true
	}
	conf.Normalize()
}
