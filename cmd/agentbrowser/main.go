// Package main provides agentbrowser, a multi-tab terminal browser shell
// whose omnibar can search, navigate, or ask an LLM agent to generate an
// app into a new tab.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/agentbrowser/pkg/browser"
	appconfig "github.com/entrhq/agentbrowser/pkg/config"
	"github.com/entrhq/agentbrowser/pkg/executor/tui"
	"github.com/entrhq/agentbrowser/pkg/generate"
	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/metrics"
	"github.com/entrhq/agentbrowser/pkg/shell"
)

const version = "0.1.0"

// Config holds the command line configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	ConfigPath  string
	LogLevel    string
	MetricsAddr string
	ShowVersion bool
	Headless    bool
	Script      string
	SkipInstall bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("agentbrowser v%s\n", version)
		return
	}

	if err := config.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if runErr := run(ctx, config); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.APIKey, "api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	flag.StringVar(&config.BaseURL, "base-url", "", "OpenAI API base URL (or set OPENAI_BASE_URL env var)")
	flag.StringVar(&config.Model, "model", "", "LLM model used to generate apps")
	flag.StringVar(&config.ConfigPath, "config", "", "Path to config file (default: ~/.agentbrowser/config.json)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")
	flag.BoolVar(&config.Headless, "headless", false, "Run a script without the terminal UI")
	flag.StringVar(&config.Script, "script", "", "Path to a browsing script (YAML), required with -headless")
	flag.BoolVar(&config.SkipInstall, "skip-install", false, "Do not download the Chromium build on startup")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "agentbrowser - a terminal browser with an app-generating omnibar\n\n")
		fmt.Fprintf(os.Stderr, "Usage: agentbrowser [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY     OpenAI API key\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL    OpenAI API base URL (for compatible APIs)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  agentbrowser\n")
		fmt.Fprintf(os.Stderr, "  agentbrowser -model gpt-4o -metrics-addr :9090\n")
		fmt.Fprintf(os.Stderr, "  agentbrowser -headless -script smoke.yaml\n")
	}

	flag.Parse()
	return config
}

// validate checks that the configuration is valid
func (c *Config) validate() error {
	if c.Headless && c.Script == "" {
		return fmt.Errorf("headless mode requires a script (use -script flag)")
	}
	if !c.Headless && c.Script != "" {
		return fmt.Errorf("-script is only used with -headless")
	}
	return nil
}

// app is everything run builds before choosing a front end.
type app struct {
	shell   *shell.Shell
	runtime *browser.Runtime
	logger  *logging.Logger
}

func run(ctx context.Context, config *Config) error {
	logging.SetLevel(logging.ParseLevel(config.LogLevel))
	logger, logErr := logging.NewLogger("main")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", logErr)
	}
	defer logger.Close()

	a, err := setup(ctx, config, logger)
	if err != nil {
		return err
	}
	defer a.shutdown()

	if config.Headless {
		return runHeadless(ctx, config, a)
	}

	fmt.Printf("agentbrowser v%s\n", version)
	fmt.Printf("Log file: %s\n", logger.LogPath())
	fmt.Println("\nStarting TUI...")

	if err := tui.NewExecutor(a.shell, logger.With("tui")).Run(ctx); err != nil {
		return fmt.Errorf("executor error: %w", err)
	}
	return nil
}

// setup loads the config and builds the agent service, the Chromium
// runtime and the shell.
func setup(ctx context.Context, config *Config, logger *logging.Logger) (*app, error) {
	cfg, err := appconfig.Load(config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if config.Headless {
		cfg.Browser.SetHeadless(true)
	}
	settings := cfg.Browser.Snapshot()

	provider, err := appconfig.BuildProvider(appconfig.ProviderFlags{
		Model:   config.Model,
		BaseURL: config.BaseURL,
		APIKey:  config.APIKey,
	}, cfg.LLM)
	if err != nil {
		return nil, err
	}
	logger.Infof("using model %s", provider.GetModel())

	generator := generate.NewLLMGenerator(provider, logger.With("generate"))
	agent := generate.NewService(generator, settings.GenerationTimeout, logger.With("agent"))

	runtime := browser.NewRuntime(browser.Options{
		Headless:       settings.Headless,
		ViewportWidth:  settings.ViewportWidth,
		ViewportHeight: settings.ViewportHeight,
		SkipInstall:    config.SkipInstall,
	}, logger.With("browser"))
	if err := runtime.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	m := metrics.New()
	if config.MetricsAddr != "" {
		serveMetrics(ctx, config.MetricsAddr, m, logger)
	}

	sh := shell.New(runtime, agent, shell.Options{
		HomeURL:    settings.HomeURL,
		SearchURL:  settings.SearchURL,
		SearchHome: settings.SearchHomeURL,
		Metrics:    m,
		Logger:     logger,
		Context:    ctx,
	})

	return &app{shell: sh, runtime: runtime, logger: logger}, nil
}

func (a *app) shutdown() {
	if err := a.shell.Shutdown(); err != nil {
		a.logger.Warnf("shell shutdown: %v", err)
	}
	if err := a.runtime.Shutdown(); err != nil {
		a.logger.Warnf("browser shutdown: %v", err)
	}
}

// serveMetrics exposes m on addr until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics server: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
