package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipegrip/internal/config"
	"recipegrip/internal/domain"
	"recipegrip/internal/eventbus"
	"recipegrip/internal/logging"
	"recipegrip/internal/metrics"
	"recipegrip/internal/paging"
	"recipegrip/internal/source"
	"recipegrip/internal/ui"
)

// Demo fetches pause briefly so the loading indicator behaves like the API
const demoLatency = 300 * time.Millisecond

type options struct {
	configPath  string
	query       string
	demo        bool
	metricsAddr string
	logFile     string
	logLevel    string
}

func main() {
	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "recipegrip [query]",
		Short: "Browse Edamam recipe search results page by page",
		Long: `recipegrip searches the Edamam recipe API and pages through the
results in the terminal.

Credentials come from the config file or the EDAMAM_APP_ID and
EDAMAM_APP_KEY environment variables. Without them recipegrip runs
against generated demo data.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.query = strings.Join(args, " ")
			}
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "search for this as soon as the UI starts")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "use generated demo data instead of the API")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	cmd.AddCommand(newInitConfigCmd(opts))
	return cmd
}

func newInitConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil {
				return errors.Errorf("%s already exists", path)
			}
			if err := config.NewConfigServiceAt(path).Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func loadConfig(opts *options) (*config.Config, error) {
	configSvc := config.NewConfigService()
	if opts.configPath != "" {
		configSvc = config.NewConfigServiceAt(opts.configPath)
	}
	cfg, err := configSvc.Load()
	if err != nil {
		cfg = config.DefaultConfig()
		cfg.ApplyEnv()
	}

	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, err
}

func run(ctx context.Context, opts *options) error {
	cfg, loadErr := loadConfig(opts)

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if loadErr != nil {
		logger.Warn("error loading config, using defaults", zap.Error(loadErr))
	}

	bus := eventbus.New(logger)
	defer bus.Close()
	defer logging.Audit(bus, logger)()

	reg := prometheus.NewRegistry()
	defer metrics.NewRecorder(reg).Attach(bus)()

	src, demo := buildSource(cfg, opts.demo, logger)
	ctrl := paging.NewController[domain.Recipe](src, cfg.PagingSettings(),
		paging.WithEventBus(bus),
		paging.WithLogger(logger))

	model := ui.NewModel(ctrl, cfg,
		ui.WithInitialQuery(opts.query),
		ui.WithDemo(demo),
		ui.WithLogger(logger))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	defer forwardEvents(bus, p, logger, eventbus.EventNavigationRejected)()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if cfg.MetricsAddr != "" {
		serveMetrics(gctx, g, cfg.MetricsAddr, reg, logger)
	}

	g.Go(func() error {
		defer cancel()
		logger.Info("starting", zap.Bool("demo", demo), zap.String("query", opts.query))
		if _, err := p.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return errors.WithStack(err)
		}
		return nil
	})

	return g.Wait()
}

// buildSource picks the Edamam API behind a circuit breaker, or demo data
// when asked to or when no credentials are configured
func buildSource(cfg *config.Config, demo bool, logger *zap.Logger) (paging.Source[domain.Recipe], bool) {
	if demo || !cfg.HasCredentials() {
		if !demo {
			logger.Info("no API credentials configured, using demo data")
		}
		total := cfg.Paging.ResultCap
		mem := source.NewMemoryFunc(func(query string) []domain.Recipe {
			return source.DemoRecipes(query, total)
		})
		return mem.WithLatency(demoLatency), true
	}

	api := source.NewEdamam(cfg.EdamamConfig(), nil, logger)
	return source.NewBreaker[domain.Recipe](api, cfg.BreakerSettings(), logger), false
}

// serveMetrics runs the metrics endpoint until ctx is done. A failing
// listener is logged and leaves the UI running.
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// forwardEvents sends events of the given types to the UI until the
// returned function is called
func forwardEvents(bus eventbus.EventBus, p *tea.Program, logger *zap.Logger, types ...eventbus.EventType) func() {
	eventChan := make(chan eventbus.DomainEvent, 100)
	done := make(chan struct{})

	unsubscribe := make([]func(), 0, len(types))
	for _, t := range types {
		unsubscribe = append(unsubscribe, bus.Subscribe(t, func(e eventbus.DomainEvent) {
			select {
			case eventChan <- e:
			default:
				// Channel full, drop event
				logger.Warn("event channel full, dropping event", zap.String("type", string(e.Type())))
			}
		}))
	}

	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-done:
				return
			}
		}
	}()

	return func() {
		for _, unsub := range unsubscribe {
			unsub()
		}
		close(done)
	}
}
