// Command configwatchd resolves and watches quick-lint-js configuration
// files on behalf of a set of source files read from stdin, emitting a
// ConfigChangedEvent on its bus whenever the configuration in effect
// for a source changes.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/basket/configwatch/internal/bus"
	"github.com/basket/configwatch/internal/config"
	"github.com/basket/configwatch/internal/daemoncfg"
	"github.com/basket/configwatch/internal/fsio"
	otelPkg "github.com/basket/configwatch/internal/otel"
	"github.com/basket/configwatch/internal/refresh"
	"github.com/basket/configwatch/internal/resolver"
	"github.com/basket/configwatch/internal/telemetry"
	"github.com/basket/configwatch/internal/tui"
	"github.com/basket/configwatch/internal/watchengine"
	"github.com/basket/configwatch/internal/watchschedule"
)

// Version is set via ldflags at build time: -ldflags "-X main.Version=..."
var Version = "v0.1-dev"

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage of %s:

Reads newline-separated source file paths from stdin and watches the
project configuration in effect for each, resolved per the ancestor-
directory walk quick-lint-js uses.

  %s                    Watch sources read from stdin (dashboard if a TTY)
  %s -daemon            Same, but force plain-log mode (no TUI)
  %s status                      Check daemon health (/healthz)
  %s doctor [-json] [-config P]  Run diagnostic checks, optionally
                                 advisory-checking config file P

FLAGS:
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
	flag.PrintDefaults()
}

func main() {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("CONFIGWATCHD_NO_TUI") == ""
	daemon := flag.Bool("daemon", false, "force plain-log mode (no dashboard)")
	flag.Usage = printUsage
	flag.Parse()
	if *daemon {
		interactive = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args := flag.Args(); len(args) > 0 {
		switch strings.ToLower(strings.TrimSpace(args[0])) {
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		case "status":
			os.Exit(runStatusCommand(ctx, args[1:]))
		case "doctor":
			os.Exit(runDoctorCommand(ctx, args[1:]))
		}
	}

	cfg, err := daemoncfg.Load()
	if err != nil {
		fatalStartup(nil, "E_CONFIG_LOAD", err)
	}

	logger, closer, err := telemetry.NewLogger(cfg.HomeDir, cfg.LogLevel, interactive)
	if err != nil {
		fatalStartup(nil, "E_LOGGER_INIT", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)
	logger.Info("startup phase", "phase", "config_loaded")

	otelProvider, err := otelPkg.Init(ctx, cfg.OTel)
	if err != nil {
		fatalStartup(logger, "E_OTEL_INIT", err)
	}
	defer otelProvider.Shutdown(ctx)
	metrics, err := otelPkg.NewMetrics(otelProvider.Meter)
	if err != nil {
		fatalStartup(logger, "E_OTEL_METRICS_INIT", err)
	}

	eventBus := bus.New()
	cache := config.NewCache()
	engine := watchengine.New(logger, watchengine.WithMetrics(metrics))
	if err := engine.Start(ctx); err != nil {
		fatalStartup(logger, "E_WATCH_ENGINE_START", err)
	}
	defer engine.Close()

	reader := fsio.Disk{}
	r := resolver.New(reader, cache, engine)
	coord := refresh.New(r, cache, reader, eventBus, logger)

	registerSourcesFromStdin(coord, logger)

	server := startHealthServer(cfg.BindAddr, logger, coord)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	var lastCacheSize, lastWatchedDirs int64

	runRefresh := func(refreshCtx context.Context) {
		start := time.Now()
		changes := coord.Refresh(refreshCtx)
		metrics.RefreshDuration.Record(refreshCtx, time.Since(start).Seconds())
		if len(changes) > 0 {
			metrics.ChangesEmitted.Add(refreshCtx, int64(len(changes)))
			for _, ch := range changes {
				logger.Info("configuration changed", "source_path", ch.SourcePath, "config_path", ch.Config.Path().String())
			}
		}

		newCacheSize := int64(cache.Len())
		metrics.CacheSize.Add(refreshCtx, newCacheSize-lastCacheSize)
		lastCacheSize = newCacheSize

		newWatchedDirs := int64(engine.WatchedDirectoryCount())
		metrics.WatchedDirectories.Add(refreshCtx, newWatchedDirs-lastWatchedDirs)
		lastWatchedDirs = newWatchedDirs
	}

	safetyNet, err := watchschedule.New(fmt.Sprintf("%ds", int(cfg.SafetyNetInterval().Seconds())), logger, runRefresh)
	if err != nil {
		fatalStartup(logger, "E_SCHEDULE_INIT", err)
	}
	safetyNet.Start()
	defer safetyNet.Stop()

	go func() {
		for range engine.Changes() {
			runRefresh(ctx)
		}
	}()

	if interactive {
		provider := func() tui.Snapshot {
			return snapshotFromCoordinator(coord, cache, engine)
		}
		if err := tui.Run(ctx, provider); err != nil && ctx.Err() == nil {
			logger.Error("dashboard exited with error", "error", err)
		}
		stop()
	}

	<-ctx.Done()
	logger.Info("shutdown complete")
}

func registerSourcesFromStdin(coord *refresh.Coordinator, logger *slog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, _, err := coord.Register(line); err != nil {
			logger.Warn("failed to register source", "source_path", line, "error", err)
		}
	}
}

func snapshotFromCoordinator(coord *refresh.Coordinator, cache *config.Cache, engine *watchengine.Engine) tui.Snapshot {
	sources := coord.Sources()
	rows := make([]tui.SourceRow, 0, len(sources))
	for _, s := range sources {
		configPath := ""
		if s.HasConfig() {
			configPath = s.RecordedConfigPath.String()
		}
		rows = append(rows, tui.SourceRow{SourcePath: s.SourcePath, ConfigPath: configPath})
	}
	return tui.Snapshot{
		Sources:      rows,
		WatchedDirs:  engine.WatchedDirectoryCount(),
		CacheEntries: cache.Len(),
	}
}

type healthResponse struct {
	Status       string `json:"status"`
	SourceCount  int    `json:"source_count"`
	CacheEntries int    `json:"cache_entries"`
}

func startHealthServer(addr string, logger *slog.Logger, coord *refresh.Coordinator) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:      "ok",
			SourceCount: len(coord.Sources()),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()
	return server
}

func fatalStartup(logger *slog.Logger, reasonCode string, err error) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	if logger != nil {
		logger.Error("startup failure", "reason_code", reasonCode, "error", message)
	} else {
		fmt.Fprintf(os.Stderr, "startup failure [%s]: %s\n", reasonCode, message)
	}
	os.Exit(1)
}
