// Yatrad is the travel query-understanding daemon.
//
// It loads a destination catalog, builds the TF-IDF vocabulary, and
// serves the query pipeline over HTTP.
//
// Usage:
//
//	# Start with defaults and the seeded catalog
//	yatrad
//
//	# Use a config file and an external catalog
//	yatrad -config /etc/yatra/yatra.yaml
//
//	# Configure via environment
//	YATRA_SERVER_PORT=9090 YATRA_LLM_API_KEY=... yatrad
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

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/yatra/internal/catalog"
	"github.com/fyrsmithlabs/yatra/internal/config"
	"github.com/fyrsmithlabs/yatra/internal/httpapi"
	"github.com/fyrsmithlabs/yatra/internal/logging"
	"github.com/fyrsmithlabs/yatra/internal/orchestrator"
	"github.com/fyrsmithlabs/yatra/internal/services"

	"github.com/fyrsmithlabs/yatra/internal/budget"
	"github.com/fyrsmithlabs/yatra/internal/entities"
	"github.com/fyrsmithlabs/yatra/internal/intent"
	"github.com/fyrsmithlabs/yatra/internal/llm"
	"github.com/fyrsmithlabs/yatra/internal/recommend"
	"github.com/fyrsmithlabs/yatra/internal/retriever"
	"github.com/fyrsmithlabs/yatra/internal/vectorizer"
	"github.com/fyrsmithlabs/yatra/internal/websearch"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  yatrad           Start the yatra daemon\n")
			fmt.Fprintf(os.Stderr, "  yatrad version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("yatrad by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires the services and blocks until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("starting yatrad",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("llm_enabled", cfg.LLM.Enabled),
		zap.Bool("websearch_enabled", cfg.WebSearch.Enabled))

	cat, err := loadCatalog(cfg.Catalog.Path, logger)
	if err != nil {
		return err
	}

	vec := vectorizer.New(cat.Texts(), logger)
	reg := services.NewRegistry(services.Options{
		Catalog:    cat,
		Vectorizer: vec,
		Classifier: intent.NewClassifier(),
		Extractor:  entities.NewExtractor(),
		Retriever: retriever.New(cat, vec, logger,
			retriever.WithTopN(cfg.Retrieval.TopN),
			retriever.WithThreshold(cfg.Retrieval.Threshold)),
		Engine:    recommend.NewEngine(cat, logger),
		Estimator: budget.NewEstimator(cat, logger),
		Model:     llm.NewClient(cfg.LLM, logger),
		Web:       websearch.NewClient(cfg.WebSearch, logger),
	})

	orchOpts := orchestrator.Options{
		Classifier: reg.Classifier(),
		Extractor:  reg.Extractor(),
		Retriever:  reg.Retriever(),
		Engine:     reg.Engine(),
		Estimator:  reg.Estimator(),
		Logger:     logger,
	}
	if cfg.LLM.Enabled {
		orchOpts.Model = reg.Model()
	}
	if cfg.WebSearch.Enabled {
		orchOpts.Web = reg.Web()
	}
	orch, err := orchestrator.New(orchOpts)
	if err != nil {
		return err
	}

	srv, err := httpapi.NewServer(orch, reg.Engine(), logger, httpapi.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		watcher, err := catalog.NewWatcher(cfg.Catalog.Path, func(fresh *catalog.Catalog) {
			if err := cat.Replace(fresh.Items()); err != nil {
				logger.Warn("catalog reload rejected", zap.Error(err))
				return
			}
			vec.Rebuild(cat.Texts())
			logger.Info("catalog reloaded", zap.Int("items", cat.Len()))
		}, logger)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

// loadCatalog reads the catalog file, falling back to the seeded
// default when no path is configured.
func loadCatalog(path string, logger *zap.Logger) (*catalog.Catalog, error) {
	if path == "" {
		logger.Info("using seeded catalog")
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	logger.Info("catalog loaded", zap.String("path", path), zap.Int("items", cat.Len()))
	return cat, nil
}
