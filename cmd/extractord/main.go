package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/docextract/internal/async"
	"github.com/joseph-ayodele/docextract/internal/common"
	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/ingest"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
	"github.com/joseph-ayodele/docextract/internal/provider"
	"github.com/joseph-ayodele/docextract/internal/registry"
	"github.com/joseph-ayodele/docextract/internal/repository"
	"github.com/joseph-ayodele/docextract/internal/sink"
	"github.com/joseph-ayodele/docextract/internal/tablezone"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Registry + sink: Postgres when DB_URL is set, file/sqlite local mode
	// otherwise.
	var (
		reg     registry.Registry
		resSink pipeline.Sink
	)
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config(cfg.Database), logger)
		if err != nil {
			logger.Error("open database", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)
		if err := repository.HealthCheck(ctx, pool, 3*time.Second, logger); err != nil {
			logger.Error("database health check failed", "error", err)
			os.Exit(1)
		}
		reg = repository.NewCompanyRepository(pool, logger)
		resSink = sink.NewPostgres(pool, logger)
	} else {
		fileReg, err := registry.OpenFile(cfg.Pipeline.RegistryPath)
		if err != nil {
			logger.Error("load registry config", "path", cfg.Pipeline.RegistryPath, "error", err)
			os.Exit(1)
		}
		reg = fileReg
		if cfg.Pipeline.SQLitePath != "" {
			s, err := sink.OpenSQLite(cfg.Pipeline.SQLitePath, logger)
			if err != nil {
				logger.Error("open sqlite sink", "path", cfg.Pipeline.SQLitePath, "error", err)
				os.Exit(1)
			}
			defer func() { _ = s.Close() }()
			resSink = s
		} else {
			logger.Warn("no sink configured, results are logged only")
		}
	}

	analyzer := provider.NewHTTPClient(cfg.Provider.BaseURL, logger,
		provider.WithAPIKey(cfg.Provider.APIKey),
		provider.WithHTTPClient(&http.Client{Timeout: cfg.Provider.Timeout}),
	)
	fields := extract.NewFieldExtractor(logger)

	var tables *tablezone.Extractor
	if len(cfg.Pipeline.TableHeaders) > 0 {
		tables = tablezone.NewExtractor(cfg.Pipeline.TableHeaders, nil, logger)
	}

	var orch pipeline.Orchestrator
	if cfg.Pipeline.MultiPage {
		orch = pipeline.NewAsyncJob(pipeline.AsyncConfig{
			MaxPollAttempts: cfg.Pipeline.MaxPollAttempts,
			PollInterval:    cfg.Pipeline.PollInterval,
		}, analyzer, reg, fields, tables, logger)
	} else {
		orch = pipeline.NewSinglePage(analyzer, reg, fields, tables, logger)
	}

	proc := pipeline.NewProcessor(orch, resSink, logger)
	var queue async.Queue = async.NewProcessorQueue(proc, logger, async.WithWorkers(cfg.Ingest.Workers))

	// Inbox watcher feeds the queue.
	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Ingest.InboxDir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	})
	if err != nil {
		logger.Error("start inbox watcher", "inbox", cfg.Ingest.InboxDir, "error", err)
		os.Exit(1)
	}
	dedupe := ingest.NewDedupe()
	go func() {
		for path := range evCh {
			seen, err := dedupe.Seen(path)
			if err != nil {
				logger.Warn("hashing document failed, enqueueing anyway", "doc", path, "error", err)
			} else if seen {
				logger.Info("duplicate content, skipping", "doc", path)
				continue
			}
			_ = queue.Enqueue(ctx, async.Job{
				DocURI:      path,
				SubmittedAt: time.Now(),
				TraceID:     uuid.NewString(),
			})
		}
	}()
	go func() {
		for err := range errCh {
			logger.Error("inbox watcher error", "error", err)
		}
	}()

	// gRPC health + reflection for probes and grpcurl.
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("listen", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	go func() {
		logger.Info("gRPC serving", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()

	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(drainCtx)
	logger.Info("stopped")
}
