// Package relayer implements app.Runner for the relayer process.
package relayer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainsafe/htlc-relayer/pkg/app"
	apphttp "github.com/chainsafe/htlc-relayer/pkg/app/http"
	"github.com/chainsafe/htlc-relayer/pkg/app/httpserver"
	redisstore "github.com/chainsafe/htlc-relayer/pkg/checkpoint/redis"
	"github.com/chainsafe/htlc-relayer/pkg/config"
	"github.com/chainsafe/htlc-relayer/pkg/db"
	"github.com/chainsafe/htlc-relayer/pkg/ethereum"
	"github.com/chainsafe/htlc-relayer/pkg/pgutil"
	"github.com/chainsafe/htlc-relayer/pkg/relayer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	defaultHTTPMiddlewareTimeout = 60 * time.Second
	defaultHTTPReadTimeout       = 15 * time.Second
	defaultHTTPWriteTimeout      = 15 * time.Second
	defaultHTTPIdleTimeout       = 60 * time.Second
)

var _ app.Runner = (*Server)(nil)

// Server holds configuration for the relayer process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new relayer Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// storage is the cursor store plus, when postgres backs it, the journal.
type storage struct {
	cursors relayer.CursorStore
	journal *db.Store
	close   func()
}

// Run starts the relay engine and the operational HTTP server.
// It blocks until an OS shutdown signal is received or a fatal server error occurs.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting HTLC relayer",
		zap.String("relayer_id", cfg.Relayer.ID),
		zap.Int64("source_chain_id", cfg.Source.ChainID),
		zap.Int64("destination_chain_id", cfg.Destination.ChainID))

	store, err := s.openStorage(ctx, logger)
	if err != nil {
		return err
	}
	defer store.close()

	destination, err := ethereum.NewClient(ctx, &cfg.Destination, "", logger.Named("destination"))
	if err != nil {
		return fmt.Errorf("initialize destination client: %w", err)
	}
	defer destination.Close()

	source, err := ethereum.NewClient(ctx, &cfg.Source, cfg.Relayer.PrivateKey, logger.Named("source"))
	if err != nil {
		return fmt.Errorf("initialize source client: %w", err)
	}
	defer source.Close()

	var journal relayer.Journal
	if store.journal != nil {
		journal = store.journal
	}

	engine, err := relayer.NewEngine(cfg, destination, source, store.cursors, journal, logger.Named("engine"))
	if err != nil {
		return fmt.Errorf("create relayer engine: %w", err)
	}

	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start relayer engine: %w", err)
	}
	defer engine.Stop()

	var reader FinalizationReader
	if store.journal != nil {
		reader = store.journal
	}
	router := s.newRouter(engine, reader, logger)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := newHTTPServer(serverAddr, router)

	return httpserver.ServeAndWait(ctx, logger, httpServer, cfg.Server.ShutdownTimeout)
}

func (s *Server) openStorage(ctx context.Context, logger *zap.Logger) (*storage, error) {
	switch s.cfg.Relayer.CursorStore {
	case config.CursorStorePostgres:
		bdb, err := pgutil.ConnectDB(ctx, &s.cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connect relayer db: %w", err)
		}
		pg := db.NewStore(bdb)
		return &storage{cursors: pg, journal: pg, close: func() { _ = bdb.Close() }}, nil

	case config.CursorStoreRedis:
		rs, err := redisstore.NewStore(ctx, &s.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("Using redis cursor store, finalization journal disabled")
		return &storage{cursors: rs, close: func() { _ = rs.Close() }}, nil

	case config.CursorStoreMemory:
		logger.Warn("Using in-memory cursor store, progress is lost on restart")
		return &storage{cursors: relayer.NewMemoryCursorStore(), close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown cursor store %q", s.cfg.Relayer.CursorStore)
	}
}

func (s *Server) newRouter(engine EngineStatus, journal FinalizationReader, logger *zap.Logger) http.Handler {
	cfg := s.cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultHTTPMiddlewareTimeout))
	r.Use(requestLogger(logger.Named("http")))

	r.Get("/health", handleHealth)
	r.Get("/ready", handleReady(engine))

	if cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", apphttp.HandleError(logger, handleGetStatus(engine, cfg.Relayer.ReplicaCount, cfg.Relayer.ReplicaOffset)))
		if journal != nil {
			r.Get("/finalizations", apphttp.HandleError(logger, handleListFinalizations(journal)))
			r.Get("/finalizations/{commitment}", apphttp.HandleError(logger, handleGetFinalizations(journal)))
		}
	})

	return r
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  defaultHTTPReadTimeout,
		WriteTimeout: defaultHTTPWriteTimeout,
		IdleTimeout:  defaultHTTPIdleTimeout,
	}
}
