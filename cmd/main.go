package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// Interne
	"github.com/jupiterclapton/chirp/config"
	http_adapter "github.com/jupiterclapton/chirp/internal/adapters/primary/http"
	"github.com/jupiterclapton/chirp/internal/adapters/secondary/directory"
	"github.com/jupiterclapton/chirp/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/chirp/internal/adapters/secondary/ratelimit"
	"github.com/jupiterclapton/chirp/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/chirp/internal/auth"
	"github.com/jupiterclapton/chirp/internal/core/domain"
	"github.com/jupiterclapton/chirp/internal/core/ports"
	"github.com/jupiterclapton/chirp/internal/core/services"
	"github.com/jupiterclapton/chirp/pkg/logger"
	"github.com/jupiterclapton/chirp/pkg/telemetry"
)

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		// Le logger n'est pas encore configuré : handler par défaut
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Env)
	slog.Info("🚀 Starting Chirp", "config", cfg.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	tp, err := telemetry.InitTracer(ctx, cfg.OtelEndpoint, cfg.ServiceName, cfg.Env)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure: Base de données (Postgres)
	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		slog.Error("Unable to parse DB config", "error", err)
		os.Exit(1)
	}
	// Instrumentation SQL (Pour voir les requêtes dans Jaeger)
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		slog.Error("Database unreachable", "error", err)
		os.Exit(1)
	}
	postRepo := repository.NewPostgresRepo(dbPool)
	if err := postRepo.EnsureSchema(ctx); err != nil {
		slog.Error("Failed to apply schema", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Postgres")

	// 4. Infrastructure: Event Broker (NATS)
	nc, err := nats.Connect(cfg.NatsUrl, nats.Name(cfg.ServiceName))
	if err != nil {
		slog.Error("Unable to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("✅ Connected to NATS")

	// 5. Infrastructure: Redis (optionnel, rate limiting)
	var limiter ports.RateLimiter = ratelimit.AllowAll{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		// Instrumentation Redis
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			slog.Error("Failed to instrument Redis", "error", err)
			os.Exit(1)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitPosts, cfg.RateLimitWindow)
		slog.Info("✅ Connected to Redis", "limit", cfg.RateLimitPosts, "window", cfg.RateLimitWindow)
	} else {
		slog.Warn("REDIS_ADDR not set, post rate limiting disabled")
	}

	// 6. Annuaire d'identité (HTTP)
	profiles, err := directory.NewHTTPDirectory(cfg.DirectoryURL, cfg.DirectoryAPIKey, cfg.DirectoryTimeout)
	if err != nil {
		slog.Error("Invalid directory configuration", "error", err)
		os.Exit(1)
	}

	// 7. Sessions (clé publique du fournisseur d'identité)
	verifier, err := loadVerifier(cfg.SessionPublicKeyPath, cfg.SessionIssuer)
	if err != nil {
		slog.Error("Failed to load session verifier", "error", err)
		os.Exit(1)
	}

	// 8. Initialisation du Core (Domain Logic)
	eventPub := eventbroker.NewNatsPublisher(nc)
	feedService := services.NewFeedService(postRepo, profiles)
	postService := services.NewPostService(postRepo, limiter, eventPub, domain.ContentPolicy{MaxLength: cfg.PostMaxLength})

	// 9. Chaîne de Middlewares HTTP
	var h http.Handler = http_adapter.NewServer(feedService, postService, http_adapter.WithTrustedOrigins(cfg.CORSAllowedOrigins)).Routes()

	// A. Auth (Injecte le Caller)
	h = auth.Middleware(verifier)(h)

	// B. CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "traceparent", "baggage"},
		AllowCredentials: true,
	})
	h = c.Handler(h)

	// C. OTEL HTTP (Racine)
	h = otelhttp.NewHandler(h, "chirp-http", otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))

	srvHTTP := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// 10. gRPC : Health Check standard pour K8s/Docker
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	// Reflection pour grpcurl, hors prod
	if !cfg.IsProd() {
		reflection.Register(grpcServer)
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		slog.Error("Failed to listen", "error", err)
		os.Exit(1)
	}

	// 11. Démarrage
	go func() {
		slog.Info("📡 Health listening", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server error", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		slog.Info("📡 Chirp listening", "port", cfg.HTTPPort)
		if err := srvHTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	grpcServer.GracefulStop()

	slog.Info("👋 Server exited")
}

func loadVerifier(path, issuer string) (*auth.JWTVerifier, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session public key: %w", err)
	}
	return auth.NewJWTVerifier(pem, issuer)
}
