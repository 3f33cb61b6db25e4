package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	configs "github.com/rhq-project/rhq-coregui/config"
	"github.com/rhq-project/rhq-coregui/internal/handler"
	"github.com/rhq-project/rhq-coregui/internal/middleware"
	"github.com/rhq-project/rhq-coregui/internal/router"
	"github.com/rhq-project/rhq-coregui/internal/service"
	"github.com/rhq-project/rhq-coregui/pkg/circuit"
	"github.com/rhq-project/rhq-coregui/pkg/database"
	"github.com/rhq-project/rhq-coregui/pkg/health"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"github.com/rhq-project/rhq-coregui/pkg/metrics"
	"github.com/rhq-project/rhq-coregui/pkg/redis"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
	"github.com/rhq-project/rhq-coregui/pkg/session"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const (
	version             = "4.13.0"
	healthCheckInterval = 30 * time.Second
	shutdownTimeout     = 15 * time.Second
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	log := logger.GetLogger()

	if !config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", version),
	)

	db, err := database.Open(database.Config{
		Driver:          config.Database.Driver,
		DSN:             config.DatabaseConnectionString(),
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if config.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal("Failed to run database migrations", zap.Error(err))
		}
		log.Info("Database migrated successfully",
			zap.Int("indexes", database.CreateIndexes(db)),
		)
	}

	if config.Database.Seed {
		if err := database.Seed(db, config.Database.AdminPassword); err != nil {
			// Existing rows are not an error worth refusing to start over.
			log.Error("Failed to seed database", zap.Error(err))
		} else {
			log.Info("Database seeded successfully")
		}
	}

	var (
		store       session.Store
		redisClient *redis.Client
		breaker     *circuit.Breaker
	)
	if config.Redis.Enabled {
		redisClient, err = redis.NewClient(config)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		breaker = circuit.New("session-store", session.BreakerConfig(), log)
		store = session.NewGuardedStore(session.NewRedisStore(redisClient), breaker)
	} else {
		memory := session.NewMemoryStore()
		defer memory.Close()
		store = memory
		log.Warn("Redis is disabled, sessions are kept in memory")
	}

	m := metrics.New(true)

	managers := service.NewManagers(db, store, service.SessionConfig{
		Secret:      config.Session.Secret,
		TTL:         config.Session.TTL,
		MaxLifetime: config.Session.MaxLifetime,
	})
	managers.Session.SetObserver(m)
	m.TrackOpenSessions(store.Count)

	dispatcher := rpc.NewDispatcher(managers.Session, m)
	if err := handler.RegisterServices(dispatcher, managers, config.RPC.MaxPageSize); err != nil {
		log.Fatal("Failed to register services", zap.Error(err))
	}
	log.Info("Services registered", zap.Int("methods", len(dispatcher.Methods())))

	monitor := health.NewMonitor(healthCheckInterval, log, rpc.ServiceName)
	monitor.Register("database", &health.DatabaseChecker{DB: db}, true)
	if redisClient != nil {
		monitor.Register("redis", &health.RedisChecker{Client: redisClient}, true)
		monitor.Register("session_breaker", breakerChecker(breaker), false)
	} else {
		monitor.Register("redis", &health.RedisChecker{}, false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor.Start(ctx)

	rpcHandler := handler.NewRPCHandler(dispatcher)
	r := router.NewRouter(
		rpcHandler,
		handler.NewAuthHandler(rpcHandler),
		handler.NewHealthHandler(monitor),

		middleware.NewSessionMiddleware(managers.Session),
		m,
		config,
	).SetupRoutes()

	httpServer := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("HTTP server starting", zap.String("port", config.App.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var grpcServer *grpc.Server
	if config.RPC.GRPCEnabled {
		lis, err := net.Listen("tcp", ":"+config.RPC.GRPCPort)
		if err != nil {
			log.Fatal("Failed to listen for gRPC", zap.String("port", config.RPC.GRPCPort), zap.Error(err))
		}

		grpcServer = grpc.NewServer()
		rpc.RegisterGRPC(grpcServer, dispatcher)
		grpc_health_v1.RegisterHealthServer(grpcServer, monitor.GRPCServer())

		go func() {
			log.Info("gRPC server starting", zap.String("port", config.RPC.GRPCPort))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-errCh:
		log.Error("Server failed, shutting down", zap.Error(err))
	}

	monitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	log.Info("Server stopped")
}

// breakerChecker reports the session store breaker. It is registered as a
// non-critical check; the redis check decides readiness.
func breakerChecker(b *circuit.Breaker) health.Checker {
	return health.CheckerFunc(func(context.Context) health.CheckResult {
		result := health.CheckResult{
			Status:    health.StatusHealthy,
			LastCheck: time.Now(),
			Details:   b.Snapshot(),
		}
		if b.State() != circuit.StateClosed {
			result.Status = health.StatusUnhealthy
			result.Message = "session store circuit is " + b.State().String()
		}
		return result
	})
}
