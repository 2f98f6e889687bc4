package app

import (
	"fmt"
	"net"
	"net/http"

	"github.com/MikhailRaia/link-rewards/internal/auth"
	"github.com/MikhailRaia/link-rewards/internal/config"
	"github.com/MikhailRaia/link-rewards/internal/handler"
	"github.com/MikhailRaia/link-rewards/internal/middleware"
	"github.com/MikhailRaia/link-rewards/internal/service"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"github.com/MikhailRaia/link-rewards/internal/storage/file"
	"github.com/MikhailRaia/link-rewards/internal/storage/memory"
	"github.com/MikhailRaia/link-rewards/internal/storage/postgres"
	"github.com/MikhailRaia/link-rewards/internal/worker"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

// App wires storage, services, workers, and transports together.
type App struct {
	config     *config.Config
	handler    http.Handler
	visitPool  *worker.VisitWorkerPool
	grpcServer *grpc.Server
}

// NewApp builds the application from configuration.
func NewApp(cfg *config.Config) (*App, error) {
	store, dbPinger, err := newStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret)

	identityService := service.NewIdentityService(store, jwtService)
	linkService := service.NewLinkService(store, cfg.BaseURL)
	rewardService := service.NewRewardService(store, store, nil)
	withdrawalService := service.NewWithdrawalService(store, store)

	visitPool := worker.NewVisitWorkerPool(rewardService, worker.DefaultConfig())

	authMW := middleware.NewAuthMiddleware(jwtService)
	adminMW := middleware.NewAdminMiddleware(cfg.AdminToken)

	httpHandler := handler.NewHandler(
		identityService, linkService, rewardService, withdrawalService, visitPool, dbPinger)

	app := &App{
		config:    cfg,
		handler:   httpHandler.RegisterRoutes(authMW, adminMW),
		visitPool: visitPool,
	}

	if cfg.GRPCAddress != "" {
		grpcAuth := middleware.NewGRPCAdminMiddleware(adminMW)
		app.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(grpcAuth.UnaryInterceptor))
		handler.RegisterAdminService(app.grpcServer, withdrawalService)
	}

	return app, nil
}

func newStorage(cfg *config.Config) (storage.Storage, handler.DBPinger, error) {
	if cfg.DatabaseDSN != "" {
		pg, err := postgres.NewStorage(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create postgres storage: %w", err)
		}
		log.Info().Msg("Using postgres storage")
		return pg, pg, nil
	}

	if cfg.FileStoragePath != "" {
		fs, err := file.NewStorage(cfg.FileStoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create file storage: %w", err)
		}
		log.Info().Str("path", cfg.FileStoragePath).Msg("Using file storage")
		return fs, nil, nil
	}

	log.Info().Msg("Using in-memory storage")
	return memory.NewStorage(), nil, nil
}

// Run starts the servers and blocks until the HTTP server exits.
func (a *App) Run() error {
	a.visitPool.Start()
	defer a.visitPool.Stop()

	if a.grpcServer != nil {
		lis, err := net.Listen("tcp", a.config.GRPCAddress)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC address: %w", err)
		}

		go func() {
			log.Info().Str("address", a.config.GRPCAddress).Msg("Starting gRPC admin server")
			if err := a.grpcServer.Serve(lis); err != nil {
				log.Error().Err(err).Msg("gRPC server stopped")
			}
		}()
		defer a.grpcServer.GracefulStop()
	}

	log.Info().Str("address", a.config.ServerAddress).Msg("Starting HTTP server")
	return http.ListenAndServe(a.config.ServerAddress, a.handler)
}
