package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trellone-sync/internal/client"
	"trellone-sync/internal/config"
	"trellone-sync/internal/database"
	"trellone-sync/internal/dnd"
	"trellone-sync/internal/handler"
	"trellone-sync/internal/job"
	"trellone-sync/internal/metrics"
	"trellone-sync/internal/printer"
	"trellone-sync/internal/realtime"
	"trellone-sync/internal/repository"
	"trellone-sync/internal/router"
	"trellone-sync/internal/service"
	"trellone-sync/internal/socket"
	"trellone-sync/internal/store"
	"trellone-sync/internal/util"
)

var runBoardID string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a board and keep it in sync until interrupted",
	RunE:  runSync,
}

func init() {
	runCmd.Flags().StringVarP(&runBoardID, "board", "b", "", "board id to open on start")
	rootCmd.AddCommand(runCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), "check "+configPath)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting trellone-sync",
		zap.String("api_url", cfg.API.BaseURL),
		zap.String("transport", cfg.Realtime.Transport),
		zap.Bool("server_enabled", cfg.Server.Enabled),
	)

	m := metrics.NewWithLogger(logger)

	userID := ""
	if cfg.API.AccessToken != "" {
		userID, err = util.UserIDFromToken(cfg.API.AccessToken)
		if err != nil {
			logger.Warn("Could not read user id from access token", zap.Error(err))
		}
	}

	db, err := openPreferenceStore(cfg, m, logger)
	if err != nil {
		return printer.Error("Failed to open preference store", err.Error(), "check database.driver and database.dsn")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	api := client.NewBoardClient(cfg.API.BaseURL, cfg.API.AccessToken, cfg.API.Timeout, logger, m)

	var files client.S3ClientInterface
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3Client, err := client.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, uploads disabled", zap.Error(err))
		} else {
			files = s3Client
			logger.Info("S3 client initialized", zap.String("bucket", cfg.S3.Bucket), zap.String("region", cfg.S3.Region))
		}
	} else {
		logger.Info("S3 configuration incomplete, uploads disabled")
	}

	boardStore := store.NewActiveBoardStore(api, m, logger)
	workspaces := store.NewWorkspaceCache(api, logger)

	checks := map[string]handler.Pinger{"database": handler.PingerFunc(sqlDB.PingContext)}
	transport, runTransport, err := newTransport(ctx, cfg, m, logger, checks)
	if err != nil {
		return printer.Error("Failed to start realtime transport", err.Error())
	}

	bridge := realtime.NewBridge(transport, boardStore, workspaces, m, logger)
	bridge.Start(ctx)

	boardService := service.NewBoardService(api, boardStore, bridge, workspaces, userID, m, logger)
	columnService := service.NewColumnService(api, boardStore, bridge, m, logger)
	cardService := service.NewCardService(api, boardStore, bridge, files, m, logger)
	moveService := service.NewMoveService(api, boardStore, bridge, m, logger)
	preferenceService := service.NewPreferenceService(repository.NewPreferenceRepository(db), logger)
	machine := dnd.NewMachine(boardStore, moveService, logger)

	var wg sync.WaitGroup
	if runTransport != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runTransport(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Realtime transport stopped", zap.Error(err))
			}
		}()
	}

	collector := metrics.NewActiveBoardCollector(boardStore, sqlDB, m, logger, 15*time.Second)
	collector.Start()
	defer collector.Stop()

	if runBoardID != "" {
		board, err := boardService.OpenBoard(ctx, runBoardID)
		if err != nil {
			return printer.Error("Failed to open board "+runBoardID, err.Error())
		}
		printer.Success("Opened %s (%d columns, %d cards)\n", board.Title, len(board.Columns), board.CardCount())
	}

	scheduler := cron.New(cron.WithSeconds())
	if _, err := job.Schedule(scheduler, cfg.Resync.Schedule, job.NewResyncJob(boardStore, cfg.API.Timeout, logger)); err != nil {
		return printer.Error("Invalid resync schedule", err.Error(), "use a six-field cron spec or a descriptor such as @every 5m")
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	var srv *http.Server
	if cfg.Server.Enabled {
		if cfg.Server.Mode == "release" {
			gin.SetMode(gin.ReleaseMode)
		}
		r := router.Setup(router.Config{
			Logger:            logger,
			JWTSecret:         cfg.JWT.Secret,
			CORSOrigins:       cfg.Server.CORSOrigins,
			Metrics:           m,
			BoardService:      boardService,
			ColumnService:     columnService,
			CardService:       cardService,
			MoveService:       moveService,
			PreferenceService: preferenceService,
			DragMachine:       machine,
			HealthChecks:      checks,
		})
		srv = &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
		go func() {
			logger.Info("Local API started", zap.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Local API failed", zap.Error(err))
				stop()
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Local API forced to shutdown", zap.Error(err))
		}
	}
	wg.Wait()

	logger.Info("trellone-sync exited")
	return nil
}

func openPreferenceStore(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.New(database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	database.RegisterMetricsCallbacks(db, m)
	if err := database.AutoMigrate(db, logger); err != nil {
		return nil, err
	}
	return db, nil
}

// newTransport builds the configured realtime transport. The returned run func, when not nil,
// blocks until ctx is done.
func newTransport(
	ctx context.Context,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
	checks map[string]handler.Pinger,
) (realtime.Transport, func(context.Context) error, error) {
	switch cfg.Realtime.Transport {
	case config.TransportWebSocket:
		header := http.Header{}
		if cfg.API.AccessToken != "" {
			header.Set("Authorization", "Bearer "+cfg.API.AccessToken)
		}
		sc := socket.New(socket.Config{
			URL:                  cfg.Socket.URL,
			Header:               header,
			WriteWait:            cfg.Socket.WriteWait,
			PongWait:             cfg.Socket.PongWait,
			MaxReconnectInterval: cfg.Socket.MaxReconnectInterval,
			SendBuffer:           cfg.Socket.SendBuffer,
		}, logger, m)
		checks["socket"] = handler.PingerFunc(func(context.Context) error {
			if !sc.Connected() {
				return errors.New("disconnected")
			}
			return nil
		})
		return sc, sc.Run, nil

	case config.TransportRedis:
		rdb, err := database.NewRedis(ctx, database.RedisConfig{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		rt := realtime.NewRedisTransport(rdb, cfg.Realtime.Channel, logger)
		return rt, func(ctx context.Context) error {
			defer rdb.Close()
			return rt.Run(ctx)
		}, nil

	default:
		logger.Warn("Realtime transport disabled, changes are not shared with peers")
		return realtime.LocalTransport{}, nil, nil
	}
}
