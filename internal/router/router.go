package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trellone-sync/internal/handler"
	"trellone-sync/internal/metrics"
	"trellone-sync/internal/middleware"
	"trellone-sync/internal/service"
)

// Config holds router configuration
type Config struct {
	Logger      *zap.Logger
	JWTSecret   string
	CORSOrigins []string
	Metrics     *metrics.Metrics
	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer

	BoardService      service.BoardService
	ColumnService     service.ColumnService
	CardService       service.CardService
	MoveService       service.MoveService
	PreferenceService service.PreferenceService
	DragMachine       handler.DragMachine
	HealthChecks      map[string]handler.Pinger
}

// Setup sets up the local control API
func Setup(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	healthHandler := handler.NewHealthHandler(cfg.HealthChecks, func() string {
		if b := cfg.BoardService.ActiveBoard(); b != nil {
			return b.ID
		}
		return ""
	})
	r.GET("/health", healthHandler.Health)

	boardHandler := handler.NewBoardHandler(cfg.BoardService, cfg.ColumnService, cfg.CardService, cfg.MoveService, cfg.Logger)
	preferenceHandler := handler.NewPreferenceHandler(cfg.PreferenceService, cfg.Logger)
	dragHandler := handler.NewDragHandler(cfg.DragMachine, cfg.Logger)

	api := r.Group("/api")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		api.GET("/board", boardHandler.GetActiveBoard)
		api.POST("/board/open/:boardId", boardHandler.OpenBoard)
		api.PUT("/board/column-order", boardHandler.ReorderColumns)

		api.POST("/columns", boardHandler.AddColumn)
		api.POST("/columns/:columnId/cards", boardHandler.AddCard)

		api.POST("/drag/start", dragHandler.Start)
		api.POST("/drag/over", dragHandler.Over)
		api.POST("/drag/end", dragHandler.End)
		api.POST("/drag/cancel", dragHandler.Cancel)

		api.GET("/preferences", preferenceHandler.GetPreferences)
		api.PUT("/preferences", preferenceHandler.UpdatePreferences)
	}

	return r
}
