// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"nfticket/internal/agreement"
	"nfticket/internal/auth"
	"nfticket/internal/minting"
	"nfticket/internal/shared/config"
	"nfticket/internal/shared/database"
	"nfticket/internal/shared/redislock"
	"nfticket/pkg/cache"
	"nfticket/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher agreement.EventPublisher
	log       *logger.Logger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher agreement.EventPublisher, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		log:       log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API documentation
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupAgreementRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "nfticket-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "nfticket-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

// setupAgreementRoutes configures agreement, ticketing and payout routes
func (r *Router) setupAgreementRoutes(rg *gin.RouterGroup) {
	agreementRepo := agreement.NewRepository(r.db.GetPostgreSQL())
	minter := minting.NewClient(r.config.Minting.BaseURL, r.config.Minting.Timeout)

	var locker *redislock.Locker
	if r.db.Redis != nil {
		locker = redislock.NewLocker(r.db.GetRedisClient())
	}

	agreementService := agreement.NewService(agreementRepo, minter, r.publisher, locker, r.log)
	if r.db.Redis != nil {
		cacheService := cache.NewService(r.db.GetRedisClient())
		agreementService = agreement.NewCachedService(agreementService, cacheService, r.log)
	}
	agreementController := agreement.NewController(agreementService)

	agreement.SetupAgreementRoutes(rg, agreementController)
}
