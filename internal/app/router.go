package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/georgeey123/ride-hailing-bot/internal/handler"
	"github.com/georgeey123/ride-hailing-bot/internal/middleware"
	redisstore "github.com/georgeey123/ride-hailing-bot/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	WebhookHandler *handler.WebhookHandler
	OpsHandler     *handler.OpsHandler
	DedupStore     redisstore.DedupStoreInterface
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Twilio webhook, with delivery deduplication.
	webhook := router.Group("/webhook")
	if deps.DedupStore != nil {
		webhook.Use(middleware.DedupMiddleware(deps.DedupStore))
	}
	webhook.POST("", deps.WebhookHandler.Handle)

	// Read-only operator API.
	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.GET("/:phone", deps.OpsHandler.GetUser)
			users.GET("/:phone/rides", deps.OpsHandler.ListUserRides)
		}

		rides := v1.Group("/rides")
		{
			rides.GET("/:id", deps.OpsHandler.GetRide)
		}
	}

	return router
}
