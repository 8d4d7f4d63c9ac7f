package api

import (
	"context"
	"net/http"
	"time"

	healthHandler "recipe-suggester/internal/api/handlers/health"
	ingredientHandler "recipe-suggester/internal/api/handlers/ingredient"
	pantryHandler "recipe-suggester/internal/api/handlers/pantry"
	recipeHandler "recipe-suggester/internal/api/handlers/recipe"
	userHandler "recipe-suggester/internal/api/handlers/user"
	"recipe-suggester/internal/api/middleware"
	"recipe-suggester/internal/core/cache"
	catalogService "recipe-suggester/internal/core/catalog"
	"recipe-suggester/internal/core/newsletter"
	pantryService "recipe-suggester/internal/core/pantry"
	recipeService "recipe-suggester/internal/core/recipe"
	"recipe-suggester/internal/core/suggest"
	userService "recipe-suggester/internal/core/user"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const timeoutDuration = 30 * time.Second

// SetupRouter wires services, middleware and route groups.
func SetupRouter(
	cfg *config.Config,
	db *gorm.DB,
	cacheManager *cache.Manager,
	suggestionCache *suggest.ResponseCache,
	newsletterSvc *newsletter.Service,
) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Media.MaxSizeBytes))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// Request timeout
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	catalogSvc := catalogService.NewService(db, cacheManager)
	pantrySvc := pantryService.NewService(db)
	recipeSvc := recipeService.NewService(db, catalogSvc, cacheManager)
	userSvc := userService.NewService(db, &cfg.Auth)
	suggestSvc := suggest.NewService(catalogSvc, pantrySvc, recipeSvc, suggestionCache)

	healthH := healthHandler.NewHandler(cfg, db, newsletterSvc)
	userH := userHandler.NewHandler(userSvc)
	ingredientH := ingredientHandler.NewHandler(catalogSvc)
	pantryH := pantryHandler.NewHandler(pantrySvc)
	recipeH := recipeHandler.NewHandler(recipeSvc, &cfg.Media)
	suggestionH := recipeHandler.NewSuggestionHandler(suggestSvc)

	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	router.Static("/media", cfg.Media.Dir)

	api := router.Group("/api/v1")
	{
		// Public routes
		api.POST("/auth/register", userH.HandleRegister)
		api.POST("/auth/login", userH.HandleLogin)

		api.GET("/ingredients", ingredientH.HandleList)
		api.GET("/ingredients/:id", ingredientH.HandleGet)
		api.GET("/ingredients/trending", ingredientH.HandleTrending)

		api.GET("/recipes", recipeH.HandleList)
		api.GET("/recipes/minimal", recipeH.HandleMinimal)
		api.GET("/recipes/random", recipeH.HandleRandom)
		api.GET("/recipes/browse", recipeH.HandleBrowse)
		api.GET("/recipes/:id", recipeH.HandleGet)
		api.GET("/recipes/:id/reviews", recipeH.HandleListReviews)

		// Authenticated routes
		auth := api.Group("")
		auth.Use(middleware.Auth(cfg.Auth.JWTSecret))
		{
			auth.GET("/profile", userH.HandleProfile)
			auth.PUT("/profile", userH.HandleUpdateProfile)

			auth.POST("/ingredients", ingredientH.HandleCreate)

			auth.GET("/pantry", pantryH.HandleList)
			auth.POST("/pantry", pantryH.HandleAdd)
			auth.PUT("/pantry/:id", pantryH.HandleUpdate)
			auth.DELETE("/pantry/:id", pantryH.HandleRemove)
			auth.POST("/pantry/toggle", pantryH.HandleToggle)

			auth.POST("/recipes", recipeH.HandleCreate)
			auth.PUT("/recipes/:id", recipeH.HandleUpdate)
			auth.DELETE("/recipes/:id", recipeH.HandleDelete)
			auth.POST("/recipes/:id/image", recipeH.HandleUploadImage)

			auth.POST("/recipes/:id/reviews", recipeH.HandleCreateReview)
			auth.GET("/recipes/:id/notes", recipeH.HandleListNotes)
			auth.POST("/recipes/:id/notes", recipeH.HandleCreateNote)
			auth.PUT("/notes/:noteId", recipeH.HandleUpdateNote)
			auth.DELETE("/notes/:noteId", recipeH.HandleDeleteNote)

			auth.GET("/favorites", recipeH.HandleFavorites)
			auth.POST("/recipes/:id/favorite", recipeH.HandleToggleFavorite)

			auth.GET("/suggestions", suggestionH.HandleSuggestions)
			auth.GET("/grocery-list", suggestionH.HandleGroceryList)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("suggestion_cache_enabled", suggestionCache != nil),
		zap.Duration("timeout", timeoutDuration),
	)

	return router, nil
}
