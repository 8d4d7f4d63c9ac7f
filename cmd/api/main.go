package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-suggester/internal/api"
	"recipe-suggester/internal/core/cache"
	"recipe-suggester/internal/core/catalog"
	"recipe-suggester/internal/core/newsletter"
	"recipe-suggester/internal/core/pantry"
	"recipe-suggester/internal/core/recipe"
	"recipe-suggester/internal/core/suggest"
	"recipe-suggester/internal/core/user"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/infrastructure/database"
	"recipe-suggester/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("newsletter_enabled", cfg.Newsletter.Enabled),
	)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := db.AutoMigrate(
		&user.User{},
		&catalog.Ingredient{},
		&recipe.Recipe{},
		&recipe.Review{},
		&recipe.Note{},
		&recipe.Favorite{},
		&pantry.Item{},
	); err != nil {
		common.LogFatal("Failed to migrate database", zap.Error(err))
	}

	cacheManager := cache.NewManager(cfg)
	if cfg.Cache.Enabled && cacheManager == nil {
		common.LogFatal("Failed to initialize cache manager")
	}
	defer cacheManager.Close()

	suggestionCache, err := suggest.NewResponseCache(&cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to connect suggestion cache", zap.Error(err))
	}
	if suggestionCache != nil {
		defer suggestionCache.Close()
	}

	newsletterSvc := newsletter.NewService(&cfg.Newsletter)
	if newsletterSvc != nil {
		defer newsletterSvc.Close()
	}

	router, err := api.SetupRouter(cfg, db, cacheManager, suggestionCache, newsletterSvc)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("Starting application",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
