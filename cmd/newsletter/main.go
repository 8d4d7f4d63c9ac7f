package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"recipe-suggester/internal/core/catalog"
	"recipe-suggester/internal/core/newsletter"
	"recipe-suggester/internal/core/recipe"
	"recipe-suggester/internal/core/user"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/infrastructure/database"
	"recipe-suggester/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	limit := flag.Int("limit", 5, "number of featured recipes in the digest")
	flag.Parse()

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

	if !cfg.Newsletter.Enabled {
		common.LogFatal("Newsletter is disabled, set NEWSLETTER_ENABLED=true to send")
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	ctx := context.Background()
	catalogSvc := catalog.NewService(db, nil)
	recipeSvc := recipe.NewService(db, catalogSvc, nil)
	userSvc := user.NewService(db, &cfg.Auth)

	sample, err := recipeSvc.Random(ctx)
	if err != nil {
		common.LogFatal("Failed to pick featured recipes", zap.Error(err))
	}
	if len(sample) > *limit {
		sample = sample[:*limit]
	}
	featured := make([]newsletter.FeaturedRecipe, len(sample))
	for i, s := range sample {
		featured[i] = newsletter.FeaturedRecipe{
			ID:    s.ID,
			Title: s.Title,
			Image: s.Image,
		}
	}

	users, err := userSvc.List(ctx)
	if err != nil {
		common.LogFatal("Failed to list recipients", zap.Error(err))
	}
	subscribers := make([]newsletter.Subscriber, len(users))
	for i, u := range users {
		subscribers[i] = newsletter.Subscriber{
			Email: u.Email,
			Name:  u.Username,
		}
	}

	svc := newsletter.NewService(&cfg.Newsletter)
	if err := svc.SendWeekly(ctx, subscribers, featured); err != nil {
		svc.Close()
		common.LogFatal("Failed to send newsletter", zap.Error(err))
	}

	// Close drains the queue, so every queued message is delivered
	// before the command exits.
	svc.Close()

	status := svc.Status()
	common.LogInfo("Newsletter sent",
		zap.Int("recipients", len(subscribers)),
		zap.Int("recipes", len(featured)),
		zap.Int("delivered", status.ProcessedCount),
	)
}
