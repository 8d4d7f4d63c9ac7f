package newsletter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"go.uber.org/zap"
)

// FeaturedRecipe is one entry in the weekly digest.
type FeaturedRecipe struct {
	ID    uint
	Title string
	Image string
}

// Subscriber is one newsletter recipient.
type Subscriber struct {
	Email string
	Name  string
}

// Service composes and queues the weekly recipe digest.
type Service struct {
	config *config.NewsletterConfig
	queue  *Queue
}

// NewService creates a newsletter service. Returns nil when the
// newsletter is disabled.
func NewService(cfg *config.NewsletterConfig) *Service {
	if !cfg.Enabled {
		return nil
	}
	client := NewMailClient(cfg)
	queue := NewQueue(cfg, client)
	queue.Start()
	return &Service{
		config: cfg,
		queue:  queue,
	}
}

// SendWeekly composes the digest for the given recipes and queues one
// message per subscriber.
func (s *Service) SendWeekly(ctx context.Context, subscribers []Subscriber, featured []FeaturedRecipe) error {
	if len(featured) == 0 {
		return fmt.Errorf("no featured recipes to send")
	}

	subject := fmt.Sprintf("This week's recipes - %s", time.Now().Format("Jan 2, 2006"))
	body := s.composeHTML(featured)

	queued := 0
	for _, sub := range subscribers {
		msg := &Message{
			To:      sub.Email,
			Subject: subject,
			HTML:    body,
		}
		if err := s.queue.Enqueue(ctx, msg); err != nil {
			common.LogWarn("failed to queue newsletter",
				zap.String("to", sub.Email),
				zap.Error(err),
			)
			continue
		}
		queued++
	}

	common.LogInfo("weekly newsletter queued",
		zap.Int("subscribers", len(subscribers)),
		zap.Int("queued", queued),
		zap.Int("recipes", len(featured)),
	)
	return nil
}

// Status exposes the underlying queue status.
func (s *Service) Status() *QueueStatus {
	return s.queue.Status()
}

// Close drains the delivery queue.
func (s *Service) Close() {
	s.queue.Close()
}

func (s *Service) composeHTML(featured []FeaturedRecipe) string {
	var b strings.Builder
	b.WriteString("<h1>Recipes worth cooking this week</h1>\n<ul>\n")
	for _, r := range featured {
		link := fmt.Sprintf("%s/recipes/%d", s.config.SiteURL, r.ID)
		b.WriteString(fmt.Sprintf("<li><a href=%q>%s</a></li>\n", link, r.Title))
	}
	b.WriteString("</ul>\n")
	b.WriteString(fmt.Sprintf("<p><a href=%q>Unsubscribe</a></p>\n", s.config.SiteURL+"/unsubscribe"))
	return b.String()
}
