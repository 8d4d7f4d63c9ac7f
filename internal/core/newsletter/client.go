package newsletter

import (
	"context"
	"fmt"
	"net/http"

	"recipe-suggester/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// Message is a single outbound email.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// MailClient sends email through an HTTP mail provider.
type MailClient struct {
	config *config.NewsletterConfig
	client *resty.Client
}

// NewMailClient creates a mail client against the configured provider.
func NewMailClient(cfg *config.NewsletterConfig) *MailClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &MailClient{
		config: cfg,
		client: client,
	}
}

// Send delivers one message. Non-2xx provider responses are errors.
func (c *MailClient) Send(ctx context.Context, msg *Message) error {
	if msg.From == "" {
		msg.From = c.config.From
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("failed to send mail request: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("mail provider returned error: %s", resp.String())
	}
	return nil
}
