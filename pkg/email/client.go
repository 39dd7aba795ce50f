package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
)

// Sender is the surface the notification consumer depends on.
type Sender interface {
	Send(ctx context.Context, to, subject, plainText, htmlBody string) error
}

// Client sends transactional mail through SendGrid.
type Client struct {
	apiKey string
	from   string
	logg   *logger.Logger
}

// NewClient builds the SendGrid-backed sender.
func NewClient(cfg config.SendgridConfig, logg *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if cfg.DefaultFrom == "" {
		return nil, errors.New("sendgrid from address is required")
	}
	return &Client{apiKey: cfg.APIKey, from: cfg.DefaultFrom, logg: logg}, nil
}

// Send delivers a single email. Both text and HTML bodies are required
// by SendGrid, so the plain text doubles as HTML when none is supplied.
func (c *Client) Send(ctx context.Context, to, subject, plainText, htmlBody string) error {
	if to == "" {
		return errors.New("to address is empty")
	}
	if htmlBody == "" {
		htmlBody = fmt.Sprintf("<pre>%s</pre>", plainText)
	}

	message := mail.NewSingleEmail(
		mail.NewEmail("Lakes", c.from),
		subject,
		mail.NewEmail("", to),
		plainText,
		htmlBody,
	)

	client := sendgrid.NewSendClient(c.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}

	if c.logg != nil {
		logCtx := c.logg.WithFields(ctx, map[string]any{
			"to":      to,
			"subject": subject,
			"status":  response.StatusCode,
		})
		c.logg.Info(logCtx, "email sent")
	}
	return nil
}
