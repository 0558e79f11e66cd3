package sink

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/denizbora/signalscan/internal/models"
)

const gmailSendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

// EmailConfig holds Gmail sink configuration.
type EmailConfig struct {
	Recipient   string
	TokenSource oauth2.TokenSource
	Endpoint    string // optional override, mainly for tests
	Timeout     time.Duration
}

// EmailSink delivers signals via the Gmail REST API using an OAuth2
// token source.
type EmailSink struct {
	recipient string
	endpoint  string
	client    *http.Client
}

// NewEmailSink creates a Gmail-backed email sink.
func NewEmailSink(cfg EmailConfig) (*EmailSink, error) {
	if cfg.Recipient == "" {
		return nil, fmt.Errorf("email recipient is required")
	}
	if cfg.TokenSource == nil {
		return nil, fmt.Errorf("oauth2 token source is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = gmailSendURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	client := oauth2.NewClient(context.Background(), cfg.TokenSource)
	client.Timeout = timeout

	return &EmailSink{
		recipient: cfg.Recipient,
		endpoint:  endpoint,
		client:    client,
	}, nil
}

// Name returns the sink name
func (s *EmailSink) Name() string {
	return "email"
}

// Deliver sends the signal line as an email. The subject is the
// signal type, or "Signal" for a diagnostic line with no type.
func (s *EmailSink) Deliver(ctx context.Context, n Notification) error {
	if err := validateNotification(n); err != nil {
		return err
	}

	subject := string(n.Signal.SignalType)
	if n.Signal.SignalType == models.SignalNone {
		subject = "Signal"
	}

	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.recipient, subject, n.Text)
	payload, err := json.Marshal(map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(raw)),
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gmail API returned status %d", resp.StatusCode)
	}
	return nil
}
