package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anjiri1684/torah_tutor/logger"
)

const brevoURL = "https://api.brevo.com/v3/smtp/email"

// BrevoService sends transactional email through Brevo's HTTP API.
type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string
	Client      *http.Client
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func NewBrevoService(apiKey, senderEmail, senderName string) *BrevoService {
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Endpoint:    brevoURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoService) deliver(ctx context.Context, toName, toEmail, subject, htmlContent string) error {
	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

func (s *BrevoService) Send(toName, toEmail, subject, htmlContent string) {
	send(s.deliver, toName, toEmail, subject, htmlContent)
}

type deliverFunc func(ctx context.Context, toName, toEmail, subject, htmlContent string) error

// send validates the recipient, delivers and logs the outcome. Failures are
// logged and dropped; email is never retried.
func send(deliver deliverFunc, toName, toEmail, subject, htmlContent string) {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		logger.Warn().Str("to", toEmail).Msg("invalid recipient email, skipping")
		return
	}
	if toName == "" {
		toName = toEmail[:strings.Index(toEmail, "@")]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := deliver(ctx, toName, toEmail, subject, htmlContent); err != nil {
		logger.Error().Err(err).Str("to", toEmail).Str("subject", subject).Msg("failed to send email")
		return
	}
	logger.Debug().Str("to", toEmail).Str("subject", subject).Msg("email sent")
}
