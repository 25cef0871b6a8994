package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	telegramAPIBase     = "https://api.telegram.org"
	telegramMaxAttempts = 3
	telegramBackoff     = 2 * time.Second
)

// TelegramSender delivers alerts through the Telegram Bot API with bounded
// retry and exponential backoff.
type TelegramSender struct {
	apiBase    string
	botToken   string
	chatID     string
	backoff    time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewTelegramSender creates a Telegram sender.
func NewTelegramSender(botToken, chatID string, logger *logrus.Logger) *TelegramSender {
	return &TelegramSender{
		apiBase:    telegramAPIBase,
		botToken:   botToken,
		chatID:     chatID,
		backoff:    telegramBackoff,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Send posts the alert, retrying transient failures. Backoff honors
// cancellation.
func (s *TelegramSender) Send(ctx context.Context, payload *AlertPayload) error {
	var lastErr error

	for attempt := 1; attempt <= telegramMaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := s.backoff * time.Duration(1<<(attempt-2))
			s.logger.WithError(lastErr).WithField("attempt", attempt).Warn("Telegram send failed, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if lastErr = s.sendOnce(ctx, payload); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("telegram send after %d attempts: %w", telegramMaxAttempts, lastErr)
}

func (s *TelegramSender) sendOnce(ctx context.Context, payload *AlertPayload) error {
	body, err := json.Marshal(map[string]interface{}{
		"chat_id":                  s.chatID,
		"text":                     FormatText(payload),
		"disable_web_page_preview": true,
	})
	if err != nil {
		return fmt.Errorf("marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram api status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

// Name returns the sender name.
func (s *TelegramSender) Name() string {
	return "telegram"
}
