package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DiscordSender delivers alerts as Discord webhook embeds.
type DiscordSender struct {
	webhookURL string
	httpClient *http.Client
	logger     *logrus.Logger
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Color       int    `json:"color"`
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

// NewDiscordSender creates a Discord webhook sender.
func NewDiscordSender(webhookURL string, logger *logrus.Logger) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Send posts the alert to the webhook.
func (s *DiscordSender) Send(ctx context.Context, payload *AlertPayload) error {
	embed := discordEmbed{
		Title:       fmt.Sprintf("%s [%s] — score %.0f", payload.Symbol, strings.ToUpper(payload.Network), payload.Score),
		Description: FormatText(payload),
		URL:         payload.PoolURL(),
		Color:       riskColor(payload.RiskLevel),
	}

	body, err := json.Marshal(discordWebhookPayload{Embeds: []discordEmbed{embed}})
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook status %d", resp.StatusCode)
	}
	return nil
}

func riskColor(level string) int {
	switch level {
	case "LOW":
		return 0x2ECC71
	case "MID":
		return 0xF1C40F
	default:
		return 0xE74C3C
	}
}

// Name returns the sender name.
func (s *DiscordSender) Name() string {
	return "discord"
}
