// Curatarr - Media Library Statistics and Recommendations for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatarr

package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curatarr/internal/config"
	"github.com/tomtom215/curatarr/internal/metrics"
	"github.com/tomtom215/curatarr/internal/recommend"
	"github.com/tomtom215/curatarr/internal/stats"
)

// Discord embed colors.
const (
	colorInfo          = 0x3498DB // Blue
	colorWarning       = 0xFFA500 // Orange
	colorCritical      = 0xFF0000 // Red
	colorNeutral       = 0x95A5A6 // Gray
	colorPerformerRecs = 0xE67E22 // Carrot
	colorSceneRecs     = 0x2ECC71 // Green
)

// maxWebhookRetries bounds how often a rate-limited webhook post is retried.
const maxWebhookRetries = 1

// DiscordNotifier posts refresh summaries to a Discord webhook.
type DiscordNotifier struct {
	webhookURL  string
	username    string
	enabled     bool
	topCount    int
	minInterval time.Duration
	client      *http.Client
	logger      zerolog.Logger

	mu       sync.Mutex
	lastSent time.Time
}

// NewDiscordNotifier creates a notifier from the Discord configuration.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func NewDiscordNotifier(cfg *config.DiscordConfig, logger zerolog.Logger) *DiscordNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	topCount := cfg.TopCount
	if topCount <= 0 {
		topCount = 5
	}

	return &DiscordNotifier{
		webhookURL:  cfg.WebhookURL,
		username:    cfg.Username,
		enabled:     cfg.Enabled,
		topCount:    topCount,
		minInterval: cfg.MinInterval,
		client:      &http.Client{Timeout: timeout},
		logger:      logger.With().Str("component", "notify").Logger(),
	}
}

// Name returns the notifier name.
func (n *DiscordNotifier) Name() string {
	return "discord"
}

// Enabled returns whether this notifier is configured to deliver.
func (n *DiscordNotifier) Enabled() bool {
	return n.enabled && n.webhookURL != ""
}

// Send delivers a refresh summary to Discord. A disabled notifier returns
// nil without delivering. Sends closer together than the configured minimum
// interval are suppressed, not delayed: a stale summary delivered late is
// still noise, and the next run posts a fresh one anyway.
func (n *DiscordNotifier) Send(ctx context.Context, summary *Summary) error {
	if !n.Enabled() {
		return nil
	}

	n.mu.Lock()
	if n.minInterval > 0 && !n.lastSent.IsZero() {
		if since := time.Since(n.lastSent); since < n.minInterval {
			n.mu.Unlock()
			metrics.NotificationsSuppressed.Inc()
			n.logger.Debug().
				Dur("since_last", since).
				Dur("min_interval", n.minInterval).
				Msg("Notification suppressed by minimum interval")
			return nil
		}
	}
	n.mu.Unlock()

	payload := discordWebhookPayload{
		Username: n.username,
		Embeds:   n.buildEmbeds(summary),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		metrics.RecordNotification(err)
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	if err := n.post(ctx, body); err != nil {
		metrics.RecordNotification(err)
		return err
	}

	n.mu.Lock()
	n.lastSent = time.Now()
	n.mu.Unlock()

	metrics.RecordNotification(nil)
	n.logger.Info().Int("embeds", len(payload.Embeds)).Msg("Refresh summary posted to Discord")
	return nil
}

// post performs the webhook POST, retrying once on a Discord rate limit
// with the Retry-After delay (cancellable via ctx).
func (n *DiscordNotifier) post(ctx context.Context, body []byte) error {
	for attempt := 0; attempt <= maxWebhookRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create Discord request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send Discord webhook: %w", err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt == maxWebhookRetries {
				return fmt.Errorf("discord rate limit exceeded after %d retries", maxWebhookRetries)
			}

			delay := time.Second
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if parsed, parseErr := time.ParseDuration(retryAfter + "s"); parseErr == nil {
					delay = parsed
				}
			}

			n.logger.Warn().Dur("retry_after", delay).Msg("Discord rate limit hit, retrying")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		if resp.StatusCode >= 400 {
			return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
		}
		return nil
	}

	return fmt.Errorf("discord webhook retries exhausted")
}

// buildEmbeds renders the summary as up to four embeds: run overview,
// library statistics, and the top list of each engine.
func (n *DiscordNotifier) buildEmbeds(s *Summary) []discordEmbed {
	embeds := []discordEmbed{n.overviewEmbed(s)}

	if s.Stats != nil {
		embeds = append(embeds, n.statsEmbed(s.Stats))
	}
	if embed, ok := n.recommendationEmbed("Top Performer Recommendations", colorPerformerRecs, s.PerformerResult); ok {
		embeds = append(embeds, embed)
	}
	if embed, ok := n.recommendationEmbed("Top Scene Recommendations", colorSceneRecs, s.SceneResult); ok {
		embeds = append(embeds, embed)
	}

	return embeds
}

// overviewEmbed summarizes the run itself.
func (n *DiscordNotifier) overviewEmbed(s *Summary) discordEmbed {
	fields := []discordEmbedField{
		{Name: "Performers", Value: strconv.Itoa(s.PerformerCount), Inline: true},
		{Name: "Scenes", Value: strconv.Itoa(s.SceneCount), Inline: true},
		{Name: "Tags", Value: strconv.Itoa(s.TagCount), Inline: true},
		{Name: "Trigger", Value: s.Reason, Inline: true},
		{Name: "Duration", Value: s.Duration.Round(time.Millisecond).String(), Inline: true},
	}

	if len(s.Warnings) > 0 {
		fields = append(fields, discordEmbedField{
			Name:  "Warnings",
			Value: strings.Join(s.Warnings, "\n"),
		})
	}

	return discordEmbed{
		Title:     "Library Refresh Completed",
		Color:     severityColor(s.Severity()),
		Timestamp: s.GeneratedAt.Format(time.RFC3339),
		Fields:    fields,
		Footer:    discordEmbedFooter{Text: "Curatarr Refresh Pipeline"},
	}
}

// statsEmbed lists the headline library aggregates. Absent attributes (no
// rated performers, no parsed cup sizes) contribute no field, matching the
// statistics contract where such averages are zero.
func (n *DiscordNotifier) statsEmbed(summary *stats.Summary) discordEmbed {
	p := summary.Performers
	sc := summary.Scenes

	var fields []discordEmbedField
	if p.AvgRating > 0 {
		fields = append(fields, discordEmbedField{
			Name:   "Avg Performer Rating",
			Value:  fmt.Sprintf("%.1f/5", p.AvgRating/20),
			Inline: true,
		})
	}
	if p.AvgCupNumeric > 0 {
		value := fmt.Sprintf("%.2f", p.AvgCupNumeric)
		if p.AvgCupLetter != "" {
			value = fmt.Sprintf("%.2f (%s)", p.AvgCupNumeric, p.AvgCupLetter)
		}
		fields = append(fields, discordEmbedField{Name: "Avg Cup Size", Value: value, Inline: true})
	}
	if p.AvgBMI > 0 {
		fields = append(fields, discordEmbedField{
			Name:   "Avg BMI",
			Value:  fmt.Sprintf("%.1f", p.AvgBMI),
			Inline: true,
		})
	}
	if p.FavoriteCount > 0 {
		fields = append(fields, discordEmbedField{
			Name:   "Favorites",
			Value:  strconv.Itoa(p.FavoriteCount),
			Inline: true,
		})
	}
	if p.TotalUsage > 0 {
		fields = append(fields, discordEmbedField{
			Name:   "Performer Plays",
			Value:  strconv.Itoa(p.TotalUsage),
			Inline: true,
		})
	}
	if sc.AvgRating > 0 {
		fields = append(fields, discordEmbedField{
			Name:   "Avg Scene Rating",
			Value:  fmt.Sprintf("%.1f/5", sc.AvgRating/20),
			Inline: true,
		})
	}
	if sc.TotalUsage > 0 {
		fields = append(fields, discordEmbedField{
			Name:   "Scene Plays",
			Value:  strconv.Itoa(sc.TotalUsage),
			Inline: true,
		})
	}

	return discordEmbed{
		Title:       "Library Statistics",
		Description: "Key aggregates of the current snapshot",
		Color:       colorInfo,
		Fields:      fields,
	}
}

// recommendationEmbed renders an engine's top list as a numbered block.
func (n *DiscordNotifier) recommendationEmbed(title string, color int, result *recommend.Result) (discordEmbed, bool) {
	if result == nil || len(result.Top) == 0 {
		return discordEmbed{}, false
	}

	limit := n.topCount
	if limit > len(result.Top) {
		limit = len(result.Top)
	}

	var b strings.Builder
	for i := 0; i < limit; i++ {
		entry := result.Top[i]
		fmt.Fprintf(&b, "%d. %s (score %.2f)\n", i+1, entry.Name, entry.Score)
	}

	return discordEmbed{
		Title:       title,
		Description: strings.TrimRight(b.String(), "\n"),
		Color:       color,
	}, true
}

// severityColor returns the Discord embed color for a severity level.
func severityColor(severity Severity) int {
	switch severity {
	case SeverityCritical:
		return colorCritical
	case SeverityWarning:
		return colorWarning
	case SeverityInfo:
		return colorInfo
	default:
		return colorNeutral
	}
}

// Discord webhook structures
type discordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Content  string         `json:"content,omitempty"`
	Embeds   []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      discordEmbedFooter  `json:"footer,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text,omitempty"`
}
