package facebook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/queue"
)

// Client reports leads to the Conversions API of a Meta pixel.
type Client struct {
	httpClient *resty.Client
	pixelID    string
	token      string
	logger     *zap.Logger
	now        func() time.Time
}

func NewClient(baseURL, pixelID, token string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json")

	return &Client{httpClient: httpClient, pixelID: pixelID, token: token, logger: logger, now: time.Now}
}

func (c *Client) Name() string { return "facebook" }

func (c *Client) Forward(ctx context.Context, lead queue.LeadPayload) error {
	eventTime := lead.OccurredAt
	if eventTime.IsZero() {
		eventTime = c.now()
	}

	event := Event{
		EventName:      "Lead",
		EventTime:      eventTime.Unix(),
		EventID:        lead.ContactID + ":" + fmt.Sprint(eventTime.Unix()),
		ActionSource:   "website",
		EventSourceURL: lead.SourceURL,
		UserData: UserData{
			Email:     hashed(lead.Email),
			Phone:     hashed(strings.TrimPrefix(lead.Phone, "+")),
			FirstName: hashed(lead.FirstName),
			LastName:  hashed(lead.LastName),
			ClientIP:  lead.IP,
			UserAgent: lead.UserAgent,
		},
		CustomData: map[string]any{"lead_source": lead.Source},
	}

	var result EventsResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("access_token", c.token).
		SetBody(EventsRequest{Data: []Event{event}}).
		SetResult(&result).
		Post("/" + c.pixelID + "/events")
	if err != nil {
		return fmt.Errorf("facebook send event: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("facebook send event: status %d: %s", resp.StatusCode(), resp.String())
	}

	c.logger.Info("facebook lead event sent", zap.Int("events_received", result.EventsReceived), zap.String("contact_id", lead.ContactID))
	return nil
}

// hashed normalises v and returns its SHA-256 hex digest as the API expects.
func hashed(v string) []string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(v))
	return []string{hex.EncodeToString(sum[:])}
}
