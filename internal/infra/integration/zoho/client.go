package zoho

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/queue"
)

type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Authorization", "Zoho-oauthtoken "+token).
		SetHeader("Content-Type", "application/json")

	return &Client{httpClient: httpClient, logger: logger}
}

func (c *Client) Name() string { return "zoho" }

// Forward upserts a Zoho lead deduplicated on Email, or Phone when the lead
// has no email.
func (c *Client) Forward(ctx context.Context, lead queue.LeadPayload) error {
	record := Lead{
		FirstName:   lead.FirstName,
		LastName:    lastName(lead),
		Email:       lead.Email,
		Phone:       lead.Phone,
		LeadSource:  lead.Source,
		Description: lead.Message,
	}
	dedupe := "Email"
	if lead.Email == "" {
		dedupe = "Phone"
	}

	var result UpsertResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(UpsertRequest{Data: []Lead{record}, DuplicateCheckFields: []string{dedupe}}).
		SetResult(&result).
		Post("/Leads/upsert")
	if err != nil {
		return fmt.Errorf("zoho upsert lead: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("zoho upsert lead: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(result.Data) == 0 {
		return fmt.Errorf("zoho upsert lead: empty response")
	}
	row := result.Data[0]
	if !strings.EqualFold(row.Status, "success") {
		return fmt.Errorf("zoho upsert lead: %s (%s)", row.Message, row.Code)
	}

	c.logger.Info("zoho lead upserted",
		zap.String("zoho_id", row.Details.ID),
		zap.String("action", row.Action),
		zap.String("contact_id", lead.ContactID),
	)
	return nil
}

// lastName fills Zoho's mandatory Last_Name.
func lastName(lead queue.LeadPayload) string {
	switch {
	case lead.LastName != "":
		return lead.LastName
	case lead.FirstName != "":
		return lead.FirstName
	case lead.Email != "":
		return strings.SplitN(lead.Email, "@", 2)[0]
	}
	return lead.Phone
}
