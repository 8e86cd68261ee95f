package hubspot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/queue"
)

type Client struct {
	httpClient *resty.Client
	// createClient never retries: a create that timed out may have landed,
	// and a second POST would duplicate the contact.
	createClient *resty.Client
	logger       *zap.Logger
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	httpClient := newRestClient(baseURL, token).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		httpClient:   httpClient,
		createClient: newRestClient(baseURL, token),
		logger:       logger,
	}
}

func newRestClient(baseURL, token string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

func (c *Client) Name() string { return "hubspot" }

// Forward finds the HubSpot contact by email (or phone when there is no
// email) and updates it, creating it when missing.
func (c *Client) Forward(ctx context.Context, lead queue.LeadPayload) error {
	if lead.Email == "" && lead.Phone == "" {
		return nil
	}

	id, err := c.findContact(ctx, lead)
	if err != nil {
		return err
	}

	props := ContactProperties{
		Email:          lead.Email,
		Phone:          lead.Phone,
		FirstName:      lead.FirstName,
		LastName:       lead.LastName,
		LeadSource:     lead.Source,
		LifecycleStage: "lead",
		Message:        lead.Message,
	}

	if id == "" {
		var created ContactResponse
		resp, err := c.createClient.R().
			SetContext(ctx).
			SetBody(ContactRequest{Properties: props}).
			SetResult(&created).
			Post("/crm/v3/objects/contacts")
		if err := checkResponse("create contact", resp, err); err != nil {
			return err
		}
		c.logger.Info("hubspot contact created", zap.String("hubspot_id", created.ID), zap.String("contact_id", lead.ContactID))
		return nil
	}

	// lifecycle stage can only move forward in HubSpot; leave it alone on updates
	props.LifecycleStage = ""
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(ContactRequest{Properties: props}).
		Patch("/crm/v3/objects/contacts/" + id)
	if err := checkResponse("update contact", resp, err); err != nil {
		return err
	}
	c.logger.Info("hubspot contact updated", zap.String("hubspot_id", id), zap.String("contact_id", lead.ContactID))
	return nil
}

func (c *Client) findContact(ctx context.Context, lead queue.LeadPayload) (string, error) {
	prop, value := "email", lead.Email
	if value == "" {
		prop, value = "phone", lead.Phone
	}

	req := SearchRequest{
		FilterGroups: []FilterGroup{{Filters: []Filter{{PropertyName: prop, Operator: "EQ", Value: value}}}},
		Properties:   []string{"email", "phone"},
		Limit:        1,
	}
	var result SearchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/crm/v3/objects/contacts/search")
	if err := checkResponse("search contact", resp, err); err != nil {
		return "", err
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].ID, nil
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("hubspot %s: %w", op, err)
	}
	if resp.IsError() {
		return fmt.Errorf("hubspot %s: status %d: %s", op, resp.StatusCode(), resp.String())
	}
	return nil
}
