package kommo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/queue"
)

type Client struct {
	httpClient *resty.Client
	// createClient never retries; Kommo has no idempotency key and a lost
	// response would otherwise open a second lead.
	createClient *resty.Client
	statusID     int
	logger       *zap.Logger
}

// NewClient targets an account API root such as
// https://example.kommo.com/api/v4. statusID is the pipeline stage new leads
// land in; zero lets Kommo pick the first stage.
func NewClient(baseURL, token string, statusID int, logger *zap.Logger) *Client {
	return &Client{
		httpClient: newRestClient(baseURL, token).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond),
		createClient: newRestClient(baseURL, token),
		statusID:     statusID,
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

func (c *Client) Name() string { return "kommo" }

// Forward opens a Kommo lead for every new contact, linked to the matching
// Kommo contact. Returning contacts are skipped so a lead is not duplicated on
// each submission.
func (c *Client) Forward(ctx context.Context, lead queue.LeadPayload) error {
	if !lead.NewContact || (lead.Email == "" && lead.Phone == "") {
		return nil
	}

	contactID, err := c.findOrCreateContact(ctx, lead)
	if err != nil {
		return err
	}

	tags := make([]TagRef, 0, len(lead.Tags)+len(lead.Interests))
	for _, t := range lead.Tags {
		tags = append(tags, TagRef{Name: t})
	}
	for _, i := range lead.Interests {
		tags = append(tags, TagRef{Name: "interest:" + i})
	}

	var result ListResponse
	resp, err := c.createClient.R().
		SetContext(ctx).
		SetBody([]LeadRequest{{
			Name:     leadName(lead),
			StatusID: c.statusID,
			Embedded: LeadEmbedded{Tags: tags, Contacts: []ContactRef{{ID: contactID}}},
		}}).
		SetResult(&result).
		Post("/leads")
	if err := checkResponse("create lead", resp, err); err != nil {
		return err
	}
	if len(result.Embedded.Leads) == 0 {
		return errors.New("kommo create lead: empty response")
	}

	c.logger.Info("kommo lead created",
		zap.Int("kommo_lead_id", result.Embedded.Leads[0].ID),
		zap.String("contact_id", lead.ContactID),
	)
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, lead queue.LeadPayload) (int, error) {
	query := lead.Phone
	if query == "" {
		query = lead.Email
	}

	var found ListResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetResult(&found).
		Get("/contacts")
	if err := checkResponse("search contact", resp, err); err != nil {
		return 0, err
	}
	// Kommo answers 204 with no body when nothing matches
	if resp.StatusCode() != http.StatusNoContent && len(found.Embedded.Contacts) > 0 {
		return found.Embedded.Contacts[0].ID, nil
	}

	var fields []CustomField
	if lead.Phone != "" {
		fields = append(fields, CustomField{FieldCode: "PHONE", Values: []FieldValue{{Value: lead.Phone, EnumCode: "WORK"}}})
	}
	if lead.Email != "" {
		fields = append(fields, CustomField{FieldCode: "EMAIL", Values: []FieldValue{{Value: lead.Email, EnumCode: "WORK"}}})
	}

	var created ListResponse
	resp, err = c.createClient.R().
		SetContext(ctx).
		SetBody([]ContactRequest{{
			Name:               displayName(lead),
			FirstName:          lead.FirstName,
			LastName:           lead.LastName,
			CustomFieldsValues: fields,
		}}).
		SetResult(&created).
		Post("/contacts")
	if err := checkResponse("create contact", resp, err); err != nil {
		return 0, err
	}
	if len(created.Embedded.Contacts) == 0 {
		return 0, errors.New("kommo create contact: empty response")
	}
	return created.Embedded.Contacts[0].ID, nil
}

func displayName(lead queue.LeadPayload) string {
	name := strings.TrimSpace(lead.FirstName + " " + lead.LastName)
	if name != "" {
		return name
	}
	if lead.Email != "" {
		return lead.Email
	}
	return lead.Phone
}

func leadName(lead queue.LeadPayload) string {
	source := lead.Source
	if source == "" {
		source = "website"
	}
	return fmt.Sprintf("%s - %s", displayName(lead), source)
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("kommo %s: %w", op, err)
	}
	if resp.IsError() {
		return fmt.Errorf("kommo %s: status %d: %s", op, resp.StatusCode(), resp.String())
	}
	return nil
}
