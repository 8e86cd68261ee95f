package whatsapp

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
	phoneID    string
	template   string
	language   string
	logger     *zap.Logger
}

func NewClient(baseURL, token, phoneID, template, language string, logger *zap.Logger) *Client {
	// no retries: a resend after a lost response delivers the message twice
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: httpClient,
		phoneID:    phoneID,
		template:   template,
		language:   language,
		logger:     logger,
	}
}

func (c *Client) Name() string { return "whatsapp" }

// Forward sends the welcome template to new contacts that left a phone
// number. Returning contacts are not messaged again.
func (c *Client) Forward(ctx context.Context, lead queue.LeadPayload) error {
	if !lead.NewContact || lead.Phone == "" {
		return nil
	}
	name := lead.FirstName
	if name == "" {
		name = "there"
	}
	return c.SendMessage(ctx, SendMessageInput{
		PhoneNumber:  strings.TrimPrefix(lead.Phone, "+"),
		TemplateName: c.template,
		Parameters:   []string{name},
	})
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]any{
			"name":     input.TemplateName,
			"language": map[string]string{"code": c.language},
			"components": []map[string]any{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	var result SendMessageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/%s/messages", c.phoneID))
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("whatsapp send: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	if resp.IsError() {
		return fmt.Errorf("whatsapp send: status %d", resp.StatusCode())
	}

	c.logger.Info("whatsapp template sent", zap.String("template", input.TemplateName))
	return nil
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
