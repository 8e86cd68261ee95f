package usecase

import "github.com/xavierca1/woo-crm/internal/entity"

type SubmitFormInput struct {
	Slug      string            `json:"slug"`
	Category  string            `json:"category,omitempty"`
	Variant   string            `json:"variant,omitempty"`
	Values    map[string]string `json:"values"`
	SourceURL string            `json:"source_url,omitempty"`
	IP        string            `json:"-"`
	UserAgent string            `json:"-"`
}

type SubmitFormOutput struct {
	ContactID    string   `json:"contact_id"`
	SubmissionID string   `json:"submission_id"`
	NewContact   bool     `json:"new_contact"`
	Interests    []string `json:"interests,omitempty"`
	Msg          string   `json:"msg"`
}

type CaptureLeadInput struct {
	Name    string `json:"name" validate:"max=200"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Message string `json:"message" validate:"max=5000"`
	Source  string `json:"source" validate:"max=100"`
}

type CaptureLeadOutput struct {
	LeadID     string `json:"lead_id"`
	ContactID  string `json:"contact_id"`
	NewContact bool   `json:"new_contact"`
}

type FormInput struct {
	Slug        string             `json:"slug" validate:"required,max=100"`
	Title       string             `json:"title" validate:"required,max=200"`
	Fields      []entity.FormField `json:"fields"`
	DefaultTags []string           `json:"default_tags"`
	Status      string             `json:"status" validate:"omitempty,oneof=active disabled"`
}

type ContactPage struct {
	Contacts []*entity.Contact `json:"contacts"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type ContactDetail struct {
	Contact     *entity.Contact          `json:"contact"`
	Submissions []*entity.FormSubmission `json:"submissions"`
}

type QuoteResult struct {
	Rates  []entity.Rate `json:"rates"`
	Cached bool          `json:"cached"`
}
