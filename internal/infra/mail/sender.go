package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/woo-crm/internal/usecase"
)

//go:embed templates/*.html
var templates embed.FS

var newLeadTemplate = template.Must(template.ParseFS(templates, "templates/new_lead.html"))

func NewEmailSender(host string, port int, user, password, from, adminTo string) *EmailSender {
	s := &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		AdminTo:  adminTo,
	}
	s.send = func(m *gomail.Message) error {
		return gomail.NewDialer(s.Host, s.Port, s.User, s.Password).DialAndSend(m)
	}
	return s
}

// Enabled reports whether an SMTP host and a recipient are configured.
func (s *EmailSender) Enabled() bool {
	return s.Host != "" && s.AdminTo != ""
}

// SendNewLead notifies the site administrator about a new contact.
func (s *EmailSender) SendNewLead(n usecase.LeadNotification) error {
	if !s.Enabled() {
		return nil
	}

	subject, body, err := renderNewLead(n)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.AdminTo)
	if n.Email != "" {
		m.SetHeader("Reply-To", n.Email)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("send lead email: %w", err)
	}
	return nil
}

func renderNewLead(n usecase.LeadNotification) (string, string, error) {
	data := NewLeadEmailData{
		Name:      n.Name,
		Email:     n.Email,
		Phone:     n.Phone,
		Source:    n.Source,
		Form:      n.Form,
		ContactID: n.ContactID,
	}
	for k, v := range n.Values {
		data.Fields = append(data.Fields, Field{Name: k, Value: v})
	}
	sort.Slice(data.Fields, func(i, j int) bool { return data.Fields[i].Name < data.Fields[j].Name })

	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render lead email: %w", err)
	}

	subject := "New lead"
	if who := firstNonEmpty(n.Name, n.Email, n.Phone); who != "" {
		subject += ": " + who
	}
	return subject, body.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
