package mail

import "gopkg.in/gomail.v2"

type NewLeadEmailData struct {
	Name      string
	Email     string
	Phone     string
	Source    string
	Form      string
	ContactID string
	Fields    []Field
}

type Field struct {
	Name  string
	Value string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	AdminTo  string

	send func(m *gomail.Message) error
}
