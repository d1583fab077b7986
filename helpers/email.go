package helpers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	html_tpl "html/template"
	text_tpl "text/template"

	"alfredoramos.mx/rescue-reporter/notifications"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wneessen/go-mail"
)

const (
	TemplateReportAssigned string = "report_assigned"
	sendTimeout            time.Duration = 10 * time.Second
)

//go:embed templates/email/*
var templates embed.FS

type EmailMessage struct {
	Subject      string                 `json:"subject"`
	TemplateName string                 `json:"template_name"`
	ToList       []string               `json:"to_list"`
	Data         map[string]interface{} `json:"data"`
}

func (e EmailMessage) IsValid() bool {
	return len(e.Subject) > 0 && len(e.TemplateName) > 0 && len(e.ToList) > 0
}

type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NotificationEmail builds the message sent to the NGO assigned to a report.
func NotificationEmail(intent notifications.Intent) (EmailMessage, error) {
	to := intent.TargetFor(notifications.ChannelEmail)
	if to == nil {
		return EmailMessage{}, notifications.ErrNoTarget
	}

	return EmailMessage{
		Subject:      fmt.Sprintf("New rescue report #%d", intent.ReportID),
		TemplateName: TemplateReportAssigned,
		ToList:       []string{*to},
		Data:         intent.TemplateData(),
	}, nil
}

type renderedEmail struct {
	HTML string
	Text string
}

func renderEmail(appName string, msg EmailMessage) (renderedEmail, error) {
	if !msg.IsValid() {
		return renderedEmail{}, errors.New("Missing information to send email.")
	}

	data := map[string]interface{}{}

	for k, v := range msg.Data {
		data[k] = v
	}

	data["AppName"] = appName
	data["Subject"] = msg.Subject
	data["Now"] = time.Now()

	base := "templates/email/" + msg.TemplateName

	htmlTpl, err := html_tpl.ParseFS(templates, base+".html")
	if err != nil {
		return renderedEmail{}, fmt.Errorf("Error loading the HTML template: %w", err)
	}

	textTpl, err := text_tpl.ParseFS(templates, base+".txt")
	if err != nil {
		return renderedEmail{}, fmt.Errorf("Error loading the TEXT template: %w", err)
	}

	html := &bytes.Buffer{}
	if err := htmlTpl.Execute(html, data); err != nil {
		return renderedEmail{}, fmt.Errorf("Error rendering HTML template: %w", err)
	}

	text := &bytes.Buffer{}
	if err := textTpl.Execute(text, data); err != nil {
		return renderedEmail{}, fmt.Errorf("Error rendering TEXT template: %w", err)
	}

	return renderedEmail{HTML: html.String(), Text: text.String()}, nil
}

func subjectLine(subject string, appName string) string {
	if len(appName) < 1 {
		return subject
	}

	return subject + " • " + appName
}

type SMTPMailer struct {
	client  *mail.Client
	from    string
	appName string
}

func NewSMTPMailer(client *mail.Client, from string, appName string) *SMTPMailer {
	return &SMTPMailer{client: client, from: from, appName: appName}
}

func (m *SMTPMailer) Message(msg EmailMessage) (*mail.Msg, error) {
	if len(m.from) < 1 {
		return nil, errors.New("The from email address is invalid.")
	}

	body, err := renderEmail(m.appName, msg)
	if err != nil {
		return nil, err
	}

	mm := mail.NewMsg()
	mm.SetMessageID()
	mm.SetDate()
	mm.Subject(subjectLine(msg.Subject, m.appName))

	if err := mm.FromFormat(m.appName, m.from); err != nil {
		return nil, fmt.Errorf("Could not set the from email address: %w", err)
	}

	if err := mm.To(msg.ToList...); err != nil {
		return nil, fmt.Errorf("Could not set the recipient email address: %w", err)
	}

	mm.SetBodyString(mail.TypeTextHTML, body.HTML)
	mm.AddAlternativeString(mail.TypeTextPlain, body.Text)

	return mm, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	mm, err := m.Message(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	return m.client.DialAndSendWithContext(ctx, mm)
}

type SendGridMailer struct {
	client  *sendgrid.Client
	from    string
	appName string
}

func NewSendGridMailer(apiKey string, from string, appName string) *SendGridMailer {
	return &SendGridMailer{
		client:  sendgrid.NewSendClient(apiKey),
		from:    from,
		appName: appName,
	}
}

func (m *SendGridMailer) Message(msg EmailMessage) (*sgmail.SGMailV3, error) {
	if len(m.from) < 1 {
		return nil, errors.New("The from email address is invalid.")
	}

	body, err := renderEmail(m.appName, msg)
	if err != nil {
		return nil, err
	}

	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(m.appName, m.from))
	message.Subject = subjectLine(msg.Subject, m.appName)

	p := sgmail.NewPersonalization()

	for _, to := range msg.ToList {
		p.AddTos(sgmail.NewEmail(to, to))
	}

	message.AddPersonalizations(p)
	message.AddContent(
		sgmail.NewContent("text/plain", body.Text),
		sgmail.NewContent("text/html", body.HTML),
	)

	return message, nil
}

func (m *SendGridMailer) Send(ctx context.Context, msg EmailMessage) error {
	message, err := m.Message(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	res, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("Could not send email: %w", err)
	}

	if res.StatusCode >= 400 {
		return fmt.Errorf("SendGrid rejected the email with status %d: %s", res.StatusCode, strings.TrimSpace(res.Body))
	}

	return nil
}
