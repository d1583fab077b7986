package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"alfredoramos.mx/rescue-reporter/helpers"
	"alfredoramos.mx/rescue-reporter/utils"
	"github.com/wneessen/go-mail"
)

func NewSMTP() (*mail.Client, error) {
	port, err := strconv.Atoi(os.Getenv("EMAIL_PORT"))
	if err != nil {
		port = mail.DefaultPortTLS
		slog.Warn(fmt.Sprintf("The SMTP port '%s' is invalid. The port %d will be used instead.", os.Getenv("EMAIL_PORT"), port))
	}

	tlsPolicy := mail.TLSMandatory
	smtpAuth := mail.SMTPAuthCramMD5

	useTls, err := strconv.ParseBool(os.Getenv("EMAIL_TLS"))
	if err != nil {
		useTls = true
	}

	if !useTls {
		tlsPolicy = mail.TLSOpportunistic
		smtpAuth = mail.SMTPAuthLogin
	}

	client, err := mail.NewClient(
		os.Getenv("EMAIL_HOST"),
		mail.WithSMTPAuth(smtpAuth),
		mail.WithTLSPortPolicy(tlsPolicy),
		mail.WithPort(port),
		mail.WithUsername(os.Getenv("EMAIL_USERNAME")),
		mail.WithPassword(os.Getenv("EMAIL_PASSWORD")),
	)
	if err != nil {
		return nil, fmt.Errorf("Could not create email client: %w", err)
	}

	return client, nil
}

// NewMailer returns the mailer of the configured provider.
func NewMailer() (helpers.Mailer, error) {
	from := utils.EmailFrom()

	if utils.EmailProvider() == utils.EmailProviderSendGrid {
		if len(utils.SendGridAPIKey()) < 1 {
			return nil, errors.New("The SendGrid API key is empty.")
		}

		return helpers.NewSendGridMailer(utils.SendGridAPIKey(), from, utils.AppName()), nil
	}

	client, err := NewSMTP()
	if err != nil {
		return nil, err
	}

	return helpers.NewSMTPMailer(client, from, utils.AppName()), nil
}
