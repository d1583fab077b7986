package helpers

import (
	"bytes"
	"testing"

	"alfredoramos.mx/rescue-reporter/models"
	"alfredoramos.mx/rescue-reporter/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIntent(email *string) notifications.Intent {
	r := models.Report{
		ID:            12,
		Description:   "Injured dog <near> the temple",
		ReporterPhone: "+91 90000 12345",
		Latitude:      28.6,
		Longitude:     77.2,
	}

	a := models.Assignment{
		Ngo:        &models.Ngo{ID: 1, Name: "Delhi Rescue", Phone: "011", Email: email},
		DistanceKm: 1.78,
	}

	return notifications.NewIntent(r, a, "https://www.google.com/maps?q=")
}

func TestNotificationEmail(t *testing.T) {
	email := "help@delhirescue.org"

	msg, err := NotificationEmail(sampleIntent(&email))
	require.NoError(t, err)
	assert.True(t, msg.IsValid())
	assert.Equal(t, "New rescue report #12", msg.Subject)
	assert.Equal(t, []string{email}, msg.ToList)
	assert.Equal(t, TemplateReportAssigned, msg.TemplateName)

	_, err = NotificationEmail(sampleIntent(nil))
	assert.ErrorIs(t, err, notifications.ErrNoTarget)
}

func TestRenderEmail(t *testing.T) {
	email := "help@delhirescue.org"
	msg, err := NotificationEmail(sampleIntent(&email))
	require.NoError(t, err)

	body, err := renderEmail("Rescue Reporter", msg)
	require.NoError(t, err)

	assert.Contains(t, body.Text, "Hello Delhi Rescue,")
	assert.Contains(t, body.Text, "Report: #12")
	assert.Contains(t, body.Text, "Injured dog <near> the temple")
	assert.Contains(t, body.Text, "Distance: 1.78 km")
	assert.Contains(t, body.Text, "Map: https://www.google.com/maps?q=28.6,77.2")

	assert.Contains(t, body.HTML, "Injured dog &lt;near&gt; the temple")
	assert.Contains(t, body.HTML, "Rescue Reporter")

	_, err = renderEmail("Rescue Reporter", EmailMessage{Subject: "x", TemplateName: "missing", ToList: []string{email}})
	assert.Error(t, err)

	_, err = renderEmail("Rescue Reporter", EmailMessage{})
	assert.Error(t, err)
}

func TestSMTPMessage(t *testing.T) {
	email := "help@delhirescue.org"
	msg, err := NotificationEmail(sampleIntent(&email))
	require.NoError(t, err)

	_, err = NewSMTPMailer(nil, "", "Rescue Reporter").Message(msg)
	assert.Error(t, err)

	mm, err := NewSMTPMailer(nil, "noreply@rescue.example", "Rescue Reporter").Message(msg)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	_, err = mm.WriteTo(buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "help@delhirescue.org")
	assert.Contains(t, raw, "noreply@rescue.example")
}

func TestSendGridMessage(t *testing.T) {
	email := "help@delhirescue.org"
	msg, err := NotificationEmail(sampleIntent(&email))
	require.NoError(t, err)

	m, err := NewSendGridMailer("test-key", "noreply@rescue.example", "Rescue Reporter").Message(msg)
	require.NoError(t, err)

	assert.Equal(t, "New rescue report #12 • Rescue Reporter", m.Subject)
	assert.Equal(t, "noreply@rescue.example", m.From.Address)
	require.Len(t, m.Personalizations, 1)
	require.Len(t, m.Personalizations[0].To, 1)
	assert.Equal(t, email, m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)
}
