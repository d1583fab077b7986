package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"alfredoramos.mx/rescue-reporter/helpers"
	"alfredoramos.mx/rescue-reporter/notifications"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

// NotificationEmailHandler delivers the email of a notification intent.
// Delivery failures are retried by the queue.
type NotificationEmailHandler struct {
	mailer helpers.Mailer
}

func NewNotificationEmailHandler(mailer helpers.Mailer) *NotificationEmailHandler {
	return &NotificationEmailHandler{mailer: mailer}
}

func (h *NotificationEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	intent, err := notifications.ParseEmailTask(t)
	if err != nil {
		return fmt.Errorf("Could not decode payload: %w: %w", err, asynq.SkipRetry)
	}

	msg, err := helpers.NotificationEmail(intent)
	if err != nil {
		return fmt.Errorf("Could not build email: %w: %w", err, asynq.SkipRetry)
	}

	if err := h.mailer.Send(ctx, msg); err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Could not deliver email for report %d: %v", intent.ReportID, err))
		return fmt.Errorf("Could not deliver email: %w", err)
	}

	slog.Info(fmt.Sprintf("Delivered email for report %d to '%s'.", intent.ReportID, intent.Ngo.Name))

	return nil
}

func IsPermanentFailure(err error) bool {
	return errors.Is(err, asynq.SkipRetry)
}
