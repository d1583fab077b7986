package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// LogChannel only writes the intent to the log. The SMS and WhatsApp
// variants do the same but require the responder to have that contact.
type LogChannel struct {
	name          string
	requireTarget bool
	logger        *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	return newLogChannel(ChannelLog, false, logger)
}

func NewSMSChannel(logger *slog.Logger) *LogChannel {
	return newLogChannel(ChannelSMS, true, logger)
}

func NewWhatsAppChannel(logger *slog.Logger) *LogChannel {
	return newLogChannel(ChannelWhatsApp, true, logger)
}

func newLogChannel(name string, requireTarget bool, logger *slog.Logger) *LogChannel {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogChannel{name: name, requireTarget: requireTarget, logger: logger}
}

func (c *LogChannel) Name() string {
	return c.name
}

func (c *LogChannel) Send(ctx context.Context, intent Intent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := intent.TargetFor(c.name)

	if c.requireTarget && target == nil {
		return fmt.Errorf("%w: %s", ErrNoTarget, c.name)
	}

	attrs := []any{
		slog.String("channel", c.name),
		slog.String("intent_id", intent.ID.String()),
		slog.Uint64("report_id", uint64(intent.ReportID)),
		slog.String("ngo", intent.Ngo.Name),
		slog.String("ngo_phone", intent.Ngo.Phone),
		slog.String("reporter_phone", intent.ReporterPhone),
		slog.Float64("distance_km", intent.DistanceKm),
		slog.String("map_url", intent.MapURL),
	}

	if target != nil {
		attrs = append(attrs, slog.String("target", *target))
	}

	c.logger.InfoContext(ctx, "Notification intent", attrs...)

	return nil
}

// ChannelsFromConfig builds the channels named in the configuration. The
// email channel needs an enqueuer.
func ChannelsFromConfig(names []string, enqueuer Enqueuer, logger *slog.Logger) ([]Channel, error) {
	channels := []Channel{}
	seen := map[string]bool{}

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))

		if len(name) < 1 || seen[name] {
			continue
		}

		seen[name] = true

		switch name {
		case ChannelLog:
			channels = append(channels, NewLogChannel(logger))
		case ChannelSMS:
			channels = append(channels, NewSMSChannel(logger))
		case ChannelWhatsApp:
			channels = append(channels, NewWhatsAppChannel(logger))
		case ChannelEmail:
			if enqueuer == nil {
				return nil, errors.New("The email channel requires a task queue.")
			}

			channels = append(channels, NewEmailChannel(enqueuer))
		default:
			return nil, fmt.Errorf("Unknown notification channel '%s'.", name)
		}
	}

	return channels, nil
}
