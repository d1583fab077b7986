package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alfredoramos.mx/rescue-reporter/models"
	"github.com/getsentry/sentry-go"
)

const (
	defaultTimeout     time.Duration = 5 * time.Second
	defaultMapsBaseURL string        = "https://www.google.com/maps?q="
	recordTimeout      time.Duration = 3 * time.Second
)

var ErrNoTarget = errors.New("The responder has no contact for this channel.")

// Channel delivers an intent. A nil error means the channel accepted it.
type Channel interface {
	Name() string
	Send(ctx context.Context, intent Intent) error
}

// Recorder persists the outcome of each channel delivery.
type Recorder interface {
	Record(ctx context.Context, intent Intent, d Delivery) error
}

type Delivery struct {
	Channel  string
	Err      error
	TimedOut bool
}

func (d Delivery) OK() bool {
	return d.Err == nil && !d.TimedOut
}

func (d Delivery) Status() models.NotificationStatus {
	if d.TimedOut {
		return models.NotificationTimedOut
	}

	if d.Err != nil {
		return models.NotificationFailed
	}

	return models.NotificationSent
}

type Option func(*Dispatcher)

func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

func WithMapsBaseURL(u string) Option {
	return func(d *Dispatcher) {
		if len(u) > 0 {
			d.mapsBaseURL = u
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// Dispatcher fans an intent out to every configured channel. Delivery is
// best-effort: failures are logged and recorded, never returned.
type Dispatcher struct {
	channels    []Channel
	timeout     time.Duration
	mapsBaseURL string
	recorder    Recorder
	logger      *slog.Logger
}

func NewDispatcher(channels []Channel, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		channels:    channels,
		timeout:     defaultTimeout,
		mapsBaseURL: defaultMapsBaseURL,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))

	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}

	return names
}

type indexedDelivery struct {
	index    int
	delivery Delivery
}

// Notify sends the report to its assigned responder through all channels
// concurrently and waits until they finish or the timeout expires. It is a
// no-op for unassigned reports.
func (d *Dispatcher) Notify(ctx context.Context, r models.Report, a models.Assignment) []Delivery {
	if !a.IsAssigned() || len(d.channels) < 1 {
		return nil
	}

	intent := NewIntent(r, a, d.mapsBaseURL)

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	results := make(chan indexedDelivery, len(d.channels))
	deliveries := make([]Delivery, len(d.channels))

	for i, ch := range d.channels {
		deliveries[i] = Delivery{Channel: ch.Name(), TimedOut: true}

		go func(i int, ch Channel) {
			results <- indexedDelivery{index: i, delivery: d.deliver(sendCtx, ch, intent)}
		}(i, ch)
	}

	for pending := len(d.channels); pending > 0; pending-- {
		select {
		case res := <-results:
			deliveries[res.index] = res.delivery
		case <-sendCtx.Done():
			drain(results, deliveries)

			for _, del := range deliveries {
				if del.TimedOut {
					d.logger.Warn(fmt.Sprintf("Notification channel '%s' did not finish for report %d: %v", del.Channel, intent.ReportID, sendCtx.Err()))
				}
			}

			return deliveries
		}
	}

	return deliveries
}

// drain collects results that arrived before the deadline but were not read.
func drain(results <-chan indexedDelivery, deliveries []Delivery) {
	for {
		select {
		case res := <-results:
			deliveries[res.index] = res.delivery
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ch Channel, intent Intent) (del Delivery) {
	del = Delivery{Channel: ch.Name()}

	defer func() {
		if r := recover(); r != nil {
			del.Err = fmt.Errorf("Channel '%s' panicked: %v", del.Channel, r)
		}

		if del.Err != nil {
			if errors.Is(del.Err, context.DeadlineExceeded) {
				del.TimedOut = true
			} else {
				sentry.CaptureException(del.Err)
			}

			d.logger.Error(fmt.Sprintf("Could not notify '%s' through %s for report %d: %v", intent.Ngo.Name, del.Channel, intent.ReportID, del.Err))
		}

		d.record(ctx, intent, del)
	}()

	del.Err = ch.Send(ctx, intent)

	return del
}

func (d *Dispatcher) record(ctx context.Context, intent Intent, del Delivery) {
	if d.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := d.recorder.Record(ctx, intent, del); err != nil {
		d.logger.Error(fmt.Sprintf("Could not record %s notification for report %d: %v", del.Channel, intent.ReportID, err))
	}
}
