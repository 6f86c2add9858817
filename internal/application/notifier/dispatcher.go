package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notehub/core/internal/application/services"
	"github.com/notehub/core/internal/infrastructure/config"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

// Metrics counts dispatch outcomes.
type Metrics struct {
	sent     prometheus.Counter
	failures prometheus.Counter
	ticks    prometheus.Counter
}

// NewMetrics registers the dispatch counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of due-note notifications delivered",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notification_send_failures_total",
			Help: "Total number of failed notification sends",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notification_dispatch_ticks_total",
			Help: "Total number of dispatch loop runs",
		}),
	}
	reg.MustRegister(m.sent, m.failures, m.ticks)
	return m
}

// Dispatcher runs the due-note notification cycle: fetch due, unsent
// notes grouped by owner, push one message per note to the owner's topic
// and flag each delivered note. Delivery is at-least-once and best
// effort; a failed send leaves the note eligible for the next tick.
type Dispatcher struct {
	noteService *services.NoteService
	sender      ports.PushSender
	cfg         config.PushConfig
	metrics     *Metrics
	logger      *logger.Logger
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(noteService *services.NoteService, sender ports.PushSender, cfg config.PushConfig, metrics *Metrics, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		noteService: noteService,
		sender:      sender,
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
	}
}

// Run executes one dispatch tick. It never propagates failure to its
// trigger: every error path is logged and swallowed here.
func (d *Dispatcher) Run(ctx context.Context) {
	if !d.cfg.Enabled {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Dispatch tick panicked", "panic", r)
		}
	}()

	if d.metrics != nil {
		d.metrics.ticks.Inc()
	}

	groups, err := d.noteService.GetNotesForNotificationProcessing(ctx)
	if err != nil {
		d.logger.Error("Failed to fetch notes for notification", "error", err)
		return
	}

	for _, group := range groups {
		topic := fmt.Sprintf("%s/%s", d.cfg.Topic, group.UserID)

		for _, note := range group.Notes {
			body := fmt.Sprintf("Note %s is due on %s", note.Title, note.DueDate.UTC().Format(time.RFC3339))

			if err := d.sender.Send(ctx, topic, "A note is due", body); err != nil {
				d.logger.Warn("Failed to send notification",
					"note_id", note.ID,
					"response", err.Error(),
				)
				if d.metrics != nil {
					d.metrics.failures.Inc()
				}
				continue
			}

			if d.metrics != nil {
				d.metrics.sent.Inc()
			}
			d.noteService.SetNotificationSent(ctx, note.ID)
		}
	}
}
