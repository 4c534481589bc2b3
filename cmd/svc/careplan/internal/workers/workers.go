// Package workers contains the background workers for the careplan service.
package workers

import (
	"context"
	"time"

	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/dal"
	"github.com/bitmap357/hospital-test/libs/clock"
	"github.com/bitmap357/hospital-test/libs/worker"
	"github.com/bitmap357/hospital-test/svc/careplan"
	"github.com/samuel/go-metrics/metrics"
)

const workerErrMetricName = "CarePlanWorkerError"

const defaultReminderPeriod = time.Second * 20

// reminderInterval is how far a plan step's reminder advances after each fire.
const reminderInterval = 24 * time.Hour

// Notifier delivers a reminder to the patient-facing notification pipeline.
type Notifier interface {
	Notify(ctx context.Context, n *careplan.ReminderNotification) error
}

// Workers is the collection of all workers used by the careplan service
type Workers struct {
	worker.Collection
	dal      dal.DAL
	notifier Notifier
	clk      clock.Clock

	statNotified *metrics.Counter
	statStale    *metrics.Counter
	statEnded    *metrics.Counter
	statFireAge  metrics.Histogram
}

// New initializes the collection of workers used by the careplan service
func New(dl dal.DAL, notifier Notifier, clk clock.Clock, metricsRegistry metrics.Registry) *Workers {
	w := &Workers{
		dal:          dl,
		notifier:     notifier,
		clk:          clk,
		statNotified: metrics.NewCounter(),
		statStale:    metrics.NewCounter(),
		statEnded:    metrics.NewCounter(),
		statFireAge:  metrics.NewUnbiasedHistogram(),
	}
	if metricsRegistry != nil {
		metricsRegistry.Add("reminders/notified", w.statNotified)
		metricsRegistry.Add("reminders/stale", w.statStale)
		metricsRegistry.Add("reminders/ended", w.statEnded)
		metricsRegistry.Add("reminders/fire_age_seconds", w.statFireAge)
	}
	w.AddWorker(worker.NewRepeat(defaultReminderPeriod, w.processDueReminders))
	return w
}
