package workers

import (
	"context"
	"strconv"

	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/dal"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/models"
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/golog"
	"github.com/bitmap357/hospital-test/libs/smet"
	"github.com/bitmap357/hospital-test/svc/careplan"
)

// processDueReminders fires every reminder whose scheduled time has passed.
// A fire on a step the patient already checked in, or that a newer note
// superseded, ends the chain; otherwise the reminder advances a day.
func (w *Workers) processDueReminders() {
	ctx := context.Background()
	// Find some work to do without locking
	reminders, err := w.dal.DueStepReminders(ctx, w.clk.Now())
	if err != nil {
		smet.Errorf(workerErrMetricName, "Encountered error looking for due step reminders: %s", err)
		return
	}
	if len(reminders) == 0 {
		return
	}

	// Process each reminder individually
	for _, r := range reminders {
		if err := w.processReminder(ctx, r); err != nil {
			smet.Errorf(workerErrMetricName, "Encountered error while processing reminder for step %s: %s", r.StepID, err)
		}
	}
}

func (w *Workers) processReminder(ctx context.Context, due *models.StepReminder) error {
	return w.dal.Transact(ctx, func(ctx context.Context, dl dal.DAL) error {
		now := w.clk.Now()
		// Grab the row and lock it before we start firing
		reminder, err := dl.StepReminder(ctx, due.StepID, dal.ForUpdateOpt)
		if err != nil {
			// Another worker ended the chain, move on
			if errors.Cause(err) == dal.ErrNotFound {
				return nil
			}
			return errors.Trace(err)
		}
		// Make sure someone else didn't already fire it, if they did move on
		if reminder.Scheduled.After(now) {
			return nil
		}

		step, err := dl.ActiveActionableStep(ctx, reminder.StepID)
		if err != nil {
			// The step was superseded by a newer note. Drop the reminder
			// without firing; the fire was stale.
			if errors.Cause(err) == dal.ErrNotFound {
				w.statStale.Inc(1)
				golog.Debugf("careplan: dropping reminder for inactive step %s", reminder.StepID)
				_, err := dl.DeleteStepReminder(ctx, reminder.StepID)
				return errors.Trace(err)
			}
			return errors.Trace(err)
		}

		if err := w.notifier.Notify(ctx, &careplan.ReminderNotification{
			StepID:    step.ID.String(),
			PatientID: strUint(step.PatientID),
			Message:   step.Description,
		}); err != nil {
			// Leave the row due so the fire retries next cycle
			return errors.Trace(err)
		}
		w.statNotified.Inc(1)
		w.statFireAge.Update(int64(now.Sub(reminder.Scheduled).Seconds()))

		if step.CheckedIn {
			w.statEnded.Inc(1)
			_, err := dl.DeleteStepReminder(ctx, reminder.StepID)
			return errors.Trace(err)
		}
		// The next fire is anchored to this firing time, not the scheduled
		// time, so a backlog never causes a burst of catch-up reminders.
		_, err = dl.RescheduleStepReminder(ctx, reminder.StepID, now.Add(reminderInterval))
		return errors.Trace(err)
	})
}

func strUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
