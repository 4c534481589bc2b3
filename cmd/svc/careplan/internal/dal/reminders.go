package dal

import (
	"context"
	"database/sql"
	"time"

	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/models"
	"github.com/bitmap357/hospital-test/libs/dbutil"
	"github.com/bitmap357/hospital-test/libs/errors"
)

// InsertStepReminder inserts a step_reminder record
func (d *dal) InsertStepReminder(ctx context.Context, r *models.StepReminder) error {
	_, err := d.db.Exec(`
		INSERT INTO step_reminder (step_id, patient_id, scheduled)
		VALUES (?, ?, ?)`, r.StepID, r.PatientID, r.Scheduled)
	return errors.Trace(err)
}

// StepReminder retrieves a step_reminder record
func (d *dal) StepReminder(ctx context.Context, stepID models.StepID, opts ...QueryOption) (*models.StepReminder, error) {
	q := selectStepReminder + ` WHERE step_id = ?`
	if queryOptions(opts).Has(ForUpdateOpt) {
		q += ` FOR UPDATE`
	}
	row := d.db.QueryRow(q, stepID)
	r, err := scanStepReminder(row, "step_id: %s", stepID)
	return r, errors.Trace(err)
}

// DueStepReminders retrieves the reminders scheduled at or before the indicated time
func (d *dal) DueStepReminders(ctx context.Context, before time.Time) ([]*models.StepReminder, error) {
	rows, err := d.db.Query(selectStepReminder+` WHERE scheduled <= ? ORDER BY scheduled`, before)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()
	var reminders []*models.StepReminder
	for rows.Next() {
		r, err := scanStepReminder(rows, "scheduled <= %s", before)
		if err != nil {
			return nil, errors.Trace(err)
		}
		reminders = append(reminders, r)
	}
	return reminders, errors.Trace(rows.Err())
}

// RescheduleStepReminder advances a reminder to its next firing time
func (d *dal) RescheduleStepReminder(ctx context.Context, stepID models.StepID, next time.Time) (int64, error) {
	res, err := d.db.Exec(`
		UPDATE step_reminder SET scheduled = ?
		WHERE step_id = ?`, next, stepID)
	if err != nil {
		return 0, errors.Trace(err)
	}
	n, err := res.RowsAffected()
	return n, errors.Trace(err)
}

// DeleteStepReminder deletes a step_reminder record ending its chain
func (d *dal) DeleteStepReminder(ctx context.Context, stepID models.StepID) (int64, error) {
	res, err := d.db.Exec(`DELETE FROM step_reminder WHERE step_id = ?`, stepID)
	if err != nil {
		return 0, errors.Trace(err)
	}
	n, err := res.RowsAffected()
	return n, errors.Trace(err)
}

const selectStepReminder = `
    SELECT r.step_id, r.patient_id, r.scheduled, r.created, r.modified
      FROM step_reminder r`

func scanStepReminder(row dbutil.Scanner, contextFormat string, args ...interface{}) (*models.StepReminder, error) {
	var r models.StepReminder
	r.StepID = models.EmptyStepID()
	err := row.Scan(&r.StepID, &r.PatientID, &r.Scheduled, &r.Created, &r.Modified)
	if err == sql.ErrNoRows {
		return nil, errors.Trace(errors.Annotatef(ErrNotFound, "step_reminder - "+contextFormat, args...))
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	return &r, nil
}
