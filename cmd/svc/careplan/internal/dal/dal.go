// Package dal provides the data access layer for the careplan service.
package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/models"
	"github.com/bitmap357/hospital-test/libs/dbutil"
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/golog"
	"github.com/bitmap357/hospital-test/libs/transactional/tsql"
)

var ErrNotFound = errors.New("careplan/dal: not found")

type DAL interface {
	Transact(context.Context, func(context.Context, DAL) error) error

	InsertNote(context.Context, *models.Note) (models.NoteID, error)
	Note(ctx context.Context, id models.NoteID) (*models.Note, error)

	InsertCareTeamMembership(context.Context, *models.CareTeamMembership) error
	IsCareTeamMember(ctx context.Context, doctorID, patientID uint64) (bool, error)
	PatientsForDoctor(ctx context.Context, doctorID uint64) ([]uint64, error)

	InsertActionableStep(context.Context, *models.ActionableStep) (models.StepID, error)
	ActiveActionableStep(ctx context.Context, id models.StepID, opts ...QueryOption) (*models.ActionableStep, error)
	ActiveStepsForPatient(ctx context.Context, patientID uint64, opts ...QueryOption) ([]*models.ActionableStep, error)
	DeactivateStepsForPatient(ctx context.Context, patientID uint64) (int64, error)
	UpdateActionableStep(ctx context.Context, id models.StepID, update *models.ActionableStepUpdate) (int64, error)

	InsertStepReminder(context.Context, *models.StepReminder) error
	StepReminder(ctx context.Context, stepID models.StepID, opts ...QueryOption) (*models.StepReminder, error)
	DueStepReminders(ctx context.Context, before time.Time) ([]*models.StepReminder, error)
	RescheduleStepReminder(ctx context.Context, stepID models.StepID, next time.Time) (int64, error)
	DeleteStepReminder(ctx context.Context, stepID models.StepID) (int64, error)
}

type QueryOption int

const (
	// ForUpdateOpt is an option to specify when you are selecting for update
	ForUpdateOpt QueryOption = iota << 1
)

type queryOptions []QueryOption

func (qos queryOptions) Has(opt QueryOption) bool {
	for _, o := range qos {
		if o == opt {
			return true
		}
	}
	return false
}

type dal struct {
	db tsql.DB
}

func New(db *sql.DB) DAL {
	return &dal{
		db: tsql.AsDB(db),
	}
}

func (d *dal) Transact(ctx context.Context, trans func(context.Context, DAL) error) (err error) {
	tx, err := d.db.Begin()
	if err != nil {
		return errors.Trace(err)
	}
	tdal := &dal{
		db: tsql.AsSafeTx(tx),
	}
	// Recover from any inner panics that happened and close the transaction
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			errString := fmt.Sprintf("Encountered panic during transaction execution: %v", r)
			golog.Errorf(errString)
			err = errors.Trace(errors.New(errString))
		}
	}()
	if err := trans(ctx, tdal); err != nil {
		tx.Rollback()
		return errors.Trace(err)
	}
	return errors.Trace(tx.Commit())
}

func (d *dal) InsertNote(ctx context.Context, note *models.Note) (models.NoteID, error) {
	id, err := models.NewNoteID()
	if err != nil {
		return models.EmptyNoteID(), errors.Trace(err)
	}
	if _, err := d.db.Exec(`
		INSERT INTO note (id, doctor_id, patient_id, content)
		VALUES (?, ?, ?, ?)`, id, note.DoctorID, note.PatientID, note.Content); err != nil {
		return models.EmptyNoteID(), errors.Trace(err)
	}
	note.ID = id
	return id, nil
}

func (d *dal) Note(ctx context.Context, id models.NoteID) (*models.Note, error) {
	row := d.db.QueryRow(selectNote+` WHERE id = ?`, id)
	note, err := scanNote(row, "id: %s", id)
	return note, errors.Trace(err)
}

func (d *dal) InsertCareTeamMembership(ctx context.Context, m *models.CareTeamMembership) error {
	_, err := d.db.Exec(`
		INSERT IGNORE INTO care_team_membership (doctor_id, patient_id)
		VALUES (?, ?)`, m.DoctorID, m.PatientID)
	return errors.Trace(err)
}

func (d *dal) IsCareTeamMember(ctx context.Context, doctorID, patientID uint64) (bool, error) {
	var x int
	err := d.db.QueryRow(`
		SELECT 1 FROM care_team_membership
		WHERE doctor_id = ? AND patient_id = ?`, doctorID, patientID).Scan(&x)
	if err == sql.ErrNoRows {
		return false, nil
	} else if err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}

func (d *dal) PatientsForDoctor(ctx context.Context, doctorID uint64) ([]uint64, error) {
	rows, err := d.db.Query(`
		SELECT patient_id FROM care_team_membership
		WHERE doctor_id = ? ORDER BY created`, doctorID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()
	var patientIDs []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Trace(err)
		}
		patientIDs = append(patientIDs, id)
	}
	return patientIDs, errors.Trace(rows.Err())
}

func (d *dal) InsertActionableStep(ctx context.Context, step *models.ActionableStep) (models.StepID, error) {
	id, err := models.NewStepID()
	if err != nil {
		return models.EmptyStepID(), errors.Trace(err)
	}
	if _, err := d.db.Exec(`
		INSERT INTO actionable_step (id, note_id, patient_id, type, description, scheduled, active, checked_in)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, step.NoteID, step.PatientID, step.Type.String(), step.Description, step.Scheduled, true, false); err != nil {
		return models.EmptyStepID(), errors.Trace(err)
	}
	step.ID = id
	step.Active = true
	return id, nil
}

func (d *dal) ActiveActionableStep(ctx context.Context, id models.StepID, opts ...QueryOption) (*models.ActionableStep, error) {
	q := selectActionableStep + ` WHERE id = ? AND active = true`
	if queryOptions(opts).Has(ForUpdateOpt) {
		q += ` FOR UPDATE`
	}
	row := d.db.QueryRow(q, id)
	step, err := scanActionableStep(row, "id: %s", id)
	return step, errors.Trace(err)
}

func (d *dal) ActiveStepsForPatient(ctx context.Context, patientID uint64, opts ...QueryOption) ([]*models.ActionableStep, error) {
	q := selectActionableStep + ` WHERE patient_id = ? AND active = true ORDER BY created, id`
	if queryOptions(opts).Has(ForUpdateOpt) {
		q += ` FOR UPDATE`
	}
	rows, err := d.db.Query(q, patientID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()
	var steps []*models.ActionableStep
	for rows.Next() {
		step, err := scanActionableStep(rows, "patient_id: %d", patientID)
		if err != nil {
			return nil, errors.Trace(err)
		}
		steps = append(steps, step)
	}
	return steps, errors.Trace(rows.Err())
}

func (d *dal) DeactivateStepsForPatient(ctx context.Context, patientID uint64) (int64, error) {
	res, err := d.db.Exec(`
		UPDATE actionable_step SET active = false
		WHERE patient_id = ? AND active = true`, patientID)
	if err != nil {
		return 0, errors.Trace(err)
	}
	n, err := res.RowsAffected()
	return n, errors.Trace(err)
}

func (d *dal) UpdateActionableStep(ctx context.Context, id models.StepID, update *models.ActionableStepUpdate) (int64, error) {
	args := dbutil.MySQLVarArgs()
	if update.CheckedIn != nil {
		args.Append("checked_in", *update.CheckedIn)
	}
	if args.IsEmpty() {
		return 0, nil
	}
	res, err := d.db.Exec(`
		UPDATE actionable_step
		SET `+args.ColumnsForUpdate()+` WHERE id = ?`, append(args.Values(), id)...)
	if err != nil {
		return 0, errors.Trace(err)
	}
	n, err := res.RowsAffected()
	return n, errors.Trace(err)
}

const selectNote = `
    SELECT n.id, n.doctor_id, n.patient_id, n.content, n.created
      FROM note n`

func scanNote(row dbutil.Scanner, contextFormat string, args ...interface{}) (*models.Note, error) {
	var n models.Note
	n.ID = models.EmptyNoteID()
	err := row.Scan(&n.ID, &n.DoctorID, &n.PatientID, &n.Content, &n.Created)
	if err == sql.ErrNoRows {
		return nil, errors.Trace(errors.Annotatef(ErrNotFound, "note - "+contextFormat, args...))
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	return &n, nil
}

const selectActionableStep = `
    SELECT s.id, s.note_id, s.patient_id, s.type, s.description, s.scheduled, s.active, s.checked_in, s.created, s.modified
      FROM actionable_step s`

func scanActionableStep(row dbutil.Scanner, contextFormat string, args ...interface{}) (*models.ActionableStep, error) {
	var s models.ActionableStep
	s.ID = models.EmptyStepID()
	s.NoteID = models.EmptyNoteID()
	var stepType string
	err := row.Scan(&s.ID, &s.NoteID, &s.PatientID, &stepType, &s.Description, &s.Scheduled, &s.Active, &s.CheckedIn, &s.Created, &s.Modified)
	if err == sql.ErrNoRows {
		return nil, errors.Trace(errors.Annotatef(ErrNotFound, "actionable_step - "+contextFormat, args...))
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	s.Type, err = models.ParseStepType(stepType)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &s, nil
}
