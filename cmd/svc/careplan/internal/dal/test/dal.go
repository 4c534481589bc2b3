package test

import (
	"context"
	"testing"
	"time"

	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/dal"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/models"
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/testhelpers/mock"
)

type mockDAL struct{ *mock.Expector }

var _ dal.DAL = NewMockDAL(nil)

// NewMockDAL returns an initialized instance of mockDAL
func NewMockDAL(t *testing.T) *mockDAL {
	return &mockDAL{
		&mock.Expector{T: t},
	}
}

func (d *mockDAL) Transact(ctx context.Context, trans func(context.Context, dal.DAL) error) error {
	if err := trans(ctx, d); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func (d *mockDAL) InsertNote(ctx context.Context, note *models.Note) (models.NoteID, error) {
	rets := d.Record(note)
	if len(rets) == 0 {
		return models.EmptyNoteID(), nil
	}
	return rets[0].(models.NoteID), mock.SafeError(rets[1])
}

func (d *mockDAL) Note(ctx context.Context, id models.NoteID) (*models.Note, error) {
	rets := d.Record(id)
	if len(rets) == 0 {
		return nil, nil
	}
	return rets[0].(*models.Note), mock.SafeError(rets[1])
}

func (d *mockDAL) InsertCareTeamMembership(ctx context.Context, m *models.CareTeamMembership) error {
	rets := d.Record(m)
	if len(rets) == 0 {
		return nil
	}
	return mock.SafeError(rets[0])
}

func (d *mockDAL) IsCareTeamMember(ctx context.Context, doctorID, patientID uint64) (bool, error) {
	rets := d.Record(doctorID, patientID)
	if len(rets) == 0 {
		return false, nil
	}
	return rets[0].(bool), mock.SafeError(rets[1])
}

func (d *mockDAL) PatientsForDoctor(ctx context.Context, doctorID uint64) ([]uint64, error) {
	rets := d.Record(doctorID)
	if len(rets) == 0 {
		return nil, nil
	}
	return rets[0].([]uint64), mock.SafeError(rets[1])
}

func (d *mockDAL) InsertActionableStep(ctx context.Context, step *models.ActionableStep) (models.StepID, error) {
	rets := d.Record(step)
	if len(rets) == 0 {
		return models.EmptyStepID(), nil
	}
	return rets[0].(models.StepID), mock.SafeError(rets[1])
}

func (d *mockDAL) ActiveActionableStep(ctx context.Context, id models.StepID, opts ...dal.QueryOption) (*models.ActionableStep, error) {
	rets := d.Record(append([]interface{}{id}, queryOptionArgs(opts)...)...)
	if len(rets) == 0 {
		return nil, nil
	}
	return rets[0].(*models.ActionableStep), mock.SafeError(rets[1])
}

func (d *mockDAL) ActiveStepsForPatient(ctx context.Context, patientID uint64, opts ...dal.QueryOption) ([]*models.ActionableStep, error) {
	rets := d.Record(append([]interface{}{patientID}, queryOptionArgs(opts)...)...)
	if len(rets) == 0 {
		return nil, nil
	}
	return rets[0].([]*models.ActionableStep), mock.SafeError(rets[1])
}

func (d *mockDAL) DeactivateStepsForPatient(ctx context.Context, patientID uint64) (int64, error) {
	rets := d.Record(patientID)
	if len(rets) == 0 {
		return 0, nil
	}
	return rets[0].(int64), mock.SafeError(rets[1])
}

func (d *mockDAL) UpdateActionableStep(ctx context.Context, id models.StepID, update *models.ActionableStepUpdate) (int64, error) {
	rets := d.Record(id, update)
	if len(rets) == 0 {
		return 0, nil
	}
	return rets[0].(int64), mock.SafeError(rets[1])
}

func (d *mockDAL) InsertStepReminder(ctx context.Context, r *models.StepReminder) error {
	rets := d.Record(r)
	if len(rets) == 0 {
		return nil
	}
	return mock.SafeError(rets[0])
}

func (d *mockDAL) StepReminder(ctx context.Context, stepID models.StepID, opts ...dal.QueryOption) (*models.StepReminder, error) {
	rets := d.Record(append([]interface{}{stepID}, queryOptionArgs(opts)...)...)
	if len(rets) == 0 {
		return nil, nil
	}
	return rets[0].(*models.StepReminder), mock.SafeError(rets[1])
}

func (d *mockDAL) DueStepReminders(ctx context.Context, before time.Time) ([]*models.StepReminder, error) {
	rets := d.Record(before)
	if len(rets) == 0 {
		return nil, nil
	}
	return rets[0].([]*models.StepReminder), mock.SafeError(rets[1])
}

func (d *mockDAL) RescheduleStepReminder(ctx context.Context, stepID models.StepID, next time.Time) (int64, error) {
	rets := d.Record(stepID, next)
	if len(rets) == 0 {
		return 0, nil
	}
	return rets[0].(int64), mock.SafeError(rets[1])
}

func (d *mockDAL) DeleteStepReminder(ctx context.Context, stepID models.StepID) (int64, error) {
	rets := d.Record(stepID)
	if len(rets) == 0 {
		return 0, nil
	}
	return rets[0].(int64), mock.SafeError(rets[1])
}

func queryOptionArgs(opts []dal.QueryOption) []interface{} {
	args := make([]interface{}, len(opts))
	for i, o := range opts {
		args[i] = o
	}
	return args
}
