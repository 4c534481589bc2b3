// Package service implements the careplan operations: note submission with
// follow-up step derivation, patient check-in, and sealed note reads.
package service

import (
	"context"

	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/dal"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/extraction"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/models"
	"github.com/bitmap357/hospital-test/libs/clock"
	"github.com/bitmap357/hospital-test/libs/crypt"
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/golog"
	"github.com/bitmap357/hospital-test/libs/ptr"
)

var (
	// ErrNotFound is returned when the referenced object does not exist or is no longer active.
	ErrNotFound = errors.New("careplan/service: not found")
	// ErrUnauthorized is returned when the actor may not perform the operation.
	ErrUnauthorized = errors.New("careplan/service: unauthorized")
)

// UnauthorizedNoteContent is returned as the content of a note to any
// requester who is neither the note's doctor nor its patient.
const UnauthorizedNoteContent = "Unauthorized"

// Extractor derives follow-up items from note text.
type Extractor interface {
	Extract(ctx context.Context, note string) *extraction.Result
}

// NoteResult is the outcome of submitting a note.
type NoteResult struct {
	Note     *models.Note
	Steps    []*models.ActionableStep
	Fallback bool
}

// Service exposes the careplan operations over the DAL.
type Service struct {
	dal       dal.DAL
	extractor Extractor
	box       crypt.EncrypterDecrypter
	clk       clock.Clock
}

// New returns an initialized instance of Service
func New(dl dal.DAL, extractor Extractor, box crypt.EncrypterDecrypter, clk clock.Clock) *Service {
	return &Service{
		dal:       dl,
		extractor: extractor,
		box:       box,
		clk:       clk,
	}
}

// CreateNote records a note a doctor wrote for a patient, derives the
// follow-up steps from it, and replaces the patient's current step set.
// The new steps supersede every step derived from earlier notes.
func (s *Service) CreateNote(ctx context.Context, doctorID, patientID uint64, content string) (*NoteResult, error) {
	member, err := s.dal.IsCareTeamMember(ctx, doctorID, patientID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !member {
		return nil, errors.Trace(ErrUnauthorized)
	}

	// Extraction happens before the transaction so a slow model call
	// never holds row locks.
	res := s.extractor.Extract(ctx, content)

	sealed, err := s.box.Encrypt([]byte(content))
	if err != nil {
		return nil, errors.Trace(err)
	}

	result := &NoteResult{
		Fallback: res.Source == extraction.SourceFallback,
	}
	if err := s.dal.Transact(ctx, func(ctx context.Context, dl dal.DAL) error {
		note := &models.Note{
			DoctorID:  doctorID,
			PatientID: patientID,
			Content:   sealed,
		}
		noteID, err := dl.InsertNote(ctx, note)
		if err != nil {
			return errors.Trace(err)
		}
		note.ID = noteID
		result.Note = note

		deactivated, err := dl.DeactivateStepsForPatient(ctx, patientID)
		if err != nil {
			return errors.Trace(err)
		}
		if deactivated != 0 {
			golog.Debugf("careplan: note %s superseded %d active steps for patient %d", note.ID, deactivated, patientID)
		}

		for _, it := range res.Checklist {
			step := &models.ActionableStep{
				NoteID:      note.ID,
				PatientID:   patientID,
				Type:        models.StepTypeChecklist,
				Description: it.Description,
			}
			stepID, err := dl.InsertActionableStep(ctx, step)
			if err != nil {
				return errors.Trace(err)
			}
			step.ID = stepID
			result.Steps = append(result.Steps, step)
		}
		for _, it := range res.Plan {
			scheduled := it.Scheduled
			step := &models.ActionableStep{
				NoteID:      note.ID,
				PatientID:   patientID,
				Type:        models.StepTypePlan,
				Description: it.Description,
				Scheduled:   ptr.Time(scheduled),
			}
			stepID, err := dl.InsertActionableStep(ctx, step)
			if err != nil {
				return errors.Trace(err)
			}
			step.ID = stepID
			if err := dl.InsertStepReminder(ctx, &models.StepReminder{
				StepID:    stepID,
				PatientID: patientID,
				Scheduled: scheduled,
			}); err != nil {
				return errors.Trace(err)
			}
			result.Steps = append(result.Steps, step)
		}
		return nil
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}

// CheckIn marks an active step as checked in by the patient. Checking in a
// step that is already checked in succeeds again; a missing or superseded
// step is not found.
func (s *Service) CheckIn(ctx context.Context, stepID models.StepID) error {
	if _, err := s.dal.ActiveActionableStep(ctx, stepID); err != nil {
		if errors.Cause(err) == dal.ErrNotFound {
			return errors.Trace(ErrNotFound)
		}
		return errors.Trace(err)
	}
	if _, err := s.dal.UpdateActionableStep(ctx, stepID, &models.ActionableStepUpdate{
		CheckedIn: ptr.Bool(true),
	}); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// ActiveSteps returns the patient's current step set in creation order.
func (s *Service) ActiveSteps(ctx context.Context, patientID uint64) ([]*models.ActionableStep, error) {
	steps, err := s.dal.ActiveStepsForPatient(ctx, patientID)
	return steps, errors.Trace(err)
}

// NoteContent returns the plaintext of a note to its doctor or patient. Any
// other requester receives the unauthorized sentinel as the content.
func (s *Service) NoteContent(ctx context.Context, noteID models.NoteID, requesterID uint64) (string, error) {
	note, err := s.dal.Note(ctx, noteID)
	if err != nil {
		if errors.Cause(err) == dal.ErrNotFound {
			return "", errors.Trace(ErrNotFound)
		}
		return "", errors.Trace(err)
	}
	if requesterID != note.DoctorID && requesterID != note.PatientID {
		return UnauthorizedNoteContent, nil
	}
	plain, err := s.box.Decrypt(note.Content)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(plain), nil
}

// AddCareTeamMembership assigns a doctor to a patient's care team. Adding an
// existing membership is a no-op.
func (s *Service) AddCareTeamMembership(ctx context.Context, doctorID, patientID uint64) error {
	return errors.Trace(s.dal.InsertCareTeamMembership(ctx, &models.CareTeamMembership{
		DoctorID:  doctorID,
		PatientID: patientID,
	}))
}

// PatientsForDoctor returns the IDs of the patients on the doctor's care teams.
func (s *Service) PatientsForDoctor(ctx context.Context, doctorID uint64) ([]uint64, error) {
	patientIDs, err := s.dal.PatientsForDoctor(ctx, doctorID)
	return patientIDs, errors.Trace(err)
}
