package service

import (
	"context"
	"testing"
	"time"

	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/dal"
	dalmock "github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/dal/test"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/extraction"
	"github.com/bitmap357/hospital-test/cmd/svc/careplan/internal/models"
	"github.com/bitmap357/hospital-test/libs/clock"
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/ptr"
	"github.com/bitmap357/hospital-test/libs/test"
	"github.com/bitmap357/hospital-test/libs/testhelpers/mock"
)

type mockExtractor struct{ *mock.Expector }

func newMockExtractor(t *testing.T) *mockExtractor {
	return &mockExtractor{&mock.Expector{T: t}}
}

func (m *mockExtractor) Extract(ctx context.Context, note string) *extraction.Result {
	rets := m.Record(note)
	return rets[0].(*extraction.Result)
}

type mockBox struct{ *mock.Expector }

func newMockBox(t *testing.T) *mockBox {
	return &mockBox{&mock.Expector{T: t}}
}

func (m *mockBox) Encrypt(plain []byte) ([]byte, error) {
	rets := m.Record(plain)
	return rets[0].([]byte), mock.SafeError(rets[1])
}

func (m *mockBox) Decrypt(ciphered []byte) ([]byte, error) {
	rets := m.Record(ciphered)
	return rets[0].([]byte), mock.SafeError(rets[1])
}

func TestCreateNote(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	ex := newMockExtractor(t)
	defer ex.Finish()
	box := newMockBox(t)
	defer box.Finish()
	clk := clock.NewManaged(time.Unix(1e9, 0))
	svc := New(dl, ex, box, clk)

	noteID, err := models.NewNoteID()
	test.OK(t, err)
	checklistStepID, err := models.NewStepID()
	test.OK(t, err)
	planStepID, err := models.NewStepID()
	test.OK(t, err)
	scheduled := clk.Now().Add(48 * time.Hour)

	dl.Expect(mock.NewExpectation(dl.IsCareTeamMember, uint64(1), uint64(2)).WithReturns(true, nil))
	ex.Expect(mock.NewExpectation(ex.Extract, "Sprained ankle, rest and ice.").WithReturns(&extraction.Result{
		Source:    extraction.SourceExtracted,
		Checklist: []extraction.ChecklistItem{{Description: "Buy an ankle brace"}},
		Plan:      []extraction.PlanItem{{Description: "Ice the ankle daily", Scheduled: scheduled}},
	}))
	box.Expect(mock.NewExpectation(box.Encrypt, []byte("Sprained ankle, rest and ice.")).WithReturns([]byte("sealed"), nil))
	dl.Expect(mock.NewExpectation(dl.InsertNote, &models.Note{
		DoctorID:  1,
		PatientID: 2,
		Content:   []byte("sealed"),
	}).WithReturns(noteID, nil))
	dl.Expect(mock.NewExpectation(dl.DeactivateStepsForPatient, uint64(2)).WithReturns(int64(2), nil))
	dl.Expect(mock.NewExpectation(dl.InsertActionableStep, &models.ActionableStep{
		NoteID:      noteID,
		PatientID:   2,
		Type:        models.StepTypeChecklist,
		Description: "Buy an ankle brace",
	}).WithReturns(checklistStepID, nil))
	dl.Expect(mock.NewExpectation(dl.InsertActionableStep, &models.ActionableStep{
		NoteID:      noteID,
		PatientID:   2,
		Type:        models.StepTypePlan,
		Description: "Ice the ankle daily",
		Scheduled:   ptr.Time(scheduled),
	}).WithReturns(planStepID, nil))
	dl.Expect(mock.NewExpectation(dl.InsertStepReminder, &models.StepReminder{
		StepID:    planStepID,
		PatientID: 2,
		Scheduled: scheduled,
	}))

	res, err := svc.CreateNote(context.Background(), 1, 2, "Sprained ankle, rest and ice.")
	test.OK(t, err)
	test.Equals(t, false, res.Fallback)
	test.Equals(t, noteID, res.Note.ID)
	test.Equals(t, 2, len(res.Steps))
	test.Equals(t, checklistStepID, res.Steps[0].ID)
	test.Equals(t, planStepID, res.Steps[1].ID)
}

func TestCreateNoteUnauthorized(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	ex := newMockExtractor(t)
	defer ex.Finish()
	box := newMockBox(t)
	defer box.Finish()
	svc := New(dl, ex, box, clock.NewManaged(time.Unix(1e9, 0)))

	dl.Expect(mock.NewExpectation(dl.IsCareTeamMember, uint64(1), uint64(2)).WithReturns(false, nil))

	_, err := svc.CreateNote(context.Background(), 1, 2, "note")
	test.Equals(t, ErrUnauthorized, errors.Cause(err))
}

func TestCreateNoteFallback(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	ex := newMockExtractor(t)
	defer ex.Finish()
	box := newMockBox(t)
	defer box.Finish()
	clk := clock.NewManaged(time.Unix(1e9, 0))
	svc := New(dl, ex, box, clk)

	noteID, err := models.NewNoteID()
	test.OK(t, err)
	checklistStepID, err := models.NewStepID()
	test.OK(t, err)
	planStepID, err := models.NewStepID()
	test.OK(t, err)
	scheduled := clk.Now().Add(24 * time.Hour)

	dl.Expect(mock.NewExpectation(dl.IsCareTeamMember, uint64(1), uint64(2)).WithReturns(true, nil))
	ex.Expect(mock.NewExpectation(ex.Extract, "note").WithReturns(&extraction.Result{
		Source:    extraction.SourceFallback,
		Checklist: []extraction.ChecklistItem{{Description: "Buy prescribed drug"}},
		Plan:      []extraction.PlanItem{{Description: "Take drug daily for 7 days", Scheduled: scheduled}},
	}))
	box.Expect(mock.NewExpectation(box.Encrypt, []byte("note")).WithReturns([]byte("sealed"), nil))
	dl.Expect(mock.NewExpectation(dl.InsertNote, &models.Note{
		DoctorID:  1,
		PatientID: 2,
		Content:   []byte("sealed"),
	}).WithReturns(noteID, nil))
	dl.Expect(mock.NewExpectation(dl.DeactivateStepsForPatient, uint64(2)).WithReturns(int64(0), nil))
	dl.Expect(mock.NewExpectation(dl.InsertActionableStep, &models.ActionableStep{
		NoteID:      noteID,
		PatientID:   2,
		Type:        models.StepTypeChecklist,
		Description: "Buy prescribed drug",
	}).WithReturns(checklistStepID, nil))
	dl.Expect(mock.NewExpectation(dl.InsertActionableStep, &models.ActionableStep{
		NoteID:      noteID,
		PatientID:   2,
		Type:        models.StepTypePlan,
		Description: "Take drug daily for 7 days",
		Scheduled:   ptr.Time(scheduled),
	}).WithReturns(planStepID, nil))
	dl.Expect(mock.NewExpectation(dl.InsertStepReminder, &models.StepReminder{
		StepID:    planStepID,
		PatientID: 2,
		Scheduled: scheduled,
	}))

	res, err := svc.CreateNote(context.Background(), 1, 2, "note")
	test.OK(t, err)
	test.Equals(t, true, res.Fallback)
	test.Equals(t, 2, len(res.Steps))
}

func TestCheckIn(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	svc := New(dl, nil, nil, clock.NewManaged(time.Unix(1e9, 0)))

	stepID, err := models.NewStepID()
	test.OK(t, err)

	dl.Expect(mock.NewExpectation(dl.ActiveActionableStep, stepID).WithReturns(&models.ActionableStep{
		ID:     stepID,
		Active: true,
	}, nil))
	dl.Expect(mock.NewExpectation(dl.UpdateActionableStep, stepID, &models.ActionableStepUpdate{
		CheckedIn: ptr.Bool(true),
	}).WithReturns(int64(1), nil))

	test.OK(t, svc.CheckIn(context.Background(), stepID))
}

func TestCheckInTwice(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	svc := New(dl, nil, nil, clock.NewManaged(time.Unix(1e9, 0)))

	stepID, err := models.NewStepID()
	test.OK(t, err)

	for i := 0; i < 2; i++ {
		dl.Expect(mock.NewExpectation(dl.ActiveActionableStep, stepID).WithReturns(&models.ActionableStep{
			ID:        stepID,
			Active:    true,
			CheckedIn: i == 1,
		}, nil))
		dl.Expect(mock.NewExpectation(dl.UpdateActionableStep, stepID, &models.ActionableStepUpdate{
			CheckedIn: ptr.Bool(true),
		}).WithReturns(int64(1), nil))
	}

	test.OK(t, svc.CheckIn(context.Background(), stepID))
	test.OK(t, svc.CheckIn(context.Background(), stepID))
}

func TestCheckInNotFound(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	svc := New(dl, nil, nil, clock.NewManaged(time.Unix(1e9, 0)))

	stepID, err := models.NewStepID()
	test.OK(t, err)

	dl.Expect(mock.NewExpectation(dl.ActiveActionableStep, stepID).WithReturns(
		(*models.ActionableStep)(nil), dal.ErrNotFound))

	test.Equals(t, ErrNotFound, errors.Cause(svc.CheckIn(context.Background(), stepID)))
}

func TestActiveSteps(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	svc := New(dl, nil, nil, clock.NewManaged(time.Unix(1e9, 0)))

	stepID, err := models.NewStepID()
	test.OK(t, err)
	steps := []*models.ActionableStep{{ID: stepID, PatientID: 2, Active: true}}

	dl.Expect(mock.NewExpectation(dl.ActiveStepsForPatient, uint64(2)).WithReturns(steps, nil))

	got, err := svc.ActiveSteps(context.Background(), 2)
	test.OK(t, err)
	test.Equals(t, steps, got)
}

func TestNoteContent(t *testing.T) {
	noteID, err := models.NewNoteID()
	test.OK(t, err)
	note := &models.Note{
		ID:        noteID,
		DoctorID:  1,
		PatientID: 2,
		Content:   []byte("sealed"),
	}

	// Doctor and patient both read the plaintext
	for _, requesterID := range []uint64{1, 2} {
		dl := dalmock.NewMockDAL(t)
		box := newMockBox(t)
		svc := New(dl, nil, box, clock.NewManaged(time.Unix(1e9, 0)))

		dl.Expect(mock.NewExpectation(dl.Note, noteID).WithReturns(note, nil))
		box.Expect(mock.NewExpectation(box.Decrypt, []byte("sealed")).WithReturns([]byte("plaintext"), nil))

		content, err := svc.NoteContent(context.Background(), noteID, requesterID)
		test.OK(t, err)
		test.Equals(t, "plaintext", content)
		dl.Finish()
		box.Finish()
	}

	// Anyone else gets the sentinel and no decryption happens
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	box := newMockBox(t)
	defer box.Finish()
	svc := New(dl, nil, box, clock.NewManaged(time.Unix(1e9, 0)))

	dl.Expect(mock.NewExpectation(dl.Note, noteID).WithReturns(note, nil))

	content, err := svc.NoteContent(context.Background(), noteID, 99)
	test.OK(t, err)
	test.Equals(t, UnauthorizedNoteContent, content)
}

func TestNoteContentNotFound(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	svc := New(dl, nil, nil, clock.NewManaged(time.Unix(1e9, 0)))

	noteID, err := models.NewNoteID()
	test.OK(t, err)

	dl.Expect(mock.NewExpectation(dl.Note, noteID).WithReturns((*models.Note)(nil), dal.ErrNotFound))

	_, err = svc.NoteContent(context.Background(), noteID, 1)
	test.Equals(t, ErrNotFound, errors.Cause(err))
}

func TestAddCareTeamMembership(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	svc := New(dl, nil, nil, clock.NewManaged(time.Unix(1e9, 0)))

	dl.Expect(mock.NewExpectation(dl.InsertCareTeamMembership, &models.CareTeamMembership{
		DoctorID:  1,
		PatientID: 2,
	}))

	test.OK(t, svc.AddCareTeamMembership(context.Background(), 1, 2))
}

func TestPatientsForDoctor(t *testing.T) {
	dl := dalmock.NewMockDAL(t)
	defer dl.Finish()
	svc := New(dl, nil, nil, clock.NewManaged(time.Unix(1e9, 0)))

	dl.Expect(mock.NewExpectation(dl.PatientsForDoctor, uint64(1)).WithReturns([]uint64{2, 3}, nil))

	patientIDs, err := svc.PatientsForDoctor(context.Background(), 1)
	test.OK(t, err)
	test.Equals(t, []uint64{2, 3}, patientIDs)
}
