// Package models contains the data models for the careplan service.
package models

import (
	"time"

	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/svc/careplan"
)

// StepType is the kind of actionable step derived from a note.
type StepType string

const (
	// StepTypeChecklist is a one-off task without a schedule.
	StepTypeChecklist StepType = "CHECKLIST"
	// StepTypePlan is a recurring task with a daily reminder schedule.
	StepTypePlan StepType = "PLAN"
)

// ParseStepType maps a string to a StepType
func ParseStepType(s string) (StepType, error) {
	switch t := StepType(s); t {
	case StepTypeChecklist, StepTypePlan:
		return t, nil
	}
	return "", errors.Errorf("unknown step type '%s'", s)
}

func (t StepType) String() string {
	return string(t)
}

// SharedType maps the step type to its public representation
func (t StepType) SharedType() string {
	switch t {
	case StepTypeChecklist:
		return careplan.StepTypeChecklist
	case StepTypePlan:
		return careplan.StepTypePlan
	}
	return string(t)
}

// Note is a clinical note a doctor recorded for a patient. The content is
// sealed before insert and never updated.
type Note struct {
	ID        NoteID
	DoctorID  uint64
	PatientID uint64
	Content   []byte
	Created   time.Time
}

// ActionableStep is a follow-up task derived from a note. Scheduled is set
// only for plan steps and carries the first reminder time.
type ActionableStep struct {
	ID          StepID
	NoteID      NoteID
	PatientID   uint64
	Type        StepType
	Description string
	Scheduled   *time.Time
	Active      bool
	CheckedIn   bool
	Created     time.Time
	Modified    time.Time
}

// ActionableStepUpdate represents the mutable aspects of an actionable step
type ActionableStepUpdate struct {
	CheckedIn *bool
}

// CareTeamMembership links a doctor to a patient they treat.
type CareTeamMembership struct {
	DoctorID  uint64
	PatientID uint64
	Created   time.Time
}

// StepReminder is the durable reminder schedule for one plan step. The
// scheduled time only ever moves forward; the row is deleted when the
// chain terminates.
type StepReminder struct {
	StepID    StepID
	PatientID uint64
	Scheduled time.Time
	Created   time.Time
	Modified  time.Time
}
