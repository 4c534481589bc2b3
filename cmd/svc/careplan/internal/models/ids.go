package models

import (
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/idgen"
	"github.com/bitmap357/hospital-test/libs/model"
	"github.com/bitmap357/hospital-test/svc/careplan"
)

// NoteID is the ID for a Note
type NoteID struct{ model.ObjectID }

func NewNoteID() (NoteID, error) {
	id, err := idgen.NewID()
	if err != nil {
		return NoteID{}, errors.Trace(err)
	}
	return NoteID{
		model.ObjectID{
			Prefix:  careplan.NoteIDPrefix,
			Val:     id,
			IsValid: true,
		},
	}, nil
}

func ParseNoteID(s string) (NoteID, error) {
	n := EmptyNoteID()
	err := n.UnmarshalText([]byte(s))
	return n, errors.Trace(err)
}

func EmptyNoteID() NoteID {
	return NoteID{
		model.ObjectID{
			Prefix:  careplan.NoteIDPrefix,
			IsValid: false,
		},
	}
}

// StepID is the ID for an ActionableStep
type StepID struct{ model.ObjectID }

func NewStepID() (StepID, error) {
	id, err := idgen.NewID()
	if err != nil {
		return StepID{}, errors.Trace(err)
	}
	return StepID{
		model.ObjectID{
			Prefix:  careplan.StepIDPrefix,
			Val:     id,
			IsValid: true,
		},
	}, nil
}

func ParseStepID(s string) (StepID, error) {
	t := EmptyStepID()
	err := t.UnmarshalText([]byte(s))
	return t, errors.Trace(err)
}

func EmptyStepID() StepID {
	return StepID{
		model.ObjectID{
			Prefix:  careplan.StepIDPrefix,
			IsValid: false,
		},
	}
}
