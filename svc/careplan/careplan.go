// Package careplan holds identifiers and message types shared between the
// careplan service and its consumers.
package careplan

// Object ID prefixes
const (
	// NoteIDPrefix is the string prefix for clinical note IDs.
	NoteIDPrefix = "note_"
	// StepIDPrefix is the string prefix for actionable step IDs.
	StepIDPrefix = "step_"
)

// Step types
const (
	// StepTypeChecklist is a one-off task the patient performs once.
	StepTypeChecklist = "CHECKLIST"
	// StepTypePlan is a recurring task the patient is reminded about daily.
	StepTypePlan = "PLAN"
)

// ReminderNotification is the message published for each due plan step reminder.
type ReminderNotification struct {
	StepID    string `json:"step_id"`
	PatientID string `json:"patient_id"`
	Message   string `json:"message"`
}
