package models

import (
	"encoding/json"
	"strings"
)

// WizardKind tags which wizard owns the state slot of a user.
type WizardKind string

const (
	WizardDailyReport  WizardKind = "daily_report"
	WizardAdminTarget  WizardKind = "admin_target"
	WizardMacros       WizardKind = "macros"
	WizardWorkout      WizardKind = "workout"
	WizardNorms        WizardKind = "norms"
	WizardViewReport   WizardKind = "view_report"
	WizardAssignUser   WizardKind = "assign_user"
	WizardUnassignUser WizardKind = "unassign_user"
	WizardPromoteAdmin WizardKind = "promote_admin"
	WizardDemoteAdmin  WizardKind = "demote_admin"
	WizardEveningTime  WizardKind = "evening_time"
	WizardContact      WizardKind = "contact"
)

// Step is a 1-based position inside a wizard run.
type Step int

// Self-report steps.
const (
	StepReportSleep Step = iota + 1
	StepReportSteps
	StepReportWater
	StepReportMacros
	StepReportPhotos
	StepReportNote
)

// Admin prelude steps.
const (
	StepTargetUser Step = iota + 1
	StepTargetDate
)

// Macro wizard steps.
const (
	StepMacroCalories Step = iota + 1
	StepMacroProtein
	StepMacroFat
	StepMacroCarbs
)

// Norm wizard steps.
const (
	StepNormWater Step = iota + 1
	StepNormSteps
	StepNormSleep
)

// StepFirst is the only step of single-input wizards; the workout wizard
// stays on it until finished.
const StepFirst Step = 1

// PayloadVersion is bumped when Payload changes incompatibly.
const PayloadVersion = 1

// Payload accumulates values that are not yet written to a domain table.
type Payload struct {
	Version int        `json:"v"`
	Purpose WizardKind `json:"purpose,omitempty"` // wizard the admin prelude leads to

	TargetUserID string `json:"target_user_id,omitempty"`
	TargetDate   string `json:"target_date,omitempty"`

	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`

	Water *float64 `json:"water,omitempty"`
	Steps *int64   `json:"steps,omitempty"`

	WorkoutLines []string `json:"workout_lines,omitempty"`
}

// Encode serializes the payload for the state store.
func (p Payload) Encode() string {
	p.Version = PayloadVersion
	b, _ := json.Marshal(p)
	return string(b)
}

// DecodePayload parses a stored payload. Anything that is not a current
// JSON payload (old delimited strings, empty) decodes as an empty payload.
func DecodePayload(s string) Payload {
	var p Payload
	if !strings.HasPrefix(strings.TrimSpace(s), "{") {
		return Payload{Version: PayloadVersion}
	}
	if err := json.Unmarshal([]byte(s), &p); err != nil || p.Version != PayloadVersion {
		return Payload{Version: PayloadVersion}
	}
	return p
}

// WizardState is the single live wizard of a user.
type WizardState struct {
	UserID    string     `db:"user_id"`
	Kind      WizardKind `db:"type"`
	Step      Step       `db:"step"`
	Payload   Payload    `db:"payload"`
	UpdatedAt int64      `db:"updated_at"`
}
