package models

import "fmt"

// AccidentType is the category picked on the first screen.
type AccidentType string

const (
	AccidentAuto       AccidentType = "auto"
	AccidentPedestrian AccidentType = "pedestrian"
	AccidentTruck      AccidentType = "truck"
	AccidentMotorcycle AccidentType = "motorcycle"
	AccidentWork       AccidentType = "work"
	AccidentMedical    AccidentType = "medical"
	AccidentFall       AccidentType = "fall"
	AccidentOther      AccidentType = "other"
)

var injuryTypes = map[AccidentType]string{
	AccidentAuto:       "Car Accident",
	AccidentPedestrian: "Pedestrian or Bicycle Accident",
	AccidentTruck:      "Truck Accident",
	AccidentMotorcycle: "Motorcycle Accident",
	AccidentWork:       "Workplace Injury",
	AccidentMedical:    "Medical Malpractice",
	AccidentFall:       "Slip and Fall",
	AccidentOther:      "Other Injury",
}

// ParseAccidentType validates an accident type identifier.
func ParseAccidentType(id string) (AccidentType, error) {
	t := AccidentType(id)
	if _, ok := injuryTypes[t]; !ok {
		return "", fmt.Errorf("unknown accident type %q", id)
	}
	return t, nil
}

// InjuryType is the Primary_Injury label sent to the lead marketplace.
func (t AccidentType) InjuryType() string {
	return injuryTypes[t]
}

// Timing is how long ago the incident happened.
type Timing string

const (
	TimingWithin30Days Timing = "within_30_days"
	Timing30To90Days   Timing = "30_to_90_days"
	TimingOver90Days   Timing = "over_90_days"
)

// DefaultIncidentDate is sent when no timing was recorded.
const DefaultIncidentDate = "Within the last 30 days"

var timingOrder = map[Timing]int{
	TimingWithin30Days: 1,
	Timing30To90Days:   2,
	TimingOver90Days:   3,
}

var timingLabels = map[Timing]string{
	TimingWithin30Days: DefaultIncidentDate,
	Timing30To90Days:   "30 to 90 days ago",
	TimingOver90Days:   "More than 90 days ago",
}

// ParseTiming validates a timing identifier.
func ParseTiming(id string) (Timing, error) {
	t := Timing(id)
	if _, ok := timingOrder[t]; !ok {
		return "", fmt.Errorf("unknown timing %q", id)
	}
	return t, nil
}

// AtLeast reports whether t is as old as, or older than, cutoff.
func (t Timing) AtLeast(cutoff Timing) bool {
	return timingOrder[t] >= timingOrder[cutoff] && timingOrder[t] > 0
}

// IncidentDate is the Incident_Date wire label.
func (t Timing) IncidentDate() string {
	if label, ok := timingLabels[t]; ok {
		return label
	}
	return DefaultIncidentDate
}

// FormData holds the answers accumulated across the wizard steps.
type FormData struct {
	AccidentType       AccidentType `json:"accidentType,omitempty"`
	SoughtMedicalCare  bool         `json:"soughtMedicalCare"`
	HasAttorney        bool         `json:"hasAttorney"`
	AtFault            bool         `json:"atFault"`
	OtherPartyInsured  bool         `json:"otherPartyInsured"`
	Timing             Timing       `json:"timing,omitempty"`
	Description        string       `json:"description,omitempty"`
	Zipcode            string       `json:"zipcode,omitempty"`
	State              string       `json:"state,omitempty"`
	FirstName          string       `json:"firstName,omitempty"`
	LastName           string       `json:"lastName,omitempty"`
	Email              string       `json:"email,omitempty"`
	Phone              string       `json:"phone,omitempty"`
	TrustedFormCertURL string       `json:"-"`
}

// InjuryType is derived from the accident type.
func (f FormData) InjuryType() string {
	return f.AccidentType.InjuryType()
}

// TerminalReason selects the completion screen.
type TerminalReason string

const (
	ReasonQualified   TerminalReason = "qualified"
	ReasonHasAttorney TerminalReason = "hasAttorney"
	ReasonAtFault     TerminalReason = "isAtFault"
	ReasonTooOld      TerminalReason = "isTooOld"
)

// SubmissionStatus tracks the lead sale once the wizard has qualified.
type SubmissionStatus string

const (
	SubmissionNone    SubmissionStatus = ""
	SubmissionPending SubmissionStatus = "pending"
	SubmissionSold    SubmissionStatus = "sold"
	SubmissionNoBid   SubmissionStatus = "no_bid"
	SubmissionFailed  SubmissionStatus = "failed"
)

// WizardState is the full state of one wizard session.
type WizardState struct {
	Step           int              `json:"step"`
	IsComplete     bool             `json:"isComplete"`
	TerminalReason TerminalReason   `json:"terminalReason,omitempty"`
	Submission     SubmissionStatus `json:"submission,omitempty"`
	FormData       FormData         `json:"formData"`
}

// CompensationRange is the estimate shown to the user.
type CompensationRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
