package wizard

import (
	"context"

	"legaluplift/pkg/payloads"
)

// EventType names a user action dispatched into the machine.
type EventType string

const (
	EventSelectAccidentType EventType = "selectAccidentType"
	EventSelectMedicalVisit EventType = "selectMedicalVisit"
	EventSelectAttorney     EventType = "selectAttorney"
	EventSelectFault        EventType = "selectFault"
	EventSelectTiming       EventType = "selectTiming"
	EventSubmitDescription  EventType = "submitDescription"
	EventSubmitName         EventType = "submitName"
	EventSubmitEmail        EventType = "submitEmail"
	EventSubmitPhone        EventType = "submitPhone"
	EventPrevious           EventType = "previous"
	EventRestart            EventType = "restart"
)

// Event is the tagged union the screens send. Only the fields relevant to
// Type are read.
type Event struct {
	Type EventType `json:"type" binding:"required"`

	AccidentType string `json:"accidentType,omitempty"`
	// Value answers the yes/no steps.
	Value             *bool  `json:"value,omitempty"`
	OtherPartyInsured *bool  `json:"otherPartyInsured,omitempty"`
	Timing            string `json:"timing,omitempty"`

	Description string `json:"description,omitempty"`
	Zipcode     string `json:"zipcode,omitempty"`
	State       string `json:"state,omitempty"`

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	TrustedFormCertURL string `json:"trustedFormCertUrl,omitempty"`
}

// Dispatch applies ev to the machine.
func (m *Machine) Dispatch(ctx context.Context, ev Event, meta payloads.RequestMeta) error {
	switch ev.Type {
	case EventSelectAccidentType:
		return m.SelectAccidentType(ev.AccidentType)
	case EventSelectMedicalVisit:
		v, err := m.answer(2, ev)
		if err != nil {
			return err
		}
		return m.SelectMedicalVisit(v)
	case EventSelectAttorney:
		v, err := m.answer(3, ev)
		if err != nil {
			return err
		}
		return m.SelectAttorney(v)
	case EventSelectFault:
		v, err := m.answer(4, ev)
		if err != nil {
			return err
		}
		return m.SelectFault(v, ev.OtherPartyInsured)
	case EventSelectTiming:
		return m.SelectTiming(ev.Timing)
	case EventSubmitDescription:
		return m.SubmitDescription(ev.Description, ev.Zipcode, ev.State)
	case EventSubmitName:
		return m.SubmitName(ev.FirstName, ev.LastName)
	case EventSubmitEmail:
		return m.SubmitEmail(ev.Email)
	case EventSubmitPhone:
		return m.SubmitPhone(ctx, ev.Phone, ev.TrustedFormCertURL, meta)
	case EventPrevious:
		return m.Previous()
	case EventRestart:
		m.Restart()
		return nil
	}
	return ErrUnknownEvent
}

// answer reads the yes/no value of ev, reporting step errors before a
// missing value.
func (m *Machine) answer(step int, ev Event) (bool, error) {
	if err := m.expect(step); err != nil {
		return false, err
	}
	if ev.Value == nil {
		return false, invalid("value", "a yes or no answer is required")
	}
	return *ev.Value, nil
}
