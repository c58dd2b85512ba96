// Package wizard implements the accident intake wizard: the ordered steps,
// the disqualification rules and the hand-off of qualified leads.
//
// A Machine is not safe for concurrent use. Callers serialise events per
// session, one transition at a time.
package wizard

import (
	"context"
	"strings"

	"legaluplift/pkg/models"
	"legaluplift/pkg/payloads"
	"legaluplift/pkg/usstates"
	"legaluplift/pkg/validators"
)

const (
	FirstStep = 1
	LastStep  = 9
)

// Lead is the snapshot handed to the submission pipeline when the wizard
// qualifies.
type Lead struct {
	Generation uint64
	Form       models.FormData
	Meta       payloads.RequestMeta
}

// Submitter receives qualified leads. Submit is called while the caller
// holds the session, so implementations must not block on network I/O.
type Submitter interface {
	Submit(ctx context.Context, lead Lead)
}

// Options configure a Machine.
type Options struct {
	// TimingCutoff is the oldest incident timing that disqualifies a lead.
	TimingCutoff models.Timing
	Compensation models.CompensationRange
	Submitter    Submitter
}

// View is the read-only projection the screens render.
type View struct {
	models.WizardState
	TotalSteps       int                      `json:"totalSteps"`
	Compensation     models.CompensationRange `json:"compensation"`
	CompensationText string                   `json:"compensationText"`
}

// Machine holds the state of one wizard run.
type Machine struct {
	opts       Options
	state      models.WizardState
	generation uint64
}

// New returns a machine positioned on the first step with empty answers.
func New(opts Options) *Machine {
	if opts.TimingCutoff == "" {
		opts.TimingCutoff = models.TimingOver90Days
	}
	if opts.Compensation == (models.CompensationRange{}) {
		opts.Compensation = DefaultCompensation
	}
	return &Machine{
		opts:  opts,
		state: initialState(),
	}
}

func initialState() models.WizardState {
	return models.WizardState{Step: FirstStep}
}

// State returns a copy of the current state.
func (m *Machine) State() models.WizardState {
	return m.state
}

// Generation increments on every restart. Submission outcomes carry the
// generation of the lead they belong to.
func (m *Machine) Generation() uint64 {
	return m.generation
}

// Snapshot returns the view rendered for the current step.
func (m *Machine) Snapshot() View {
	r := Estimate(m.opts.Compensation, m.state.FormData.Description)
	return View{
		WizardState:      m.state,
		TotalSteps:       LastStep,
		Compensation:     r,
		CompensationText: FormatRange(r),
	}
}

func (m *Machine) expect(step int) error {
	if m.state.IsComplete {
		return ErrComplete
	}
	if m.state.Step != step {
		return ErrWrongStep
	}
	return nil
}

func (m *Machine) advance() {
	m.state.Step++
}

func (m *Machine) finish(reason models.TerminalReason) {
	m.state.IsComplete = true
	m.state.TerminalReason = reason
}

// SelectAccidentType answers step 1.
func (m *Machine) SelectAccidentType(id string) error {
	if err := m.expect(1); err != nil {
		return err
	}
	t, err := models.ParseAccidentType(id)
	if err != nil {
		return invalid("accidentType", err.Error())
	}
	m.state.FormData.AccidentType = t
	m.advance()
	return nil
}

// SelectMedicalVisit records whether medical care was sought.
func (m *Machine) SelectMedicalVisit(sought bool) error {
	if err := m.expect(2); err != nil {
		return err
	}
	m.state.FormData.SoughtMedicalCare = sought
	m.advance()
	return nil
}

// SelectAttorney disqualifies leads that already have representation.
func (m *Machine) SelectAttorney(hasAttorney bool) error {
	if err := m.expect(3); err != nil {
		return err
	}
	m.state.FormData.HasAttorney = hasAttorney
	if hasAttorney {
		m.finish(models.ReasonHasAttorney)
		return nil
	}
	m.advance()
	return nil
}

// SelectFault disqualifies leads that admit fault. otherPartyInsured is
// optional and left unchanged when nil.
func (m *Machine) SelectFault(atFault bool, otherPartyInsured *bool) error {
	if err := m.expect(4); err != nil {
		return err
	}
	m.state.FormData.AtFault = atFault
	if otherPartyInsured != nil {
		m.state.FormData.OtherPartyInsured = *otherPartyInsured
	}
	if atFault {
		m.finish(models.ReasonAtFault)
		return nil
	}
	m.advance()
	return nil
}

// SelectTiming disqualifies incidents at or beyond the configured cutoff.
func (m *Machine) SelectTiming(id string) error {
	if err := m.expect(5); err != nil {
		return err
	}
	t, err := models.ParseTiming(id)
	if err != nil {
		return invalid("timing", err.Error())
	}
	m.state.FormData.Timing = t
	if t.AtLeast(m.opts.TimingCutoff) {
		m.finish(models.ReasonTooOld)
		return nil
	}
	m.advance()
	return nil
}

// SubmitDescription records the incident narrative and location. state may
// be empty, in which case it is derived from the ZIP code. A ZIP outside
// every known state range needs an explicit state.
func (m *Machine) SubmitDescription(description, zip, state string) error {
	if err := m.expect(6); err != nil {
		return err
	}
	description = strings.TrimSpace(description)
	if !validators.ValidDescription(description) {
		return invalid("description", "must be between 20 and 2000 characters")
	}
	zip = strings.TrimSpace(zip)
	if !validators.ValidZip(zip) {
		return invalid("zipcode", "must be a 5-digit or ZIP+4 code")
	}
	var code string
	if strings.TrimSpace(state) != "" {
		code = usstates.Abbreviation(state)
		if code == "" {
			return invalid("state", "unknown state")
		}
	} else if code = usstates.FromZip(zip); code == "" {
		return invalid("state", "select the state where the accident happened")
	}
	m.state.FormData.Description = description
	m.state.FormData.Zipcode = zip
	m.state.FormData.State = code
	m.advance()
	return nil
}

// SubmitName records the claimant's first and last name.
func (m *Machine) SubmitName(first, last string) error {
	if err := m.expect(7); err != nil {
		return err
	}
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if !validators.ValidName(first) {
		return invalid("firstName", "is required")
	}
	if !validators.ValidName(last) {
		return invalid("lastName", "is required")
	}
	m.state.FormData.FirstName = first
	m.state.FormData.LastName = last
	m.advance()
	return nil
}

// SubmitEmail records the contact email address.
func (m *Machine) SubmitEmail(email string) error {
	if err := m.expect(8); err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if !validators.ValidEmail(email) {
		return invalid("email", "is not a valid email address")
	}
	m.state.FormData.Email = email
	m.advance()
	return nil
}

// SubmitPhone is the final qualifying transition. The wizard reaches
// Terminal(qualified) before the lead is handed to the Submitter, so a
// failed sale never reverts completion.
func (m *Machine) SubmitPhone(ctx context.Context, phone, trustedFormCertURL string, meta payloads.RequestMeta) error {
	if err := m.expect(9); err != nil {
		return err
	}
	phone = strings.TrimSpace(phone)
	if !validators.ValidPhone(phone) {
		return invalid("phone", "is not a valid US phone number")
	}
	m.state.FormData.Phone = phone
	m.state.FormData.TrustedFormCertURL = strings.TrimSpace(trustedFormCertURL)
	m.finish(models.ReasonQualified)

	if m.opts.Submitter != nil {
		m.state.Submission = models.SubmissionPending
		m.opts.Submitter.Submit(ctx, Lead{
			Generation: m.generation,
			Form:       m.state.FormData,
			Meta:       meta,
		})
	}
	return nil
}

// Previous moves back one step. Answers already given are kept so that
// moving forward again shows them.
func (m *Machine) Previous() error {
	if m.state.IsComplete {
		return ErrComplete
	}
	if m.state.Step <= FirstStep {
		return ErrNoPreviousStep
	}
	m.state.Step--
	return nil
}

// Restart clears every answer and returns to the first step. Outcomes of
// submissions started before the restart are ignored.
func (m *Machine) Restart() {
	m.state = initialState()
	m.generation++
}

// RecordSubmission stores the outcome reported for a lead. It returns false
// when the outcome no longer applies to the current session state.
func (m *Machine) RecordSubmission(generation uint64, status models.SubmissionStatus) bool {
	if generation != m.generation || m.state.TerminalReason != models.ReasonQualified {
		return false
	}
	m.state.Submission = status
	return true
}
