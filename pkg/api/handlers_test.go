package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"legaluplift/pkg/models"
	"legaluplift/pkg/services"
	"legaluplift/pkg/sessions"
	"legaluplift/pkg/wizard"
)

type stubLeads struct {
	leads []wizard.Lead
}

func (s *stubLeads) Submit(_ context.Context, lead wizard.Lead) services.Outcome {
	s.leads = append(s.leads, lead)
	return services.Outcome{Status: models.SubmissionSold}
}

type envelope struct {
	Status  string        `json:"status"`
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Data    sessions.View `json:"data"`
}

type testServer struct {
	router  *gin.Engine
	manager *sessions.Manager
	leads   *stubLeads
}

func newTestServer() *testServer {
	return newLimitedTestServer(0)
}

func newLimitedTestServer(maxSessions int) *testServer {
	gin.SetMode(gin.TestMode)
	leads := &stubLeads{}
	manager := sessions.NewManager(leads, wizard.Options{}, time.Minute, maxSessions, nil)
	r := gin.New()
	NewHandlers(manager, nil).RegisterRoutes(r)
	return &testServer{router: r, manager: manager, leads: leads}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://legaluplift.example/calculator")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %s: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func (s *testServer) create(t *testing.T) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/wizard/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if env.Data.SessionID == "" || env.Data.Step != 1 {
		t.Fatalf("unexpected created session %+v", env.Data)
	}
	return env.Data.SessionID
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer()
	w, _ := s.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}
}

func TestWizardHappyPath(t *testing.T) {
	s := newTestServer()
	id := s.create(t)
	events := []string{
		`{"type":"selectAccidentType","accidentType":"auto"}`,
		`{"type":"selectMedicalVisit","value":true}`,
		`{"type":"selectAttorney","value":false}`,
		`{"type":"selectFault","value":false}`,
		`{"type":"selectTiming","timing":"within_30_days"}`,
		`{"type":"submitDescription","description":"` + strings.Repeat("x", 50) + `","zipcode":"90210"}`,
		`{"type":"submitName","firstName":"Jane","lastName":"Doe"}`,
		`{"type":"submitEmail","email":"jane@example.com"}`,
		`{"type":"submitPhone","phone":"5551234567"}`,
	}

	var last envelope
	for i, ev := range events {
		w, env := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", ev)
		if w.Code != http.StatusOK {
			t.Fatalf("event %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
		last = env
	}

	if !last.Data.IsComplete || last.Data.TerminalReason != models.ReasonQualified {
		t.Fatalf("expected qualified, got %+v", last.Data.WizardState)
	}

	s.manager.Wait()
	if len(s.leads.leads) != 1 {
		t.Fatalf("expected one submitted lead, got %d", len(s.leads.leads))
	}
	lead := s.leads.leads[0]
	if lead.Meta.LandingPage != "https://legaluplift.example/calculator" || lead.Meta.IPAddress == "" {
		t.Fatalf("expected request meta captured, got %+v", lead.Meta)
	}

	w, env := s.do(t, http.MethodGet, "/wizard/sessions/"+id, "")
	if w.Code != http.StatusOK || env.Data.Submission != models.SubmissionSold {
		t.Fatalf("expected sold submission in view, got %d %+v", w.Code, env.Data.WizardState)
	}
}

func TestValidationErrorKeepsStep(t *testing.T) {
	s := newTestServer()
	id := s.create(t)

	w, env := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", `{"type":"selectAccidentType","accidentType":"boat"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if env.Status != "error" || env.Data.Step != 1 {
		t.Fatalf("expected error envelope with current view, got %+v", env)
	}
}

func TestWrongStepConflict(t *testing.T) {
	s := newTestServer()
	id := s.create(t)

	w, _ := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", `{"type":"submitEmail","email":"jane@example.com"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestPreviousAndRestartRoutes(t *testing.T) {
	s := newTestServer()
	id := s.create(t)

	if w, _ := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/previous", ""); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for previous on first step, got %d", w.Code)
	}

	s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", `{"type":"selectAccidentType","accidentType":"truck"}`)
	w, env := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/previous", "")
	if w.Code != http.StatusOK || env.Data.Step != 1 || env.Data.FormData.AccidentType != models.AccidentTruck {
		t.Fatalf("unexpected previous response %d %+v", w.Code, env.Data.WizardState)
	}

	w, env = s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/restart", "")
	if w.Code != http.StatusOK || env.Data.FormData.AccidentType != "" {
		t.Fatalf("unexpected restart response %d %+v", w.Code, env.Data.WizardState)
	}
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer()
	w, env := s.do(t, http.MethodGet, "/wizard/sessions/nope", "")
	if w.Code != http.StatusNotFound || env.Message != "Session not found" {
		t.Fatalf("expected 404, got %d %+v", w.Code, env)
	}
}

func TestInvalidEventPayload(t *testing.T) {
	s := newTestServer()
	id := s.create(t)

	for _, body := range []string{`not json`, `{}`} {
		w, _ := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}

	w, _ := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", `{"type":"teleport"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown event, got %d", w.Code)
	}
}

func TestDisqualificationResponse(t *testing.T) {
	s := newTestServer()
	id := s.create(t)

	for _, ev := range []string{
		`{"type":"selectAccidentType","accidentType":"motorcycle"}`,
		`{"type":"selectMedicalVisit","value":false}`,
		`{"type":"selectAttorney","value":false}`,
		`{"type":"selectFault","value":true}`,
	} {
		s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", ev)
	}

	w, env := s.do(t, http.MethodGet, "/wizard/sessions/"+id, "")
	if w.Code != http.StatusOK || env.Data.TerminalReason != models.ReasonAtFault {
		t.Fatalf("expected isAtFault, got %+v", env.Data.WizardState)
	}
	if w, _ := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", `{"type":"selectTiming","timing":"within_30_days"}`); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 after terminal, got %d", w.Code)
	}
}

func TestCreateSessionLimit(t *testing.T) {
	s := newLimitedTestServer(1)
	s.create(t)

	w, env := s.do(t, http.MethodPost, "/wizard/sessions", "")
	if w.Code != http.StatusServiceUnavailable || env.Status != "error" {
		t.Fatalf("expected 503 once the session limit is reached, got %d %+v", w.Code, env)
	}
}

func TestUnmappedZipAsksForState(t *testing.T) {
	s := newTestServer()
	id := s.create(t)
	for _, ev := range []string{
		`{"type":"selectAccidentType","accidentType":"auto"}`,
		`{"type":"selectMedicalVisit","value":true}`,
		`{"type":"selectAttorney","value":false}`,
		`{"type":"selectFault","value":false}`,
		`{"type":"selectTiming","timing":"within_30_days"}`,
	} {
		s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events", ev)
	}

	desc := strings.Repeat("x", 40)
	w, env := s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events",
		`{"type":"submitDescription","description":"`+desc+`","zipcode":"09001"}`)
	if w.Code != http.StatusUnprocessableEntity || env.Data.Step != 6 {
		t.Fatalf("expected 422 on step 6, got %d %+v", w.Code, env.Data.WizardState)
	}

	w, env = s.do(t, http.MethodPost, "/wizard/sessions/"+id+"/events",
		`{"type":"submitDescription","description":"`+desc+`","zipcode":"09001","state":"New York"}`)
	if w.Code != http.StatusOK || env.Data.Step != 7 || env.Data.FormData.State != "NY" {
		t.Fatalf("expected step 7 with NY, got %d %+v", w.Code, env.Data.WizardState)
	}
}
