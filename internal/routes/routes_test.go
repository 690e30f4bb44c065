package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/staff-scheduler/internal/config"
	"github.com/BruksfildServices01/staff-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/staff-scheduler/internal/timezone"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	t      *testing.T
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()

	store := memory.New()
	if err := store.LoadFile("../infra/memory/testdata/seed.json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		BookTimeout: time.Second,
	}
	r := gin.New()
	RegisterRoutes(r, cfg, Deps{Store: store, Logger: zap.NewNop()})
	return &server{t: t, router: r}
}

func (s *server) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *server) login(email, password string) string {
	s.t.Helper()
	w, body := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	if w.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", email, w.Code, w.Body.String())
	}
	return body["token"].(string)
}

// bookableMonday is a Monday at least two days ahead that is not the
// seeded Christmas holiday.
func bookableMonday() time.Time {
	now := time.Now().UTC()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 2)
	for d.Weekday() != time.Monday || (d.Month() == time.December && d.Day() == 25) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/health", "/ready"} {
		if w, _ := s.do(http.MethodGet, path, "", nil); w.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, w.Code)
		}
	}
}

func TestLogin_BadPassword(t *testing.T) {
	s := newServer(t)
	w, body := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@studio.test", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized || body["error_code"] != "invalid_credentials" {
		t.Fatalf("got %d %v", w.Code, body)
	}
}

func TestPublicBookingFlow(t *testing.T) {
	s := newServer(t)
	day := bookableMonday()
	date := day.Format(timezone.DateLayout)

	w, body := s.do(http.MethodGet, "/api/public/studio-norte/job-types", "", nil)
	if w.Code != http.StatusOK || body["total"].(float64) != 2 {
		t.Fatalf("job types: %d %v", w.Code, body)
	}

	w, body = s.do(http.MethodGet, "/api/public/studio-norte/openings?job_type_id=10&staff_ids=100&date_from="+date, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("openings: %d %s", w.Code, w.Body.String())
	}
	slots := body["slots"].([]any)
	if len(slots) == 0 {
		t.Fatal("expected openings on a working Monday")
	}
	first := slots[0].(map[string]any)
	start, _ := time.Parse(time.RFC3339, first["start"].(string))
	if !start.Equal(day.Add(9 * time.Hour)) {
		t.Fatalf("first opening %v", first["start"])
	}

	req := map[string]any{"staff_id": 100, "job_type_id": 10, "customer_id": 500, "start_at": start.Format(time.RFC3339)}
	w, body = s.do(http.MethodPost, "/api/public/studio-norte/bookings", "", req)
	if w.Code != http.StatusCreated || body["confirmation_code"] == "" {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}

	w, body = s.do(http.MethodPost, "/api/public/studio-norte/bookings", "", req)
	if w.Code != http.StatusConflict || body["error_code"] != "slot_taken" {
		t.Fatalf("double booking: %d %v", w.Code, body)
	}

	// Bruno cannot do the long job type
	w, body = s.do(http.MethodGet, "/api/public/studio-norte/openings?job_type_id=11&staff_ids=101&date_from="+date, "", nil)
	if w.Code != http.StatusOK || body["reason"] != "no_qualified_staff" || len(body["slots"].([]any)) != 0 {
		t.Fatalf("no qualified staff: %d %v", w.Code, body)
	}

	if w, _ := s.do(http.MethodGet, "/api/public/nowhere/job-types", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown slug: %d", w.Code)
	}
	if w, _ := s.do(http.MethodGet, "/api/public/studio-norte/openings?job_type_id=10", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("missing date: %d", w.Code)
	}
}

func TestAgentAndStaffFlow(t *testing.T) {
	s := newServer(t)
	day := bookableMonday()
	date := day.Format(timezone.DateLayout)

	agent := s.login("agent@studio.test", "agent-secret-1")
	ana := s.login("ana@studio.test", "changeme123")

	w, body := s.do(http.MethodPost, "/api/agent/bookings", agent, map[string]any{
		"staff_id": 100, "job_type_id": 11, "customer_id": 500,
		"start_at": day.Add(13 * time.Hour).Format(time.RFC3339),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("agent book: %d %s", w.Code, w.Body.String())
	}
	apID := body["appointment"].(map[string]any)["id"].(string)
	if body["appointment"].(map[string]any)["channel"] != "voice" {
		t.Fatalf("channel not recorded: %v", body["appointment"])
	}

	w, body = s.do(http.MethodGet, "/api/agent/customers/500/appointment", agent, nil)
	if w.Code != http.StatusOK || body["appointment"].(map[string]any)["id"] != apID {
		t.Fatalf("existing: %d %v", w.Code, body)
	}

	if w, _ := s.do(http.MethodGet, "/api/agent/openings?job_type_id=10&date_from="+date, ana, nil); w.Code != http.StatusForbidden {
		t.Fatalf("staff token on agent route: %d", w.Code)
	}
	if w, _ := s.do(http.MethodGet, "/api/me", agent, nil); w.Code != http.StatusForbidden {
		t.Fatalf("agent token on staff route: %d", w.Code)
	}

	w, body = s.do(http.MethodGet, "/api/me/appointments?date="+date, ana, nil)
	if w.Code != http.StatusOK || body["total"].(float64) != 1 {
		t.Fatalf("list by date: %d %v", w.Code, body)
	}

	if w, _ := s.do(http.MethodPatch, "/api/me/appointments/"+apID+"/confirm", ana, nil); w.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", w.Code, w.Body.String())
	}
	if w, _ := s.do(http.MethodPatch, "/api/me/appointments/"+apID+"/cancel", ana, nil); w.Code != http.StatusOK {
		t.Fatalf("cancel: %d", w.Code)
	}
	w, body = s.do(http.MethodPatch, "/api/me/appointments/"+apID+"/cancel", ana, nil)
	if w.Code != http.StatusBadRequest || body["error_code"] != "invalid_state" {
		t.Fatalf("second cancel: %d %v", w.Code, body)
	}

	w, _ = s.do(http.MethodGet, "/api/me/availability?job_type_id=10&date="+date, ana, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("availability: %d %s", w.Code, w.Body.String())
	}

	if w, _ := s.do(http.MethodGet, "/api/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", w.Code)
	}
}

func TestCalendarAdmin(t *testing.T) {
	s := newServer(t)
	date := bookableMonday().Format(timezone.DateLayout)

	ana := s.login("ana@studio.test", "changeme123")
	bruno := s.login("bruno@studio.test", "changeme123")

	w, body := s.do(http.MethodPut, "/api/me/calendar/overrides/"+date, ana, map[string]any{
		"start_time": "14:00", "end_time": "10:00",
	})
	if w.Code != http.StatusUnprocessableEntity || body["error_code"] != "override_window_inverted" {
		t.Fatalf("inverted override: %d %v", w.Code, body)
	}

	w, _ = s.do(http.MethodPut, "/api/me/calendar/overrides/"+date, ana, map[string]any{"is_unavailable": true})
	if w.Code != http.StatusOK {
		t.Fatalf("put override: %d %s", w.Code, w.Body.String())
	}
	w, body = s.do(http.MethodGet, "/api/public/studio-norte/openings?job_type_id=10&staff_ids=100&date_from="+date, "", nil)
	if w.Code != http.StatusOK || len(body["slots"].([]any)) != 0 {
		t.Fatalf("unavailable day still offers slots: %v", body)
	}

	// staff members cannot edit someone else's calendar
	w, _ = s.do(http.MethodGet, "/api/me/calendar/config?staff_id=100", bruno, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign config: %d", w.Code)
	}
	w, _ = s.do(http.MethodGet, "/api/me/calendar/config?staff_id=101", ana, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner reading staff config: %d", w.Code)
	}

	holiday := map[string]any{"date": date, "name": "Team day"}
	if w, _ := s.do(http.MethodPost, "/api/me/holidays", bruno, holiday); w.Code != http.StatusForbidden {
		t.Fatalf("staff creating holiday: %d", w.Code)
	}
	if w, _ := s.do(http.MethodPost, "/api/me/holidays", ana, holiday); w.Code != http.StatusCreated {
		t.Fatalf("owner creating holiday: %d", w.Code)
	}
	w, body = s.do(http.MethodGet, "/api/me/holidays", bruno, nil)
	if w.Code != http.StatusOK || body["total"].(float64) != 2 {
		t.Fatalf("holidays: %d %v", w.Code, body)
	}
}
