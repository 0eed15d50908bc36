package adapthttp_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	adapthttp "weightlog/internal/adapter/http"
	"weightlog/internal/adapter/local"
	"weightlog/internal/app"
)

func newTestHandler(t *testing.T, disableAuth bool) http.Handler {
	t.Helper()
	store, err := local.New("")
	if err != nil {
		t.Fatalf("local.New: %v", err)
	}
	auth := local.NewAuthStore()
	srv := adapthttp.New(
		app.NewWeightService(store),
		app.NewAuthService(auth, auth.Sessions()),
		adapthttp.OIDCConfig{},
		t.TempDir(),
		disableAuth,
	)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

type entryBody struct {
	ID          string  `json:"id"`
	Kg          float64 `json:"kg"`
	Lb          float64 `json:"lb"`
	EnteredUnit string  `json:"enteredUnit"`
	ReadingDate string  `json:"readingDate"`
	ReadingTime *string `json:"readingTime"`
	Note        *string `json:"note"`
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, true)
	rec := doJSON(t, h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}

func TestCreateWeight_Now(t *testing.T) {
	h := newTestHandler(t, true)
	rec := doJSON(t, h, http.MethodPost, "/api/weights", `{"value": 80, "unit": "kg", "mode": "now", "note": "after run"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got entryBody
	decodeBody(t, rec, &got)
	if got.ID == "" {
		t.Error("entry should have an id")
	}
	if got.Kg != 80 || got.Lb != 176.37 || got.EnteredUnit != "kg" {
		t.Errorf("kg/lb/unit = %v/%v/%q", got.Kg, got.Lb, got.EnteredUnit)
	}
	if got.ReadingDate == "" || got.ReadingTime == nil {
		t.Errorf("now mode should stamp date and time, got %q %v", got.ReadingDate, got.ReadingTime)
	}
	if got.Note == nil || *got.Note != "after run" {
		t.Errorf("note = %v", got.Note)
	}
}

func TestCreateWeight_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"derived kg supplied", `{"value": 80, "unit": "kg", "mode": "now", "kg": 80}`, "kg"},
		{"derived lb supplied", `{"value": 80, "unit": "kg", "mode": "now", "lb": 176.37}`, "kg"},
		{"missing value", `{"unit": "kg", "mode": "now"}`, "value"},
		{"backfill with time", `{"value": 80, "unit": "kg", "mode": "backfill", "readingDate": "2024-01-01", "readingTime": "08:00"}`, "readingTime"},
		{"backfill future date", `{"value": 80, "unit": "kg", "mode": "backfill", "readingDate": "2999-01-01"}`, "readingDate"},
		{"bad unit", `{"value": 80, "unit": "st", "mode": "now"}`, "unit"},
		{"value too large", `{"value": 1000, "unit": "kg", "mode": "now"}`, "value"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, true)
			rec := doJSON(t, h, http.MethodPost, "/api/weights", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var got errorBody
			decodeBody(t, rec, &got)
			if got.Field != tc.field {
				t.Errorf("field = %q, want %q", got.Field, tc.field)
			}
		})
	}
}

func TestCreateWeight_UnknownField(t *testing.T) {
	h := newTestHandler(t, true)
	rec := doJSON(t, h, http.MethodPost, "/api/weights", `{"value": 80, "unit": "kg", "mode": "now", "bogus": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListWeights_Order(t *testing.T) {
	h := newTestHandler(t, true)
	for _, date := range []string{"2024-01-02", "2024-01-01"} {
		body := fmt.Sprintf(`{"value": 80, "unit": "kg", "mode": "backfill", "readingDate": %q}`, date)
		rec := doJSON(t, h, http.MethodPost, "/api/weights", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed create: %d %s", rec.Code, rec.Body.String())
		}
		var created entryBody
		decodeBody(t, rec, &created)
		// Pin the audit timestamp so the newest ordering is deterministic.
		patch := fmt.Sprintf(`{"createdAtIso": %q}`, date+"T00:00:00.000Z")
		if rec := doJSON(t, h, http.MethodPatch, "/api/weights/"+created.ID, patch); rec.Code != http.StatusOK {
			t.Fatalf("seed patch: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/weights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Items []entryBody `json:"items"`
	}
	decodeBody(t, rec, &got)
	if len(got.Items) != 2 {
		t.Fatalf("len(items) = %d", len(got.Items))
	}
	if got.Items[0].ReadingDate != "2024-01-01" || got.Items[1].ReadingDate != "2024-01-02" {
		t.Errorf("default order should be chronological: %q, %q", got.Items[0].ReadingDate, got.Items[1].ReadingDate)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/weights?order=newest", "")
	decodeBody(t, rec, &got)
	if got.Items[0].ReadingDate != "2024-01-02" {
		t.Errorf("newest order should lead with the latest createdAtIso: %q", got.Items[0].ReadingDate)
	}

	if rec := doJSON(t, h, http.MethodGet, "/api/weights?order=random", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown order: status = %d", rec.Code)
	}
}

func TestUpdateWeight(t *testing.T) {
	h := newTestHandler(t, true)
	rec := doJSON(t, h, http.MethodPost, "/api/weights", `{"value": 80, "unit": "kg", "mode": "backfill", "readingDate": "2024-01-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed create: %d", rec.Code)
	}
	var created entryBody
	decodeBody(t, rec, &created)

	rec = doJSON(t, h, http.MethodPatch, "/api/weights/"+created.ID, `{"note": "fasted"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var updated entryBody
	decodeBody(t, rec, &updated)
	if updated.Note == nil || *updated.Note != "fasted" {
		t.Errorf("note = %v", updated.Note)
	}
	if updated.Kg != created.Kg || updated.Lb != created.Lb || updated.ReadingDate != created.ReadingDate {
		t.Errorf("note update mutated other fields: %+v", updated)
	}

	// Explicit null clears the note again.
	rec = doJSON(t, h, http.MethodPatch, "/api/weights/"+created.ID, `{"note": null}`)
	decodeBody(t, rec, &updated)
	if updated.Note != nil {
		t.Errorf("note should be cleared, got %v", *updated.Note)
	}

	for _, body := range []string{`{"kg": 90}`, `{"value": 90}`, `{"enteredUnit": "lb"}`} {
		if rec := doJSON(t, h, http.MethodPatch, "/api/weights/"+created.ID, body); rec.Code != http.StatusBadRequest {
			t.Errorf("PATCH %s: status = %d, want 400", body, rec.Code)
		}
	}

	if rec := doJSON(t, h, http.MethodPatch, "/api/weights/"+created.ID, `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty patch: status = %d, want 400", rec.Code)
	}

	if rec := doJSON(t, h, http.MethodPatch, "/api/weights/nope", `{"note": "x"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
}

func TestDeleteWeight(t *testing.T) {
	h := newTestHandler(t, true)
	rec := doJSON(t, h, http.MethodPost, "/api/weights", `{"value": 80, "unit": "kg", "mode": "backfill", "readingDate": "2024-01-01"}`)
	var created entryBody
	decodeBody(t, rec, &created)

	if rec := doJSON(t, h, http.MethodDelete, "/api/weights/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodDelete, "/api/weights/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}

func TestWeightSeries(t *testing.T) {
	h := newTestHandler(t, true)
	if rec := doJSON(t, h, http.MethodPost, "/api/weights", `{"value": 80, "unit": "kg", "mode": "now"}`); rec.Code != http.StatusCreated {
		t.Fatalf("seed create: %d", rec.Code)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/weights/series?days=3&unit=kg", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Days  int    `json:"days"`
		Unit  string `json:"unit"`
		Items []struct {
			Day   string   `json:"day"`
			Value *float64 `json:"value"`
		} `json:"items"`
	}
	decodeBody(t, rec, &got)
	if got.Days != 3 || got.Unit != "kg" || len(got.Items) != 3 {
		t.Fatalf("series = %+v", got)
	}
	last := got.Items[2]
	if last.Value == nil || *last.Value != 80 {
		t.Errorf("today's point = %+v", last)
	}

	if rec := doJSON(t, h, http.MethodGet, "/api/weights/series?unit=st", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad unit: status = %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	h := newTestHandler(t, false)

	if rec := doJSON(t, h, http.MethodGet, "/api/weights", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no session: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/weights", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "bogus"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bogus session: status = %d, want 401", rec.Code)
	}

	// A forward-auth proxy header authenticates and auto-provisions.
	req = httptest.NewRequest(http.MethodGet, "/api/weights", nil)
	req.Header.Set("Remote-User", "proxy-user")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("forward auth: status = %d, want 200", rec.Code)
	}

	// Health stays open.
	if rec := doJSON(t, h, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health: status = %d", rec.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	h := newTestHandler(t, false)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/setup", `{"username": "alice", "password": "secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("setup: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, h, http.MethodPost, "/api/auth/setup", `{"username": "bob", "password": "pw"}`); rec.Code != http.StatusBadRequest {
		t.Error("second setup should be rejected")
	}

	if rec := doJSON(t, h, http.MethodPost, "/api/auth/login", `{"username": "alice", "password": "wrong"}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username": "alice", "password": "secret"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("login should set a session cookie")
	}
	if !session.HttpOnly {
		t.Error("session cookie should be http-only")
	}

	// The cookie grants access as long as the user agent matches.
	req = httptest.NewRequest(http.MethodGet, "/api/weights", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated list: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/weights", nil)
	req.Header.Set("User-Agent", "different-agent")
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("agent mismatch: status = %d, want 401", rec.Code)
	}
}
