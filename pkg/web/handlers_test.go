package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/formcoach/go-formcoach/pkg/form"
	"github.com/formcoach/go-formcoach/pkg/reference"
	"github.com/formcoach/go-formcoach/pkg/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine := form.NewEngine(reference.NewMatcher(reference.NewLibrary()))
	manager := session.NewManager(engine, nil)
	t.Cleanup(manager.Close)
	return NewServer(":0", manager, nil)
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, data
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	resp, body := doJSON(t, s, "GET", "/api/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" {
		t.Errorf("status field = %v", got["status"])
	}
}

func TestListExercises(t *testing.T) {
	s := newTestServer(t)
	resp, body := doJSON(t, s, "GET", "/api/exercises", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got []string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("exercises = %v, want 3", got)
	}
}

func TestSessionLifecycleOverAPI(t *testing.T) {
	s := newTestServer(t)

	resp, body := doJSON(t, s, "POST", "/api/sessions", `{"exercise":"bicep_curl"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created sessionView
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Exercise != reference.BicepCurl {
		t.Fatalf("created = %+v", created)
	}

	resp, body = doJSON(t, s, "GET", "/api/sessions/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, s, "PUT", "/api/sessions/"+created.ID+"/exercise", `{"exercise":"lateral_raise"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set exercise status = %d: %s", resp.StatusCode, body)
	}
	var updated sessionView
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Exercise != reference.LateralRaise || updated.Reps != 0 {
		t.Fatalf("updated = %+v", updated)
	}

	resp, _ = doJSON(t, s, "DELETE", "/api/sessions/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, s, "GET", "/api/sessions/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestPauseAndResumeSession(t *testing.T) {
	s := newTestServer(t)

	_, body := doJSON(t, s, "POST", "/api/sessions", "")
	var created sessionView
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if !created.Active {
		t.Fatal("new session should start active")
	}

	resp, body := doJSON(t, s, "PUT", "/api/sessions/"+created.ID+"/active", `{"active":false}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pause status = %d: %s", resp.StatusCode, body)
	}
	var paused sessionView
	if err := json.Unmarshal(body, &paused); err != nil {
		t.Fatal(err)
	}
	if paused.Active {
		t.Fatal("session still active after pause")
	}

	_, body = doJSON(t, s, "PUT", "/api/sessions/"+created.ID+"/active", `{"active":true}`)
	var resumed sessionView
	if err := json.Unmarshal(body, &resumed); err != nil {
		t.Fatal(err)
	}
	if !resumed.Active {
		t.Fatal("session inactive after resume")
	}

	resp, _ = doJSON(t, s, "PUT", "/api/sessions/nope/active", `{"active":false}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateSessionRejectsUnknownExercise(t *testing.T) {
	s := newTestServer(t)
	resp, _ := doJSON(t, s, "POST", "/api/sessions", `{"exercise":"deadlift"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSetExerciseRejectsUnknown(t *testing.T) {
	s := newTestServer(t)
	_, body := doJSON(t, s, "POST", "/api/sessions", "")
	var created sessionView
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}

	resp, _ := doJSON(t, s, "PUT", "/api/sessions/"+created.ID+"/exercise", `{"exercise":"deadlift"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
