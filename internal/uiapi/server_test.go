package uiapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvdwaal/gridday/internal/engine"
	"github.com/mvdwaal/gridday/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv, err := NewServer(st, engine.DefaultCatalog(), engine.NewTariff())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return resp
}

func TestStatusAndCatalog(t *testing.T) {
	ts := newTestServer(t)

	var status map[string]interface{}
	resp := doJSON(t, "GET", ts.URL+"/api/status", nil, &status)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code %d", resp.StatusCode)
	}
	if status["status"] != "ok" {
		t.Errorf("status = %v", status["status"])
	}

	var catalog []engine.Activity
	doJSON(t, "GET", ts.URL+"/api/catalog", nil, &catalog)
	if len(catalog) != 5 {
		t.Errorf("catalog has %d activities, want 5", len(catalog))
	}

	var tariff []engine.TimeSlot
	doJSON(t, "GET", ts.URL+"/api/tariff", nil, &tariff)
	if len(tariff) != 24 {
		t.Fatalf("tariff has %d slots, want 24", len(tariff))
	}
	if !tariff[17].IsPeak || tariff[17].Multiplier != 4.0 {
		t.Errorf("slot 17 = %+v, want peak 4x", tariff[17])
	}
}

func TestScheduleLifecycle(t *testing.T) {
	ts := newTestServer(t)

	var state struct {
		Schedule    []engine.ScheduledActivity `json:"schedule"`
		Metrics     engine.Metrics             `json:"metrics"`
		Suggestions []engine.Suggestion        `json:"suggestions"`
	}

	// Fresh session is empty with baseline metrics.
	doJSON(t, "GET", ts.URL+"/api/state", nil, &state)
	if len(state.Schedule) != 0 || state.Metrics.Comfort != 100 {
		t.Fatalf("unexpected initial state: %+v", state)
	}

	// Drop EV charging onto the peak.
	resp := doJSON(t, "POST", ts.URL+"/api/schedule",
		map[string]interface{}{"activity_id": "ev-charging", "start_hour": 17}, &state)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("schedule returned %d", resp.StatusCode)
	}
	if state.Metrics.TotalCost != 17.28 {
		t.Errorf("TotalCost = %v, want 17.28", state.Metrics.TotalCost)
	}
	if !state.Metrics.IsSurgeActive {
		t.Error("surge not active with EV in peak")
	}
	if len(state.Suggestions) != 1 || state.Suggestions[0].ToHour != 22 {
		t.Errorf("unexpected suggestions: %+v", state.Suggestions)
	}

	// Scheduling the same activity again is a no-op, not an error.
	doJSON(t, "POST", ts.URL+"/api/schedule",
		map[string]interface{}{"activity_id": "ev-charging", "start_hour": 3}, &state)
	if len(state.Schedule) != 1 || state.Schedule[0].StartHour != 17 {
		t.Errorf("duplicate schedule changed state: %+v", state.Schedule)
	}

	// Apply the suggestion by moving to 22.
	doJSON(t, "PUT", ts.URL+"/api/schedule/ev-charging",
		map[string]interface{}{"start_hour": 22}, &state)
	if state.Metrics.TotalCost != 4.32 {
		t.Errorf("TotalCost after move = %v, want 4.32", state.Metrics.TotalCost)
	}
	if len(state.Suggestions) != 0 {
		t.Errorf("suggestions should clear off-peak: %+v", state.Suggestions)
	}

	// Remove it.
	doJSON(t, "DELETE", ts.URL+"/api/schedule/ev-charging", nil, &state)
	if len(state.Schedule) != 0 {
		t.Errorf("schedule not empty after remove: %+v", state.Schedule)
	}
}

func TestScheduleValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, "POST", ts.URL+"/api/schedule",
		map[string]interface{}{"activity_id": "laundry", "start_hour": 24}, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("out-of-range hour returned %d, want 422", resp.StatusCode)
	}

	// Unknown activity id degrades to a no-op with 200.
	var state struct {
		Schedule []engine.ScheduledActivity `json:"schedule"`
	}
	resp = doJSON(t, "POST", ts.URL+"/api/schedule",
		map[string]interface{}{"activity_id": "sauna", "start_hour": 10}, &state)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unknown id returned %d, want 200", resp.StatusCode)
	}
	if len(state.Schedule) != 0 {
		t.Errorf("unknown id was scheduled: %+v", state.Schedule)
	}
}

func TestEndDayAndRestart(t *testing.T) {
	ts := newTestServer(t)

	doJSON(t, "POST", ts.URL+"/api/schedule",
		map[string]interface{}{"activity_id": "ev-charging", "start_hour": 17}, nil)

	var summary engine.DaySummary
	resp := doJSON(t, "POST", ts.URL+"/api/day/end", nil, &summary)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end day returned %d", resp.StatusCode)
	}
	if summary.TotalCost != 17.28 || summary.PeakHoursUsed != 4 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Result.Grade < 1.0 || summary.Result.Grade > 10.0 {
		t.Errorf("grade %v outside [1,10]", summary.Result.Grade)
	}

	// Summary is archived.
	var history []store.DayRecord
	doJSON(t, "GET", ts.URL+"/api/history", nil, &history)
	if len(history) != 1 {
		t.Fatalf("history has %d records, want 1", len(history))
	}
	if history[0].Summary.TotalCost != 17.28 {
		t.Errorf("archived cost = %v", history[0].Summary.TotalCost)
	}

	// Restart clears the board.
	var state struct {
		Schedule []engine.ScheduledActivity `json:"schedule"`
		Metrics  engine.Metrics             `json:"metrics"`
	}
	doJSON(t, "POST", ts.URL+"/api/day/restart", nil, &state)
	if len(state.Schedule) != 0 || state.Metrics.TotalCost != 0 {
		t.Errorf("state after restart: %+v", state)
	}
}

func TestTutorialFlagRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	var flag struct {
		Seen bool `json:"seen"`
	}
	doJSON(t, "GET", ts.URL+"/api/tutorial", nil, &flag)
	if flag.Seen {
		t.Error("tutorial seen on fresh session")
	}

	doJSON(t, "PUT", ts.URL+"/api/tutorial", map[string]bool{"seen": true}, &flag)
	if !flag.Seen {
		t.Error("put did not echo seen=true")
	}

	doJSON(t, "GET", ts.URL+"/api/tutorial", nil, &flag)
	if !flag.Seen {
		t.Error("flag not persisted")
	}
}

func TestScheduleSurvivesServerRestart(t *testing.T) {
	st, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	defer st.Close()

	catalog, tariff := engine.DefaultCatalog(), engine.NewTariff()

	srv, err := NewServer(st, catalog, tariff)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	doJSON(t, "POST", ts.URL+"/api/schedule",
		map[string]interface{}{"activity_id": "laundry", "start_hour": 10}, nil)
	ts.Close()

	// A new server over the same store picks the schedule back up.
	srv2, err := NewServer(st, catalog, tariff)
	if err != nil {
		t.Fatalf("second server: %v", err)
	}
	ts2 := httptest.NewServer(srv2.Handler())
	defer ts2.Close()

	var state struct {
		Schedule []engine.ScheduledActivity `json:"schedule"`
	}
	doJSON(t, "GET", ts2.URL+"/api/state", nil, &state)
	if len(state.Schedule) != 1 || state.Schedule[0].ActivityID != "laundry" {
		t.Errorf("restored state = %+v", state.Schedule)
	}
}
