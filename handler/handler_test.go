package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lighthousebot/domain"
)

type fakeSession struct {
	state    domain.SessionState
	joinedAt time.Time
	lastTurn time.Time
	history  []domain.TurnRecord
	initial  *domain.InitialState
}

func (f *fakeSession) SessionID() string               { return "session-1" }
func (f *fakeSession) State() domain.SessionState      { return f.state }
func (f *fakeSession) PlayerID() domain.PlayerID       { return 2 }
func (f *fakeSession) JoinedAt() time.Time             { return f.joinedAt }
func (f *fakeSession) LastTurnAt() time.Time           { return f.lastTurn }
func (f *fakeSession) History() []domain.TurnRecord    { return f.history }
func (f *fakeSession) InitialStateSnapshot() (domain.InitialState, bool) {
	if f.initial == nil {
		return domain.InitialState{}, false
	}
	return *f.initial, true
}

func TestHandleHealth(t *testing.T) {
	h := NewHandler(&fakeSession{state: domain.StateServing, joinedAt: time.Unix(40, 0), lastTurn: time.Unix(100, 0)})
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State != "serving" || resp.SessionID != "session-1" || resp.PlayerID != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.JoinedAt == nil || !resp.JoinedAt.Equal(time.Unix(40, 0)) {
		t.Fatalf("JoinedAt = %v", resp.JoinedAt)
	}
	if resp.LastTurnAt == nil || !resp.LastTurnAt.Equal(time.Unix(100, 0)) {
		t.Fatalf("LastTurnAt = %v", resp.LastTurnAt)
	}
}

func TestHandleHealth_BeforeJoin(t *testing.T) {
	h := NewHandler(&fakeSession{state: domain.StateJoining})
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["state"] != "joining" {
		t.Fatalf("state = %v, want joining", resp["state"])
	}
	if _, ok := resp["joinedAt"]; ok {
		t.Fatalf("joinedAt should be omitted before join")
	}
	if _, ok := resp["lastTurnAt"]; ok {
		t.Fatalf("lastTurnAt should be omitted before the first turn")
	}
}

func TestHandleHistory(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(&fakeSession{}).HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
		if body := rec.Body.String(); body != "[]\n" {
			t.Fatalf("body = %q, want []", body)
		}
	})

	t.Run("records", func(t *testing.T) {
		session := &fakeSession{history: []domain.TurnRecord{
			{Number: 1, Action: domain.Action{Kind: domain.ActionMove, Destination: domain.Position{X: 1, Y: 0}}},
		}}
		rec := httptest.NewRecorder()
		NewHandler(session).HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/history", nil))

		var got []domain.TurnRecord
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got) != 1 || got[0].Action.Kind != domain.ActionMove {
			t.Fatalf("unexpected history: %+v", got)
		}
	})
}

func TestHandleInitialState(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeSession{}).HandleInitialState(rec, httptest.NewRequest(http.MethodGet, "/initial-state", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	session := &fakeSession{initial: &domain.InitialState{PlayerID: 2, PlayerCount: 3, Map: [][]int{{1}}}}
	rec = httptest.NewRecorder()
	NewHandler(session).HandleInitialState(rec, httptest.NewRequest(http.MethodGet, "/initial-state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got domain.InitialState
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PlayerCount != 3 || len(got.Map) != 1 {
		t.Fatalf("unexpected state: %+v", got)
	}
}
