package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"lighthousebot/domain"
)

var errNoInitialState = errors.New("initial state not received yet")

// SessionReader はデバッグ用エンドポイントが参照するセッションの読み取り口です。
type SessionReader interface {
	SessionID() string
	State() domain.SessionState
	PlayerID() domain.PlayerID
	JoinedAt() time.Time
	LastTurnAt() time.Time
	History() []domain.TurnRecord
	InitialStateSnapshot() (domain.InitialState, bool)
}

type HealthResponse struct {
	SessionID  string          `json:"sessionID"`
	State      string          `json:"state"`
	PlayerID   domain.PlayerID `json:"playerID"`
	JoinedAt   *time.Time      `json:"joinedAt,omitempty"`
	LastTurnAt *time.Time      `json:"lastTurnAt,omitempty"`
}

type Handler struct {
	session SessionReader
}

func NewHandler(session SessionReader) *Handler {
	return &Handler{session: session}
}

// HandleHealth は常に200でセッションの状態を返します。
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		SessionID: h.session.SessionID(),
		State:     h.session.State().String(),
		PlayerID:  h.session.PlayerID(),
	}
	if at := h.session.JoinedAt(); !at.IsZero() {
		resp.JoinedAt = &at
	}
	if at := h.session.LastTurnAt(); !at.IsZero() {
		resp.LastTurnAt = &at
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	records := h.session.History()
	if records == nil {
		records = []domain.TurnRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) HandleInitialState(w http.ResponseWriter, r *http.Request) {
	state, ok := h.session.InitialStateSnapshot()
	if !ok {
		httpError(w, http.StatusNotFound, errNoInitialState)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
