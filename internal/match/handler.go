package match

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/merev/dart-scoring-api/internal/scoring"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /api/players
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var req CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	p, err := h.svc.CreatePlayer(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GET /api/players
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	players, err := h.svc.ListPlayers(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// POST /api/matches
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var req CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	m, err := h.svc.CreateMatch(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// GET /api/matches/{id}
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	detail, err := h.svc.GetMatch(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// POST /api/matches/{id}/start
func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snap, err := h.svc.StartMatch(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /api/matches/{id}/finalize
func (h *Handler) FinalizeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	m, err := h.svc.FinalizeMatch(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GET /api/matches/{id}/live
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	snap, err := h.svc.GetLiveSnapshot(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /api/matches/{id}/throws
func (h *Handler) SubmitThrow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req ThrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	resp, err := h.svc.SubmitThrow(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/matches/{id}/bust
func (h *Handler) MarkBust(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	legID, ok := decodeLegID(w, r)
	if !ok {
		return
	}
	resp, err := h.svc.MarkBust(ctx, chi.URLParam(r, "id"), legID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/matches/{id}/advance
func (h *Handler) AdvanceTurn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	legID, ok := decodeLegID(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.AdvanceTurn(ctx, chi.URLParam(r, "id"), legID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// POST /api/matches/{id}/undo
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	legID, ok := decodeLegID(w, r)
	if !ok {
		return
	}
	resp, err := h.svc.Undo(ctx, chi.URLParam(r, "id"), legID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeLegID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req LegRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return "", false
	}
	if req.LegID == "" {
		http.Error(w, "legId is required", http.StatusBadRequest)
		return "", false
	}
	return req.LegID, true
}

// StatusForError maps scoring error kinds to HTTP status codes.
func StatusForError(err error) int {
	switch scoring.KindOf(err) {
	case scoring.KindInvalidInput:
		return http.StatusBadRequest
	case scoring.KindNotFound:
		return http.StatusNotFound
	case scoring.KindTurnLocked, scoring.KindEmptyHistory:
		return http.StatusConflict
	case scoring.KindTerminalState:
		return http.StatusGone
	case scoring.KindInsufficientPlayers:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"kind":  string(scoring.KindOf(err)),
	})
}

// Helper to write JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
