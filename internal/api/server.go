package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/watch2give/streakd/internal/token"
)

// StreakReader reports the current streak count.
// Implemented by tracker.Tracker.
type StreakReader interface {
	Count() int
}

// Submitter accepts token-action submissions.
// Implemented by token.Service.
type Submitter interface {
	Submit(ctx context.Context, rawToken string, action token.Action, photoCount int) (*token.Result, error)
}

// SubmissionLister returns recent submissions for a vendor.
// Implemented by store.Store and store.MemStore.
type SubmissionLister interface {
	ListSubmissions(ctx context.Context, vendorKey string, limit int) ([]token.Submission, error)
}

// Server wires the HTTP handlers to the streak core.
type Server struct {
	streaks     StreakReader
	submitter   Submitter
	submissions SubmissionLister
	vendor      string
	logger      *slog.Logger
}

// NewServer creates an API server. Pass nil logger for the default.
func NewServer(streaks StreakReader, submitter Submitter, submissions SubmissionLister, vendorKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		streaks:     streaks,
		submitter:   submitter,
		submissions: submissions,
		vendor:      vendorKey,
		logger:      logger.With("component", "api"),
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	}).Methods("GET")
	r.HandleFunc("/api/streak", s.handleGetStreak).Methods("GET")
	r.HandleFunc("/api/submissions", s.handleCreateSubmission).Methods("POST")
	r.HandleFunc("/api/submissions", s.handleListSubmissions).Methods("GET")
	return r
}

type streakResponse struct {
	Count int `json:"count"`
}

type submissionRequest struct {
	Token      string `json:"token"`
	Action     string `json:"action"`
	PhotoCount int    `json:"photo_count"`
}

type submissionResponse struct {
	Submission  submissionJSON `json:"submission"`
	StreakCount int            `json:"streak_count"`
	Effects     []string       `json:"effects,omitempty"`
}

type submissionJSON struct {
	ID         string `json:"id"`
	Token      string `json:"token"`
	Action     string `json:"action"`
	PhotoCount int    `json:"photo_count"`
	CreatedAt  string `json:"created_at"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, streakResponse{Count: s.streaks.Count()})
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{errorBody{Message: "invalid JSON body"}})
		return
	}

	res, err := s.submitter.Submit(r.Context(), req.Token, token.Action(req.Action), req.PhotoCount)
	if err != nil {
		var verr *token.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{errorBody{Field: verr.Field, Message: verr.Message}})
			return
		}
		s.logger.Error("submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errorBody{Message: "internal error"}})
		return
	}

	effects := make([]string, 0, len(res.Effects))
	for _, e := range res.Effects {
		effects = append(effects, e.String())
	}
	writeJSON(w, http.StatusCreated, submissionResponse{
		Submission:  toSubmissionJSON(res.Submission),
		StreakCount: res.StreakCount,
		Effects:     effects,
	})
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{errorBody{Field: "limit", Message: "limit must be a positive integer"}})
			return
		}
		limit = n
	}

	subs, err := s.submissions.ListSubmissions(r.Context(), s.vendor, limit)
	if err != nil {
		s.logger.Error("list submissions failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errorBody{Message: "internal error"}})
		return
	}

	out := make([]submissionJSON, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubmissionJSON(sub))
	}
	writeJSON(w, http.StatusOK, map[string][]submissionJSON{"submissions": out})
}

func toSubmissionJSON(sub token.Submission) submissionJSON {
	return submissionJSON{
		ID:         sub.ID,
		Token:      sub.Token,
		Action:     string(sub.Action),
		PhotoCount: sub.PhotoCount,
		CreatedAt:  sub.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
