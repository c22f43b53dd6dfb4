package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	electionengine "univote/contexts/governance/election-engine"
	electionerrors "univote/contexts/governance/election-engine/domain/errors"
	electionhttp "univote/contexts/governance/election-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "univote/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	election electionengine.Module
}

func New(election electionengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		election: election,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/elections/{election_id}/token", s.handleIssueToken)
	s.mux.HandleFunc("POST /api/elections/{election_id}/votes", s.handleSubmitVote)
	s.mux.HandleFunc("GET /api/elections/{election_id}/results", s.handleResults)
	s.mux.HandleFunc("GET /api/elections/{election_id}/results/detailed", s.handleDetailedResults)
	s.mux.HandleFunc("GET /api/elections/{election_id}/vote-status", s.handleVoteStatus)
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if voterID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.election.Handler.IssueTokenHandler(r.Context(), voterID, r.PathValue("election_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if voterID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req electionhttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.election.Handler.SubmitVoteHandler(r.Context(), voterID, r.PathValue("election_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.ResultsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDetailedResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.election.Handler.DetailedResultsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteStatus(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-User-Id")
	if voterID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.election.Handler.VoteStatusHandler(r.Context(), voterID, r.PathValue("election_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotFound):
		writeError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidCandidate):
		writeError(w, http.StatusNotFound, "invalid_candidate", err.Error())
	case errors.Is(err, electionerrors.ErrElectionInactive):
		writeError(w, http.StatusConflict, "election_inactive", err.Error())
	case errors.Is(err, electionerrors.ErrAlreadyVoted):
		writeError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, electionerrors.ErrNotEligible):
		writeError(w, http.StatusForbidden, "not_eligible", err.Error())
	case errors.Is(err, electionerrors.ErrTokenNotAuthorized):
		writeError(w, http.StatusForbidden, "token_not_authorized", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidOrExpiredToken):
		writeError(w, http.StatusUnauthorized, "invalid_or_expired_token", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
