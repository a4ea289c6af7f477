package api

import (
	"encoding/json"
	"net/http"

	"github.com/danielpatrickdp/decision-field/internal/apierror"
	"github.com/danielpatrickdp/decision-field/internal/auth"
	"github.com/danielpatrickdp/decision-field/internal/orchestrator"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region request-types
type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type collapseRequest struct {
	DataWeight *float64 `json:"data_weight"`
}

// #endregion request-types

// #region auth-handlers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := s.auth.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.logger.InfoContext(r.Context(), "profile created", "user_id", sess.Profile.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	profile, err := s.profiles.GetProfile(r.Context(), p.UserID)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// #endregion auth-handlers

// #region field-handlers
func (s *Server) handleListFields(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	fields, err := s.orch.ListFields(r.Context(), p.UserID)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if fields == nil {
		fields = []store.Field{}
	}
	writeJSON(w, http.StatusOK, fields)
}

func (s *Server) handleCreateField(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.CreateFieldInput
	if !decode(w, r, &req) {
		return
	}
	p, _ := auth.PrincipalFrom(r.Context())
	view, err := s.orch.CreateField(r.Context(), p.UserID, req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	view, err := s.orch.GetField(r.Context(), p.UserID, r.PathValue("id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnalyzeField(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	view, err := s.orch.AnalyzeField(r.Context(), p.UserID, r.PathValue("id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCollapseField(w http.ResponseWriter, r *http.Request) {
	var req collapseRequest
	if !decode(w, r, &req) {
		return
	}
	if req.DataWeight == nil {
		apierror.WriteBadRequest(w, "Missing required field: data_weight")
		return
	}
	p, _ := auth.PrincipalFrom(r.Context())
	view, err := s.orch.CollapseField(r.Context(), p.UserID, r.PathValue("id"), *req.DataWeight)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleArchiveField(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	f, err := s.orch.ArchiveField(r.Context(), p.UserID, r.PathValue("id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// #endregion field-handlers

// #region journal-handlers
func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	entries, err := s.orch.ListJournal(r.Context(), p.UserID)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if entries == nil {
		entries = []store.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleRecordJournal(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.JournalInput
	if !decode(w, r, &req) {
		return
	}
	if req.FieldID == "" {
		apierror.WriteBadRequest(w, "Missing required field: field_id")
		return
	}
	p, _ := auth.PrincipalFrom(r.Context())
	e, err := s.orch.RecordJournal(r.Context(), p.UserID, req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateJournal(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.JournalInput
	if !decode(w, r, &req) {
		return
	}
	p, _ := auth.PrincipalFrom(r.Context())
	e, err := s.orch.UpdateJournal(r.Context(), p.UserID, r.PathValue("id"), req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// #endregion journal-handlers

// #region json
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apierror.WriteBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// #endregion json
