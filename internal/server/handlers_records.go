package server

import (
	"net/http"
	"time"

	"github.com/regimenhq/regimen/pkg/storage"
)

// Biomarkers

func (s *Server) handleListBiomarkers(w http.ResponseWriter, r *http.Request) {
	markerType := r.URL.Query().Get("type")
	list, err := s.DB.ListBiomarkers(r.Context(), userID(r), markerType)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, list)
}

func (s *Server) handleCreateBiomarker(w http.ResponseWriter, r *http.Request) {
	var b storage.Biomarker
	if !decodeBody(w, r, &b) {
		return
	}
	if b.MarkerType == "" || b.Unit == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "marker_type and unit are required")
		return
	}
	if b.MeasuredAt.IsZero() {
		b.MeasuredAt = time.Now().UTC()
	}
	b.ID = ""
	b.UserID = userID(r)
	if err := s.DB.CreateBiomarker(r.Context(), &b); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, b)
}

func (s *Server) handleDeleteBiomarker(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteBiomarker(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, nil)
}

// Journal

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	list, err := s.DB.ListJournalEntries(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, list)
}

func (s *Server) handleCreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var e storage.JournalEntry
	if !decodeBody(w, r, &e) {
		return
	}
	if e.Content == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "content is required")
		return
	}
	if e.EntryDate == "" {
		e.EntryDate = time.Now().UTC().Format("2006-01-02")
	}
	e.ID = ""
	e.UserID = userID(r)
	if err := s.DB.CreateJournalEntry(r.Context(), &e); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, e)
}

func (s *Server) handleGetJournalEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.DB.GetJournalEntry(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, e)
}

func (s *Server) handleDeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteJournalEntry(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, nil)
}

// Goals

func validGoalStatus(status string) bool {
	switch status {
	case storage.GoalActive, storage.GoalAchieved, storage.GoalAbandoned:
		return true
	}
	return false
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	list, err := s.DB.ListGoals(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, list)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var g storage.Goal
	if !decodeBody(w, r, &g) {
		return
	}
	if g.Title == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title is required")
		return
	}
	if g.Status == "" {
		g.Status = storage.GoalActive
	}
	if !validGoalStatus(g.Status) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be active, achieved or abandoned")
		return
	}
	g.ID = ""
	g.UserID = userID(r)
	if err := s.DB.CreateGoal(r.Context(), &g); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, g)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.DB.GetGoal(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var g storage.Goal
	if !decodeBody(w, r, &g) {
		return
	}
	if !validGoalStatus(g.Status) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be active, achieved or abandoned")
		return
	}
	g.ID = r.PathValue("id")
	g.UserID = userID(r)
	if err := s.DB.UpdateGoal(r.Context(), &g); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteGoal(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, nil)
}
