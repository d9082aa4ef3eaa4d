package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	versions, err := s.DB.ListVersions(r.Context(), userID(r), limit, offset)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, versions)
}

func (s *Server) handleLatestVersion(w http.ResponseWriter, r *http.Request) {
	v, err := s.DB.LatestVersion(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	// data is null when the user has no versions yet; not an error.
	respondOK(w, http.StatusOK, v)
}

func (s *Server) handleCurrentSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.DB.BuildSnapshot(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, snapshot)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	v, err := s.DB.GetVersion(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, v)
}

type createVersionRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	var req createVersionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
			return
		}
	}

	v, err := s.DB.CreateVersion(r.Context(), userID(r), req.Reason)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if s.Notifier != nil {
		go s.Notifier.VersionCreated(context.Background(), v)
	}

	respondOK(w, http.StatusCreated, v)
}
