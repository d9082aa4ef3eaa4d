package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/regimenhq/regimen/internal/utils"
	"github.com/regimenhq/regimen/pkg/notify"
	"github.com/regimenhq/regimen/pkg/storage"
)

type Server struct {
	DB       *storage.DB
	Notifier *notify.Notifier
}

func New(db *storage.DB, notifier *notify.Notifier) *Server {
	return &Server{
		DB:       db,
		Notifier: notifier,
	}
}

type contextKey string

const userIDKey contextKey = "user_id"

// userID returns the authenticated user set by the auth middleware.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Routine versions
	mux.HandleFunc("GET /api/routine-versions", s.auth(s.handleListVersions))
	mux.HandleFunc("GET /api/routine-versions/latest", s.auth(s.handleLatestVersion))
	mux.HandleFunc("GET /api/routine-versions/current-snapshot", s.auth(s.handleCurrentSnapshot))
	mux.HandleFunc("GET /api/routine-versions/{id}", s.auth(s.handleGetVersion))
	mux.HandleFunc("POST /api/routine-versions", s.auth(s.handleCreateVersion))

	// Diet settings
	mux.HandleFunc("GET /api/diet", s.auth(s.handleGetDiet))
	mux.HandleFunc("PUT /api/diet", s.auth(s.handlePutDiet))

	// Supplements
	mux.HandleFunc("GET /api/supplements", s.auth(s.handleListSupplements))
	mux.HandleFunc("POST /api/supplements", s.auth(s.handleCreateSupplement))
	mux.HandleFunc("GET /api/supplements/{id}", s.auth(s.handleGetSupplement))
	mux.HandleFunc("PUT /api/supplements/{id}", s.auth(s.handleUpdateSupplement))
	mux.HandleFunc("DELETE /api/supplements/{id}", s.auth(s.handleDeleteSupplement))

	// Equipment
	mux.HandleFunc("GET /api/equipment", s.auth(s.handleListEquipment))
	mux.HandleFunc("POST /api/equipment", s.auth(s.handleCreateEquipment))
	mux.HandleFunc("GET /api/equipment/{id}", s.auth(s.handleGetEquipment))
	mux.HandleFunc("PUT /api/equipment/{id}", s.auth(s.handleUpdateEquipment))
	mux.HandleFunc("DELETE /api/equipment/{id}", s.auth(s.handleDeleteEquipment))

	// Schedule items
	mux.HandleFunc("GET /api/schedule-items", s.auth(s.handleListScheduleItems))
	mux.HandleFunc("POST /api/schedule-items", s.auth(s.handleCreateScheduleItem))
	mux.HandleFunc("GET /api/schedule-items/{id}", s.auth(s.handleGetScheduleItem))
	mux.HandleFunc("PUT /api/schedule-items/{id}", s.auth(s.handleUpdateScheduleItem))
	mux.HandleFunc("DELETE /api/schedule-items/{id}", s.auth(s.handleDeleteScheduleItem))

	// Routines and their items
	mux.HandleFunc("GET /api/routines", s.auth(s.handleListRoutines))
	mux.HandleFunc("POST /api/routines", s.auth(s.handleCreateRoutine))
	mux.HandleFunc("GET /api/routines/{id}", s.auth(s.handleGetRoutine))
	mux.HandleFunc("DELETE /api/routines/{id}", s.auth(s.handleDeleteRoutine))
	mux.HandleFunc("GET /api/routines/{id}/items", s.auth(s.handleListRoutineItems))
	mux.HandleFunc("POST /api/routines/{id}/items", s.auth(s.handleAddRoutineItem))
	mux.HandleFunc("DELETE /api/routines/{id}/items/{itemID}", s.auth(s.handleDeleteRoutineItem))

	// Biomarkers, journal, goals
	mux.HandleFunc("GET /api/biomarkers", s.auth(s.handleListBiomarkers))
	mux.HandleFunc("POST /api/biomarkers", s.auth(s.handleCreateBiomarker))
	mux.HandleFunc("DELETE /api/biomarkers/{id}", s.auth(s.handleDeleteBiomarker))
	mux.HandleFunc("GET /api/journal", s.auth(s.handleListJournal))
	mux.HandleFunc("POST /api/journal", s.auth(s.handleCreateJournalEntry))
	mux.HandleFunc("GET /api/journal/{id}", s.auth(s.handleGetJournalEntry))
	mux.HandleFunc("DELETE /api/journal/{id}", s.auth(s.handleDeleteJournalEntry))
	mux.HandleFunc("GET /api/goals", s.auth(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.auth(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals/{id}", s.auth(s.handleGetGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.auth(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.auth(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		respondOK(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Info("Starting server on ", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// auth resolves the bearer token to a user id and stashes it in the
// request context. Everything under /api except /api/health requires it.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			return
		}
		uid, err := s.DB.UserForToken(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
	}
}
