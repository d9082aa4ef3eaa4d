package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/regimenhq/regimen/internal/utils"
	"github.com/regimenhq/regimen/pkg/storage"
)

// successEnvelope always carries a data field, null included, so
// clients can distinguish "no latest version" from a missing key.
type successEnvelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type errorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

func respondOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(successEnvelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{
		Success:   false,
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// respondStoreError maps storage sentinels to their HTTP codes.
// NO_CHANGES is an expected outcome, not a failure, so it is not
// logged as an error.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNoChanges):
		respondError(w, http.StatusBadRequest, "NO_CHANGES", "No changes to save")
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, storage.ErrDuplicate):
		respondError(w, http.StatusConflict, "DUPLICATE", "A similar record already exists; pass force=true to add anyway")
	default:
		utils.Log.Error("datastore error: ", err)
		respondError(w, http.StatusInternalServerError, "DATASTORE_ERROR", err.Error())
	}
}
