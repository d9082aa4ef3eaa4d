package server

import (
	"encoding/json"
	"net/http"

	"github.com/regimenhq/regimen/pkg/storage"
)

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return false
	}
	return true
}

// Diet settings

func (s *Server) handleGetDiet(w http.ResponseWriter, r *http.Request) {
	ds, err := s.DB.GetDietSettings(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if ds == nil {
		// Absence of a diet record is equivalent to untracked.
		ds = &storage.DietSettings{UserID: userID(r), DietType: "untracked"}
	}
	respondOK(w, http.StatusOK, ds)
}

func (s *Server) handlePutDiet(w http.ResponseWriter, r *http.Request) {
	var ds storage.DietSettings
	if !decodeBody(w, r, &ds) {
		return
	}
	ds.UserID = userID(r)
	if ds.DietType == "" {
		ds.DietType = "untracked"
	}
	if err := s.DB.UpsertDietSettings(r.Context(), &ds); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, ds)
}

// Supplements

func (s *Server) handleListSupplements(w http.ResponseWriter, r *http.Request) {
	list, err := s.DB.ListSupplements(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, list)
}

func (s *Server) handleCreateSupplement(w http.ResponseWriter, r *http.Request) {
	var sup storage.Supplement
	if !decodeBody(w, r, &sup) {
		return
	}
	if sup.Name == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	sup.ID = ""
	sup.UserID = userID(r)
	if err := s.DB.CreateSupplement(r.Context(), &sup); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, sup)
}

func (s *Server) handleGetSupplement(w http.ResponseWriter, r *http.Request) {
	sup, err := s.DB.GetSupplement(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, sup)
}

func (s *Server) handleUpdateSupplement(w http.ResponseWriter, r *http.Request) {
	var sup storage.Supplement
	if !decodeBody(w, r, &sup) {
		return
	}
	sup.ID = r.PathValue("id")
	sup.UserID = userID(r)
	if err := s.DB.UpdateSupplement(r.Context(), &sup); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, sup)
}

func (s *Server) handleDeleteSupplement(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteSupplement(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, nil)
}

// Equipment

func (s *Server) handleListEquipment(w http.ResponseWriter, r *http.Request) {
	list, err := s.DB.ListEquipment(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, list)
}

func (s *Server) handleCreateEquipment(w http.ResponseWriter, r *http.Request) {
	var eq storage.Equipment
	if !decodeBody(w, r, &eq) {
		return
	}
	if eq.Name == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	eq.ID = ""
	eq.UserID = userID(r)
	force := r.URL.Query().Get("force") == "true"
	if err := s.DB.CreateEquipment(r.Context(), &eq, force); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, eq)
}

func (s *Server) handleGetEquipment(w http.ResponseWriter, r *http.Request) {
	eq, err := s.DB.GetEquipment(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, eq)
}

func (s *Server) handleUpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var eq storage.Equipment
	if !decodeBody(w, r, &eq) {
		return
	}
	eq.ID = r.PathValue("id")
	eq.UserID = userID(r)
	if err := s.DB.UpdateEquipment(r.Context(), &eq); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, eq)
}

func (s *Server) handleDeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteEquipment(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, nil)
}

// Schedule items

func (s *Server) handleListScheduleItems(w http.ResponseWriter, r *http.Request) {
	list, err := s.DB.ListScheduleItems(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, list)
}

func (s *Server) handleCreateScheduleItem(w http.ResponseWriter, r *http.Request) {
	var item storage.ScheduleItem
	if !decodeBody(w, r, &item) {
		return
	}
	if item.Name == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	if item.ItemType != storage.ItemTypeExercise && item.ItemType != storage.ItemTypeMeal {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "item_type must be exercise or meal")
		return
	}
	item.ID = ""
	item.UserID = userID(r)
	if err := s.DB.CreateScheduleItem(r.Context(), &item); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, item)
}

func (s *Server) handleGetScheduleItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.DB.GetScheduleItem(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, item)
}

func (s *Server) handleUpdateScheduleItem(w http.ResponseWriter, r *http.Request) {
	var item storage.ScheduleItem
	if !decodeBody(w, r, &item) {
		return
	}
	item.ID = r.PathValue("id")
	item.UserID = userID(r)
	if err := s.DB.UpdateScheduleItem(r.Context(), &item); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, item)
}

func (s *Server) handleDeleteScheduleItem(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteScheduleItem(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, nil)
}

// Routines

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	list, err := s.DB.ListRoutines(r.Context(), userID(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, list)
}

func (s *Server) handleCreateRoutine(w http.ResponseWriter, r *http.Request) {
	var rt storage.Routine
	if !decodeBody(w, r, &rt) {
		return
	}
	if rt.Name == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	rt.ID = ""
	rt.UserID = userID(r)
	if err := s.DB.CreateRoutine(r.Context(), &rt); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, rt)
}

func (s *Server) handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	rt, err := s.DB.GetRoutine(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, rt)
}

func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.DeleteRoutine(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, nil)
}

func (s *Server) handleListRoutineItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.DB.ListRoutineItems(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, items)
}

func (s *Server) handleAddRoutineItem(w http.ResponseWriter, r *http.Request) {
	var item storage.RoutineItem
	if !decodeBody(w, r, &item) {
		return
	}
	if item.Name == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	item.ID = ""
	item.RoutineID = r.PathValue("id")
	if err := s.DB.AddRoutineItem(r.Context(), userID(r), &item); err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusCreated, item)
}

func (s *Server) handleDeleteRoutineItem(w http.ResponseWriter, r *http.Request) {
	err := s.DB.DeleteRoutineItem(r.Context(), userID(r), r.PathValue("id"), r.PathValue("itemID"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondOK(w, http.StatusOK, nil)
}
