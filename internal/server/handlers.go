package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/emberfit/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxPhotoBytes caps uploads; clients send JPEG-compressed images well
// under this.
const maxPhotoBytes = 10 << 20

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSavePhoto(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "owner parameter required"})
		return
	}

	day := 0
	if v := r.URL.Query().Get("day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day parameter"})
			return
		}
		day = n
	}
	isInitial := r.URL.Query().Get("initial") == "true"

	jpeg, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPhotoBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}
	if len(jpeg) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty image body"})
		return
	}

	row := storage.PhotoRow{
		ID:        uuid.New(),
		Owner:     owner,
		Day:       day,
		IsInitial: isInitial,
		TakenAt:   time.Now().UTC(),
		JPEG:      jpeg,
	}
	if err := s.db.InsertPhoto(r.Context(), row); err != nil {
		s.log.Error("photo insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": row.ID.String()})
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid photo id"})
		return
	}

	row, err := s.db.GetPhoto(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "photo not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(row.JPEG)
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "owner parameter required"})
		return
	}

	if r.URL.Query().Get("initial") == "true" {
		rows, err := s.db.QueryInitialPhotos(r.Context(), owner)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day or initial=true parameter required"})
		return
	}
	rows, err := s.db.QueryPhotosByDay(r.Context(), owner, day)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
