package api

import (
	"net/http"
	"strconv"

	"github.com/abiiranathan/lexicon/pkg/storage"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	minLimit     = 1
	maxLimit     = 100
	raisedLimit  = 25
)

// listFiles handles GET /api/list-files?page=&limit=&name=
func (a *API) listFiles(w http.ResponseWriter, r *http.Request) {
	page := parseClampedInt(r.URL.Query().Get("page"), defaultPage, 1, 1<<31-1)
	limit := parseLimit(r.URL.Query().Get("limit"))
	name := r.URL.Query().Get("name")

	conn := a.store.Handle(a.nextWorker())

	result, err := storage.ListFiles(r.Context(), conn, name, limit, (page-1)*limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	totalPages := (result.TotalCount + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	type fileView struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Path     string `json:"path"`
		NumPages int    `json:"num_pages"`
	}

	views := make([]fileView, 0, len(result.Files))
	for _, f := range result.Files {
		views = append(views, fileView{ID: f.ID, Name: f.Name, Path: f.Path, NumPages: f.NumPages})
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"results":     views,
		"page":        page,
		"limit":       limit,
		"total_count": result.TotalCount,
		"total_pages": totalPages,
		"has_next":    page < totalPages,
		"has_prev":    page > 1,
	})
}

func parseLimit(raw string) int {
	if raw == "" {
		return defaultLimit
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultLimit
	}

	if n < minLimit {
		return raisedLimit
	}

	if n > maxLimit {
		return maxLimit
	}

	return n
}

func parseClampedInt(raw string, fallback, min, max int) int {
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return fallback
	}

	if n > max {
		return max
	}

	return n
}

// getFile handles GET /api/list-files/{file_id}
func (a *API) getFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathFileID(w, r)
	if !ok {
		return
	}

	conn := a.store.Handle(a.nextWorker())

	f, err := storage.GetFile(r.Context(), conn, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"id":        f.ID,
		"name":      f.Name,
		"path":      f.Path,
		"num_pages": f.NumPages,
	})
}

// purgeFile handles DELETE /api/list-files/{file_id}, cascading to the
// file's pages per the storage schema's ON DELETE CASCADE.
func (a *API) purgeFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePathFileID(w, r)
	if !ok {
		return
	}

	conn := a.store.Handle(a.nextWorker())

	if err := storage.DeleteFile(r.Context(), conn, id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"status": "purged"})
}

func parsePathFileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("file_id"), 10, 64)
	if err != nil {
		respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "file_id must be an integer"})
		return 0, false
	}

	return id, true
}
