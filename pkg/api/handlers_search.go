package api

import (
	"net/http"
	"strconv"
)

// search handles GET /api/search?q=<q>&file_id=<id>?&ai_enabled=<bool>?
func (a *API) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}

	var fileFilter int64

	if raw := r.URL.Query().Get("file_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "file_id must be an integer"})
			return
		}

		fileFilter = id
	}

	aiEnabled, _ := strconv.ParseBool(r.URL.Query().Get("ai_enabled"))

	resp, err := a.searchEngine().Search(r.Context(), query, fileFilter, aiEnabled)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, resp)
}
