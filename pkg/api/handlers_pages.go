package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abiiranathan/lexicon/pkg/raster"
	"github.com/abiiranathan/lexicon/pkg/storage"
)

// getPage handles GET /api/file/{file_id}/page/{page_num}
func (a *API) getPage(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parsePathFileID(w, r)
	if !ok {
		return
	}

	pageNum, err := strconv.Atoi(r.PathValue("page_num"))
	if err != nil || pageNum < 1 {
		respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "page_num must be a positive integer"})
		return
	}

	conn := a.store.Handle(a.nextWorker())

	page, err := storage.GetPage(r.Context(), conn, fileID, pageNum)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"file_id":  page.FileID,
		"page_num": page.PageNum,
		"text":     page.Text,
	})
}

// renderPage handles GET /api/file/{file_id}/render-page/{page_num},
// rasterizing the requested page to PNG on demand.
func (a *API) renderPage(w http.ResponseWriter, r *http.Request) {
	fileID, ok := parsePathFileID(w, r)
	if !ok {
		return
	}

	pageNum, err := strconv.Atoi(r.PathValue("page_num"))
	if err != nil || pageNum < 1 {
		respondJSON(w, r, http.StatusBadRequest, map[string]string{"error": "page_num must be a positive integer"})
		return
	}

	conn := a.store.Handle(a.nextWorker())

	f, err := storage.GetFile(r.Context(), conn, fileID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	png, err := raster.Render(f.Path, pageNum-1)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(png); err != nil {
		slog.ErrorContext(r.Context(), "failed to write rendered page", "error", err)
	}
}
