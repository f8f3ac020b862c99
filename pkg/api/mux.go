package api

import (
	"net/http"

	"github.com/abiiranathan/lexicon/pkg/api/middleware"
)

// newMux creates and returns a new HTTP ServeMux with the API's routes
// registered.
func (a *API) newMux() *http.ServeMux {
	mux := http.NewServeMux()

	withReqID := middleware.NewReqID()
	withCORS := middleware.NewCORS()

	mux.Handle("GET /livez", middleware.Use(a.healthCheck, withReqID))

	mux.Handle("GET /api/search", middleware.Use(a.search, withReqID, withCORS))
	mux.Handle("GET /api/list-files", middleware.Use(a.listFiles, withReqID, withCORS))
	mux.Handle("GET /api/list-files/{file_id}", middleware.Use(a.getFile, withReqID, withCORS))
	mux.Handle("DELETE /api/list-files/{file_id}", middleware.Use(a.purgeFile, withReqID, withCORS))
	mux.Handle("GET /api/file/{file_id}/page/{page_num}", middleware.Use(a.getPage, withReqID, withCORS))
	mux.Handle("GET /api/file/{file_id}/render-page/{page_num}", middleware.Use(a.renderPage, withReqID, withCORS))

	if a.config.StaticDir != "" {
		mux.Handle("GET /", middleware.Use(http.FileServer(http.Dir(a.config.StaticDir)).ServeHTTP, withReqID))
	}

	return mux
}
