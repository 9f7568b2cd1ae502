package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parent-portal/domain"
	"parent-portal/services"
)

// AdminRouter serves the back-office API. It owns no data: every handler
// forwards to the owning service.
func AdminRouter(svc services.IAdminService, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/admin/users", func(w http.ResponseWriter, req *http.Request) {
		users, err := svc.ListUsers(req.Context())
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	})

	r.Get("/api/admin/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		user, err := svc.GetUser(req.Context(), id)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	})

	r.Post("/api/admin/news", func(w http.ResponseWriter, req *http.Request) {
		var body publishNewsRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		created, err := svc.PostNews(req.Context(), domain.News{
			Title:    body.Title,
			Content:  body.Content,
			AuthorID: body.AuthorID,
			Category: body.Category,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	return r
}
