package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parent-portal/auth"
	"parent-portal/domain"
	"parent-portal/services"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password,omitempty"`
}

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// UsersRouter serves the user service API.
func UsersRouter(svc services.IUserService, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	register := func(w http.ResponseWriter, req *http.Request) {
		var body registerRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		user, token, err := svc.Register(auth.RegisterRequest{
			Username: body.Username,
			Email:    body.Email,
			Password: body.Password,
			Role:     body.Role,
		})
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token.String()})
	}
	r.Post("/api/users", register)
	r.Post("/api/users/register", register)

	r.Post("/api/users/login", func(w http.ResponseWriter, req *http.Request) {
		var body loginRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		token, err := svc.Login(body.Email, body.Password)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token.String()})
	})

	r.Get("/api/users", func(w http.ResponseWriter, req *http.Request) {
		users, err := svc.GetAll()
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	})

	r.Get("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		user, err := svc.GetByID(id)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	})

	r.Get("/api/users/byEmail/{email}", func(w http.ResponseWriter, req *http.Request) {
		user, err := svc.GetByEmail(chi.URLParam(req, "email"))
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	})

	r.Put("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		var body updateUserRequest
		if err := decodeValid(req, &body); err != nil {
			writeError(log, w, err)
			return
		}
		user, err := svc.Update(domain.User{
			ID:       id,
			Username: body.Username,
			Email:    body.Email,
			Role:     domain.Role(body.Role),
		}, body.Password)
		if err != nil {
			writeError(log, w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	})

	r.Delete("/api/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := pathInt(req, "id")
		if err != nil {
			writeError(log, w, err)
			return
		}
		if err := svc.Delete(id); err != nil {
			writeError(log, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
