package web

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"krenke/internal/auth"
	"krenke/internal/model"
	"krenke/internal/repository"
)

type adminUserRow struct {
	model.User
	Role model.Role
}

type adminUsersData struct {
	Users []adminUserRow
	Email string
	Error string
	Flash string
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, data adminUsersData) {
	users, err := s.Users.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	for _, u := range users {
		data.Users = append(data.Users, adminUserRow{User: u, Role: s.Auth.RoleFor(u.Email)})
	}
	s.render(w, r, status, "admin/users", "Usuários", data)
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	s.renderUsers(w, r, http.StatusOK, adminUsersData{Flash: flash(r)})
}

func (s *Server) handleAdminUserCreate(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	_, err := s.Auth.SignUp(r.Context(), email, r.FormValue("password"))
	if err != nil {
		data := adminUsersData{Email: email}
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			data.Error = "Este e-mail já está cadastrado."
		case errors.Is(err, auth.ErrWeakPassword):
			data.Error = "A senha deve ter pelo menos 6 caracteres."
		case errors.Is(err, auth.ErrInvalidEmail):
			data.Error = "E-mail inválido."
		default:
			s.serverError(w, r, err)
			return
		}
		s.renderUsers(w, r, status, data)
		return
	}
	s.Log.Info("usuário criado", zap.String("email", email))
	redirect(w, r, "/pgadmin/usuarios?ok=criado")
}

func (s *Server) handleAdminUserDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if me, _ := identityFrom(r.Context()); me.UserID == id {
		s.renderUsers(w, r, http.StatusUnprocessableEntity, adminUsersData{Error: "Você não pode excluir o próprio usuário."})
		return
	}
	err := s.Users.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/pgadmin/usuarios?ok=excluido")
}
