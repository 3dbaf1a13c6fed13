package web

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"krenke/internal/auth"
	"krenke/internal/observability"
)

type loginData struct {
	Email       string
	Next        string
	Error       string
	AllowSignup bool
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"), "/pgadmin")
	if _, ok := identityFrom(r.Context()); ok {
		redirect(w, r, next)
		return
	}
	s.render(w, r, http.StatusOK, "site/login", "Painel Krenke", loginData{Next: next, AllowSignup: s.AllowSignup})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	next := safeNext(r.FormValue("next"), "/pgadmin")
	data := loginData{Email: email, Next: next, AllowSignup: s.AllowSignup}

	token, id, err := s.Auth.SignIn(r.Context(), email, r.FormValue("password"))
	if err != nil {
		status := http.StatusUnauthorized
		data.Error = "E-mail ou senha inválidos."
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.Log.Error("falha no login", zap.Error(err))
			status = http.StatusInternalServerError
			data.Error = "Ocorreu um erro na autenticação."
			observability.LoginsTotal.WithLabelValues("error").Inc()
		} else {
			observability.LoginsTotal.WithLabelValues("invalid").Inc()
		}
		s.render(w, r, status, "site/login", "Painel Krenke", data)
		return
	}

	observability.LoginsTotal.WithLabelValues("ok").Inc()
	s.Log.Info("login", zap.String("email", id.Email), zap.String("role", string(id.Role)))
	s.setSession(w, token, id.ExpiresAt)
	redirect(w, r, next)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	data := loginData{Email: email, Next: "/pgadmin", AllowSignup: s.AllowSignup}
	if !s.AllowSignup {
		data.Error = "Cadastro desativado. Fale com o administrador."
		s.render(w, r, http.StatusForbidden, "site/login", "Painel Krenke", data)
		return
	}

	password := r.FormValue("password")
	if _, err := s.Auth.SignUp(r.Context(), email, password); err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			data.Error = "Este e-mail já está cadastrado."
		case errors.Is(err, auth.ErrWeakPassword):
			data.Error = "A senha deve ter pelo menos 6 caracteres."
		case errors.Is(err, auth.ErrInvalidEmail):
			data.Error = "E-mail inválido."
		default:
			s.Log.Error("falha no cadastro", zap.Error(err))
			status = http.StatusInternalServerError
			data.Error = "Ocorreu um erro na autenticação."
		}
		s.render(w, r, status, "site/login", "Painel Krenke", data)
		return
	}
	s.handleLogin(w, r)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if err := s.Auth.SignOut(r.Context(), c.Value); err != nil {
			s.Log.Debug("logout com token inválido", zap.Error(err))
		}
	}
	s.clearSession(w)
	redirect(w, r, "/login")
}
