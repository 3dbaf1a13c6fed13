package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"krenke/internal/model"
	"krenke/internal/repository"
)

type adminScriptsData struct {
	Scripts []model.Script
	Form    model.Script
	Error   string
	Flash   string
}

func (s *Server) renderScripts(w http.ResponseWriter, r *http.Request, status int, data adminScriptsData) {
	scripts, err := s.Scripts.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data.Scripts = scripts
	if data.Form.Placement == "" {
		data.Form.Placement = model.PlacementHead
	}
	s.render(w, r, status, "admin/scripts", "Scripts", data)
}

func (s *Server) handleAdminScripts(w http.ResponseWriter, r *http.Request) {
	s.renderScripts(w, r, http.StatusOK, adminScriptsData{Flash: flash(r)})
}

func (s *Server) handleAdminScriptCreate(w http.ResponseWriter, r *http.Request) {
	sc := model.Script{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(r.FormValue("name")),
		Content:   strings.TrimSpace(r.FormValue("content")),
		Placement: r.FormValue("placement"),
		IsActive:  r.FormValue("is_active") != "",
		CreatedAt: s.Now(),
	}
	var msg string
	switch {
	case sc.Name == "":
		msg = "Informe o nome do script."
	case sc.Content == "":
		msg = "Informe o conteúdo do script."
	case !model.ValidPlacement(sc.Placement):
		msg = "Posição inválida."
	}
	if msg != "" {
		s.renderScripts(w, r, http.StatusUnprocessableEntity, adminScriptsData{Form: sc, Error: msg})
		return
	}
	if err := s.Scripts.Create(r.Context(), sc); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.Log.Info("script criado", zap.String("nome", sc.Name), zap.String("posicao", sc.Placement))
	redirect(w, r, "/pgadmin/scripts?ok=criado")
}

func (s *Server) handleAdminScriptToggle(w http.ResponseWriter, r *http.Request) {
	err := s.Scripts.SetActive(r.Context(), r.PathValue("id"), r.FormValue("active") == "true")
	if errors.Is(err, repository.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/pgadmin/scripts?ok=salvo")
}

func (s *Server) handleAdminScriptDelete(w http.ResponseWriter, r *http.Request) {
	err := s.Scripts.Delete(r.Context(), r.PathValue("id"))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/pgadmin/scripts?ok=excluido")
}
